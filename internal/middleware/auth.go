package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipebox/backend/internal/types"
)

// Context keys set by AuthMiddleware.
const (
	ContextSessionID = "session_id"
	ContextSubject   = "subject"
)

// SessionValidator validates session tokens issued by the PIN unlock.
type SessionValidator interface {
	ValidateToken(token string) (*types.SessionClaims, error)
}

// AuthMiddleware creates a middleware that validates session tokens
func AuthMiddleware(validator SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := validator.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		c.Set(ContextSessionID, claims.SessionID)
		c.Set(ContextSubject, claims.Subject)
		c.Next()
	}
}
