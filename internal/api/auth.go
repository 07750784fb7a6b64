package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipebox/backend/internal/types"
)

// Unlocker exchanges the owner PIN for a session token.
type Unlocker interface {
	Unlock(pin string) (string, error)
}

type AuthHandler struct {
	sessions Unlocker
}

func NewAuthHandler(sessions Unlocker) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/unlock", h.Unlock)
	}
}

// Unlock handles the PIN gate
func (h *AuthHandler) Unlock(c *gin.Context) {
	var req types.UnlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pin is required"})
		return
	}

	token, err := h.sessions.Unlock(req.PIN)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
