package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/recipebox/backend/internal/filter"
	"github.com/pageza/recipebox/backend/internal/metadata"
	"github.com/pageza/recipebox/backend/internal/service"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidPIN),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, metadata.ErrValidationRejected),
		errors.Is(err, metadata.ErrIndexOutOfRange),
		errors.Is(err, filter.ErrInvalidStatus):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrCollaboratorUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the JSON error body. Server side failures are also
// attached to the context so the error middleware logs them.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + param})
		return uuid.Nil, false
	}
	return id, true
}
