package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipebox/backend/internal/middleware"
	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/types"
)

type AssistantHandler struct {
	recipes *service.RecipeService
	limiter *middleware.RateLimiter
}

func NewAssistantHandler(recipes *service.RecipeService, limiter *middleware.RateLimiter) *AssistantHandler {
	return &AssistantHandler{recipes: recipes, limiter: limiter}
}

func (h *AssistantHandler) RegisterRoutes(router *gin.RouterGroup) {
	// Checking the limit does not count against it.
	router.GET("/assistant/limit", h.Limit)

	assistant := router.Group("/assistant")
	assistant.Use(h.limiter.RateLimitMiddleware())
	{
		assistant.POST("/recommend", h.Recommend)
	}
}

// Recommend asks the assistant which recipes fit the request.
func (h *AssistantHandler) Recommend(c *gin.Context) {
	var req types.RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rec, err := h.recipes.Recommend(c.Request.Context(), req.Query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// Limit reports how many assistant calls the session has left.
func (h *AssistantHandler) Limit(c *gin.Context) {
	if !h.limiter.Enabled() {
		c.JSON(http.StatusOK, gin.H{"enabled": false})
		return
	}
	remaining, resetTime, err := h.limiter.Remaining(c.Request.Context(), middleware.Subject(c))
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check rate limit"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"enabled":    true,
		"limit":      h.limiter.Limit(),
		"remaining":  remaining,
		"reset_time": resetTime.Unix(),
		"window":     h.limiter.Window().String(),
	})
}
