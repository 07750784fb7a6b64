package api

import (
	"github.com/gin-gonic/gin"

	"github.com/pageza/recipebox/backend/internal/middleware"
	"github.com/pageza/recipebox/backend/internal/service"
)

// Services are the dependencies of the v1 API.
type Services struct {
	Sessions          *service.SessionService
	Recipes           *service.RecipeService
	Freezer           *service.FreezerService
	AssistantLimiter  *middleware.RateLimiter
	LowStockThreshold float64
}

// RegisterRoutes registers all API routes. Everything except the unlock
// endpoint requires a session token.
func RegisterRoutes(router *gin.Engine, svc Services) {
	v1 := router.Group("/api/v1")
	{
		NewAuthHandler(svc.Sessions).RegisterRoutes(v1)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(svc.Sessions))

		NewRecipeHandler(svc.Recipes, svc.Freezer, svc.AssistantLimiter).RegisterRoutes(protected)
		NewFreezerHandler(svc.Freezer, svc.LowStockThreshold).RegisterRoutes(protected)
		NewAssistantHandler(svc.Recipes, svc.AssistantLimiter).RegisterRoutes(protected)
	}
}
