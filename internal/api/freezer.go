package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/types"
)

type FreezerHandler struct {
	freezer           *service.FreezerService
	lowStockThreshold float64
}

func NewFreezerHandler(freezer *service.FreezerService, lowStockThreshold float64) *FreezerHandler {
	return &FreezerHandler{freezer: freezer, lowStockThreshold: lowStockThreshold}
}

func (h *FreezerHandler) RegisterRoutes(router *gin.RouterGroup) {
	freezer := router.Group("/freezer")
	{
		freezer.GET("", h.Inventory)
		freezer.POST("", h.CreateItem)
		freezer.PUT("/:id", h.UpdateItem)
		freezer.DELETE("/:id", h.DeleteItem)
	}
}

func itemInput(req types.FreezerItemRequest) service.FreezerItemInput {
	return service.FreezerItemInput{
		ItemName: req.ItemName,
		Quantity: *req.Quantity,
		Unit:     req.Unit,
		Category: req.Category,
	}
}

// Inventory returns items grouped by category with the low stock list.
func (h *FreezerHandler) Inventory(c *gin.Context) {
	inv, err := h.freezer.Inventory(c.Request.Context(), h.lowStockThreshold)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (h *FreezerHandler) CreateItem(c *gin.Context) {
	var req types.FreezerItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item, err := h.freezer.CreateItem(c.Request.Context(), itemInput(req))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": item})
}

func (h *FreezerHandler) UpdateItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req types.FreezerItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item, err := h.freezer.UpdateItem(c.Request.Context(), id, itemInput(req))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

func (h *FreezerHandler) DeleteItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.freezer.DeleteItem(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
