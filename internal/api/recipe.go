package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipebox/backend/internal/filter"
	"github.com/pageza/recipebox/backend/internal/metadata"
	"github.com/pageza/recipebox/backend/internal/middleware"
	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/types"
)

type RecipeHandler struct {
	recipes *service.RecipeService
	freezer *service.FreezerService
	limiter *middleware.RateLimiter
}

func NewRecipeHandler(recipes *service.RecipeService, freezer *service.FreezerService, limiter *middleware.RateLimiter) *RecipeHandler {
	return &RecipeHandler{
		recipes: recipes,
		freezer: freezer,
		limiter: limiter,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.POST("", h.CreateRecipe)
		recipes.GET("/:id", h.GetRecipe)
		recipes.DELETE("/:id", h.DeleteRecipe)

		recipes.PATCH("/:id/draft", h.StageEdit)
		recipes.POST("/:id/draft/save", h.SaveDraft)
		recipes.DELETE("/:id/draft", h.DiscardDraft)

		recipes.POST("/:id/hide", h.Hide)
		recipes.POST("/:id/unhide", h.Unhide)

		recipes.POST("/:id/notes", h.AddNote)
		recipes.DELETE("/:id/notes/:index", h.DeleteNote)

		recipes.POST("/:id/auto-tag", h.limiter.RateLimitMiddleware(), h.AutoTag)

		recipes.POST("/:id/consume", h.Consume)
		recipes.GET("/:id/usage", h.UsageHistory)
	}
}

// ListRecipes filters the collection. Facets and counts always cover every
// recipe, not just the matches.
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	status, err := filter.ParseStatus(c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}

	list, err := h.recipes.List(c.Request.Context(), filter.Criteria{
		Query:    c.Query("q"),
		Folder:   c.Query("folder"),
		Status:   status,
		Dietary:  c.Query("dietary"),
		Category: c.Query("category"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req types.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in := service.NewRecipe{
		Title:      req.Title,
		Content:    req.Content,
		SourceURL:  req.SourceURL,
		SourceType: req.SourceType,
		Notes:      req.Notes,
		Tags:       req.Tags,
	}
	if req.Metadata != nil {
		in.Metadata = req.Metadata
	}
	recipe, err := h.recipes.CreateRecipe(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"recipe": recipe})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	recipe, err := h.recipes.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.recipes.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// StageEdit applies a partial edit to the draft. Nothing is persisted.
func (h *RecipeHandler) StageEdit(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var patch metadata.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if patch.Empty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no changes given"})
		return
	}

	recipe, err := h.recipes.StageEdit(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// SaveDraft persists the draft. With strict=true an invalid value rejects
// the save and keeps the draft.
func (h *RecipeHandler) SaveDraft(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	strict := false
	if v := c.Query("strict"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "strict must be a boolean"})
			return
		}
		strict = parsed
	}

	recipe, err := h.recipes.SaveDraft(c.Request.Context(), id, strict)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) DiscardDraft(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.recipes.DiscardDraft(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) Hide(c *gin.Context)   { h.setHidden(c, true) }
func (h *RecipeHandler) Unhide(c *gin.Context) { h.setHidden(c, false) }

func (h *RecipeHandler) setHidden(c *gin.Context, hidden bool) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	recipe, err := h.recipes.SetHidden(c.Request.Context(), id, hidden)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// AddNote prepends a dated note. Blank text is a no-op reported with
// added=false.
func (h *RecipeHandler) AddNote(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req types.AddNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe, added, err := h.recipes.AddNote(c.Request.Context(), id, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipe": recipe, "added": added})
}

func (h *RecipeHandler) DeleteNote(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "note index must be an integer"})
		return
	}

	recipe, err := h.recipes.DeleteNote(c.Request.Context(), id, index)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// AutoTag merges suggested dietary tags into the draft.
func (h *RecipeHandler) AutoTag(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	result, err := h.recipes.AutoTag(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Consume applies a consumption batch for the recipe.
func (h *RecipeHandler) Consume(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req types.ConsumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.recipes.Get(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	outcomes := h.freezer.ConsumeItems(c.Request.Context(), id, req.Items)
	c.JSON(http.StatusOK, gin.H{"outcomes": outcomes})
}

func (h *RecipeHandler) UsageHistory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	entries, err := h.freezer.UsageHistory(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"usage": entries})
}
