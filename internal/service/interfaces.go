package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/pageza/recipebox/backend/internal/metadata"
	"github.com/pageza/recipebox/backend/internal/models"
	"github.com/pageza/recipebox/backend/internal/types"
)

var (
	// ErrCollaboratorUnavailable wraps any storage or assistant failure.
	ErrCollaboratorUnavailable = errors.New("collaborator unavailable")
	// ErrNotFound is returned by stores when a row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput is returned for requests that fail validation.
	ErrInvalidInput = errors.New("invalid input")
)

// RecipeListFilter narrows ListRecipes. Owner is accepted for parity with
// hosted stores and ignored by the single owner repository.
type RecipeListFilter struct {
	NoteType string
	Owner    string
}

// RecipeStore persists recipes.
type RecipeStore interface {
	ListRecipes(ctx context.Context, filter RecipeListFilter) ([]models.Recipe, error)
	GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error)
	UpdateRecipeMetadata(ctx context.Context, id uuid.UUID, raw []byte) error
	DeleteRecipe(ctx context.Context, id uuid.UUID) error
	InsertRecipe(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error)
}

// FreezerStore persists freezer inventory and the usage log.
type FreezerStore interface {
	ListItems(ctx context.Context) ([]models.FreezerItem, error)
	GetItem(ctx context.Context, id uuid.UUID) (*models.FreezerItem, error)
	CreateItem(ctx context.Context, item *models.FreezerItem) error
	UpdateItem(ctx context.Context, item *models.FreezerItem) error
	DeleteItem(ctx context.Context, id uuid.UUID) error
	UpdateItemQuantity(ctx context.Context, id uuid.UUID, quantity float64) error
	InsertUsageLog(ctx context.Context, entry *models.UsageLogEntry) error
	ListUsage(ctx context.Context, recipeID uuid.UUID) ([]models.UsageLogEntry, error)
}

// SuggestionService is the assistant. Its output is untrusted.
type SuggestionService interface {
	SuggestDietaryTags(ctx context.Context, title, content string) ([]string, error)
	RecommendRecipes(ctx context.Context, query string, recipes []types.RecipeContext, freezer []types.FreezerContext) (*types.Recommendation, error)
}

// DraftStore holds in-progress metadata edits. Get returns nil, nil when
// there is no draft.
type DraftStore interface {
	Get(ctx context.Context, id uuid.UUID) (*metadata.Metadata, error)
	Put(ctx context.Context, id uuid.UUID, m metadata.Metadata) error
	Delete(ctx context.Context, id uuid.UUID) error
}
