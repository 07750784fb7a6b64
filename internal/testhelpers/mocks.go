package testhelpers

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/recipebox/backend/internal/models"
	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/types"
)

// MockRecipeStore is a mock implementation of service.RecipeStore
type MockRecipeStore struct {
	mock.Mock
}

func (m *MockRecipeStore) ListRecipes(ctx context.Context, filter service.RecipeListFilter) ([]models.Recipe, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Recipe), args.Error(1)
}

func (m *MockRecipeStore) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeStore) UpdateRecipeMetadata(ctx context.Context, id uuid.UUID, raw []byte) error {
	args := m.Called(ctx, id, raw)
	return args.Error(0)
}

func (m *MockRecipeStore) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRecipeStore) InsertRecipe(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error) {
	args := m.Called(ctx, recipe)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

// MockFreezerStore is a mock implementation of service.FreezerStore
type MockFreezerStore struct {
	mock.Mock
}

func (m *MockFreezerStore) ListItems(ctx context.Context) ([]models.FreezerItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FreezerItem), args.Error(1)
}

func (m *MockFreezerStore) GetItem(ctx context.Context, id uuid.UUID) (*models.FreezerItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FreezerItem), args.Error(1)
}

func (m *MockFreezerStore) CreateItem(ctx context.Context, item *models.FreezerItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockFreezerStore) UpdateItem(ctx context.Context, item *models.FreezerItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockFreezerStore) DeleteItem(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFreezerStore) UpdateItemQuantity(ctx context.Context, id uuid.UUID, quantity float64) error {
	args := m.Called(ctx, id, quantity)
	return args.Error(0)
}

func (m *MockFreezerStore) InsertUsageLog(ctx context.Context, entry *models.UsageLogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockFreezerStore) ListUsage(ctx context.Context, recipeID uuid.UUID) ([]models.UsageLogEntry, error) {
	args := m.Called(ctx, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.UsageLogEntry), args.Error(1)
}

// MockSuggestionService is a mock implementation of service.SuggestionService
type MockSuggestionService struct {
	mock.Mock
}

func (m *MockSuggestionService) SuggestDietaryTags(ctx context.Context, title, content string) ([]string, error) {
	args := m.Called(ctx, title, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockSuggestionService) RecommendRecipes(ctx context.Context, query string, recipes []types.RecipeContext, freezer []types.FreezerContext) (*types.Recommendation, error) {
	args := m.Called(ctx, query, recipes, freezer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Recommendation), args.Error(1)
}

var (
	_ service.RecipeStore       = (*MockRecipeStore)(nil)
	_ service.FreezerStore      = (*MockFreezerStore)(nil)
	_ service.SuggestionService = (*MockSuggestionService)(nil)
)
