package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/pageza/recipebox/backend/internal/models"
	"github.com/pageza/recipebox/backend/internal/service"
)

// storeError maps gorm errors onto the service error set.
func storeError(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", op, service.ErrNotFound)
	}
	return fmt.Errorf("%s: %w: %v", op, service.ErrCollaboratorUnavailable, err)
}

// RecipeRepository implements service.RecipeStore with gorm
type RecipeRepository struct {
	db *gorm.DB
}

func NewRecipeRepository(db *gorm.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

// ListRecipes returns recipes newest first
func (r *RecipeRepository) ListRecipes(ctx context.Context, filter service.RecipeListFilter) ([]models.Recipe, error) {
	noteType := filter.NoteType
	if noteType == "" {
		noteType = models.NoteTypeRecipe
	}
	var recipes []models.Recipe
	err := r.db.WithContext(ctx).
		Where("note_type = ?", noteType).
		Order("created_at DESC").
		Order("id DESC").
		Find(&recipes).Error
	if err != nil {
		return nil, storeError("list recipes", err)
	}
	return recipes, nil
}

func (r *RecipeRepository) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := r.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		return nil, storeError("get recipe", err)
	}
	return &recipe, nil
}

// UpdateRecipeMetadata replaces the metadata blob only
func (r *RecipeRepository) UpdateRecipeMetadata(ctx context.Context, id uuid.UUID, raw []byte) error {
	res := r.db.WithContext(ctx).
		Model(&models.Recipe{}).
		Where("id = ?", id).
		Update("metadata", datatypes.JSON(raw))
	if res.Error != nil {
		return storeError("update recipe metadata", res.Error)
	}
	if res.RowsAffected == 0 {
		return storeError("update recipe metadata", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *RecipeRepository) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Recipe{}, "id = ?", id)
	if res.Error != nil {
		return storeError("delete recipe", res.Error)
	}
	if res.RowsAffected == 0 {
		return storeError("delete recipe", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *RecipeRepository) InsertRecipe(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error) {
	if err := r.db.WithContext(ctx).Create(recipe).Error; err != nil {
		return nil, storeError("insert recipe", err)
	}
	return recipe, nil
}

// RawMetadata is one recipe's stored metadata, as used by backups and the
// metadata migration.
type RawMetadata struct {
	ID       uuid.UUID      `json:"id"`
	Title    string         `json:"title"`
	Metadata datatypes.JSON `json:"metadata"`
}

// ListRawMetadata returns the stored metadata of every recipe untouched
func (r *RecipeRepository) ListRawMetadata(ctx context.Context) ([]RawMetadata, error) {
	var rows []RawMetadata
	err := r.db.WithContext(ctx).
		Model(&models.Recipe{}).
		Select("id", "title", "metadata").
		Where("note_type = ?", models.NoteTypeRecipe).
		Order("created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, storeError("list raw metadata", err)
	}
	return rows, nil
}
