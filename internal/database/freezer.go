package database

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/recipebox/backend/internal/models"
)

// FreezerRepository implements service.FreezerStore with gorm
type FreezerRepository struct {
	db *gorm.DB
}

func NewFreezerRepository(db *gorm.DB) *FreezerRepository {
	return &FreezerRepository{db: db}
}

func (r *FreezerRepository) ListItems(ctx context.Context) ([]models.FreezerItem, error) {
	var items []models.FreezerItem
	if err := r.db.WithContext(ctx).Order("category ASC").Order("item_name ASC").Find(&items).Error; err != nil {
		return nil, storeError("list freezer items", err)
	}
	return items, nil
}

func (r *FreezerRepository) GetItem(ctx context.Context, id uuid.UUID) (*models.FreezerItem, error) {
	var item models.FreezerItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, storeError("get freezer item", err)
	}
	return &item, nil
}

func (r *FreezerRepository) CreateItem(ctx context.Context, item *models.FreezerItem) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return storeError("create freezer item", err)
	}
	return nil
}

func (r *FreezerRepository) UpdateItem(ctx context.Context, item *models.FreezerItem) error {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return storeError("update freezer item", err)
	}
	return nil
}

func (r *FreezerRepository) DeleteItem(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.FreezerItem{}, "id = ?", id)
	if res.Error != nil {
		return storeError("delete freezer item", res.Error)
	}
	if res.RowsAffected == 0 {
		return storeError("delete freezer item", gorm.ErrRecordNotFound)
	}
	return nil
}

// UpdateItemQuantity writes the quantity column only
func (r *FreezerRepository) UpdateItemQuantity(ctx context.Context, id uuid.UUID, quantity float64) error {
	res := r.db.WithContext(ctx).
		Model(&models.FreezerItem{}).
		Where("id = ?", id).
		Update("quantity", quantity)
	if res.Error != nil {
		return storeError("update freezer quantity", res.Error)
	}
	if res.RowsAffected == 0 {
		return storeError("update freezer quantity", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *FreezerRepository) InsertUsageLog(ctx context.Context, entry *models.UsageLogEntry) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return storeError("insert usage log", err)
	}
	return nil
}

// ListUsage returns a recipe's usage entries newest first
func (r *FreezerRepository) ListUsage(ctx context.Context, recipeID uuid.UUID) ([]models.UsageLogEntry, error) {
	var entries []models.UsageLogEntry
	err := r.db.WithContext(ctx).
		Where("recipe_id = ?", recipeID).
		Order("used_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, storeError("list usage log", err)
	}
	return entries, nil
}
