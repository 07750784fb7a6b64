package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipebox/backend/internal/database"
	"github.com/pageza/recipebox/backend/internal/models"
	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/testhelpers"
	"github.com/pageza/recipebox/backend/internal/types"
)

func TestFreezerRepository_CRUD(t *testing.T) {
	db := testhelpers.NewSQLiteDB(t)
	repo := database.NewFreezerRepository(db)
	ctx := context.Background()

	item := &models.FreezerItem{
		ItemName: "Chicken stock",
		Quantity: 6,
		Unit:     types.UnitContainers,
		Category: types.FreezerPreparedComponents,
	}
	require.NoError(t, repo.CreateItem(ctx, item))
	assert.NotEqual(t, uuid.Nil, item.ID)

	require.NoError(t, repo.UpdateItemQuantity(ctx, item.ID, 2.5))
	got, err := repo.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.InDelta(t, 2.5, got.Quantity, 0.0001)
	assert.Equal(t, "Chicken stock", got.ItemName)

	got.ItemName = "Turkey stock"
	require.NoError(t, repo.UpdateItem(ctx, got))

	items, err := repo.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Turkey stock", items[0].ItemName)

	require.NoError(t, repo.DeleteItem(ctx, item.ID))
	_, err = repo.GetItem(ctx, item.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
	assert.ErrorIs(t, repo.DeleteItem(ctx, item.ID), service.ErrNotFound)
	assert.ErrorIs(t, repo.UpdateItemQuantity(ctx, item.ID, 1), service.ErrNotFound)
}

func TestFreezerRepository_UsageNewestFirst(t *testing.T) {
	db := testhelpers.NewSQLiteDB(t)
	repo := database.NewFreezerRepository(db)
	ctx := context.Background()
	recipeID := uuid.New()
	itemID := uuid.New()
	base := time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC)

	require.NoError(t, repo.InsertUsageLog(ctx, &models.UsageLogEntry{
		RecipeID: recipeID, FreezerItemID: itemID, FreezerItemName: "Pesto", QuantityUsed: 1, UsedAt: base,
	}))
	require.NoError(t, repo.InsertUsageLog(ctx, &models.UsageLogEntry{
		RecipeID: recipeID, FreezerItemID: itemID, FreezerItemName: "Pesto", QuantityUsed: 3, UsedAt: base.Add(24 * time.Hour),
	}))
	require.NoError(t, repo.InsertUsageLog(ctx, &models.UsageLogEntry{
		RecipeID: uuid.New(), FreezerItemID: itemID, FreezerItemName: "Pesto", QuantityUsed: 7,
	}))

	entries, err := repo.ListUsage(ctx, recipeID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.InDelta(t, 3, entries[0].QuantityUsed, 0.0001)
	assert.InDelta(t, 1, entries[1].QuantityUsed, 0.0001)
}
