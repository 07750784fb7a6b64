package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipebox/backend/internal/database"
	"github.com/pageza/recipebox/backend/internal/models"
	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/testhelpers"
	"github.com/pageza/recipebox/backend/internal/types"
)

func setupFreezerService(t *testing.T) (*service.FreezerService, *database.FreezerRepository) {
	t.Helper()
	repo := database.NewFreezerRepository(testhelpers.NewSQLiteDB(t))
	return service.NewFreezerService(repo, zerolog.Nop()), repo
}

func TestFreezerService_ItemValidation(t *testing.T) {
	svc, _ := setupFreezerService(t)
	ctx := context.Background()

	item, err := svc.CreateItem(ctx, service.FreezerItemInput{ItemName: " Meatballs ", Quantity: 12})
	require.NoError(t, err)
	assert.Equal(t, "Meatballs", item.ItemName)
	assert.Equal(t, types.UnitServings, item.Unit)
	assert.Equal(t, types.FreezerPreparedComponents, item.Category)

	_, err = svc.CreateItem(ctx, service.FreezerItemInput{ItemName: "", Quantity: 1})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
	_, err = svc.CreateItem(ctx, service.FreezerItemInput{ItemName: "Peas", Quantity: -1})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
	_, err = svc.CreateItem(ctx, service.FreezerItemInput{ItemName: "Peas", Quantity: 1, Unit: "barrels"})
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	updated, err := svc.UpdateItem(ctx, item.ID, service.FreezerItemInput{
		ItemName: "Turkey meatballs", Quantity: 8, Unit: "portions", Category: "Proteins",
	})
	require.NoError(t, err)
	assert.Equal(t, types.FreezerProteins, updated.Category)

	_, err = svc.UpdateItem(ctx, uuid.New(), service.FreezerItemInput{ItemName: "x", Quantity: 1})
	assert.ErrorIs(t, err, service.ErrNotFound)

	require.NoError(t, svc.DeleteItem(ctx, item.ID))
	assert.ErrorIs(t, svc.DeleteItem(ctx, item.ID), service.ErrNotFound)
}

func TestFreezerService_ConsumeClampsAndLogsRequested(t *testing.T) {
	svc, repo := setupFreezerService(t)
	ctx := context.Background()
	recipeID := uuid.New()

	item, err := svc.CreateItem(ctx, service.FreezerItemInput{ItemName: "Pesto cubes", Quantity: 3, Unit: "cubes"})
	require.NoError(t, err)

	outcomes := svc.Consume(ctx, recipeID, []service.ConsumptionRequest{{ItemID: item.ID, QuantityUsed: 10}})
	require.Len(t, outcomes, 1)
	out := outcomes[0]
	assert.Equal(t, service.ConsumptionApplied, out.Status)
	assert.True(t, out.Clamped)
	assert.InDelta(t, 3, out.Previous, 0.0001)
	assert.InDelta(t, 0, out.Remaining, 0.0001)
	assert.Equal(t, "Pesto cubes", out.ItemName)

	got, err := repo.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.InDelta(t, 0, got.Quantity, 0.0001)

	history, err := svc.UsageHistory(ctx, recipeID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.InDelta(t, 10, history[0].QuantityUsed, 0.0001, "the requested amount is logged, not the clamped one")
	assert.Equal(t, "Pesto cubes", history[0].FreezerItemName)
}

func TestFreezerService_ConsumeBatchIsolation(t *testing.T) {
	svc, repo := setupFreezerService(t)
	ctx := context.Background()
	recipeID := uuid.New()

	stock, err := svc.CreateItem(ctx, service.FreezerItemInput{ItemName: "Stock", Quantity: 4})
	require.NoError(t, err)
	rice, err := svc.CreateItem(ctx, service.FreezerItemInput{ItemName: "Rice", Quantity: 2.5})
	require.NoError(t, err)
	missing := uuid.New()

	outcomes := svc.Consume(ctx, recipeID, []service.ConsumptionRequest{
		{ItemID: stock.ID, QuantityUsed: 1.5},
		{ItemID: missing, QuantityUsed: 1},
		{ItemID: rice.ID, QuantityUsed: 0},
		{ItemID: rice.ID, QuantityUsed: 1},
	})
	require.Len(t, outcomes, 4)
	assert.Equal(t, service.ConsumptionApplied, outcomes[0].Status)
	assert.Equal(t, service.ConsumptionSkippedMissing, outcomes[1].Status)
	assert.Equal(t, service.ConsumptionSkippedNonPositive, outcomes[2].Status)
	assert.Equal(t, service.ConsumptionApplied, outcomes[3].Status)
	assert.False(t, outcomes[3].Clamped)

	got, err := repo.GetItem(ctx, stock.ID)
	require.NoError(t, err)
	assert.InDelta(t, 2.5, got.Quantity, 0.0001)
	got, err = repo.GetItem(ctx, rice.ID)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, got.Quantity, 0.0001)

	history, err := svc.UsageHistory(ctx, recipeID)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestFreezerService_ConsumeItems(t *testing.T) {
	svc, repo := setupFreezerService(t)
	ctx := context.Background()
	recipeID := uuid.New()

	stock, err := svc.CreateItem(ctx, service.FreezerItemInput{ItemName: "Stock", Quantity: 4})
	require.NoError(t, err)
	missing := uuid.New()

	outcomes := svc.ConsumeItems(ctx, recipeID, map[string]float64{
		"zz-not-an-id":    2,
		stock.ID.String(): 1,
		missing.String():  1,
	})
	require.Len(t, outcomes, 3)

	byID := make(map[string]service.ConsumptionOutcome, len(outcomes))
	for i, out := range outcomes {
		if i > 0 {
			assert.Less(t, outcomes[i-1].ItemID, out.ItemID)
		}
		byID[out.ItemID] = out
	}
	assert.Equal(t, service.ConsumptionSkippedMissing, byID["zz-not-an-id"].Status)
	assert.Equal(t, 2.0, byID["zz-not-an-id"].QuantityUsed)
	assert.Equal(t, service.ConsumptionSkippedMissing, byID[missing.String()].Status)
	assert.Equal(t, service.ConsumptionApplied, byID[stock.ID.String()].Status)

	got, err := repo.GetItem(ctx, stock.ID)
	require.NoError(t, err)
	assert.InDelta(t, 3, got.Quantity, 0.0001)

	history, err := svc.UsageHistory(ctx, recipeID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestFreezerService_ConsumeStoreFailures(t *testing.T) {
	ctx := context.Background()
	recipeID := uuid.New()
	item := &models.FreezerItem{ID: uuid.New(), ItemName: "Dumplings", Quantity: 20}
	storeDown := errors.New("connection reset")

	t.Run("log failure still decrements", func(t *testing.T) {
		store := new(testhelpers.MockFreezerStore)
		store.On("GetItem", mock.Anything, item.ID).Return(item, nil)
		store.On("InsertUsageLog", mock.Anything, mock.AnythingOfType("*models.UsageLogEntry")).Return(storeDown)
		store.On("UpdateItemQuantity", mock.Anything, item.ID, float64(14)).Return(nil)

		svc := service.NewFreezerService(store, zerolog.Nop())
		out := svc.Consume(ctx, recipeID, []service.ConsumptionRequest{{ItemID: item.ID, QuantityUsed: 6}})
		require.Len(t, out, 1)
		assert.Equal(t, service.ConsumptionLogFailed, out[0].Status)
		assert.InDelta(t, 14, out[0].Remaining, 0.0001)
		assert.Contains(t, out[0].Error, "connection reset")
		store.AssertExpectations(t)
	})

	t.Run("update failure keeps previous quantity", func(t *testing.T) {
		store := new(testhelpers.MockFreezerStore)
		store.On("GetItem", mock.Anything, item.ID).Return(item, nil)
		store.On("InsertUsageLog", mock.Anything, mock.AnythingOfType("*models.UsageLogEntry")).Return(nil)
		store.On("UpdateItemQuantity", mock.Anything, item.ID, float64(19)).Return(storeDown)

		svc := service.NewFreezerService(store, zerolog.Nop())
		out := svc.Consume(ctx, recipeID, []service.ConsumptionRequest{{ItemID: item.ID, QuantityUsed: 1}})
		require.Len(t, out, 1)
		assert.Equal(t, service.ConsumptionUpdateFailed, out[0].Status)
		assert.InDelta(t, 20, out[0].Remaining, 0.0001)
		store.AssertExpectations(t)
	})

	t.Run("lookup failure skips the entry", func(t *testing.T) {
		store := new(testhelpers.MockFreezerStore)
		store.On("GetItem", mock.Anything, item.ID).Return(nil, storeDown)

		svc := service.NewFreezerService(store, zerolog.Nop())
		out := svc.Consume(ctx, recipeID, []service.ConsumptionRequest{{ItemID: item.ID, QuantityUsed: 1}})
		require.Len(t, out, 1)
		assert.Equal(t, service.ConsumptionLookupFailed, out[0].Status)
		store.AssertNotCalled(t, "InsertUsageLog", mock.Anything, mock.Anything)
		store.AssertNotCalled(t, "UpdateItemQuantity", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestLowStock(t *testing.T) {
	items := []models.FreezerItem{
		{ItemName: "Broth", Quantity: 4.9},
		{ItemName: "apples", Quantity: 1},
		{ItemName: "Bacon", Quantity: 1},
		{ItemName: "Corn", Quantity: 5},
		{ItemName: "Empty", Quantity: 0},
	}

	low := service.LowStock(items, 0)
	names := make([]string, 0, len(low))
	for _, it := range low {
		names = append(names, it.ItemName)
	}
	assert.Equal(t, []string{"Empty", "apples", "Bacon", "Broth"}, names)

	assert.Len(t, service.LowStock(items, 2), 3)
	assert.Empty(t, service.LowStock(nil, 5))
}

func TestGroupByCategory(t *testing.T) {
	items := []models.FreezerItem{
		{ItemName: "Salmon", Category: types.FreezerProteins},
		{ItemName: "Mystery", Category: "Leftovers"},
		{ItemName: "Chicken", Category: types.FreezerProteins},
		{ItemName: "Pesto", Category: types.FreezerPreparedComponents},
	}

	groups := service.GroupByCategory(items)
	require.Len(t, groups, 3)
	assert.Equal(t, types.FreezerPreparedComponents, groups[0].Category)
	assert.Equal(t, types.FreezerProteins, groups[1].Category)
	assert.Equal(t, "Chicken", groups[1].Items[0].ItemName)
	assert.Equal(t, "Salmon", groups[1].Items[1].ItemName)
	assert.Equal(t, types.FreezerOther, groups[2].Category)
	assert.Equal(t, "Mystery", groups[2].Items[0].ItemName)
}

func TestFreezerService_Inventory(t *testing.T) {
	svc, _ := setupFreezerService(t)
	ctx := context.Background()

	_, err := svc.CreateItem(ctx, service.FreezerItemInput{ItemName: "Peas", Quantity: 2, Category: "Vegetables"})
	require.NoError(t, err)
	_, err = svc.CreateItem(ctx, service.FreezerItemInput{ItemName: "Lasagna", Quantity: 8, Category: "Complete Meals"})
	require.NoError(t, err)

	inv, err := svc.Inventory(ctx, service.DefaultLowStockThreshold)
	require.NoError(t, err)
	assert.Equal(t, 2, inv.Total)
	require.Len(t, inv.LowStock, 1)
	assert.Equal(t, "Peas", inv.LowStock[0].ItemName)
	require.Len(t, inv.Groups, 2)
	assert.Equal(t, types.FreezerVegetables, inv.Groups[0].Category)
}
