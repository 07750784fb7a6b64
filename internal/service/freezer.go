package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pageza/recipebox/backend/internal/models"
	"github.com/pageza/recipebox/backend/internal/types"
)

// DefaultLowStockThreshold flags items with fewer units than this.
const DefaultLowStockThreshold = 5

// ConsumptionStatus is the per entry outcome of a consumption batch.
type ConsumptionStatus string

const (
	ConsumptionApplied            ConsumptionStatus = "applied"
	ConsumptionSkippedNonPositive ConsumptionStatus = "skipped_nonpositive"
	ConsumptionSkippedMissing     ConsumptionStatus = "skipped_missing"
	ConsumptionLookupFailed       ConsumptionStatus = "lookup_failed"
	ConsumptionLogFailed          ConsumptionStatus = "log_failed"
	ConsumptionUpdateFailed       ConsumptionStatus = "update_failed"
)

// ConsumptionRequest is one line of a consumption batch.
type ConsumptionRequest struct {
	ItemID       uuid.UUID
	QuantityUsed float64
}

// ConsumptionOutcome reports what happened to one request. Clamped is set
// when more was used than was in stock; the stock still stops at zero.
type ConsumptionOutcome struct {
	ItemID       string            `json:"item_id"`
	ItemName     string            `json:"item_name,omitempty"`
	QuantityUsed float64           `json:"quantity_used"`
	Previous     float64           `json:"previous"`
	Remaining    float64           `json:"remaining"`
	Clamped      bool              `json:"clamped"`
	Status       ConsumptionStatus `json:"status"`
	Error        string            `json:"error,omitempty"`
}

// FreezerItemInput is the validated shape for create and update.
type FreezerItemInput struct {
	ItemName string
	Quantity float64
	Unit     string
	Category string
}

// CategoryGroup is one inventory section.
type CategoryGroup struct {
	Category types.FreezerCategory `json:"category"`
	Items    []models.FreezerItem  `json:"items"`
}

// Inventory is the freezer page model.
type Inventory struct {
	Groups   []CategoryGroup      `json:"groups"`
	LowStock []models.FreezerItem `json:"low_stock"`
	Total    int                  `json:"total"`
}

// FreezerService handles freezer inventory and consumption
type FreezerService struct {
	store FreezerStore
	log   zerolog.Logger
	now   func() time.Time
}

// NewFreezerService creates a new FreezerService instance
func NewFreezerService(store FreezerStore, log zerolog.Logger) *FreezerService {
	return &FreezerService{
		store: store,
		log:   log.With().Str("component", "freezer").Logger(),
		now:   time.Now,
	}
}

func validateItem(in FreezerItemInput) (models.FreezerItem, error) {
	name := strings.TrimSpace(in.ItemName)
	if name == "" {
		return models.FreezerItem{}, fmt.Errorf("%w: item name is required", ErrInvalidInput)
	}
	if math.IsNaN(in.Quantity) || math.IsInf(in.Quantity, 0) || in.Quantity < 0 {
		return models.FreezerItem{}, fmt.Errorf("%w: quantity must be a non-negative number", ErrInvalidInput)
	}
	unit, ok := types.ParseFreezerUnit(in.Unit)
	if !ok {
		return models.FreezerItem{}, fmt.Errorf("%w: unknown unit %q", ErrInvalidInput, in.Unit)
	}
	category, ok := types.ParseFreezerCategory(in.Category)
	if !ok {
		return models.FreezerItem{}, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, in.Category)
	}
	return models.FreezerItem{ItemName: name, Quantity: in.Quantity, Unit: unit, Category: category}, nil
}

// ListItems returns every freezer item
func (s *FreezerService) ListItems(ctx context.Context) ([]models.FreezerItem, error) {
	items, err := s.store.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list freezer items: %w", err)
	}
	return items, nil
}

// Inventory groups items by category and flags low stock.
func (s *FreezerService) Inventory(ctx context.Context, threshold float64) (*Inventory, error) {
	items, err := s.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	return &Inventory{
		Groups:   GroupByCategory(items),
		LowStock: LowStock(items, threshold),
		Total:    len(items),
	}, nil
}

// CreateItem adds an item to the freezer
func (s *FreezerService) CreateItem(ctx context.Context, in FreezerItemInput) (*models.FreezerItem, error) {
	item, err := validateItem(in)
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateItem(ctx, &item); err != nil {
		return nil, fmt.Errorf("failed to create freezer item: %w", err)
	}
	return &item, nil
}

// UpdateItem replaces the editable fields of an item
func (s *FreezerService) UpdateItem(ctx context.Context, id uuid.UUID, in FreezerItemInput) (*models.FreezerItem, error) {
	item, err := validateItem(in)
	if err != nil {
		return nil, err
	}
	existing, err := s.store.GetItem(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load freezer item %s: %w", id, err)
	}
	existing.ItemName = item.ItemName
	existing.Quantity = item.Quantity
	existing.Unit = item.Unit
	existing.Category = item.Category
	if err := s.store.UpdateItem(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to update freezer item %s: %w", id, err)
	}
	return existing, nil
}

// DeleteItem removes an item. Its usage log entries are kept.
func (s *FreezerService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteItem(ctx, id); err != nil {
		return fmt.Errorf("failed to delete freezer item %s: %w", id, err)
	}
	return nil
}

// UsageHistory returns the log entries written for a recipe, newest first.
func (s *FreezerService) UsageHistory(ctx context.Context, recipeID uuid.UUID) ([]models.UsageLogEntry, error) {
	entries, err := s.store.ListUsage(ctx, recipeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list usage for recipe %s: %w", recipeID, err)
	}
	return entries, nil
}

// Consume records that a recipe used the given freezer items.
//
// Each request is handled on its own and in order: a failure on one never
// stops the rest. For every request the usage log entry is written before
// the stock is decremented, and the log keeps the requested quantity even
// when the stock is clamped at zero.
func (s *FreezerService) Consume(ctx context.Context, recipeID uuid.UUID, reqs []ConsumptionRequest) []ConsumptionOutcome {
	outcomes := make([]ConsumptionOutcome, 0, len(reqs))
	for _, req := range reqs {
		out := s.consumeOne(ctx, recipeID, req)
		s.logOutcome(recipeID, out)
		outcomes = append(outcomes, out)
	}
	return outcomes
}

// ConsumeItems runs a batch keyed by item id, in sorted key order so the
// same batch always replays the same way. A key that is not an item id
// names an item that cannot exist and is skipped as missing.
func (s *FreezerService) ConsumeItems(ctx context.Context, recipeID uuid.UUID, items map[string]float64) []ConsumptionOutcome {
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	outcomes := make([]ConsumptionOutcome, 0, len(keys))
	for _, k := range keys {
		var out ConsumptionOutcome
		if itemID, err := uuid.Parse(strings.TrimSpace(k)); err != nil {
			out = ConsumptionOutcome{ItemID: k, QuantityUsed: items[k], Status: ConsumptionSkippedMissing}
		} else {
			out = s.consumeOne(ctx, recipeID, ConsumptionRequest{ItemID: itemID, QuantityUsed: items[k]})
		}
		s.logOutcome(recipeID, out)
		outcomes = append(outcomes, out)
	}
	return outcomes
}

func (s *FreezerService) logOutcome(recipeID uuid.UUID, out ConsumptionOutcome) {
	ev := s.log.Info()
	if out.Status != ConsumptionApplied {
		ev = s.log.Warn()
	}
	ev.Str("recipe_id", recipeID.String()).
		Str("item_id", out.ItemID).
		Float64("quantity_used", out.QuantityUsed).
		Str("status", string(out.Status)).
		Bool("clamped", out.Clamped).
		Msg("freezer consumption")
}

func (s *FreezerService) consumeOne(ctx context.Context, recipeID uuid.UUID, req ConsumptionRequest) ConsumptionOutcome {
	out := ConsumptionOutcome{ItemID: req.ItemID.String(), QuantityUsed: req.QuantityUsed}
	if !(req.QuantityUsed > 0) || math.IsInf(req.QuantityUsed, 1) {
		out.Status = ConsumptionSkippedNonPositive
		return out
	}

	item, err := s.store.GetItem(ctx, req.ItemID)
	if errors.Is(err, ErrNotFound) {
		out.Status = ConsumptionSkippedMissing
		return out
	}
	if err != nil {
		out.Status = ConsumptionLookupFailed
		out.Error = err.Error()
		return out
	}
	out.ItemName = item.ItemName
	out.Previous = item.Quantity

	var logErr error
	entry := &models.UsageLogEntry{
		RecipeID:        recipeID,
		FreezerItemID:   item.ID,
		FreezerItemName: item.ItemName,
		QuantityUsed:    req.QuantityUsed,
		UsedAt:          s.now(),
	}
	if err := s.store.InsertUsageLog(ctx, entry); err != nil {
		logErr = err
	}

	remaining := math.Max(0, item.Quantity-req.QuantityUsed)
	out.Clamped = req.QuantityUsed > item.Quantity
	if err := s.store.UpdateItemQuantity(ctx, item.ID, remaining); err != nil {
		out.Status = ConsumptionUpdateFailed
		out.Remaining = item.Quantity
		out.Error = err.Error()
		if logErr != nil {
			out.Error = fmt.Sprintf("log: %v; update: %v", logErr, err)
		}
		return out
	}
	out.Remaining = remaining

	if logErr != nil {
		out.Status = ConsumptionLogFailed
		out.Error = logErr.Error()
		return out
	}
	out.Status = ConsumptionApplied
	return out
}

// LowStock returns the items with quantity below threshold, lowest first.
// A non-positive threshold uses DefaultLowStockThreshold.
func LowStock(items []models.FreezerItem, threshold float64) []models.FreezerItem {
	if threshold <= 0 {
		threshold = DefaultLowStockThreshold
	}
	out := []models.FreezerItem{}
	for _, it := range items {
		if it.Quantity < threshold {
			out = append(out, it)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity < out[j].Quantity
		}
		return strings.ToLower(out[i].ItemName) < strings.ToLower(out[j].ItemName)
	})
	return out
}

// GroupByCategory groups items in category display order, sorted by name
// within a group. Empty groups are omitted and unknown categories land in
// Other.
func GroupByCategory(items []models.FreezerItem) []CategoryGroup {
	byCategory := make(map[types.FreezerCategory][]models.FreezerItem)
	for _, it := range items {
		c, ok := types.ParseFreezerCategory(string(it.Category))
		if !ok {
			c = types.FreezerOther
		}
		byCategory[c] = append(byCategory[c], it)
	}

	groups := []CategoryGroup{}
	for _, c := range types.FreezerCategories {
		list := byCategory[c]
		if len(list) == 0 {
			continue
		}
		sort.SliceStable(list, func(i, j int) bool {
			return strings.ToLower(list[i].ItemName) < strings.ToLower(list[j].ItemName)
		})
		groups = append(groups, CategoryGroup{Category: c, Items: list})
	}
	return groups
}
