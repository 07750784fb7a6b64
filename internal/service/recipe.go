package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"github.com/rs/zerolog"

	"github.com/pageza/recipebox/backend/internal/filter"
	"github.com/pageza/recipebox/backend/internal/metadata"
	"github.com/pageza/recipebox/backend/internal/models"
	"github.com/pageza/recipebox/backend/internal/types"
)

// RecommendContextLimit caps how many recipes are sent to the assistant.
const RecommendContextLimit = 60

// RecipeView is a recipe with its metadata decoded.
type RecipeView struct {
	ID            uuid.UUID          `json:"id"`
	Title         string             `json:"title"`
	Content       string             `json:"content"`
	Tags          []string           `json:"tags"`
	Metadata      metadata.Metadata  `json:"metadata"`
	Draft         *metadata.Metadata `json:"draft,omitempty"`
	MetadataError string             `json:"metadata_error,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// RecipeList is a filtered listing with facets over the full collection.
type RecipeList struct {
	Recipes []RecipeView    `json:"recipes"`
	Facets  filter.FacetSet `json:"facets"`
	Counts  filter.Counts   `json:"counts"`
}

// NewRecipe is the input for CreateRecipe.
type NewRecipe struct {
	Title      string
	Content    string
	SourceURL  string
	SourceType string
	Notes      string
	Tags       []string
	// Metadata is an optional record exported by another tool, in any
	// shape the codec accepts. It is normalized before insert.
	Metadata any
}

// AutoTagResult reports a tag merge. CollaboratorFailed is set when the
// assistant could not be reached; the merge then ran with no suggestions.
type AutoTagResult struct {
	metadata.MergeResult
	CollaboratorFailed bool               `json:"collaborator_failed"`
	Draft              *metadata.Metadata `json:"draft,omitempty"`
}

// RecipeService handles recipe operations
type RecipeService struct {
	store          RecipeStore
	drafts         DraftStore
	ai             SuggestionService
	freezer        FreezerStore
	ledger         metadata.Ledger
	log            zerolog.Logger
	recommendLimit int
}

// RecipeServiceOption configures a RecipeService.
type RecipeServiceOption func(*RecipeService)

// WithLedger replaces the note ledger, mainly to pin the clock in tests.
func WithLedger(l metadata.Ledger) RecipeServiceOption {
	return func(s *RecipeService) { s.ledger = l }
}

// WithRecommendLimit overrides RecommendContextLimit.
func WithRecommendLimit(n int) RecipeServiceOption {
	return func(s *RecipeService) {
		if n > 0 {
			s.recommendLimit = n
		}
	}
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(store RecipeStore, drafts DraftStore, ai SuggestionService, freezer FreezerStore, log zerolog.Logger, opts ...RecipeServiceOption) *RecipeService {
	s := &RecipeService{
		store:          store,
		drafts:         drafts,
		ai:             ai,
		freezer:        freezer,
		log:            log.With().Str("component", "recipes").Logger(),
		recommendLimit: RecommendContextLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RecipeService) view(r *models.Recipe) RecipeView {
	m, err := metadata.DecodeOrEmpty(r.Metadata)
	v := RecipeView{
		ID:        r.ID,
		Title:     r.Title,
		Content:   r.Content,
		Tags:      []string(r.Tags),
		Metadata:  m,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if v.Tags == nil {
		v.Tags = []string{}
	}
	if err != nil {
		s.log.Warn().Err(err).Str("recipe_id", r.ID.String()).Msg("unreadable metadata, using empty record")
		v.MetadataError = err.Error()
	}
	return v
}

func (s *RecipeService) load(ctx context.Context, id uuid.UUID) (*models.Recipe, RecipeView, error) {
	r, err := s.store.GetRecipe(ctx, id)
	if err != nil {
		return nil, RecipeView{}, fmt.Errorf("failed to load recipe %s: %w", id, err)
	}
	return r, s.view(r), nil
}

func (s *RecipeService) persist(ctx context.Context, id uuid.UUID, m metadata.Metadata) error {
	raw, err := metadata.Encode(m)
	if err != nil {
		return err
	}
	if err := s.store.UpdateRecipeMetadata(ctx, id, raw); err != nil {
		return fmt.Errorf("failed to update recipe %s: %w", id, err)
	}
	return nil
}

func (s *RecipeService) listAll(ctx context.Context) ([]RecipeView, error) {
	recipes, err := s.store.ListRecipes(ctx, RecipeListFilter{NoteType: models.NoteTypeRecipe})
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	views := make([]RecipeView, 0, len(recipes))
	for i := range recipes {
		views = append(views, s.view(&recipes[i]))
	}
	return views, nil
}

func entries(views []RecipeView) []filter.Entry {
	out := make([]filter.Entry, 0, len(views))
	for _, v := range views {
		out = append(out, filter.Entry{
			ID:      v.ID.String(),
			Title:   v.Title,
			Content: v.Content,
			Tags:    v.Tags,
			Meta:    v.Metadata,
		})
	}
	return out
}

// List returns the recipes matching c, newest first. A record with
// unreadable metadata is listed with the empty record.
func (s *RecipeService) List(ctx context.Context, c filter.Criteria) (*RecipeList, error) {
	views, err := s.listAll(ctx)
	if err != nil {
		return nil, err
	}
	all := entries(views)
	byID := make(map[string]RecipeView, len(views))
	for _, v := range views {
		byID[v.ID.String()] = v
	}

	matched := filter.Apply(all, c)
	out := &RecipeList{
		Recipes: make([]RecipeView, 0, len(matched)),
		Facets:  filter.Facets(all),
		Counts:  filter.Count(all),
	}
	for _, e := range matched {
		out.Recipes = append(out.Recipes, byID[e.ID])
	}
	return out, nil
}

// Facets returns the facet lists and counts for the whole collection.
func (s *RecipeService) Facets(ctx context.Context) (filter.FacetSet, filter.Counts, error) {
	views, err := s.listAll(ctx)
	if err != nil {
		return filter.FacetSet{}, filter.Counts{}, err
	}
	all := entries(views)
	return filter.Facets(all), filter.Count(all), nil
}

// Get returns a recipe with any pending draft attached.
func (s *RecipeService) Get(ctx context.Context, id uuid.UUID) (*RecipeView, error) {
	_, v, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	draft, err := s.drafts.Get(ctx, id)
	if err != nil {
		s.log.Warn().Err(err).Str("recipe_id", id.String()).Msg("failed to load draft")
	}
	v.Draft = draft
	return &v, nil
}

// Delete removes the recipe and drops any draft. Usage log entries are kept.
func (s *RecipeService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteRecipe(ctx, id); err != nil {
		return fmt.Errorf("failed to delete recipe %s: %w", id, err)
	}
	if err := s.drafts.Delete(ctx, id); err != nil {
		s.log.Warn().Err(err).Str("recipe_id", id.String()).Msg("failed to drop draft of deleted recipe")
	}
	return nil
}

// CreateRecipe inserts a recipe with canonical initial metadata, or with the
// imported record normalized. Notes, when given, become the newest dated
// note.
func (s *RecipeService) CreateRecipe(ctx context.Context, in NewRecipe) (*RecipeView, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}

	m, err := metadata.DecodeValue(in.Metadata)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if u := strings.TrimSpace(in.SourceURL); u != "" {
		m.SourceURL = u
	}
	if st := strings.TrimSpace(in.SourceType); st != "" {
		if err := m.SetExtra("source_type", st); err != nil {
			return nil, err
		}
	}
	m, _ = s.ledger.AddNote(m, in.Notes)

	raw, err := metadata.Encode(m)
	if err != nil {
		return nil, err
	}
	tags := make(models.TagList, 0, len(in.Tags))
	for _, t := range in.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	embedding := GenerateEmbedding(title + " " + in.Content)

	created, err := s.store.InsertRecipe(ctx, &models.Recipe{
		NoteType:  models.NoteTypeRecipe,
		Title:     title,
		Content:   in.Content,
		Tags:      tags,
		Metadata:  raw,
		Embedding: &embedding,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}
	s.log.Info().Str("recipe_id", created.ID.String()).Msg("recipe created")
	v := s.view(created)
	return &v, nil
}

// AddNote prepends a dated note and persists immediately. Blank text
// returns the recipe unchanged with added false and writes nothing.
func (s *RecipeService) AddNote(ctx context.Context, id uuid.UUID, text string) (*RecipeView, bool, error) {
	_, v, err := s.load(ctx, id)
	if err != nil {
		return nil, false, err
	}
	updated, added := s.ledger.AddNote(v.Metadata, text)
	if !added {
		return &v, false, nil
	}
	if err := s.persist(ctx, id, updated); err != nil {
		return nil, false, err
	}
	v.Metadata = updated
	return &v, true, nil
}

// DeleteNote removes a note and persists immediately. It never goes
// through the draft.
func (s *RecipeService) DeleteNote(ctx context.Context, id uuid.UUID, index int) (*RecipeView, error) {
	_, v, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	updated, err := metadata.DeleteNote(v.Metadata, index)
	if err != nil {
		return nil, err
	}
	if err := s.persist(ctx, id, updated); err != nil {
		return nil, err
	}
	v.Metadata = updated
	return &v, nil
}

// SetHidden toggles the soft delete flag and persists immediately.
func (s *RecipeService) SetHidden(ctx context.Context, id uuid.UUID, hidden bool) (*RecipeView, error) {
	_, v, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if v.Metadata.Hidden == hidden {
		return &v, nil
	}
	updated := v.Metadata.Clone()
	updated.Hidden = hidden
	if err := s.persist(ctx, id, updated); err != nil {
		return nil, err
	}
	v.Metadata = updated
	return &v, nil
}

// editBase returns the current draft, or the stored metadata when there is
// no draft yet.
func (s *RecipeService) editBase(ctx context.Context, v RecipeView) (metadata.Metadata, error) {
	draft, err := s.drafts.Get(ctx, v.ID)
	if err != nil {
		return metadata.Metadata{}, fmt.Errorf("%w: %v", ErrCollaboratorUnavailable, err)
	}
	if draft != nil {
		return *draft, nil
	}
	return v.Metadata, nil
}

// StageEdit applies patch to the draft without persisting the recipe.
func (s *RecipeService) StageEdit(ctx context.Context, id uuid.UUID, patch metadata.Patch) (*RecipeView, error) {
	_, v, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	base, err := s.editBase(ctx, v)
	if err != nil {
		return nil, err
	}
	draft := patch.Apply(base)
	if err := s.drafts.Put(ctx, id, draft); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCollaboratorUnavailable, err)
	}
	v.Draft = &draft
	return &v, nil
}

// SaveDraft validates and persists the draft, then drops it. Notes and the
// hidden flag are persisted by their own operations, so they are taken from
// the stored record rather than the draft. With strict, any invalid value
// rejects the save and the draft is kept.
func (s *RecipeService) SaveDraft(ctx context.Context, id uuid.UUID, strict bool) (*RecipeView, error) {
	_, v, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	draft, err := s.drafts.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCollaboratorUnavailable, err)
	}
	if draft == nil {
		return &v, nil
	}

	clean, err := metadata.Sanitize(*draft, strict)
	if err != nil {
		return nil, err
	}
	clean.YourNotes = v.Metadata.Clone().YourNotes
	clean.Hidden = v.Metadata.Hidden

	if err := s.persist(ctx, id, clean); err != nil {
		return nil, err
	}
	if err := s.drafts.Delete(ctx, id); err != nil {
		s.log.Warn().Err(err).Str("recipe_id", id.String()).Msg("saved but failed to drop draft")
	}
	v.Metadata = clean
	return &v, nil
}

// DiscardDraft drops pending edits.
func (s *RecipeService) DiscardDraft(ctx context.Context, id uuid.UUID) error {
	if err := s.drafts.Delete(ctx, id); err != nil {
		return fmt.Errorf("%w: %v", ErrCollaboratorUnavailable, err)
	}
	return nil
}

// AutoTag merges assistant suggested dietary tags into the draft. An
// unreachable assistant is treated as no suggestions. Nothing is persisted
// to the recipe store.
func (s *RecipeService) AutoTag(ctx context.Context, id uuid.UUID) (*AutoTagResult, error) {
	r, v, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	base, err := s.editBase(ctx, v)
	if err != nil {
		return nil, err
	}

	result := &AutoTagResult{}
	suggested, err := s.ai.SuggestDietaryTags(ctx, r.Title, r.Content)
	if err != nil {
		s.log.Warn().Err(err).Str("recipe_id", id.String()).Msg("tag suggestion failed, treating as no suggestions")
		suggested = nil
		result.CollaboratorFailed = true
	}

	result.MergeResult = metadata.MergeDietaryTags(base.DietaryTags, suggested)
	if len(result.Rejected) > 0 {
		s.log.Debug().Strs("rejected", result.Rejected).Str("recipe_id", id.String()).Msg("dropped unknown suggested tags")
	}
	if result.Status != metadata.MergeAdded {
		return result, nil
	}

	draft := base.Clone()
	draft.DietaryTags = result.Tags
	if err := s.drafts.Put(ctx, id, draft); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCollaboratorUnavailable, err)
	}
	result.Draft = &draft
	return result, nil
}

type rankedRecipe struct {
	view     RecipeView
	distance float64
}

// Recommend asks the assistant for recipes matching query. Only visible
// recipes are offered, the closest RecommendContextLimit of them by
// embedding distance. Suggestions naming recipes that were not offered are
// dropped.
func (s *RecipeService) Recommend(ctx context.Context, query string) (*types.Recommendation, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query is required", ErrInvalidInput)
	}

	recipes, err := s.store.ListRecipes(ctx, RecipeListFilter{NoteType: models.NoteTypeRecipe})
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	target := GenerateEmbedding(query)
	ranked := make([]rankedRecipe, 0, len(recipes))
	for i := range recipes {
		v := s.view(&recipes[i])
		if v.Metadata.Hidden {
			continue
		}
		var emb pgvector.Vector
		if recipes[i].Embedding != nil {
			emb = *recipes[i].Embedding
		} else {
			emb = GenerateEmbedding(v.Title + " " + v.Content)
		}
		ranked = append(ranked, rankedRecipe{view: v, distance: embeddingDistance(target, emb)})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].distance < ranked[j].distance })
	if len(ranked) > s.recommendLimit {
		ranked = ranked[:s.recommendLimit]
	}

	offered := make(map[string]RecipeView, len(ranked))
	recipeCtx := make([]types.RecipeContext, 0, len(ranked))
	for _, rr := range ranked {
		v := rr.view
		offered[v.ID.String()] = v
		folder := string(v.Metadata.PhysicalLocation)
		if folder == "" {
			folder = "Uncategorized"
		}
		recipeCtx = append(recipeCtx, types.RecipeContext{
			ID:          v.ID,
			Title:       v.Title,
			Rating:      v.Metadata.Rating,
			Tried:       v.Metadata.TriedStatus,
			DietaryTags: v.Metadata.DietaryTags,
			Folder:      folder,
			Notes:       metadata.NotesText(v.Metadata),
		})
	}

	freezerCtx := []types.FreezerContext{}
	if s.freezer != nil {
		items, err := s.freezer.ListItems(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list freezer items: %w", err)
		}
		for _, it := range items {
			freezerCtx = append(freezerCtx, types.FreezerContext{Name: it.ItemName, Quantity: it.Quantity, Unit: it.Unit})
		}
	}

	rec, err := s.ai.RecommendRecipes(ctx, query, recipeCtx, freezerCtx)
	if err != nil {
		if !errors.Is(err, ErrCollaboratorUnavailable) {
			err = fmt.Errorf("%w: %v", ErrCollaboratorUnavailable, err)
		}
		return nil, err
	}

	out := &types.Recommendation{Message: rec.Message, Recommendations: []types.RecommendationItem{}}
	for _, item := range rec.Recommendations {
		v, ok := offered[strings.TrimSpace(item.RecipeID)]
		if !ok {
			s.log.Debug().Str("recipe_id", item.RecipeID).Msg("dropping recommendation for unknown recipe")
			continue
		}
		item.RecipeID = v.ID.String()
		if item.RecipeTitle == "" {
			item.RecipeTitle = v.Title
		}
		out.Recommendations = append(out.Recommendations, item)
	}
	return out, nil
}
