// Package assistant turns a text completion model into the suggestion
// service used for dietary tagging and recipe recommendations.
package assistant

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/types"
)

// Completer sends one system and user prompt pair to a model and returns
// the text of its reply.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// ErrNotConfigured is returned by Unconfigured.
var ErrNotConfigured = errors.New("assistant is not configured")

// Unconfigured is the Completer used when no API key is set. Every call
// fails, so tagging degrades to no suggestions.
type Unconfigured struct{}

func (Unconfigured) Complete(context.Context, string, string) (string, error) {
	return "", ErrNotConfigured
}

// Service implements service.SuggestionService over a Completer.
type Service struct {
	model Completer
	log   zerolog.Logger
}

func New(model Completer, log zerolog.Logger) *Service {
	return &Service{model: model, log: log.With().Str("component", "assistant").Logger()}
}

func unavailable(err error) error {
	if errors.Is(err, service.ErrCollaboratorUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", service.ErrCollaboratorUnavailable, err)
}

// SuggestDietaryTags returns the raw tag ids the model proposed. Values
// outside the tag set are passed through for the merge to reject.
func (s *Service) SuggestDietaryTags(ctx context.Context, title, content string) ([]string, error) {
	reply, err := s.model.Complete(ctx, tagSystemPrompt(), tagUserPrompt(title, content))
	if err != nil {
		return nil, unavailable(err)
	}
	tags := ParseTags(reply)
	s.log.Debug().Str("title", title).Strs("tags", tags).Msg("dietary tag suggestion")
	return tags, nil
}

func (s *Service) RecommendRecipes(ctx context.Context, query string, recipes []types.RecipeContext, freezer []types.FreezerContext) (*types.Recommendation, error) {
	prompt, err := recommendUserPrompt(query, recipes, freezer)
	if err != nil {
		return nil, err
	}
	reply, err := s.model.Complete(ctx, recommendSystemPrompt, prompt)
	if err != nil {
		return nil, unavailable(err)
	}
	rec := ParseRecommendation(reply)
	s.log.Debug().
		Int("offered", len(recipes)).
		Int("recommended", len(rec.Recommendations)).
		Msg("recipe recommendation")
	return rec, nil
}

var _ service.SuggestionService = (*Service)(nil)
