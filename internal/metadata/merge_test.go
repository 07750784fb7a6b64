package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pageza/recipebox/backend/internal/types"
)

func TestMergeDietaryTags(t *testing.T) {
	tests := []struct {
		name      string
		current   []types.DietaryTag
		suggested []string
		tags      []types.DietaryTag
		added     []types.DietaryTag
		present   []types.DietaryTag
		rejected  []string
		status    MergeStatus
	}{
		{
			name:      "union restricted to known tags",
			current:   []types.DietaryTag{types.TagKeto},
			suggested: []string{"keto", "paleo", "not-a-real-tag"},
			tags:      []types.DietaryTag{types.TagKeto, types.TagPaleo},
			added:     []types.DietaryTag{types.TagPaleo},
			present:   []types.DietaryTag{types.TagKeto},
			rejected:  []string{"not-a-real-tag"},
			status:    MergeAdded,
		},
		{
			name:      "no suggestions",
			current:   []types.DietaryTag{types.TagKeto},
			suggested: nil,
			tags:      []types.DietaryTag{types.TagKeto},
			added:     []types.DietaryTag{},
			present:   []types.DietaryTag{},
			status:    MergeNoSuggestions,
		},
		{
			name:      "only invalid suggestions count as none",
			current:   nil,
			suggested: []string{"carnivore", ""},
			tags:      []types.DietaryTag{},
			added:     []types.DietaryTag{},
			present:   []types.DietaryTag{},
			rejected:  []string{"carnivore", ""},
			status:    MergeNoSuggestions,
		},
		{
			name:      "already covered",
			current:   []types.DietaryTag{types.TagVegetarian, types.TagGlutenFree},
			suggested: []string{"Gluten-Free", "vegetarian", "vegetarian"},
			tags:      []types.DietaryTag{types.TagVegetarian, types.TagGlutenFree},
			added:     []types.DietaryTag{},
			present:   []types.DietaryTag{types.TagGlutenFree, types.TagVegetarian},
			status:    MergeCovered,
		},
		{
			name:      "duplicate suggestions added once",
			current:   []types.DietaryTag{},
			suggested: []string{"whole30", "WHOLE30", " high-protein "},
			tags:      []types.DietaryTag{types.TagWhole30, types.TagHighProtein},
			added:     []types.DietaryTag{types.TagWhole30, types.TagHighProtein},
			present:   []types.DietaryTag{},
			status:    MergeAdded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeDietaryTags(tt.current, tt.suggested)
			assert.Equal(t, tt.tags, got.Tags)
			assert.Equal(t, tt.added, got.Added)
			assert.Equal(t, tt.present, got.AlreadyPresent)
			assert.Equal(t, tt.rejected, got.Rejected)
			assert.Equal(t, tt.status, got.Status)
		})
	}
}

func TestMergeNeverDropsCurrentTags(t *testing.T) {
	current := []types.DietaryTag{types.TagDairyFree, types.TagLowCarb}
	got := MergeDietaryTags(current, []string{"paleo"})
	assert.Subset(t, got.Tags, current)
	assert.Len(t, got.Tags, 3)
}
