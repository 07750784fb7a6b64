package metadata

import "github.com/pageza/recipebox/backend/internal/types"

// MergeStatus distinguishes an empty suggestion set from one that was
// already covered by the current tags.
type MergeStatus string

const (
	MergeNoSuggestions MergeStatus = "no_suggestions"
	MergeCovered       MergeStatus = "covered"
	MergeAdded         MergeStatus = "added"
)

// MergeResult is the outcome of folding suggested dietary tags into the
// current set.
type MergeResult struct {
	Tags           []types.DietaryTag `json:"tags"`
	Added          []types.DietaryTag `json:"added"`
	AlreadyPresent []types.DietaryTag `json:"already_present"`
	Rejected       []string           `json:"rejected,omitempty"`
	Status         MergeStatus        `json:"status"`
}

// MergeDietaryTags returns the union of current and suggested, restricted to
// the known tags. Current tags keep their order and new tags follow in
// suggestion order. Suggestions outside the tag set are dropped and listed
// in Rejected.
func MergeDietaryTags(current []types.DietaryTag, suggested []string) MergeResult {
	result := MergeResult{
		Tags:           []types.DietaryTag{},
		Added:          []types.DietaryTag{},
		AlreadyPresent: []types.DietaryTag{},
	}

	have := make(map[types.DietaryTag]bool, len(current))
	for _, t := range current {
		if !t.Valid() || have[t] {
			continue
		}
		have[t] = true
		result.Tags = append(result.Tags, t)
	}

	seen := make(map[types.DietaryTag]bool)
	for _, s := range suggested {
		t, ok := types.ParseDietaryTag(s)
		if !ok {
			result.Rejected = append(result.Rejected, s)
			continue
		}
		if seen[t] {
			continue
		}
		seen[t] = true
		if have[t] {
			result.AlreadyPresent = append(result.AlreadyPresent, t)
		} else {
			result.Added = append(result.Added, t)
		}
	}
	result.Tags = append(result.Tags, result.Added...)

	switch {
	case len(seen) == 0:
		result.Status = MergeNoSuggestions
	case len(result.Added) == 0:
		result.Status = MergeCovered
	default:
		result.Status = MergeAdded
	}
	return result
}
