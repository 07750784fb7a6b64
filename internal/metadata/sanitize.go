package metadata

import (
	"fmt"
	"strings"

	"github.com/pageza/recipebox/backend/internal/types"
)

// Sanitize validates an edited record before it is saved. Without strict,
// invalid values are dropped and duplicates removed. With strict, any invalid
// value rejects the whole record with ErrValidationRejected and m is
// returned unchanged.
func Sanitize(m Metadata, strict bool) (Metadata, error) {
	out := m.Clone()
	var problems []string

	if out.badRating != nil {
		problems = append(problems, fmt.Sprintf("rating %s", out.badRating))
		out.badRating = nil
		out.Rating = 0
	} else if out.Rating < 0 || out.Rating > 5 {
		problems = append(problems, fmt.Sprintf("rating %d", out.Rating))
		out.Rating = 0
	}

	if out.PhysicalLocation != "" && !out.PhysicalLocation.Valid() {
		if folder, ok := types.ParseFolder(string(out.PhysicalLocation)); ok {
			out.PhysicalLocation = folder
		} else {
			problems = append(problems, fmt.Sprintf("folder %q", out.PhysicalLocation))
			out.PhysicalLocation = ""
		}
	}

	categories := make([]types.Category, 0, len(out.Category))
	seenCategory := make(map[types.Category]bool)
	for _, c := range out.Category {
		parsed, ok := types.ParseCategory(string(c))
		if !ok {
			problems = append(problems, fmt.Sprintf("category %q", c))
			continue
		}
		if seenCategory[parsed] {
			continue
		}
		seenCategory[parsed] = true
		categories = append(categories, parsed)
	}
	out.Category = categories

	tags := make([]types.DietaryTag, 0, len(out.DietaryTags))
	seenTag := make(map[types.DietaryTag]bool)
	for _, t := range out.DietaryTags {
		parsed, ok := types.ParseDietaryTag(string(t))
		if !ok {
			problems = append(problems, fmt.Sprintf("dietary tag %q", t))
			continue
		}
		if seenTag[parsed] {
			continue
		}
		seenTag[parsed] = true
		tags = append(tags, parsed)
	}
	out.DietaryTags = tags

	if strict && len(problems) > 0 {
		return m, fmt.Errorf("%w: %s", ErrValidationRejected, strings.Join(problems, ", "))
	}
	return out, nil
}
