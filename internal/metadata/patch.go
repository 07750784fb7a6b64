package metadata

import "github.com/pageza/recipebox/backend/internal/types"

// Patch is a partial edit from the detail page. Nil fields are left alone.
// Values are not validated here; Sanitize runs on save. Notes and the hidden
// flag have their own operations and are not part of a patch.
type Patch struct {
	Rating           *int      `json:"rating,omitempty"`
	TriedStatus      *bool     `json:"tried_status,omitempty"`
	PhysicalLocation *string   `json:"physical_location,omitempty"`
	Category         *[]string `json:"category,omitempty"`
	DietaryTags      *[]string `json:"dietary_tags,omitempty"`
	ImageURL         *string   `json:"image_url,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Rating == nil && p.TriedStatus == nil && p.PhysicalLocation == nil &&
		p.Category == nil && p.DietaryTags == nil && p.ImageURL == nil
}

// Apply returns a copy of m with the patch applied.
func (p Patch) Apply(m Metadata) Metadata {
	out := m.Clone()
	if p.Rating != nil {
		out.Rating = *p.Rating
		out.badRating = nil
	}
	if p.TriedStatus != nil {
		out.TriedStatus = *p.TriedStatus
	}
	if p.PhysicalLocation != nil {
		out.PhysicalLocation = types.Folder(*p.PhysicalLocation)
	}
	if p.Category != nil {
		out.Category = make([]types.Category, 0, len(*p.Category))
		for _, c := range *p.Category {
			out.Category = append(out.Category, types.Category(c))
		}
	}
	if p.DietaryTags != nil {
		out.DietaryTags = make([]types.DietaryTag, 0, len(*p.DietaryTags))
		for _, t := range *p.DietaryTags {
			out.DietaryTags = append(out.DietaryTags, types.DietaryTag(t))
		}
	}
	if p.ImageURL != nil {
		out.ImageURL = *p.ImageURL
	}
	return out
}
