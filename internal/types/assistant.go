package types

import "github.com/google/uuid"

// RecipeContext is the slice of a recipe sent to the assistant.
type RecipeContext struct {
	ID          uuid.UUID    `json:"id"`
	Title       string       `json:"title"`
	Rating      int          `json:"rating"`
	Tried       bool         `json:"tried"`
	DietaryTags []DietaryTag `json:"dietary_tags"`
	Folder      string       `json:"folder"`
	Notes       string       `json:"notes"`
}

// FreezerContext is the slice of a freezer item sent to the assistant.
type FreezerContext struct {
	Name     string      `json:"name"`
	Quantity float64     `json:"quantity"`
	Unit     FreezerUnit `json:"unit"`
}

// RecommendationItem names one recipe the assistant suggests.
type RecommendationItem struct {
	RecipeID    string `json:"recipe_id"`
	RecipeTitle string `json:"recipe_title"`
	Reason      string `json:"reason"`
}

// Recommendation is the assistant reply.
type Recommendation struct {
	Message         string               `json:"message"`
	Recommendations []RecommendationItem `json:"recommendations"`
}
