package types

// UnlockRequest is the PIN gate request body
type UnlockRequest struct {
	PIN string `json:"pin" binding:"required"`
}

// CreateRecipeRequest represents the request body for creating a recipe
type CreateRecipeRequest struct {
	Title      string   `json:"title" binding:"required,max=255"`
	Content    string   `json:"content"`
	SourceURL  string   `json:"source_url"`
	SourceType string   `json:"source_type"`
	Notes      string   `json:"notes"`
	Tags       []string `json:"tags"`
	// Metadata optionally imports an existing record, legacy shapes included
	Metadata map[string]interface{} `json:"metadata"`
}

// AddNoteRequest represents the request body for adding a dated note
type AddNoteRequest struct {
	Text string `json:"text"`
}

// ConsumeRequest maps freezer item ids to the quantity used
type ConsumeRequest struct {
	Items map[string]float64 `json:"items" binding:"required"`
}

// FreezerItemRequest is used for both create and update
type FreezerItemRequest struct {
	ItemName string   `json:"item_name" binding:"required,max=255"`
	Quantity *float64 `json:"quantity" binding:"required"`
	Unit     string   `json:"unit"`
	Category string   `json:"category"`
}

// RecommendRequest is the assistant request body
type RecommendRequest struct {
	Query string `json:"query" binding:"required,max=1000"`
}
