package assistant

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/pageza/recipebox/backend/internal/types"
)

// MaxContentRunes bounds how much recipe text goes into a tag prompt.
const MaxContentRunes = 3000

var tagDefinitions = map[types.DietaryTag]string{
	types.TagKeto:        "Very low carb (under 20g net carbs), high fat",
	types.TagLowCarb:     "Moderate carbs (under 50g), not necessarily keto",
	types.TagPaleo:       "No grains, legumes, dairy, or processed foods",
	types.TagWhole30:     "Paleo plus no sugar, alcohol, or additives",
	types.TagGlutenFree:  "No wheat, barley, rye, or gluten",
	types.TagVegetarian:  "No meat, poultry, or fish",
	types.TagDairyFree:   "No milk, cheese, cream, butter, or yogurt",
	types.TagHighProtein: "Significant protein content (over 20g per serving)",
}

func tagSystemPrompt() string {
	var b strings.Builder
	b.WriteString("You are a recipe analyzer. Decide which dietary tags apply to a recipe based on its ingredients and preparation.\n\nAvailable tags:\n")
	for _, t := range types.DietaryTags {
		fmt.Fprintf(&b, "- %s (%s): %s\n", t, t.Label(), tagDefinitions[t])
	}
	b.WriteString(`
Even with limited information, make reasonable inferences:
- Chicken dishes are typically gluten-free and high-protein unless breading is mentioned
- Beef, pork and fish dishes are usually high-protein
- If no grains, dairy, or legumes are mentioned, it is likely paleo or whole30
- If no obvious carbs are mentioned, consider low-carb

Respond with ONLY a JSON array of applicable tag ids, for example ["keto", "gluten-free"].`)
	return b.String()
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func tagUserPrompt(title, content string) string {
	content = truncateRunes(strings.TrimSpace(content), MaxContentRunes)
	if content == "" {
		content = "No detailed content provided"
	}
	return fmt.Sprintf("Recipe Title: %s\n\nRecipe Content/Ingredients:\n%s\n\nWhich dietary tags apply to this recipe?", title, content)
}

const recommendSystemPrompt = `You are a personal recipe assistant. Cut through decision fatigue and give 2-3 specific, confident recommendations rather than a long list.

For each recommendation mention why it matches the request, the previous rating if the recipe was tried, whether the freezer has components for it, and any relevant notes.

Be warm, direct and decisive.

Respond with JSON of this shape:
{
  "message": "Your conversational response",
  "recommendations": [
    {"recipe_id": "id from the recipe list", "recipe_title": "Recipe Name", "reason": "Why this recipe matches"}
  ]
}`

func recommendUserPrompt(query string, recipes []types.RecipeContext, freezer []types.FreezerContext) (string, error) {
	if recipes == nil {
		recipes = []types.RecipeContext{}
	}
	if freezer == nil {
		freezer = []types.FreezerContext{}
	}
	recipeJSON, err := json.MarshalIndent(recipes, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal recipe context: %w", err)
	}
	freezerJSON, err := json.MarshalIndent(freezer, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal freezer context: %w", err)
	}
	return fmt.Sprintf("Current request: %q\n\nAvailable recipes:\n%s\n\nCurrent freezer inventory:\n%s\n\nBased on this information, recommend 2-3 recipes that best match the request.",
		query, recipeJSON, freezerJSON), nil
}

var (
	arraySpan  = regexp.MustCompile(`(?s)\[.*\]`)
	objectSpan = regexp.MustCompile(`(?s)\{.*\}`)
)

// ParseTags reads a tag reply. Models sometimes wrap the array in prose or
// a markdown fence, or in an object when forced into JSON mode. Anything
// unreadable yields no tags.
func ParseTags(reply string) []string {
	reply = strings.TrimSpace(reply)
	if tags, ok := decodeTags(reply); ok {
		return tags
	}
	if span := arraySpan.FindString(reply); span != "" {
		if tags, ok := decodeTags(span); ok {
			return tags
		}
	}
	return []string{}
}

func decodeTags(s string) ([]string, bool) {
	var list []any
	if err := json.Unmarshal([]byte(s), &list); err == nil {
		return stringsOf(list), true
	}
	var wrapped struct {
		Tags []any `json:"tags"`
	}
	if err := json.Unmarshal([]byte(s), &wrapped); err == nil && wrapped.Tags != nil {
		return stringsOf(wrapped.Tags), true
	}
	return nil, false
}

func stringsOf(list []any) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

type rawRecommendation struct {
	Message         string `json:"message"`
	Recommendations []struct {
		RecipeID    json.RawMessage `json:"recipe_id"`
		RecipeTitle string          `json:"recipe_title"`
		Reason      string          `json:"reason"`
	} `json:"recommendations"`
}

// ParseRecommendation reads a recommendation reply. When no object can be
// found the whole reply becomes the message.
func ParseRecommendation(reply string) *types.Recommendation {
	trimmed := strings.TrimSpace(reply)
	if rec, ok := decodeRecommendation(trimmed); ok {
		return rec
	}
	if span := objectSpan.FindString(trimmed); span != "" {
		if rec, ok := decodeRecommendation(span); ok {
			return rec
		}
	}
	return &types.Recommendation{Message: reply, Recommendations: []types.RecommendationItem{}}
}

func decodeRecommendation(s string) (*types.Recommendation, bool) {
	var raw rawRecommendation
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, false
	}
	rec := &types.Recommendation{Message: raw.Message, Recommendations: []types.RecommendationItem{}}
	for _, r := range raw.Recommendations {
		rec.Recommendations = append(rec.Recommendations, types.RecommendationItem{
			RecipeID:    recipeID(r.RecipeID),
			RecipeTitle: r.RecipeTitle,
			Reason:      r.Reason,
		})
	}
	return rec, true
}

// recipeID accepts the id as a JSON string or number.
func recipeID(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}
