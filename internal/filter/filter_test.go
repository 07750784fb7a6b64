package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipebox/backend/internal/metadata"
)

func entry(t *testing.T, id, title, meta string) Entry {
	t.Helper()
	m, err := metadata.Decode([]byte(meta))
	require.NoError(t, err)
	return Entry{ID: id, Title: title, Meta: m}
}

func ids(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ID)
	}
	return out
}

func collection(t *testing.T) []Entry {
	return []Entry{
		entry(t, "1", "Chicken Soup", `{"rating":5,"tried_status":true,"physical_location":"Folder 1 - Chicken & Poultry","category":["soup","main course"],"dietary_tags":["keto","gluten-free"]}`),
		entry(t, "2", "Beef Stew", `{"rating":3,"tried_status":false,"physical_location":"Folder 2 - Beef","category":"main course","dietary_tags":["paleo"]}`),
		entry(t, "3", "Brownies", `{"rating":5,"tried_status":true,"physical_location":"Folder 17 - Desserts & Sweets","category":["dessert"],"your_notes":"use dark chocolate"}`),
		entry(t, "4", "Old Chicken Bake", `{"rating":5,"tried_status":true,"physical_location":"Folder 1 - Chicken & Poultry","category":["main course"],"dietary_tags":["keto"],"hidden":true}`),
		entry(t, "5", "Forgotten Salad", `{"category":"salad","physical_location":"Folder 11 - Salads","hidden":true}`),
	}
}

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"", "all", "tried", "untried", "hidden", "stars-1", "stars-5", "STARS-3"} {
		_, err := ParseStatus(s)
		assert.NoError(t, err, s)
	}
	for _, s := range []string{"stars-0", "stars-6", "stars-x", "favourites"} {
		_, err := ParseStatus(s)
		assert.ErrorIs(t, err, ErrInvalidStatus, s)
	}

	st, err := ParseStatus("stars-4")
	require.NoError(t, err)
	assert.Equal(t, Status{Kind: StatusStars, Stars: 4}, st)
	assert.Equal(t, "stars-4", st.String())
}

func TestVisibilityPrecedence(t *testing.T) {
	all := collection(t)

	hidden := Apply(all, Criteria{Status: Status{Kind: StatusHidden}})
	assert.Equal(t, []string{"4", "5"}, ids(hidden))

	// Other filters still narrow inside the hidden branch.
	hiddenChicken := Apply(all, Criteria{Status: Status{Kind: StatusHidden}, Folder: "Folder 1 - Chicken & Poultry"})
	assert.Equal(t, []string{"4"}, ids(hiddenChicken))

	for _, st := range []Status{{Kind: StatusAll}, {Kind: StatusTried}, {Kind: StatusUntried}, {Kind: StatusStars, Stars: 5}} {
		for _, e := range Apply(all, Criteria{Status: st}) {
			assert.False(t, e.Meta.Hidden, "status %s returned hidden recipe %s", st, e.ID)
		}
	}

	// A hidden five star recipe is not reachable through stars-5.
	assert.Equal(t, []string{"1", "3"}, ids(Apply(all, Criteria{Status: Status{Kind: StatusStars, Stars: 5}})))
}

func TestStatusFilters(t *testing.T) {
	all := collection(t)
	assert.Equal(t, []string{"1", "2", "3"}, ids(Apply(all, Criteria{})))
	assert.Equal(t, []string{"1", "3"}, ids(Apply(all, Criteria{Status: Status{Kind: StatusTried}})))
	assert.Equal(t, []string{"2"}, ids(Apply(all, Criteria{Status: Status{Kind: StatusUntried}})))
	assert.Equal(t, []string{"2"}, ids(Apply(all, Criteria{Status: Status{Kind: StatusStars, Stars: 3}})))
}

func TestSearch(t *testing.T) {
	all := collection(t)

	tests := []struct {
		query string
		want  []string
	}{
		{"SOUP", []string{"1"}},
		{"paleo", []string{"2"}},
		{"dark chocolate", []string{"3"}},
		{"folder 2", []string{"2"}},
		{"chicken", []string{"1"}},
		{"   ", []string{"1", "2", "3"}},
		{"nothing matches this", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Apply(all, Criteria{Query: tt.query})))
		})
	}
}

func TestSearchIgnoresNoteDates(t *testing.T) {
	all := []Entry{
		entry(t, "1", "Roast Chicken", `{"your_notes":"crispy skin"}`),
		entry(t, "2", "Pancakes", `{"your_notes":[{"date":"Mar 3, 2026","text":"good"}]}`),
	}

	assert.Empty(t, ids(Apply(all, Criteria{Query: "undated"})))
	assert.Empty(t, ids(Apply(all, Criteria{Query: "mar"})))
	assert.Empty(t, ids(Apply(all, Criteria{Query: "2026"})))
	assert.Equal(t, []string{"1"}, ids(Apply(all, Criteria{Query: "crispy"})))
	assert.Equal(t, []string{"2"}, ids(Apply(all, Criteria{Query: "good"})))
}

func TestFolderFilterCanonicalizes(t *testing.T) {
	all := collection(t)
	assert.Equal(t, []string{"2"}, ids(Apply(all, Criteria{Folder: "Folder 2 - Beef "})))
	assert.Equal(t, []string{"2"}, ids(Apply(all, Criteria{Folder: "Folder 2 - Red Meat"})))
	assert.Equal(t, []string{"1"}, ids(Apply(all, Criteria{Folder: "folder 1"})))
	assert.Empty(t, ids(Apply(all, Criteria{Folder: "Freezer door"})))
}

func TestConjunctionIsIntersection(t *testing.T) {
	all := collection(t)
	folders := []string{All, "Folder 1 - Chicken & Poultry", "Folder 2 - Beef", "Folder 17 - Desserts & Sweets"}
	dietary := []string{All, "keto", "paleo", "gluten-free"}
	categories := []string{All, "main course", "soup", "dessert"}

	for _, f := range folders {
		for _, d := range dietary {
			for _, c := range categories {
				combined := ids(Apply(all, Criteria{Folder: f, Dietary: d, Category: c}))
				byFolder := ids(Apply(all, Criteria{Folder: f}))
				byDietary := ids(Apply(all, Criteria{Dietary: d}))
				byCategory := ids(Apply(all, Criteria{Category: c}))

				var want []string
				for _, id := range byFolder {
					if contains(byDietary, id) && contains(byCategory, id) {
						want = append(want, id)
					}
				}
				assert.ElementsMatch(t, want, combined, "folder=%s dietary=%s category=%s", f, d, c)
			}
		}
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func TestApplyKeepsInputOrder(t *testing.T) {
	all := collection(t)
	reversed := []Entry{all[2], all[1], all[0]}
	assert.Equal(t, []string{"3", "2", "1"}, ids(Apply(reversed, Criteria{})))
}

func TestFacets(t *testing.T) {
	f := Facets(collection(t))
	assert.Equal(t, []string{
		"Folder 1 - Chicken & Poultry",
		"Folder 11 - Salads",
		"Folder 17 - Desserts & Sweets",
		"Folder 2 - Beef",
	}, f.Folders)
	assert.Equal(t, []string{"dessert", "main course", "salad", "soup"}, f.Categories)

	empty := Facets(nil)
	assert.Empty(t, empty.Folders)
	assert.Empty(t, empty.Categories)
}

func TestCount(t *testing.T) {
	assert.Equal(t, Counts{Total: 5, Visible: 3, Hidden: 2, Tried: 2}, Count(collection(t)))
}
