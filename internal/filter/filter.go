// Package filter selects the visible subset of a recipe collection and
// derives the facet lists used to populate filter controls.
//
// Everything here is a pure function of its inputs. Input order is kept.
package filter

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pageza/recipebox/backend/internal/metadata"
	"github.com/pageza/recipebox/backend/internal/types"
)

// All disables a filter.
const All = "all"

var ErrInvalidStatus = errors.New("invalid status filter")

// StatusKind is the kind of status filter selected.
type StatusKind int

const (
	StatusAll StatusKind = iota
	StatusTried
	StatusUntried
	StatusHidden
	StatusStars
)

// Status is a parsed status filter. Stars is set only for StatusStars.
type Status struct {
	Kind  StatusKind
	Stars int
}

// ParseStatus accepts "all", "tried", "untried", "hidden" and "stars-N" for
// N in 1..5. An empty string means "all".
func ParseStatus(s string) (Status, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", All:
		return Status{Kind: StatusAll}, nil
	case "tried":
		return Status{Kind: StatusTried}, nil
	case "untried":
		return Status{Kind: StatusUntried}, nil
	case "hidden":
		return Status{Kind: StatusHidden}, nil
	}
	if rest, ok := strings.CutPrefix(s, "stars-"); ok {
		n, err := strconv.Atoi(rest)
		if err == nil && n >= 1 && n <= 5 {
			return Status{Kind: StatusStars, Stars: n}, nil
		}
	}
	return Status{}, fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

func (s Status) String() string {
	switch s.Kind {
	case StatusTried:
		return "tried"
	case StatusUntried:
		return "untried"
	case StatusHidden:
		return "hidden"
	case StatusStars:
		return fmt.Sprintf("stars-%d", s.Stars)
	default:
		return All
	}
}

// Entry is one recipe with its decoded metadata.
type Entry struct {
	ID      string
	Title   string
	Content string
	Tags    []string
	Meta    metadata.Metadata
}

// Criteria is the full filter state. Empty strings behave like "all".
type Criteria struct {
	Query    string
	Folder   string
	Status   Status
	Dietary  string
	Category string
}

func active(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && !strings.EqualFold(v, All)
}

// Apply returns the entries matching c in input order.
//
// Visibility is decided first: the hidden status selects only hidden
// recipes, any other status selects only visible ones. The remaining
// filters are a conjunction over that candidate set.
func Apply(entries []Entry, c Criteria) []Entry {
	query := strings.ToLower(strings.TrimSpace(c.Query))
	folder := strings.TrimSpace(c.Folder)
	if f, ok := types.ParseFolder(folder); ok {
		folder = string(f)
	}
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if c.Status.Kind == StatusHidden {
			if !e.Meta.Hidden {
				continue
			}
		} else if e.Meta.Hidden {
			continue
		}

		if query != "" && !matchesQuery(e, query) {
			continue
		}
		if active(folder) && string(e.Meta.PhysicalLocation) != folder {
			continue
		}
		if !matchesStatus(e.Meta, c.Status) {
			continue
		}
		if active(c.Dietary) && !hasDietaryTag(e.Meta, c.Dietary) {
			continue
		}
		if active(c.Category) && !hasCategory(e.Meta, c.Category) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func matchesStatus(m metadata.Metadata, s Status) bool {
	switch s.Kind {
	case StatusTried:
		return m.TriedStatus
	case StatusUntried:
		return !m.TriedStatus
	case StatusStars:
		return m.Rating == s.Stars
	default:
		return true
	}
}

func hasDietaryTag(m metadata.Metadata, tag string) bool {
	want, ok := types.ParseDietaryTag(tag)
	if !ok {
		return false
	}
	for _, t := range m.DietaryTags {
		if t == want {
			return true
		}
	}
	return false
}

func hasCategory(m metadata.Metadata, category string) bool {
	want, ok := types.ParseCategory(category)
	if !ok {
		return false
	}
	for _, c := range m.Category {
		if c == want {
			return true
		}
	}
	return false
}

func matchesQuery(e Entry, query string) bool {
	tags := make([]string, 0, len(e.Meta.DietaryTags))
	for _, t := range e.Meta.DietaryTags {
		tags = append(tags, string(t))
	}
	fields := []string{
		e.Title,
		e.Content,
		strings.Join(tags, " "),
		strings.Join(e.Tags, " "),
		string(e.Meta.PhysicalLocation),
	}
	for _, n := range e.Meta.YourNotes {
		fields = append(fields, n.Text)
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), query) {
			return true
		}
	}
	return false
}

// FacetSet holds the distinct folder and category values across a
// collection, sorted lexicographically.
type FacetSet struct {
	Folders    []string `json:"folders"`
	Categories []string `json:"categories"`
}

// Facets is computed over the whole collection, hidden recipes included.
func Facets(entries []Entry) FacetSet {
	folders := make(map[string]bool)
	categories := make(map[string]bool)
	for _, e := range entries {
		if e.Meta.PhysicalLocation != "" {
			folders[string(e.Meta.PhysicalLocation)] = true
		}
		for _, c := range e.Meta.Category {
			if c != "" {
				categories[string(c)] = true
			}
		}
	}
	return FacetSet{
		Folders:    sortedKeys(folders),
		Categories: sortedKeys(categories),
	}
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Counts summarizes a collection for the list header.
type Counts struct {
	Total   int `json:"total"`
	Visible int `json:"visible"`
	Hidden  int `json:"hidden"`
	Tried   int `json:"tried"`
}

// Count tallies the collection. Tried counts visible recipes only.
func Count(entries []Entry) Counts {
	c := Counts{Total: len(entries)}
	for _, e := range entries {
		if e.Meta.Hidden {
			c.Hidden++
			continue
		}
		c.Visible++
		if e.Meta.TriedStatus {
			c.Tried++
		}
	}
	return c
}
