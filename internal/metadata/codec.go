// Package metadata owns the per-recipe metadata record: decoding whatever
// shape storage hands back, normalizing legacy shapes, and encoding the
// canonical shape for writes.
//
// Shape sniffing (string-or-list notes, scalar-or-list category, text-or-object
// blobs) happens only in this file. Everything else in the module works on
// the canonical Metadata value.
package metadata

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/pageza/recipebox/backend/internal/types"
)

var (
	// ErrMalformedMetadata is returned when a stored blob cannot be decoded.
	ErrMalformedMetadata = errors.New("malformed metadata")
	// ErrValidationRejected is returned by strict validation.
	ErrValidationRejected = errors.New("validation rejected")
	// ErrIndexOutOfRange is returned when a note index does not exist.
	ErrIndexOutOfRange = errors.New("note index out of range")
)

// Note is a single dated annotation. Date is nil for the undated entry
// produced when migrating a legacy free-text note.
type Note struct {
	Date *string `json:"date"`
	Text string  `json:"text"`
}

// Metadata is the canonical in-memory metadata record.
type Metadata struct {
	SourceURL        string             `json:"source_url,omitempty"`
	ImageURL         string             `json:"image_url,omitempty"`
	Rating           int                `json:"rating"`
	TriedStatus      bool               `json:"tried_status"`
	PhysicalLocation types.Folder       `json:"physical_location"`
	Category         []types.Category   `json:"category"`
	DietaryTags      []types.DietaryTag `json:"dietary_tags"`
	YourNotes        []Note             `json:"your_notes"`
	Hidden           bool               `json:"hidden"`

	// extra holds keys this package does not interpret so that a
	// decode/encode round trip never drops them.
	extra map[string]json.RawMessage
	// badRating is a staged rating that is not a whole number, kept
	// verbatim until Sanitize or a patch replaces it.
	badRating json.RawMessage
}

var knownKeys = map[string]bool{
	"source_url":        true,
	"image_url":         true,
	"rating":            true,
	"tried_status":      true,
	"physical_location": true,
	"category":          true,
	"dietary_tags":      true,
	"your_notes":        true,
	"hidden":            true,
}

// Empty returns the record used for missing or unreadable metadata.
func Empty() Metadata {
	return Metadata{
		Category:    []types.Category{},
		DietaryTags: []types.DietaryTag{},
		YourNotes:   []Note{},
	}
}

// Extra returns the raw value of a key the codec does not interpret.
func (m Metadata) Extra(key string) (json.RawMessage, bool) {
	v, ok := m.extra[key]
	return v, ok
}

// SetExtra stores an uninterpreted key. Known keys are ignored.
func (m *Metadata) SetExtra(key string, value any) error {
	if knownKeys[key] {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	if m.extra == nil {
		m.extra = make(map[string]json.RawMessage)
	}
	m.extra[key] = raw
	return nil
}

// Clone returns a deep copy so callers can edit without aliasing slices.
func (m Metadata) Clone() Metadata {
	out := m
	out.Category = append([]types.Category{}, m.Category...)
	out.DietaryTags = append([]types.DietaryTag{}, m.DietaryTags...)
	out.YourNotes = make([]Note, len(m.YourNotes))
	for i, n := range m.YourNotes {
		out.YourNotes[i] = Note{Text: n.Text}
		if n.Date != nil {
			d := *n.Date
			out.YourNotes[i].Date = &d
		}
	}
	if m.badRating != nil {
		out.badRating = append(json.RawMessage{}, m.badRating...)
	}
	if m.extra != nil {
		out.extra = make(map[string]json.RawMessage, len(m.extra))
		for k, v := range m.extra {
			out.extra[k] = append(json.RawMessage{}, v...)
		}
	}
	return out
}

// Decode normalizes a stored blob. The blob may be a JSON object, a JSON
// string holding an encoded object, or empty.
func Decode(raw []byte) (Metadata, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return Empty(), nil
	}

	switch raw[0] {
	case '"':
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return Empty(), fmt.Errorf("%w: %v", ErrMalformedMetadata, err)
		}
		return decodeText(text)
	case '{':
		return decodeObject(raw)
	default:
		return Empty(), fmt.Errorf("%w: unexpected %q", ErrMalformedMetadata, raw[0])
	}
}

// DecodeValue accepts the forms a storage client may return: encoded text,
// raw bytes, or an already structured map.
func DecodeValue(v any) (Metadata, error) {
	switch val := v.(type) {
	case nil:
		return Empty(), nil
	case string:
		return decodeText(val)
	case []byte:
		return Decode(val)
	case json.RawMessage:
		return Decode(val)
	case map[string]any:
		raw, err := json.Marshal(val)
		if err != nil {
			return Empty(), fmt.Errorf("%w: %v", ErrMalformedMetadata, err)
		}
		return decodeObject(raw)
	default:
		return Empty(), fmt.Errorf("%w: unsupported type %T", ErrMalformedMetadata, v)
	}
}

// DecodeOrEmpty is the soft-fail variant used by listing paths. The error is
// returned for logging only; the record is always usable.
func DecodeOrEmpty(raw []byte) (Metadata, error) {
	m, err := Decode(raw)
	if err != nil {
		return Empty(), err
	}
	return m, nil
}

// DecodeStaged reads back a pending edit written by Encode. Ratings and
// enumerated values are kept verbatim so that Sanitize sees what the user
// entered.
func DecodeStaged(raw []byte) (Metadata, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return Empty(), fmt.Errorf("%w: staged edit is not an object", ErrMalformedMetadata)
	}
	return decodeFields(raw, true)
}

func decodeText(text string) (Metadata, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Empty(), nil
	}
	if text[0] != '{' {
		return Empty(), fmt.Errorf("%w: text is not an object", ErrMalformedMetadata)
	}
	return decodeObject([]byte(text))
}

func decodeObject(raw []byte) (Metadata, error) {
	return decodeFields(raw, false)
}

func decodeFields(raw []byte, staged bool) (Metadata, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Empty(), fmt.Errorf("%w: %v", ErrMalformedMetadata, err)
	}

	m := Empty()
	for key, value := range fields {
		switch key {
		case "source_url":
			m.SourceURL = decodeString(value)
		case "image_url":
			m.ImageURL = decodeString(value)
		case "rating":
			if staged {
				m.Rating, m.badRating = decodeStagedRating(value)
			} else {
				m.Rating = decodeRating(value)
			}
		case "tried_status":
			m.TriedStatus = decodeBool(value)
		case "hidden":
			m.Hidden = decodeBool(value)
		case "physical_location":
			if staged {
				m.PhysicalLocation = types.Folder(decodeString(value))
			} else if folder, ok := types.ParseFolder(decodeString(value)); ok {
				m.PhysicalLocation = folder
			}
		case "category":
			if staged {
				for _, c := range decodeStringList(value) {
					m.Category = append(m.Category, types.Category(c))
				}
			} else {
				m.Category = decodeCategories(value)
			}
		case "dietary_tags":
			if staged {
				for _, t := range decodeStringList(value) {
					m.DietaryTags = append(m.DietaryTags, types.DietaryTag(t))
				}
			} else {
				m.DietaryTags = decodeDietaryTags(value)
			}
		case "your_notes":
			m.YourNotes = decodeNotes(value)
		default:
			if m.extra == nil {
				m.extra = make(map[string]json.RawMessage)
			}
			m.extra[key] = append(json.RawMessage{}, value...)
		}
	}
	return m, nil
}

// Encode serializes the canonical shape. Legacy shapes are never written.
func Encode(m Metadata) ([]byte, error) {
	out := make(map[string]any, len(knownKeys)+len(m.extra))
	for k, v := range m.extra {
		out[k] = v
	}
	if m.SourceURL != "" {
		out["source_url"] = m.SourceURL
	}
	if m.ImageURL != "" {
		out["image_url"] = m.ImageURL
	}
	if m.badRating != nil {
		out["rating"] = m.badRating
	} else {
		out["rating"] = m.Rating
	}
	out["tried_status"] = m.TriedStatus
	out["physical_location"] = string(m.PhysicalLocation)
	out["hidden"] = m.Hidden

	categories := m.Category
	if categories == nil {
		categories = []types.Category{}
	}
	out["category"] = categories

	tags := m.DietaryTags
	if tags == nil {
		tags = []types.DietaryTag{}
	}
	out["dietary_tags"] = tags

	notes := m.YourNotes
	if notes == nil {
		notes = []Note{}
	}
	out["your_notes"] = notes

	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("failed to encode metadata: %w", err)
	}
	return data, nil
}

// MarshalJSON lets handlers return Metadata directly.
func (m Metadata) MarshalJSON() ([]byte, error) {
	return Encode(m)
}

// UnmarshalJSON decodes through the same normalization as stored blobs.
func (m *Metadata) UnmarshalJSON(data []byte) error {
	decoded, err := Decode(data)
	if err != nil {
		return err
	}
	*m = decoded
	return nil
}

func decodeString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

func decodeBool(raw json.RawMessage) bool {
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false
	}
	return b
}

func decodeRating(raw json.RawMessage) int {
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0
	}
	if f != math.Trunc(f) || f < 0 || f > 5 {
		return 0
	}
	return int(f)
}

// decodeStagedRating keeps out-of-range whole numbers for Sanitize to judge
// and returns anything else as raw JSON.
func decodeStagedRating(raw json.RawMessage) (int, json.RawMessage) {
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, append(json.RawMessage{}, raw...)
	}
	return int(f), nil
}

// decodeStringList accepts a scalar string or a list of strings.
func decodeStringList(raw json.RawMessage) []string {
	var list []any
	if err := json.Unmarshal(raw, &list); err == nil {
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	if s := decodeString(raw); s != "" {
		return []string{s}
	}
	return nil
}

func decodeCategories(raw json.RawMessage) []types.Category {
	out := []types.Category{}
	seen := make(map[types.Category]bool)
	for _, s := range decodeStringList(raw) {
		c, ok := types.ParseCategory(s)
		if !ok || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

func decodeDietaryTags(raw json.RawMessage) []types.DietaryTag {
	out := []types.DietaryTag{}
	seen := make(map[types.DietaryTag]bool)
	for _, s := range decodeStringList(raw) {
		t, ok := types.ParseDietaryTag(s)
		if !ok || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func decodeNotes(raw json.RawMessage) []Note {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		if strings.TrimSpace(text) == "" {
			return []Note{}
		}
		return []Note{{Text: text}}
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return []Note{}
	}
	notes := make([]Note, 0, len(items))
	for _, item := range items {
		if bytes.Equal(bytes.TrimSpace(item), []byte("null")) {
			continue
		}
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			if strings.TrimSpace(s) != "" {
				notes = append(notes, Note{Text: s})
			}
			continue
		}
		var entry struct {
			Date *string `json:"date"`
			Text *string `json:"text"`
		}
		if err := json.Unmarshal(item, &entry); err != nil || entry.Text == nil || strings.TrimSpace(*entry.Text) == "" {
			continue
		}
		notes = append(notes, Note{Date: entry.Date, Text: *entry.Text})
	}
	return notes
}
