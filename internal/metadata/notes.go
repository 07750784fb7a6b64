package metadata

import (
	"fmt"
	"strings"
	"time"
)

// NoteDateLayout is the short human date stamped on new notes.
const NoteDateLayout = "Jan 2, 2006"

// Ledger prepends dated notes. Now is overridable for tests.
type Ledger struct {
	Now func() time.Time
}

func (l Ledger) now() time.Time {
	if l.Now != nil {
		return l.Now()
	}
	return time.Now()
}

// AddNote prepends a note dated today. Blank text is a no-op and reports
// false; the record is returned unchanged.
func (l Ledger) AddNote(m Metadata, text string) (Metadata, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return m, false
	}
	out := m.Clone()
	date := l.now().Format(NoteDateLayout)
	out.YourNotes = append([]Note{{Date: &date, Text: text}}, out.YourNotes...)
	return out, true
}

// DeleteNote removes the note at index. An index outside the list leaves the
// record unchanged and returns ErrIndexOutOfRange.
func DeleteNote(m Metadata, index int) (Metadata, error) {
	if index < 0 || index >= len(m.YourNotes) {
		return m, fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, index, len(m.YourNotes))
	}
	out := m.Clone()
	out.YourNotes = append(out.YourNotes[:index], out.YourNotes[index+1:]...)
	return out, nil
}

// NotesText flattens notes to "date: text | date: text".
func NotesText(m Metadata) string {
	parts := make([]string, 0, len(m.YourNotes))
	for _, n := range m.YourNotes {
		date := "Undated"
		if n.Date != nil && *n.Date != "" {
			date = *n.Date
		}
		parts = append(parts, date+": "+n.Text)
	}
	return strings.Join(parts, " | ")
}
