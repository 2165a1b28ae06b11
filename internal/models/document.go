package models

import (
	"bytes"
	"encoding/json"
	"slices"
	"time"
)

// Folder represents a Granola folder as returned by the folders listing.
// Documents are referenced by id; the full objects come from the flat
// documents listing.
type Folder struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	DocumentIDs []string `json:"document_ids"`
}

// Contains reports whether the folder references the given document id.
func (f *Folder) Contains(docID string) bool {
	return slices.Contains(f.DocumentIDs, docID)
}

// Document is a single Granola meeting note from the documents listing.
// The dynamic parts of the API shape (people, panel content) are normalized
// here so the rest of the pipeline works with a fixed structure.
type Document struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	People          People    `json:"people"`
	Attendees       []string  `json:"attendees"`
	LastViewedPanel *Panel    `json:"last_viewed_panel"`
}

// DisplayTitle returns the document title, or "Untitled" when the source
// did not provide one.
func (d *Document) DisplayTitle() string {
	if d.Title == "" {
		return "Untitled"
	}
	return d.Title
}

// EffectiveUpdatedAt returns the source modification time, falling back to
// the creation time when the source never reported an update.
func (d *Document) EffectiveUpdatedAt() time.Time {
	if d.UpdatedAt.IsZero() {
		return d.CreatedAt
	}
	return d.UpdatedAt
}

// Participants collects attendee names from both people shapes plus the
// top-level attendees array, preserving order and dropping duplicates.
func (d *Document) Participants() []string {
	names := make([]string, 0, len(d.People.Attendees)+len(d.Attendees))
	for _, a := range d.People.Attendees {
		name := a.DisplayName
		if name == "" {
			name = a.Name
		}
		if name == "" {
			name = a.Email
		}
		if name != "" && !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	for _, name := range d.Attendees {
		if name != "" && !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	return names
}

// NoteText extracts plain text from the last viewed panel, which may be
// absent entirely.
func (d *Document) NoteText() string {
	if d.LastViewedPanel == nil {
		return ""
	}
	return d.LastViewedPanel.Content.PlainText()
}

// Attendee is one meeting participant.
type Attendee struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

// People tolerates both API shapes: the current object with an attendees
// array, and the legacy bare array of person objects.
type People struct {
	Attendees []Attendee
}

func (p *People) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*p = People{}
		return nil
	}
	if trimmed[0] == '[' {
		return json.Unmarshal(trimmed, &p.Attendees)
	}
	var wrapped struct {
		Attendees []Attendee `json:"attendees"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return err
	}
	p.Attendees = wrapped.Attendees
	return nil
}

// Panel is the rich-content panel attached to a document.
type Panel struct {
	Content Node `json:"content"`
}

// TranscriptSegment is one utterance of a document transcript. Source is
// "microphone" for the note taker and "system" (or similar) for everyone
// else.
type TranscriptSegment struct {
	Source string `json:"source"`
	Text   string `json:"text"`
}
