package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_DisplayTitle(t *testing.T) {
	doc := Document{Title: "Sprint Planning"}
	assert.Equal(t, "Sprint Planning", doc.DisplayTitle())

	doc.Title = ""
	assert.Equal(t, "Untitled", doc.DisplayTitle())
}

func TestDocument_EffectiveUpdatedAt(t *testing.T) {
	created := time.Date(2026, 1, 17, 10, 0, 0, 0, time.UTC)
	updated := created.Add(time.Hour)

	doc := Document{CreatedAt: created, UpdatedAt: updated}
	assert.Equal(t, updated, doc.EffectiveUpdatedAt())

	doc.UpdatedAt = time.Time{}
	assert.Equal(t, created, doc.EffectiveUpdatedAt())
}

func TestDocument_Participants(t *testing.T) {
	doc := Document{
		People: People{Attendees: []Attendee{
			{DisplayName: "John Doe", Name: "john", Email: "john@example.com"},
			{Name: "Jane Roe", Email: "jane@example.com"},
			{Email: "anon@example.com"},
			{},
		}},
		Attendees: []string{"John Doe", "External Guest", ""},
	}

	got := doc.Participants()

	assert.Equal(t, []string{"John Doe", "Jane Roe", "anon@example.com", "External Guest"}, got)
}

func TestDocument_Participants_Empty(t *testing.T) {
	doc := Document{}
	assert.Empty(t, doc.Participants())
}

func TestPeople_UnmarshalJSON_ObjectShape(t *testing.T) {
	var doc Document
	data := []byte(`{
		"id": "doc_1",
		"people": {"attendees": [{"display_name": "John Doe", "email": "john@example.com"}]}
	}`)

	require.NoError(t, json.Unmarshal(data, &doc))
	require.Len(t, doc.People.Attendees, 1)
	assert.Equal(t, "John Doe", doc.People.Attendees[0].DisplayName)
}

func TestPeople_UnmarshalJSON_ArrayShape(t *testing.T) {
	var doc Document
	data := []byte(`{
		"id": "doc_1",
		"people": [{"name": "Jane Roe"}, {"email": "anon@example.com"}]
	}`)

	require.NoError(t, json.Unmarshal(data, &doc))
	require.Len(t, doc.People.Attendees, 2)
	assert.Equal(t, "Jane Roe", doc.People.Attendees[0].Name)
	assert.Equal(t, "anon@example.com", doc.People.Attendees[1].Email)
}

func TestPeople_UnmarshalJSON_Null(t *testing.T) {
	var doc Document
	data := []byte(`{"id": "doc_1", "people": null}`)

	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Empty(t, doc.People.Attendees)
}

func TestDocument_NoteText_NoPanel(t *testing.T) {
	doc := Document{}
	assert.Equal(t, "", doc.NoteText())
}

func TestFolder_Contains(t *testing.T) {
	folder := Folder{DocumentIDs: []string{"a", "b"}}

	assert.True(t, folder.Contains("a"))
	assert.False(t, folder.Contains("c"))
}
