package models

import "time"

// Payload is the event delivered to the webhook endpoint. Field order is
// part of the wire contract: the signature is computed over the exact bytes
// produced by marshaling this struct, and struct order is what keeps that
// encoding stable.
type Payload struct {
	Source           string    `json:"source"`
	FolderName       string    `json:"folder_name"`
	NoteID           string    `json:"note_id"`
	Title            string    `json:"title"`
	MeetingStartedAt time.Time `json:"meeting_started_at"`
	Participants     []string  `json:"participants"`
	NoteText         string    `json:"note_text"`
	Transcript       string    `json:"transcript"`
	URL              string    `json:"url"`
}
