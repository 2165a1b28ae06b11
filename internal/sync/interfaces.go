package sync

import (
	"context"

	"github.com/iudanet/granola-sync/internal/models"
)

//go:generate moq -out source_mock.go . SourceClient

// SourceClient is the part of the Granola API the sync engine consumes.
type SourceClient interface {
	// Folders lists all folders with their document id references.
	Folders(ctx context.Context) ([]models.Folder, error)

	// Documents lists recent documents, newest first, up to limit.
	Documents(ctx context.Context, limit int) ([]models.Document, error)

	// Transcript fetches the transcript segments for a document.
	Transcript(ctx context.Context, docID string) ([]models.TranscriptSegment, error)
}

//go:generate moq -out sender_mock.go . Sender

// Sender delivers one signed payload to the webhook endpoint and returns a
// single terminal outcome.
type Sender interface {
	Send(ctx context.Context, payload *models.Payload) error
}
