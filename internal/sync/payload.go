package sync

import (
	"strings"

	"github.com/iudanet/granola-sync/internal/models"
)

// noteURLBase is the canonical link prefix for Granola notes.
const noteURLBase = "https://notes.granola.ai/d/"

// buildPayload assembles the webhook event for one document.
func buildPayload(doc models.Document, folderName, transcript string) *models.Payload {
	return &models.Payload{
		Source:           "Granola",
		FolderName:       folderName,
		NoteID:           doc.ID,
		Title:            doc.DisplayTitle(),
		MeetingStartedAt: doc.CreatedAt,
		Participants:     doc.Participants(),
		NoteText:         doc.NoteText(),
		Transcript:       transcript,
		URL:              noteURLBase + doc.ID,
	}
}

// formatTranscript renders transcript segments as plain text, one
// utterance per line. The microphone source is the note taker.
func formatTranscript(segments []models.TranscriptSegment) string {
	lines := make([]string, 0, len(segments))
	for _, seg := range segments {
		speaker := "Them"
		if seg.Source == "microphone" {
			speaker = "Me"
		}
		lines = append(lines, speaker+": "+seg.Text)
	}
	return strings.Join(lines, "\n")
}
