package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Ledger is the single source of truth for which documents have been
// delivered. All mutation methods are in-memory; call Save once per sync
// cycle to persist.
type Ledger struct {
	store  Store
	logger *slog.Logger
	state  *State
	now    func() time.Time
}

// New loads persisted state from the store, starting fresh when nothing
// has been persisted yet. A corrupt persisted state is returned to the
// caller, who decides whether to abort or reset.
func New(ctx context.Context, store Store, logger *slog.Logger) (*Ledger, error) {
	l := &Ledger{
		store:  store,
		logger: logger,
		now:    time.Now,
	}

	state, err := store.Load(ctx)
	switch {
	case errors.Is(err, ErrNotFound):
		logger.Debug("no persisted ledger state, starting fresh")
		l.state = NewState()
	case err != nil:
		return nil, fmt.Errorf("failed to load ledger state: %w", err)
	default:
		l.state = state
	}
	return l, nil
}

// IsNewOrUpdated reports whether the document should be delivered: it has
// never been delivered successfully, or the source revision is strictly
// newer than the last delivered one.
func (l *Ledger) IsNewOrUpdated(docID string, sourceUpdated time.Time) bool {
	rec, ok := l.state.Documents[docID]
	if !ok {
		return true
	}
	if !rec.Delivered() {
		// Currently failing and never delivered: stays eligible each cycle.
		return true
	}
	return sourceUpdated.After(rec.LastUpdated)
}

// MarkDelivered upserts the delivery record for a document, clearing any
// outstanding failure and incrementing success counters.
func (l *Ledger) MarkDelivered(docID, title, folderName string, sourceUpdated time.Time) {
	now := l.now().UTC()

	rec := l.state.Documents[docID]
	if rec.FirstSeen.IsZero() {
		rec.FirstSeen = now
	}
	rec.Title = title
	rec.FolderName = folderName
	rec.Status = StatusDelivered
	rec.LastUpdated = sourceUpdated
	rec.DeliveredAt = now
	rec.Attempts = 0
	rec.LastError = ""
	rec.LastAttempt = time.Time{}
	l.state.Documents[docID] = rec

	l.state.Stats.TotalSynced++
	fs := l.state.Stats.ByFolder[folderName]
	fs.Synced++
	l.state.Stats.ByFolder[folderName] = fs

	l.logger.Debug("document marked delivered", "doc_id", docID, "folder", folderName)
}

// MarkFailed upserts the failure record for a document and increments
// error counters. Prior success history (last delivered revision) is kept:
// the failure fields describe only the current outstanding attempt.
func (l *Ledger) MarkFailed(docID, title, folderName, errMsg string) {
	now := l.now().UTC()

	rec := l.state.Documents[docID]
	if rec.FirstSeen.IsZero() {
		rec.FirstSeen = now
	}
	if title != "" {
		rec.Title = title
	} else if rec.Title == "" {
		rec.Title = "Unknown"
	}
	rec.FolderName = folderName
	rec.Status = StatusFailing
	rec.Attempts++
	rec.LastError = errMsg
	rec.LastAttempt = now
	l.state.Documents[docID] = rec

	l.state.Stats.TotalErrors++
	l.state.Stats.LastError = now
	fs := l.state.Stats.ByFolder[folderName]
	fs.Errors++
	l.state.Stats.ByFolder[folderName] = fs

	l.logger.Debug("document marked failed",
		"doc_id", docID,
		"folder", folderName,
		"attempts", rec.Attempts,
		"error", errMsg)
}

// TouchFolder updates the folder cursor's last sync time.
func (l *Ledger) TouchFolder(folderName, folderID string) {
	l.state.Folders[folderName] = FolderCursor{
		FolderID: folderID,
		LastSync: l.now().UTC(),
	}
}

// Save persists the full state. Loss here risks re-delivery on a later
// cycle, never a double send within the current one.
func (l *Ledger) Save(ctx context.Context) error {
	l.state.LastSync = l.now().UTC()
	if err := l.store.Save(ctx, l.state); err != nil {
		return fmt.Errorf("failed to persist ledger state: %w", err)
	}
	return nil
}

// Document returns the record for a document id, if tracked.
func (l *Ledger) Document(docID string) (DocumentRecord, bool) {
	rec, ok := l.state.Documents[docID]
	return rec, ok
}

// FailedDocuments returns the documents whose delivery is currently
// failing.
func (l *Ledger) FailedDocuments() map[string]DocumentRecord {
	failed := make(map[string]DocumentRecord)
	for id, rec := range l.state.Documents {
		if rec.Status == StatusFailing {
			failed[id] = rec
		}
	}
	return failed
}

// DeliveredCount returns the number of documents currently marked
// delivered.
func (l *Ledger) DeliveredCount() int {
	n := 0
	for _, rec := range l.state.Documents {
		if rec.Status == StatusDelivered {
			n++
		}
	}
	return n
}

// Stats returns a copy of the aggregate counters.
func (l *Ledger) Stats() Stats {
	stats := l.state.Stats
	stats.ByFolder = make(map[string]FolderStats, len(l.state.Stats.ByFolder))
	for name, fs := range l.state.Stats.ByFolder {
		stats.ByFolder[name] = fs
	}
	return stats
}

// LastSync returns the time of the last persisted cycle.
func (l *Ledger) LastSync() time.Time {
	return l.state.LastSync
}

// Reset discards all in-memory state. Call Save to make it durable.
func (l *Ledger) Reset() {
	l.state = NewState()
	l.logger.Info("ledger state cleared")
}

// Close releases the underlying store.
func (l *Ledger) Close() error {
	return l.store.Close()
}
