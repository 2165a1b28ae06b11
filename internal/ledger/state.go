package ledger

import "time"

// CurrentVersion is the ledger schema version. Load rejects any other
// version as corrupt.
const CurrentVersion = 1

// Status tags a tracked document as delivered or currently failing. A
// document holds exactly one status at a time: the single table keyed by
// document id makes the never-both invariant structural.
type Status string

const (
	StatusDelivered Status = "delivered"
	StatusFailing   Status = "failing"
)

// DocumentRecord is the delivery bookkeeping for one document. Delivery
// fields survive a later failed re-delivery attempt: the failure fields
// track only the current outstanding attempt.
type DocumentRecord struct {
	Title      string `json:"title"`
	FolderName string `json:"folder_name"`
	Status     Status `json:"status"`

	FirstSeen   time.Time `json:"first_seen"`
	LastUpdated time.Time `json:"last_updated,omitzero"`
	DeliveredAt time.Time `json:"delivered_at,omitzero"`

	Attempts    int       `json:"attempts,omitzero"`
	LastError   string    `json:"last_error,omitempty"`
	LastAttempt time.Time `json:"last_attempt,omitzero"`
}

// Delivered reports whether the document has ever been delivered
// successfully.
func (r DocumentRecord) Delivered() bool {
	return !r.DeliveredAt.IsZero()
}

// FolderCursor is the per-folder sync cursor.
type FolderCursor struct {
	FolderID string    `json:"folder_id"`
	LastSync time.Time `json:"last_sync"`
}

// FolderStats is the per-folder delivery breakdown.
type FolderStats struct {
	Synced int `json:"synced"`
	Errors int `json:"errors"`
}

// Stats are aggregate delivery counters, updated on every outcome.
type Stats struct {
	TotalSynced int                    `json:"total_synced"`
	TotalErrors int                    `json:"total_errors"`
	LastError   time.Time              `json:"last_error,omitzero"`
	ByFolder    map[string]FolderStats `json:"by_folder"`
}

// State is the full in-memory ledger state.
type State struct {
	Version   int                       `json:"version"`
	LastSync  time.Time                 `json:"last_sync,omitzero"`
	Folders   map[string]FolderCursor   `json:"folders"`
	Documents map[string]DocumentRecord `json:"documents"`
	Stats     Stats                     `json:"stats"`
}

// NewState returns an empty state at the current schema version.
func NewState() *State {
	return &State{
		Version:   CurrentVersion,
		Folders:   make(map[string]FolderCursor),
		Documents: make(map[string]DocumentRecord),
		Stats: Stats{
			ByFolder: make(map[string]FolderStats),
		},
	}
}
