package ledger

import "errors"

// Common ledger errors
var (
	// ErrNotFound indicates that no persisted ledger state exists yet.
	ErrNotFound = errors.New("ledger state not found")

	// ErrCorruptState indicates the persisted ledger exists but cannot be
	// parsed, or carries an unknown schema version.
	ErrCorruptState = errors.New("ledger state is corrupt")
)
