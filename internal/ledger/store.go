package ledger

import "context"

//go:generate moq -out store_mock.go . Store

// Store persists ledger state. The ledger mutates state in memory only;
// durability happens solely through Save.
type Store interface {
	// Load reads the persisted state. Returns ErrNotFound when nothing has
	// been persisted yet and ErrCorruptState when the persisted form cannot
	// be parsed.
	Load(ctx context.Context) (*State, error)

	// Save persists the full state atomically. Safe to call repeatedly.
	Save(ctx context.Context, state *State) error

	// Close releases the underlying storage.
	Close() error
}
