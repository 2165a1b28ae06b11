// Package boltdb implements the ledger store on top of BoltDB. The whole
// state is rewritten in a single transaction per save, so a crash can never
// leave a half-written ledger behind.
package boltdb

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.etcd.io/bbolt"

	"github.com/iudanet/granola-sync/internal/ledger"
)

var (
	// BoltDB bucket names
	bucketMeta    = []byte("meta")
	bucketFolders = []byte("folders")
	bucketSeen    = []byte("seen")
	bucketFailed  = []byte("failed")
	bucketStats   = []byte("stats")
)

const (
	keyVersion  = "version"
	keyLastSync = "last_sync"
	keyStats    = "stats"
)

// Store is the BoltDB-backed ledger store.
type Store struct {
	db *bbolt.DB
}

// New opens (or creates) the ledger database at path. The parent directory
// is created if missing. A short lock timeout keeps a second process from
// hanging on the file lock.
func New(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger database: %w", err)
	}

	store := &Store{db: db}
	if err := store.init(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize ledger database: %w", err)
	}
	return store, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// init creates the buckets and stamps the schema version on a fresh
// database. An existing version is left untouched so Load can reject
// unknown schemas.
func (s *Store) init() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		meta, err := tx.CreateBucketIfNotExists(bucketMeta)
		if err != nil {
			return fmt.Errorf("failed to create meta bucket: %w", err)
		}
		for _, name := range [][]byte{bucketFolders, bucketSeen, bucketFailed, bucketStats} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("failed to create %s bucket: %w", name, err)
			}
		}
		if meta.Get([]byte(keyVersion)) == nil {
			version := strconv.Itoa(ledger.CurrentVersion)
			if err := meta.Put([]byte(keyVersion), []byte(version)); err != nil {
				return fmt.Errorf("failed to write schema version: %w", err)
			}
		}
		return nil
	})
}

// Load reads the full persisted state.
func (s *Store) Load(ctx context.Context) (*ledger.State, error) {
	state := ledger.NewState()

	err := s.db.View(func(tx *bbolt.Tx) error {
		meta := tx.Bucket(bucketMeta)
		if meta == nil {
			return ledger.ErrNotFound
		}

		versionBytes := meta.Get([]byte(keyVersion))
		if versionBytes == nil {
			return ledger.ErrNotFound
		}
		version, err := strconv.Atoi(string(versionBytes))
		if err != nil {
			return fmt.Errorf("%w: unreadable schema version %q", ledger.ErrCorruptState, versionBytes)
		}
		if version != ledger.CurrentVersion {
			return fmt.Errorf("%w: unknown schema version %d", ledger.ErrCorruptState, version)
		}
		state.Version = version

		if lastSync := meta.Get([]byte(keyLastSync)); lastSync != nil {
			t, err := time.Parse(time.RFC3339Nano, string(lastSync))
			if err != nil {
				return fmt.Errorf("%w: unreadable last sync time: %v", ledger.ErrCorruptState, err)
			}
			state.LastSync = t
		}

		if err := loadBucket(tx, bucketFolders, func(name string, value []byte) error {
			var cursor ledger.FolderCursor
			if err := json.Unmarshal(value, &cursor); err != nil {
				return fmt.Errorf("%w: folder cursor %q: %v", ledger.ErrCorruptState, name, err)
			}
			state.Folders[name] = cursor
			return nil
		}); err != nil {
			return err
		}

		if err := loadDocuments(tx, bucketSeen, ledger.StatusDelivered, state); err != nil {
			return err
		}
		if err := loadDocuments(tx, bucketFailed, ledger.StatusFailing, state); err != nil {
			return err
		}

		if statsBytes := tx.Bucket(bucketStats).Get([]byte(keyStats)); statsBytes != nil {
			if err := json.Unmarshal(statsBytes, &state.Stats); err != nil {
				return fmt.Errorf("%w: stats: %v", ledger.ErrCorruptState, err)
			}
			if state.Stats.ByFolder == nil {
				state.Stats.ByFolder = make(map[string]ledger.FolderStats)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return state, nil
}

// Save rewrites the full state in one transaction.
func (s *Store) Save(ctx context.Context, state *ledger.State) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketMeta, bucketFolders, bucketSeen, bucketFailed, bucketStats} {
			if err := recreateBucket(tx, name); err != nil {
				return err
			}
		}

		meta := tx.Bucket(bucketMeta)
		version := strconv.Itoa(state.Version)
		if err := meta.Put([]byte(keyVersion), []byte(version)); err != nil {
			return fmt.Errorf("failed to write schema version: %w", err)
		}
		if !state.LastSync.IsZero() {
			lastSync := state.LastSync.UTC().Format(time.RFC3339Nano)
			if err := meta.Put([]byte(keyLastSync), []byte(lastSync)); err != nil {
				return fmt.Errorf("failed to write last sync time: %w", err)
			}
		}

		folders := tx.Bucket(bucketFolders)
		for name, cursor := range state.Folders {
			value, err := json.Marshal(cursor)
			if err != nil {
				return fmt.Errorf("failed to encode folder cursor %q: %w", name, err)
			}
			if err := folders.Put([]byte(name), value); err != nil {
				return fmt.Errorf("failed to write folder cursor %q: %w", name, err)
			}
		}

		seen := tx.Bucket(bucketSeen)
		failed := tx.Bucket(bucketFailed)
		for id, rec := range state.Documents {
			value, err := json.Marshal(rec)
			if err != nil {
				return fmt.Errorf("failed to encode document %q: %w", id, err)
			}
			bucket := seen
			if rec.Status == ledger.StatusFailing {
				bucket = failed
			}
			if err := bucket.Put([]byte(id), value); err != nil {
				return fmt.Errorf("failed to write document %q: %w", id, err)
			}
		}

		statsValue, err := json.Marshal(state.Stats)
		if err != nil {
			return fmt.Errorf("failed to encode stats: %w", err)
		}
		if err := tx.Bucket(bucketStats).Put([]byte(keyStats), statsValue); err != nil {
			return fmt.Errorf("failed to write stats: %w", err)
		}
		return nil
	})
}

func loadBucket(tx *bbolt.Tx, name []byte, fn func(key string, value []byte) error) error {
	bucket := tx.Bucket(name)
	if bucket == nil {
		return nil
	}
	return bucket.ForEach(func(k, v []byte) error {
		return fn(string(k), v)
	})
}

func loadDocuments(tx *bbolt.Tx, name []byte, status ledger.Status, state *ledger.State) error {
	return loadBucket(tx, name, func(id string, value []byte) error {
		var rec ledger.DocumentRecord
		if err := json.Unmarshal(value, &rec); err != nil {
			return fmt.Errorf("%w: document %q: %v", ledger.ErrCorruptState, id, err)
		}
		rec.Status = status
		state.Documents[id] = rec
		return nil
	})
}

func recreateBucket(tx *bbolt.Tx, name []byte) error {
	if tx.Bucket(name) != nil {
		if err := tx.DeleteBucket(name); err != nil {
			return fmt.Errorf("failed to reset %s bucket: %w", name, err)
		}
	}
	if _, err := tx.CreateBucket(name); err != nil {
		return fmt.Errorf("failed to create %s bucket: %w", name, err)
	}
	return nil
}
