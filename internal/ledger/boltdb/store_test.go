package boltdb

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"

	"github.com/iudanet/granola-sync/internal/ledger"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state.db")
	store, err := New(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store, path
}

func TestLoad_FreshDatabase(t *testing.T) {
	store, _ := newTestStore(t)

	state, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, ledger.CurrentVersion, state.Version)
	assert.Empty(t, state.Documents)
	assert.Empty(t, state.Folders)
	assert.Zero(t, state.Stats.TotalSynced)
}

func TestSaveLoad_Roundtrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	t1 := time.Date(2026, 1, 17, 10, 0, 0, 0, time.UTC)
	state := ledger.NewState()
	state.LastSync = t1.Add(time.Hour)
	state.Folders["SQP"] = ledger.FolderCursor{FolderID: "f1", LastSync: t1}
	state.Documents["doc_1"] = ledger.DocumentRecord{
		Title:       "Planning",
		FolderName:  "SQP",
		Status:      ledger.StatusDelivered,
		FirstSeen:   t1,
		LastUpdated: t1,
		DeliveredAt: t1,
	}
	state.Documents["doc_2"] = ledger.DocumentRecord{
		Title:       "Retro",
		FolderName:  "SQP",
		Status:      ledger.StatusFailing,
		FirstSeen:   t1,
		Attempts:    3,
		LastError:   "webhook returned status 500",
		LastAttempt: t1,
	}
	state.Stats.TotalSynced = 1
	state.Stats.TotalErrors = 3
	state.Stats.LastError = t1
	state.Stats.ByFolder["SQP"] = ledger.FolderStats{Synced: 1, Errors: 3}

	require.NoError(t, store.Save(ctx, state))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, state.LastSync.UTC(), loaded.LastSync.UTC())
	assert.Equal(t, state.Folders, loaded.Folders)
	assert.Equal(t, state.Stats, loaded.Stats)
	require.Len(t, loaded.Documents, 2)
	assert.Equal(t, ledger.StatusDelivered, loaded.Documents["doc_1"].Status)
	assert.Equal(t, ledger.StatusFailing, loaded.Documents["doc_2"].Status)
	assert.Equal(t, 3, loaded.Documents["doc_2"].Attempts)
}

func TestSave_Repeatedly(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	state := ledger.NewState()
	state.Documents["doc_1"] = ledger.DocumentRecord{
		Title: "Planning", FolderName: "SQP", Status: ledger.StatusDelivered,
	}
	require.NoError(t, store.Save(ctx, state))

	// A document flipping from failing to delivered must not linger in the
	// failed bucket after the next save.
	state.Documents["doc_1"] = ledger.DocumentRecord{
		Title: "Planning", FolderName: "SQP", Status: ledger.StatusFailing, Attempts: 1,
	}
	require.NoError(t, store.Save(ctx, state))
	state.Documents["doc_1"] = ledger.DocumentRecord{
		Title: "Planning", FolderName: "SQP", Status: ledger.StatusDelivered,
	}
	require.NoError(t, store.Save(ctx, state))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded.Documents, 1)
	assert.Equal(t, ledger.StatusDelivered, loaded.Documents["doc_1"].Status)
}

func TestLoad_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	ctx := context.Background()

	store, err := New(ctx, path)
	require.NoError(t, err)
	state := ledger.NewState()
	state.Documents["doc_1"] = ledger.DocumentRecord{
		Title: "Planning", FolderName: "SQP", Status: ledger.StatusDelivered,
	}
	require.NoError(t, store.Save(ctx, state))
	require.NoError(t, store.Close())

	reopened, err := New(ctx, path)
	require.NoError(t, err)
	defer func() {
		_ = reopened.Close()
	}()

	loaded, err := reopened.Load(ctx)
	require.NoError(t, err)
	assert.Contains(t, loaded.Documents, "doc_1")
}

func TestLoad_UnknownVersion(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	err := store.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketMeta).Put([]byte(keyVersion), []byte("42"))
	})
	require.NoError(t, err)

	_, err = store.Load(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, ledger.ErrCorruptState)
}

func TestLoad_CorruptDocument(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	err := store.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSeen).Put([]byte("doc_1"), []byte("{not json"))
	})
	require.NoError(t, err)

	_, err = store.Load(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, ledger.ErrCorruptState)
}

func TestNew_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "state.db")

	store, err := New(context.Background(), path)
	require.NoError(t, err)
	defer func() {
		_ = store.Close()
	}()

	_, err = store.Load(context.Background())
	assert.NoError(t, err)
}
