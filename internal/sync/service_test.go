package sync

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/granola-sync/internal/config"
	"github.com/iudanet/granola-sync/internal/ledger"
	"github.com/iudanet/granola-sync/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Webhook.URL = "https://example.com/webhook"
	cfg.Webhook.Secret = "test-secret"
	cfg.Granola.Folders = []string{"SQP", "CLIENT-A"}
	cfg.Sync.Interval = 1
	cfg.Sync.BatchSize = 5
	cfg.Sync.RetryAttempts = 2
	cfg.Sync.RetryDelay = 0
	return cfg
}

func testLedger(t *testing.T) *ledger.Ledger {
	t.Helper()
	store := &ledger.StoreMock{
		LoadFunc: func(ctx context.Context) (*ledger.State, error) {
			return nil, ledger.ErrNotFound
		},
		SaveFunc: func(ctx context.Context, state *ledger.State) error {
			return nil
		},
		CloseFunc: func() error {
			return nil
		},
	}
	led, err := ledger.New(context.Background(), store, testLogger())
	require.NoError(t, err)
	return led
}

var (
	t1 = time.Date(2026, 1, 17, 10, 0, 0, 0, time.UTC)
	t2 = time.Date(2026, 1, 17, 11, 0, 0, 0, time.UTC)
)

func testSource(folders []models.Folder, documents []models.Document) *SourceClientMock {
	return &SourceClientMock{
		FoldersFunc: func(ctx context.Context) ([]models.Folder, error) {
			return folders, nil
		},
		DocumentsFunc: func(ctx context.Context, limit int) ([]models.Document, error) {
			return documents, nil
		},
		TranscriptFunc: func(ctx context.Context, docID string) ([]models.TranscriptSegment, error) {
			return []models.TranscriptSegment{{Source: "microphone", Text: "Hello"}}, nil
		},
	}
}

func okSender() *SenderMock {
	return &SenderMock{
		SendFunc: func(ctx context.Context, payload *models.Payload) error {
			return nil
		},
	}
}

func TestSyncOnce_NoDocuments(t *testing.T) {
	source := testSource([]models.Folder{
		{ID: "f1", Title: "SQP"},
		{ID: "f2", Title: "CLIENT-A"},
	}, nil)
	sender := okSender()

	svc := NewService(testConfig(), source, sender, testLedger(t), testLogger())
	summary, err := svc.SyncOnce(context.Background(), false)

	require.NoError(t, err)
	assert.Equal(t, 2, summary.FoldersChecked)
	assert.Equal(t, 0, summary.DocumentsFound)
	assert.Equal(t, 0, summary.DocumentsNew)
	assert.Empty(t, sender.SendCalls())
}

func TestSyncOnce_NewDocumentDelivered(t *testing.T) {
	source := testSource([]models.Folder{
		{ID: "f1", Title: "SQP", DocumentIDs: []string{"doc_1"}},
	}, []models.Document{
		{ID: "doc_1", Title: "Sprint Planning", CreatedAt: t1, UpdatedAt: t1},
	})
	sender := okSender()
	led := testLedger(t)

	cfg := testConfig()
	cfg.Granola.Folders = []string{"SQP"}

	svc := NewService(cfg, source, sender, led, testLogger())
	summary, err := svc.SyncOnce(context.Background(), false)

	require.NoError(t, err)
	assert.Equal(t, 1, summary.DocumentsFound)
	assert.Equal(t, 1, summary.DocumentsNew)
	assert.Equal(t, 1, summary.DocumentsSynced)
	assert.Equal(t, 0, summary.DocumentsFailed)

	require.Len(t, sender.SendCalls(), 1)
	payload := sender.SendCalls()[0].Payload
	assert.Equal(t, "Granola", payload.Source)
	assert.Equal(t, "SQP", payload.FolderName)
	assert.Equal(t, "doc_1", payload.NoteID)
	assert.Equal(t, "Me: Hello", payload.Transcript)
	assert.Equal(t, "https://notes.granola.ai/d/doc_1", payload.URL)

	rec, ok := led.Document("doc_1")
	require.True(t, ok)
	assert.Equal(t, ledger.StatusDelivered, rec.Status)
	assert.Equal(t, t1, rec.LastUpdated)
	assert.Equal(t, 1, led.Stats().TotalSynced)
}

func TestSyncOnce_UnchangedDocumentSkipped(t *testing.T) {
	source := testSource([]models.Folder{
		{ID: "f1", Title: "SQP", DocumentIDs: []string{"doc_1"}},
	}, []models.Document{
		{ID: "doc_1", Title: "Sprint Planning", CreatedAt: t1, UpdatedAt: t1},
	})
	sender := okSender()
	led := testLedger(t)

	cfg := testConfig()
	cfg.Granola.Folders = []string{"SQP"}
	svc := NewService(cfg, source, sender, led, testLogger())

	_, err := svc.SyncOnce(context.Background(), false)
	require.NoError(t, err)

	// Re-running with unchanged source data delivers nothing.
	summary, err := svc.SyncOnce(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.DocumentsNew)
	assert.Equal(t, 0, summary.DocumentsSynced)
	assert.Len(t, sender.SendCalls(), 1)
}

func TestSyncOnce_UpdatedDocumentRedelivered(t *testing.T) {
	documents := []models.Document{
		{ID: "doc_1", Title: "Sprint Planning", CreatedAt: t1, UpdatedAt: t1},
	}
	source := testSource([]models.Folder{
		{ID: "f1", Title: "SQP", DocumentIDs: []string{"doc_1"}},
	}, documents)
	sender := okSender()
	led := testLedger(t)

	cfg := testConfig()
	cfg.Granola.Folders = []string{"SQP"}
	svc := NewService(cfg, source, sender, led, testLogger())

	_, err := svc.SyncOnce(context.Background(), false)
	require.NoError(t, err)

	// Source reports a strictly newer revision on the next cycle.
	documents[0].UpdatedAt = t2
	summary, err := svc.SyncOnce(context.Background(), false)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.DocumentsSynced)
	assert.Len(t, sender.SendCalls(), 2)
	rec, _ := led.Document("doc_1")
	assert.Equal(t, t2, rec.LastUpdated)
}

func TestSyncOnce_FolderNotFound(t *testing.T) {
	source := testSource([]models.Folder{
		{ID: "f1", Title: "Other"},
	}, nil)
	sender := okSender()

	svc := NewService(testConfig(), source, sender, testLedger(t), testLogger())
	summary, err := svc.SyncOnce(context.Background(), false)

	require.NoError(t, err)
	assert.Equal(t, 0, summary.DocumentsFound)
	require.Contains(t, summary.ByFolder, "SQP")
	assert.Equal(t, 0, summary.ByFolder["SQP"].Total)
	assert.Empty(t, sender.SendCalls())
}

func TestSyncOnce_SourceUnavailable(t *testing.T) {
	source := testSource(nil, nil)
	source.FoldersFunc = func(ctx context.Context) ([]models.Folder, error) {
		return nil, errors.New("connection refused")
	}

	svc := NewService(testConfig(), source, okSender(), testLedger(t), testLogger())
	_, err := svc.SyncOnce(context.Background(), false)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "source unavailable")
}

func TestSyncOnce_DeliveryFailureRecorded(t *testing.T) {
	source := testSource([]models.Folder{
		{ID: "f1", Title: "SQP", DocumentIDs: []string{"doc_1", "doc_2"}},
	}, []models.Document{
		{ID: "doc_1", Title: "Sprint Planning", CreatedAt: t1},
		{ID: "doc_2", Title: "Retrospective", CreatedAt: t1},
	})
	sender := &SenderMock{
		SendFunc: func(ctx context.Context, payload *models.Payload) error {
			if payload.NoteID == "doc_1" {
				return errors.New("webhook delivery failed after 2 attempt(s): webhook returned status 500")
			}
			return nil
		},
	}
	led := testLedger(t)

	cfg := testConfig()
	cfg.Granola.Folders = []string{"SQP"}
	svc := NewService(cfg, source, sender, led, testLogger())

	summary, err := svc.SyncOnce(context.Background(), false)
	require.NoError(t, err)

	// A failure on one document does not abort the cycle.
	assert.Equal(t, 1, summary.DocumentsSynced)
	assert.Equal(t, 1, summary.DocumentsFailed)
	assert.Len(t, sender.SendCalls(), 2)

	failed := led.FailedDocuments()
	require.Contains(t, failed, "doc_1")
	assert.Equal(t, 1, failed["doc_1"].Attempts)
	assert.Equal(t, 1, led.Stats().TotalErrors)

	rec, _ := led.Document("doc_2")
	assert.Equal(t, ledger.StatusDelivered, rec.Status)
}

func TestSyncOnce_DryRun(t *testing.T) {
	source := testSource([]models.Folder{
		{ID: "f1", Title: "SQP", DocumentIDs: []string{"doc_1"}},
	}, []models.Document{
		{ID: "doc_1", Title: "Sprint Planning", CreatedAt: t1},
	})
	sender := okSender()
	led := testLedger(t)

	cfg := testConfig()
	cfg.Granola.Folders = []string{"SQP"}
	svc := NewService(cfg, source, sender, led, testLogger())

	summary, err := svc.SyncOnce(context.Background(), true)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.DocumentsNew)
	assert.Equal(t, 1, summary.DocumentsSynced)
	require.Len(t, summary.ByFolder["SQP"].Documents, 1)
	assert.Equal(t, "would_sync", summary.ByFolder["SQP"].Documents[0].Action)

	// The sender is never invoked and the ledger is untouched.
	assert.Empty(t, sender.SendCalls())
	_, tracked := led.Document("doc_1")
	assert.False(t, tracked)
	assert.Zero(t, led.Stats().TotalSynced)
}

func TestSyncOnce_BatchLimit(t *testing.T) {
	documents := make([]models.Document, 8)
	ids := make([]string, 8)
	for i := range documents {
		id := string(rune('a' + i))
		documents[i] = models.Document{ID: id, Title: "Doc " + id, CreatedAt: t1}
		ids[i] = id
	}
	source := testSource([]models.Folder{
		{ID: "f1", Title: "SQP", DocumentIDs: ids},
	}, documents)
	sender := okSender()

	cfg := testConfig()
	cfg.Granola.Folders = []string{"SQP"}
	cfg.Sync.BatchSize = 3
	svc := NewService(cfg, source, sender, testLedger(t), testLogger())

	summary, err := svc.SyncOnce(context.Background(), false)
	require.NoError(t, err)

	assert.Equal(t, 8, summary.DocumentsNew)
	assert.Equal(t, 3, summary.DocumentsSynced)
	assert.Len(t, sender.SendCalls(), 3)
}

func TestSyncOnce_MultiFolderMembership(t *testing.T) {
	source := testSource([]models.Folder{
		{ID: "f1", Title: "SQP", DocumentIDs: []string{"doc_1"}},
		{ID: "f2", Title: "CLIENT-A", DocumentIDs: []string{"doc_1"}},
	}, []models.Document{
		{ID: "doc_1", Title: "Shared", CreatedAt: t1},
	})
	sender := okSender()

	svc := NewService(testConfig(), source, sender, testLedger(t), testLogger())
	summary, err := svc.SyncOnce(context.Background(), false)

	require.NoError(t, err)
	// One event per matching watched folder.
	assert.Len(t, sender.SendCalls(), 2)
	assert.Equal(t, "SQP", sender.SendCalls()[0].Payload.FolderName)
	assert.Equal(t, "CLIENT-A", sender.SendCalls()[1].Payload.FolderName)
	assert.Equal(t, 2, summary.DocumentsSynced)
}

func TestSyncOnce_TranscriptFailureNonFatal(t *testing.T) {
	source := testSource([]models.Folder{
		{ID: "f1", Title: "SQP", DocumentIDs: []string{"doc_1"}},
	}, []models.Document{
		{ID: "doc_1", Title: "Sprint Planning", CreatedAt: t1},
	})
	source.TranscriptFunc = func(ctx context.Context, docID string) ([]models.TranscriptSegment, error) {
		return nil, errors.New("transcript not ready")
	}
	sender := okSender()

	cfg := testConfig()
	cfg.Granola.Folders = []string{"SQP"}
	svc := NewService(cfg, source, sender, testLedger(t), testLogger())

	summary, err := svc.SyncOnce(context.Background(), false)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.DocumentsSynced)
	require.Len(t, sender.SendCalls(), 1)
	assert.Equal(t, "", sender.SendCalls()[0].Payload.Transcript)
}

func TestSyncOnce_TranscriptDisabled(t *testing.T) {
	source := testSource([]models.Folder{
		{ID: "f1", Title: "SQP", DocumentIDs: []string{"doc_1"}},
	}, []models.Document{
		{ID: "doc_1", Title: "Sprint Planning", CreatedAt: t1},
	})
	sender := okSender()

	cfg := testConfig()
	cfg.Granola.Folders = []string{"SQP"}
	cfg.Granola.IncludeTranscript = false
	svc := NewService(cfg, source, sender, testLedger(t), testLogger())

	_, err := svc.SyncOnce(context.Background(), false)
	require.NoError(t, err)

	assert.Empty(t, source.TranscriptCalls())
	require.Len(t, sender.SendCalls(), 1)
	assert.Equal(t, "", sender.SendCalls()[0].Payload.Transcript)
}

func TestRun_StopsPromptly(t *testing.T) {
	source := testSource([]models.Folder{{ID: "f1", Title: "SQP"}}, nil)
	sender := okSender()

	cfg := testConfig()
	cfg.Sync.Interval = 3600
	svc := NewService(cfg, source, sender, testLedger(t), testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	go func() {
		done <- svc.Run(ctx)
	}()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after context cancellation")
	}

	// The first cycle still ran before the stop was observed.
	assert.Len(t, source.FoldersCalls(), 1)
}

func TestRun_SurvivesFailingCycles(t *testing.T) {
	var calls int
	ctx, cancel := context.WithCancel(context.Background())

	source := testSource(nil, nil)
	source.FoldersFunc = func(_ context.Context) ([]models.Folder, error) {
		calls++
		if calls >= 3 {
			cancel()
		}
		return nil, errors.New("connection refused")
	}

	cfg := testConfig()
	cfg.Sync.Interval = 0
	svc := NewService(cfg, source, okSender(), testLedger(t), testLogger())

	done := make(chan error, 1)
	go func() {
		done <- svc.Run(ctx)
	}()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after context cancellation")
	}
	assert.GreaterOrEqual(t, calls, 3)
}
