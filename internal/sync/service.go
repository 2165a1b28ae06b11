// Package sync orchestrates the poll-detect-deliver-persist cycle.
package sync

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/granola-sync/internal/config"
	"github.com/iudanet/granola-sync/internal/ledger"
	"github.com/iudanet/granola-sync/internal/models"
)

// documentListLimit bounds the flat document listing fetched once per
// cycle and shared across all watched folders.
const documentListLimit = 100

//go:generate moq -out service_mock.go . Service

// Service defines the sync engine interface.
type Service interface {
	// Run repeats SyncOnce on the configured interval until ctx is
	// canceled. A failed cycle is logged and retried on the next tick.
	Run(ctx context.Context) error

	// SyncOnce performs a single sync cycle across all watched folders.
	// With dryRun set, changes are detected but nothing is delivered and
	// the ledger is left untouched.
	SyncOnce(ctx context.Context, dryRun bool) (*CycleSummary, error)
}

type service struct {
	cfg    *config.Config
	source SourceClient
	sender Sender
	ledger *ledger.Ledger
	logger *slog.Logger
}

// NewService creates a sync service. The ledger instance is owned
// exclusively by the returned service for the lifetime of the process.
func NewService(cfg *config.Config, source SourceClient, sender Sender, led *ledger.Ledger, logger *slog.Logger) Service {
	return &service{
		cfg:    cfg,
		source: source,
		sender: sender,
		ledger: led,
		logger: logger,
	}
}

// Run is the outer timer loop. The sleep between cycles is the sole
// suspension point and reacts to ctx promptly.
func (s *service) Run(ctx context.Context) error {
	interval := s.cfg.Sync.IntervalDuration()
	s.logger.Info("sync started",
		"folders", s.cfg.Granola.Folders,
		"interval", interval)

	for {
		cycleID := uuid.NewString()
		if _, err := s.syncGuarded(ctx, cycleID); err != nil {
			s.logger.Error("sync cycle failed", "cycle_id", cycleID, "error", err)
		}

		select {
		case <-ctx.Done():
			s.logger.Info("sync stopped")
			return nil
		case <-time.After(interval):
		}
	}
}

// syncGuarded contains a panicking cycle at the cycle boundary so the
// process loop survives.
func (s *service) syncGuarded(ctx context.Context, cycleID string) (summary *CycleSummary, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sync cycle panic: %v", r)
		}
	}()
	s.logger.Debug("sync cycle starting", "cycle_id", cycleID)
	return s.SyncOnce(ctx, false)
}

// SyncOnce performs one cycle: fetch the folder and document listings
// once, detect changes per watched folder, deliver them in listing order
// and persist the ledger once at the end.
func (s *service) SyncOnce(ctx context.Context, dryRun bool) (*CycleSummary, error) {
	watched := s.cfg.Granola.Folders
	s.logger.Info("sync cycle started", "folders", watched, "dry_run", dryRun)

	summary := &CycleSummary{
		FoldersChecked: len(watched),
		ByFolder:       make(map[string]*FolderSummary, len(watched)),
	}

	folders, err := s.source.Folders(ctx)
	if err != nil {
		return nil, fmt.Errorf("source unavailable: %w", err)
	}
	documents, err := s.source.Documents(ctx, documentListLimit)
	if err != nil {
		return nil, fmt.Errorf("source unavailable: %w", err)
	}

	folderByTitle := make(map[string]models.Folder, len(folders))
	for _, folder := range folders {
		folderByTitle[folder.Title] = folder
	}

	for _, name := range watched {
		fs := &FolderSummary{}
		summary.ByFolder[name] = fs

		folder, ok := folderByTitle[name]
		if !ok {
			s.logger.Warn("folder not found", "folder", name)
			continue
		}
		if !dryRun {
			s.ledger.TouchFolder(name, folder.ID)
		}

		members := folderDocuments(folder, documents)
		fs.Total = len(members)
		summary.DocumentsFound += len(members)

		changed := s.changedDocuments(members)
		fs.New = len(changed)
		summary.DocumentsNew += len(changed)

		s.logger.Info("sync check",
			"folder", name,
			"total", len(members),
			"new", len(changed),
			"dry_run", dryRun)

		if len(changed) > s.cfg.Sync.BatchSize {
			changed = changed[:s.cfg.Sync.BatchSize]
		}

		for _, doc := range changed {
			if dryRun {
				fs.Documents = append(fs.Documents, DocumentAction{
					ID:     doc.ID,
					Title:  doc.DisplayTitle(),
					Action: "would_sync",
				})
				fs.Synced++
				summary.DocumentsSynced++
				continue
			}

			action := "failed"
			if s.processDocument(ctx, doc, name) {
				action = "synced"
				fs.Synced++
				summary.DocumentsSynced++
			} else {
				fs.Failed++
				summary.DocumentsFailed++
			}
			fs.Documents = append(fs.Documents, DocumentAction{
				ID:     doc.ID,
				Title:  doc.DisplayTitle(),
				Action: action,
			})
		}
	}

	if !dryRun {
		if err := s.ledger.Save(ctx); err != nil {
			// In-memory state survives until the next successful save;
			// the cost of losing it is re-delivery, not a double send.
			s.logger.Error("ledger save failed", "error", err)
		}
	}

	s.logger.Info("sync cycle completed",
		"folders_checked", summary.FoldersChecked,
		"documents_found", summary.DocumentsFound,
		"new", summary.DocumentsNew,
		"synced", summary.DocumentsSynced,
		"failed", summary.DocumentsFailed)
	return summary, nil
}

// processDocument fetches optional transcript detail, builds the payload,
// delivers it and records the outcome. Returns true on successful
// delivery.
func (s *service) processDocument(ctx context.Context, doc models.Document, folderName string) bool {
	logger := s.logger.With("doc_id", doc.ID, "folder", folderName)
	logger.Info("processing document", "title", doc.DisplayTitle())

	transcript := ""
	if s.cfg.Granola.IncludeTranscript {
		segments, err := s.source.Transcript(ctx, doc.ID)
		if err != nil {
			// Non-fatal: the event goes out with an empty transcript.
			logger.Warn("transcript fetch failed", "error", err)
		} else {
			transcript = formatTranscript(segments)
		}
	}

	payload := buildPayload(doc, folderName, transcript)

	if err := s.sender.Send(ctx, payload); err != nil {
		s.ledger.MarkFailed(doc.ID, doc.DisplayTitle(), folderName, err.Error())
		logger.Error("document delivery failed", "error", err)
		return false
	}

	s.ledger.MarkDelivered(doc.ID, doc.DisplayTitle(), folderName, doc.EffectiveUpdatedAt())
	logger.Info("document synced")
	return true
}
