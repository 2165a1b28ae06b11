package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/iudanet/granola-sync/internal/config"
	"github.com/iudanet/granola-sync/internal/granola"
	"github.com/iudanet/granola-sync/internal/ledger"
	"github.com/iudanet/granola-sync/internal/ledger/boltdb"
	"github.com/iudanet/granola-sync/internal/logging"
	"github.com/iudanet/granola-sync/internal/sync"
	"github.com/iudanet/granola-sync/internal/webhook"
)

func loadConfig(opts *RootOptions) (*config.Config, error) {
	path := opts.ConfigPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if errors.Is(err, config.ErrNotFound) {
		return nil, fmt.Errorf("no configuration found; run 'granola-sync config' to set up")
	}
	return cfg, err
}

func newLogger(cfg *config.Config, opts *RootOptions) (*slog.Logger, error) {
	level := cfg.Logging.Level
	if opts.Verbose {
		level = "DEBUG"
	}
	return logging.Setup(level, cfg.Logging.File)
}

// openLedger opens the BoltDB-backed ledger at the configured state path.
func openLedger(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*ledger.Ledger, error) {
	store, err := boltdb.New(ctx, config.ExpandPath(cfg.State.File))
	if err != nil {
		return nil, err
	}
	led, err := ledger.New(ctx, store, logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return led, nil
}

// buildService assembles the sync service from configuration. The Granola
// bearer token is read from the desktop app's auth file.
func buildService(ctx context.Context, cfg *config.Config, logger *slog.Logger) (sync.Service, *ledger.Ledger, error) {
	token, err := granola.LoadToken()
	if err != nil {
		return nil, nil, err
	}
	source := granola.NewClient(granola.DefaultBaseURL, token)

	sender := webhook.NewSender(
		cfg.Webhook.URL,
		cfg.Webhook.Secret,
		cfg.Sync.RetryAttempts,
		cfg.Sync.RetryDelayDuration(),
		logger,
	)

	led, err := openLedger(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	return sync.NewService(cfg, source, sender, led, logger), led, nil
}
