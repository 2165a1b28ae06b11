package cli

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
)

// NewRunCommand creates the run command: the foreground sync loop.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the sync service in the foreground",
		Long: `Run the sync loop until interrupted.

Each cycle polls the watched Granola folders, delivers new or updated
notes to the webhook endpoint and persists the delivery ledger. Stop with
Ctrl-C or SIGTERM; the stop takes effect at the next sleep boundary.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(rootOpts)
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg, rootOpts)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			svc, led, err := buildService(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := led.Close(); err != nil {
					logger.Error("failed to close ledger", "error", err)
				}
			}()

			fmt.Fprintln(cmd.OutOrStdout(), "Starting sync service...")
			fmt.Fprintf(cmd.OutOrStdout(), "  Folders:  %s\n", strings.Join(cfg.Granola.Folders, ", "))
			fmt.Fprintf(cmd.OutOrStdout(), "  Webhook:  %s\n", cfg.Webhook.URL)
			fmt.Fprintf(cmd.OutOrStdout(), "  Interval: %s\n", cfg.Sync.IntervalDuration())
			fmt.Fprintln(cmd.OutOrStdout())

			if err := svc.Run(ctx); err != nil && ctx.Err() == nil {
				return err
			}
			if ctx.Err() == context.Canceled {
				fmt.Fprintln(cmd.OutOrStdout(), "Sync service stopped.")
			}
			return nil
		},
	}
}
