package cli

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"
)

// NewStatusCommand creates the status command: sync statistics and the
// currently failing documents.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show sync status and statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(rootOpts)
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg, rootOpts)
			if err != nil {
				return err
			}

			led, err := openLedger(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer func() {
				_ = led.Close()
			}()

			w := cmd.OutOrStdout()
			stats := led.Stats()

			fmt.Fprintln(w, "=== Sync Status ===")
			if lastSync := led.LastSync(); !lastSync.IsZero() {
				fmt.Fprintf(w, "Last sync:     %s\n", lastSync.Local().Format(time.RFC1123))
			} else {
				fmt.Fprintln(w, "Last sync:     never")
			}
			fmt.Fprintf(w, "Delivered:     %d documents\n", led.DeliveredCount())
			fmt.Fprintf(w, "Total synced:  %d\n", stats.TotalSynced)
			fmt.Fprintf(w, "Total errors:  %d\n", stats.TotalErrors)
			if !stats.LastError.IsZero() {
				fmt.Fprintf(w, "Last error:    %s\n", stats.LastError.Local().Format(time.RFC1123))
			}

			if len(stats.ByFolder) > 0 {
				fmt.Fprintln(w, "\nBy folder:")
				names := make([]string, 0, len(stats.ByFolder))
				for name := range stats.ByFolder {
					names = append(names, name)
				}
				sort.Strings(names)
				for _, name := range names {
					fs := stats.ByFolder[name]
					fmt.Fprintf(w, "  %-20s synced %d, errors %d\n", name, fs.Synced, fs.Errors)
				}
			}

			failed := led.FailedDocuments()
			if len(failed) > 0 {
				fmt.Fprintln(w, "\nFailing documents:")
				ids := make([]string, 0, len(failed))
				for id := range failed {
					ids = append(ids, id)
				}
				sort.Strings(ids)
				for _, id := range ids {
					rec := failed[id]
					fmt.Fprintf(w, "  %s (%s) attempts=%d last_error=%s\n", rec.Title, id, rec.Attempts, rec.LastError)
				}
			}
			return nil
		},
	}
}
