package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iudanet/granola-sync/internal/config"
	"github.com/iudanet/granola-sync/internal/ledger"
	"github.com/iudanet/granola-sync/internal/ledger/boltdb"
)

// NewResetCommand creates the reset command: clears the delivery ledger so
// every document counts as new again. Also the way out of a corrupt state
// file, so it writes a fresh state without trying to load the old one.
func NewResetCommand(rootOpts *RootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear the delivery ledger",
		Long: `Clear the delivery ledger.

All documents will be treated as new on the next cycle and re-delivered
to the webhook endpoint. Requires --yes to confirm.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to clear the ledger without --yes")
			}

			cfg, err := loadConfig(rootOpts)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			store, err := boltdb.New(ctx, config.ExpandPath(cfg.State.File))
			if err != nil {
				return err
			}
			defer func() {
				_ = store.Close()
			}()

			if err := store.Save(ctx, ledger.NewState()); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Ledger cleared.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm clearing the ledger")

	return cmd
}
