// Package cli wires the granola-sync commands.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/iudanet/granola-sync/internal/version"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	ConfigPath string
	Verbose    bool
}

// NewRootCommand creates the root command for the granola-sync CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "granola-sync",
		Short:         "Sync Granola meeting notes to a webhook endpoint",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to config file")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "enable verbose logging")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewSyncOnceCommand(opts))
	cmd.AddCommand(NewStatusCommand(opts))
	cmd.AddCommand(NewConfigCommand(opts))
	cmd.AddCommand(NewResetCommand(opts))

	return cmd
}
