package cli

import (
	"bufio"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/iudanet/granola-sync/internal/config"
)

// ConfigOptions holds flags for the config command.
type ConfigOptions struct {
	*RootOptions
	GenerateSecret bool
}

// NewConfigCommand creates the interactive configuration command.
func NewConfigCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ConfigOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configure the sync service interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigure(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.GenerateSecret, "generate-secret", false, "auto-generate a secure webhook secret")

	return cmd
}

func runConfigure(cmd *cobra.Command, opts *ConfigOptions) error {
	w := cmd.OutOrStdout()
	path := opts.ConfigPath
	if path == "" {
		path = config.DefaultPath()
	}

	fmt.Fprintln(w, "=== Granola Sync Configuration ===")

	cfg, err := config.Load(path)
	switch {
	case errors.Is(err, config.ErrNotFound):
		fmt.Fprintf(w, "Creating new config at %s\n\n", path)
		cfg = config.Default()
	case err != nil:
		// Unparseable or invalid config: start over rather than abort.
		fmt.Fprintf(w, "Existing config is unusable (%v), starting fresh\n\n", err)
		cfg = config.Default()
	default:
		fmt.Fprintf(w, "Updating existing config at %s\n\n", path)
	}

	reader := bufio.NewReader(cmd.InOrStdin())

	cfg.Webhook.URL = promptString(w, reader, "Webhook URL", cfg.Webhook.URL)

	if opts.GenerateSecret {
		secret, err := generateSecret()
		if err != nil {
			return err
		}
		cfg.Webhook.Secret = secret
		fmt.Fprintf(w, "Generated webhook secret: %s\n", secret)
		fmt.Fprintln(w, "Share it with the receiving endpoint out-of-band.")
	} else {
		secret, err := promptSecret(w, reader, cfg.Webhook.Secret != "")
		if err != nil {
			return err
		}
		if secret != "" {
			cfg.Webhook.Secret = secret
		}
	}

	folders := promptString(w, reader, "Folders to watch (comma-separated)", strings.Join(cfg.Granola.Folders, ", "))
	cfg.Granola.Folders = splitFolders(folders)

	interval := promptString(w, reader, "Poll interval in seconds", strconv.Itoa(cfg.Sync.Interval))
	if n, err := strconv.Atoi(strings.TrimSpace(interval)); err == nil && n > 0 {
		cfg.Sync.Interval = n
	}

	transcript := promptString(w, reader, "Include transcript? (y/n)", boolAnswer(cfg.Granola.IncludeTranscript))
	cfg.Granola.IncludeTranscript = strings.HasPrefix(strings.ToLower(strings.TrimSpace(transcript)), "y")

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(cfg, path); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nConfiguration saved to %s\n", path)
	return nil
}

func promptString(w interface{ Write([]byte) (int, error) }, reader *bufio.Reader, label, current string) string {
	if current != "" {
		fmt.Fprintf(w, "%s [%s]: ", label, current)
	} else {
		fmt.Fprintf(w, "%s: ", label)
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		return current
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return current
	}
	return line
}

// promptSecret reads the webhook secret without echoing when stdin is a
// terminal.
func promptSecret(w interface{ Write([]byte) (int, error) }, reader *bufio.Reader, hasCurrent bool) (string, error) {
	label := "Webhook secret"
	if hasCurrent {
		label += " [keep current]"
	}
	fmt.Fprintf(w, "%s: ", label)

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		secret, err := term.ReadPassword(fd)
		fmt.Fprintln(w)
		if err != nil {
			return "", fmt.Errorf("failed to read secret: %w", err)
		}
		return strings.TrimSpace(string(secret)), nil
	}

	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read secret: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// generateSecret returns 32 random bytes hex-encoded.
func generateSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func splitFolders(s string) []string {
	var folders []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			folders = append(folders, part)
		}
	}
	return folders
}

func boolAnswer(b bool) string {
	if b {
		return "y"
	}
	return "n"
}
