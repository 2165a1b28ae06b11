package granola

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
)

// TokenPath returns where the Granola desktop app stores its auth data on
// the current OS.
func TokenPath() (string, error) {
	switch runtime.GOOS {
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return "", errors.New("APPDATA is not set")
		}
		return filepath.Join(appData, "Granola", "auth.json"), nil
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		return filepath.Join(home, "Library", "Application Support", "Granola", "auth.json"), nil
	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		return filepath.Join(home, ".config", "Granola", "auth.json"), nil
	}
}

// LoadToken reads the bearer token left on disk by the Granola desktop
// app.
func LoadToken() (string, error) {
	path, err := TokenPath()
	if err != nil {
		return "", err
	}
	return LoadTokenFrom(path)
}

// LoadTokenFrom reads the token from an auth.json file. Both the current
// "access_token" key and the older "token" key are accepted.
func LoadTokenFrom(path string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("granola token not found at %s; make sure the Granola app is installed and you are logged in", path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read granola auth file: %w", err)
	}

	var auth struct {
		AccessToken string `json:"access_token"`
		Token       string `json:"token"`
	}
	if err := json.Unmarshal(data, &auth); err != nil {
		return "", fmt.Errorf("failed to parse granola auth file: %w", err)
	}

	token := auth.AccessToken
	if token == "" {
		token = auth.Token
	}
	if token == "" {
		return "", fmt.Errorf("could not find access_token in %s", path)
	}
	return token, nil
}
