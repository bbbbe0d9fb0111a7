// Package storage keeps an archive of completed analyses on disk.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const appName = "gigibot"

// EnvDir names the environment variable that overrides the archive location.
const EnvDir = "GIGIBOT_ARCHIVE"

// DefaultFlag is the -db flag value that selects the per-user archive.
const DefaultFlag = "default"

// platform is where the host keeps per-user data.
type platform struct {
	goos   string
	getenv func(string) string
	home   func() (string, error)
}

func hostPlatform() platform {
	return platform{goos: runtime.GOOS, getenv: os.Getenv, home: os.UserHomeDir}
}

// dataHome returns the per-user data root:
// ~/Library/Application Support on macOS, %APPDATA% on Windows and
// $XDG_DATA_HOME (or ~/.local/share) elsewhere.
func (p platform) dataHome() (string, error) {
	var env string
	var fallback []string
	switch p.goos {
	case "darwin":
		fallback = []string{"Library", "Application Support"}
	case "windows":
		env, fallback = "APPDATA", []string{"AppData", "Roaming"}
	default:
		env, fallback = "XDG_DATA_HOME", []string{".local", "share"}
	}

	if env != "" {
		if dir := p.getenv(env); dir != "" {
			return dir, nil
		}
	}
	home, err := p.home()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(append([]string{home}, fallback...)...), nil
}

// archiveDir returns the archive location without touching the disk.
func (p platform) archiveDir() (string, error) {
	if dir := p.getenv(EnvDir); dir != "" {
		return dir, nil
	}
	base, err := p.dataHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, appName, "archive"), nil
}

// DefaultDir returns the per-user archive directory, creating it if needed.
// EnvDir, when set, takes precedence over the platform location.
func DefaultDir() (string, error) {
	dir, err := hostPlatform().archiveDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create archive directory: %w", err)
	}
	return dir, nil
}

// ResolveDir maps a -db flag value to a directory. DefaultFlag selects
// DefaultDir; anything else is used as given.
func ResolveDir(flagValue string) (string, error) {
	if flagValue == DefaultFlag {
		return DefaultDir()
	}
	return flagValue, nil
}
