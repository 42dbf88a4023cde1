package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

// RuntimeDir returns the per-user runtime directory that holds minhypr's
// state file, lock file and thumbnails. Priority:
// 1) XDG_RUNTIME_DIR (if set)
// 2) /run/user/<uid> (if present)
// 3) /tmp/minhypr-runtime-<uid> (created)
func RuntimeDir() (string, error) {
	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		return runtimeDir, nil
	}

	uid := os.Getuid()
	runUserDir := fmt.Sprintf("/run/user/%d", uid)
	if info, err := os.Stat(runUserDir); err == nil && info.IsDir() {
		return runUserDir, nil
	}

	tmpDir := fmt.Sprintf("/tmp/minhypr-runtime-%d", uid)
	if err := os.MkdirAll(tmpDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	return tmpDir, nil
}

// StateDir returns the directory holding the minimized-window state file.
// The directory is created on first use.
func StateDir() (string, error) {
	runtimeDir, err := RuntimeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(runtimeDir, "minhypr")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create state dir: %w", err)
	}
	return dir, nil
}

// ThumbnailDir returns the directory where window thumbnails are written.
// The directory is created on first use.
func ThumbnailDir() (string, error) {
	runtimeDir, err := RuntimeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(runtimeDir, "minhypr", "previews")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create thumbnail dir: %w", err)
	}
	return dir, nil
}

// ConfigDir returns ~/.config/minhypr. Unlike the runtime dirs it is not
// created implicitly; setup-rofi creates it when writing its artifacts.
func ConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "minhypr"), nil
}
