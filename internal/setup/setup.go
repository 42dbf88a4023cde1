// Package setup writes the rofi theme and helper scripts that wire minhypr
// into keybindings and the picker. Pure file generation; nothing here
// touches the state store or the compositor.
package setup

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
)

//go:embed templates/minhypr.rasi
var rofiTheme string

//go:embed templates/launch-menu.sh
var launchMenuScript string

//go:embed templates/restore-all.sh
var restoreAllScript string

// Artifact is one generated file.
type Artifact struct {
	Path        string
	Description string
}

// WriteRofiConfig writes the theme and launcher scripts into configDir,
// creating it if needed, and returns what was written.
func WriteRofiConfig(configDir string) ([]Artifact, error) {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config dir: %w", err)
	}

	files := []struct {
		name        string
		content     string
		mode        os.FileMode
		description string
	}{
		{"minhypr.rasi", rofiTheme, 0644, "rofi theme"},
		{"launch-menu.sh", launchMenuScript, 0755, "menu launcher (bind to a key)"},
		{"restore-all.sh", restoreAllScript, 0755, "restore-all helper"},
	}

	artifacts := make([]Artifact, 0, len(files))
	for _, f := range files {
		path := filepath.Join(configDir, f.name)
		if err := os.WriteFile(path, []byte(f.content), f.mode); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", f.name, err)
		}
		artifacts = append(artifacts, Artifact{Path: path, Description: f.description})
	}
	return artifacts, nil
}

// KeybindHints returns example Hyprland binds for the generated scripts.
func KeybindHints(configDir string) []string {
	return []string{
		"bind = SUPER, M, exec, minhypr minimize",
		fmt.Sprintf("bind = SUPER SHIFT, M, exec, %s", filepath.Join(configDir, "launch-menu.sh")),
		fmt.Sprintf("bind = SUPER CTRL, M, exec, %s", filepath.Join(configDir, "restore-all.sh")),
	}
}
