package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Thumbnails controls the capture adapter's output.
type Thumbnails struct {
	Enabled  bool `yaml:"enabled"`
	Width    int  `yaml:"width"`     // menu thumbnail width in px
	Height   int  `yaml:"height"`    // menu thumbnail height in px
	IconSize int  `yaml:"icon_size"` // square icon size for compact pickers
	Quality  int  `yaml:"quality"`   // conversion quality (1-100)
}

// Menu configures the external picker used by `restore` without an id.
type Menu struct {
	// Backend selects the picker: auto, rofi, wofi, fuzzel, dmenu.
	Backend string `yaml:"backend"`
	Prompt  string `yaml:"prompt"`
	Fuzzy   bool   `yaml:"fuzzy"`
}

// RestorePolicy controls where restored windows land.
type RestorePolicy struct {
	// Fallback is applied when the source workspace no longer exists:
	// "current" moves the window to the focused workspace, "source" targets
	// the original workspace id anyway and lets Hyprland recreate it.
	Fallback string `yaml:"fallback"`
}

// Statusbar configures the waybar integration.
type Statusbar struct {
	Glyph   string `yaml:"glyph"`
	Signal  int    `yaml:"signal"`  // RTMIN offset sent after mutations; 0 disables
	Process string `yaml:"process"` // process name to signal
}

// Config is the effective minhypr configuration.
type Config struct {
	// SpecialWorkspace is the hidden Hyprland workspace used as the
	// holding area for minimized windows.
	SpecialWorkspace string `yaml:"special_workspace"`

	// IgnoreClasses lists window classes that are never minimized
	// (typically the picker itself).
	IgnoreClasses []string `yaml:"ignore_classes"`

	Thumbnails Thumbnails    `yaml:"thumbnails"`
	Menu       Menu          `yaml:"menu"`
	Restore    RestorePolicy `yaml:"restore"`
	Statusbar  Statusbar     `yaml:"statusbar"`

	// Icons maps window-class substrings to display glyphs. The "default"
	// key is used when nothing matches.
	Icons map[string]string `yaml:"icons"`

	// LockTimeoutMS bounds how long an invocation waits for the state lock.
	LockTimeoutMS int `yaml:"lock_timeout_ms"`
}

// DefaultConfig returns the built-in configuration used when no config file
// exists.
func DefaultConfig() *Config {
	return &Config{
		SpecialWorkspace: "special:minimized",
		IgnoreClasses:    []string{"rofi", "wofi", "fuzzel", "dmenu"},
		Thumbnails: Thumbnails{
			Enabled:  true,
			Width:    200,
			Height:   150,
			IconSize: 64,
			Quality:  90,
		},
		Menu: Menu{
			Backend: "auto",
			Prompt:  "Restore window",
		},
		Restore: RestorePolicy{
			Fallback: "current",
		},
		Statusbar: Statusbar{
			Glyph:   "\U000F0638",
			Signal:  8,
			Process: "waybar",
		},
		Icons: map[string]string{
			"firefox":   "",
			"alacritty": "",
			"kitty":     "",
			"foot":      "",
			"discord":   "\U000F066F",
			"steam":     "",
			"chromium":  "",
			"chrome":    "",
			"code":      "\U000F0A1E",
			"spotify":   "",
			"default":   "\U000F05B2",
		},
		LockTimeoutMS: 5000,
	}
}

// DefaultConfigPath returns ~/.config/minhypr/config.yaml.
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "minhypr", "config.yaml"), nil
}

// Load reads the configuration from the standard location. A missing file is
// not an error: defaults apply.
func Load() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath reads a config file merged over the built-in defaults.
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %q: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %q: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.SpecialWorkspace) == "" {
		return fmt.Errorf("special_workspace must not be empty")
	}
	if c.Thumbnails.Width <= 0 || c.Thumbnails.Height <= 0 {
		return fmt.Errorf("thumbnail dimensions must be positive (got %dx%d)",
			c.Thumbnails.Width, c.Thumbnails.Height)
	}
	if c.Thumbnails.Quality < 1 || c.Thumbnails.Quality > 100 {
		return fmt.Errorf("thumbnail quality must be 1-100 (got %d)", c.Thumbnails.Quality)
	}
	switch c.Restore.Fallback {
	case "current", "source":
	default:
		return fmt.Errorf("restore.fallback must be %q or %q (got %q)",
			"current", "source", c.Restore.Fallback)
	}
	if c.LockTimeoutMS < 0 {
		return fmt.Errorf("lock_timeout_ms must not be negative")
	}
	return nil
}

// IconFor resolves a display glyph for a window class using substring
// matching, falling back to the "default" glyph.
func (c *Config) IconFor(class string) string {
	lower := strings.ToLower(class)
	for name, icon := range c.Icons {
		if name == "default" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(name)) {
			return icon
		}
	}
	return c.Icons["default"]
}

// Ignored reports whether windows of the given class are excluded from
// minimization.
func (c *Config) Ignored(class string) bool {
	lower := strings.ToLower(class)
	for _, ignored := range c.IgnoreClasses {
		if lower == strings.ToLower(ignored) {
			return true
		}
	}
	return false
}

// LockTimeout returns the configured lock acquisition deadline.
func (c *Config) LockTimeout() time.Duration {
	return time.Duration(c.LockTimeoutMS) * time.Millisecond
}
