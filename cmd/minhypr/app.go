package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/minhypr/minhypr/internal/capture"
	"github.com/minhypr/minhypr/internal/config"
	"github.com/minhypr/minhypr/internal/engine"
	"github.com/minhypr/minhypr/internal/hypr"
	"github.com/minhypr/minhypr/internal/paths"
	"github.com/minhypr/minhypr/internal/state"
	"github.com/minhypr/minhypr/internal/statusbar"
)

// loadConfig loads the effective config, from an explicit path when given.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromPath(path)
	}
	return config.Load()
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if os.Getenv("MINHYPR_DEBUG") != "" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// newEngine assembles the engine from config. When requireCompositor is set
// the Hyprland session is verified up front so commands fail with a clear
// message instead of a hyprctl error.
func newEngine(cfg *config.Config, requireCompositor bool) (*engine.Engine, error) {
	client := hypr.NewClient()
	if requireCompositor && !client.Available() {
		return nil, fmt.Errorf("hyprctl not available: minhypr must run inside a Hyprland session")
	}

	stateDir, err := paths.StateDir()
	if err != nil {
		return nil, fmt.Errorf("failed to prepare state directory: %w", err)
	}
	store := state.NewStore(stateDir, cfg.LockTimeout())

	var grabber engine.Capturer
	if cfg.Thumbnails.Enabled {
		thumbDir, err := paths.ThumbnailDir()
		if err != nil {
			return nil, fmt.Errorf("failed to prepare thumbnail directory: %w", err)
		}
		g := capture.NewGrabber(thumbDir, capture.Options{
			Width:    cfg.Thumbnails.Width,
			Height:   cfg.Thumbnails.Height,
			IconSize: cfg.Thumbnails.IconSize,
			Quality:  cfg.Thumbnails.Quality,
		})
		if g.Available() {
			grabber = g
		}
	}

	return engine.New(store, client, grabber, cfg, newLogger()), nil
}

// notifyStatusbar pokes the bar after a successful state change.
func notifyStatusbar(cfg *config.Config) {
	statusbar.Signal(cfg)
}
