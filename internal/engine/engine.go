// Package engine orchestrates minimize and restore operations over the
// state store, using the compositor and capture adapters for side effects.
// All mutating operations run inside a single store transaction so that
// concurrent invocations serialize and a crash can never separate "window
// moved" from "entry recorded" across a persisted boundary.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/minhypr/minhypr/internal/capture"
	"github.com/minhypr/minhypr/internal/config"
	"github.com/minhypr/minhypr/internal/hypr"
	"github.com/minhypr/minhypr/internal/state"
)

var (
	// ErrNoActiveWindow means minimize found nothing focused (or only an
	// ignored window).
	ErrNoActiveWindow = errors.New("no active window to minimize")

	// ErrAlreadyMinimized means the focused window already has an entry.
	// Safe to treat as a no-op.
	ErrAlreadyMinimized = errors.New("window is already minimized")

	// ErrNotFound means no entry has the requested id.
	ErrNotFound = errors.New("no minimized window with that id")

	// ErrEmptySet means there is nothing to restore.
	ErrEmptySet = errors.New("no minimized windows")
)

// Compositor is the slice of the Hyprland surface the engine needs.
// *hypr.Client satisfies it; tests substitute fakes.
type Compositor interface {
	ActiveWindow() (*hypr.Window, error)
	ActiveWorkspace() (hypr.Workspace, error)
	Clients() ([]hypr.Window, error)
	Workspaces() ([]hypr.Workspace, error)
	MoveToWorkspaceSilent(address, workspace string) error
	MoveToWorkspace(address, workspace string) error
	FocusWindow(address string) error
}

// Capturer produces thumbnail files for a window region.
type Capturer interface {
	Capture(address, geometry string) (capture.Result, error)
}

// Engine wires the store and the adapters together.
type Engine struct {
	store   *state.Store
	comp    Compositor
	grabber Capturer
	cfg     *config.Config
	logger  *slog.Logger

	now func() time.Time
}

// New returns an engine. grabber may be nil when thumbnails are disabled or
// the capture tool is unavailable.
func New(store *state.Store, comp Compositor, grabber Capturer, cfg *config.Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		store:   store,
		comp:    comp,
		grabber: grabber,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}
}

// Minimize hides the currently focused window on the special workspace and
// records it. The compositor move happens before the entry is persisted:
// aborting on move failure leaves no partial record for a move that never
// happened.
func (e *Engine) Minimize() (*state.MinimizedWindow, error) {
	win, err := e.comp.ActiveWindow()
	if err != nil {
		if errors.Is(err, hypr.ErrNoActiveWindow) {
			return nil, ErrNoActiveWindow
		}
		return nil, fmt.Errorf("failed to resolve active window: %w", err)
	}
	if e.cfg.Ignored(win.Class) {
		return nil, fmt.Errorf("%w: class %q is ignored", ErrNoActiveWindow, win.Class)
	}

	ws, err := e.comp.ActiveWorkspace()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve active workspace: %w", err)
	}

	var minimized *state.MinimizedWindow
	err = e.store.WithLock(func(tx *state.Tx) error {
		e.reap(tx.Set)

		if tx.Set.ByAddress(win.Address) != nil {
			return ErrAlreadyMinimized
		}

		var thumb capture.Result
		if e.grabber != nil && e.cfg.Thumbnails.Enabled {
			res, capErr := e.grabber.Capture(win.Address, win.Geometry())
			if capErr != nil {
				// Best-effort: a missing thumbnail is cosmetic, a blocked
				// minimize is not.
				e.logger.Warn("thumbnail capture failed",
					"address", win.Address, "error", capErr)
			} else {
				thumb = res
			}
		}

		if err := e.comp.MoveToWorkspaceSilent(win.Address, e.cfg.SpecialWorkspace); err != nil {
			capture.Remove(thumb)
			return fmt.Errorf("failed to move window to %s: %w", e.cfg.SpecialWorkspace, err)
		}

		entry := state.MinimizedWindow{
			ID:              tx.Set.Allocate(),
			Address:         win.Address,
			Title:           win.Title,
			Class:           win.Class,
			Icon:            e.cfg.IconFor(win.Class),
			ThumbnailPath:   thumb.ThumbnailPath,
			IconPath:        thumb.IconPath,
			MinimizedAt:     e.now(),
			SourceWorkspace: ws.ID,
		}
		tx.Set.Append(entry)
		minimized = &entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	return minimized, nil
}

// Restore moves the entry's window back to its source workspace (or the
// focused one when the source is gone), focuses it and drops the entry. On
// compositor failure the entry is retained: state is never dropped for an
// operation that did not complete.
func (e *Engine) Restore(id uint64) (*state.MinimizedWindow, error) {
	var restored *state.MinimizedWindow
	err := e.store.WithLock(func(tx *state.Tx) error {
		e.reap(tx.Set)

		found := tx.Set.ByID(id)
		if found == nil {
			return fmt.Errorf("%w: %d", ErrNotFound, id)
		}
		// Copy before restoreEntry: Remove shifts the backing slice, so the
		// pointer would alias a neighbouring entry afterwards.
		entry := *found
		if err := e.restoreEntry(tx.Set, entry); err != nil {
			return err
		}
		restored = &entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	return restored, nil
}

// RestoreLast restores the most recently minimized entry.
func (e *Engine) RestoreLast() (*state.MinimizedWindow, error) {
	var restored *state.MinimizedWindow
	err := e.store.WithLock(func(tx *state.Tx) error {
		e.reap(tx.Set)

		newest := tx.Set.Newest()
		if newest == nil {
			return ErrEmptySet
		}
		entry := *newest
		if err := e.restoreEntry(tx.Set, entry); err != nil {
			return err
		}
		restored = &entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	return restored, nil
}

// RestoreAll restores every entry oldest-first. Per-entry failures do not
// stop the walk: each success is checkpointed immediately and the failures
// are reported as one aggregate error alongside the success count.
func (e *Engine) RestoreAll() (int, error) {
	restoredCount := 0
	var failures []error

	err := e.store.WithLock(func(tx *state.Tx) error {
		e.reap(tx.Set)

		for _, entry := range tx.Set.OldestFirst() {
			if err := e.restoreEntry(tx.Set, entry); err != nil {
				failures = append(failures, fmt.Errorf("window %d (%s): %w", entry.ID, entry.Class, err))
				continue
			}
			restoredCount++
			if err := tx.Save(); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return restoredCount, err
	}
	if len(failures) > 0 {
		return restoredCount, fmt.Errorf("failed to restore %d of %d windows: %w",
			len(failures), restoredCount+len(failures), errors.Join(failures...))
	}
	return restoredCount, nil
}

// restoreEntry performs the compositor side of a restore and, only on
// success, removes the entry from the set. Thumbnail cleanup is best-effort.
func (e *Engine) restoreEntry(set *state.Set, entry state.MinimizedWindow) error {
	target := e.resolveTarget(entry.SourceWorkspace)
	if err := e.comp.MoveToWorkspace(entry.Address, target); err != nil {
		return fmt.Errorf("failed to move window to workspace %s: %w", target, err)
	}
	if err := e.comp.FocusWindow(entry.Address); err != nil {
		// The window is back on a visible workspace; a focus failure is not
		// worth keeping the entry for.
		e.logger.Warn("failed to focus restored window",
			"address", entry.Address, "error", err)
	}

	set.Remove(entry.ID)
	capture.Remove(capture.Result{ThumbnailPath: entry.ThumbnailPath, IconPath: entry.IconPath})
	return nil
}

// resolveTarget picks the workspace a restore should move the window to.
func (e *Engine) resolveTarget(source int) string {
	if e.cfg.Restore.Fallback == "source" {
		// Hyprland recreates a missing workspace on move.
		return strconv.Itoa(source)
	}

	workspaces, err := e.comp.Workspaces()
	if err == nil {
		for _, ws := range workspaces {
			if ws.ID == source {
				return strconv.Itoa(source)
			}
		}
	}
	current, err := e.comp.ActiveWorkspace()
	if err != nil {
		return strconv.Itoa(source)
	}
	return strconv.Itoa(current.ID)
}

// reap drops entries whose window no longer exists, or exists but has left
// the special workspace behind our back. Thumbnails of reaped entries are
// removed with them.
func (e *Engine) reap(set *state.Set) {
	if set.Len() == 0 {
		return
	}

	clients, err := e.comp.Clients()
	if err != nil {
		// Can't tell what's stale; keep everything rather than guessing.
		e.logger.Warn("stale-entry reap skipped", "error", err)
		return
	}

	byAddress := make(map[string]hypr.Window, len(clients))
	for _, win := range clients {
		byAddress[win.Address] = win
	}

	kept := set.Windows[:0]
	for _, entry := range set.Windows {
		win, ok := byAddress[entry.Address]
		if ok && win.Workspace.Name == e.cfg.SpecialWorkspace {
			kept = append(kept, entry)
			continue
		}
		e.logger.Info("reaped stale entry", "id", entry.ID, "class", entry.Class)
		capture.Remove(capture.Result{ThumbnailPath: entry.ThumbnailPath, IconPath: entry.IconPath})
	}
	set.Windows = kept
}

// ReapStale runs a reap pass as its own transaction and returns the
// remaining entries.
func (e *Engine) ReapStale() ([]state.MinimizedWindow, error) {
	var out []state.MinimizedWindow
	err := e.store.WithLock(func(tx *state.Tx) error {
		e.reap(tx.Set)
		out = append([]state.MinimizedWindow(nil), tx.Set.Windows...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// List returns the current entries in insertion order. With reap set it
// first reconciles against the compositor (mutating); without, it is a pure
// read of the persisted set suitable for high-frequency polling.
func (e *Engine) List(reap bool) ([]state.MinimizedWindow, error) {
	if reap {
		return e.ReapStale()
	}
	set, err := e.store.Load()
	if err != nil {
		return nil, err
	}
	return set.Windows, nil
}

// Count returns the number of minimized windows without touching the
// compositor. Errors degrade to zero: the status path must stay cheap and
// must never fail.
func (e *Engine) Count() int {
	set, err := e.store.Load()
	if err != nil {
		return 0
	}
	return set.Len()
}
