// Package tui is an interactive browser for minimized windows: navigate the
// list, restore one, restore everything. Useful over SSH or when no picker
// is installed.
package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/minhypr/minhypr/internal/engine"
)

// Run starts the TUI against the given engine and blocks until it exits.
func Run(e *engine.Engine) error {
	p := tea.NewProgram(newModel(e))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui failed: %w", err)
	}
	return nil
}
