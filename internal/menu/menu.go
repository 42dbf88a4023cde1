// Package menu is the read-only bridge between the minimized-window set and
// an external picker (rofi, wofi, fuzzel or dmenu). It renders entries as a
// choice list and translates the user's selection back into an entry id;
// the engine never learns how the picker behaves.
package menu

import (
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/minhypr/minhypr/internal/state"
)

// ErrCancelled is returned when the user closes the picker without choosing.
var ErrCancelled = errors.New("selection cancelled")

// Item is a single selectable row.
type Item struct {
	Label string // display text
	Icon  string // thumbnail file path or themed icon name
	Info  string // hidden payload: the entry id
}

// Capabilities describes what features a picker supports.
type Capabilities struct {
	Icons       bool // supports icon/thumbnail display
	IndexOutput bool // can output the selection index instead of its text
}

// Backend shows a choice list and returns the selected item.
type Backend interface {
	Show(prompt string, items []Item) (Item, error)
	Capabilities() Capabilities
}

// Items projects the minimized set into picker rows, in insertion order.
// Entries without a thumbnail fall back to the themed icon for their class.
func Items(entries []state.MinimizedWindow) []Item {
	items := make([]Item, 0, len(entries))
	for _, entry := range entries {
		icon := entry.IconPath
		if icon == "" {
			icon = entry.ThumbnailPath
		}
		if icon == "" {
			icon = strings.ToLower(entry.Class)
		}
		items = append(items, Item{
			Label: Label(entry),
			Icon:  icon,
			Info:  strconv.FormatUint(entry.ID, 10),
		})
	}
	return items
}

// Label builds the display text for one entry.
func Label(entry state.MinimizedWindow) string {
	short := entry.Address
	if len(short) > 4 {
		short = short[len(short)-4:]
	}
	if entry.Icon != "" {
		return fmt.Sprintf("%s %s - %s [%s]", entry.Icon, entry.Class, entry.Title, short)
	}
	return fmt.Sprintf("%s - %s [%s]", entry.Class, entry.Title, short)
}

// SelectedID extracts the entry id from a picked item.
func SelectedID(item Item) (uint64, error) {
	id, err := strconv.ParseUint(item.Info, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("picker returned unparsable selection %q: %w", item.Info, err)
	}
	return id, nil
}

// NewBackend creates a picker backend by name.
//
// Supported names: auto, rofi, wofi, fuzzel, dmenu.
func NewBackend(name string, fuzzy bool) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return AutoDetect(fuzzy)
	case "rofi":
		return lookPathBackend(newRofiBackend(fuzzy))
	case "wofi":
		return lookPathBackend(newWofiBackend())
	case "fuzzel":
		return lookPathBackend(newFuzzelBackend())
	case "dmenu":
		return lookPathBackend(newDmenuBackend())
	default:
		return nil, fmt.Errorf("unknown menu backend: %q (expected: auto, rofi, wofi, fuzzel, dmenu)", name)
	}
}

// AutoDetect selects the first available backend in priority order:
// rofi, fuzzel, wofi, dmenu.
func AutoDetect(fuzzy bool) (Backend, error) {
	for _, candidate := range []*dmenuLikeBackend{
		newRofiBackend(fuzzy),
		newFuzzelBackend(),
		newWofiBackend(),
		newDmenuBackend(),
	} {
		if _, err := exec.LookPath(candidate.command); err == nil {
			return candidate, nil
		}
	}
	return nil, fmt.Errorf("no menu backend found in PATH (looked for: rofi, fuzzel, wofi, dmenu)")
}

func lookPathBackend(b *dmenuLikeBackend) (Backend, error) {
	if _, err := exec.LookPath(b.command); err != nil {
		return nil, fmt.Errorf("menu backend %q not found in PATH", b.command)
	}
	return b, nil
}
