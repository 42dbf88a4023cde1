package menu

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

type backendKind int

const (
	kindRofi backendKind = iota
	kindFuzzel
	kindWofi
	kindDmenu
)

type dmenuLikeBackend struct {
	command string
	kind    backendKind
	caps    Capabilities

	fuzzyMatching bool
}

func newRofiBackend(fuzzy bool) *dmenuLikeBackend {
	return &dmenuLikeBackend{
		command:       "rofi",
		kind:          kindRofi,
		caps:          Capabilities{Icons: true, IndexOutput: true},
		fuzzyMatching: fuzzy,
	}
}

func newFuzzelBackend() *dmenuLikeBackend {
	return &dmenuLikeBackend{
		command: "fuzzel",
		kind:    kindFuzzel,
		caps:    Capabilities{Icons: true, IndexOutput: true},
	}
}

func newWofiBackend() *dmenuLikeBackend {
	return &dmenuLikeBackend{
		command: "wofi",
		kind:    kindWofi,
		caps:    Capabilities{Icons: true},
	}
}

func newDmenuBackend() *dmenuLikeBackend {
	return &dmenuLikeBackend{
		command: "dmenu",
		kind:    kindDmenu,
		caps:    Capabilities{},
	}
}

func (b *dmenuLikeBackend) Capabilities() Capabilities {
	return b.caps
}

func (b *dmenuLikeBackend) Show(prompt string, items []Item) (Item, error) {
	if len(items) == 0 {
		return Item{}, fmt.Errorf("menu: no items to show")
	}

	displayItems := disambiguate(b.caps, items)
	input := b.formatInput(displayItems)
	args := b.buildArgs(prompt)

	cmd := exec.Command(b.command, args...)
	cmd.Stdin = strings.NewReader(input)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	selection := strings.TrimSpace(string(out))

	if err != nil {
		if selection == "" && isCancelExit(err) {
			return Item{}, ErrCancelled
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return Item{}, fmt.Errorf("%s failed: %s", b.command, msg)
		}
		return Item{}, fmt.Errorf("%s failed: %w", b.command, err)
	}
	if selection == "" {
		return Item{}, ErrCancelled
	}

	return b.parseSelection(selection, displayItems)
}

func (b *dmenuLikeBackend) buildArgs(prompt string) []string {
	var args []string

	switch b.kind {
	case kindRofi:
		args = []string{"-dmenu", "-i"}
		if prompt != "" {
			args = append(args, "-p", prompt)
		}
		// Output only the index; labels may contain markup or separators.
		args = append(args, "-format", "i")
		// The menu is always a fixed set of windows, never free text.
		args = append(args, "-no-custom")
		args = append(args, "-show-icons")
		if b.fuzzyMatching {
			args = append(args, "-matching", "fuzzy")
		}

	case kindFuzzel:
		args = []string{"--dmenu", "--index"}
		if prompt != "" {
			args = append(args, "--prompt", prompt)
		}

	case kindWofi:
		args = []string{"--dmenu", "--allow-images"}
		if prompt != "" {
			args = append(args, "--prompt", prompt)
		}

	case kindDmenu:
		args = []string{"-i"}
		if prompt != "" {
			args = append(args, "-p", prompt)
		}
	}

	return args
}

// disambiguate suffixes duplicate labels for backends that match the
// selection by visible text. Index-output backends select by row and need
// no help.
func disambiguate(caps Capabilities, items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	if caps.IndexOutput {
		return out
	}

	seen := make(map[string]int)
	for i := range out {
		key := sanitizeLabel(out[i].Label)
		if count := seen[key]; count > 0 {
			out[i].Label = fmt.Sprintf("%s (%d)", key, count+1)
		}
		seen[key]++
	}
	return out
}

func (b *dmenuLikeBackend) formatInput(items []Item) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, b.formatItem(item))
	}
	return strings.Join(lines, "\n")
}

func (b *dmenuLikeBackend) formatItem(item Item) string {
	display := sanitizeLabel(item.Label)

	switch b.kind {
	case kindRofi:
		// Rofi dmenu mode supports entry properties via the \0key\x1fvalue
		// protocol: a single NUL, then key/value pairs delimited by \x1f.
		var attrs []string
		if item.Icon != "" {
			attrs = append(attrs, "icon", sanitizeRofiField(item.Icon))
		}
		if item.Info != "" {
			attrs = append(attrs, "info", sanitizeRofiField(item.Info))
		}
		if len(attrs) == 0 {
			return display
		}
		return display + "\x00" + strings.Join(attrs, "\x1f")

	case kindWofi:
		if item.Icon != "" && strings.HasPrefix(item.Icon, "/") {
			return "img:" + item.Icon + ":text:" + display
		}
		return display

	default:
		return display
	}
}

func (b *dmenuLikeBackend) parseSelection(selection string, items []Item) (Item, error) {
	if b.caps.IndexOutput {
		idx, err := strconv.Atoi(selection)
		if err != nil {
			return findByLabel(selection, items)
		}
		if idx < 0 || idx >= len(items) {
			return Item{}, fmt.Errorf("menu: index %d out of range", idx)
		}
		return items[idx], nil
	}
	return findByLabel(selection, items)
}

func findByLabel(selection string, items []Item) (Item, error) {
	// Wofi echoes the full img:...:text: row back; strip the prefix.
	if idx := strings.LastIndex(selection, ":text:"); idx != -1 {
		selection = selection[idx+len(":text:"):]
	}
	for _, item := range items {
		if sanitizeLabel(item.Label) == selection {
			return item, nil
		}
	}
	return Item{}, fmt.Errorf("menu: unknown selection %q", selection)
}

func sanitizeLabel(label string) string {
	label = strings.ReplaceAll(label, "\r", " ")
	label = strings.ReplaceAll(label, "\n", " ")
	return strings.TrimSpace(label)
}

func sanitizeRofiField(value string) string {
	// Avoid breaking the \0key\x1fvalue protocol with control separators.
	value = strings.ReplaceAll(value, "\x00", " ")
	value = strings.ReplaceAll(value, "\x1f", " ")
	value = strings.ReplaceAll(value, "\r", " ")
	value = strings.ReplaceAll(value, "\n", " ")
	return strings.TrimSpace(value)
}

func isCancelExit(err error) bool {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return false
	}
	// Rofi/dmenu/wofi use 1 for "no selection" and 130 for Ctrl+C.
	switch exitErr.ExitCode() {
	case 1, 130:
		return true
	default:
		return false
	}
}
