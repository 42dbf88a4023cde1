package menu

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/minhypr/minhypr/internal/state"
)

// WriteScriptRows emits entries in rofi script-mode format, one row per
// line: label, then a single NUL and \x1f-delimited icon/info properties.
// Rofi renders these when launched as `rofi -show window -modi
// "window:minhypr show-rofi"`.
func WriteScriptRows(w io.Writer, entries []state.MinimizedWindow) error {
	for _, item := range Items(entries) {
		row := sanitizeLabel(item.Label)
		row += "\x00icon\x1f" + sanitizeRofiField(item.Icon)
		row += "\x1finfo\x1f" + sanitizeRofiField(item.Info)
		if _, err := fmt.Fprintln(w, row); err != nil {
			return err
		}
	}
	return nil
}

// ScriptSelection resolves the entry id for a script-mode callback. Rofi
// re-invokes the script with the chosen row as an argument and the row's
// info property in ROFI_INFO; the env value is authoritative, the argument
// a fallback for pickers that do not set it.
func ScriptSelection(arg string) (uint64, bool) {
	if info := os.Getenv("ROFI_INFO"); info != "" {
		if id, err := strconv.ParseUint(info, 10, 64); err == nil {
			return id, true
		}
	}
	if id, err := strconv.ParseUint(arg, 10, 64); err == nil {
		return id, true
	}
	return 0, false
}
