// Package statusbar shapes engine state for a polling status-bar widget.
// The projection is a pure read: no capture work, no compositor round
// trips, and it must always produce valid output so the bar never breaks.
package statusbar

import (
	"encoding/json"
	"fmt"
	"os/exec"

	"github.com/minhypr/minhypr/internal/config"
)

// Payload is the waybar custom-module JSON contract.
type Payload struct {
	Text    string `json:"text"`
	Class   string `json:"class"`
	Tooltip string `json:"tooltip"`
}

// Project builds the status payload for the given minimized-window count.
func Project(cfg *config.Config, count int) Payload {
	glyph := cfg.Statusbar.Glyph
	if count == 0 {
		return Payload{
			Text:    glyph,
			Class:   "empty",
			Tooltip: "No minimized windows",
		}
	}
	tooltip := fmt.Sprintf("%d minimized windows", count)
	if count == 1 {
		tooltip = "1 minimized window"
	}
	return Payload{
		Text:    fmt.Sprintf("%s %d", glyph, count),
		Class:   "has-windows",
		Tooltip: tooltip,
	}
}

// Render marshals a payload to the single-line JSON waybar expects. It
// cannot realistically fail; on the off chance it does, the neutral empty
// payload is returned so the consumer still parses something.
func Render(p Payload) string {
	data, err := json.Marshal(p)
	if err != nil {
		return `{"text":"","class":"empty","tooltip":""}`
	}
	return string(data)
}

// Signal pokes the status bar to re-poll after a mutation, via
// `pkill -RTMIN+<n> <process>`. Best-effort: a missing bar is not an error
// worth surfacing.
func Signal(cfg *config.Config) {
	if cfg.Statusbar.Signal <= 0 || cfg.Statusbar.Process == "" {
		return
	}
	sig := fmt.Sprintf("-RTMIN+%d", cfg.Statusbar.Signal)
	exec.Command("pkill", sig, cfg.Statusbar.Process).Run()
}
