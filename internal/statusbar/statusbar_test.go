package statusbar

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/minhypr/minhypr/internal/config"
)

func TestProject_Empty(t *testing.T) {
	cfg := config.DefaultConfig()
	p := Project(cfg, 0)

	if p.Class != "empty" {
		t.Fatalf("unexpected class %q", p.Class)
	}
	if p.Text != cfg.Statusbar.Glyph {
		t.Fatalf("empty text must be just the glyph, got %q", p.Text)
	}
}

func TestProject_Counts(t *testing.T) {
	cfg := config.DefaultConfig()

	one := Project(cfg, 1)
	if one.Class != "has-windows" || one.Tooltip != "1 minimized window" {
		t.Fatalf("unexpected payload: %+v", one)
	}

	three := Project(cfg, 3)
	if !strings.HasSuffix(three.Text, " 3") {
		t.Fatalf("count missing from text %q", three.Text)
	}
	if three.Tooltip != "3 minimized windows" {
		t.Fatalf("unexpected tooltip %q", three.Tooltip)
	}
}

func TestRender_SingleLineParsableJSON(t *testing.T) {
	out := Render(Project(config.DefaultConfig(), 2))

	if strings.Contains(out, "\n") {
		t.Fatalf("payload must be one line: %q", out)
	}
	var p Payload
	if err := json.Unmarshal([]byte(out), &p); err != nil {
		t.Fatalf("payload not parsable: %v", err)
	}
	if p.Class != "has-windows" {
		t.Fatalf("round trip lost class: %+v", p)
	}
}
