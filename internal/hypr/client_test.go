package hypr

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// stubHyprctl writes an executable script that prints the given payload for
// any invocation and returns a Client wired to it.
func stubHyprctl(t *testing.T, payload string) *Client {
	t.Helper()
	dir := t.TempDir()
	script := filepath.Join(dir, "hyprctl-stub")
	body := "#!/bin/sh\ncat <<'PAYLOAD'\n" + payload + "\nPAYLOAD\n"
	if err := os.WriteFile(script, []byte(body), 0755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return &Client{command: script}
}

func TestActiveWindow_ParsesClient(t *testing.T) {
	c := stubHyprctl(t, `{
  "address": "0x55b1f2a0",
  "title": "Mozilla Firefox",
  "class": "firefox",
  "at": [10, 20],
  "size": [800, 600],
  "workspace": {"id": 3, "name": "3"},
  "mapped": true
}`)

	win, err := c.ActiveWindow()
	if err != nil {
		t.Fatalf("ActiveWindow: %v", err)
	}
	if win.Address != "0x55b1f2a0" || win.Class != "firefox" {
		t.Fatalf("unexpected window: %+v", win)
	}
	if win.Workspace.ID != 3 {
		t.Fatalf("unexpected workspace: %+v", win.Workspace)
	}
	if got := win.Geometry(); got != "10,20 800x600" {
		t.Fatalf("unexpected geometry %q", got)
	}
	if got := win.ShortAddress(); got != "f2a0" {
		t.Fatalf("unexpected short address %q", got)
	}
}

func TestActiveWindow_NoFocus(t *testing.T) {
	for name, payload := range map[string]string{
		"empty object":  "{}",
		"invalid reply": "Invalid",
	} {
		t.Run(name, func(t *testing.T) {
			c := stubHyprctl(t, payload)
			if _, err := c.ActiveWindow(); !errors.Is(err, ErrNoActiveWindow) {
				t.Fatalf("expected ErrNoActiveWindow, got %v", err)
			}
		})
	}
}

func TestClientsAndWorkspaces_ParseLists(t *testing.T) {
	c := stubHyprctl(t, `[
  {"address": "0x1", "title": "a", "class": "kitty", "at": [0,0], "size": [1,1], "workspace": {"id": 1, "name": "1"}},
  {"address": "0x2", "title": "b", "class": "firefox", "at": [0,0], "size": [1,1], "workspace": {"id": -99, "name": "special:minimized"}}
]`)

	windows, err := c.Clients()
	if err != nil {
		t.Fatalf("Clients: %v", err)
	}
	if len(windows) != 2 {
		t.Fatalf("expected 2 windows, got %d", len(windows))
	}
	if windows[1].Workspace.Name != "special:minimized" {
		t.Fatalf("unexpected workspace name %q", windows[1].Workspace.Name)
	}

	c = stubHyprctl(t, `[{"id": 1, "name": "1"}, {"id": 5, "name": "5"}]`)
	workspaces, err := c.Workspaces()
	if err != nil {
		t.Fatalf("Workspaces: %v", err)
	}
	if len(workspaces) != 2 || workspaces[1].ID != 5 {
		t.Fatalf("unexpected workspaces: %+v", workspaces)
	}
}

func TestRun_SurfacesStderr(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "hyprctl-stub")
	body := "#!/bin/sh\necho 'Couldn'\\''t connect to socket' >&2\nexit 1\n"
	if err := os.WriteFile(script, []byte(body), 0755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	c := &Client{command: script}

	if _, err := c.Clients(); err == nil {
		t.Fatalf("expected error from failing hyprctl")
	}
}
