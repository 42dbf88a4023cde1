package hypr

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// ErrNotRunning is returned when hyprctl is missing or no Hyprland instance
// is reachable.
var ErrNotRunning = errors.New("hyprland is not running")

// ErrNoActiveWindow is returned by ActiveWindow when no window has focus.
var ErrNoActiveWindow = errors.New("no active window")

// Client drives Hyprland through hyprctl. Each call is a fresh hyprctl
// invocation; the client holds no connection state.
type Client struct {
	// command overrides the hyprctl binary name, for tests.
	command string
}

// NewClient returns a hyprctl-backed client.
func NewClient() *Client {
	return &Client{command: "hyprctl"}
}

// Available reports whether hyprctl is on PATH and a Hyprland session is
// advertised in the environment.
func (c *Client) Available() bool {
	if _, err := exec.LookPath(c.command); err != nil {
		return false
	}
	return os.Getenv("HYPRLAND_INSTANCE_SIGNATURE") != ""
}

func (c *Client) run(args ...string) ([]byte, error) {
	cmd := exec.Command(c.command, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("hyprctl %s failed: %s", args[0], msg)
		}
		return nil, fmt.Errorf("hyprctl %s failed: %w", args[0], err)
	}
	return out, nil
}

// ActiveWindow returns the currently focused window, or ErrNoActiveWindow
// when focus is on no client (empty workspace, lock screen).
func (c *Client) ActiveWindow() (*Window, error) {
	out, err := c.run("activewindow", "-j")
	if err != nil {
		return nil, err
	}

	// With nothing focused hyprctl prints an empty object or a bare
	// "Invalid" line depending on version.
	trimmed := bytes.TrimSpace(out)
	if len(trimmed) == 0 || string(trimmed) == "{}" || !bytes.HasPrefix(trimmed, []byte("{")) {
		return nil, ErrNoActiveWindow
	}

	var win Window
	if err := json.Unmarshal(trimmed, &win); err != nil {
		return nil, fmt.Errorf("failed to parse activewindow output: %w", err)
	}
	if win.Address == "" {
		return nil, ErrNoActiveWindow
	}
	return &win, nil
}

// ActiveWorkspace returns the currently focused workspace.
func (c *Client) ActiveWorkspace() (Workspace, error) {
	out, err := c.run("activeworkspace", "-j")
	if err != nil {
		return Workspace{}, err
	}
	var ws Workspace
	if err := json.Unmarshal(out, &ws); err != nil {
		return Workspace{}, fmt.Errorf("failed to parse activeworkspace output: %w", err)
	}
	return ws, nil
}

// Clients returns all windows known to the compositor.
func (c *Client) Clients() ([]Window, error) {
	out, err := c.run("clients", "-j")
	if err != nil {
		return nil, err
	}
	var windows []Window
	if err := json.Unmarshal(out, &windows); err != nil {
		return nil, fmt.Errorf("failed to parse clients output: %w", err)
	}
	return windows, nil
}

// Workspaces returns all currently existing workspaces.
func (c *Client) Workspaces() ([]Workspace, error) {
	out, err := c.run("workspaces", "-j")
	if err != nil {
		return nil, err
	}
	var workspaces []Workspace
	if err := json.Unmarshal(out, &workspaces); err != nil {
		return nil, fmt.Errorf("failed to parse workspaces output: %w", err)
	}
	return workspaces, nil
}

// MoveToWorkspaceSilent moves a window to a workspace without switching
// focus to it. Used for minimize so the user's view does not jump.
func (c *Client) MoveToWorkspaceSilent(address, workspace string) error {
	_, err := c.run("dispatch", "movetoworkspacesilent",
		fmt.Sprintf("%s,address:%s", workspace, address))
	return err
}

// MoveToWorkspace moves a window to a workspace, following it.
func (c *Client) MoveToWorkspace(address, workspace string) error {
	_, err := c.run("dispatch", "movetoworkspace",
		fmt.Sprintf("%s,address:%s", workspace, address))
	return err
}

// FocusWindow focuses a window by address.
func (c *Client) FocusWindow(address string) error {
	_, err := c.run("dispatch", "focuswindow", "address:"+address)
	return err
}
