package hypr

import "fmt"

// Workspace mirrors the fields of `hyprctl workspaces -j` entries that
// minhypr cares about.
type Workspace struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// WorkspaceRef is the inline workspace reference carried by client objects.
type WorkspaceRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Window mirrors the fields of `hyprctl clients -j` / `activewindow -j`
// entries that minhypr cares about.
type Window struct {
	Address   string       `json:"address"`
	Title     string       `json:"title"`
	Class     string       `json:"class"`
	At        [2]int       `json:"at"`
	Size      [2]int       `json:"size"`
	Workspace WorkspaceRef `json:"workspace"`
	Mapped    bool         `json:"mapped"`
}

// Geometry returns the window's screen region in the "X,Y WxH" form grim
// expects.
func (w Window) Geometry() string {
	return fmt.Sprintf("%d,%d %dx%d", w.At[0], w.At[1], w.Size[0], w.Size[1])
}

// ShortAddress returns the tail of the window address, used to disambiguate
// same-titled windows in menu labels.
func (w Window) ShortAddress() string {
	const n = 4
	if len(w.Address) <= n {
		return w.Address
	}
	return w.Address[len(w.Address)-n:]
}
