package mcp

import "time"

// MinimizedInfo describes one minimized window in tool output.
type MinimizedInfo struct {
	ID              uint64    `json:"id"`
	Address         string    `json:"address"`
	Title           string    `json:"title"`
	Class           string    `json:"class"`
	MinimizedAt     time.Time `json:"minimized_at"`
	SourceWorkspace int       `json:"source_workspace"`
	HasThumbnail    bool      `json:"has_thumbnail"`
}

// ListMinimizedInput is the input for the list_minimized tool.
type ListMinimizedInput struct{}

// ListMinimizedOutput is the output for the list_minimized tool.
type ListMinimizedOutput struct {
	Windows []MinimizedInfo `json:"windows"`
	Count   int             `json:"count"`
}

// MinimizeWindowInput is the input for the minimize_window tool.
type MinimizeWindowInput struct{}

// MinimizeWindowOutput is the output for the minimize_window tool.
type MinimizeWindowOutput struct {
	Window MinimizedInfo `json:"window"`
}

// RestoreWindowInput is the input for the restore_window tool.
type RestoreWindowInput struct {
	ID uint64 `json:"id" jsonschema:"required,Id of the minimized window to restore, as returned by list_minimized"`
}

// RestoreWindowOutput is the output for the restore_window tool.
type RestoreWindowOutput struct {
	Window MinimizedInfo `json:"window"`
}

// RestoreAllInput is the input for the restore_all tool.
type RestoreAllInput struct{}

// RestoreAllOutput is the output for the restore_all tool.
type RestoreAllOutput struct {
	Restored int `json:"restored"`
}

// StatusInput is the input for the status tool.
type StatusInput struct{}

// StatusOutput is the output for the status tool.
type StatusOutput struct {
	Count int `json:"count"`
}
