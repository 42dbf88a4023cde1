// Package mcp exposes the minimize engine as an MCP server over stdio.
package mcp

import (
	"context"
	"errors"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/minhypr/minhypr/internal/engine"
	"github.com/minhypr/minhypr/internal/state"
)

const (
	ServerName    = "minhypr"
	ServerVersion = "0.1.0"
)

// Server is the MCP server wrapping a minimize engine.
type Server struct {
	mcpServer *mcpsdk.Server
	engine    *engine.Engine
}

// NewServer creates an MCP server backed by the given engine.
func NewServer(e *engine.Engine) *Server {
	s := &Server{engine: e}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_minimized",
		Description: "List all minimized windows with their ids, titles, classes and source workspaces. Ids are stable and can be passed to restore_window.",
	}, s.handleListMinimized)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "minimize_window",
		Description: "Minimize the currently focused Hyprland window by moving it to the hidden special workspace. Returns the new entry.",
	}, s.handleMinimizeWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "restore_window",
		Description: "Restore a minimized window by id, moving it back to its source workspace and focusing it.",
	}, s.handleRestoreWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "restore_all",
		Description: "Restore every minimized window, oldest first. Returns the number of windows restored.",
	}, s.handleRestoreAll)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "status",
		Description: "Report how many windows are currently minimized.",
	}, s.handleStatus)
}

func infoFor(w state.MinimizedWindow) MinimizedInfo {
	return MinimizedInfo{
		ID:              w.ID,
		Address:         w.Address,
		Title:           w.Title,
		Class:           w.Class,
		MinimizedAt:     w.MinimizedAt,
		SourceWorkspace: w.SourceWorkspace,
		HasThumbnail:    w.ThumbnailPath != "",
	}
}

func (s *Server) handleListMinimized(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListMinimizedInput) (*mcpsdk.CallToolResult, ListMinimizedOutput, error) {
	entries, err := s.engine.List(true)
	if err != nil {
		return nil, ListMinimizedOutput{}, err
	}

	windows := make([]MinimizedInfo, 0, len(entries))
	for _, e := range entries {
		windows = append(windows, infoFor(e))
	}
	return nil, ListMinimizedOutput{Windows: windows, Count: len(windows)}, nil
}

func (s *Server) handleMinimizeWindow(_ context.Context, _ *mcpsdk.CallToolRequest, _ MinimizeWindowInput) (*mcpsdk.CallToolResult, MinimizeWindowOutput, error) {
	entry, err := s.engine.Minimize()
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrNoActiveWindow):
			return nil, MinimizeWindowOutput{}, fmt.Errorf("no active window to minimize")
		case errors.Is(err, engine.ErrAlreadyMinimized):
			return nil, MinimizeWindowOutput{}, fmt.Errorf("the active window is already minimized")
		}
		return nil, MinimizeWindowOutput{}, err
	}
	return nil, MinimizeWindowOutput{Window: infoFor(*entry)}, nil
}

func (s *Server) handleRestoreWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args RestoreWindowInput) (*mcpsdk.CallToolResult, RestoreWindowOutput, error) {
	entry, err := s.engine.Restore(args.ID)
	if err != nil {
		if errors.Is(err, engine.ErrNotFound) {
			return nil, RestoreWindowOutput{}, fmt.Errorf("no minimized window with id %d; run list_minimized for valid ids", args.ID)
		}
		return nil, RestoreWindowOutput{}, err
	}
	return nil, RestoreWindowOutput{Window: infoFor(*entry)}, nil
}

func (s *Server) handleRestoreAll(_ context.Context, _ *mcpsdk.CallToolRequest, _ RestoreAllInput) (*mcpsdk.CallToolResult, RestoreAllOutput, error) {
	n, err := s.engine.RestoreAll()
	if err != nil {
		// Partial restores still report what succeeded.
		return nil, RestoreAllOutput{Restored: n}, err
	}
	return nil, RestoreAllOutput{Restored: n}, nil
}

func (s *Server) handleStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ StatusInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	return nil, StatusOutput{Count: s.engine.Count()}, nil
}
