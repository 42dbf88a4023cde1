package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/minhypr/minhypr/internal/capture"
	"github.com/minhypr/minhypr/internal/config"
	"github.com/minhypr/minhypr/internal/hypr"
	"github.com/minhypr/minhypr/internal/state"
)

// fakeCompositor is an in-memory Hyprland: windows live on named
// workspaces and moves update them like the real dispatcher would.
type fakeCompositor struct {
	windows    map[string]*hypr.Window // address -> window
	active     string                  // focused window address
	activeWS   hypr.Workspace
	workspaces []hypr.Workspace

	moveErr  error // injected failure for the next move
	focused  []string
	moveLog  []string
	silenced []string
}

func newFakeCompositor() *fakeCompositor {
	return &fakeCompositor{
		windows:    make(map[string]*hypr.Window),
		activeWS:   hypr.Workspace{ID: 1, Name: "1"},
		workspaces: []hypr.Workspace{{ID: 1, Name: "1"}, {ID: 2, Name: "2"}},
	}
}

func (f *fakeCompositor) addWindow(address, class, title string, wsID int, wsName string) {
	f.windows[address] = &hypr.Window{
		Address:   address,
		Title:     title,
		Class:     class,
		At:        [2]int{0, 0},
		Size:      [2]int{100, 100},
		Workspace: hypr.WorkspaceRef{ID: wsID, Name: wsName},
	}
}

func (f *fakeCompositor) ActiveWindow() (*hypr.Window, error) {
	if f.active == "" {
		return nil, hypr.ErrNoActiveWindow
	}
	win, ok := f.windows[f.active]
	if !ok {
		return nil, hypr.ErrNoActiveWindow
	}
	copied := *win
	return &copied, nil
}

func (f *fakeCompositor) ActiveWorkspace() (hypr.Workspace, error) {
	return f.activeWS, nil
}

func (f *fakeCompositor) Clients() ([]hypr.Window, error) {
	out := make([]hypr.Window, 0, len(f.windows))
	for _, win := range f.windows {
		out = append(out, *win)
	}
	return out, nil
}

func (f *fakeCompositor) Workspaces() ([]hypr.Workspace, error) {
	return f.workspaces, nil
}

func (f *fakeCompositor) move(address, workspace string) error {
	if f.moveErr != nil {
		err := f.moveErr
		f.moveErr = nil
		return err
	}
	win, ok := f.windows[address]
	if !ok {
		return fmt.Errorf("no window %s", address)
	}
	win.Workspace = hypr.WorkspaceRef{ID: -99, Name: workspace}
	if workspace != "special:minimized" {
		win.Workspace = hypr.WorkspaceRef{ID: atoiOr(workspace, -1), Name: workspace}
	}
	f.moveLog = append(f.moveLog, address+"->"+workspace)
	return nil
}

func (f *fakeCompositor) MoveToWorkspaceSilent(address, workspace string) error {
	f.silenced = append(f.silenced, address)
	return f.move(address, workspace)
}

func (f *fakeCompositor) MoveToWorkspace(address, workspace string) error {
	return f.move(address, workspace)
}

func (f *fakeCompositor) FocusWindow(address string) error {
	f.focused = append(f.focused, address)
	return nil
}

func atoiOr(s string, fallback int) int {
	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err != nil {
		return fallback
	}
	return n
}

// fakeGrabber records captures and can be told to fail.
type fakeGrabber struct {
	dir  string
	fail bool
}

func (g *fakeGrabber) Capture(address, geometry string) (capture.Result, error) {
	if g.fail {
		return capture.Result{}, errors.New("grim exploded")
	}
	thumb := filepath.Join(g.dir, address+".thumb.png")
	if err := os.WriteFile(thumb, []byte("png"), 0644); err != nil {
		return capture.Result{}, err
	}
	return capture.Result{ThumbnailPath: thumb}, nil
}

func testEngine(t *testing.T) (*Engine, *fakeCompositor, *fakeGrabber) {
	t.Helper()
	comp := newFakeCompositor()
	grabber := &fakeGrabber{dir: t.TempDir()}
	store := state.NewStore(t.TempDir(), time.Second)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	e := New(store, comp, grabber, config.DefaultConfig(), logger)
	return e, comp, grabber
}

func TestMinimize_RecordsEntryAndMovesWindow(t *testing.T) {
	e, comp, _ := testEngine(t)
	comp.addWindow("0x1", "firefox", "Docs", 1, "1")
	comp.active = "0x1"

	entry, err := e.Minimize()
	if err != nil {
		t.Fatalf("Minimize: %v", err)
	}
	if entry.ID != 1 || entry.Address != "0x1" || entry.SourceWorkspace != 1 {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if entry.ThumbnailPath == "" {
		t.Fatalf("expected thumbnail path")
	}
	if comp.windows["0x1"].Workspace.Name != "special:minimized" {
		t.Fatalf("window not moved to special workspace")
	}
	if len(comp.silenced) != 1 {
		t.Fatalf("minimize must use the silent dispatcher")
	}

	entries, err := e.List(false)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 persisted entry, got %d", len(entries))
	}
}

func TestMinimize_NoActiveWindow(t *testing.T) {
	e, _, _ := testEngine(t)

	if _, err := e.Minimize(); !errors.Is(err, ErrNoActiveWindow) {
		t.Fatalf("expected ErrNoActiveWindow, got %v", err)
	}
}

func TestMinimize_IgnoredClass(t *testing.T) {
	e, comp, _ := testEngine(t)
	comp.addWindow("0x1", "Rofi", "menu", 1, "1")
	comp.active = "0x1"

	if _, err := e.Minimize(); !errors.Is(err, ErrNoActiveWindow) {
		t.Fatalf("expected ErrNoActiveWindow for ignored class, got %v", err)
	}
}

func TestMinimize_AlreadyMinimizedIsRejectedUnchanged(t *testing.T) {
	e, comp, _ := testEngine(t)
	comp.addWindow("0x1", "firefox", "Docs", 1, "1")
	comp.active = "0x1"

	if _, err := e.Minimize(); err != nil {
		t.Fatalf("first Minimize: %v", err)
	}
	// Focus stays on the now-hidden window (keybind double-fire).
	if _, err := e.Minimize(); !errors.Is(err, ErrAlreadyMinimized) {
		t.Fatalf("expected ErrAlreadyMinimized, got %v", err)
	}

	entries, _ := e.List(false)
	if len(entries) != 1 {
		t.Fatalf("set changed by rejected minimize: %d entries", len(entries))
	}
}

func TestMinimize_MoveFailureLeavesNoRecord(t *testing.T) {
	e, comp, _ := testEngine(t)
	comp.addWindow("0x1", "firefox", "Docs", 1, "1")
	comp.active = "0x1"
	comp.moveErr = errors.New("dispatcher down")

	if _, err := e.Minimize(); err == nil {
		t.Fatalf("expected move failure")
	}
	entries, _ := e.List(false)
	if len(entries) != 0 {
		t.Fatalf("partial record for a move that did not happen")
	}
}

func TestMinimize_CaptureFailureIsNonFatal(t *testing.T) {
	e, comp, grabber := testEngine(t)
	grabber.fail = true
	comp.addWindow("0x1", "firefox", "Docs", 1, "1")
	comp.active = "0x1"

	entry, err := e.Minimize()
	if err != nil {
		t.Fatalf("Minimize: %v", err)
	}
	if entry.ThumbnailPath != "" {
		t.Fatalf("expected no thumbnail path after capture failure")
	}
}

func TestRestore_RoundTrip(t *testing.T) {
	e, comp, _ := testEngine(t)
	comp.addWindow("0x1", "firefox", "Docs", 2, "2")
	comp.active = "0x1"
	comp.activeWS = hypr.Workspace{ID: 2, Name: "2"}

	entry, err := e.Minimize()
	if err != nil {
		t.Fatalf("Minimize: %v", err)
	}
	thumb := entry.ThumbnailPath

	restored, err := e.Restore(entry.ID)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if restored.ID != entry.ID {
		t.Fatalf("restored wrong entry: %+v", restored)
	}
	if comp.windows["0x1"].Workspace.ID != 2 {
		t.Fatalf("window not returned to source workspace: %+v", comp.windows["0x1"].Workspace)
	}
	if len(comp.focused) != 1 || comp.focused[0] != "0x1" {
		t.Fatalf("restored window not focused")
	}
	if _, err := os.Stat(thumb); !os.IsNotExist(err) {
		t.Fatalf("thumbnail not cleaned up")
	}

	entries, _ := e.List(false)
	if len(entries) != 0 {
		t.Fatalf("set not back to pre-minimize state")
	}
}

func TestRestore_NonLastEntryReturnsItsOwnMetadata(t *testing.T) {
	e, comp, _ := testEngine(t)

	comp.addWindow("0x1", "firefox", "Docs", 1, "1")
	comp.active = "0x1"
	first, err := e.Minimize()
	if err != nil {
		t.Fatalf("Minimize 0x1: %v", err)
	}

	comp.addWindow("0x2", "kitty", "Shell", 1, "1")
	comp.active = "0x2"
	second, err := e.Minimize()
	if err != nil {
		t.Fatalf("Minimize 0x2: %v", err)
	}

	restored, err := e.Restore(first.ID)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if restored.ID != first.ID || restored.Address != "0x1" || restored.Class != "firefox" {
		t.Fatalf("restored metadata belongs to another entry: got id=%d addr=%s class=%s, want id=%d addr=0x1 class=firefox",
			restored.ID, restored.Address, restored.Class, first.ID)
	}

	entries, _ := e.List(false)
	if len(entries) != 1 || entries[0].ID != second.ID {
		t.Fatalf("wrong entry removed from set: %+v", entries)
	}
}

func TestRestore_UnknownID(t *testing.T) {
	e, _, _ := testEngine(t)

	if _, err := e.Restore(99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	entries, _ := e.List(false)
	if len(entries) != 0 {
		t.Fatalf("set changed by failed restore")
	}
}

func TestRestore_MoveFailureRetainsEntry(t *testing.T) {
	e, comp, _ := testEngine(t)
	comp.addWindow("0x1", "firefox", "Docs", 1, "1")
	comp.active = "0x1"

	entry, err := e.Minimize()
	if err != nil {
		t.Fatalf("Minimize: %v", err)
	}

	comp.moveErr = errors.New("dispatcher down")
	if _, err := e.Restore(entry.ID); err == nil {
		t.Fatalf("expected restore failure")
	}

	entries, _ := e.List(false)
	if len(entries) != 1 {
		t.Fatalf("entry dropped for a restore that did not complete")
	}
}

func TestRestore_FallsBackToCurrentWorkspace(t *testing.T) {
	e, comp, _ := testEngine(t)
	comp.addWindow("0x1", "firefox", "Docs", 7, "7")
	comp.active = "0x1"
	comp.activeWS = hypr.Workspace{ID: 7, Name: "7"}

	entry, err := e.Minimize()
	if err != nil {
		t.Fatalf("Minimize: %v", err)
	}

	// Workspace 7 disappears while the window is minimized.
	comp.workspaces = []hypr.Workspace{{ID: 3, Name: "3"}}
	comp.activeWS = hypr.Workspace{ID: 3, Name: "3"}

	if _, err := e.Restore(entry.ID); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if comp.windows["0x1"].Workspace.ID != 3 {
		t.Fatalf("expected fallback to current workspace, got %+v", comp.windows["0x1"].Workspace)
	}
}

func minimizeAt(t *testing.T, e *Engine, comp *fakeCompositor, address, class string, at time.Time) *state.MinimizedWindow {
	t.Helper()
	comp.addWindow(address, class, class+"-title", 1, "1")
	comp.active = address
	e.now = func() time.Time { return at }
	entry, err := e.Minimize()
	if err != nil {
		t.Fatalf("Minimize %s: %v", address, err)
	}
	return entry
}

func TestRestoreLast_PicksNewest(t *testing.T) {
	e, comp, _ := testEngine(t)
	base := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	minimizeAt(t, e, comp, "0x1", "Firefox", base.Add(10*time.Second))
	second := minimizeAt(t, e, comp, "0x2", "Terminal", base.Add(20*time.Second))

	restored, err := e.RestoreLast()
	if err != nil {
		t.Fatalf("RestoreLast: %v", err)
	}
	if restored.ID != second.ID {
		t.Fatalf("expected newest entry %d, got %d", second.ID, restored.ID)
	}

	entries, _ := e.List(false)
	if len(entries) != 1 || entries[0].Address != "0x1" {
		t.Fatalf("unexpected remaining set: %+v", entries)
	}
}

func TestRestoreLast_EmptySet(t *testing.T) {
	e, _, _ := testEngine(t)
	if _, err := e.RestoreLast(); !errors.Is(err, ErrEmptySet) {
		t.Fatalf("expected ErrEmptySet, got %v", err)
	}
}

func TestRestoreAll_OldestFirst(t *testing.T) {
	e, comp, _ := testEngine(t)
	base := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	minimizeAt(t, e, comp, "0x1", "Firefox", base.Add(10*time.Second))
	minimizeAt(t, e, comp, "0x2", "Terminal", base.Add(20*time.Second))
	minimizeAt(t, e, comp, "0x3", "Editor", base.Add(30*time.Second))
	comp.moveLog = nil

	n, err := e.RestoreAll()
	if err != nil {
		t.Fatalf("RestoreAll: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 restored, got %d", n)
	}

	want := []string{"0x1->1", "0x2->1", "0x3->1"}
	if len(comp.moveLog) != len(want) {
		t.Fatalf("unexpected moves: %v", comp.moveLog)
	}
	for i, mv := range want {
		if comp.moveLog[i] != mv {
			t.Fatalf("move %d = %q, want %q", i, comp.moveLog[i], mv)
		}
	}

	entries, _ := e.List(false)
	if len(entries) != 0 {
		t.Fatalf("set not emptied: %+v", entries)
	}
}

func TestRestoreAll_PartialFailureContinuesAndAggregates(t *testing.T) {
	e, comp, _ := testEngine(t)
	base := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	first := minimizeAt(t, e, comp, "0x1", "Firefox", base.Add(10*time.Second))
	minimizeAt(t, e, comp, "0x2", "Terminal", base.Add(20*time.Second))

	// First move (oldest entry) fails, second succeeds.
	comp.moveErr = errors.New("dispatcher down")

	n, err := e.RestoreAll()
	if err == nil {
		t.Fatalf("expected aggregate error")
	}
	if n != 1 {
		t.Fatalf("expected 1 restored despite failure, got %d", n)
	}

	entries, _ := e.List(false)
	if len(entries) != 1 || entries[0].ID != first.ID {
		t.Fatalf("failed entry must be retained: %+v", entries)
	}
}

func TestReapStale_DropsVanishedAndEscapedWindows(t *testing.T) {
	e, comp, _ := testEngine(t)
	base := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	gone := minimizeAt(t, e, comp, "0x1", "Firefox", base)
	escaped := minimizeAt(t, e, comp, "0x2", "Terminal", base.Add(time.Second))
	kept := minimizeAt(t, e, comp, "0x3", "Editor", base.Add(2*time.Second))

	// 0x1 was closed while minimized; 0x2 was dragged out of the special
	// workspace by hand.
	delete(comp.windows, "0x1")
	comp.windows["0x2"].Workspace = hypr.WorkspaceRef{ID: 1, Name: "1"}

	entries, err := e.ReapStale()
	if err != nil {
		t.Fatalf("ReapStale: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != kept.ID {
		t.Fatalf("unexpected surviving entries: %+v", entries)
	}
	_ = gone
	_ = escaped

	// Restoring a reaped id now reports NotFound.
	if _, err := e.Restore(gone.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after reap, got %v", err)
	}
}

func TestCount_DegradesToZeroOnBrokenState(t *testing.T) {
	comp := newFakeCompositor()
	dir := t.TempDir()
	store := state.NewStore(dir, time.Second)
	if err := os.WriteFile(filepath.Join(dir, "windows.json"), []byte("junk"), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}
	e := New(store, comp, nil, config.DefaultConfig(), nil)

	if got := e.Count(); got != 0 {
		t.Fatalf("expected 0 on corrupt state, got %d", got)
	}
}
