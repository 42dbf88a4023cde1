package main

import (
	"fmt"
	"io"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "minimize":
		os.Exit(runMinimize(os.Args[2:]))
	case "restore":
		os.Exit(runRestore(os.Args[2:]))
	case "restore-all":
		os.Exit(runRestoreAll(os.Args[2:]))
	case "restore-last":
		os.Exit(runRestoreLast(os.Args[2:]))
	case "list":
		os.Exit(runList(os.Args[2:]))
	case "show":
		os.Exit(runShow(os.Args[2:]))
	case "show-rofi":
		os.Exit(runShowRofi(os.Args[2:]))
	case "setup-rofi":
		os.Exit(runSetupRofi(os.Args[2:]))
	case "tui":
		os.Exit(runTUI(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: minhypr <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  minimize            Minimize the focused window")
	fmt.Fprintln(w, "  restore [id]        Restore a window (opens a picker without an id)")
	fmt.Fprintln(w, "  restore-all         Restore every minimized window, oldest first")
	fmt.Fprintln(w, "  restore-last        Restore the most recently minimized window")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  list                List minimized windows")
	fmt.Fprintln(w, "  show                Print waybar status JSON")
	fmt.Fprintln(w, "  show-rofi           Rofi script mode (rows on stdout, selection restores)")
	fmt.Fprintln(w, "  setup-rofi          Write rofi theme and helper scripts")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  tui                 Open interactive TUI")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'minhypr <command> --help' for command-specific options.")
}
