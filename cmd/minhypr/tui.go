package main

import (
	"flag"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/minhypr/minhypr/internal/tui"
)

func runTUI(args []string) int {
	fs := flag.NewFlagSet("tui", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
		fmt.Fprintln(os.Stderr, "Usage: minhypr tui")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Interactive browser for the minimized window set.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Keybindings:")
		fmt.Fprintln(os.Stderr, "  j/k, ↑/↓  Navigate entries")
		fmt.Fprintln(os.Stderr, "  Enter     Restore selected window")
		fmt.Fprintln(os.Stderr, "  a         Restore all windows")
		fmt.Fprintln(os.Stderr, "  r         Reload the list")
		fmt.Fprintln(os.Stderr, "  q, Esc    Quit")
		return 0
	}

	configPath := fs.String("config", "", "Config file path (default: ~/.config/minhypr/config.yaml)")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(os.Stderr, "tui requires an interactive terminal")
		return 1
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	e, err := newEngine(cfg, true)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if err := tui.Run(e); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	notifyStatusbar(cfg)
	return 0
}
