package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/minhypr/minhypr/internal/engine"
)

func runMinimize(args []string) int {
	fs := flag.NewFlagSet("minimize", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: minhypr minimize")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Move the focused window to the hidden special workspace and record it.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	configPath := fs.String("config", "", "Config file path (default: ~/.config/minhypr/config.yaml)")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "minimize takes no arguments")
		fs.Usage()
		return 2
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

	entry, err := e.Minimize()
	if err != nil {
		// Both conditions are normal under a keybind: nothing focused, or
		// the same bind hit twice. Neither leaves work undone.
		switch {
		case errors.Is(err, engine.ErrNoActiveWindow):
			fmt.Fprintln(os.Stderr, err)
			return 0
		case errors.Is(err, engine.ErrAlreadyMinimized):
			fmt.Fprintln(os.Stderr, err)
			return 0
		}
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	fmt.Printf("minimized %s - %s (id %d)\n", entry.Class, entry.Title, entry.ID)
	notifyStatusbar(cfg)
	return 0
}
