package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/minhypr/minhypr/internal/config"
	"github.com/minhypr/minhypr/internal/engine"
	"github.com/minhypr/minhypr/internal/menu"
)

func runRestore(args []string) int {
	fs := flag.NewFlagSet("restore", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: minhypr restore [id]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Restore a minimized window. Without an id a picker is opened")
		fmt.Fprintln(os.Stderr, "(rofi, fuzzel, wofi or dmenu, whichever is found first).")
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
	if fs.NArg() > 1 {
		fmt.Fprintln(os.Stderr, "restore takes at most one argument")
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

	var id uint64
	if fs.NArg() == 1 {
		id, err = strconv.ParseUint(fs.Arg(0), 10, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid id %q: expected a number from 'minhypr list'\n", fs.Arg(0))
			return 2
		}
	} else {
		id, err = pickEntry(cfg, e)
		if err != nil {
			if errors.Is(err, menu.ErrCancelled) {
				return 0
			}
			if errors.Is(err, engine.ErrEmptySet) {
				fmt.Fprintln(os.Stderr, "no minimized windows")
				return 0
			}
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}

	return restoreByID(cfg, e, id)
}

// pickEntry opens the configured picker over the current minimized set.
func pickEntry(cfg *config.Config, e *engine.Engine) (uint64, error) {
	entries, err := e.List(true)
	if err != nil {
		return 0, err
	}
	if len(entries) == 0 {
		return 0, engine.ErrEmptySet
	}

	backend, err := menu.NewBackend(cfg.Menu.Backend, cfg.Menu.Fuzzy)
	if err != nil {
		return 0, err
	}
	item, err := backend.Show(cfg.Menu.Prompt, menu.Items(entries))
	if err != nil {
		return 0, err
	}
	return menu.SelectedID(item)
}

func restoreByID(cfg *config.Config, e *engine.Engine, id uint64) int {
	entry, err := e.Restore(id)
	if err != nil {
		if errors.Is(err, engine.ErrNotFound) {
			fmt.Fprintf(os.Stderr, "no minimized window with id %d (see 'minhypr list')\n", id)
			return 1
		}
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	fmt.Printf("restored %s - %s (workspace %d)\n", entry.Class, entry.Title, entry.SourceWorkspace)
	notifyStatusbar(cfg)
	return 0
}

func runRestoreAll(args []string) int {
	fs := flag.NewFlagSet("restore-all", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: minhypr restore-all")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Restore every minimized window, oldest first.")
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
		fmt.Fprintln(os.Stderr, "restore-all takes no arguments")
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

	n, err := e.RestoreAll()
	if n > 0 {
		fmt.Printf("restored %d window(s)\n", n)
		notifyStatusbar(cfg)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runRestoreLast(args []string) int {
	fs := flag.NewFlagSet("restore-last", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: minhypr restore-last")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Restore the most recently minimized window.")
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
		fmt.Fprintln(os.Stderr, "restore-last takes no arguments")
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

	entry, err := e.RestoreLast()
	if err != nil {
		if errors.Is(err, engine.ErrEmptySet) {
			fmt.Fprintln(os.Stderr, "no minimized windows")
			return 0
		}
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	fmt.Printf("restored %s - %s (workspace %d)\n", entry.Class, entry.Title, entry.SourceWorkspace)
	notifyStatusbar(cfg)
	return 0
}
