package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/minhypr/minhypr/internal/config"
	"github.com/minhypr/minhypr/internal/menu"
	"github.com/minhypr/minhypr/internal/state"
	"github.com/minhypr/minhypr/internal/statusbar"
)

func runList(args []string) int {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: minhypr list [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List minimized windows with the ids accepted by 'minhypr restore'.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	configPath := fs.String("config", "", "Config file path (default: ~/.config/minhypr/config.yaml)")
	jsonOut := fs.Bool("json", false, "Output entries as JSON")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "list takes no arguments")
		fs.Usage()
		return 2
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	e, err := newEngine(cfg, false)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	entries, err := e.List(true)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if *jsonOut {
		if entries == nil {
			entries = []state.MinimizedWindow{}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(entries); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}

	if len(entries) == 0 {
		fmt.Println("no minimized windows")
		return 0
	}
	for _, entry := range entries {
		fmt.Printf("%3d  %s (workspace %d)\n", entry.ID, menu.Label(entry), entry.SourceWorkspace)
	}
	return 0
}

// runShow prints the waybar custom-module payload. It never exits non-zero:
// a broken bar module is worse than a missing count.
func runShow(args []string) int {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: minhypr show")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Print waybar custom-module JSON for the minimized window count.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	configPath := fs.String("config", "", "Config file path (default: ~/.config/minhypr/config.yaml)")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		// The bar polls this command; a bad flag still gets the neutral
		// payload instead of breaking the module.
		fmt.Println(statusbar.Render(statusbar.Project(config.DefaultConfig(), 0)))
		return 0
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		cfg = config.DefaultConfig()
	}

	count := 0
	if e, err := newEngine(cfg, false); err == nil {
		count = e.Count()
	}

	fmt.Println(statusbar.Render(statusbar.Project(cfg, count)))
	return 0
}

// runShowRofi implements rofi script mode: called without an argument it
// prints the selectable rows, called again with the picked row it restores
// the corresponding window.
func runShowRofi(args []string) int {
	if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
		fmt.Fprintln(os.Stdout, "Usage: minhypr show-rofi [selection]")
		fmt.Fprintln(os.Stdout, "")
		fmt.Fprintln(os.Stdout, "Rofi script mode. Wire it up as a modi:")
		fmt.Fprintln(os.Stdout, "  rofi -show minimized -modi \"minimized:minhypr show-rofi\"")
		return 0
	}

	cfg, err := loadConfig("")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	e, err := newEngine(cfg, true)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	var selection string
	if len(args) > 0 {
		selection = args[0]
	}

	// Stdout is the next menu in script mode, so the selection path stays
	// silent and simply closes the picker by printing nothing.
	if id, ok := menu.ScriptSelection(selection); ok {
		if _, err := e.Restore(id); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		notifyStatusbar(cfg)
		return 0
	}

	entries, err := e.List(true)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := menu.WriteScriptRows(os.Stdout, entries); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
