package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/minhypr/minhypr/internal/paths"
	"github.com/minhypr/minhypr/internal/setup"
)

func runSetupRofi(args []string) int {
	fs := flag.NewFlagSet("setup-rofi", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: minhypr setup-rofi")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Write a rofi theme and helper scripts into ~/.config/minhypr/.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "setup-rofi takes no arguments")
		fs.Usage()
		return 2
	}

	configDir, err := paths.ConfigDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	artifacts, err := setup.WriteRofiConfig(configDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	for _, a := range artifacts {
		fmt.Printf("wrote %s (%s)\n", a.Path, a.Description)
	}
	fmt.Println("")
	fmt.Println("Suggested Hyprland binds (~/.config/hypr/hyprland.conf):")
	for _, hint := range setup.KeybindHints(configDir) {
		fmt.Printf("  %s\n", hint)
	}
	return 0
}
