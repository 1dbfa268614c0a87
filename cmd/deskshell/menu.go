package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/1broseidon/deskshell/internal/ipc"
	"github.com/1broseidon/deskshell/internal/palette"
)

func runMenu(args []string) int {
	fs := newFlagSet("menu", "menu [--backend NAME] [--path PATH]",
		"Show the start menu in rofi, fuzzel, wofi or dmenu: launch applets,\n"+
			"activate taskbar windows, arrange windows and load sessions.\n"+
			"Bind it to a desktop hotkey.")
	backendName := fs.String("backend", "", "Palette backend (default: palette_backend from config)")
	path := fs.String("path", "", "Config file path (default: ~/.config/deskshell/config.yaml)")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	name := *backendName
	if name == "" {
		res, err := loadConfig(*path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		name = res.Config.PaletteBackend
	}
	backend, err := palette.NewBackend(name)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	msg, err := palette.Show(ipc.NewClient(), backend)
	if err != nil {
		if errors.Is(err, palette.ErrCancelled) {
			return 0
		}
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println(msg)
	return 0
}
