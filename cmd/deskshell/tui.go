package main

import (
	"fmt"
	"os"

	"github.com/1broseidon/deskshell/internal/daemon"
	"github.com/1broseidon/deskshell/internal/desktop"
	"github.com/1broseidon/deskshell/internal/ipc"
	"github.com/1broseidon/deskshell/internal/platform"
	"github.com/1broseidon/deskshell/internal/tui"
)

func runTUI(args []string) int {
	fs := newFlagSet("tui", "tui [--local] [--path PATH]",
		"Render the desktop in the terminal. Drag title bars and borders with the mouse,\n"+
			"click taskbar buttons, and press s for the start menu.\n\n"+
			"Without --local the TUI drives the running daemon.")
	local := fs.Bool("local", false, "Run a private desktop in this process instead of using the daemon")
	path := fs.String("path", "", "Config file path for --local (default: ~/.config/deskshell/config.yaml)")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	var backend tui.Backend
	if *local {
		res, err := loadConfig(*path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		cfg := res.Config
		viewport := platform.ResolveViewport(cfg, platform.NewScreen(cfg), nil)
		backend = tui.Local{Desk: desktop.New(daemon.DesktopOptions(cfg, viewport, nil))}
	} else {
		client := ipc.NewClient()
		if err := client.Ping(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			fmt.Fprintln(os.Stderr, "Start it with 'deskshell daemon' or use 'deskshell tui --local'.")
			return 1
		}
		backend = tui.Remote{Client: client}
	}

	if err := tui.Run(backend); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
