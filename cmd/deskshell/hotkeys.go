package main

import (
	"context"
	"log/slog"
	"os"
	"os/exec"

	"github.com/1broseidon/deskshell/internal/config"
	"github.com/1broseidon/deskshell/internal/desktop"
	"github.com/1broseidon/deskshell/internal/geometry"
	"github.com/1broseidon/deskshell/internal/hotkeys"
	"github.com/1broseidon/deskshell/internal/x11"
)

// startHotkeys grabs the configured global hotkeys and dispatches them until
// ctx is cancelled. It does nothing when no hotkey is configured.
func startHotkeys(ctx context.Context, cfg *config.Config, desk *desktop.Desktop, logger *slog.Logger) {
	if cfg.MenuHotkey == "" && cfg.ArrangeHotkey == "" {
		return
	}

	display, xauth := x11.ResolveDisplay(cfg.Display, cfg.XAuthority)
	conn, err := x11.NewConnection(display, xauth)
	if err != nil {
		logger.Warn("hotkeys disabled: failed to connect to display", "error", err)
		return
	}

	h := hotkeys.NewHandler(conn, logger)

	if err := h.Bind(cfg.MenuHotkey, func() { launchMenu(logger) }); err != nil {
		logger.Warn("failed to register menu hotkey", "error", err)
	}

	if err := h.Bind(cfg.ArrangeHotkey, func() {
		mode, err := geometry.ParseArrangeMode(cfg.Arrange.DefaultMode)
		if err != nil {
			mode = geometry.ArrangeCascade
		}
		if _, err := desk.Arrange(mode); err != nil {
			logger.Warn("arrange hotkey failed", "error", err)
		}
	}); err != nil {
		logger.Warn("failed to register arrange hotkey", "error", err)
	}

	if len(h.Bound()) == 0 {
		conn.Close()
		return
	}
	logger.Info("hotkeys registered", "sequences", h.Bound())

	go func() {
		defer conn.Close()
		h.Run(ctx)
	}()
}

// launchMenu runs "deskshell menu" detached so the event loop keeps going
// while the palette is open.
func launchMenu(logger *slog.Logger) {
	exe, err := os.Executable()
	if err != nil {
		logger.Warn("menu hotkey: failed to find executable", "error", err)
		return
	}
	cmd := exec.Command(exe, "menu")
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		logger.Warn("menu hotkey: failed to launch menu", "error", err)
		return
	}
	go cmd.Wait()
}
