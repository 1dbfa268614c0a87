package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/1broseidon/deskshell/internal/config"
	"github.com/1broseidon/deskshell/internal/daemon"
	"github.com/1broseidon/deskshell/internal/desktop"
	"github.com/1broseidon/deskshell/internal/ipc"
	"github.com/1broseidon/deskshell/internal/platform"
	"github.com/1broseidon/deskshell/internal/runtimepath"
	"github.com/1broseidon/deskshell/internal/session"
)

func runDaemon() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := newLogger(cfg)

	viewport := platform.ResolveViewport(cfg, platform.NewScreen(cfg), logger)
	desk := desktop.New(daemon.DesktopOptions(cfg, viewport, logger))
	logger.Info("desktop created",
		"viewport", viewport.String(),
		"applets", len(cfg.AppletKinds()),
		"match_by", cfg.Activation.MatchBy,
		"duplicates", cfg.Registry.Duplicates)

	sessionDir, err := cfg.GetSessionDir()
	if err != nil {
		log.Fatalf("Failed to resolve session directory: %v", err)
	}
	sessions := session.NewStore(sessionDir)

	// Restore the layout left by the previous daemon lifecycle.
	var stateSync *daemon.StateSynchronizer
	if statePath, err := runtimepath.StatePath(); err != nil {
		logger.Warn("state file disabled", "error", err)
	} else {
		stateSync = daemon.NewStateSynchronizer(statePath, logger)
		if res, err := stateSync.Restore(desk); err != nil {
			logger.Warn("failed to restore previous desktop", "path", statePath, "error", err)
		} else if len(res.Opened) > 0 {
			logger.Info("previous desktop restored", "windows", len(res.Opened))
		}
	}

	reloadChan := make(chan struct{}, 1)

	ipcServer, err := ipc.NewServer(cfg, desk, sessions, reloadChan, logger)
	if err != nil {
		log.Fatalf("Failed to create IPC server: %v", err)
	}
	if err := ipcServer.Start(); err != nil {
		log.Fatalf("Failed to start IPC server: %v", err)
	}
	defer ipcServer.Stop()

	reconciler := daemon.NewReconciler(daemon.ReconcilerConfig{
		Interval: time.Duration(cfg.ReconcileInterval()) * time.Second,
		Logger:   logger,
	}, desk, stateSync)
	reconciler.ReconcileNow()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go reconciler.Run(ctx)
	if stateSync != nil {
		go stateSync.Watch(ctx, desk.Registry(), desk)
	}

	startHotkeys(ctx, cfg, desk, logger)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	logger.Info("deskshell daemon started", "socket", ipcServer.SocketPath())

	for {
		select {
		case sig := <-sigCh:
			switch sig {
			case syscall.SIGHUP:
				logger.Info("received SIGHUP, reloading config")
				newCfg, err := config.Load()
				if err != nil {
					logger.Error("config reload failed", "error", err)
					continue
				}
				ipcServer.UpdateConfig(newCfg)
				applyConfig(desk, newCfg, logger)

			case os.Interrupt, syscall.SIGTERM:
				logger.Info("shutting down deskshell daemon")
				cancel()
				if stateSync != nil {
					if _, err := stateSync.Sync(desk); err != nil {
						logger.Warn("failed to save desktop state", "error", err)
					}
				}
				return
			}

		case <-reloadChan:
			// Config was reloaded via IPC.
			applyConfig(desk, ipcServer.GetConfig(), logger)
		}
	}
}

// applyConfig pushes the parts of a reloaded config that can change at
// runtime into the desktop. Duplicate policy and match mode are fixed for
// the lifetime of the daemon.
func applyConfig(desk *desktop.Desktop, cfg *config.Config, logger *slog.Logger) {
	desk.SetApplets(daemon.Applets(cfg))
	if !cfg.Viewport.Auto {
		desk.SetViewport(daemon.Viewport(cfg))
	}
	logger.Info("config reloaded", "applets", len(cfg.AppletKinds()), "viewport", desk.Viewport().String())
}
