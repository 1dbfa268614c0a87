package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/1broseidon/deskshell/internal/registry"
)

// Desktop is the part of the desktop engine the reconciler maintains.
type Desktop interface {
	Snapshotter
	Prune() (orphans []registry.Record, duplicates int)
}

// ReconcilerConfig holds configuration for the reconciler.
type ReconcilerConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// Reconciler periodically checks for state drift and corrects it.
type Reconciler struct {
	interval time.Duration
	desk     Desktop
	sync     *StateSynchronizer
	logger   *slog.Logger
}

// NewReconciler creates a new reconciler with the given configuration.
// sync may be nil, in which case nothing is persisted between passes.
func NewReconciler(cfg ReconcilerConfig, desk Desktop, sync *StateSynchronizer) *Reconciler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Reconciler{
		interval: interval,
		desk:     desk,
		sync:     sync,
		logger:   logger,
	}
}

// Run starts the reconciliation loop. Blocks until context is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("reconciler started", "interval", r.interval)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reconciler stopped")
			return
		case <-ticker.C:
			r.reconcile()
		}
	}
}

// reconcile performs a single reconciliation pass.
func (r *Reconciler) reconcile() {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			r.logger.Error("reconciler panic recovered", "error", err)
		}
	}()

	orphans, duplicates := r.desk.Prune()
	for _, rec := range orphans {
		r.logger.Info("reconciler: orphaned process record removed",
			"name", rec.Name,
			"state", rec.State)
	}
	if duplicates > 0 {
		r.logger.Info("reconciler: duplicate process records collapsed", "count", duplicates)
	}

	if r.sync == nil {
		return
	}
	if _, err := r.sync.Sync(r.desk); err != nil {
		r.logger.Warn("reconciler: failed to persist desktop state", "error", err)
	}
}

// ReconcileNow triggers an immediate reconciliation pass.
func (r *Reconciler) ReconcileNow() {
	r.reconcile()
}
