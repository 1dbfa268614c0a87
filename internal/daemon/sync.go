package daemon

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/1broseidon/deskshell/internal/geometry"
	"github.com/1broseidon/deskshell/internal/registry"
	"github.com/1broseidon/deskshell/internal/session"
)

// Snapshotter is the part of the desktop the synchronizer captures.
type Snapshotter = session.Snapshotter

// Observable is a process list that reports its changes.
type Observable interface {
	Subscribe(fn registry.Observer) (unsubscribe func())
}

// StateSynchronizer keeps a copy of the desktop layout on disk so a
// restarted daemon comes back with the same windows.
type StateSynchronizer struct {
	path   string
	logger *slog.Logger

	mu   sync.Mutex
	last []byte
}

// NewStateSynchronizer creates a synchronizer writing to path.
func NewStateSynchronizer(path string, logger *slog.Logger) *StateSynchronizer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &StateSynchronizer{
		path:   path,
		logger: logger,
	}
}

// Path returns the state file location.
func (s *StateSynchronizer) Path() string { return s.path }

// Sync writes the current layout when it differs from the last one written
// and reports whether a write happened.
func (s *StateSynchronizer) Sync(d Snapshotter) (bool, error) {
	layout := session.Capture("state", d)
	key, err := fingerprint(layout)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last != nil && bytes.Equal(s.last, key) {
		return false, nil
	}
	if err := session.WriteFile(s.path, layout); err != nil {
		return false, err
	}
	s.last = key
	s.logger.Debug("desktop state saved", "path", s.path, "windows", len(layout.Windows))
	return true, nil
}

// Restore re-opens the windows recorded in the state file. A missing file
// is not an error and restores nothing.
func (s *StateSynchronizer) Restore(d session.Desktop) (session.RestoreResult, error) {
	layout, err := session.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return session.RestoreResult{}, nil
		}
		return session.RestoreResult{}, fmt.Errorf("read desktop state: %w", err)
	}

	res, err := session.Restore(d, layout, session.RestoreOptions{NoReplace: true})
	if err != nil {
		return res, fmt.Errorf("restore desktop state: %w", err)
	}
	if key, err := fingerprint(layout); err == nil {
		s.mu.Lock()
		s.last = key
		s.mu.Unlock()
	}
	s.logger.Info("desktop state restored",
		"path", s.path,
		"opened", len(res.Opened),
		"skipped", len(res.Skipped))
	return res, nil
}

// Watch saves the layout of d every time the process list changes, until ctx
// is cancelled. Geometry-only changes are left to the reconciler's passes.
func (s *StateSynchronizer) Watch(ctx context.Context, processes Observable, d Snapshotter) {
	changed := make(chan struct{}, 1)
	unsubscribe := processes.Subscribe(func([]registry.Record) {
		// Observers run under the desktop lock; never block here.
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case <-changed:
			if _, err := s.Sync(d); err != nil {
				s.logger.Warn("failed to persist desktop state", "error", err)
			}
		}
	}
}

// Clear removes the state file.
func (s *StateSynchronizer) Clear() error {
	s.mu.Lock()
	s.last = nil
	s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// fingerprint ignores the save time so unchanged layouts compare equal.
func fingerprint(layout *session.Layout) ([]byte, error) {
	return json.Marshal(struct {
		Viewport geometry.Rect         `json:"viewport"`
		Windows  []session.WindowState `json:"windows"`
	}{layout.Viewport, layout.Windows})
}
