// Package session saves and restores desktop window layouts.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/1broseidon/deskshell/internal/desktop"
	"github.com/1broseidon/deskshell/internal/geometry"
)

// Layout is a persisted snapshot of the open windows.
type Layout struct {
	Name     string        `json:"name"`
	SavedAt  time.Time     `json:"saved_at"`
	Viewport geometry.Rect `json:"viewport"`
	// Windows are stored bottom to top so re-opening them in order restores
	// the stacking.
	Windows []WindowState `json:"windows"`
}

// WindowState is one saved window.
type WindowState struct {
	Title     string          `json:"title"`
	Kind      string          `json:"kind,omitempty"`
	Type      string          `json:"type,omitempty"`
	Icon      string          `json:"icon,omitempty"`
	Rect      geometry.Rect   `json:"rect"`
	Bounds    geometry.Bounds `json:"bounds"`
	Minimized bool            `json:"minimized,omitempty"`
	Maximized bool            `json:"maximized,omitempty"`
}

// Desktop is the part of the desktop engine sessions read and drive.
type Desktop interface {
	Snapshotter
	Open(req desktop.OpenRequest) (desktop.WindowInfo, error)
	Minimize(title string) (desktop.WindowInfo, error)
	ToggleMaximize(title string) (desktop.WindowInfo, error)
	CloseAll() int
}

// Snapshotter is the read side of a desktop.
type Snapshotter interface {
	Snapshot() desktop.Snapshot
}

// Capture records the current desktop as a layout called name.
func Capture(name string, d Snapshotter) *Layout {
	snap := d.Snapshot()
	layout := &Layout{
		Name:     name,
		SavedAt:  time.Now().UTC(),
		Viewport: snap.Viewport,
		Windows:  make([]WindowState, 0, len(snap.Windows)),
	}
	for _, w := range snap.Windows {
		layout.Windows = append(layout.Windows, WindowState{
			Title:     w.Title,
			Kind:      w.Kind,
			Type:      w.Type,
			Icon:      w.Icon,
			Rect:      w.Normal,
			Bounds:    w.Bounds,
			Minimized: w.Minimized,
			Maximized: w.Maximized,
		})
	}
	return layout
}

// RestoreOptions controls Restore.
type RestoreOptions struct {
	// NoReplace keeps the windows already open. Saved windows whose title is
	// taken are skipped.
	NoReplace bool
}

// RestoreResult reports what Restore did.
type RestoreResult struct {
	Closed  int      `json:"closed"`
	Opened  []string `json:"opened"`
	Skipped []string `json:"skipped,omitempty"`
}

// Restore re-opens the windows of layout on d.
func Restore(d Desktop, layout *Layout, opts RestoreOptions) (RestoreResult, error) {
	var res RestoreResult
	if layout == nil {
		return res, fmt.Errorf("session is nil")
	}
	taken := make(map[string]bool)
	if opts.NoReplace {
		for _, w := range d.Snapshot().Windows {
			taken[w.Title] = true
		}
	} else {
		res.Closed = d.CloseAll()
	}

	for _, ws := range layout.Windows {
		// The desktop may rename a clashing title instead of refusing it.
		if taken[ws.Title] {
			res.Skipped = append(res.Skipped, ws.Title)
			continue
		}
		pos := ws.Rect.Origin()
		bounds := ws.Bounds
		info, err := d.Open(desktop.OpenRequest{
			Title:    ws.Title,
			Kind:     ws.Kind,
			Type:     ws.Type,
			Icon:     ws.Icon,
			Position: &pos,
			Size:     ws.Rect.Size(),
			Bounds:   &bounds,
		})
		if errors.Is(err, desktop.ErrDuplicateTitle) {
			res.Skipped = append(res.Skipped, ws.Title)
			continue
		}
		if err != nil {
			return res, fmt.Errorf("failed to open %q: %w", ws.Title, err)
		}
		if ws.Maximized {
			if _, err := d.ToggleMaximize(info.Title); err != nil {
				return res, err
			}
		}
		if ws.Minimized {
			if _, err := d.Minimize(info.Title); err != nil {
				return res, err
			}
		}
		res.Opened = append(res.Opened, info.Title)
	}
	return res, nil
}
