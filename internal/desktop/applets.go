package desktop

import (
	"fmt"

	"github.com/1broseidon/deskshell/internal/geometry"
	"github.com/1broseidon/deskshell/internal/registry"
)

// Applet is a start menu entry: a kind of window the desktop knows how to open.
type Applet struct {
	Kind   string          `json:"kind"`
	Title  string          `json:"title"`
	Icon   string          `json:"icon,omitempty"`
	Type   string          `json:"type,omitempty"`
	Size   geometry.Size   `json:"size"`
	Bounds geometry.Bounds `json:"bounds"`
}

// Applets returns the start menu catalog in configuration order.
func (d *Desktop) Applets() []Applet {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Applet, len(d.opts.Applets))
	copy(out, d.opts.Applets)
	return out
}

// SetApplets replaces the start menu catalog. Open windows are unaffected.
func (d *Desktop) SetApplets(applets []Applet) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.opts.Applets = append([]Applet(nil), applets...)
}

// Launch opens the applet of the given kind. When the applet is already open
// and duplicates are upserted, the existing window is activated through the
// taskbar instead, restoring it if minimized.
func (d *Desktop) Launch(kind string) (WindowInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var applet *Applet
	for i := range d.opts.Applets {
		if d.opts.Applets[i].Kind == kind {
			applet = &d.opts.Applets[i]
			break
		}
	}
	if applet == nil {
		return WindowInfo{}, fmt.Errorf("%w: %q", ErrUnknownApplet, kind)
	}

	if existing := d.findLocked(applet.Title); existing != nil && d.processes.Policy() != registry.DuplicatesAppend {
		d.taskbar.ClickName(applet.Title)
		return infoFor(existing), nil
	}

	req := OpenRequest{
		Title: applet.Title,
		Kind:  applet.Kind,
		Type:  applet.Type,
		Icon:  applet.Icon,
		Size:  applet.Size,
	}
	if applet.Bounds != (geometry.Bounds{}) {
		b := applet.Bounds
		req.Bounds = &b
	}
	e, err := d.openLocked(req)
	if err != nil {
		return WindowInfo{}, err
	}
	return infoFor(e), nil
}
