// Package window implements a single floating desktop window: its geometry,
// pointer-driven drag and resize, minimize/maximize/close lifecycle, z-order
// participation and handling of addressed activation messages.
//
// A Window is not safe for concurrent use. The desktop serializes every call,
// which reproduces the one-event-at-a-time model of a UI thread.
package window

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/1broseidon/deskshell/internal/bus"
	"github.com/1broseidon/deskshell/internal/geometry"
	"github.com/1broseidon/deskshell/internal/registry"
)

// ProcessTable is the part of the process registry a window writes to.
type ProcessTable interface {
	Add(name, icon, windowType string)
	Remove(name string) int
	UpdateState(name string, state registry.State) bool
}

// Subscriber is the part of the activation bus a window listens on.
type Subscriber interface {
	Subscribe(l bus.Listener) (unsubscribe func())
}

// ZAllocator hands out stacking ranks.
type ZAllocator interface {
	Next() int
}

// SelectionLocker disables text selection while a gesture is in progress.
type SelectionLocker interface {
	DisableSelection()
	EnableSelection()
}

type nopSelection struct{}

func (nopSelection) DisableSelection() {}
func (nopSelection) EnableSelection()  {}

// Options configures a new window.
type Options struct {
	Title    string
	Type     string
	Icon     string
	Position geometry.Point
	Size     geometry.Size
	Bounds   geometry.Bounds
	Viewport geometry.Rect
	MatchBy  bus.MatchMode

	Processes ProcessTable
	Bus       Subscriber
	ZOrder    ZAllocator
	Selection SelectionLocker

	// OnClose runs after the window has closed and unmounted. Removing the
	// window from its host is the callback's job.
	OnClose func(w *Window)
	Logger  *slog.Logger
}

// Geometry is the window's local state.
type Geometry struct {
	Position  geometry.Point `json:"position"`
	Size      geometry.Size  `json:"size"`
	Minimized bool           `json:"minimized"`
	Maximized bool           `json:"maximized"`
	ZIndex    int            `json:"z_index"`
}

// Mode is the pointer gesture a window is tracking.
type Mode int

const (
	ModeIdle Mode = iota
	ModeDragging
	ModeResizing
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeDragging:
		return "dragging"
	case ModeResizing:
		return "resizing"
	default:
		return "unknown"
	}
}

// Window is one floating panel.
type Window struct {
	id       string
	title    string
	typ      string
	icon     string
	matchBy  bus.MatchMode
	bounds   geometry.Bounds
	rawBound geometry.Bounds
	viewport geometry.Rect

	rect      geometry.Rect
	minimized bool
	maximized bool
	z         int

	mode        Mode
	dragOffset  geometry.Point
	resizeEdge  geometry.Edge
	resizeFrom  geometry.Point
	resizeStart geometry.Rect

	processes ProcessTable
	bus       Subscriber
	zorder    ZAllocator
	selection SelectionLocker
	onClose   func(*Window)
	logger    *slog.Logger

	mounted     bool
	closed      bool
	unsubscribe func()
}

// New creates a window from opts. The initial size is clamped to the bounds
// and the rectangle is clamped into the viewport. The window is not mounted.
func New(opts Options) *Window {
	w := &Window{
		id:        uuid.NewString(),
		title:     opts.Title,
		typ:       opts.Type,
		icon:      opts.Icon,
		matchBy:   opts.MatchBy,
		rawBound:  opts.Bounds,
		viewport:  opts.Viewport,
		processes: opts.Processes,
		bus:       opts.Bus,
		zorder:    opts.ZOrder,
		selection: opts.Selection,
		onClose:   opts.OnClose,
		logger:    opts.Logger,
	}
	if w.matchBy == "" {
		w.matchBy = bus.MatchEither
	}
	if w.selection == nil {
		w.selection = nopSelection{}
	}
	if w.logger == nil {
		w.logger = slog.New(slog.DiscardHandler)
	}
	w.bounds = opts.Bounds.Normalize(opts.Viewport)
	size := w.bounds.ClampSize(opts.Size)
	w.rect = geometry.ClampInto(geometry.Rect{
		X:      opts.Position.X,
		Y:      opts.Position.Y,
		Width:  size.Width,
		Height: size.Height,
	}, opts.Viewport)
	return w
}

// ID returns the window's unique instance identifier.
func (w *Window) ID() string { return w.id }

// Title returns the window title, which is also its process name.
func (w *Window) Title() string { return w.title }

// Type returns the optional window type.
func (w *Window) Type() string { return w.typ }

// Icon returns the opaque icon reference.
func (w *Window) Icon() string { return w.icon }

// Bounds returns the effective size bounds.
func (w *Window) Bounds() geometry.Bounds { return w.bounds }

// Mode returns the gesture being tracked.
func (w *Window) Mode() Mode { return w.mode }

// Mounted reports whether the window is registered with the desktop.
func (w *Window) Mounted() bool { return w.mounted }

// Closed reports whether Close has run.
func (w *Window) Closed() bool { return w.closed }

// Minimized reports whether the window is hidden.
func (w *Window) Minimized() bool { return w.minimized }

// Maximized reports whether the window fills the viewport.
func (w *Window) Maximized() bool { return w.maximized }

// ZIndex returns the window's stacking rank.
func (w *Window) ZIndex() int { return w.z }

// Geometry returns the window's local state. Position and size are the
// normal rectangle even while maximized.
func (w *Window) Geometry() Geometry {
	return Geometry{
		Position:  w.rect.Origin(),
		Size:      w.rect.Size(),
		Minimized: w.minimized,
		Maximized: w.maximized,
		ZIndex:    w.z,
	}
}

// Rect returns the rectangle the window occupies on screen.
func (w *Window) Rect() geometry.Rect {
	if w.maximized {
		return w.viewport
	}
	return w.rect
}

// NormalRect returns the un-maximized rectangle.
func (w *Window) NormalRect() geometry.Rect { return w.rect }

// State returns the process state matching the window's flags.
func (w *Window) State() registry.State {
	switch {
	case w.closed:
		return registry.StateClose
	case w.minimized:
		return registry.StateMinimize
	case w.maximized:
		return registry.StateMaximize
	default:
		return registry.StateNormal
	}
}

// Mount registers the window's process record and starts listening for
// activation messages. Calling Mount on a mounted or closed window does nothing.
func (w *Window) Mount() {
	if w.mounted || w.closed {
		return
	}
	if w.processes != nil {
		w.processes.Add(w.title, w.icon, w.typ)
	}
	if w.bus != nil {
		w.unsubscribe = w.bus.Subscribe(w)
	}
	w.mounted = true
	w.logger.Debug("window mounted", "title", w.title, "id", w.id)
}

// Unmount stops listening for messages and removes the process record.
// Calling it more than once is harmless.
func (w *Window) Unmount() {
	if !w.mounted {
		return
	}
	w.mounted = false
	if w.unsubscribe != nil {
		w.unsubscribe()
		w.unsubscribe = nil
	}
	if w.processes != nil {
		w.processes.Remove(w.title)
	}
	w.logger.Debug("window unmounted", "title", w.title, "id", w.id)
}

// RaiseToFront assigns the next z value to the window.
func (w *Window) RaiseToFront() {
	if w.zorder == nil {
		return
	}
	w.z = w.zorder.Next()
}

// Minimize hides the window.
func (w *Window) Minimize() {
	if w.closed {
		return
	}
	w.cancelGesture()
	w.minimized = true
	w.push(registry.StateMinimize)
	w.logger.Debug("window minimized", "title", w.title)
}

// ToggleMaximize flips between the maximized and normal rectangles. The
// normal rectangle is kept untouched while maximized.
func (w *Window) ToggleMaximize() {
	if w.closed {
		return
	}
	w.cancelGesture()
	w.maximized = !w.maximized
	if w.maximized {
		w.push(registry.StateMaximize)
	} else {
		w.push(registry.StateNormal)
	}
	w.logger.Debug("window maximize toggled", "title", w.title, "maximized", w.maximized)
}

// Close publishes the close state, unmounts the window and runs OnClose.
func (w *Window) Close() {
	if w.closed {
		return
	}
	w.cancelGesture()
	w.push(registry.StateClose)
	w.Unmount()
	w.closed = true
	w.logger.Debug("window closed", "title", w.title)
	if w.onClose != nil {
		w.onClose(w)
	}
}

// OnMessage implements bus.Listener. It reports whether the message was
// addressed to this window.
func (w *Window) OnMessage(msg bus.Message) bool {
	if w.closed || !msg.Matches(w.matchBy, w.title, w.typ) {
		return false
	}
	switch msg.Kind {
	case bus.KindRestore:
		if w.minimized {
			w.minimized = false
			if w.maximized {
				w.push(registry.StateMaximize)
			} else {
				w.push(registry.StateNormal)
			}
		}
		w.RaiseToFront()
	case bus.KindBringToFront:
		w.RaiseToFront()
	default:
		return false
	}
	w.logger.Debug("activation handled", "title", w.title, "kind", msg.Kind, "z", w.z)
	return true
}

// SetViewport changes the viewport and re-clamps the window into it.
func (w *Window) SetViewport(viewport geometry.Rect) {
	w.viewport = viewport
	w.bounds = w.rawBound.Normalize(viewport)
	size := w.bounds.ClampSize(w.rect.Size())
	w.rect = geometry.ClampInto(geometry.Rect{
		X:      w.rect.X,
		Y:      w.rect.Y,
		Width:  size.Width,
		Height: size.Height,
	}, viewport)
	if w.mode == ModeResizing {
		w.resizeStart = w.rect
	}
}

// SetRect places the normal rectangle directly, subject to the same bounds
// and viewport clamping as a gesture. It is used by arrange and session restore.
func (w *Window) SetRect(r geometry.Rect) {
	size := w.bounds.ClampSize(r.Size())
	w.rect = geometry.ClampInto(geometry.Rect{X: r.X, Y: r.Y, Width: size.Width, Height: size.Height}, w.viewport)
}

func (w *Window) push(state registry.State) {
	if w.processes == nil || !w.mounted {
		return
	}
	w.processes.UpdateState(w.title, state)
}
