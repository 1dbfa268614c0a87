// Package desktop composes windows, the process registry, the taskbar, the
// activation bus and the z-order allocator into one desktop bound to a
// viewport.
//
// All methods are safe for concurrent use. Calls are serialized by a single
// mutex so windows observe one event at a time.
package desktop

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/1broseidon/deskshell/internal/bus"
	"github.com/1broseidon/deskshell/internal/geometry"
	"github.com/1broseidon/deskshell/internal/registry"
	"github.com/1broseidon/deskshell/internal/taskbar"
	"github.com/1broseidon/deskshell/internal/window"
	"github.com/1broseidon/deskshell/internal/zorder"
)

var (
	// ErrWindowNotFound is returned when no open window has the given title.
	ErrWindowNotFound = errors.New("window not found")
	// ErrProcessNotFound is returned when the taskbar has no record with the given name.
	ErrProcessNotFound = errors.New("process not found")
	// ErrDuplicateTitle is returned when a window with the same title is already open.
	ErrDuplicateTitle = errors.New("window title already in use")
	// ErrUnknownApplet is returned by Launch for a kind missing from the catalog.
	ErrUnknownApplet = errors.New("unknown applet")
	// ErrGestureRefused is returned when a window will not start a drag or resize.
	ErrGestureRefused = errors.New("gesture refused")
)

const cascadeStep = 24

// Options configures a desktop.
type Options struct {
	Viewport   geometry.Rect
	Duplicates registry.DuplicatePolicy
	MatchBy    bus.MatchMode

	DefaultSize    geometry.Size
	DefaultBounds  geometry.Bounds
	TitleBarHeight int
	Border         int
	ArrangeGap     int

	Applets []Applet
	Logger  *slog.Logger
}

// OpenRequest describes a window to open. A nil Position places the window
// on the cascade diagonal; zero Size and nil Bounds use the desktop defaults.
type OpenRequest struct {
	Title    string           `json:"title"`
	Kind     string           `json:"kind,omitempty"`
	Type     string           `json:"type,omitempty"`
	Icon     string           `json:"icon,omitempty"`
	Position *geometry.Point  `json:"position,omitempty"`
	Size     geometry.Size    `json:"size,omitempty"`
	Bounds   *geometry.Bounds `json:"bounds,omitempty"`
}

// WindowInfo is a read-only view of one window.
type WindowInfo struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Kind      string          `json:"kind,omitempty"`
	Type      string          `json:"type,omitempty"`
	Icon      string          `json:"icon,omitempty"`
	Rect      geometry.Rect   `json:"rect"`
	Normal    geometry.Rect   `json:"normal"`
	Bounds    geometry.Bounds `json:"bounds"`
	Minimized bool            `json:"minimized"`
	Maximized bool            `json:"maximized"`
	ZIndex    int             `json:"z_index"`
	State     registry.State  `json:"state"`
	Mode      string          `json:"mode"`
}

// Snapshot is the whole desktop at one instant. Windows are ordered bottom
// to top.
type Snapshot struct {
	Viewport          geometry.Rect     `json:"viewport"`
	Windows           []WindowInfo      `json:"windows"`
	Processes         []registry.Record `json:"processes"`
	Taskbar           []taskbar.Button  `json:"taskbar"`
	SelectionDisabled bool              `json:"selection_disabled"`
	TitleBarHeight    int               `json:"title_bar_height"`
	Border            int               `json:"border"`
}

// Hit describes what PointerDown did.
type Hit struct {
	Title  string        `json:"title"`
	Action string        `json:"action"`
	Edge   geometry.Edge `json:"edge,omitempty"`
}

// Hit actions.
const (
	ActionDrag   = "drag"
	ActionResize = "resize"
	ActionRaise  = "raise"
)

type entry struct {
	win  *window.Window
	kind string
}

// Desktop hosts a set of windows.
type Desktop struct {
	mu sync.Mutex

	opts      Options
	logger    *slog.Logger
	processes *registry.Registry
	bus       *bus.Bus
	zorder    *zorder.Allocator
	taskbar   *taskbar.Taskbar
	selection *selectionLock

	entries []*entry
	active  *entry
	opened  int
}

// New creates an empty desktop.
func New(opts Options) *Desktop {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.MatchBy == "" {
		opts.MatchBy = bus.MatchEither
	}
	if opts.Duplicates == "" {
		opts.Duplicates = registry.DuplicatesUpsert
	}
	procs := registry.New(opts.Duplicates)
	b := bus.New()
	return &Desktop{
		opts:      opts,
		logger:    opts.Logger,
		processes: procs,
		bus:       b,
		zorder:    zorder.NewAllocator(0),
		taskbar:   taskbar.New(procs, b, opts.Logger),
		selection: &selectionLock{},
	}
}

// Registry exposes the process registry for observers and maintenance.
// Observers run while the desktop is locked and must not call back into it.
func (d *Desktop) Registry() *registry.Registry { return d.processes }

// Viewport returns the current viewport.
func (d *Desktop) Viewport() geometry.Rect {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.opts.Viewport
}

// Open creates, mounts and raises a window.
func (d *Desktop) Open(req OpenRequest) (WindowInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	e, err := d.openLocked(req)
	if err != nil {
		return WindowInfo{}, err
	}
	return infoFor(e), nil
}

func (d *Desktop) openLocked(req OpenRequest) (*entry, error) {
	if req.Title == "" {
		return nil, fmt.Errorf("window title is required")
	}
	title, err := d.uniqueTitleLocked(req.Title)
	if err != nil {
		return nil, err
	}

	size := req.Size
	if size.Width <= 0 {
		size.Width = d.opts.DefaultSize.Width
	}
	if size.Height <= 0 {
		size.Height = d.opts.DefaultSize.Height
	}
	bounds := d.opts.DefaultBounds
	if req.Bounds != nil {
		bounds = *req.Bounds
	}
	var pos geometry.Point
	if req.Position != nil {
		pos = *req.Position
	} else {
		step := cascadeStep * (d.opened % 10)
		pos = geometry.Point{X: d.opts.Viewport.X + cascadeStep + step, Y: d.opts.Viewport.Y + cascadeStep + step}
	}

	e := &entry{kind: req.Kind}
	e.win = window.New(window.Options{
		Title:     title,
		Type:      req.Type,
		Icon:      req.Icon,
		Position:  pos,
		Size:      size,
		Bounds:    bounds,
		Viewport:  d.opts.Viewport,
		MatchBy:   d.opts.MatchBy,
		Processes: d.processes,
		Bus:       d.bus,
		ZOrder:    d.zorder,
		Selection: d.selection,
		OnClose:   d.forget,
		Logger:    d.logger,
	})
	e.win.Mount()
	e.win.RaiseToFront()
	d.entries = append(d.entries, e)
	d.opened++
	d.logger.Info("window opened", "title", title, "kind", req.Kind, "rect", e.win.Rect().String())
	return e, nil
}

func (d *Desktop) uniqueTitleLocked(title string) (string, error) {
	if d.findLocked(title) == nil {
		return title, nil
	}
	if d.opts.Duplicates != registry.DuplicatesAppend {
		return "", fmt.Errorf("%w: %q", ErrDuplicateTitle, title)
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s (%d)", title, n)
		if d.findLocked(candidate) == nil {
			return candidate, nil
		}
	}
}

// forget runs as the window's OnClose callback, with d.mu already held.
func (d *Desktop) forget(w *window.Window) {
	for i, e := range d.entries {
		if e.win == w {
			d.entries = append(d.entries[:i], d.entries[i+1:]...)
			break
		}
	}
	if d.active != nil && d.active.win == w {
		d.active = nil
	}
	d.logger.Info("window closed", "title", w.Title())
}

func (d *Desktop) findLocked(title string) *entry {
	for _, e := range d.entries {
		if e.win.Title() == title {
			return e
		}
	}
	return nil
}

func (d *Desktop) lookupLocked(title string) (*entry, error) {
	e := d.findLocked(title)
	if e == nil {
		return nil, fmt.Errorf("%w: %q", ErrWindowNotFound, title)
	}
	return e, nil
}

// do runs fn on the window with the given title and returns its new state.
func (d *Desktop) do(title string, fn func(w *window.Window)) (WindowInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	e, err := d.lookupLocked(title)
	if err != nil {
		return WindowInfo{}, err
	}
	fn(e.win)
	return infoFor(e), nil
}

// Close closes the window with the given title.
func (d *Desktop) Close(title string) error {
	_, err := d.do(title, (*window.Window).Close)
	return err
}

// Minimize hides the window with the given title.
func (d *Desktop) Minimize(title string) (WindowInfo, error) {
	return d.do(title, (*window.Window).Minimize)
}

// ToggleMaximize maximizes or restores the window with the given title.
func (d *Desktop) ToggleMaximize(title string) (WindowInfo, error) {
	return d.do(title, (*window.Window).ToggleMaximize)
}

// Raise brings the window with the given title to the front.
func (d *Desktop) Raise(title string) (WindowInfo, error) {
	return d.do(title, (*window.Window).RaiseToFront)
}

// Click activates a process as if its taskbar button was pressed. It
// returns how many windows answered the activation.
func (d *Desktop) Click(name string) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	handled, ok := d.taskbar.ClickName(name)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrProcessNotFound, name)
	}
	return handled, nil
}

// Window returns the window with the given title.
func (d *Desktop) Window(title string) (WindowInfo, error) {
	return d.do(title, func(*window.Window) {})
}

// Windows returns every open window, bottom to top.
func (d *Desktop) Windows() []WindowInfo {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.windowsLocked()
}

func (d *Desktop) windowsLocked() []WindowInfo {
	out := make([]WindowInfo, 0, len(d.entries))
	for _, e := range d.stackLocked() {
		out = append(out, infoFor(e))
	}
	return out
}

// stackLocked returns the entries ordered bottom to top.
func (d *Desktop) stackLocked() []*entry {
	stack := make([]*entry, len(d.entries))
	copy(stack, d.entries)
	sort.SliceStable(stack, func(i, j int) bool {
		return stack[i].win.ZIndex() < stack[j].win.ZIndex()
	})
	return stack
}

// Processes returns the process registry contents.
func (d *Desktop) Processes() []registry.Record {
	return d.processes.List()
}

// Buttons returns the taskbar buttons.
func (d *Desktop) Buttons() []taskbar.Button {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.taskbar.Buttons()
}

// Snapshot returns the full desktop state.
func (d *Desktop) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return Snapshot{
		Viewport:          d.opts.Viewport,
		Windows:           d.windowsLocked(),
		Processes:         d.processes.List(),
		Taskbar:           d.taskbar.Buttons(),
		SelectionDisabled: d.selection.Disabled(),
		TitleBarHeight:    d.opts.TitleBarHeight,
		Border:            d.opts.Border,
	}
}

// SelectionDisabled reports whether a gesture currently holds the text
// selection lock.
func (d *Desktop) SelectionDisabled() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.selection.Disabled()
}

// SetViewport changes the viewport and re-clamps every window into it.
func (d *Desktop) SetViewport(viewport geometry.Rect) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.opts.Viewport = viewport
	for _, e := range d.entries {
		e.win.SetViewport(viewport)
	}
	d.logger.Info("viewport changed", "viewport", viewport.String())
}

// Prune removes process records that no open window owns and, under the
// upsert policy, collapses duplicate records. It returns the dropped
// orphans and the number of duplicates removed.
func (d *Desktop) Prune() (orphans []registry.Record, duplicates int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	names := make(map[string]bool, len(d.entries))
	for _, e := range d.entries {
		if e.win.Mounted() {
			names[e.win.Title()] = true
		}
	}
	orphans = d.processes.Retain(names)
	if d.processes.Policy() == registry.DuplicatesUpsert {
		duplicates = d.processes.Dedupe()
	}
	return orphans, duplicates
}

// CloseAll closes every window.
func (d *Desktop) CloseAll() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	entries := make([]*entry, len(d.entries))
	copy(entries, d.entries)
	for _, e := range entries {
		e.win.Close()
	}
	return len(entries)
}

func infoFor(e *entry) WindowInfo {
	w := e.win
	return WindowInfo{
		ID:        w.ID(),
		Title:     w.Title(),
		Kind:      e.kind,
		Type:      w.Type(),
		Icon:      w.Icon(),
		Rect:      w.Rect(),
		Normal:    w.NormalRect(),
		Bounds:    w.Bounds(),
		Minimized: w.Minimized(),
		Maximized: w.Maximized(),
		ZIndex:    w.ZIndex(),
		State:     w.State(),
		Mode:      w.Mode().String(),
	}
}

// selectionLock counts nested DisableSelection calls.
type selectionLock struct {
	depth int
}

func (s *selectionLock) DisableSelection() { s.depth++ }

func (s *selectionLock) EnableSelection() {
	if s.depth > 0 {
		s.depth--
	}
}

func (s *selectionLock) Disabled() bool { return s.depth > 0 }
