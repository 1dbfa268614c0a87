package window

import (
	"testing"

	"github.com/1broseidon/deskshell/internal/bus"
	"github.com/1broseidon/deskshell/internal/geometry"
	"github.com/1broseidon/deskshell/internal/registry"
	"github.com/1broseidon/deskshell/internal/zorder"
)

var viewport = geometry.Rect{Width: 1024, Height: 768}

type countingSelection struct {
	disabled int
}

func (c *countingSelection) DisableSelection() { c.disabled++ }
func (c *countingSelection) EnableSelection()  { c.disabled-- }

type fixture struct {
	reg  *registry.Registry
	bus  *bus.Bus
	z    *zorder.Allocator
	sel  *countingSelection
	opts Options
}

func newFixture() *fixture {
	f := &fixture{
		reg: registry.New(registry.DuplicatesUpsert),
		bus: bus.New(),
		z:   zorder.NewAllocator(0),
		sel: &countingSelection{},
	}
	f.opts = Options{
		Position:  geometry.Point{X: 100, Y: 100},
		Size:      geometry.Size{Width: 300, Height: 200},
		Bounds:    geometry.Bounds{MinWidth: 150, MinHeight: 100, MaxWidth: 800, MaxHeight: 600},
		Viewport:  viewport,
		Processes: f.reg,
		Bus:       f.bus,
		ZOrder:    f.z,
		Selection: f.sel,
	}
	return f
}

func (f *fixture) open(title, typ string) *Window {
	opts := f.opts
	opts.Title = title
	opts.Type = typ
	w := New(opts)
	w.Mount()
	return w
}

func TestNew_ClampsInitialGeometry(t *testing.T) {
	f := newFixture()
	f.opts.Title = "Big"
	f.opts.Position = geometry.Point{X: 2000, Y: -50}
	f.opts.Size = geometry.Size{Width: 5000, Height: 10}
	w := New(f.opts)

	r := w.Rect()
	if r.Width != 800 || r.Height != 100 {
		t.Fatalf("expected size clamped to 800x100, got %dx%d", r.Width, r.Height)
	}
	if !r.Within(viewport) {
		t.Fatalf("expected rect inside viewport, got %v", r)
	}
	if w.Mounted() {
		t.Fatalf("expected New not to mount")
	}
}

func TestMountUnmount_OwnsProcessRecord(t *testing.T) {
	f := newFixture()
	w := f.open("Notes", "")
	w.Mount()
	if f.reg.Len() != 1 || f.bus.Len() != 1 {
		t.Fatalf("expected one record and one listener, got %d/%d", f.reg.Len(), f.bus.Len())
	}

	w.Unmount()
	w.Unmount()
	if f.reg.Len() != 0 || f.bus.Len() != 0 {
		t.Fatalf("expected record and listener removed, got %d/%d", f.reg.Len(), f.bus.Len())
	}
}

func TestDrag_ClampsToViewport(t *testing.T) {
	f := newFixture()
	w := f.open("Notes", "")

	if !w.BeginDrag(geometry.Point{X: 110, Y: 105}) {
		t.Fatalf("expected drag to begin")
	}
	if f.sel.disabled != 1 {
		t.Fatalf("expected selection disabled during drag")
	}

	w.PointerMove(geometry.Point{X: 5000, Y: 5000})
	r := w.Rect()
	if r.X != viewport.Width-r.Width || r.Y != viewport.Height-r.Height {
		t.Fatalf("expected window pinned to bottom-right, got %v", r)
	}

	w.PointerMove(geometry.Point{X: -5000, Y: -5000})
	if r := w.Rect(); r.X != 0 || r.Y != 0 {
		t.Fatalf("expected window pinned to top-left, got %v", r)
	}

	w.PointerMove(geometry.Point{X: 210, Y: 305})
	if r := w.Rect(); r.X != 200 || r.Y != 300 {
		t.Fatalf("expected window at offset position (200,300), got %v", r)
	}

	w.EndDrag()
	if w.Mode() != ModeIdle || f.sel.disabled != 0 {
		t.Fatalf("expected idle with selection restored, mode=%v disabled=%d", w.Mode(), f.sel.disabled)
	}
}

func TestDrag_DoesNotMutateRegistry(t *testing.T) {
	f := newFixture()
	w := f.open("Notes", "")
	changes := 0
	f.reg.Subscribe(func([]registry.Record) { changes++ })

	w.BeginDrag(geometry.Point{X: 150, Y: 110})
	w.PointerMove(geometry.Point{X: 400, Y: 400})
	w.EndDrag()
	if changes != 0 {
		t.Fatalf("expected drag to leave registry alone, saw %d changes", changes)
	}
}

func TestGesture_InvalidStartDoesNotBegin(t *testing.T) {
	f := newFixture()
	w := f.open("Notes", "")
	before := w.Geometry()

	if w.BeginDrag(geometry.Point{X: -1, Y: 10}) {
		t.Fatalf("expected drag outside viewport to be rejected")
	}
	if w.BeginResize(geometry.Edge("up"), geometry.Point{X: 10, Y: 10}) {
		t.Fatalf("expected invalid edge to be rejected")
	}
	if w.PointerMove(geometry.Point{X: 500, Y: 500}) {
		t.Fatalf("expected pointer move without gesture to be ignored")
	}
	if w.Geometry() != before || f.sel.disabled != 0 {
		t.Fatalf("expected geometry and selection untouched")
	}
}

func TestGesture_DragAndResizeAreExclusive(t *testing.T) {
	f := newFixture()
	w := f.open("Notes", "")

	if !w.BeginResize(geometry.EdgeSouthEast, geometry.Point{X: 399, Y: 299}) {
		t.Fatalf("expected resize to begin")
	}
	if w.BeginDrag(geometry.Point{X: 150, Y: 110}) {
		t.Fatalf("expected drag to be refused while resizing")
	}
	w.EndDrag() // wrong gesture, must not end the resize
	if w.Mode() != ModeResizing {
		t.Fatalf("expected resize still active, got %v", w.Mode())
	}
	w.PointerLeave()
	if w.Mode() != ModeIdle || f.sel.disabled != 0 {
		t.Fatalf("expected pointer leave to end resize and restore selection")
	}
}

func TestResize_RespectsBoundsAndViewport(t *testing.T) {
	f := newFixture()
	w := f.open("Notes", "")

	w.BeginResize(geometry.EdgeNorthWest, geometry.Point{X: 100, Y: 100})
	w.PointerMove(geometry.Point{X: -900, Y: -900})
	r := w.Rect()
	if r.X != 0 || r.Y != 0 {
		t.Fatalf("expected top-left pinned to the viewport, got %v", r)
	}
	if r.Right() != 400 || r.Bottom() != 300 {
		t.Fatalf("expected opposite corner anchored at (400,300), got %v", r)
	}

	w.PointerMove(geometry.Point{X: 390, Y: 290})
	r = w.Rect()
	if r.Width != 150 || r.Height != 100 {
		t.Fatalf("expected minimum size 150x100, got %dx%d", r.Width, r.Height)
	}
	w.EndResize()
	if f.sel.disabled != 0 {
		t.Fatalf("expected selection restored after resize")
	}
}

func TestRaiseToFront_Monotonic(t *testing.T) {
	f := newFixture()
	windows := []*Window{f.open("A", ""), f.open("B", ""), f.open("C", "")}

	order := []int{0, 2, 1, 0, 0, 2}
	prev := 0
	for _, i := range order {
		windows[i].RaiseToFront()
		z := windows[i].ZIndex()
		if z <= prev {
			t.Fatalf("z %d not greater than previous %d", z, prev)
		}
		prev = z
		for j, other := range windows {
			if j != i && other.ZIndex() >= z {
				t.Fatalf("window %d z=%d not below last raised z=%d", j, other.ZIndex(), z)
			}
		}
	}
}

func TestToggleMaximize_RoundTrip(t *testing.T) {
	f := newFixture()
	w := f.open("Notes", "")
	before := w.Rect()

	w.ToggleMaximize()
	if w.Rect() != viewport {
		t.Fatalf("expected maximized rect to fill viewport, got %v", w.Rect())
	}
	if rec, _ := f.reg.Get("Notes"); rec.State != registry.StateMaximize {
		t.Fatalf("expected registry state maximize, got %q", rec.State)
	}
	if w.BeginDrag(geometry.Point{X: 10, Y: 10}) {
		t.Fatalf("expected drag refused while maximized")
	}

	w.ToggleMaximize()
	if w.Rect() != before {
		t.Fatalf("expected rect restored to %v, got %v", before, w.Rect())
	}
	if rec, _ := f.reg.Get("Notes"); rec.State != registry.StateNormal {
		t.Fatalf("expected registry state normal, got %q", rec.State)
	}
}

func TestMinimizeRestore(t *testing.T) {
	f := newFixture()
	w := f.open("Notes", "")

	w.Minimize()
	if !w.Minimized() {
		t.Fatalf("expected minimized")
	}
	if rec, _ := f.reg.Get("Notes"); rec.State != registry.StateMinimize {
		t.Fatalf("expected registry state minimize, got %q", rec.State)
	}

	msg := bus.Message{Kind: bus.KindRestore, WindowName: "Notes"}
	if n := f.bus.Publish(msg); n != 1 {
		t.Fatalf("expected one handler, got %d", n)
	}
	if w.Minimized() {
		t.Fatalf("expected restore to un-minimize")
	}
	z1 := w.ZIndex()

	f.bus.Publish(msg)
	if w.Minimized() {
		t.Fatalf("expected second restore to keep window visible")
	}
	if w.ZIndex() <= z1 {
		t.Fatalf("expected second restore to raise z above %d, got %d", z1, w.ZIndex())
	}
}

func TestRestore_KeepsMaximizedFlag(t *testing.T) {
	f := newFixture()
	w := f.open("Notes", "")
	w.ToggleMaximize()
	w.Minimize()

	f.bus.Publish(bus.Message{Kind: bus.KindRestore, WindowName: "Notes"})
	if w.Minimized() || !w.Maximized() {
		t.Fatalf("expected visible maximized window, minimized=%v maximized=%v", w.Minimized(), w.Maximized())
	}
	if rec, _ := f.reg.Get("Notes"); rec.State != registry.StateMaximize {
		t.Fatalf("expected registry state maximize, got %q", rec.State)
	}
}

func TestBringToFront_DoesNotRestore(t *testing.T) {
	f := newFixture()
	w := f.open("Notes", "")
	w.Minimize()
	z := w.ZIndex()

	f.bus.Publish(bus.Message{Kind: bus.KindBringToFront, WindowName: "Notes"})
	if !w.Minimized() {
		t.Fatalf("expected bring-to-front to leave window minimized")
	}
	if w.ZIndex() <= z {
		t.Fatalf("expected z raised")
	}
}

func TestActivationMatching(t *testing.T) {
	f := newFixture()
	editor := f.open("Editor", "doc")
	preview := f.open("Preview", "doc")

	f.bus.Publish(bus.Message{Kind: bus.KindBringToFront, WindowName: "Editor"})
	if editor.ZIndex() == 0 || preview.ZIndex() != 0 {
		t.Fatalf("expected only Editor raised, editor=%d preview=%d", editor.ZIndex(), preview.ZIndex())
	}

	ez, pz := editor.ZIndex(), preview.ZIndex()
	if n := f.bus.Publish(bus.Message{Kind: bus.KindBringToFront, WindowType: "doc"}); n != 2 {
		t.Fatalf("expected both windows to match by type, got %d", n)
	}
	if editor.ZIndex() <= ez || preview.ZIndex() <= pz {
		t.Fatalf("expected both windows raised")
	}
}

func TestActivationMatching_NameMode(t *testing.T) {
	f := newFixture()
	f.opts.MatchBy = bus.MatchName
	editor := f.open("Editor", "doc")
	preview := f.open("Preview", "doc")

	if n := f.bus.Publish(bus.Message{Kind: bus.KindBringToFront, WindowType: "doc"}); n != 0 {
		t.Fatalf("expected no type matches in name mode, got %d", n)
	}
	if editor.ZIndex() != 0 || preview.ZIndex() != 0 {
		t.Fatalf("expected no window raised")
	}
}

func TestClose_NotifiesAndUnmounts(t *testing.T) {
	f := newFixture()
	var states []registry.State
	f.reg.Subscribe(func(records []registry.Record) {
		if len(records) == 0 {
			states = append(states, "")
			return
		}
		states = append(states, records[0].State)
	})

	var closed *Window
	f.opts.OnClose = func(w *Window) { closed = w }
	w := f.open("Notes", "")
	w.BeginDrag(geometry.Point{X: 120, Y: 110})
	w.Close()
	w.Close()

	if closed != w {
		t.Fatalf("expected OnClose called with the window")
	}
	if f.sel.disabled != 0 {
		t.Fatalf("expected close to release selection lock")
	}
	want := []registry.State{registry.StateNormal, registry.StateClose, ""}
	if len(states) != len(want) {
		t.Fatalf("expected states %v, got %v", want, states)
	}
	for i := range want {
		if states[i] != want[i] {
			t.Fatalf("expected states %v, got %v", want, states)
		}
	}
	if f.bus.Publish(bus.Message{Kind: bus.KindRestore, WindowName: "Notes"}) != 0 {
		t.Fatalf("expected closed window to ignore messages")
	}
}

func TestSetViewport_Reclamps(t *testing.T) {
	f := newFixture()
	w := f.open("Notes", "")
	w.SetRect(geometry.Rect{X: 700, Y: 500, Width: 300, Height: 200})

	small := geometry.Rect{Width: 640, Height: 480}
	w.SetViewport(small)
	if !w.Rect().Within(small) {
		t.Fatalf("expected rect within new viewport, got %v", w.Rect())
	}
}
