package desktop

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/1broseidon/deskshell/internal/bus"
	"github.com/1broseidon/deskshell/internal/geometry"
	"github.com/1broseidon/deskshell/internal/registry"
)

func testOptions() Options {
	return Options{
		Viewport:       geometry.Rect{Width: 800, Height: 600},
		DefaultSize:    geometry.Size{Width: 300, Height: 200},
		DefaultBounds:  geometry.Bounds{MinWidth: 100, MinHeight: 80},
		TitleBarHeight: 20,
		Border:         4,
		ArrangeGap:     10,
		Applets: []Applet{
			{Kind: "works", Title: "Works", Icon: "works.png"},
			{Kind: "chapters", Title: "Chapters", Icon: "chapters.png", Type: "doc", Size: geometry.Size{Width: 400, Height: 300}},
		},
	}
}

func at(x, y int) *geometry.Point { return &geometry.Point{X: x, Y: y} }

func mustOpen(t *testing.T, d *Desktop, title string, pos *geometry.Point) WindowInfo {
	t.Helper()
	info, err := d.Open(OpenRequest{Title: title, Position: pos})
	if err != nil {
		t.Fatalf("Open(%q) failed: %v", title, err)
	}
	return info
}

func TestOpen_RegistersAndRaises(t *testing.T) {
	d := New(testOptions())
	a := mustOpen(t, d, "A", at(10, 10))
	b := mustOpen(t, d, "B", at(20, 20))

	if b.ZIndex <= a.ZIndex {
		t.Fatalf("expected later window above earlier, a=%d b=%d", a.ZIndex, b.ZIndex)
	}
	want := []registry.Record{
		{Name: "A", State: registry.StateNormal},
		{Name: "B", State: registry.StateNormal},
	}
	if diff := cmp.Diff(want, d.Processes()); diff != "" {
		t.Fatalf("processes mismatch (-want +got):\n%s", diff)
	}
	if a.Rect != (geometry.Rect{X: 10, Y: 10, Width: 300, Height: 200}) {
		t.Fatalf("unexpected rect %v", a.Rect)
	}
}

func TestOpen_DuplicateTitle(t *testing.T) {
	d := New(testOptions())
	mustOpen(t, d, "Notes", nil)

	_, err := d.Open(OpenRequest{Title: "Notes"})
	if !errors.Is(err, ErrDuplicateTitle) {
		t.Fatalf("expected ErrDuplicateTitle, got %v", err)
	}
	if _, err := d.Open(OpenRequest{}); err == nil {
		t.Fatalf("expected error for empty title")
	}
}

func TestOpen_AppendPolicySuffixesTitle(t *testing.T) {
	opts := testOptions()
	opts.Duplicates = registry.DuplicatesAppend
	d := New(opts)
	mustOpen(t, d, "Notes", nil)
	second := mustOpen(t, d, "Notes", nil)
	third := mustOpen(t, d, "Notes", nil)

	if second.Title != "Notes (2)" || third.Title != "Notes (3)" {
		t.Fatalf("expected suffixed titles, got %q and %q", second.Title, third.Title)
	}
	if got := len(d.Processes()); got != 3 {
		t.Fatalf("expected 3 records, got %d", got)
	}
}

func TestPointer_TitleBarDrag(t *testing.T) {
	d := New(testOptions())
	mustOpen(t, d, "Notes", at(50, 50))

	hit, ok := d.PointerDown(geometry.Point{X: 100, Y: 60})
	if !ok || hit.Action != ActionDrag || hit.Title != "Notes" {
		t.Fatalf("expected drag on Notes, got %+v ok=%v", hit, ok)
	}
	if !d.SelectionDisabled() {
		t.Fatalf("expected selection disabled during drag")
	}
	if !d.PointerMove(geometry.Point{X: 200, Y: 160}) {
		t.Fatalf("expected pointer move to change geometry")
	}
	d.PointerUp()

	info, _ := d.Window("Notes")
	if info.Rect.X != 150 || info.Rect.Y != 150 {
		t.Fatalf("expected window at (150,150), got %v", info.Rect)
	}
	if d.SelectionDisabled() {
		t.Fatalf("expected selection restored after pointer up")
	}
	if d.PointerMove(geometry.Point{X: 300, Y: 300}) {
		t.Fatalf("expected no gesture after pointer up")
	}
}

func TestPointer_BorderResize(t *testing.T) {
	d := New(testOptions())
	mustOpen(t, d, "Notes", at(50, 50))

	hit, ok := d.PointerDown(geometry.Point{X: 349, Y: 249})
	if !ok || hit.Action != ActionResize || hit.Edge != geometry.EdgeSouthEast {
		t.Fatalf("expected se resize, got %+v ok=%v", hit, ok)
	}
	d.PointerMove(geometry.Point{X: 399, Y: 299})
	d.PointerLeave()

	info, _ := d.Window("Notes")
	if info.Rect != (geometry.Rect{X: 50, Y: 50, Width: 350, Height: 250}) {
		t.Fatalf("unexpected rect after resize %v", info.Rect)
	}
	if d.SelectionDisabled() {
		t.Fatalf("expected selection restored after pointer leave")
	}
}

func TestPointer_BodyClickRaisesTopmost(t *testing.T) {
	d := New(testOptions())
	mustOpen(t, d, "Back", at(50, 50))
	mustOpen(t, d, "Front", at(50, 50))

	hit, ok := d.PointerDown(geometry.Point{X: 100, Y: 150})
	if !ok || hit.Title != "Front" || hit.Action != ActionRaise {
		t.Fatalf("expected raise on Front, got %+v", hit)
	}

	if _, err := d.Minimize("Front"); err != nil {
		t.Fatalf("Minimize failed: %v", err)
	}
	hit, _ = d.PointerDown(geometry.Point{X: 100, Y: 150})
	if hit.Title != "Back" {
		t.Fatalf("expected minimized window skipped, hit %q", hit.Title)
	}
	windows := d.Windows()
	if windows[len(windows)-1].Title != "Back" {
		t.Fatalf("expected Back on top after raise")
	}

	if _, ok := d.PointerDown(geometry.Point{X: 700, Y: 500}); ok {
		t.Fatalf("expected no hit on empty desktop area")
	}
}

func TestPointer_MaximizedWindowOnlyRaises(t *testing.T) {
	d := New(testOptions())
	mustOpen(t, d, "Notes", at(50, 50))
	d.ToggleMaximize("Notes")

	hit, ok := d.PointerDown(geometry.Point{X: 5, Y: 10})
	if !ok || hit.Action != ActionRaise {
		t.Fatalf("expected raise on maximized window, got %+v", hit)
	}
	if _, err := d.Move("Notes", geometry.Point{X: 0, Y: 0}); !errors.Is(err, ErrGestureRefused) {
		t.Fatalf("expected ErrGestureRefused, got %v", err)
	}
}

func TestMoveAndResize(t *testing.T) {
	d := New(testOptions())
	mustOpen(t, d, "Notes", at(50, 50))

	info, err := d.Move("Notes", geometry.Point{X: 5000, Y: 120})
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if info.Rect.X != 500 || info.Rect.Y != 120 {
		t.Fatalf("expected clamped move to (500,120), got %v", info.Rect)
	}

	info, err = d.Resize("Notes", geometry.EdgeWest, -50, 0)
	if err != nil {
		t.Fatalf("Resize failed: %v", err)
	}
	if info.Rect != (geometry.Rect{X: 450, Y: 120, Width: 350, Height: 200}) {
		t.Fatalf("unexpected rect after resize %v", info.Rect)
	}

	if _, err := d.Move("Missing", geometry.Point{}); !errors.Is(err, ErrWindowNotFound) {
		t.Fatalf("expected ErrWindowNotFound, got %v", err)
	}
}

func TestClick_RestoresMinimizedWindow(t *testing.T) {
	d := New(testOptions())
	mustOpen(t, d, "Notes", nil)
	d.Minimize("Notes")

	handled, err := d.Click("Notes")
	if err != nil || handled != 1 {
		t.Fatalf("expected one handler, got %d err=%v", handled, err)
	}
	info, _ := d.Window("Notes")
	if info.Minimized || info.State != registry.StateNormal {
		t.Fatalf("expected restored window, got %+v", info)
	}
	if _, err := d.Click("Missing"); !errors.Is(err, ErrProcessNotFound) {
		t.Fatalf("expected ErrProcessNotFound, got %v", err)
	}
}

func TestClick_MatchModeDecidesWhichTypedWindowsRestore(t *testing.T) {
	tests := []struct {
		mode        bus.MatchMode
		wantHandled int
		wantPreview bool // Preview still minimized
	}{
		{bus.MatchEither, 2, false},
		{bus.MatchName, 1, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			opts := testOptions()
			opts.MatchBy = tt.mode
			d := New(opts)
			for _, title := range []string{"Editor", "Preview"} {
				if _, err := d.Open(OpenRequest{Title: title, Type: "doc"}); err != nil {
					t.Fatalf("Open(%q) failed: %v", title, err)
				}
				d.Minimize(title)
			}

			handled, err := d.Click("Editor")
			if err != nil || handled != tt.wantHandled {
				t.Fatalf("expected %d handlers, got %d err=%v", tt.wantHandled, handled, err)
			}
			editor, _ := d.Window("Editor")
			preview, _ := d.Window("Preview")
			if editor.Minimized {
				t.Fatalf("expected Editor restored, got %+v", editor)
			}
			if preview.Minimized != tt.wantPreview {
				t.Fatalf("Preview minimized = %v, want %v", preview.Minimized, tt.wantPreview)
			}
		})
	}
}

func TestClose_RemovesWindowAndRecord(t *testing.T) {
	d := New(testOptions())
	mustOpen(t, d, "Notes", nil)

	if err := d.Close("Notes"); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if len(d.Windows()) != 0 || len(d.Processes()) != 0 {
		t.Fatalf("expected empty desktop after close")
	}
	if err := d.Close("Notes"); !errors.Is(err, ErrWindowNotFound) {
		t.Fatalf("expected ErrWindowNotFound, got %v", err)
	}
	mustOpen(t, d, "Notes", nil)
}

func TestArrange_Grid(t *testing.T) {
	d := New(testOptions())
	for i := 0; i < 4; i++ {
		mustOpen(t, d, fmt.Sprintf("W%d", i), nil)
	}
	d.ToggleMaximize("W3")

	infos, err := d.Arrange(geometry.ArrangeGrid)
	if err != nil {
		t.Fatalf("Arrange failed: %v", err)
	}
	want := []geometry.Rect{
		{X: 10, Y: 10, Width: 385, Height: 285},
		{X: 405, Y: 10, Width: 385, Height: 285},
		{X: 10, Y: 305, Width: 385, Height: 285},
		{X: 405, Y: 305, Width: 385, Height: 285},
	}
	for i, info := range infos {
		if info.Rect != want[i] {
			t.Fatalf("window %d: expected %v, got %v", i, want[i], info.Rect)
		}
		if info.Maximized {
			t.Fatalf("expected %s restored from maximize", info.Title)
		}
	}
}

func TestArrange_SkipsMinimized(t *testing.T) {
	d := New(testOptions())
	mustOpen(t, d, "A", nil)
	mustOpen(t, d, "B", nil)
	d.Minimize("B")

	infos, err := d.Arrange(geometry.ArrangeVertical)
	if err != nil {
		t.Fatalf("Arrange failed: %v", err)
	}
	if len(infos) != 1 || infos[0].Title != "A" {
		t.Fatalf("expected only A arranged, got %+v", infos)
	}
}

func TestLaunch(t *testing.T) {
	d := New(testOptions())

	info, err := d.Launch("chapters")
	if err != nil {
		t.Fatalf("Launch failed: %v", err)
	}
	if info.Title != "Chapters" || info.Kind != "chapters" || info.Rect.Width != 400 {
		t.Fatalf("unexpected launched window %+v", info)
	}

	d.Minimize("Chapters")
	info, err = d.Launch("chapters")
	if err != nil {
		t.Fatalf("second Launch failed: %v", err)
	}
	if info.Minimized {
		t.Fatalf("expected relaunch to restore the open window")
	}
	if n := len(d.Windows()); n != 1 {
		t.Fatalf("expected one window, got %d", n)
	}

	if _, err := d.Launch("timeline"); !errors.Is(err, ErrUnknownApplet) {
		t.Fatalf("expected ErrUnknownApplet, got %v", err)
	}
}

func TestPrune(t *testing.T) {
	d := New(testOptions())
	mustOpen(t, d, "Notes", nil)
	d.Registry().Add("Orphan", "", "")

	orphans, dups := d.Prune()
	if len(orphans) != 1 || orphans[0].Name != "Orphan" || dups != 0 {
		t.Fatalf("expected one orphan pruned, got %+v dups=%d", orphans, dups)
	}
	if diff := cmp.Diff([]registry.Record{{Name: "Notes", State: registry.StateNormal}}, d.Processes()); diff != "" {
		t.Fatalf("processes mismatch (-want +got):\n%s", diff)
	}
}

func TestSetViewport_ReclampsWindows(t *testing.T) {
	d := New(testOptions())
	mustOpen(t, d, "Notes", at(450, 350))

	small := geometry.Rect{Width: 640, Height: 480}
	d.SetViewport(small)
	info, _ := d.Window("Notes")
	if !info.Rect.Within(small) {
		t.Fatalf("expected window inside new viewport, got %v", info.Rect)
	}
	if d.Snapshot().Viewport != small {
		t.Fatalf("expected snapshot to report new viewport")
	}
}

func TestSnapshot(t *testing.T) {
	d := New(testOptions())
	mustOpen(t, d, "A", nil)
	mustOpen(t, d, "B", nil)
	d.Raise("A")
	d.Minimize("B")

	snap := d.Snapshot()
	if len(snap.Windows) != 2 || snap.Windows[1].Title != "A" {
		t.Fatalf("expected A on top, got %+v", snap.Windows)
	}
	if len(snap.Taskbar) != 2 || snap.Taskbar[1].Style != "minimized" {
		t.Fatalf("expected B button minimized, got %+v", snap.Taskbar)
	}
}

func TestConcurrentUse(t *testing.T) {
	d := New(testOptions())
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			title := fmt.Sprintf("W%d", i)
			if _, err := d.Open(OpenRequest{Title: title}); err != nil {
				t.Errorf("Open(%q) failed: %v", title, err)
				return
			}
			d.Raise(title)
			d.Snapshot()
			d.Click(title)
		}(i)
	}
	wg.Wait()

	seen := make(map[int]bool)
	for _, w := range d.Windows() {
		if seen[w.ZIndex] {
			t.Fatalf("duplicate z index %d", w.ZIndex)
		}
		seen[w.ZIndex] = true
	}
}
