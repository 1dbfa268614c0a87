package daemon

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/1broseidon/deskshell/internal/config"
	"github.com/1broseidon/deskshell/internal/desktop"
	"github.com/1broseidon/deskshell/internal/geometry"
	"github.com/1broseidon/deskshell/internal/registry"
	"github.com/1broseidon/deskshell/internal/session"
)

func newDesktop(t *testing.T) *desktop.Desktop {
	t.Helper()
	cfg := config.DefaultConfig()
	return desktop.New(DesktopOptions(cfg, Viewport(cfg), nil))
}

func TestDesktopOptions_FromDefaults(t *testing.T) {
	cfg := config.DefaultConfig()
	opts := DesktopOptions(cfg, geometry.Rect{Width: 1024, Height: 768}, nil)

	if opts.Viewport != (geometry.Rect{Width: 1024, Height: 768}) {
		t.Fatalf("unexpected viewport %v", opts.Viewport)
	}
	if opts.Duplicates != registry.DuplicatesUpsert || opts.MatchBy != "either" {
		t.Fatalf("unexpected policies %q %q", opts.Duplicates, opts.MatchBy)
	}
	if opts.DefaultSize != (geometry.Size{Width: 480, Height: 360}) {
		t.Fatalf("unexpected default size %v", opts.DefaultSize)
	}
	if opts.TitleBarHeight != 24 || opts.Border != 4 || opts.ArrangeGap != 8 {
		t.Fatalf("unexpected chrome %+v", opts)
	}
	if len(opts.Applets) != len(cfg.AppletKinds()) {
		t.Fatalf("expected %d applets, got %d", len(cfg.AppletKinds()), len(opts.Applets))
	}
	if opts.Applets[0].Kind != "works" {
		t.Fatalf("expected works first in menu order, got %q", opts.Applets[0].Kind)
	}
}

func TestApplets_FallBackToWindowDefaults(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Applets = map[string]config.Applet{
		"notes":  {Title: "Notes", Order: 1},
		"hidden": {Title: "Hidden", Hidden: true},
	}
	got := Applets(cfg)
	want := []desktop.Applet{{
		Kind:  "notes",
		Title: "Notes",
		Size:  geometry.Size{Width: 480, Height: 360},
		Bounds: geometry.Bounds{
			MinWidth:  200,
			MinHeight: 120,
		},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("applets mismatch (-want +got):\n%s", diff)
	}
}

func TestReconcile_RemovesOrphanRecords(t *testing.T) {
	d := newDesktop(t)
	if _, err := d.Launch("works"); err != nil {
		t.Fatalf("Launch failed: %v", err)
	}
	d.Registry().Add("Ghost", "ghost.png", "")
	d.Registry().Add("Works", "icons/works.png", "works")

	r := NewReconciler(ReconcilerConfig{}, d, nil)
	r.ReconcileNow()

	names := []string{}
	for _, rec := range d.Processes() {
		names = append(names, rec.Name)
	}
	if diff := cmp.Diff([]string{"Works"}, names); diff != "" {
		t.Fatalf("processes mismatch (-want +got):\n%s", diff)
	}
}

type panicDesktop struct{}

func (panicDesktop) Snapshot() desktop.Snapshot { return desktop.Snapshot{} }

func (panicDesktop) Prune() ([]registry.Record, int) { panic("boom") }

func TestReconcile_RecoversFromPanic(t *testing.T) {
	r := NewReconciler(ReconcilerConfig{}, panicDesktop{}, nil)
	r.ReconcileNow()
}

func TestStateSynchronizer_SyncOnlyWhenChanged(t *testing.T) {
	d := newDesktop(t)
	path := filepath.Join(t.TempDir(), "state.json")
	s := NewStateSynchronizer(path, nil)

	if _, err := d.Open(desktop.OpenRequest{Title: "Draft", Position: &geometry.Point{X: 20, Y: 30}}); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	wrote, err := s.Sync(d)
	if err != nil || !wrote {
		t.Fatalf("expected first sync to write (wrote=%v err=%v)", wrote, err)
	}
	wrote, err = s.Sync(d)
	if err != nil || wrote {
		t.Fatalf("expected unchanged sync to skip (wrote=%v err=%v)", wrote, err)
	}

	if _, err := d.Move("Draft", geometry.Point{X: 100, Y: 100}); err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	wrote, err = s.Sync(d)
	if err != nil || !wrote {
		t.Fatalf("expected sync after move to write (wrote=%v err=%v)", wrote, err)
	}
}

func TestStateSynchronizer_RestoreIntoFreshDesktop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	s := NewStateSynchronizer(path, nil)

	first := newDesktop(t)
	if _, err := first.Launch("chapters"); err != nil {
		t.Fatalf("Launch failed: %v", err)
	}
	if _, err := first.Minimize("Chapters"); err != nil {
		t.Fatalf("Minimize failed: %v", err)
	}
	if _, err := s.Sync(first); err != nil {
		t.Fatalf("Sync failed: %v", err)
	}

	second := newDesktop(t)
	res, err := NewStateSynchronizer(path, nil).Restore(second)
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if diff := cmp.Diff([]string{"Chapters"}, res.Opened); diff != "" {
		t.Fatalf("opened mismatch (-want +got):\n%s", diff)
	}
	got, err := second.Window("Chapters")
	if err != nil {
		t.Fatalf("Window failed: %v", err)
	}
	if !got.Minimized || got.Kind != "chapters" || got.Rect.Size() != (geometry.Size{Width: 640, Height: 480}) {
		t.Fatalf("unexpected restored window %+v", got)
	}
	rec, ok := second.Registry().Get("Chapters")
	if !ok || rec.State != registry.StateMinimize {
		t.Fatalf("expected minimized process record, got %+v", rec)
	}
}

func TestStateSynchronizer_MissingFileAndClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	s := NewStateSynchronizer(path, nil)

	res, err := s.Restore(newDesktop(t))
	if err != nil {
		t.Fatalf("expected missing state to be ignored, got %v", err)
	}
	if len(res.Opened) != 0 {
		t.Fatalf("expected nothing restored, got %+v", res)
	}

	if _, err := s.Sync(newDesktop(t)); err != nil {
		t.Fatalf("Sync failed: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected state file removed, stat err=%v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("expected second Clear to succeed, got %v", err)
	}
}

func TestStateSynchronizer_WatchSavesOnProcessChange(t *testing.T) {
	d := newDesktop(t)
	if _, err := d.Open(desktop.OpenRequest{Title: "Draft"}); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	path := filepath.Join(t.TempDir(), "state.json")
	s := NewStateSynchronizer(path, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Watch(ctx, d.Registry(), d)
		close(done)
	}()
	defer func() {
		cancel()
		<-done
	}()

	// Each toggle changes the Draft record; repeat until Watch has subscribed.
	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, err := d.ToggleMaximize("Draft"); err != nil {
			t.Fatalf("ToggleMaximize failed: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
		if _, err := os.Stat(path); err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("state file was never written")
		}
	}

	layout, err := session.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if len(layout.Windows) != 1 || layout.Windows[0].Title != "Draft" {
		t.Fatalf("unexpected saved layout %+v", layout.Windows)
	}
}
