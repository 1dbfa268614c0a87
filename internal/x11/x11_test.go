package x11

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/google/go-cmp/cmp"

	"github.com/1broseidon/deskshell/internal/geometry"
)

func stubEnv(t *testing.T, env map[string]string, home string) {
	t.Helper()
	oldGetenv, oldHome := getenvFn, homeDirFn
	getenvFn = func(k string) string { return env[k] }
	homeDirFn = func() (string, error) { return home, nil }
	t.Cleanup(func() {
		getenvFn, homeDirFn = oldGetenv, oldHome
	})
}

func stubSockets(t *testing.T, names ...string) {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0600); err != nil {
			t.Fatalf("write socket stub: %v", err)
		}
	}
	old := socketsDir
	socketsDir = dir
	t.Cleanup(func() { socketsDir = old })
}

func TestResolveDisplay_EnvironmentWins(t *testing.T) {
	stubEnv(t, map[string]string{"DISPLAY": ":3", "XAUTHORITY": "/env/auth"}, t.TempDir())
	stubSockets(t, "X0")

	d, x := ResolveDisplay(":1", "/cfg/auth")
	if d != ":3" || x != "/env/auth" {
		t.Fatalf("got %q %q", d, x)
	}
}

func TestResolveDisplay_ConfigThenSockets(t *testing.T) {
	home := t.TempDir()
	stubEnv(t, nil, home)
	stubSockets(t, "X0", "X2", "X10", "Xbogus", "other")

	d, x := ResolveDisplay(":1", "")
	if d != ":1" || x != "" {
		t.Fatalf("expected config display and no authority, got %q %q", d, x)
	}

	if err := os.WriteFile(filepath.Join(home, ".Xauthority"), nil, 0600); err != nil {
		t.Fatalf("write xauthority: %v", err)
	}
	d, x = ResolveDisplay("", "")
	if d != ":10" {
		t.Fatalf("expected highest socket :10, got %q", d)
	}
	if x != filepath.Join(home, ".Xauthority") {
		t.Fatalf("expected home xauthority, got %q", x)
	}
}

func TestResolveDisplay_NothingFound(t *testing.T) {
	stubEnv(t, nil, t.TempDir())
	stubSockets(t)

	if d, _ := ResolveDisplay("", ""); d != "" {
		t.Fatalf("expected no display, got %q", d)
	}
}

func TestReservations_PartialStrut(t *testing.T) {
	root := geometry.Size{Width: 3840, Height: 1080}
	sp := ewmh.WmStrutPartial{
		Top: 30, TopStartX: 0, TopEndX: 1919,
		Left: 48, LeftStartY: 0, LeftEndY: 1079,
	}
	got := Reservations(sp, root)
	want := []Reservation{
		{SideTop, geometry.Rect{X: 0, Y: 0, Width: 1920, Height: 30}},
		{SideLeft, geometry.Rect{X: 0, Y: 0, Width: 48, Height: 1080}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("reservations mismatch (-want +got):\n%s", diff)
	}
}

func TestUsableArea(t *testing.T) {
	root := geometry.Size{Width: 3840, Height: 1080}
	left := geometry.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}
	right := geometry.Rect{X: 1920, Y: 0, Width: 1920, Height: 1080}

	panel := Reservations(ewmh.WmStrutPartial{Top: 30, TopStartX: 0, TopEndX: 1919}, root)
	dock := Reservations(FullStrut(ewmh.WmStrut{Bottom: 40}, root), root)
	reserved := append(panel, dock...)

	tests := []struct {
		name    string
		monitor geometry.Rect
		want    geometry.Rect
		changed bool
	}{
		{"panel and dock", left, geometry.Rect{X: 0, Y: 30, Width: 1920, Height: 1010}, true},
		{"dock only", right, geometry.Rect{X: 1920, Y: 0, Width: 1920, Height: 1040}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := UsableArea(tt.monitor, reserved)
			if got != tt.want || changed != tt.changed {
				t.Fatalf("UsableArea = %v, %v; want %v, %v", got, changed, tt.want, tt.changed)
			}
		})
	}

	if got, changed := UsableArea(right, panel); changed || got != right {
		t.Fatalf("expected panel on the left monitor to leave the right one alone, got %v", got)
	}
}

func TestMonitorAt(t *testing.T) {
	monitors := []Monitor{
		{ID: 0, Name: "DP-1", Bounds: geometry.Rect{Width: 1920, Height: 1080}},
		{ID: 1, Name: "DP-2", Bounds: geometry.Rect{X: 1920, Width: 1280, Height: 1024}},
	}
	if m := monitorAt(monitors, geometry.Point{X: 2000, Y: 10}); m == nil || m.Name != "DP-2" {
		t.Fatalf("expected DP-2, got %+v", m)
	}
	if m := monitorAt(monitors, geometry.Point{X: 2000, Y: 1050}); m != nil {
		t.Fatalf("expected no monitor below DP-2, got %+v", m)
	}
}
