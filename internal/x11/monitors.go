package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"

	"github.com/1broseidon/deskshell/internal/geometry"
)

// Monitor represents a physical display
type Monitor struct {
	ID     int
	Name   string
	Bounds geometry.Rect
}

// GetMonitors retrieves all active monitors using XRandR
func (c *Connection) GetMonitors() ([]Monitor, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		// Disabled CRTC.
		if info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}

		name := fmt.Sprintf("Monitor%d", i)
		if out, err := randr.GetOutputInfo(c.XUtil.Conn(), info.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
			name = string(out.Name)
		}

		monitors = append(monitors, Monitor{
			ID:   i,
			Name: name,
			Bounds: geometry.Rect{
				X:      int(info.X),
				Y:      int(info.Y),
				Width:  int(info.Width),
				Height: int(info.Height),
			},
		})
	}

	return monitors, nil
}

// WorkArea returns the usable area of the monitor under the pointer (or the
// first monitor), excluding space reserved by docks and panels.
func (c *Connection) WorkArea() (geometry.Rect, error) {
	monitors, err := c.GetMonitors()
	if err != nil {
		return geometry.Rect{}, err
	}
	if len(monitors) == 0 {
		return geometry.Rect{}, fmt.Errorf("no monitors found")
	}

	mon := monitors[0].Bounds
	if p, ok := c.pointer(); ok {
		if m := monitorAt(monitors, p); m != nil {
			mon = m.Bounds
		}
	}

	if reserved, ok := c.dockReservations(); ok {
		if usable, changed := UsableArea(mon, reserved); changed {
			return usable, nil
		}
	}

	// Fall back to _NET_WORKAREA for the current desktop.
	areas, err := ewmh.WorkareaGet(c.XUtil)
	if err != nil || len(areas) == 0 {
		return mon, nil
	}
	idx := 0
	if cur, err := ewmh.CurrentDesktopGet(c.XUtil); err == nil && int(cur) < len(areas) {
		idx = int(cur)
	}
	wa := areas[idx]
	if isect := mon.Intersect(geometry.Rect{X: int(wa.X), Y: int(wa.Y), Width: int(wa.Width), Height: int(wa.Height)}); !isect.Empty() {
		return isect, nil
	}
	return mon, nil
}

func (c *Connection) pointer() (geometry.Point, bool) {
	reply, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return geometry.Point{}, false
	}
	return geometry.Point{X: int(reply.RootX), Y: int(reply.RootY)}, true
}

func monitorAt(monitors []Monitor, p geometry.Point) *Monitor {
	for i := range monitors {
		if monitors[i].Bounds.Contains(p) {
			return &monitors[i]
		}
	}
	return nil
}

// dockReservations collects the strut bands of every dock window.
func (c *Connection) dockReservations() ([]Reservation, bool) {
	rootGeom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return nil, false
	}
	root := geometry.Size{Width: int(rootGeom.Width), Height: int(rootGeom.Height)}

	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return nil, false
	}

	var out []Reservation
	for _, win := range clients {
		if !isDock(c, win) {
			continue
		}
		if sp, err := ewmh.WmStrutPartialGet(c.XUtil, win); err == nil {
			out = append(out, Reservations(*sp, root)...)
			continue
		}
		// Some docks only set _NET_WM_STRUT.
		if s, err := ewmh.WmStrutGet(c.XUtil, win); err == nil {
			out = append(out, Reservations(FullStrut(*s, root), root)...)
		}
	}
	return out, true
}

func isDock(c *Connection, win xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, win)
	if err != nil {
		return false
	}
	for _, t := range types {
		if t == "_NET_WM_WINDOW_TYPE_DOCK" {
			return true
		}
	}
	return false
}

// Side is the screen edge a reservation is attached to.
type Side int

const (
	SideTop Side = iota
	SideBottom
	SideLeft
	SideRight
)

// Reservation is a band of the root window a dock keeps for itself.
type Reservation struct {
	Side Side
	Area geometry.Rect
}

// FullStrut widens a plain strut to span the whole root window.
func FullStrut(s ewmh.WmStrut, root geometry.Size) ewmh.WmStrutPartial {
	return ewmh.WmStrutPartial{
		Left:       s.Left,
		Right:      s.Right,
		Top:        s.Top,
		Bottom:     s.Bottom,
		LeftEndY:   uint(root.Height - 1),
		RightEndY:  uint(root.Height - 1),
		TopEndX:    uint(root.Width - 1),
		BottomEndX: uint(root.Width - 1),
	}
}

// Reservations converts a partial strut into root-relative bands.
func Reservations(sp ewmh.WmStrutPartial, root geometry.Size) []Reservation {
	var out []Reservation
	if sp.Top > 0 {
		out = append(out, Reservation{SideTop, geometry.Rect{
			X: int(sp.TopStartX), Y: 0,
			Width: int(sp.TopEndX) - int(sp.TopStartX) + 1, Height: int(sp.Top),
		}})
	}
	if sp.Bottom > 0 {
		out = append(out, Reservation{SideBottom, geometry.Rect{
			X: int(sp.BottomStartX), Y: root.Height - int(sp.Bottom),
			Width: int(sp.BottomEndX) - int(sp.BottomStartX) + 1, Height: int(sp.Bottom),
		}})
	}
	if sp.Left > 0 {
		out = append(out, Reservation{SideLeft, geometry.Rect{
			X: 0, Y: int(sp.LeftStartY),
			Width: int(sp.Left), Height: int(sp.LeftEndY) - int(sp.LeftStartY) + 1,
		}})
	}
	if sp.Right > 0 {
		out = append(out, Reservation{SideRight, geometry.Rect{
			X: root.Width - int(sp.Right), Y: int(sp.RightStartY),
			Width: int(sp.Right), Height: int(sp.RightEndY) - int(sp.RightStartY) + 1,
		}})
	}
	return out
}

// UsableArea shrinks monitor by the reservations that overlap it. The
// second result is false when nothing overlaps.
func UsableArea(monitor geometry.Rect, reserved []Reservation) (geometry.Rect, bool) {
	var top, bottom, left, right int
	for _, r := range reserved {
		isect := monitor.Intersect(r.Area)
		if isect.Empty() {
			continue
		}
		switch r.Side {
		case SideTop:
			top = max(top, isect.Height)
		case SideBottom:
			bottom = max(bottom, isect.Height)
		case SideLeft:
			left = max(left, isect.Width)
		case SideRight:
			right = max(right, isect.Width)
		}
	}
	if top == 0 && bottom == 0 && left == 0 && right == 0 {
		return monitor, false
	}

	out := geometry.Rect{
		X:      monitor.X + left,
		Y:      monitor.Y + top,
		Width:  max(monitor.Width-left-right, 1),
		Height: max(monitor.Height-top-bottom, 1),
	}
	return out, true
}
