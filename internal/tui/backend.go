package tui

import (
	"fmt"

	"github.com/1broseidon/deskshell/internal/desktop"
	"github.com/1broseidon/deskshell/internal/geometry"
	"github.com/1broseidon/deskshell/internal/ipc"
)

// Backend is the desktop the TUI drives: either an in-process engine or a
// daemon reached over IPC.
type Backend interface {
	Snapshot() (desktop.Snapshot, error)
	Applets() ([]desktop.Applet, error)
	Pointer(action ipc.PointerAction, p geometry.Point) error
	Click(name string) error
	Launch(kind string) error
	Minimize(title string) error
	ToggleMaximize(title string) error
	Close(title string) error
	Arrange(mode geometry.ArrangeMode) error
}

// Local drives a desktop engine in the same process.
type Local struct {
	Desk *desktop.Desktop
}

var _ Backend = Local{}

func (l Local) Snapshot() (desktop.Snapshot, error) { return l.Desk.Snapshot(), nil }

func (l Local) Applets() ([]desktop.Applet, error) { return l.Desk.Applets(), nil }

func (l Local) Pointer(action ipc.PointerAction, p geometry.Point) error {
	switch action {
	case ipc.PointerDown:
		l.Desk.PointerDown(p)
	case ipc.PointerMove:
		l.Desk.PointerMove(p)
	case ipc.PointerUp:
		l.Desk.PointerUp()
	case ipc.PointerLeave:
		l.Desk.PointerLeave()
	default:
		return fmt.Errorf("invalid pointer action %q", action)
	}
	return nil
}

func (l Local) Click(name string) error {
	_, err := l.Desk.Click(name)
	return err
}

func (l Local) Launch(kind string) error {
	_, err := l.Desk.Launch(kind)
	return err
}

func (l Local) Minimize(title string) error {
	_, err := l.Desk.Minimize(title)
	return err
}

func (l Local) ToggleMaximize(title string) error {
	_, err := l.Desk.ToggleMaximize(title)
	return err
}

func (l Local) Close(title string) error { return l.Desk.Close(title) }

func (l Local) Arrange(mode geometry.ArrangeMode) error {
	_, err := l.Desk.Arrange(mode)
	return err
}

// Remote drives the daemon's desktop.
type Remote struct {
	Client *ipc.Client
}

var _ Backend = Remote{}

func (r Remote) Snapshot() (desktop.Snapshot, error) { return r.Client.Snapshot() }

func (r Remote) Applets() ([]desktop.Applet, error) { return r.Client.ListApplets() }

func (r Remote) Pointer(action ipc.PointerAction, p geometry.Point) error {
	_, err := r.Client.Pointer(action, p)
	return err
}

func (r Remote) Click(name string) error {
	_, err := r.Client.Click(name)
	return err
}

func (r Remote) Launch(kind string) error {
	_, err := r.Client.Launch(kind)
	return err
}

func (r Remote) Minimize(title string) error {
	_, err := r.Client.Minimize(title)
	return err
}

func (r Remote) ToggleMaximize(title string) error {
	_, err := r.Client.ToggleMaximize(title)
	return err
}

func (r Remote) Close(title string) error { return r.Client.Close(title) }

func (r Remote) Arrange(mode geometry.ArrangeMode) error {
	_, err := r.Client.Arrange(mode)
	return err
}
