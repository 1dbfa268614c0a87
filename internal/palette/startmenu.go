package palette

import (
	"errors"
	"fmt"
	"strings"

	"github.com/1broseidon/deskshell/internal/desktop"
	"github.com/1broseidon/deskshell/internal/geometry"
	"github.com/1broseidon/deskshell/internal/ipc"
	"github.com/1broseidon/deskshell/internal/registry"
)

const (
	actionLaunch  = "launch:"
	actionClick   = "click:"
	actionArrange = "arrange:"
	actionSession = "session:"
)

// Desktop is what the start menu reads and drives. *ipc.Client implements it.
type Desktop interface {
	Snapshot() (desktop.Snapshot, error)
	ListApplets() ([]desktop.Applet, error)
	ListSessions() ([]string, error)
	Launch(kind string) (desktop.WindowInfo, error)
	Click(name string) (int, error)
	Arrange(mode geometry.ArrangeMode) ([]desktop.WindowInfo, error)
	LoadSession(name string, noReplace bool) (*ipc.LoadSessionData, error)
}

var _ Desktop = (*ipc.Client)(nil)

var arrangeModes = []geometry.ArrangeMode{
	geometry.ArrangeCascade,
	geometry.ArrangeGrid,
	geometry.ArrangeVertical,
	geometry.ArrangeHorizontal,
}

// StartMenu builds the palette rows: applets, the taskbar, arrange modes and
// saved sessions, each under a header. Empty sections are left out.
func StartMenu(snap desktop.Snapshot, applets []desktop.Applet, sessions []string) []Item {
	open := make(map[string]bool)
	for _, w := range snap.Windows {
		if w.Kind != "" {
			open[w.Kind] = true
		}
	}

	var items []Item
	if len(applets) > 0 {
		items = append(items, Item{Label: "Programs", IsHeader: true})
		for _, a := range applets {
			items = append(items, Item{
				Label:    a.Title,
				Action:   actionLaunch + a.Kind,
				Icon:     a.Icon,
				Meta:     a.Kind,
				IsActive: open[a.Kind],
			})
		}
	}

	if len(snap.Taskbar) > 0 {
		items = append(items, Item{Label: "Windows", IsHeader: true})
		for _, b := range snap.Taskbar {
			label := b.Label
			if b.State == registry.StateMinimize {
				label += " (minimized)"
			}
			items = append(items, Item{
				Label:  label,
				Action: actionClick + b.Title,
				Icon:   b.Icon,
			})
		}
	}

	if len(snap.Windows) > 0 {
		items = append(items, Item{Label: "Arrange", IsHeader: true})
		for _, mode := range arrangeModes {
			items = append(items, Item{
				Label:  capitalize(string(mode)),
				Action: actionArrange + string(mode),
				Icon:   "view-grid",
			})
		}
	}

	if len(sessions) > 0 {
		items = append(items, Item{Label: "Sessions", IsHeader: true})
		for _, name := range sessions {
			items = append(items, Item{
				Label:  name,
				Action: actionSession + name,
				Icon:   "document-open",
			})
		}
	}
	return items
}

// Show presents the start menu for d on b and performs the chosen action.
// It returns a short description of what was done, or ErrCancelled.
func Show(d Desktop, b Backend) (string, error) {
	snap, err := d.Snapshot()
	if err != nil {
		return "", err
	}
	applets, err := d.ListApplets()
	if err != nil {
		return "", err
	}
	sessions, err := d.ListSessions()
	if err != nil {
		return "", err
	}

	items := StartMenu(snap, applets, sessions)
	if len(items) == 0 {
		return "", fmt.Errorf("start menu is empty")
	}
	message := fmt.Sprintf("%d windows open", len(snap.Windows))

	for {
		item, err := b.Show("Start", items, message)
		if err != nil {
			return "", err
		}
		// Some backends cannot mark rows non-selectable.
		if item.IsHeader {
			continue
		}
		return Dispatch(d, item.Action)
	}
}

// Dispatch performs a start menu action.
func Dispatch(d Desktop, action string) (string, error) {
	switch {
	case strings.HasPrefix(action, actionLaunch):
		info, err := d.Launch(strings.TrimPrefix(action, actionLaunch))
		if err != nil {
			return "", err
		}
		return "opened " + info.Title, nil

	case strings.HasPrefix(action, actionClick):
		name := strings.TrimPrefix(action, actionClick)
		if _, err := d.Click(name); err != nil {
			return "", err
		}
		return "activated " + name, nil

	case strings.HasPrefix(action, actionArrange):
		mode, err := geometry.ParseArrangeMode(strings.TrimPrefix(action, actionArrange))
		if err != nil {
			return "", err
		}
		windows, err := d.Arrange(mode)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("arranged %d windows (%s)", len(windows), mode), nil

	case strings.HasPrefix(action, actionSession):
		name := strings.TrimPrefix(action, actionSession)
		res, err := d.LoadSession(name, false)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("loaded %s (%d windows)", name, len(res.Opened)), nil

	case action == "":
		return "", ErrCancelled
	}
	return "", errors.New("unknown start menu action: " + action)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
