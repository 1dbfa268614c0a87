package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/deskshell/internal/desktop"
)

// appletItem is a start menu entry.
type appletItem struct {
	applet desktop.Applet
}

func (i appletItem) Title() string { return i.applet.Title }

func (i appletItem) Description() string {
	return fmt.Sprintf("%s  %dx%d", i.applet.Kind, i.applet.Size.Width, i.applet.Size.Height)
}

func (i appletItem) FilterValue() string { return i.applet.Title }

func newStartMenu(applets []desktop.Applet) list.Model {
	items := make([]list.Item, len(applets))
	for i, a := range applets {
		items[i] = appletItem{applet: a}
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("15")).
		BorderForeground(lipgloss.Color("28"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color("250")).
		BorderForeground(lipgloss.Color("28"))

	l := list.New(items, delegate, 0, 0)
	l.Title = "Start"
	l.Styles.Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("28")).
		Padding(0, 1)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	return l
}

func selectedApplet(l list.Model) (desktop.Applet, bool) {
	item, ok := l.SelectedItem().(appletItem)
	if !ok {
		return desktop.Applet{}, false
	}
	return item.applet, true
}
