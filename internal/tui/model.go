package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/deskshell/internal/desktop"
	"github.com/1broseidon/deskshell/internal/geometry"
	"github.com/1broseidon/deskshell/internal/ipc"
)

const refreshInterval = 500 * time.Millisecond

type tickMsg struct{}

// gesture is a drag or resize in progress. Motion is applied to anchor as a
// cell offset from where the press happened.
type gesture struct {
	anchor   geometry.Point
	startCol int
	startRow int
}

// Model is the bubbletea model for the desktop.
type Model struct {
	backend Backend

	snap    desktop.Snapshot
	err     string
	menu    list.Model
	menuOn  bool
	pressed bool
	gesture *gesture

	width  int
	height int
}

// NewModel creates a model over backend and loads the first snapshot.
func NewModel(backend Backend) Model {
	m := Model{backend: backend}
	applets, err := backend.Applets()
	if err != nil {
		m.err = err.Error()
	}
	m.menu = newStartMenu(applets)
	m.refresh()
	return m
}

func (m *Model) refresh() {
	snap, err := m.backend.Snapshot()
	if err != nil {
		m.err = err.Error()
		return
	}
	m.snap = snap
}

// act runs a backend call, keeps its error for the taskbar and refreshes.
func (m *Model) act(err error) {
	if err != nil {
		m.err = err.Error()
	} else {
		m.err = ""
	}
	m.refresh()
}

func (m Model) screen() screen {
	return screen{viewport: m.snap.Viewport, cols: m.width, rows: m.desktopRows()}
}

func (m Model) desktopRows() int {
	rows := m.height - 1
	if rows < 0 {
		rows = 0
	}
	return rows
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg { return tickMsg{} })
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tick()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.menu.SetSize(msg.Width, m.desktopRows()-1)
		return m, nil

	case tickMsg:
		if m.gesture == nil {
			m.refresh()
		}
		return m, tick()

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			if m.pressed {
				m.backend.Pointer(ipc.PointerLeave, geometry.Point{})
			}
			return m, tea.Quit
		}
		if m.menuOn {
			return m.updateMenu(msg)
		}
		m.handleKey(msg)
		return m, nil
	}

	return m, nil
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Start):
		m.menuOn = false
		return m, nil
	case key.Matches(msg, keys.Launch):
		if a, ok := selectedApplet(m.menu); ok {
			m.act(m.backend.Launch(a.Kind))
		}
		m.menuOn = false
		return m, nil
	}
	var cmd tea.Cmd
	m.menu, cmd = m.menu.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) {
	top := topVisible(m.snap)
	switch {
	case key.Matches(msg, keys.Start):
		m.menuOn = true
	case key.Matches(msg, keys.Next):
		// Clicking the bottom window's button cycles through every window,
		// restoring minimized ones on the way.
		if len(m.snap.Windows) > 1 {
			m.act(m.backend.Click(m.snap.Windows[0].Title))
		}
	case key.Matches(msg, keys.Minimize):
		if top != "" {
			m.act(m.backend.Minimize(top))
		}
	case key.Matches(msg, keys.Maximize):
		if top != "" {
			m.act(m.backend.ToggleMaximize(top))
		}
	case key.Matches(msg, keys.Close):
		if top != "" {
			m.act(m.backend.Close(top))
		}
	case key.Matches(msg, keys.Cascade):
		m.act(m.backend.Arrange(geometry.ArrangeCascade))
	case key.Matches(msg, keys.Grid):
		m.act(m.backend.Arrange(geometry.ArrangeGrid))
	case key.Matches(msg, keys.Refresh):
		m.act(nil)
	}
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	scr := m.screen()
	if !scr.valid() {
		return
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		if msg.Y == m.desktopRows() {
			m.clickTaskbar(msg.X)
			return
		}
		if m.menuOn {
			m.menuOn = false
			return
		}
		m.press(scr, msg.X, msg.Y)

	case tea.MouseActionMotion:
		if m.gesture == nil {
			return
		}
		d := scr.delta(msg.X-m.gesture.startCol, msg.Y-m.gesture.startRow)
		p := geometry.Point{X: m.gesture.anchor.X + d.X, Y: m.gesture.anchor.Y + d.Y}
		m.act(m.backend.Pointer(ipc.PointerMove, p))

	case tea.MouseActionRelease:
		if !m.pressed {
			return
		}
		m.pressed = false
		m.gesture = nil
		m.act(m.backend.Pointer(ipc.PointerUp, geometry.Point{}))
	}
}

func (m *Model) press(scr screen, c, r int) {
	w, cr, ok := scr.hitWindow(m.snap, c, r)
	if !ok {
		return
	}
	reg, edge := cr.regionAt(c, r)
	switch reg {
	case regionMinimize:
		m.act(m.backend.Minimize(w.Title))
		return
	case regionMaximize:
		m.act(m.backend.ToggleMaximize(w.Title))
		return
	case regionClose:
		m.act(m.backend.Close(w.Title))
		return
	}

	p := anchor(m.snap, w.Rect, reg, edge, scr.point(c, r))
	if err := m.backend.Pointer(ipc.PointerDown, p); err != nil {
		m.act(err)
		return
	}
	m.pressed = true
	if reg == regionTitle || reg == regionEdge {
		m.gesture = &gesture{anchor: p, startCol: c, startRow: r}
	}
	m.act(nil)
}

func (m *Model) clickTaskbar(col int) {
	for _, s := range taskbarSpans(m.snap.Taskbar) {
		if col < s.start || col >= s.end {
			continue
		}
		if s.name == "" {
			m.menuOn = !m.menuOn
			return
		}
		m.act(m.backend.Click(s.name))
		return
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	var area string
	if m.menuOn {
		area = lipgloss.JoinVertical(lipgloss.Left,
			m.menu.View(),
			renderHelpBar(m.width),
		)
		area = lipgloss.NewStyle().Width(m.width).Height(m.desktopRows()).MaxHeight(m.desktopRows()).Render(area)
	} else {
		area = renderDesktop(m.snap, m.screen())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		area,
		renderTaskbar(m.snap.Taskbar, m.width, m.err),
	)
}
