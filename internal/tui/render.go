package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/deskshell/internal/desktop"
	"github.com/1broseidon/deskshell/internal/taskbar"
)

type cellStyle int

const (
	styleDesktop cellStyle = iota
	styleFrame
	styleBody
	styleTitle
	styleTitleActive
)

var (
	cellStyles = map[cellStyle]lipgloss.Style{
		styleDesktop: lipgloss.NewStyle().
			Background(lipgloss.Color("30")),
		styleFrame: lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			Background(lipgloss.Color("236")),
		styleBody: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236")),
		styleTitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			Background(lipgloss.Color("240")),
		styleTitleActive: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("18")),
	}

	taskbarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("250"))

	startButtonStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("28"))

	activeButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("62"))

	minimizedButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				Background(lipgloss.Color("237"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Background(lipgloss.Color("235"))
)

const (
	startLabel     = " Start "
	maxButtonLabel = 16
)

type cell struct {
	ch    rune
	style cellStyle
}

// grid is the desktop area as rows of cells.
type grid [][]cell

func newGrid(cols, rows int) grid {
	g := make(grid, rows)
	for r := range g {
		g[r] = make([]cell, cols)
		for c := range g[r] {
			g[r][c] = cell{ch: ' ', style: styleDesktop}
		}
	}
	return g
}

func (g grid) set(c, r int, ch rune, st cellStyle) {
	if r < 0 || r >= len(g) || c < 0 || c >= len(g[r]) {
		return
	}
	g[r][c] = cell{ch: ch, style: st}
}

func (g grid) text(c, r int, s string, maxCols int, st cellStyle) {
	i := 0
	for _, ch := range s {
		if i >= maxCols {
			return
		}
		g.set(c+i, r, ch, st)
		i++
	}
}

// drawWindow paints one window frame. Later calls paint over earlier ones,
// so windows are drawn bottom to top.
func (g grid) drawWindow(cr cellRect, title string, active bool) {
	titleStyle := styleTitle
	if active {
		titleStyle = styleTitleActive
	}
	for r := cr.r0; r <= cr.r1; r++ {
		for c := cr.c0; c <= cr.c1; c++ {
			switch {
			case r == cr.r0:
				g.set(c, r, ' ', titleStyle)
			case r == cr.r1 && c == cr.c0:
				g.set(c, r, '└', styleFrame)
			case r == cr.r1 && c == cr.c1:
				g.set(c, r, '┘', styleFrame)
			case r == cr.r1:
				g.set(c, r, '─', styleFrame)
			case c == cr.c0 || c == cr.c1:
				g.set(c, r, '│', styleFrame)
			default:
				g.set(c, r, ' ', styleBody)
			}
		}
	}

	width := cr.c1 - cr.c0 + 1
	titleRoom := width - 2
	if width >= minButtonsWidth {
		g.set(cr.c1-3, cr.r0, '_', titleStyle)
		g.set(cr.c1-2, cr.r0, '□', titleStyle)
		g.set(cr.c1-1, cr.r0, 'x', titleStyle)
		titleRoom = width - 5
	}
	g.text(cr.c0+1, cr.r0, title, titleRoom, titleStyle)
}

// render joins each row into styled runs.
func (g grid) render() string {
	lines := make([]string, len(g))
	for r, row := range g {
		var b strings.Builder
		start := 0
		for c := 1; c <= len(row); c++ {
			if c < len(row) && row[c].style == row[start].style {
				continue
			}
			run := make([]rune, 0, c-start)
			for _, cl := range row[start:c] {
				run = append(run, cl.ch)
			}
			b.WriteString(cellStyles[row[start].style].Render(string(run)))
			start = c
		}
		lines[r] = b.String()
	}
	return strings.Join(lines, "\n")
}

// renderDesktop draws the windows of snap onto a cols x rows grid.
func renderDesktop(snap desktop.Snapshot, scr screen) string {
	g := newGrid(scr.cols, scr.rows)
	if !scr.valid() {
		return g.render()
	}
	top := topVisible(snap)
	for _, w := range snap.Windows {
		if w.Minimized {
			continue
		}
		g.drawWindow(scr.cells(w.Rect), w.Title, w.Title == top)
	}
	return g.render()
}

// topVisible returns the title of the topmost non-minimized window.
func topVisible(snap desktop.Snapshot) string {
	for i := len(snap.Windows) - 1; i >= 0; i-- {
		if !snap.Windows[i].Minimized {
			return snap.Windows[i].Title
		}
	}
	return ""
}

// span is a clickable range of taskbar columns; an empty name is the start
// button.
type span struct {
	start, end int
	name       string
}

func buttonLabel(b taskbar.Button) string {
	label := []rune(b.Label)
	if len(label) > maxButtonLabel {
		label = append(label[:maxButtonLabel-1], '…')
	}
	return " " + string(label) + " "
}

// taskbarSpans lays out the start button and one button per process record.
func taskbarSpans(buttons []taskbar.Button) []span {
	spans := []span{{start: 0, end: lipgloss.Width(startLabel)}}
	col := spans[0].end + 1
	for _, b := range buttons {
		w := lipgloss.Width(buttonLabel(b))
		spans = append(spans, span{start: col, end: col + w, name: b.Title})
		col += w + 1
	}
	return spans
}

func renderTaskbar(buttons []taskbar.Button, width int, errMsg string) string {
	parts := []string{startButtonStyle.Render(startLabel)}
	for _, b := range buttons {
		style := activeButtonStyle
		if b.Style == taskbar.StyleMinimized {
			style = minimizedButtonStyle
		}
		parts = append(parts, taskbarStyle.Render(" "), style.Render(buttonLabel(b)))
	}
	if errMsg != "" {
		parts = append(parts, taskbarStyle.Render("  "), errorStyle.Render(errMsg))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	return taskbarStyle.Width(width).MaxWidth(width).Render(row)
}

// renderHelpBar renders the key bindings for the start menu.
func renderHelpBar(width int) string {
	var help []string
	for _, b := range keys.shortHelp() {
		h := b.Help()
		help = append(help, h.Key+": "+h.Desc)
	}
	style := lipgloss.NewStyle().
		Width(width).
		Foreground(lipgloss.Color("241")).
		Padding(0, 1)
	return style.Render(strings.Join(help, "  "))
}
