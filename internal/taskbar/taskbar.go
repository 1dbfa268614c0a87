// Package taskbar turns process records into buttons and converts button
// clicks into activation messages.
package taskbar

import (
	"log/slog"

	"github.com/1broseidon/deskshell/internal/bus"
	"github.com/1broseidon/deskshell/internal/registry"
)

// Style is the visual state of a taskbar button.
type Style string

const (
	StyleActive    Style = "active"
	StyleMinimized Style = "minimized"
)

// Button is one rendered taskbar entry.
type Button struct {
	Label string         `json:"label"`
	Icon  string         `json:"icon"`
	Title string         `json:"title"`
	Style Style          `json:"style"`
	State registry.State `json:"state"`
}

// Processes is the registry surface the taskbar reads and writes.
type Processes interface {
	List() []registry.Record
	Get(name string) (registry.Record, bool)
	UpdateState(name string, state registry.State) bool
}

// Publisher sends activation messages.
type Publisher interface {
	Publish(msg bus.Message) int
}

// Taskbar renders the process list and handles clicks.
type Taskbar struct {
	processes Processes
	bus       Publisher
	logger    *slog.Logger
}

// New creates a taskbar. A nil logger discards output.
func New(processes Processes, publisher Publisher, logger *slog.Logger) *Taskbar {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Taskbar{processes: processes, bus: publisher, logger: logger}
}

// Buttons returns one button per process record, in registry order.
func (t *Taskbar) Buttons() []Button {
	records := t.processes.List()
	buttons := make([]Button, 0, len(records))
	for _, rec := range records {
		buttons = append(buttons, ButtonFor(rec))
	}
	return buttons
}

// ButtonFor renders a single record.
func ButtonFor(rec registry.Record) Button {
	style := StyleActive
	if rec.State == registry.StateMinimize {
		style = StyleMinimized
	}
	return Button{
		Label: rec.Name,
		Icon:  rec.Icon,
		Title: rec.Name,
		Style: style,
		State: rec.State,
	}
}

// Click activates the window behind rec. A minimized record is sent a
// restore message, anything else bring-to-front. The record is marked normal
// straight away without waiting for a window to answer, so a message no
// window handles still leaves the record normal. It returns the number of
// windows that handled the message.
func (t *Taskbar) Click(rec registry.Record) int {
	kind := bus.KindBringToFront
	if rec.State == registry.StateMinimize {
		kind = bus.KindRestore
	}
	t.processes.UpdateState(rec.Name, registry.StateNormal)
	handled := t.bus.Publish(bus.Message{Kind: kind, WindowName: rec.Name, WindowType: rec.Type})
	t.logger.Debug("taskbar click", "name", rec.Name, "kind", kind, "handled", handled)
	return handled
}

// ClickName clicks the first record named name. It reports false when there
// is no such record.
func (t *Taskbar) ClickName(name string) (handled int, ok bool) {
	rec, ok := t.processes.Get(name)
	if !ok {
		return 0, false
	}
	return t.Click(rec), true
}
