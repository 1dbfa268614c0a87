package mcp

import (
	"github.com/1broseidon/deskshell/internal/desktop"
	"github.com/1broseidon/deskshell/internal/geometry"
	"github.com/1broseidon/deskshell/internal/registry"
	"github.com/1broseidon/deskshell/internal/taskbar"
)

// EmptyInput is the input for tools that take no arguments.
type EmptyInput struct{}

// SnapshotOutput is the output for the desktop_snapshot tool.
type SnapshotOutput struct {
	Viewport  geometry.Rect        `json:"viewport"`
	Windows   []desktop.WindowInfo `json:"windows"`
	Processes []registry.Record    `json:"processes"`
	Taskbar   []taskbar.Button     `json:"taskbar"`
}

// ListAppletsOutput is the output for the list_applets tool.
type ListAppletsOutput struct {
	Applets []desktop.Applet `json:"applets"`
}

// OpenWindowInput is the input for the open_window tool.
type OpenWindowInput struct {
	Title  string `json:"title" jsonschema:"required,Window title; also the taskbar button label"`
	Kind   string `json:"kind,omitempty" jsonschema:"Applet kind the window belongs to (e.g. chapters)"`
	Type   string `json:"type,omitempty" jsonschema:"Window type used for activation by type"`
	Icon   string `json:"icon,omitempty" jsonschema:"Taskbar icon path"`
	X      *int   `json:"x,omitempty" jsonschema:"Left edge in viewport pixels (default: cascade position)"`
	Y      *int   `json:"y,omitempty" jsonschema:"Top edge in viewport pixels (default: cascade position)"`
	Width  int    `json:"width,omitempty" jsonschema:"Width in pixels (default: window_defaults.width)"`
	Height int    `json:"height,omitempty" jsonschema:"Height in pixels (default: window_defaults.height)"`
}

// WindowOutput describes one window after a tool acted on it.
type WindowOutput struct {
	Window desktop.WindowInfo `json:"window"`
}

// LaunchAppletInput is the input for the launch_applet tool.
type LaunchAppletInput struct {
	Kind string `json:"kind" jsonschema:"required,Applet kind from list_applets (e.g. works, chapters, ai-chat)"`
}

// TitleInput addresses a window by title.
type TitleInput struct {
	Title string `json:"title" jsonschema:"required,Title of an open window"`
}

// CloseWindowOutput is the output for the close_window tool.
type CloseWindowOutput struct {
	Closed string `json:"closed"`
}

// TaskbarClickInput is the input for the taskbar_click tool.
type TaskbarClickInput struct {
	Name string `json:"name" jsonschema:"required,Process name shown on the taskbar button"`
}

// TaskbarClickOutput is the output for the taskbar_click tool.
type TaskbarClickOutput struct {
	Handled int `json:"handled"`
}

// MoveWindowInput is the input for the move_window tool.
type MoveWindowInput struct {
	Title string `json:"title" jsonschema:"required,Title of an open window"`
	X     int    `json:"x" jsonschema:"required,New left edge; clamped so the window stays on screen"`
	Y     int    `json:"y" jsonschema:"required,New top edge; clamped so the window stays on screen"`
}

// ResizeWindowInput is the input for the resize_window tool.
type ResizeWindowInput struct {
	Title string `json:"title" jsonschema:"required,Title of an open window"`
	Edge  string `json:"edge" jsonschema:"required,Edge or corner to drag: n, s, e, w, ne, nw, se or sw"`
	DX    int    `json:"dx,omitempty" jsonschema:"Horizontal drag distance in pixels"`
	DY    int    `json:"dy,omitempty" jsonschema:"Vertical drag distance in pixels"`
}

// ArrangeInput is the input for the arrange_windows tool.
type ArrangeInput struct {
	Mode string `json:"mode,omitempty" jsonschema:"cascade, grid, vertical or horizontal (default: arrange.default_mode)"`
}

// WindowsOutput lists windows from bottom to top.
type WindowsOutput struct {
	Windows []desktop.WindowInfo `json:"windows"`
}

// SessionInput is the input for save_session and load_session.
type SessionInput struct {
	Name      string `json:"name" jsonschema:"required,Session name (letters, digits, dash, underscore)"`
	NoReplace bool   `json:"no_replace,omitempty" jsonschema:"load_session only: keep open windows instead of closing them first"`
}

// SaveSessionOutput is the output for the save_session tool.
type SaveSessionOutput struct {
	Name    string `json:"name"`
	Windows int    `json:"windows"`
}

// LoadSessionOutput is the output for the load_session tool.
type LoadSessionOutput struct {
	Closed  int      `json:"closed"`
	Opened  []string `json:"opened"`
	Skipped []string `json:"skipped,omitempty"`
}

// ListSessionsOutput is the output for the list_sessions tool.
type ListSessionsOutput struct {
	Sessions []string `json:"sessions"`
}
