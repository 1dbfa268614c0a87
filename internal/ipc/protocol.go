package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/deskshell/internal/desktop"
	"github.com/1broseidon/deskshell/internal/geometry"
	"github.com/1broseidon/deskshell/internal/registry"
	"github.com/1broseidon/deskshell/internal/session"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandReload         CommandType = "RELOAD"
	CommandGetStatus      CommandType = "GET_STATUS"
	CommandSnapshot       CommandType = "SNAPSHOT"
	CommandListWindows    CommandType = "LIST_WINDOWS"
	CommandListProcesses  CommandType = "LIST_PROCESSES"
	CommandListApplets    CommandType = "LIST_APPLETS"
	CommandOpenWindow     CommandType = "OPEN_WINDOW"
	CommandLaunchApplet   CommandType = "LAUNCH_APPLET"
	CommandCloseWindow    CommandType = "CLOSE_WINDOW"
	CommandMinimizeWindow CommandType = "MINIMIZE_WINDOW"
	CommandToggleMaximize CommandType = "TOGGLE_MAXIMIZE"
	CommandRaiseWindow    CommandType = "RAISE_WINDOW"
	CommandTaskbarClick   CommandType = "TASKBAR_CLICK"
	CommandMoveWindow     CommandType = "MOVE_WINDOW"
	CommandResizeWindow   CommandType = "RESIZE_WINDOW"
	CommandArrange        CommandType = "ARRANGE"
	CommandPointer        CommandType = "POINTER"
	CommandSetViewport    CommandType = "SET_VIEWPORT"
	CommandSaveSession    CommandType = "SAVE_SESSION"
	CommandLoadSession    CommandType = "LOAD_SESSION"
	CommandListSessions   CommandType = "LIST_SESSIONS"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	WindowCount   int           `json:"window_count"`
	ProcessCount  int           `json:"process_count"`
	Viewport      geometry.Rect `json:"viewport"`
	MatchBy       string        `json:"match_by"`
	Duplicates    string        `json:"duplicates"`
	UptimeSeconds int64         `json:"uptime_seconds"`
	DaemonRunning bool          `json:"daemon_running"`
}

type WindowsData struct {
	Windows []desktop.WindowInfo `json:"windows"`
}

type ProcessesData struct {
	Processes []registry.Record `json:"processes"`
}

type AppletsData struct {
	Applets []desktop.Applet `json:"applets"`
}

// TitlePayload addresses one window by title.
type TitlePayload struct {
	Title string `json:"title"`
}

type LaunchPayload struct {
	Kind string `json:"kind"`
}

type ClickPayload struct {
	Name string `json:"name"`
}

type ClickData struct {
	Handled int `json:"handled"`
}

type MovePayload struct {
	Title string `json:"title"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
}

type ResizePayload struct {
	Title string        `json:"title"`
	Edge  geometry.Edge `json:"edge"`
	DX    int           `json:"dx"`
	DY    int           `json:"dy"`
}

type ArrangePayload struct {
	Mode geometry.ArrangeMode `json:"mode,omitempty"`
}

// PointerAction is the phase of a pointer event.
type PointerAction string

const (
	PointerDown  PointerAction = "down"
	PointerMove  PointerAction = "move"
	PointerUp    PointerAction = "up"
	PointerLeave PointerAction = "leave"
)

type PointerPayload struct {
	Action PointerAction `json:"action"`
	X      int           `json:"x"`
	Y      int           `json:"y"`
}

type PointerData struct {
	Hit     *desktop.Hit `json:"hit,omitempty"`
	Changed bool         `json:"changed"`
}

type ViewportPayload struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type SessionPayload struct {
	Name      string `json:"name"`
	NoReplace bool   `json:"no_replace,omitempty"`
}

type SessionsData struct {
	Sessions []string `json:"sessions"`
}

type SaveSessionData struct {
	Name    string `json:"name"`
	Windows int    `json:"windows"`
}

type LoadSessionData = session.RestoreResult

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
