package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/deskshell/internal/desktop"
	"github.com/1broseidon/deskshell/internal/geometry"
	"github.com/1broseidon/deskshell/internal/runtimepath"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientAt(socketPath)
}

// NewClientAt creates a client for the daemon listening on socketPath.
func NewClientAt(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

// call sends command with payload and decodes the response data into out
// when out is non-nil.
func (c *Client) call(command CommandType, payload any, out any) error {
	req := &Request{Command: command}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal %s payload: %w", command, err)
		}
		req.Payload = data
	}

	resp, err := c.sendRequest(req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s response: %w", command, err)
	}
	return nil
}

// Reload sends a RELOAD command to the daemon
func (c *Client) Reload() error {
	return c.call(CommandReload, nil, nil)
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	var status StatusData
	if err := c.call(CommandGetStatus, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Snapshot retrieves the full desktop state.
func (c *Client) Snapshot() (desktop.Snapshot, error) {
	var snap desktop.Snapshot
	err := c.call(CommandSnapshot, nil, &snap)
	return snap, err
}

// ListWindows returns the open windows from bottom to top.
func (c *Client) ListWindows() ([]desktop.WindowInfo, error) {
	var data WindowsData
	if err := c.call(CommandListWindows, nil, &data); err != nil {
		return nil, err
	}
	return data.Windows, nil
}

// ListProcesses returns the process registry in insertion order.
func (c *Client) ListProcesses() (*ProcessesData, error) {
	var data ProcessesData
	if err := c.call(CommandListProcesses, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// ListApplets returns the start menu catalog.
func (c *Client) ListApplets() ([]desktop.Applet, error) {
	var data AppletsData
	if err := c.call(CommandListApplets, nil, &data); err != nil {
		return nil, err
	}
	return data.Applets, nil
}

// Open opens a window.
func (c *Client) Open(req desktop.OpenRequest) (desktop.WindowInfo, error) {
	var info desktop.WindowInfo
	err := c.call(CommandOpenWindow, req, &info)
	return info, err
}

// Launch opens or activates the applet of the given kind.
func (c *Client) Launch(kind string) (desktop.WindowInfo, error) {
	var info desktop.WindowInfo
	err := c.call(CommandLaunchApplet, LaunchPayload{Kind: kind}, &info)
	return info, err
}

// Close closes the window with the given title.
func (c *Client) Close(title string) error {
	return c.call(CommandCloseWindow, TitlePayload{Title: title}, nil)
}

// Minimize minimizes the window with the given title.
func (c *Client) Minimize(title string) (desktop.WindowInfo, error) {
	var info desktop.WindowInfo
	err := c.call(CommandMinimizeWindow, TitlePayload{Title: title}, &info)
	return info, err
}

// ToggleMaximize maximizes or restores the window with the given title.
func (c *Client) ToggleMaximize(title string) (desktop.WindowInfo, error) {
	var info desktop.WindowInfo
	err := c.call(CommandToggleMaximize, TitlePayload{Title: title}, &info)
	return info, err
}

// Raise brings the window with the given title to the front.
func (c *Client) Raise(title string) (desktop.WindowInfo, error) {
	var info desktop.WindowInfo
	err := c.call(CommandRaiseWindow, TitlePayload{Title: title}, &info)
	return info, err
}

// Click presses the taskbar button for name and returns how many windows
// reacted.
func (c *Client) Click(name string) (int, error) {
	var data ClickData
	if err := c.call(CommandTaskbarClick, ClickPayload{Name: name}, &data); err != nil {
		return 0, err
	}
	return data.Handled, nil
}

// Move drags the window so its top-left corner lands on to.
func (c *Client) Move(title string, to geometry.Point) (desktop.WindowInfo, error) {
	var info desktop.WindowInfo
	err := c.call(CommandMoveWindow, MovePayload{Title: title, X: to.X, Y: to.Y}, &info)
	return info, err
}

// Resize drags edge of the window by dx, dy.
func (c *Client) Resize(title string, edge geometry.Edge, dx, dy int) (desktop.WindowInfo, error) {
	var info desktop.WindowInfo
	err := c.call(CommandResizeWindow, ResizePayload{Title: title, Edge: edge, DX: dx, DY: dy}, &info)
	return info, err
}

// Arrange lays out the visible windows. An empty mode uses the daemon default.
func (c *Client) Arrange(mode geometry.ArrangeMode) ([]desktop.WindowInfo, error) {
	var data WindowsData
	if err := c.call(CommandArrange, ArrangePayload{Mode: mode}, &data); err != nil {
		return nil, err
	}
	return data.Windows, nil
}

// Pointer forwards a pointer event to the desktop.
func (c *Client) Pointer(action PointerAction, p geometry.Point) (PointerData, error) {
	var data PointerData
	err := c.call(CommandPointer, PointerPayload{Action: action, X: p.X, Y: p.Y}, &data)
	return data, err
}

// SetViewport resizes the desktop and returns the re-clamped state.
func (c *Client) SetViewport(width, height int) (desktop.Snapshot, error) {
	var snap desktop.Snapshot
	err := c.call(CommandSetViewport, ViewportPayload{Width: width, Height: height}, &snap)
	return snap, err
}

// SaveSession stores the current layout under name.
func (c *Client) SaveSession(name string) (*SaveSessionData, error) {
	var data SaveSessionData
	if err := c.call(CommandSaveSession, SessionPayload{Name: name}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// LoadSession restores the layout stored under name.
func (c *Client) LoadSession(name string, noReplace bool) (*LoadSessionData, error) {
	var data LoadSessionData
	if err := c.call(CommandLoadSession, SessionPayload{Name: name, NoReplace: noReplace}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// ListSessions returns the saved session names.
func (c *Client) ListSessions() ([]string, error) {
	var data SessionsData
	if err := c.call(CommandListSessions, nil, &data); err != nil {
		return nil, err
	}
	return data.Sessions, nil
}

// Ping checks if the daemon is running
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
