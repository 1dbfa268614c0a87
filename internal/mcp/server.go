package mcp

import (
	"context"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/deskshell/internal/desktop"
	"github.com/1broseidon/deskshell/internal/geometry"
	"github.com/1broseidon/deskshell/internal/ipc"
)

const (
	ServerName    = "deskshell"
	ServerVersion = "0.1.0"
)

// Desktop is the set of desktop operations exposed as tools. *ipc.Client
// implements it against a running daemon.
type Desktop interface {
	Snapshot() (desktop.Snapshot, error)
	ListApplets() ([]desktop.Applet, error)
	Open(req desktop.OpenRequest) (desktop.WindowInfo, error)
	Launch(kind string) (desktop.WindowInfo, error)
	Close(title string) error
	Minimize(title string) (desktop.WindowInfo, error)
	ToggleMaximize(title string) (desktop.WindowInfo, error)
	Raise(title string) (desktop.WindowInfo, error)
	Click(name string) (int, error)
	Move(title string, to geometry.Point) (desktop.WindowInfo, error)
	Resize(title string, edge geometry.Edge, dx, dy int) (desktop.WindowInfo, error)
	Arrange(mode geometry.ArrangeMode) ([]desktop.WindowInfo, error)
	SaveSession(name string) (*ipc.SaveSessionData, error)
	LoadSession(name string, noReplace bool) (*ipc.LoadSessionData, error)
	ListSessions() ([]string, error)
}

var _ Desktop = (*ipc.Client)(nil)

// Server is the MCP server exposing desktop window operations.
type Server struct {
	mcpServer *mcpsdk.Server
	desk      Desktop
	logger    *slog.Logger
}

// NewServer creates an MCP server that forwards tool calls to desk.
func NewServer(desk Desktop, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		desk:   desk,
		logger: logger,
	}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "desktop_snapshot",
		Description: "Return the whole desktop: viewport, open windows from bottom to top with geometry and state, the process registry, and the taskbar buttons.",
	}, s.handleSnapshot)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_applets",
		Description: "List the start menu: every applet kind that launch_applet accepts, with its window title and default size.",
	}, s.handleListApplets)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "open_window",
		Description: "Open a window with the given title. Titles are unique among open windows. The window is registered on the taskbar and raised to the front.",
	}, s.handleOpenWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "launch_applet",
		Description: "Open the start menu applet of the given kind, or bring it to the front when it is already open.",
	}, s.handleLaunchApplet)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "close_window",
		Description: "Close a window and remove its taskbar button.",
	}, s.handleCloseWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "minimize_window",
		Description: "Minimize a window. It stays on the taskbar and is restored by taskbar_click.",
	}, s.handleMinimizeWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "toggle_maximize",
		Description: "Maximize a window to fill the viewport, or restore its previous geometry when already maximized.",
	}, s.handleToggleMaximize)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "raise_window",
		Description: "Bring a window to the front of the stacking order.",
	}, s.handleRaiseWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "taskbar_click",
		Description: "Click the taskbar button for a process name: restores a minimized window, otherwise brings it to the front. Returns how many windows responded.",
	}, s.handleTaskbarClick)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "move_window",
		Description: "Drag a window by its title bar so its top-left corner lands at x,y. The window is kept fully inside the viewport.",
	}, s.handleMoveWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "resize_window",
		Description: "Drag one edge or corner of a window by dx,dy pixels. Size limits apply first, then the viewport.",
	}, s.handleResizeWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "arrange_windows",
		Description: "Arrange all visible windows: cascade, grid, vertical or horizontal.",
	}, s.handleArrange)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "save_session",
		Description: "Save the current window layout under a name.",
	}, s.handleSaveSession)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "load_session",
		Description: "Re-open the windows of a saved layout. Open windows are closed first unless no_replace is set.",
	}, s.handleLoadSession)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_sessions",
		Description: "List saved session names.",
	}, s.handleListSessions)
}
