package ipc

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/deskshell/internal/config"
	"github.com/1broseidon/deskshell/internal/desktop"
	"github.com/1broseidon/deskshell/internal/geometry"
	"github.com/1broseidon/deskshell/internal/runtimepath"
	"github.com/1broseidon/deskshell/internal/session"
)

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	cfg          *config.Config
	cfgMu        sync.RWMutex
	desk         *desktop.Desktop
	sessions     *session.Store
	logger       *slog.Logger
	startTime    time.Time
	reloadChan   chan struct{}
	loadConfig   func() (*config.Config, error)
	shuttingDown bool
	shutdownMu   sync.Mutex
	wg           sync.WaitGroup
}

// NewServer creates a new IPC server on the default runtime socket.
func NewServer(cfg *config.Config, desk *desktop.Desktop, sessions *session.Store, reloadChan chan struct{}, logger *slog.Logger) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}
	return NewServerAt(socketPath, cfg, desk, sessions, reloadChan, logger), nil
}

// NewServerAt creates a new IPC server listening on socketPath.
func NewServerAt(socketPath string, cfg *config.Config, desk *desktop.Desktop, sessions *session.Store, reloadChan chan struct{}, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		cfg:        cfg,
		desk:       desk,
		sessions:   sessions,
		logger:     logger,
		startTime:  time.Now(),
		reloadChan: reloadChan,
		loadConfig: config.Load,
	}
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string { return s.socketPath }

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("IPC server listening", "socket", s.socketPath)

	s.wg.Add(1)
	go s.acceptLoop()

	return nil
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			done := s.shuttingDown
			s.shutdownMu.Unlock()
			if done || errors.Is(err, net.ErrClosed) {
				return
			}
			s.logger.Warn("IPC accept error", "error", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// One JSON request per line.
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("IPC read error", "error", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	resp := s.handleCommand(req)

	respData, err := resp.Marshal()
	if err != nil {
		s.logger.Error("failed to marshal response", "command", req.Command, "error", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.logger.Warn("failed to send response", "command", req.Command, "error", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	s.logger.Debug("IPC request", "command", req.Command)

	switch req.Command {
	case CommandReload:
		return s.handleReload()
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandSnapshot:
		return ok(s.desk.Snapshot())
	case CommandListWindows:
		return ok(WindowsData{Windows: s.desk.Windows()})
	case CommandListProcesses:
		return ok(ProcessesData{Processes: s.desk.Processes()})
	case CommandListApplets:
		return ok(AppletsData{Applets: s.desk.Applets()})
	case CommandOpenWindow:
		return s.handleOpen(req.Payload)
	case CommandLaunchApplet:
		return s.handleLaunch(req.Payload)
	case CommandCloseWindow:
		return s.handleClose(req.Payload)
	case CommandMinimizeWindow:
		return s.withTitle(req.Payload, s.desk.Minimize)
	case CommandToggleMaximize:
		return s.withTitle(req.Payload, s.desk.ToggleMaximize)
	case CommandRaiseWindow:
		return s.withTitle(req.Payload, s.desk.Raise)
	case CommandTaskbarClick:
		return s.handleClick(req.Payload)
	case CommandMoveWindow:
		return s.handleMove(req.Payload)
	case CommandResizeWindow:
		return s.handleResize(req.Payload)
	case CommandArrange:
		return s.handleArrange(req.Payload)
	case CommandPointer:
		return s.handlePointer(req.Payload)
	case CommandSetViewport:
		return s.handleSetViewport(req.Payload)
	case CommandSaveSession:
		return s.handleSaveSession(req.Payload)
	case CommandLoadSession:
		return s.handleLoadSession(req.Payload)
	case CommandListSessions:
		return s.handleListSessions()
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func ok(data any) *Response {
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func decode(payload json.RawMessage, out any) error {
	if len(payload) == 0 {
		return fmt.Errorf("missing payload")
	}
	return json.Unmarshal(payload, out)
}

// handleReload reloads the configuration
func (s *Server) handleReload() *Response {
	s.logger.Info("IPC: received RELOAD command")

	newCfg, err := s.loadConfig()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
	}

	s.cfgMu.Lock()
	s.cfg = newCfg
	s.cfgMu.Unlock()

	// Notify the main daemon via channel (non-blocking)
	select {
	case s.reloadChan <- struct{}{}:
	default:
	}

	s.logger.Info("IPC: config reloaded")
	return ok(nil)
}

func (s *Server) handleGetStatus() *Response {
	cfg := s.GetConfig()
	status := StatusData{
		WindowCount:   len(s.desk.Windows()),
		ProcessCount:  len(s.desk.Processes()),
		Viewport:      s.desk.Viewport(),
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		DaemonRunning: true,
	}
	if cfg != nil {
		status.MatchBy = cfg.Activation.MatchBy
		status.Duplicates = cfg.Registry.Duplicates
	}
	return ok(status)
}

func (s *Server) handleOpen(payload json.RawMessage) *Response {
	var req desktop.OpenRequest
	if err := decode(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid open payload: %v", err))
	}
	if req.Title == "" {
		return NewErrorResponse("title is required")
	}
	info, err := s.desk.Open(req)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to open window: %v", err))
	}
	return ok(info)
}

func (s *Server) handleLaunch(payload json.RawMessage) *Response {
	var req LaunchPayload
	if err := decode(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid launch payload: %v", err))
	}
	info, err := s.desk.Launch(req.Kind)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to launch applet: %v", err))
	}
	return ok(info)
}

func (s *Server) handleClose(payload json.RawMessage) *Response {
	var req TitlePayload
	if err := decode(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid close payload: %v", err))
	}
	if err := s.desk.Close(req.Title); err != nil {
		return NewErrorResponse(err.Error())
	}
	return ok(nil)
}

func (s *Server) withTitle(payload json.RawMessage, fn func(string) (desktop.WindowInfo, error)) *Response {
	var req TitlePayload
	if err := decode(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid payload: %v", err))
	}
	info, err := fn(req.Title)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return ok(info)
}

func (s *Server) handleClick(payload json.RawMessage) *Response {
	var req ClickPayload
	if err := decode(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid click payload: %v", err))
	}
	handled, err := s.desk.Click(req.Name)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return ok(ClickData{Handled: handled})
}

func (s *Server) handleMove(payload json.RawMessage) *Response {
	var req MovePayload
	if err := decode(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid move payload: %v", err))
	}
	info, err := s.desk.Move(req.Title, geometry.Point{X: req.X, Y: req.Y})
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return ok(info)
}

func (s *Server) handleResize(payload json.RawMessage) *Response {
	var req ResizePayload
	if err := decode(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid resize payload: %v", err))
	}
	if !req.Edge.Valid() {
		return NewErrorResponse(fmt.Sprintf("invalid edge %q", req.Edge))
	}
	info, err := s.desk.Resize(req.Title, req.Edge, req.DX, req.DY)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return ok(info)
}

func (s *Server) handleArrange(payload json.RawMessage) *Response {
	var req ArrangePayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &req); err != nil {
			return NewErrorResponse(fmt.Sprintf("Invalid arrange payload: %v", err))
		}
	}
	mode := req.Mode
	if mode == "" {
		if cfg := s.GetConfig(); cfg != nil {
			mode = geometry.ArrangeMode(cfg.Arrange.DefaultMode)
		}
	}
	if mode == "" {
		mode = geometry.ArrangeCascade
	}
	mode, err := geometry.ParseArrangeMode(string(mode))
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	windows, err := s.desk.Arrange(mode)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return ok(WindowsData{Windows: windows})
}

func (s *Server) handlePointer(payload json.RawMessage) *Response {
	var req PointerPayload
	if err := decode(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid pointer payload: %v", err))
	}
	p := geometry.Point{X: req.X, Y: req.Y}
	var data PointerData
	switch req.Action {
	case PointerDown:
		if hit, found := s.desk.PointerDown(p); found {
			data.Hit = &hit
			data.Changed = true
		}
	case PointerMove:
		data.Changed = s.desk.PointerMove(p)
	case PointerUp:
		s.desk.PointerUp()
		data.Changed = true
	case PointerLeave:
		s.desk.PointerLeave()
		data.Changed = true
	default:
		return NewErrorResponse(fmt.Sprintf("invalid pointer action %q", req.Action))
	}
	return ok(data)
}

func (s *Server) handleSetViewport(payload json.RawMessage) *Response {
	var req ViewportPayload
	if err := decode(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid viewport payload: %v", err))
	}
	if req.Width <= 0 || req.Height <= 0 {
		return NewErrorResponse("viewport width and height must be positive")
	}
	s.desk.SetViewport(geometry.Rect{Width: req.Width, Height: req.Height})
	return ok(s.desk.Snapshot())
}

func (s *Server) handleSaveSession(payload json.RawMessage) *Response {
	if s.sessions == nil {
		return NewErrorResponse("session storage is not configured")
	}
	var req SessionPayload
	if err := decode(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid session payload: %v", err))
	}
	layout := session.Capture(req.Name, s.desk)
	if err := s.sessions.Write(layout); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to save session: %v", err))
	}
	s.logger.Info("session saved", "name", req.Name, "windows", len(layout.Windows))
	return ok(SaveSessionData{Name: req.Name, Windows: len(layout.Windows)})
}

func (s *Server) handleLoadSession(payload json.RawMessage) *Response {
	if s.sessions == nil {
		return NewErrorResponse("session storage is not configured")
	}
	var req SessionPayload
	if err := decode(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid session payload: %v", err))
	}
	layout, err := s.sessions.Read(req.Name)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to load session: %v", err))
	}
	res, err := session.Restore(s.desk, layout, session.RestoreOptions{NoReplace: req.NoReplace})
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to restore session: %v", err))
	}
	s.logger.Info("session loaded", "name", req.Name, "opened", len(res.Opened), "skipped", len(res.Skipped))
	return ok(res)
}

func (s *Server) handleListSessions() *Response {
	if s.sessions == nil {
		return ok(SessionsData{Sessions: []string{}})
	}
	names, err := s.sessions.List()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to list sessions: %v", err))
	}
	if names == nil {
		names = []string{}
	}
	return ok(SessionsData{Sessions: names})
}

// sendError sends an error response
func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
		s.wg.Wait()
	}
	os.Remove(s.socketPath)
}

// GetConfig returns the current config (thread-safe)
func (s *Server) GetConfig() *config.Config {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.cfg
}

// UpdateConfig updates the config (thread-safe)
func (s *Server) UpdateConfig(cfg *config.Config) {
	s.cfgMu.Lock()
	defer s.cfgMu.Unlock()
	s.cfg = cfg
}
