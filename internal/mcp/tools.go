package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/deskshell/internal/desktop"
	"github.com/1broseidon/deskshell/internal/geometry"
)

func (s *Server) handleSnapshot(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, SnapshotOutput, error) {
	snap, err := s.desk.Snapshot()
	if err != nil {
		return nil, SnapshotOutput{}, err
	}
	out := SnapshotOutput{
		Viewport:  snap.Viewport,
		Windows:   snap.Windows,
		Processes: snap.Processes,
		Taskbar:   snap.Taskbar,
	}
	if out.Windows == nil {
		out.Windows = []desktop.WindowInfo{}
	}
	return nil, out, nil
}

func (s *Server) handleListApplets(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, ListAppletsOutput, error) {
	applets, err := s.desk.ListApplets()
	if err != nil {
		return nil, ListAppletsOutput{}, err
	}
	if applets == nil {
		applets = []desktop.Applet{}
	}
	return nil, ListAppletsOutput{Applets: applets}, nil
}

func (s *Server) handleOpenWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args OpenWindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	title := strings.TrimSpace(args.Title)
	if title == "" {
		return nil, WindowOutput{}, fmt.Errorf("title is required")
	}
	req := desktop.OpenRequest{
		Title: title,
		Kind:  args.Kind,
		Type:  args.Type,
		Icon:  args.Icon,
		Size:  geometry.Size{Width: args.Width, Height: args.Height},
	}
	if args.X != nil || args.Y != nil {
		var p geometry.Point
		if args.X != nil {
			p.X = *args.X
		}
		if args.Y != nil {
			p.Y = *args.Y
		}
		req.Position = &p
	}
	info, err := s.desk.Open(req)
	if err != nil {
		return nil, WindowOutput{}, err
	}
	s.logger.Info("mcp opened window", "title", info.Title, "rect", info.Rect.String())
	return nil, WindowOutput{Window: info}, nil
}

func (s *Server) handleLaunchApplet(_ context.Context, _ *mcpsdk.CallToolRequest, args LaunchAppletInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	if strings.TrimSpace(args.Kind) == "" {
		return nil, WindowOutput{}, fmt.Errorf("kind is required")
	}
	info, err := s.desk.Launch(args.Kind)
	if err != nil {
		return nil, WindowOutput{}, err
	}
	s.logger.Info("mcp launched applet", "kind", args.Kind, "title", info.Title)
	return nil, WindowOutput{Window: info}, nil
}

func (s *Server) handleCloseWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args TitleInput) (*mcpsdk.CallToolResult, CloseWindowOutput, error) {
	if err := s.desk.Close(args.Title); err != nil {
		return nil, CloseWindowOutput{}, err
	}
	s.logger.Info("mcp closed window", "title", args.Title)
	return nil, CloseWindowOutput{Closed: args.Title}, nil
}

func (s *Server) handleMinimizeWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args TitleInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	return s.windowResult(s.desk.Minimize(args.Title))
}

func (s *Server) handleToggleMaximize(_ context.Context, _ *mcpsdk.CallToolRequest, args TitleInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	return s.windowResult(s.desk.ToggleMaximize(args.Title))
}

func (s *Server) handleRaiseWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args TitleInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	return s.windowResult(s.desk.Raise(args.Title))
}

func (s *Server) handleTaskbarClick(_ context.Context, _ *mcpsdk.CallToolRequest, args TaskbarClickInput) (*mcpsdk.CallToolResult, TaskbarClickOutput, error) {
	handled, err := s.desk.Click(args.Name)
	if err != nil {
		return nil, TaskbarClickOutput{}, err
	}
	return nil, TaskbarClickOutput{Handled: handled}, nil
}

func (s *Server) handleMoveWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args MoveWindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	return s.windowResult(s.desk.Move(args.Title, geometry.Point{X: args.X, Y: args.Y}))
}

func (s *Server) handleResizeWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args ResizeWindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	edge, err := geometry.ParseEdge(args.Edge)
	if err != nil {
		return nil, WindowOutput{}, err
	}
	return s.windowResult(s.desk.Resize(args.Title, edge, args.DX, args.DY))
}

func (s *Server) handleArrange(_ context.Context, _ *mcpsdk.CallToolRequest, args ArrangeInput) (*mcpsdk.CallToolResult, WindowsOutput, error) {
	var mode geometry.ArrangeMode
	if args.Mode != "" {
		var err error
		if mode, err = geometry.ParseArrangeMode(args.Mode); err != nil {
			return nil, WindowsOutput{}, err
		}
	}
	windows, err := s.desk.Arrange(mode)
	if err != nil {
		return nil, WindowsOutput{}, err
	}
	if windows == nil {
		windows = []desktop.WindowInfo{}
	}
	return nil, WindowsOutput{Windows: windows}, nil
}

func (s *Server) handleSaveSession(_ context.Context, _ *mcpsdk.CallToolRequest, args SessionInput) (*mcpsdk.CallToolResult, SaveSessionOutput, error) {
	data, err := s.desk.SaveSession(args.Name)
	if err != nil {
		return nil, SaveSessionOutput{}, err
	}
	s.logger.Info("mcp saved session", "name", data.Name, "windows", data.Windows)
	return nil, SaveSessionOutput{Name: data.Name, Windows: data.Windows}, nil
}

func (s *Server) handleLoadSession(_ context.Context, _ *mcpsdk.CallToolRequest, args SessionInput) (*mcpsdk.CallToolResult, LoadSessionOutput, error) {
	res, err := s.desk.LoadSession(args.Name, args.NoReplace)
	if err != nil {
		return nil, LoadSessionOutput{}, err
	}
	out := LoadSessionOutput{Closed: res.Closed, Opened: res.Opened, Skipped: res.Skipped}
	if out.Opened == nil {
		out.Opened = []string{}
	}
	s.logger.Info("mcp loaded session", "name", args.Name, "opened", len(out.Opened), "skipped", len(out.Skipped))
	return nil, out, nil
}

func (s *Server) handleListSessions(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, ListSessionsOutput, error) {
	names, err := s.desk.ListSessions()
	if err != nil {
		return nil, ListSessionsOutput{}, err
	}
	if names == nil {
		names = []string{}
	}
	return nil, ListSessionsOutput{Sessions: names}, nil
}

func (s *Server) windowResult(info desktop.WindowInfo, err error) (*mcpsdk.CallToolResult, WindowOutput, error) {
	if err != nil {
		return nil, WindowOutput{}, err
	}
	return nil, WindowOutput{Window: info}, nil
}
