package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/1broseidon/deskshell/internal/desktop"
	"github.com/1broseidon/deskshell/internal/geometry"
	"github.com/1broseidon/deskshell/internal/ipc"
)

func printWindow(w desktop.WindowInfo) {
	fmt.Printf("%-24s %-10s z=%-4d %s\n", w.Title, w.Mode, w.ZIndex, w.Rect)
}

func runWindows(args []string) int {
	fs := newFlagSet("windows", "windows [--json]", "List open windows from bottom to top.")
	jsonOut := fs.Bool("json", false, "Output window details as JSON")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "windows takes no arguments")
		fs.Usage()
		return 2
	}

	windows, err := ipc.NewClient().ListWindows()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *jsonOut {
		return printJSON(windows)
	}
	if len(windows) == 0 {
		fmt.Println("no windows open")
		return 0
	}
	for _, w := range windows {
		printWindow(w)
	}
	return 0
}

func runProcesses(args []string) int {
	fs := newFlagSet("processes", "processes [--json]", "List the process registry in taskbar order.")
	jsonOut := fs.Bool("json", false, "Output records as JSON")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "processes takes no arguments")
		fs.Usage()
		return 2
	}

	data, err := ipc.NewClient().ListProcesses()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *jsonOut {
		return printJSON(data)
	}
	for _, p := range data.Processes {
		fmt.Printf("%-24s %-9s %s\n", p.Name, p.State, p.Icon)
	}
	return 0
}

func runApplets(args []string) int {
	fs := newFlagSet("applets", "applets", "List the start menu applets accepted by 'deskshell launch'.")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	applets, err := ipc.NewClient().ListApplets()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	for _, a := range applets {
		fmt.Printf("%-16s %-20s %dx%d\n", a.Kind, a.Title, a.Size.Width, a.Size.Height)
	}
	return 0
}

func runOpen(args []string) int {
	fs := newFlagSet("open", "open [flags] <title>", "Open a window with a unique title.")
	kind := fs.String("kind", "", "Applet kind the window belongs to")
	typ := fs.String("type", "", "Window type used for activation matching")
	icon := fs.String("icon", "", "Taskbar icon path")
	x := fs.Int("x", 0, "Left edge (default: cascade position)")
	y := fs.Int("y", 0, "Top edge (default: cascade position)")
	width := fs.Int("width", 0, "Width in pixels (default: window_defaults.width)")
	height := fs.Int("height", 0, "Height in pixels (default: window_defaults.height)")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "open requires exactly one <title>")
		fs.Usage()
		return 2
	}

	req := desktop.OpenRequest{
		Title: fs.Arg(0),
		Kind:  *kind,
		Type:  *typ,
		Icon:  *icon,
		Size:  geometry.Size{Width: *width, Height: *height},
	}
	positioned := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "x" || f.Name == "y" {
			positioned = true
		}
	})
	if positioned {
		req.Position = &geometry.Point{X: *x, Y: *y}
	}

	info, err := ipc.NewClient().Open(req)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	printWindow(info)
	return 0
}

func runLaunch(args []string) int {
	fs := newFlagSet("launch", "launch <kind>", "Open a start menu applet, or bring it to the front if it is already open.")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "launch requires exactly one <kind>")
		fs.Usage()
		return 2
	}
	info, err := ipc.NewClient().Launch(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	printWindow(info)
	return 0
}

func runClose(args []string) int {
	fs := newFlagSet("close", "close <title>", "Close a window and remove its taskbar button.")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "close requires exactly one <title>")
		fs.Usage()
		return 2
	}
	if err := ipc.NewClient().Close(fs.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runTitleCommand(name, description string, args []string, fn func(*ipc.Client, string) (desktop.WindowInfo, error)) int {
	fs := newFlagSet(name, name+" <title>", description)
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "%s requires exactly one <title>\n", name)
		fs.Usage()
		return 2
	}
	info, err := fn(ipc.NewClient(), fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	printWindow(info)
	return 0
}

func runClick(args []string) int {
	fs := newFlagSet("click", "click <name>", "Click the taskbar button of a process: restores it when minimized, otherwise brings it to the front.")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "click requires exactly one <name>")
		fs.Usage()
		return 2
	}
	handled, err := ipc.NewClient().Click(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("handled: %d\n", handled)
	return 0
}

func runMove(args []string) int {
	fs := newFlagSet("move", "move <title> <x> <y>", "Drag a window so its top-left corner lands at x,y. The window stays on screen.")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 3 {
		fmt.Fprintln(os.Stderr, "move requires <title> <x> <y>")
		fs.Usage()
		return 2
	}
	nums, err := parseInts(fs.Args()[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	info, err := ipc.NewClient().Move(fs.Arg(0), geometry.Point{X: nums[0], Y: nums[1]})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	printWindow(info)
	return 0
}

func runResize(args []string) int {
	fs := newFlagSet("resize", "resize <title> <edge> <dx> <dy>", "Drag a window edge (n, s, e, w, ne, nw, se, sw) by dx,dy pixels.")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 4 {
		fmt.Fprintln(os.Stderr, "resize requires <title> <edge> <dx> <dy>")
		fs.Usage()
		return 2
	}
	edge, err := geometry.ParseEdge(fs.Arg(1))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	nums, err := parseInts(fs.Args()[2:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	info, err := ipc.NewClient().Resize(fs.Arg(0), edge, nums[0], nums[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	printWindow(info)
	return 0
}

func runArrange(args []string) int {
	fs := newFlagSet("arrange", "arrange [cascade|grid|vertical|horizontal]", "Arrange visible windows (default: arrange.default_mode).")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() > 1 {
		fs.Usage()
		return 2
	}
	var mode geometry.ArrangeMode
	if fs.NArg() == 1 {
		var err error
		if mode, err = geometry.ParseArrangeMode(fs.Arg(0)); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
	}
	windows, err := ipc.NewClient().Arrange(mode)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	for _, w := range windows {
		printWindow(w)
	}
	return 0
}

func parseInts(args []string) ([]int, error) {
	out := make([]int, len(args))
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", a)
		}
		out[i] = n
	}
	return out, nil
}
