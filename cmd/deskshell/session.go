package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/1broseidon/deskshell/internal/ipc"
)

func printSessionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  deskshell session save <name>")
	fmt.Fprintln(w, "  deskshell session load [--no-replace] <name>")
	fmt.Fprintln(w, "  deskshell session list")
}

func runSession(args []string) int {
	if len(args) == 0 {
		printSessionUsage(os.Stderr)
		return 2
	}
	if isHelp(args[0]) {
		printSessionUsage(os.Stdout)
		return 0
	}

	client := ipc.NewClient()

	switch args[0] {
	case "save":
		fs := newFlagSet("save", "session save <name>", "Save the current window layout.")
		if code, ok := parseFlags(fs, args[1:]); !ok {
			return code
		}
		if fs.NArg() != 1 {
			fmt.Fprintln(os.Stderr, "session save requires exactly one <name>")
			return 2
		}
		data, err := client.SaveSession(fs.Arg(0))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("saved %s (%d windows)\n", data.Name, data.Windows)
		return 0

	case "load":
		fs := newFlagSet("load", "session load [--no-replace] <name>", "Restore a saved layout. Open windows are closed first.")
		noReplace := fs.Bool("no-replace", false, "Keep open windows; skip saved windows whose titles are taken")
		if code, ok := parseFlags(fs, args[1:]); !ok {
			return code
		}
		if fs.NArg() != 1 {
			fmt.Fprintln(os.Stderr, "session load requires exactly one <name>")
			return 2
		}
		res, err := client.LoadSession(fs.Arg(0), *noReplace)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("closed:  %d\n", res.Closed)
		fmt.Printf("opened:  %s\n", strings.Join(res.Opened, ", "))
		if len(res.Skipped) > 0 {
			fmt.Printf("skipped: %s\n", strings.Join(res.Skipped, ", "))
		}
		return 0

	case "list":
		names, err := client.ListSessions()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		for _, name := range names {
			fmt.Printf("- %s\n", name)
		}
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown session command: %s\n\n", args[0])
		printSessionUsage(os.Stderr)
		return 2
	}
}
