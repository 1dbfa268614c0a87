package x11

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

var (
	readDirFn  = os.ReadDir
	statFn     = os.Stat
	homeDirFn  = os.UserHomeDir
	getenvFn   = os.Getenv
	socketsDir = "/tmp/.X11-unix"
)

// ResolveDisplay picks the X display and authority file to connect to.
// The environment wins over configured values; when neither names a display
// the highest-numbered local X socket is used, and ~/.Xauthority is tried
// when no authority file is known.
func ResolveDisplay(display, xauthority string) (string, string) {
	if d := strings.TrimSpace(getenvFn("DISPLAY")); d != "" {
		display = d
	}
	if x := strings.TrimSpace(getenvFn("XAUTHORITY")); x != "" {
		xauthority = x
	}
	display = strings.TrimSpace(display)
	xauthority = strings.TrimSpace(xauthority)

	if display == "" {
		display = displayFromSockets(socketsDir)
	}
	if xauthority == "" {
		if home, err := homeDirFn(); err == nil && home != "" {
			candidate := filepath.Join(home, ".Xauthority")
			if _, err := statFn(candidate); err == nil {
				xauthority = candidate
			}
		}
	}
	return display, xauthority
}

func displayFromSockets(dir string) string {
	entries, err := readDirFn(dir)
	if err != nil {
		return ""
	}

	var displays []int
	for _, entry := range entries {
		name := entry.Name()
		if len(name) < 2 || name[0] != 'X' {
			continue
		}
		n, err := strconv.Atoi(name[1:])
		if err != nil {
			continue
		}
		displays = append(displays, n)
	}

	if len(displays) == 0 {
		return ""
	}
	sort.Ints(displays)
	return fmt.Sprintf(":%d", displays[len(displays)-1])
}
