package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
)

// Dir returns the runtime directory holding the daemon socket and its
// last-known desktop state. Priority:
// 1) DESKSHELL_RUNTIME_DIR (if set)
// 2) XDG_RUNTIME_DIR (if set)
// 3) /run/user/<uid> (if present)
// 4) /tmp/deskshell-runtime-<uid> (created)
func Dir() (string, error) {
	if dir := os.Getenv("DESKSHELL_RUNTIME_DIR"); dir != "" {
		return dir, nil
	}
	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		return runtimeDir, nil
	}

	uid := os.Getuid()
	runUserDir := fmt.Sprintf("/run/user/%d", uid)
	if info, err := os.Stat(runUserDir); err == nil && info.IsDir() {
		return runUserDir, nil
	}

	tmpDir := fmt.Sprintf("/tmp/deskshell-runtime-%d", uid)
	if err := os.MkdirAll(tmpDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	return tmpDir, nil
}

// SocketPath returns the daemon IPC socket path.
func SocketPath() (string, error) {
	runtimeDir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(runtimeDir, "deskshell.sock"), nil
}

// StatePath returns the file the daemon keeps its desktop layout in.
func StatePath() (string, error) {
	runtimeDir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(runtimeDir, "deskshell-state.json"), nil
}
