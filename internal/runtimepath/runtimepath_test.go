package runtimepath

import (
	"fmt"
	"os"
	"strings"
	"testing"
)

func TestDir_PrefersDeskshellRuntimeDir(t *testing.T) {
	own := t.TempDir()
	t.Setenv("DESKSHELL_RUNTIME_DIR", own)
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())

	got, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}
	if got != own {
		t.Fatalf("Dir() = %q, want %q", got, own)
	}
}

func TestDir_UsesXDGRuntimeDirWhenSet(t *testing.T) {
	td := t.TempDir()
	t.Setenv("DESKSHELL_RUNTIME_DIR", "")
	t.Setenv("XDG_RUNTIME_DIR", td)

	got, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}
	if got != td {
		t.Fatalf("Dir() = %q, want %q", got, td)
	}
}

func TestDir_FallbacksWhenXDGRuntimeDirMissing(t *testing.T) {
	t.Setenv("DESKSHELL_RUNTIME_DIR", "")
	t.Setenv("XDG_RUNTIME_DIR", "")

	got, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}
	if got == "" {
		t.Fatal("Dir() returned empty path")
	}

	wantRun := fmt.Sprintf("/run/user/%d", os.Getuid())
	wantTmp := fmt.Sprintf("/tmp/deskshell-runtime-%d", os.Getuid())
	if got != wantRun && got != wantTmp {
		t.Fatalf("Dir() = %q, want %q or %q", got, wantRun, wantTmp)
	}
}

func TestSocketPathAndStatePath(t *testing.T) {
	t.Setenv("DESKSHELL_RUNTIME_DIR", "")
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())

	socket, err := SocketPath()
	if err != nil {
		t.Fatalf("SocketPath() error: %v", err)
	}
	if !strings.HasSuffix(socket, "/deskshell.sock") {
		t.Fatalf("SocketPath() = %q, missing suffix", socket)
	}

	state, err := StatePath()
	if err != nil {
		t.Fatalf("StatePath() error: %v", err)
	}
	if !strings.HasSuffix(state, "/deskshell-state.json") {
		t.Fatalf("StatePath() = %q, missing suffix", state)
	}
}
