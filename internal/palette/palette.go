// Package palette shows the start menu through an external dmenu-style
// launcher (rofi, fuzzel, wofi or dmenu) so it can be bound to a desktop
// hotkey outside the terminal.
package palette

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrCancelled is returned when the user closes the palette without selecting an item.
var ErrCancelled = errors.New("palette cancelled")

// Item is a single row in the palette.
type Item struct {
	Label    string
	Action   string // returned to the caller on selection
	Icon     string // icon name, shown by backends that support icons
	Meta     string // hidden search keywords
	IsHeader bool   // non-selectable section header
	IsActive bool   // highlighted row
}

// Backend shows items to the user and returns the selected one.
type Backend interface {
	Show(prompt string, items []Item, message string) (Item, error)
}

// backendOrder is the detection priority.
var backendOrder = []string{"rofi", "fuzzel", "wofi", "dmenu"}

var lookPath = exec.LookPath

// DetectBackend returns the first palette backend found in PATH.
func DetectBackend() (string, error) {
	for _, name := range backendOrder {
		if _, err := lookPath(name); err == nil {
			return name, nil
		}
	}
	return "", fmt.Errorf("no palette backend found in PATH (looked for: %s)", strings.Join(backendOrder, ", "))
}

// NewBackend creates a backend by name. Supported names: auto, rofi,
// fuzzel, wofi, dmenu.
func NewBackend(name string) (Backend, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "auto" {
		detected, err := DetectBackend()
		if err != nil {
			return nil, err
		}
		name = detected
	}
	l, ok := launchers[name]
	if !ok {
		return nil, fmt.Errorf("unknown palette backend: %q (expected: auto, %s)", name, strings.Join(backendOrder, ", "))
	}
	if _, err := lookPath(l.command); err != nil {
		return nil, fmt.Errorf("palette backend %q not found in PATH", l.command)
	}
	return l.withRunner(runCommand), nil
}
