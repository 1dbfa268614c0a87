package palette

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"os/exec"
	"strconv"
	"strings"
)

// runner executes command with stdin and returns its trimmed stdout.
type runner func(command string, args []string, stdin string) (string, error)

// launcher drives one dmenu-compatible program.
type launcher struct {
	command string
	// indexOutput backends print the selected row index instead of its text.
	indexOutput bool
	markup      bool
	// rowProps enables rofi's "\0key\x1fvalue" row properties.
	rowProps bool
	run      runner
}

var launchers = map[string]launcher{
	"rofi":   {command: "rofi", indexOutput: true, markup: true, rowProps: true},
	"fuzzel": {command: "fuzzel", indexOutput: true},
	"wofi":   {command: "wofi", markup: true},
	"dmenu":  {command: "dmenu"},
}

func (l launcher) withRunner(run runner) *launcher {
	l.run = run
	return &l
}

func (l *launcher) Show(prompt string, items []Item, message string) (Item, error) {
	if len(items) == 0 {
		return Item{}, fmt.Errorf("palette: no items to show")
	}
	labels := l.labels(items)
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = l.formatRow(item, labels[i])
	}

	out, err := l.run(l.command, l.args(prompt, message, items), strings.Join(lines, "\n"))
	if err != nil {
		if out == "" && isCancelExit(err) {
			return Item{}, ErrCancelled
		}
		return Item{}, err
	}
	if out == "" {
		return Item{}, ErrCancelled
	}
	return l.parseSelection(out, items, labels)
}

func (l *launcher) args(prompt, message string, items []Item) []string {
	var args []string
	switch l.command {
	case "rofi":
		args = []string{"-dmenu", "-i", "-format", "i", "-no-custom", "-markup-rows", "-show-icons"}
		if prompt != "" {
			args = append(args, "-p", prompt)
		}
		var active []string
		selected := -1
		for i, item := range items {
			if item.IsHeader {
				continue
			}
			if selected < 0 {
				selected = i
			}
			if item.IsActive {
				active = append(active, strconv.Itoa(i))
			}
		}
		if len(active) > 0 {
			args = append(args, "-a", strings.Join(active, ","))
		}
		if selected >= 0 {
			args = append(args, "-selected-row", strconv.Itoa(selected))
		}
		if message != "" {
			args = append(args, "-mesg", message)
		}
	case "fuzzel":
		args = []string{"--dmenu", "--index"}
		if prompt != "" {
			args = append(args, "--prompt", prompt)
		}
	case "wofi":
		args = []string{"--dmenu", "--allow-markup", "--allow-images"}
		if prompt != "" {
			args = append(args, "--prompt", prompt)
		}
	default:
		args = []string{"-i"}
		if prompt != "" {
			args = append(args, "-p", prompt)
		}
	}
	return args
}

// labels returns the visible text of each row. Backends that answer with
// row text get duplicate labels numbered so a selection maps back to one row.
func (l *launcher) labels(items []Item) []string {
	out := make([]string, len(items))
	seen := make(map[string]int)
	for i, item := range items {
		label := sanitizeLabel(item.Label)
		if !l.indexOutput && !item.IsHeader {
			if n := seen[label]; n > 0 {
				label = fmt.Sprintf("%s (%d)", label, n+1)
			}
			seen[sanitizeLabel(item.Label)]++
		}
		out[i] = label
	}
	return out
}

func (l *launcher) formatRow(item Item, label string) string {
	display := label
	if l.markup {
		display = html.EscapeString(display)
		if item.IsHeader {
			display = "<b>" + display + "</b>"
		}
	}
	if !l.rowProps {
		return display
	}

	var attrs []string
	if item.IsHeader {
		attrs = append(attrs, "nonselectable", "true")
	}
	if item.Icon != "" {
		attrs = append(attrs, "icon", sanitizeField(item.Icon))
	}
	if item.Meta != "" {
		attrs = append(attrs, "meta", sanitizeField(item.Meta))
	}
	if len(attrs) == 0 {
		return display
	}
	// A single NUL starts the property list; pairs are separated by \x1f.
	return display + "\x00" + strings.Join(attrs, "\x1f")
}

func (l *launcher) parseSelection(selection string, items []Item, labels []string) (Item, error) {
	if l.indexOutput {
		if idx, err := strconv.Atoi(selection); err == nil {
			if idx < 0 || idx >= len(items) {
				return Item{}, fmt.Errorf("palette: index %d out of range", idx)
			}
			return items[idx], nil
		}
	}
	for i, label := range labels {
		if label == selection {
			return items[i], nil
		}
	}
	return Item{}, fmt.Errorf("palette: unknown selection %q", selection)
}

func runCommand(command string, args []string, stdin string) (string, error) {
	cmd := exec.Command(command, args...)
	cmd.Stdin = strings.NewReader(stdin)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	selection := strings.TrimSpace(string(out))
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" && !isCancelExit(err) {
			return selection, fmt.Errorf("%s failed: %s: %w", command, msg, err)
		}
		return selection, err
	}
	return selection, nil
}

func sanitizeLabel(label string) string {
	label = strings.ReplaceAll(label, "\r", " ")
	label = strings.ReplaceAll(label, "\n", " ")
	return strings.TrimSpace(label)
}

func sanitizeField(value string) string {
	value = strings.ReplaceAll(value, "\x00", " ")
	value = strings.ReplaceAll(value, "\x1f", " ")
	return sanitizeLabel(value)
}

// isCancelExit reports whether err is the "nothing selected" exit of a
// dmenu-style program: 1 for Escape, 130 for Ctrl+C.
func isCancelExit(err error) bool {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return false
	}
	switch exitErr.ExitCode() {
	case 1, 130:
		return true
	default:
		return false
	}
}
