package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestDefaultConfig_ValidAndHasBuiltinApplets(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	for _, kind := range []string{"works", "chapters", "characters", "relationships", "events", "timelines", "world-notes", "ai-chat"} {
		if _, ok := cfg.Applets[kind]; !ok {
			t.Fatalf("expected builtin applet %q", kind)
		}
	}
	if cfg.Activation.MatchBy != "either" || cfg.Registry.Duplicates != "upsert" {
		t.Fatalf("unexpected activation/registry defaults: %+v %+v", cfg.Activation, cfg.Registry)
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Viewport.Width != DefaultViewportWidth || len(res.Files) != 0 {
		t.Fatalf("expected defaults, got %+v files=%v", res.Config.Viewport, res.Files)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "# empty\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.LogLevel != "info" {
		t.Fatalf("expected log_level info, got %q", res.Config.LogLevel)
	}
}

func TestLoadFromPath_ViewportForms(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		want   Viewport
		errSub string
	}{
		{name: "auto scalar", data: "viewport: auto\n", want: Viewport{Auto: true, Width: DefaultViewportWidth, Height: DefaultViewportHeight}},
		{name: "mapping", data: "viewport:\n  width: 1024\n  height: 768\n", want: Viewport{Width: 1024, Height: 768}},
		{name: "auto with fallback", data: "viewport:\n  auto: true\n  width: 800\n", want: Viewport{Auto: true, Width: 800, Height: DefaultViewportHeight}},
		{name: "bad scalar", data: "viewport: huge\n", errSub: "viewport"},
		{name: "unknown key", data: "viewport:\n  depth: 3\n", errSub: "depth"},
		{name: "zero width", data: "viewport:\n  width: 0\n", errSub: "viewport"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), "config.yaml", tt.data)
			res, err := LoadFromPath(path)
			if tt.errSub != "" {
				if err == nil || !strings.Contains(err.Error(), tt.errSub) {
					t.Fatalf("expected error containing %q, got %v", tt.errSub, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if res.Config.Viewport != tt.want {
				t.Fatalf("expected %+v, got %+v", tt.want, res.Config.Viewport)
			}
		})
	}
}

func TestLoadFromPath_StrictUnknownKeyErrors(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "unknown_key: 1\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "unknown_key") && !strings.Contains(err.Error(), "field") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("expected error to include file path, got %v", err)
	}
}

func TestLoadFromPath_InvalidValueHasSourceContext(t *testing.T) {
	dir := t.TempDir()
	data := strings.Join([]string{
		"log_level: info",
		"activation:",
		"  match_by: title",
		"",
	}, "\n")
	path := writeConfig(t, dir, "config.yaml", data)

	_, err := LoadFromPath(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Path != "activation.match_by" {
		t.Fatalf("expected path activation.match_by, got %q", verr.Path)
	}
	canon, _ := canonicalPath(path)
	if !strings.HasPrefix(err.Error(), canon+":3:") {
		t.Fatalf("expected file:line prefix, got %v", err)
	}
}

func TestLoadFromPath_IncludeDirectoryOrderAndMainOverrides(t *testing.T) {
	dir := t.TempDir()

	// config.d loaded first, in sorted order.
	configD := filepath.Join(dir, "config.d")
	if err := os.MkdirAll(configD, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeConfig(t, configD, "10-base.yaml", "arrange:\n  gap: 5\nregistry:\n  duplicates: append\n")
	writeConfig(t, configD, "20-override.yaml", "arrange:\n  gap: 6\n")

	// Main file overrides includes.
	main := strings.Join([]string{
		"include:",
		"  - config.d",
		"arrange:",
		"  gap: 7",
		"",
	}, "\n")
	path := writeConfig(t, dir, "config.yaml", main)

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Arrange.Gap != 7 {
		t.Fatalf("expected arrange.gap 7, got %d", res.Config.Arrange.Gap)
	}
	if res.Config.Registry.Duplicates != "append" {
		t.Fatalf("expected duplicates from include, got %q", res.Config.Registry.Duplicates)
	}
	if len(res.Files) != 3 {
		t.Fatalf("expected 3 loaded files, got %v", res.Files)
	}
}

func TestLoadFromPath_IncludeMissingPathHasContext(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "include:\n  - missing.yaml\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "include") || !strings.Contains(err.Error(), "missing.yaml") {
		t.Fatalf("expected include error, got %v", err)
	}
}

func TestLoadFromPath_IncludeCycleDetection(t *testing.T) {
	dir := t.TempDir()
	a := writeConfig(t, dir, "a.yaml", "include: b.yaml\n")
	writeConfig(t, dir, "b.yaml", "include: a.yaml\n")

	_, err := LoadFromPath(a)
	if err == nil {
		t.Fatalf("expected cycle error")
	}
	if !strings.Contains(err.Error(), "include cycle") {
		t.Fatalf("expected cycle error, got %v", err)
	}
}

func TestLoadFromPath_AppletPatchAndInherits(t *testing.T) {
	data := `
applets:
  chapters:
    width: 700
  drafts:
    inherits: "builtin:chapters"
    title: "Drafts"
  ai-chat:
    hidden: true
`
	path := writeConfig(t, t.TempDir(), "config.yaml", strings.TrimSpace(data)+"\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	chapters := res.Config.Applets["chapters"]
	if chapters.Width != 700 || chapters.Height != 480 || chapters.Title != "Chapters" {
		t.Fatalf("expected patched chapters, got %+v", chapters)
	}
	drafts, ok := res.Config.Applets["drafts"]
	if !ok {
		t.Fatalf("expected drafts applet")
	}
	if drafts.Type != "chapters" || drafts.MinWidth != 320 {
		t.Fatalf("expected drafts to inherit chapters, got %+v", drafts)
	}
	if res.AppletBases["drafts"] != "chapters" {
		t.Fatalf("expected base chapters, got %q", res.AppletBases["drafts"])
	}
	for _, kind := range res.Config.AppletKinds() {
		if kind == "ai-chat" {
			t.Fatalf("expected hidden applet excluded from menu")
		}
	}

	val, src, err := Explain(res, "applets.drafts.min_width")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val != 320 {
		t.Fatalf("expected explain value 320, got %#v", val)
	}
	if src.Kind != SourceBuiltin || src.Name != "chapters" {
		t.Fatalf("expected builtin source chapters, got %#v", src)
	}

	_, src, err = Explain(res, "applets.chapters.width")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if src.Kind != SourceFile || src.Line == 0 {
		t.Fatalf("expected file source for patched width, got %#v", src)
	}
}

func TestLoadFromPath_AppletInheritsErrors(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		errSub string
	}{
		{name: "not builtin prefixed", data: "applets:\n  x:\n    inherits: chapters\n    title: X\n", errSub: "builtin:"},
		{name: "unknown base", data: "applets:\n  x:\n    inherits: \"builtin:nope\"\n    title: X\n", errSub: "unknown builtin applet"},
		{name: "missing title", data: "applets:\n  x:\n    inherits: \"builtin:works\"\n", errSub: "title is required"},
		{name: "duplicate title", data: "applets:\n  x:\n    title: Works\n", errSub: "already used"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), "config.yaml", tt.data)
			_, err := LoadFromPath(path)
			if err == nil || !strings.Contains(err.Error(), tt.errSub) {
				t.Fatalf("expected error containing %q, got %v", tt.errSub, err)
			}
		})
	}
}

func TestAppletKinds_Order(t *testing.T) {
	cfg := DefaultConfig()
	kinds := cfg.AppletKinds()
	if len(kinds) != 8 || kinds[0] != "works" || kinds[len(kinds)-1] != "ai-chat" {
		t.Fatalf("unexpected applet order %v", kinds)
	}
}

func TestExplain_DefaultSourceAndUnknownPath(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	val, src, err := Explain(res, "window_defaults.title_bar_height")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val != 24 || src.Kind != SourceDefault {
		t.Fatalf("expected default 24, got %#v from %#v", val, src)
	}
	if _, _, err := Explain(res, "hotkey"); err == nil {
		t.Fatalf("expected unknown path error")
	}
}

func TestReconcileInterval(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ReconcileIntervalSeconds = 0
	if got := cfg.ReconcileInterval(); got != DefaultReconcileInterval {
		t.Fatalf("expected default interval, got %d", got)
	}
	cfg.ReconcileIntervalSeconds = 2
	if got := cfg.ReconcileInterval(); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
}

func TestLoadFromPath_PaletteBackend(t *testing.T) {
	dir := t.TempDir()
	res, err := LoadFromPath(writeConfig(t, dir, "ok.yaml", "palette_backend: \" Rofi \"\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.PaletteBackend != "rofi" {
		t.Fatalf("expected rofi, got %q", res.Config.PaletteBackend)
	}

	_, err = LoadFromPath(writeConfig(t, dir, "bad.yaml", "palette_backend: xmenu\n"))
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Path != "palette_backend" {
		t.Fatalf("expected palette_backend ValidationError, got %v", err)
	}
}

func TestSave_RoundTripsThroughLoader(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := DefaultConfig()
	cfg.Activation.MatchBy = "name"
	cfg.MenuHotkey = "Mod4-space"
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	path := filepath.Join(home, ".config", "deskshell", "config.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read saved config: %v", err)
	}
	if strings.Contains(string(data), "Chapters") {
		t.Fatalf("builtin applets should not be written:\n%s", data)
	}

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if res.Config.Activation.MatchBy != "name" || res.Config.MenuHotkey != "Mod4-space" {
		t.Fatalf("unexpected round trip: %+v", res.Config)
	}
	if len(res.Config.Applets) != len(BuiltinApplets()) {
		t.Fatalf("applets = %d, want builtins %d", len(res.Config.Applets), len(BuiltinApplets()))
	}
}
