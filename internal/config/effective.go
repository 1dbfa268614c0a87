package config

import (
	"fmt"
	"sort"
	"strings"
)

const builtinPrefix = "builtin:"

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// BuildEffectiveConfig applies raw on top of the defaults. The returned map
// records, for every applet, the builtin applet it was based on ("" for
// applets defined from scratch).
func BuildEffectiveConfig(raw RawConfig) (*Config, map[string]string, error) {
	cfg := DefaultConfig()

	if raw.LogLevel != nil {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(*raw.LogLevel))
	}
	if raw.MenuHotkey != nil {
		cfg.MenuHotkey = strings.TrimSpace(*raw.MenuHotkey)
	}
	if raw.ArrangeHotkey != nil {
		cfg.ArrangeHotkey = strings.TrimSpace(*raw.ArrangeHotkey)
	}
	if raw.PaletteBackend != nil {
		cfg.PaletteBackend = strings.ToLower(strings.TrimSpace(*raw.PaletteBackend))
	}
	if raw.Display != nil {
		cfg.Display = *raw.Display
	}
	if raw.XAuthority != nil {
		cfg.XAuthority = *raw.XAuthority
	}
	if raw.Viewport != nil {
		if raw.Viewport.Auto != nil {
			cfg.Viewport.Auto = *raw.Viewport.Auto
		}
		cfg.Viewport.Width = derefInt(raw.Viewport.Width, cfg.Viewport.Width)
		cfg.Viewport.Height = derefInt(raw.Viewport.Height, cfg.Viewport.Height)
	}
	if wd := raw.WindowDefaults; wd != nil {
		cfg.WindowDefaults.Width = derefInt(wd.Width, cfg.WindowDefaults.Width)
		cfg.WindowDefaults.Height = derefInt(wd.Height, cfg.WindowDefaults.Height)
		cfg.WindowDefaults.MinWidth = derefInt(wd.MinWidth, cfg.WindowDefaults.MinWidth)
		cfg.WindowDefaults.MinHeight = derefInt(wd.MinHeight, cfg.WindowDefaults.MinHeight)
		cfg.WindowDefaults.MaxWidth = derefInt(wd.MaxWidth, cfg.WindowDefaults.MaxWidth)
		cfg.WindowDefaults.MaxHeight = derefInt(wd.MaxHeight, cfg.WindowDefaults.MaxHeight)
		cfg.WindowDefaults.TitleBarHeight = derefInt(wd.TitleBarHeight, cfg.WindowDefaults.TitleBarHeight)
		cfg.WindowDefaults.Border = derefInt(wd.Border, cfg.WindowDefaults.Border)
	}
	if raw.Activation != nil && raw.Activation.MatchBy != nil {
		cfg.Activation.MatchBy = strings.TrimSpace(*raw.Activation.MatchBy)
	}
	if raw.Registry != nil && raw.Registry.Duplicates != nil {
		cfg.Registry.Duplicates = strings.TrimSpace(*raw.Registry.Duplicates)
	}
	if raw.Arrange != nil {
		cfg.Arrange.Gap = derefInt(raw.Arrange.Gap, cfg.Arrange.Gap)
		if raw.Arrange.DefaultMode != nil {
			cfg.Arrange.DefaultMode = strings.TrimSpace(*raw.Arrange.DefaultMode)
		}
	}
	cfg.ReconcileIntervalSeconds = derefInt(raw.ReconcileIntervalSeconds, cfg.ReconcileIntervalSeconds)
	if raw.SessionDir != nil {
		cfg.SessionDir = *raw.SessionDir
	}

	bases, err := applyApplets(cfg, raw)
	if err != nil {
		return nil, nil, err
	}
	return cfg, bases, nil
}

func applyApplets(cfg *Config, raw RawConfig) (map[string]string, error) {
	builtin := BuiltinApplets()

	cfg.Applets = make(map[string]Applet, len(builtin)+len(raw.Applets))
	bases := make(map[string]string, len(builtin)+len(raw.Applets))
	for kind, applet := range builtin {
		cfg.Applets[kind] = applet
		bases[kind] = kind
	}

	for _, kind := range sortedKeys(raw.Applets) {
		patch := raw.Applets[kind]
		baseName, base, err := selectAppletBase(kind, patch, builtin)
		if err != nil {
			return nil, err
		}
		merged := mergeAppletPatch(base, patch)
		if err := validateApplet(merged); err != nil {
			return nil, &ValidationError{Path: "applets." + kind, Err: err}
		}
		cfg.Applets[kind] = merged
		bases[kind] = baseName
	}
	return bases, nil
}

// selectAppletBase picks the applet a patch applies to: the builtin of the
// same kind, the builtin named by inherits, or an empty applet.
func selectAppletBase(kind string, patch RawApplet, builtin map[string]Applet) (string, Applet, error) {
	ref := ""
	if patch.Inherits != nil {
		ref = strings.TrimSpace(*patch.Inherits)
	}
	if ref == "" {
		if base, ok := builtin[kind]; ok {
			return kind, base, nil
		}
		return "", Applet{Type: kind}, nil
	}

	if !strings.HasPrefix(ref, builtinPrefix) {
		return "", Applet{}, &ValidationError{
			Path: "applets." + kind + ".inherits",
			Err:  fmt.Errorf("inherits must be %q-prefixed (builtin-only), got %q", builtinPrefix, ref),
		}
	}
	baseName := strings.TrimSpace(strings.TrimPrefix(ref, builtinPrefix))
	base, ok := builtin[baseName]
	if !ok {
		return "", Applet{}, &ValidationError{
			Path: "applets." + kind + ".inherits",
			Err:  fmt.Errorf("unknown builtin applet %q", baseName),
		}
	}
	// A derived applet must not collide with its base in the taskbar.
	base.Title = ""
	return baseName, base, nil
}

func mergeAppletPatch(base Applet, patch RawApplet) Applet {
	out := base
	if patch.Title != nil {
		out.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Icon != nil {
		out.Icon = *patch.Icon
	}
	if patch.Type != nil {
		out.Type = *patch.Type
	}
	out.Order = derefInt(patch.Order, out.Order)
	out.Width = derefInt(patch.Width, out.Width)
	out.Height = derefInt(patch.Height, out.Height)
	out.MinWidth = derefInt(patch.MinWidth, out.MinWidth)
	out.MinHeight = derefInt(patch.MinHeight, out.MinHeight)
	out.MaxWidth = derefInt(patch.MaxWidth, out.MaxWidth)
	out.MaxHeight = derefInt(patch.MaxHeight, out.MaxHeight)
	if patch.Hidden != nil {
		out.Hidden = *patch.Hidden
	}
	return out
}

func derefInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
