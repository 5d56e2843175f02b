package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultConfig_ValidAndHasBuiltinLayouts(t *testing.T) {
	cfg := DefaultConfig()
	if problems := cfg.Validate(); len(problems) != 0 {
		t.Fatalf("expected defaults to validate, got %v", problems)
	}
	if _, ok := cfg.Layouts[DefaultBuiltinLayout]; !ok {
		t.Fatalf("expected builtin %q to exist in layouts", DefaultBuiltinLayout)
	}
	if len(cfg.Tags.Names) != 9 {
		t.Fatalf("expected 9 default tags, got %d", len(cfg.Tags.Names))
	}
	if got := cfg.Keybindings["Mod4+Return"]; got != "spawn terminal" {
		t.Fatalf("expected Mod4+Return to spawn terminal, got %q", got)
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(DefaultConfig(), res.Config); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
	if len(res.Files) != 0 {
		t.Fatalf("expected no files, got %v", res.Files)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "# empty\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Appearance.GapSize != DefaultConfig().Appearance.GapSize {
		t.Fatalf("expected default gap, got %d", res.Config.Appearance.GapSize)
	}
	if len(res.Problems) != 0 {
		t.Fatalf("expected no problems, got %v", res.Problems)
	}
}

func TestLoadFromPath_PartialOverride(t *testing.T) {
	data := strings.Join([]string{
		"appearance:",
		"  gap_size: 10",
		"tags:",
		"  names: [web, code, chat]",
		"keybindings:",
		"  Mod4+x: close_window",
		"",
	}, "\n")
	path := writeConfig(t, t.TempDir(), "config.yaml", data)

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := res.Config
	if cfg.Appearance.GapSize != 10 {
		t.Fatalf("expected gap 10, got %d", cfg.Appearance.GapSize)
	}
	if cfg.Appearance.BarHeight != 24 {
		t.Fatalf("expected default bar height to survive, got %d", cfg.Appearance.BarHeight)
	}
	if diff := cmp.Diff([]string{"web", "code", "chat"}, cfg.Tags.Names); diff != "" {
		t.Fatalf("tag names mismatch (-want +got):\n%s", diff)
	}
	if cfg.Keybindings["Mod4+x"] != "close_window" {
		t.Fatalf("expected added keybinding")
	}
	if cfg.Keybindings["Mod4+Return"] != "spawn terminal" {
		t.Fatalf("expected default keybindings to be merged, not replaced")
	}
}

func TestLoadFromPath_UnknownFieldIsInvalid(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "appearance:\n  gap_sise: 3\n")

	_, err := LoadFromPath(path)
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if !strings.Contains(err.Error(), "gap_sise") {
		t.Fatalf("expected error to name the field, got %v", err)
	}
}

func TestLoadFromPath_MalformedYAMLIsInvalid(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "tags: [unterminated\n")

	if _, err := LoadFromPath(path); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestLoadFromPath_ProblemsAreNotFatal(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "appearance:\n  border_width: 20\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Appearance.BorderWidth != 20 {
		t.Fatalf("expected value kept as loaded, got %d", res.Config.Appearance.BorderWidth)
	}
	if len(res.Problems) != 1 || !strings.Contains(res.Problems[0], "border_width") {
		t.Fatalf("expected one border_width problem, got %v", res.Problems)
	}
}

func TestLoadFromPath_IncludesAppliedBeforeFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, filepath.Join(dir, "conf.d"), "10-gaps.yaml", "appearance:\n  gap_size: 7\n  inner_gap: 2\n")
	path := writeConfig(t, dir, "config.yaml", "include: conf.d\nappearance:\n  inner_gap: 4\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Appearance.GapSize != 7 {
		t.Fatalf("expected included gap 7, got %d", res.Config.Appearance.GapSize)
	}
	if res.Config.Appearance.InnerGap != 4 {
		t.Fatalf("expected including file to win, got %d", res.Config.Appearance.InnerGap)
	}
	if len(res.Files) != 2 {
		t.Fatalf("expected 2 loaded files, got %v", res.Files)
	}
	if res.Config.Include != nil {
		t.Fatalf("expected include list to be cleared, got %v", res.Config.Include)
	}
}

func TestLoadFromPath_IncludeGlob(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, filepath.Join(dir, "parts"), "20-border.yaml", "appearance:\n  border_width: 3\n")
	writeConfig(t, filepath.Join(dir, "parts"), "10-border.yaml", "appearance:\n  border_width: 1\n")
	writeConfig(t, filepath.Join(dir, "parts"), "notes.txt", "not yaml: [")
	path := writeConfig(t, dir, "config.yaml", "include: [parts/*.yaml]\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := res.Config.Appearance.BorderWidth; got != 3 {
		t.Fatalf("expected later fragment to win with border 3, got %d", got)
	}

	empty := writeConfig(t, dir, "empty.yaml", "include: missing/*.yaml\n")
	if _, err := LoadFromPath(empty); err == nil || !strings.Contains(err.Error(), "no files match") {
		t.Fatalf("expected no match error, got %v", err)
	}
}

func TestLoadFromPath_IncludeCycle(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "a.yaml", "include: b.yaml\n")
	writeConfig(t, dir, "b.yaml", "include: a.yaml\n")

	_, err := LoadFromPath(filepath.Join(dir, "a.yaml"))
	if err == nil || !strings.Contains(err.Error(), "include cycle") {
		t.Fatalf("expected include cycle error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"no tags", func(c *Config) { c.Tags.Names = nil }, "at least one tag"},
		{"blank tag", func(c *Config) { c.Tags.Names[2] = " " }, "tags.names[2]"},
		{"undefined layout", func(c *Config) { c.Tags.Layouts = []string{"spiral"} }, `layout "spiral" referenced but not defined`},
		{"bad ratio", func(c *Config) {
			c.Layouts["tiling"] = LayoutConfig{Type: LayoutTiling, MasterRatio: 1, MasterCount: 1}
		}, "layouts.tiling: master_ratio"},
		{"bad count", func(c *Config) {
			c.Layouts["tiling"] = LayoutConfig{Type: LayoutTiling, MasterRatio: 0.5, MasterCount: 0}
		}, "master_count"},
		{"bad type", func(c *Config) {
			c.Layouts["grid"] = LayoutConfig{Type: "grid", MasterRatio: 0.5, MasterCount: 1}
		}, `invalid type "grid"`},
		{"border", func(c *Config) { c.Appearance.BorderWidth = 11 }, "border_width"},
		{"gap", func(c *Config) { c.Appearance.GapSize = 51 }, "gap_size"},
		{"bar", func(c *Config) { c.Appearance.BarHeight = 101 }, "bar_height"},
		{"empty action", func(c *Config) { c.Keybindings["Mod4+z"] = "" }, "keybindings.Mod4+z: empty action"},
		{"empty key", func(c *Config) { c.Keybindings[""] = "exit" }, "empty keybinding"},
		{"rule tag", func(c *Config) { c.Rules = []WindowRule{{Class: "x", Tag: 10}} }, "rules[0]: tag 10"},
		{"log level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			problems := cfg.Validate()
			if len(problems) == 0 {
				t.Fatalf("expected a problem containing %q", tt.want)
			}
			found := false
			for _, p := range problems {
				if strings.Contains(p, tt.want) {
					found = true
				}
			}
			if !found {
				t.Fatalf("expected a problem containing %q, got %v", tt.want, problems)
			}
		})
	}
}

func TestLayoutForTag(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tags.Layouts = []string{"tiling", "monocle"}

	if got := cfg.LayoutForTag(1); got.Type != LayoutMonocle {
		t.Fatalf("expected monocle for tag 1, got %s", got.Type)
	}
	if got := cfg.LayoutForTag(5); got.Type != LayoutTiling {
		t.Fatalf("expected first preset for unlisted tag, got %s", got.Type)
	}

	cfg.Tags.Layouts = []string{"missing"}
	if diff := cmp.Diff(DefaultLayoutConfig(), cfg.LayoutForTag(0)); diff != "" {
		t.Fatalf("fallback mismatch (-want +got):\n%s", diff)
	}
}

func TestLayoutTypeNext(t *testing.T) {
	got := []LayoutType{LayoutTiling.Next(), LayoutFloating.Next(), LayoutMonocle.Next(), LayoutType("bogus").Next()}
	want := []LayoutType{LayoutFloating, LayoutMonocle, LayoutTiling, LayoutTiling}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("cycle mismatch (-want +got):\n%s", diff)
	}
}

func TestMatchRule_FirstMatchWins(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rules = []WindowRule{
		{Class: "Firefox", Title: "Picture-in-Picture", Floating: true},
		{Class: "Firefox", Tag: 2},
	}

	r, ok := cfg.MatchRule("Firefox-esr", "Navigator", "Picture-in-Picture")
	if !ok || !r.Floating {
		t.Fatalf("expected floating PiP rule, got %+v ok=%v", r, ok)
	}
	r, ok = cfg.MatchRule("Firefox", "Navigator", "Mozilla Firefox")
	if !ok || r.Tag != 2 {
		t.Fatalf("expected tag rule, got %+v ok=%v", r, ok)
	}
	if _, ok := cfg.MatchRule("Alacritty", "alacritty", "shell"); ok {
		t.Fatalf("expected no match")
	}
}

func TestSaveTo_RoundTripsThroughLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Appearance.InnerGap = 12
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Appearance.InnerGap != 12 {
		t.Fatalf("expected inner gap 12, got %d", res.Config.Appearance.InnerGap)
	}
}

func TestClone_IsDeep(t *testing.T) {
	cfg := DefaultConfig()
	c := cfg.Clone()
	c.Keybindings["Mod4+Return"] = "exit"
	c.Tags.Names[0] = "changed"
	if cfg.Keybindings["Mod4+Return"] != "spawn terminal" || cfg.Tags.Names[0] != "1" {
		t.Fatalf("expected clone to be independent of the original")
	}
}

func writeConfig(t *testing.T, dir, name, data string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestSlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":        slog.LevelInfo,
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range tests {
		c := &Config{LogLevel: in}
		if got := c.SlogLevel(); got != want {
			t.Fatalf("SlogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
