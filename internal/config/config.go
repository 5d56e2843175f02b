package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// LayoutType selects how a tag arranges its tiled windows.
type LayoutType string

const (
	LayoutTiling   LayoutType = "tiling"   // Master column left, stack column right.
	LayoutFloating LayoutType = "floating" // Geometry is left to the user.
	LayoutMonocle  LayoutType = "monocle"  // Every window fills the usable area.
)

// LayoutTypes lists the layout types in cycle order.
var LayoutTypes = []LayoutType{LayoutTiling, LayoutFloating, LayoutMonocle}

// Valid reports whether t is one of the known layout types.
func (t LayoutType) Valid() bool {
	switch t {
	case LayoutTiling, LayoutFloating, LayoutMonocle:
		return true
	}
	return false
}

// Next returns the layout type following t in cycle order.
func (t LayoutType) Next() LayoutType {
	for i, lt := range LayoutTypes {
		if lt == t {
			return LayoutTypes[(i+1)%len(LayoutTypes)]
		}
	}
	return LayoutTiling
}

// LayoutConfig holds the per-tag layout parameters.
type LayoutConfig struct {
	Type        LayoutType `yaml:"type" json:"type"`
	MasterRatio float64    `yaml:"master_ratio" json:"master_ratio"` // Fraction of width for the master column, (0,1)
	MasterCount int        `yaml:"master_count" json:"master_count"` // Windows in the master column (>= 1)
}

// General holds the spawn commands referenced by "spawn <name>" actions.
type General struct {
	ModKey     string `yaml:"mod_key"`
	Terminal   string `yaml:"terminal"`
	Browser    string `yaml:"browser"`
	Launcher   string `yaml:"launcher"`
	Screenshot string `yaml:"screenshot"`
}

// Tags lists the tag names and the layout preset assigned to each tag.
// A tag without a matching entry in Layouts uses the first preset.
type Tags struct {
	Names   []string `yaml:"names"`
	Layouts []string `yaml:"layouts"`
}

// Appearance holds border, gap and bar settings in pixels.
type Appearance struct {
	BorderWidth   int    `yaml:"border_width"`
	BorderFocus   string `yaml:"border_focus"`
	BorderNormal  string `yaml:"border_normal"`
	GapSize       int    `yaml:"gap_size"`  // Outer gap around the usable area
	InnerGap      int    `yaml:"inner_gap"` // Gap between tiled windows
	BarHeight     int    `yaml:"bar_height"`
	BarBackground string `yaml:"bar_background"`
	BarForeground string `yaml:"bar_foreground"`
	BarFont       string `yaml:"bar_font"`
	BarFontSize   int    `yaml:"bar_font_size"`
}

// Config holds the window manager configuration.
type Config struct {
	Include     IncludeList             `yaml:"include,omitempty"`
	General     General                 `yaml:"general"`
	Tags        Tags                    `yaml:"tags"`
	Appearance  Appearance              `yaml:"appearance"`
	Keybindings map[string]string       `yaml:"keybindings"`
	Layouts     map[string]LayoutConfig `yaml:"layouts"`
	Rules       []WindowRule            `yaml:"rules"`
	LogLevel    string                  `yaml:"log_level"`
}

const (
	MaxBorderWidth = 10
	MaxGapSize     = 50
	MaxBarHeight   = 100
)

func DefaultConfig() *Config {
	return &Config{
		General: General{
			ModKey:     "Mod4",
			Terminal:   "alacritty",
			Browser:    "firefox",
			Launcher:   "rofi -show drun",
			Screenshot: "scrot",
		},
		Tags: Tags{
			Names:   []string{"1", "2", "3", "4", "5", "6", "7", "8", "9"},
			Layouts: []string{DefaultBuiltinLayout},
		},
		Appearance: Appearance{
			BorderWidth:   3,
			BorderFocus:   "#536DFE",
			BorderNormal:  "#384252",
			GapSize:       5,
			InnerGap:      5,
			BarHeight:     24,
			BarBackground: "#121212",
			BarForeground: "#DFDFDF",
			BarFont:       "Inter-Regular",
			BarFontSize:   12,
		},
		Keybindings: DefaultKeybindings(),
		Layouts:     BuiltinLayouts(),
		Rules:       defaultRules(),
		LogLevel:    "info",
	}
}

// DefaultKeybindings returns the built-in keybinding table.
func DefaultKeybindings() map[string]string {
	kb := map[string]string{
		"Mod4+Return":       "spawn terminal",
		"Mod4+d":            "spawn launcher",
		"Mod4+Shift+Return": "spawn browser",
		"Print":             "spawn screenshot",

		"Mod4+q":       "close_window",
		"Mod4+f":       "toggle_floating",
		"Mod4+Shift+f": "toggle_fullscreen",
		"Mod4+m":       "toggle_minimize",
		"Mod4+b":       "toggle_bar",
		"Mod4+space":   "cycle_layout",

		"Mod4+h": "focus_left",
		"Mod4+j": "focus_down",
		"Mod4+k": "focus_up",
		"Mod4+l": "focus_right",

		"Mod4+Shift+h": "move_left",
		"Mod4+Shift+j": "move_down",
		"Mod4+Shift+k": "move_up",
		"Mod4+Shift+l": "move_right",

		"Mod4+Tab":       "focus_next",
		"Mod4+Shift+Tab": "focus_prev",

		"Mod4+comma":  "increase_master_count",
		"Mod4+period": "decrease_master_count",
		"Mod4+Left":   "decrease_master",
		"Mod4+Right":  "increase_master",

		"Mod4+Shift+r": "reload_config",
		"Mod4+Shift+e": "exit",
	}
	for i := 1; i <= 9; i++ {
		kb[fmt.Sprintf("Mod4+%d", i)] = fmt.Sprintf("switch_tag %d", i)
		kb[fmt.Sprintf("Mod4+Shift+%d", i)] = fmt.Sprintf("move_to_tag %d", i)
	}
	return kb
}

// DefaultLayoutConfig is used for tags whose preset cannot be resolved.
func DefaultLayoutConfig() LayoutConfig {
	return LayoutConfig{Type: LayoutTiling, MasterRatio: 0.55, MasterCount: 1}
}

// LayoutForTag resolves the layout preset for the tag at index i.
func (c *Config) LayoutForTag(i int) LayoutConfig {
	if c == nil || len(c.Tags.Layouts) == 0 {
		return DefaultLayoutConfig()
	}
	name := c.Tags.Layouts[0]
	if i >= 0 && i < len(c.Tags.Layouts) {
		name = c.Tags.Layouts[i]
	}
	if lc, ok := c.Layouts[name]; ok {
		return lc
	}
	return DefaultLayoutConfig()
}

// GetLayout retrieves a layout preset by name.
func (c *Config) GetLayout(name string) (LayoutConfig, error) {
	lc, ok := c.Layouts[name]
	if !ok {
		return LayoutConfig{}, fmt.Errorf("layout %q not found", name)
	}
	if err := validateLayout(lc); err != nil {
		return LayoutConfig{}, fmt.Errorf("invalid layout %q: %w", name, err)
	}
	return lc, nil
}

// LayoutNames returns the preset names sorted alphabetically.
func (c *Config) LayoutNames() []string {
	names := make([]string, 0, len(c.Layouts))
	for name := range c.Layouts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SpawnCommand maps the well-known names used by "spawn <name>" to the
// configured command line. Other names are returned unchanged.
func (c *Config) SpawnCommand(name string) string {
	switch name {
	case "terminal":
		return c.General.Terminal
	case "browser":
		return c.General.Browser
	case "launcher":
		return c.General.Launcher
	case "screenshot":
		return c.General.Screenshot
	}
	return name
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	out := *c
	out.Tags.Names = append([]string(nil), c.Tags.Names...)
	out.Tags.Layouts = append([]string(nil), c.Tags.Layouts...)
	out.Keybindings = make(map[string]string, len(c.Keybindings))
	for k, v := range c.Keybindings {
		out.Keybindings[k] = v
	}
	out.Layouts = make(map[string]LayoutConfig, len(c.Layouts))
	for k, v := range c.Layouts {
		out.Layouts[k] = v
	}
	out.Rules = append([]WindowRule(nil), c.Rules...)
	return &out
}

// Validate checks the configuration and returns every problem found as a
// human-readable message. Problems are not fatal: callers log them and keep
// running with the values as loaded.
func (c *Config) Validate() []string {
	var problems []string

	if len(c.Tags.Names) == 0 {
		problems = append(problems, "at least one tag must be configured")
	}
	for i, name := range c.Tags.Names {
		if strings.TrimSpace(name) == "" {
			problems = append(problems, fmt.Sprintf("tags.names[%d]: tag name is empty", i))
		}
	}
	for i, name := range c.Tags.Layouts {
		if _, ok := c.Layouts[name]; !ok {
			problems = append(problems, fmt.Sprintf("tags.layouts[%d]: layout %q referenced but not defined", i, name))
		}
	}
	for _, name := range c.LayoutNames() {
		if err := validateLayout(c.Layouts[name]); err != nil {
			problems = append(problems, fmt.Sprintf("layouts.%s: %v", name, err))
		}
	}

	if c.Appearance.BorderWidth < 0 || c.Appearance.BorderWidth > MaxBorderWidth {
		problems = append(problems, fmt.Sprintf("appearance.border_width must be between 0 and %d pixels", MaxBorderWidth))
	}
	if c.Appearance.GapSize < 0 || c.Appearance.GapSize > MaxGapSize {
		problems = append(problems, fmt.Sprintf("appearance.gap_size must be between 0 and %d pixels", MaxGapSize))
	}
	if c.Appearance.InnerGap < 0 || c.Appearance.InnerGap > MaxGapSize {
		problems = append(problems, fmt.Sprintf("appearance.inner_gap must be between 0 and %d pixels", MaxGapSize))
	}
	if c.Appearance.BarHeight < 0 || c.Appearance.BarHeight > MaxBarHeight {
		problems = append(problems, fmt.Sprintf("appearance.bar_height must be between 0 and %d pixels", MaxBarHeight))
	}

	keys := make([]string, 0, len(c.Keybindings))
	for key := range c.Keybindings {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if strings.TrimSpace(key) == "" {
			problems = append(problems, "keybindings: empty keybinding found")
			continue
		}
		if strings.TrimSpace(c.Keybindings[key]) == "" {
			problems = append(problems, fmt.Sprintf("keybindings.%s: empty action", key))
		}
	}

	for i, rule := range c.Rules {
		if rule.Tag < 0 || rule.Tag > len(c.Tags.Names) {
			problems = append(problems, fmt.Sprintf("rules[%d]: tag %d out of range 1-%d", i, rule.Tag, len(c.Tags.Names)))
		}
	}

	switch c.LogLevel {
	case "", "debug", "info", "warning", "error":
	default:
		problems = append(problems, "log_level must be one of: debug, info, warning, error")
	}

	return problems
}

// SlogLevel maps log_level onto a slog level. Unknown values mean info.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// validateLayout checks if a layout configuration is valid.
func validateLayout(lc LayoutConfig) error {
	if !lc.Type.Valid() {
		return fmt.Errorf("invalid type %q", lc.Type)
	}
	if lc.MasterRatio <= 0 || lc.MasterRatio >= 1 {
		return fmt.Errorf("master_ratio must be between 0 and 1 (exclusive)")
	}
	if lc.MasterCount < 1 {
		return fmt.Errorf("master_count must be >= 1")
	}
	return nil
}

// Save writes the configuration to the standard location.
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the configuration as YAML to path.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
