package mcp

import "github.com/1broseidon/tagwm/internal/wm"

// TagInput is the input for the switch_tag and move_to_tag tools.
type TagInput struct {
	Tag int `json:"tag" jsonschema:"required,1-based tag number"`
}

// FocusInput is the input for the focus_window tool.
type FocusInput struct {
	ID wm.WindowID `json:"id" jsonschema:"required,Window id as reported by list_windows"`
}

// SpawnInput is the input for the spawn tool.
type SpawnInput struct {
	Command []string `json:"command" jsonschema:"required,Program and arguments to start, e.g. [\"xterm\", \"-e\", \"htop\"]"`
}

// GetInput is the input for the get tool.
type GetInput struct {
	What string `json:"what" jsonschema:"required,One of: tag, windows, focused, config, version, state, bar"`
}

// SetInput is the input for the set tool.
type SetInput struct {
	Key   string `json:"key" jsonschema:"required,Setting to change: layout, gap or border"`
	Value string `json:"value" jsonschema:"required,New value: a layout name (tiling, floating, monocle) or a pixel count"`
}

// ActionInput is the input for the run_action tool.
type ActionInput struct {
	Action string `json:"action" jsonschema:"required,Keybinding action string, e.g. focus_left, cycle_layout, increase_master"`
}

// NoInput is used by tools that take no arguments.
type NoInput struct{}

// MessageOutput carries the daemon's reply to a command.
type MessageOutput struct {
	Message string `json:"message"`
}

// WindowInfo describes one managed window.
type WindowInfo struct {
	ID         wm.WindowID `json:"id"`
	Title      string      `json:"title"`
	Class      string      `json:"class"`
	Tag        int         `json:"tag"`
	Floating   bool        `json:"floating"`
	Minimized  bool        `json:"minimized"`
	Fullscreen bool        `json:"fullscreen"`
	Focused    bool        `json:"focused"`
}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	CurrentTag int          `json:"current_tag"`
	Windows    []WindowInfo `json:"windows"`
}

// CurrentTagOutput is the output for the current_tag tool.
type CurrentTagOutput struct {
	Number      int         `json:"number"`
	Name        string      `json:"name"`
	Layout      string      `json:"layout"`
	MasterRatio float64     `json:"master_ratio"`
	MasterCount int         `json:"master_count"`
	Windows     int         `json:"windows"`
	Focused     wm.WindowID `json:"focused"`
}
