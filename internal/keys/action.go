package keys

import (
	"fmt"
	"strconv"
	"strings"
)

// Verb is one of the fixed set of actions a binding can trigger.
type Verb int

const (
	VerbSpawn Verb = iota + 1
	VerbCloseWindow
	VerbToggleFloating
	VerbToggleFullscreen
	VerbToggleMinimize
	VerbToggleBar
	VerbCycleLayout
	VerbSwitchTag
	VerbMoveToTag
	VerbFocusLeft
	VerbFocusRight
	VerbFocusUp
	VerbFocusDown
	VerbFocusNext
	VerbFocusPrev
	VerbMoveLeft
	VerbMoveRight
	VerbMoveUp
	VerbMoveDown
	VerbIncreaseMaster
	VerbDecreaseMaster
	VerbIncreaseMasterCount
	VerbDecreaseMasterCount
	VerbReloadConfig
	VerbExit
)

var verbNames = map[Verb]string{
	VerbSpawn:               "spawn",
	VerbCloseWindow:         "close_window",
	VerbToggleFloating:      "toggle_floating",
	VerbToggleFullscreen:    "toggle_fullscreen",
	VerbToggleMinimize:      "toggle_minimize",
	VerbToggleBar:           "toggle_bar",
	VerbCycleLayout:         "cycle_layout",
	VerbSwitchTag:           "switch_tag",
	VerbMoveToTag:           "move_to_tag",
	VerbFocusLeft:           "focus_left",
	VerbFocusRight:          "focus_right",
	VerbFocusUp:             "focus_up",
	VerbFocusDown:           "focus_down",
	VerbFocusNext:           "focus_next",
	VerbFocusPrev:           "focus_prev",
	VerbMoveLeft:            "move_left",
	VerbMoveRight:           "move_right",
	VerbMoveUp:              "move_up",
	VerbMoveDown:            "move_down",
	VerbIncreaseMaster:      "increase_master",
	VerbDecreaseMaster:      "decrease_master",
	VerbIncreaseMasterCount: "increase_master_count",
	VerbDecreaseMasterCount: "decrease_master_count",
	VerbReloadConfig:        "reload_config",
	VerbExit:                "exit",
}

var verbsByName = func() map[string]Verb {
	out := make(map[string]Verb, len(verbNames))
	for v, name := range verbNames {
		out[name] = v
	}
	return out
}()

func (v Verb) String() string {
	if name, ok := verbNames[v]; ok {
		return name
	}
	return fmt.Sprintf("Verb(%d)", int(v))
}

// Action is a parsed action string.
type Action struct {
	Verb Verb
	// Tag is the 1-based tag number for switch_tag and move_to_tag. It is
	// not range-checked here.
	Tag int
	// Command is the program and arguments for spawn.
	Command []string
}

// ParseAction parses a whitespace-separated verb and its arguments.
func ParseAction(s string) (Action, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Action{}, fmt.Errorf("empty action")
	}
	verb, ok := verbsByName[fields[0]]
	if !ok {
		return Action{}, fmt.Errorf("unknown action %q", fields[0])
	}
	args := fields[1:]
	a := Action{Verb: verb}

	switch verb {
	case VerbSpawn:
		if len(args) == 0 {
			return Action{}, fmt.Errorf("spawn: missing command")
		}
		a.Command = args
	case VerbSwitchTag, VerbMoveToTag:
		if len(args) != 1 {
			return Action{}, fmt.Errorf("%s: expected one tag number", verb)
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return Action{}, fmt.Errorf("%s: invalid tag number %q", verb, args[0])
		}
		a.Tag = n
	default:
		if len(args) != 0 {
			return Action{}, fmt.Errorf("%s: unexpected arguments %q", verb, strings.Join(args, " "))
		}
	}
	return a, nil
}

func (a Action) String() string {
	switch a.Verb {
	case VerbSpawn:
		return a.Verb.String() + " " + strings.Join(a.Command, " ")
	case VerbSwitchTag, VerbMoveToTag:
		return fmt.Sprintf("%s %d", a.Verb, a.Tag)
	}
	return a.Verb.String()
}
