package ipc

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/1broseidon/tagwm/internal/config"
	"github.com/1broseidon/tagwm/internal/wm"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandTag            CommandType = "TAG"
	CommandMoveToTag      CommandType = "MOVE_TO_TAG"
	CommandToggleFloating CommandType = "TOGGLE_FLOATING"
	CommandClose          CommandType = "CLOSE"
	CommandSpawn          CommandType = "SPAWN"
	CommandGet            CommandType = "GET"
	CommandSet            CommandType = "SET"
	CommandAction         CommandType = "ACTION"
	CommandReload         CommandType = "RELOAD"
	CommandExit           CommandType = "EXIT"
	CommandFocus          CommandType = "FOCUS"
)

// Things that can be queried with GET.
const (
	GetTag     = "tag"
	GetWindows = "windows"
	GetFocused = "focused"
	GetConfig  = "config"
	GetVersion = "version"
	GetState   = "state"
	GetBar     = "bar"
)

// GetTargets lists the valid GET targets in help order.
var GetTargets = []string{GetTag, GetWindows, GetFocused, GetConfig, GetVersion, GetState, GetBar}

// Settings that can be changed with SET.
const (
	SetLayout = "layout"
	SetGap    = "gap"
	SetBorder = "border"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// TagPayload carries a 1-based tag number for TAG and MOVE_TO_TAG.
type TagPayload struct {
	Tag int `json:"tag"`
}

// FocusPayload names a window for FOCUS.
type FocusPayload struct {
	ID wm.WindowID `json:"id"`
}

// SpawnPayload is the payload for SPAWN.
type SpawnPayload struct {
	Command []string `json:"command"`
}

// GetPayload is the payload for GET.
type GetPayload struct {
	What string `json:"what"`
}

// SetPayload is the payload for SET.
type SetPayload struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ActionPayload runs any keybinding action string, e.g. "focus_left".
type ActionPayload struct {
	Action string `json:"action"`
}

// MessageData is returned by commands that only report success.
type MessageData struct {
	Message string `json:"message"`
}

// VersionData represents the data returned by GET version
type VersionData struct {
	Version       string `json:"version"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// TagData represents the data returned by GET tag
type TagData struct {
	Number  int                 `json:"number"`
	Name    string              `json:"name"`
	Layout  config.LayoutConfig `json:"layout"`
	Windows int                 `json:"windows"`
	Focused wm.WindowID         `json:"focused"`
}

// ConfigData represents the data returned by GET config
type ConfigData struct {
	YAML string `json:"yaml"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// NewRequest builds a request with an optional JSON payload.
func NewRequest(cmd CommandType, payload interface{}) (*Request, error) {
	req := &Request{Command: cmd}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s payload: %w", cmd, err)
		}
		req.Payload = data
	}
	return req, nil
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

// ParseCommand turns command-line words such as ["move-to-tag", "3"] or
// ["set", "gap", "8"] into a request.
func ParseCommand(args []string) (*Request, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("missing command")
	}
	name, rest := args[0], args[1:]

	want := func(n int, usage string) error {
		if len(rest) != n {
			return fmt.Errorf("usage: %s", usage)
		}
		return nil
	}

	switch name {
	case "tag", "move-to-tag":
		if err := want(1, name+" <number>"); err != nil {
			return nil, err
		}
		n, err := strconv.Atoi(rest[0])
		if err != nil {
			return nil, fmt.Errorf("invalid tag number %q", rest[0])
		}
		cmd := CommandTag
		if name == "move-to-tag" {
			cmd = CommandMoveToTag
		}
		return NewRequest(cmd, TagPayload{Tag: n})
	case "focus":
		if err := want(1, "focus <window-id>"); err != nil {
			return nil, err
		}
		id, err := strconv.ParseUint(rest[0], 10, 64)
		if err != nil || !wm.WindowID(id).Valid() {
			return nil, fmt.Errorf("invalid window id %q", rest[0])
		}
		return NewRequest(CommandFocus, FocusPayload{ID: wm.WindowID(id)})
	case "toggle-floating":
		if err := want(0, name); err != nil {
			return nil, err
		}
		return NewRequest(CommandToggleFloating, nil)
	case "close":
		if err := want(0, name); err != nil {
			return nil, err
		}
		return NewRequest(CommandClose, nil)
	case "spawn":
		if len(rest) == 0 {
			return nil, fmt.Errorf("usage: spawn <command> [args...]")
		}
		return NewRequest(CommandSpawn, SpawnPayload{Command: rest})
	case "get":
		if err := want(1, "get {"+strings.Join(GetTargets, "|")+"}"); err != nil {
			return nil, err
		}
		return NewRequest(CommandGet, GetPayload{What: rest[0]})
	case "set":
		if err := want(2, "set {layout <name>|gap <pixels>|border <pixels>}"); err != nil {
			return nil, err
		}
		return NewRequest(CommandSet, SetPayload{Key: rest[0], Value: rest[1]})
	case "action":
		if len(rest) == 0 {
			return nil, fmt.Errorf("usage: action <verb> [args...]")
		}
		return NewRequest(CommandAction, ActionPayload{Action: strings.Join(rest, " ")})
	case "reload":
		if err := want(0, name); err != nil {
			return nil, err
		}
		return NewRequest(CommandReload, nil)
	case "exit":
		if err := want(0, name); err != nil {
			return nil, err
		}
		return NewRequest(CommandExit, nil)
	}
	return nil, fmt.Errorf("unknown command %q", name)
}
