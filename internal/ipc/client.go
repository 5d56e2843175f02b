package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/tagwm/internal/config"
	"github.com/1broseidon/tagwm/internal/runtimepath"
	"github.com/1broseidon/tagwm/internal/wm"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for the default socket path.
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; Do surfaces connection errors.
		socketPath = ""
	}
	return NewClientAt(socketPath)
}

// NewClientAt creates a client for a specific socket path.
func NewClientAt(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// Do sends a request and waits for the response. An ERROR response is
// returned as an error.
func (c *Client) Do(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

// Command parses command-line words and sends them.
func (c *Client) Command(args []string) (*Response, error) {
	req, err := ParseCommand(args)
	if err != nil {
		return nil, err
	}
	return c.Do(req)
}

func (c *Client) send(cmd CommandType, payload interface{}) (string, error) {
	req, err := NewRequest(cmd, payload)
	if err != nil {
		return "", err
	}
	resp, err := c.Do(req)
	if err != nil {
		return "", err
	}
	var msg MessageData
	if len(resp.Data) > 0 {
		if err := json.Unmarshal(resp.Data, &msg); err != nil {
			return "", fmt.Errorf("failed to parse message: %w", err)
		}
	}
	return msg.Message, nil
}

// SwitchTag switches to the 1-based tag n.
func (c *Client) SwitchTag(n int) (string, error) {
	return c.send(CommandTag, TagPayload{Tag: n})
}

// MoveToTag moves the focused window to the 1-based tag n.
func (c *Client) MoveToTag(n int) (string, error) {
	return c.send(CommandMoveToTag, TagPayload{Tag: n})
}

// Focus shows the tag holding id and focuses it.
func (c *Client) Focus(id wm.WindowID) (string, error) {
	return c.send(CommandFocus, FocusPayload{ID: id})
}

// ToggleFloating toggles floating on the focused window.
func (c *Client) ToggleFloating() (string, error) {
	return c.send(CommandToggleFloating, nil)
}

// Close asks the focused window to close.
func (c *Client) Close() (string, error) {
	return c.send(CommandClose, nil)
}

// Spawn starts argv through the daemon.
func (c *Client) Spawn(argv []string) (string, error) {
	return c.send(CommandSpawn, SpawnPayload{Command: argv})
}

// Set changes a runtime setting.
func (c *Client) Set(key, value string) (string, error) {
	return c.send(CommandSet, SetPayload{Key: key, Value: value})
}

// Action runs a keybinding action string.
func (c *Client) Action(action string) (string, error) {
	return c.send(CommandAction, ActionPayload{Action: action})
}

// Reload asks the daemon to reload its configuration.
func (c *Client) Reload() (string, error) {
	return c.send(CommandReload, nil)
}

// Exit asks the daemon to shut down.
func (c *Client) Exit() (string, error) {
	return c.send(CommandExit, nil)
}

// Get returns the raw JSON for a GET target.
func (c *Client) Get(what string) (json.RawMessage, error) {
	req, err := NewRequest(CommandGet, GetPayload{What: what})
	if err != nil {
		return nil, err
	}
	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// GetState retrieves a full snapshot of the manager.
func (c *Client) GetState() (*wm.State, error) {
	data, err := c.Get(GetState)
	if err != nil {
		return nil, err
	}
	var st wm.State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("failed to parse state data: %w", err)
	}
	return &st, nil
}

// GetConfig retrieves the daemon's active configuration.
func (c *Client) GetConfig() (*config.Config, error) {
	data, err := c.Get(GetConfig)
	if err != nil {
		return nil, err
	}
	var cd ConfigData
	if err := json.Unmarshal(data, &cd); err != nil {
		return nil, fmt.Errorf("failed to parse config data: %w", err)
	}
	var cfg config.Config
	if err := yaml.Unmarshal([]byte(cd.YAML), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config yaml: %w", err)
	}
	return &cfg, nil
}

// GetVersion retrieves daemon version and uptime.
func (c *Client) GetVersion() (*VersionData, error) {
	data, err := c.Get(GetVersion)
	if err != nil {
		return nil, err
	}
	var v VersionData
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to parse version data: %w", err)
	}
	return &v, nil
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetVersion()
	return err
}
