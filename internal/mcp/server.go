package mcp

import (
	"context"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/tagwm/internal/ipc"
)

const (
	ServerName    = "tagwm"
	ServerVersion = "0.1.0"
)

// Daemon sends one request to the running window manager. *ipc.Client
// satisfies it.
type Daemon interface {
	Do(req *ipc.Request) (*ipc.Response, error)
}

// Server is the MCP server exposing window manager control as tools.
type Server struct {
	mcpServer *mcpsdk.Server
	daemon    Daemon
	logger    *slog.Logger
}

// NewServer creates a new MCP server that forwards tool calls to daemon.
func NewServer(daemon Daemon, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{daemon: daemon, logger: logger}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List every managed window with its tag, floating, minimized and fullscreen state. The focused window on the current tag is marked.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "current_tag",
		Description: "Describe the current tag: number, name, layout parameters, window count and focused window.",
	}, s.handleCurrentTag)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "switch_tag",
		Description: "Switch the view to a tag (1-based). Windows on other tags are hidden.",
	}, s.handleSwitchTag)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "focus_window",
		Description: "Focus a window by the id from list_windows, switching to its tag.",
	}, s.handleFocusWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "move_to_tag",
		Description: "Move the focused window to a tag (1-based) without switching the view.",
	}, s.handleMoveToTag)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "toggle_floating",
		Description: "Toggle floating on the focused window. Floating windows keep their own geometry.",
	}, s.handleToggleFloating)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "close_window",
		Description: "Ask the focused window to close.",
	}, s.handleCloseWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "spawn",
		Description: "Start a program. The new window is managed on the current tag unless a window rule says otherwise.",
	}, s.handleSpawn)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get",
		Description: "Query the window manager. Targets: tag, windows, focused, config, version, state, bar. Returns the daemon's JSON.",
	}, s.handleGet)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set",
		Description: "Change a runtime setting: layout (tiling, floating, monocle) for the current tag, gap in pixels, or border width in pixels.",
	}, s.handleSet)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "run_action",
		Description: "Run any keybinding action, e.g. focus_left, move_down, cycle_layout, increase_master, toggle_bar.",
	}, s.handleRunAction)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "reload_config",
		Description: "Reload the configuration file and rebind keys.",
	}, s.handleReload)
}
