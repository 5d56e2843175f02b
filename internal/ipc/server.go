package ipc

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/tagwm/internal/bar"
	"github.com/1broseidon/tagwm/internal/keys"
	"github.com/1broseidon/tagwm/internal/wm"
)

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	mgr          *wm.Manager
	dispatcher   *keys.Dispatcher
	version      string
	logger       *slog.Logger
	startTime    time.Time
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server bound to socketPath once started.
func NewServer(socketPath string, mgr *wm.Manager, dispatcher *keys.Dispatcher, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		socketPath: socketPath,
		mgr:        mgr,
		dispatcher: dispatcher,
		version:    version,
		logger:     logger,
		startTime:  time.Now(),
	}
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	// Remove a stale socket left by a crashed daemon.
	os.Remove(s.socketPath)

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("IPC server listening", "socket", s.socketPath)

	go s.acceptLoop()

	return nil
}

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			s.logger.Warn("IPC accept error", "error", err)
			if errors.Is(err, net.ErrClosed) {
				return
			}
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("IPC read error", "error", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	resp := s.Handle(req)

	respData, err := resp.Marshal()
	if err != nil {
		s.logger.Error("failed to marshal response", "error", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.logger.Warn("failed to send response", "error", err)
	}
}

// Handle processes one request and returns its response.
func (s *Server) Handle(req *Request) *Response {
	s.logger.Debug("IPC request", "command", req.Command)

	switch req.Command {
	case CommandTag:
		return s.handleTag(req.Payload, false)
	case CommandMoveToTag:
		return s.handleTag(req.Payload, true)
	case CommandFocus:
		return s.handleFocus(req.Payload)
	case CommandToggleFloating:
		return s.handleFocused("toggled floating", s.mgr.ToggleFloating)
	case CommandClose:
		return s.handleFocused("close requested", s.mgr.CloseFocused)
	case CommandSpawn:
		return s.handleSpawn(req.Payload)
	case CommandGet:
		return s.handleGet(req.Payload)
	case CommandSet:
		return s.handleSet(req.Payload)
	case CommandAction:
		return s.handleAction(req.Payload)
	case CommandReload:
		return s.handleReload()
	case CommandExit:
		s.logger.Info("IPC: exit requested")
		s.mgr.Exit()
		return message("exiting")
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func message(format string, args ...interface{}) *Response {
	resp, _ := NewOKResponse(MessageData{Message: fmt.Sprintf(format, args...)})
	return resp
}

func errorResponse(err error) *Response {
	return NewErrorResponse(err.Error())
}

func decode(payload json.RawMessage, v interface{}) error {
	if len(payload) == 0 {
		return fmt.Errorf("%w: missing payload", wm.ErrInvalidArgument)
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("%w: invalid payload: %v", wm.ErrInvalidArgument, err)
	}
	return nil
}

func (s *Server) tagFromNumber(n int) (wm.TagID, error) {
	id, ok := wm.TagFromNumber(n)
	if !ok || int(id) >= s.mgr.TagCount() {
		return 0, fmt.Errorf("%w: tag %d out of range 1-%d", wm.ErrInvalidArgument, n, s.mgr.TagCount())
	}
	return id, nil
}

func (s *Server) handleTag(payload json.RawMessage, move bool) *Response {
	var p TagPayload
	if err := decode(payload, &p); err != nil {
		return errorResponse(err)
	}
	id, err := s.tagFromNumber(p.Tag)
	if err != nil {
		return errorResponse(err)
	}
	if !move {
		s.mgr.SwitchTag(id)
		return message("switched to tag %d", p.Tag)
	}
	if _, ok := s.mgr.Focused(); !ok {
		return errorResponse(fmt.Errorf("%w: no focused window", wm.ErrNotFound))
	}
	s.mgr.MoveFocusedToTag(id)
	return message("moved focused window to tag %d", p.Tag)
}

// handleFocus shows the window's tag and focuses it there.
func (s *Server) handleFocus(payload json.RawMessage) *Response {
	var p FocusPayload
	if err := decode(payload, &p); err != nil {
		return errorResponse(err)
	}
	w, err := s.mgr.ShowWindow(p.ID)
	if err != nil {
		return errorResponse(err)
	}
	return message("focused %s on tag %d", w.Title, w.Tag.Number())
}

func (s *Server) handleFocused(done string, op func()) *Response {
	if _, ok := s.mgr.Focused(); !ok {
		return errorResponse(fmt.Errorf("%w: no focused window", wm.ErrNotFound))
	}
	op()
	return message("%s", done)
}

func (s *Server) handleSpawn(payload json.RawMessage) *Response {
	var p SpawnPayload
	if err := decode(payload, &p); err != nil {
		return errorResponse(err)
	}
	if len(p.Command) == 0 {
		return errorResponse(fmt.Errorf("%w: command is required", wm.ErrInvalidArgument))
	}
	if err := s.dispatcher.Execute(keys.Action{Verb: keys.VerbSpawn, Command: p.Command}); err != nil {
		return errorResponse(err)
	}
	return message("spawned: %s", strings.Join(p.Command, " "))
}

func (s *Server) handleGet(payload json.RawMessage) *Response {
	var p GetPayload
	if err := decode(payload, &p); err != nil {
		return errorResponse(err)
	}

	var data interface{}
	switch p.What {
	case GetTag:
		t := s.mgr.CurrentTag()
		data = TagData{
			Number:  t.ID.Number(),
			Name:    t.Name,
			Layout:  t.Layout,
			Windows: len(t.Windows),
			Focused: t.Focused,
		}
	case GetWindows:
		windows, err := s.mgr.Windows(s.mgr.CurrentTag().ID)
		if err != nil {
			return errorResponse(err)
		}
		data = windows
	case GetFocused:
		w, ok := s.mgr.Focused()
		if !ok {
			return errorResponse(fmt.Errorf("%w: no focused window", wm.ErrNotFound))
		}
		data = w
	case GetConfig:
		out, err := yaml.Marshal(s.mgr.Config())
		if err != nil {
			return NewErrorResponse(fmt.Sprintf("failed to encode config: %v", err))
		}
		data = ConfigData{YAML: string(out)}
	case GetVersion:
		data = VersionData{
			Version:       s.version,
			UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		}
	case GetState:
		data = s.mgr.State()
	case GetBar:
		st := s.mgr.State()
		measure := bar.EstimateWidth(s.mgr.Config().Appearance.BarFontSize)
		data = bar.Build(st, int(st.Screen.Width), measure, time.Now())
	default:
		return errorResponse(fmt.Errorf("%w: unknown get target %q (want %s)",
			wm.ErrInvalidArgument, p.What, strings.Join(GetTargets, ", ")))
	}

	resp, err := NewOKResponse(data)
	if err != nil {
		return errorResponse(err)
	}
	return resp
}

func (s *Server) handleSet(payload json.RawMessage) *Response {
	var p SetPayload
	if err := decode(payload, &p); err != nil {
		return errorResponse(err)
	}

	switch p.Key {
	case SetLayout:
		if err := s.mgr.SetLayout(p.Value); err != nil {
			return errorResponse(err)
		}
		return message("layout set to %s", p.Value)
	case SetGap, SetBorder:
		px, err := strconv.Atoi(p.Value)
		if err != nil {
			return errorResponse(fmt.Errorf("%w: %s must be a number, got %q", wm.ErrInvalidArgument, p.Key, p.Value))
		}
		set := s.mgr.SetGap
		if p.Key == SetBorder {
			set = s.mgr.SetBorder
		}
		if err := set(px); err != nil {
			return errorResponse(err)
		}
		return message("%s set to %d", p.Key, px)
	}
	return errorResponse(fmt.Errorf("%w: unknown setting %q", wm.ErrInvalidArgument, p.Key))
}

func (s *Server) handleAction(payload json.RawMessage) *Response {
	var p ActionPayload
	if err := decode(payload, &p); err != nil {
		return errorResponse(err)
	}
	if err := s.dispatcher.Run(p.Action); err != nil {
		return errorResponse(err)
	}
	return message("ran %s", strings.TrimSpace(p.Action))
}

func (s *Server) handleReload() *Response {
	s.logger.Info("IPC: reload requested")
	if err := s.dispatcher.Execute(keys.Action{Verb: keys.VerbReloadConfig}); err != nil {
		return errorResponse(err)
	}
	return message("config reloaded")
}

// sendError sends an error response
func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string {
	return s.socketPath
}
