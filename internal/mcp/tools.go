package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/tagwm/internal/ipc"
	"github.com/1broseidon/tagwm/internal/wm"
)

// call sends a command and returns the daemon's message.
func (s *Server) call(tool string, cmd ipc.CommandType, payload any) (MessageOutput, error) {
	req, err := ipc.NewRequest(cmd, payload)
	if err != nil {
		return MessageOutput{}, err
	}
	resp, err := s.daemon.Do(req)
	if err != nil {
		s.logger.Debug("tool failed", "tool", tool, "error", err)
		return MessageOutput{}, err
	}
	var msg ipc.MessageData
	if len(resp.Data) > 0 {
		if err := json.Unmarshal(resp.Data, &msg); err != nil {
			return MessageOutput{}, fmt.Errorf("failed to parse message: %w", err)
		}
	}
	s.logger.Debug("tool ok", "tool", tool, "message", msg.Message)
	return MessageOutput{Message: msg.Message}, nil
}

// get fetches a GET target and decodes it into out when out is non-nil.
func (s *Server) get(what string, out any) (json.RawMessage, error) {
	req, err := ipc.NewRequest(ipc.CommandGet, ipc.GetPayload{What: what})
	if err != nil {
		return nil, err
	}
	resp, err := s.daemon.Do(req)
	if err != nil {
		return nil, err
	}
	if out != nil {
		if err := json.Unmarshal(resp.Data, out); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", what, err)
		}
	}
	return resp.Data, nil
}

func textResult(text string) *mcpsdk.CallToolResult {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: text}},
	}
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, _ NoInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	var st wm.State
	if _, err := s.get(ipc.GetState, &st); err != nil {
		return nil, ListWindowsOutput{}, err
	}

	out := ListWindowsOutput{
		CurrentTag: st.Current.Number(),
		Windows:    make([]WindowInfo, 0, len(st.Windows)),
	}
	for _, w := range st.Windows {
		out.Windows = append(out.Windows, WindowInfo{
			ID:         w.ID,
			Title:      w.Title,
			Class:      w.Class,
			Tag:        w.Tag.Number(),
			Floating:   w.Floating,
			Minimized:  w.Minimized,
			Fullscreen: w.Fullscreen,
			Focused:    st.Focused != nil && st.Focused.ID == w.ID,
		})
	}
	return nil, out, nil
}

func (s *Server) handleCurrentTag(_ context.Context, _ *mcpsdk.CallToolRequest, _ NoInput) (*mcpsdk.CallToolResult, CurrentTagOutput, error) {
	var tag ipc.TagData
	if _, err := s.get(ipc.GetTag, &tag); err != nil {
		return nil, CurrentTagOutput{}, err
	}
	return nil, CurrentTagOutput{
		Number:      tag.Number,
		Name:        tag.Name,
		Layout:      string(tag.Layout.Type),
		MasterRatio: tag.Layout.MasterRatio,
		MasterCount: tag.Layout.MasterCount,
		Windows:     tag.Windows,
		Focused:     tag.Focused,
	}, nil
}

func (s *Server) handleSwitchTag(_ context.Context, _ *mcpsdk.CallToolRequest, args TagInput) (*mcpsdk.CallToolResult, MessageOutput, error) {
	out, err := s.call("switch_tag", ipc.CommandTag, ipc.TagPayload{Tag: args.Tag})
	return nil, out, err
}

func (s *Server) handleFocusWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args FocusInput) (*mcpsdk.CallToolResult, MessageOutput, error) {
	out, err := s.call("focus_window", ipc.CommandFocus, ipc.FocusPayload{ID: args.ID})
	return nil, out, err
}

func (s *Server) handleMoveToTag(_ context.Context, _ *mcpsdk.CallToolRequest, args TagInput) (*mcpsdk.CallToolResult, MessageOutput, error) {
	out, err := s.call("move_to_tag", ipc.CommandMoveToTag, ipc.TagPayload{Tag: args.Tag})
	return nil, out, err
}

func (s *Server) handleToggleFloating(_ context.Context, _ *mcpsdk.CallToolRequest, _ NoInput) (*mcpsdk.CallToolResult, MessageOutput, error) {
	out, err := s.call("toggle_floating", ipc.CommandToggleFloating, nil)
	return nil, out, err
}

func (s *Server) handleCloseWindow(_ context.Context, _ *mcpsdk.CallToolRequest, _ NoInput) (*mcpsdk.CallToolResult, MessageOutput, error) {
	out, err := s.call("close_window", ipc.CommandClose, nil)
	return nil, out, err
}

func (s *Server) handleSpawn(_ context.Context, _ *mcpsdk.CallToolRequest, args SpawnInput) (*mcpsdk.CallToolResult, MessageOutput, error) {
	if len(args.Command) == 0 {
		return nil, MessageOutput{}, fmt.Errorf("command is required")
	}
	out, err := s.call("spawn", ipc.CommandSpawn, ipc.SpawnPayload{Command: args.Command})
	return nil, out, err
}

func (s *Server) handleGet(_ context.Context, _ *mcpsdk.CallToolRequest, args GetInput) (*mcpsdk.CallToolResult, any, error) {
	data, err := s.get(args.What, nil)
	if err != nil {
		return nil, nil, err
	}
	return textResult(string(data)), nil, nil
}

func (s *Server) handleSet(_ context.Context, _ *mcpsdk.CallToolRequest, args SetInput) (*mcpsdk.CallToolResult, MessageOutput, error) {
	out, err := s.call("set", ipc.CommandSet, ipc.SetPayload{Key: args.Key, Value: args.Value})
	return nil, out, err
}

func (s *Server) handleRunAction(_ context.Context, _ *mcpsdk.CallToolRequest, args ActionInput) (*mcpsdk.CallToolResult, MessageOutput, error) {
	out, err := s.call("run_action", ipc.CommandAction, ipc.ActionPayload{Action: args.Action})
	return nil, out, err
}

func (s *Server) handleReload(_ context.Context, _ *mcpsdk.CallToolRequest, _ NoInput) (*mcpsdk.CallToolResult, MessageOutput, error) {
	out, err := s.call("reload_config", ipc.CommandReload, nil)
	return nil, out, err
}
