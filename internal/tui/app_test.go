package tui

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"github.com/1broseidon/tagwm/internal/config"
	"github.com/1broseidon/tagwm/internal/geom"
	"github.com/1broseidon/tagwm/internal/wm"
)

type fakeClient struct {
	state *wm.State
	cfg   *config.Config
	err   error
	calls []string
}

func (f *fakeClient) GetState() (*wm.State, error) { return f.state, f.err }

func (f *fakeClient) GetConfig() (*config.Config, error) { return f.cfg, nil }

func (f *fakeClient) SwitchTag(n int) (string, error) {
	f.calls = append(f.calls, fmt.Sprintf("tag %d", n))
	return "switched", nil
}

func (f *fakeClient) Focus(id wm.WindowID) (string, error) {
	f.calls = append(f.calls, "focus "+id.String())
	return "focused", nil
}

func (f *fakeClient) Action(action string) (string, error) {
	f.calls = append(f.calls, "action "+action)
	return "ok", nil
}

func (f *fakeClient) Set(key, value string) (string, error) {
	f.calls = append(f.calls, "set "+key+" "+value)
	return "ok", nil
}

func newTestModel(t *testing.T) (model, *fakeClient, wm.WindowID) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Tags.Names = []string{"web", "code"}
	cfg.Rules = nil
	m := wm.New(cfg, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	m.SetScreen(geom.Rect{Width: 800, Height: 600})
	id, _ := m.Add("Docs", "Firefox", geom.Rect{Width: 100, Height: 100}, 0)
	st := m.State()

	client := &fakeClient{state: &st, cfg: cfg}
	mdl := newModel(client)
	mdl = update(t, mdl, fetchState(client)())
	mdl = update(t, mdl, tea.WindowSizeMsg{Width: 80, Height: 24})
	return mdl, client, id
}

func update(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(model)
}

// press sends a key and runs the returned command, if any.
func press(t *testing.T, m model, k tea.KeyMsg) model {
	t.Helper()
	next, cmd := m.Update(k)
	m = next.(model)
	if cmd != nil {
		if msg := cmd(); msg != nil {
			if _, ok := msg.(resultMsg); ok {
				m = update(t, m, msg)
			}
		}
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestWindowsTabSelectAndTagKeys(t *testing.T) {
	m, client, id := newTestModel(t)
	if len(m.rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(m.rows))
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = press(t, m, runes("f"))
	m = press(t, m, runes("2"))

	want := []string{
		"tag 1",
		"focus " + id.String(),
		"focus " + id.String(),
		"action toggle_floating",
		"tag 2",
	}
	if diff := cmp.Diff(want, client.calls); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
	if m.status != "switched" {
		t.Fatalf("expected status from last result, got %q", m.status)
	}
}

func TestWindowKeysIgnoreTagRows(t *testing.T) {
	m, client, _ := newTestModel(t)
	_, cmd := m.Update(runes("x"))
	if cmd != nil {
		t.Fatalf("expected no command for close on a tag row")
	}
	if len(client.calls) != 0 {
		t.Fatalf("unexpected calls %v", client.calls)
	}
}

func TestLayoutTabKeys(t *testing.T) {
	m, client, _ := newTestModel(t)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.activeTab != TabLayout {
		t.Fatalf("expected layout tab, got %s", m.activeTab)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m = press(t, m, runes("l"))
	m = press(t, m, runes("-"))
	press(t, m, runes("]"))

	want := []string{
		"action cycle_layout",
		"action increase_master",
		"action decrease_master_count",
		fmt.Sprintf("set gap %d", client.cfg.Appearance.InnerGap+2),
	}
	if diff := cmp.Diff(want, client.calls); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestViewShowsStateAndDisconnect(t *testing.T) {
	m, _, _ := newTestModel(t)
	view := m.View()
	for _, want := range []string{"tag 1: web", "Docs", "[Firefox]", "2 code"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view:\n%s", want, view)
		}
	}

	m = update(t, m, stateMsg{err: errors.New("dial unix: no such file")})
	view = m.View()
	if !strings.Contains(view, "daemon not running") || !strings.Contains(view, "no such file") {
		t.Fatalf("expected disconnect in view:\n%s", view)
	}
}

func TestQuit(t *testing.T) {
	m, _, _ := newTestModel(t)
	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}
