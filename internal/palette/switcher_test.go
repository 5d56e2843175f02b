package palette

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/1broseidon/tagwm/internal/config"
	"github.com/1broseidon/tagwm/internal/geom"
	"github.com/1broseidon/tagwm/internal/wm"
)

type fakeBackend struct {
	result SelectResult
	err    error
	shown  []Item
}

func (f *fakeBackend) Show(prompt string, items []Item, message string) (SelectResult, error) {
	f.shown = items
	return f.result, f.err
}

func (f *fakeBackend) Capabilities() Capabilities {
	return Capabilities{}
}

type recordingTarget struct {
	calls []string
}

func (r *recordingTarget) SwitchTag(n int) (string, error) {
	r.calls = append(r.calls, fmt.Sprintf("tag %d", n))
	return "switched", nil
}

func (r *recordingTarget) Focus(id wm.WindowID) (string, error) {
	r.calls = append(r.calls, "focus "+id.String())
	return "focused", nil
}

func testState(t *testing.T) (wm.State, wm.WindowID, wm.WindowID) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Tags.Names = []string{"web", "code", "chat"}
	cfg.Rules = nil
	m := wm.New(cfg, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	m.SetScreen(geom.Rect{Width: 800, Height: 600})
	a, _ := m.Add("Docs", "Firefox", geom.Rect{Width: 100, Height: 100}, 0)
	b, _ := m.Add("", "Slack", geom.Rect{Width: 100, Height: 100}, 2)
	return m.State(), a, b
}

func TestSwitcherItems(t *testing.T) {
	st, a, _ := testState(t)
	items := SwitcherItems(&st)

	var labels []string
	for _, it := range items {
		labels = append(labels, it.Label)
	}
	want := []string{
		"1: web (1)",
		"    Docs [Firefox]",
		"2: code",
		"3: chat (1)",
		"    Slack",
	}
	if diff := cmp.Diff(want, labels); diff != "" {
		t.Fatalf("labels mismatch (-want +got):\n%s", diff)
	}
	if !items[0].IsActive || items[2].IsActive {
		t.Fatalf("expected only the current tag active")
	}
	if !items[1].IsActive || items[1].Icon != "firefox" {
		t.Fatalf("unexpected focused window item %+v", items[1])
	}
	if items[1].Action != "focus:"+strconv.FormatUint(uint64(a), 10) {
		t.Fatalf("unexpected action %q", items[1].Action)
	}
	if items[3].Action != "tag:3" {
		t.Fatalf("unexpected tag action %q", items[3].Action)
	}
}

func TestSwitchAppliesChoice(t *testing.T) {
	st, _, b := testState(t)
	target := &recordingTarget{}
	backend := &fakeBackend{}

	items := SwitcherItems(&st)
	backend.result = SelectResult{Item: items[4]}
	if _, err := Switch(backend, target, &st); err != nil {
		t.Fatalf("switch: %v", err)
	}
	backend.result = SelectResult{Item: items[2]}
	if _, err := Switch(backend, target, &st); err != nil {
		t.Fatalf("switch: %v", err)
	}

	want := []string{"focus " + b.String(), "tag 2"}
	if diff := cmp.Diff(want, target.calls); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
	if len(backend.shown) != len(items) {
		t.Fatalf("expected %d items shown, got %d", len(items), len(backend.shown))
	}
}

func TestSwitchCancelled(t *testing.T) {
	st, _, _ := testState(t)
	target := &recordingTarget{}
	_, err := Switch(&fakeBackend{err: ErrCancelled}, target, &st)
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
	if len(target.calls) != 0 {
		t.Fatalf("expected no calls, got %v", target.calls)
	}
}

func TestApplyRejectsBadActions(t *testing.T) {
	for _, action := range []string{"", "tag:x", "focus:-1", "noop"} {
		if _, err := Apply(&recordingTarget{}, action); err == nil {
			t.Fatalf("Apply(%q): expected error", action)
		}
	}
}
