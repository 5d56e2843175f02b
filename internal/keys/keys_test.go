package keys

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/1broseidon/tagwm/internal/config"
)

func TestParseBinding(t *testing.T) {
	tests := []struct {
		in   string
		want Binding
	}{
		{"Mod4+Return", Binding{Mods: ModSuper, Key: "Return"}},
		{"super+shift+h", Binding{Mods: ModSuper | ModShift, Key: "h"}},
		{"Shift+Mod4+h", Binding{Mods: ModSuper | ModShift, Key: "h"}},
		{"ctrl+alt+Delete", Binding{Mods: ModControl | ModAlt, Key: "Delete"}},
		{"Print", Binding{Key: "Print"}},
		{"Mod4++", Binding{Mods: ModSuper, Key: "+"}},
	}
	for _, tt := range tests {
		got, err := ParseBinding(tt.in)
		if err != nil {
			t.Fatalf("ParseBinding(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseBinding(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestParseBinding_Errors(t *testing.T) {
	for _, in := range []string{"", "  ", "Mod4+", "Hyper+x", "Mod4+super+x"} {
		if _, err := ParseBinding(in); err == nil {
			t.Fatalf("ParseBinding(%q): expected error", in)
		}
	}
}

func TestBinding_CanonicalForms(t *testing.T) {
	b, err := ParseBinding("shift+ctrl+alt+win+x")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := b.String(); got != "Mod4+Mod1+Control+Shift+x" {
		t.Fatalf("String() = %q", got)
	}
	if got := b.XKeySequence(); got != "Mod4-Mod1-Control-Shift-x" {
		t.Fatalf("XKeySequence() = %q", got)
	}
	plus, _ := ParseBinding("Mod4++")
	if got := plus.XKeySequence(); got != "Mod4-plus" {
		t.Fatalf("XKeySequence() = %q, want Mod4-plus", got)
	}
	c, err := Canonical("Shift+Super+Tab")
	if err != nil || c != "Mod4+Shift+Tab" {
		t.Fatalf("Canonical = %q, %v", c, err)
	}
}

func TestParseAction(t *testing.T) {
	tests := []struct {
		in   string
		want Action
	}{
		{"spawn alacritty -e htop", Action{Verb: VerbSpawn, Command: []string{"alacritty", "-e", "htop"}}},
		{"switch_tag 3", Action{Verb: VerbSwitchTag, Tag: 3}},
		{"move_to_tag  9", Action{Verb: VerbMoveToTag, Tag: 9}},
		{"switch_tag 0", Action{Verb: VerbSwitchTag, Tag: 0}},
		{"cycle_layout", Action{Verb: VerbCycleLayout}},
		{" exit ", Action{Verb: VerbExit}},
	}
	for _, tt := range tests {
		got, err := ParseAction(tt.in)
		if err != nil {
			t.Fatalf("ParseAction(%q): %v", tt.in, err)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Fatalf("ParseAction(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestParseAction_Errors(t *testing.T) {
	for _, in := range []string{"", "spawn", "switch_tag", "switch_tag two", "switch_tag 1 2", "exit now", "launch_rockets"} {
		if _, err := ParseAction(in); err == nil {
			t.Fatalf("ParseAction(%q): expected error", in)
		}
	}
}

func TestAction_String(t *testing.T) {
	for _, in := range []string{"spawn rofi -show run", "switch_tag 4", "focus_left"} {
		a, err := ParseAction(in)
		if err != nil {
			t.Fatalf("parse %q: %v", in, err)
		}
		if got := a.String(); got != in {
			t.Fatalf("String() = %q, want %q", got, in)
		}
	}
}

func TestCompile_DefaultKeybindings(t *testing.T) {
	cfg := config.DefaultConfig()
	table, problems := Compile(cfg.Keybindings)
	if len(problems) != 0 {
		t.Fatalf("unexpected problems: %v", problems)
	}
	if table.Len() != len(cfg.Keybindings) {
		t.Fatalf("expected %d entries, got %d", len(cfg.Keybindings), table.Len())
	}
	a, ok := table.Lookup(Binding{Mods: ModSuper | ModShift, Key: "3"})
	if !ok || a.Verb != VerbMoveToTag || a.Tag != 3 {
		t.Fatalf("Mod4+Shift+3 = %+v, %v", a, ok)
	}
}

func TestCompile_ReportsProblems(t *testing.T) {
	table, problems := Compile(map[string]string{
		"Mod4+x":        "explode",
		"Hyper+y":       "exit",
		"Mod4+Shift+a":  "toggle_bar",
		"shift+super+a": "cycle_layout",
		"":              "exit",
		"Mod4+z":        "",
	})
	if table.Len() != 1 {
		t.Fatalf("expected one valid entry, got %d", table.Len())
	}
	if len(problems) != 3 {
		t.Fatalf("expected three problems, got %v", problems)
	}
	joined := strings.Join(problems, "\n")
	for _, want := range []string{"unknown action", "unknown modifier", "duplicates Mod4+Shift+a"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("problems %v missing %q", problems, want)
		}
	}
	// "Mod4+Shift+a" sorts before "shift+super+a".
	a, _ := table.Lookup(Binding{Mods: ModSuper | ModShift, Key: "a"})
	if a.Verb != VerbToggleBar {
		t.Fatalf("expected first spelling to win, got %v", a.Verb)
	}
}

func TestEntries_Sorted(t *testing.T) {
	table, _ := Compile(map[string]string{"Mod4+b": "toggle_bar", "Mod4+a": "exit", "Print": "exit"})
	var got []string
	for _, e := range table.Entries() {
		got = append(got, e.Binding.String())
	}
	want := []string{"Mod4+a", "Mod4+b", "Print"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_IncludesBindingProblems(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Keybindings["Mod4+F1"] = "switch_tag"
	problems := Validate(cfg)
	if len(problems) != 1 || !strings.Contains(problems[0], "Mod4+F1") {
		t.Fatalf("unexpected problems: %v", problems)
	}
}
