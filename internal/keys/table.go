package keys

import (
	"fmt"
	"sort"
	"strings"

	"github.com/1broseidon/tagwm/internal/config"
)

// Entry is one compiled keybinding.
type Entry struct {
	Binding Binding
	Action  Action
}

// Table maps canonical binding strings to parsed actions.
type Table struct {
	entries map[string]Entry
}

// Compile canonicalizes every keybinding and parses every action once.
// Invalid entries are skipped and reported as problems. When two spellings
// of the same binding collide, the one that sorts first wins.
func Compile(bindings map[string]string) (*Table, []string) {
	keys := make([]string, 0, len(bindings))
	for k := range bindings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	t := &Table{entries: make(map[string]Entry, len(bindings))}
	var problems []string
	for _, raw := range keys {
		// Blank keys and actions are reported by config validation.
		if strings.TrimSpace(raw) == "" || strings.TrimSpace(bindings[raw]) == "" {
			continue
		}
		b, err := ParseBinding(raw)
		if err != nil {
			problems = append(problems, fmt.Sprintf("keybindings.%s: %v", raw, err))
			continue
		}
		a, err := ParseAction(bindings[raw])
		if err != nil {
			problems = append(problems, fmt.Sprintf("keybindings.%s: %v", raw, err))
			continue
		}
		canon := b.String()
		if _, dup := t.entries[canon]; dup {
			problems = append(problems, fmt.Sprintf("keybindings.%s: duplicates %s", raw, canon))
			continue
		}
		t.entries[canon] = Entry{Binding: b, Action: a}
	}
	return t, problems
}

// Lookup returns the action bound to b.
func (t *Table) Lookup(b Binding) (Action, bool) {
	e, ok := t.entries[b.String()]
	return e.Action, ok
}

// Entries returns the compiled bindings sorted by canonical string.
func (t *Table) Entries() []Entry {
	out := make([]Entry, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Binding.String() < out[j].Binding.String()
	})
	return out
}

// Len returns the number of compiled bindings.
func (t *Table) Len() int { return len(t.entries) }

// Validate runs config validation plus binding and action parsing.
func Validate(cfg *config.Config) []string {
	problems := cfg.Validate()
	_, bindingProblems := Compile(cfg.Keybindings)
	return append(problems, bindingProblems...)
}
