package keys

import (
	"fmt"
	"strings"
)

// Mod is a set of modifier keys.
type Mod uint8

const (
	ModSuper Mod = 1 << iota // Mod4
	ModAlt                   // Mod1
	ModControl
	ModShift
)

// modOrder is the canonical order of modifiers in a binding string.
var modOrder = []struct {
	mod  Mod
	name string
}{
	{ModSuper, "Mod4"},
	{ModAlt, "Mod1"},
	{ModControl, "Control"},
	{ModShift, "Shift"},
}

var modAliases = map[string]Mod{
	"mod4":    ModSuper,
	"super":   ModSuper,
	"win":     ModSuper,
	"mod1":    ModAlt,
	"alt":     ModAlt,
	"control": ModControl,
	"ctrl":    ModControl,
	"shift":   ModShift,
}

// ParseMod resolves a modifier name or alias, case-insensitively.
func ParseMod(name string) (Mod, bool) {
	m, ok := modAliases[strings.ToLower(strings.TrimSpace(name))]
	return m, ok
}

// Names returns the modifier names in canonical order.
func (m Mod) Names() []string {
	var names []string
	for _, o := range modOrder {
		if m&o.mod != 0 {
			names = append(names, o.name)
		}
	}
	return names
}

// Binding is a key plus the modifiers held with it.
type Binding struct {
	Mods Mod
	Key  string
}

// ParseBinding parses strings like "Super+Shift+Return" or "mod4+ctrl+h".
// Modifiers may appear in any order; the last element is the key name and
// is kept as written.
func ParseBinding(s string) (Binding, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Binding{}, fmt.Errorf("empty keybinding")
	}
	parts := strings.Split(s, "+")
	// "Mod4++" binds the plus key.
	if strings.HasSuffix(s, "++") {
		parts = append(parts[:len(parts)-2], "+")
	}

	var b Binding
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if i == len(parts)-1 {
			if part == "" {
				return Binding{}, fmt.Errorf("keybinding %q: missing key", s)
			}
			b.Key = part
			break
		}
		m, ok := ParseMod(part)
		if !ok {
			return Binding{}, fmt.Errorf("keybinding %q: unknown modifier %q", s, part)
		}
		if b.Mods&m != 0 {
			return Binding{}, fmt.Errorf("keybinding %q: duplicate modifier %q", s, part)
		}
		b.Mods |= m
	}
	return b, nil
}

// String returns the canonical form, modifiers in Mod4+Mod1+Control+Shift
// order followed by the key.
func (b Binding) String() string {
	return strings.Join(append(b.Mods.Names(), b.Key), "+")
}

// xKeyNames maps punctuation that clashes with the X sequence separator
// onto keysym names.
var xKeyNames = map[string]string{
	"+": "plus",
	"-": "minus",
}

// XKeySequence returns the binding in the "Mod4-Shift-Return" form used by
// the X key grabbing layer.
func (b Binding) XKeySequence() string {
	key := b.Key
	if name, ok := xKeyNames[key]; ok {
		key = name
	}
	return strings.Join(append(b.Mods.Names(), key), "-")
}

// Canonical normalizes a binding string.
func Canonical(s string) (string, error) {
	b, err := ParseBinding(s)
	if err != nil {
		return "", err
	}
	return b.String(), nil
}
