package config

import "strings"

// WindowRule assigns initial state to newly managed windows. Empty match
// fields match anything; non-empty fields match as substrings, so
// "Firefox" matches the class "Firefox-esr".
type WindowRule struct {
	Class    string `yaml:"class,omitempty"`
	Instance string `yaml:"instance,omitempty"`
	Title    string `yaml:"title,omitempty"`
	Floating bool   `yaml:"floating"`
	Tag      int    `yaml:"tag,omitempty"` // 1-based; 0 keeps the current tag
}

// Matches reports whether the rule applies to a window.
func (r WindowRule) Matches(class, instance, title string) bool {
	if r.Class != "" && !strings.Contains(class, r.Class) {
		return false
	}
	if r.Instance != "" && !strings.Contains(instance, r.Instance) {
		return false
	}
	if r.Title != "" && !strings.Contains(title, r.Title) {
		return false
	}
	return true
}

// MatchRule returns the first rule matching the window, if any.
func (c *Config) MatchRule(class, instance, title string) (WindowRule, bool) {
	for _, r := range c.Rules {
		if r.Matches(class, instance, title) {
			return r, true
		}
	}
	return WindowRule{}, false
}

func defaultRules() []WindowRule {
	floating := []string{
		"Pavucontrol",
		"Onboard",
		"floatmenu",
		"Pamac-installer",
		"xpad",
		"Guake",
		"Peek",
		"kdeconnect.daemon",
	}
	rules := make([]WindowRule, 0, len(floating)+1)
	for _, class := range floating {
		rules = append(rules, WindowRule{Class: class, Floating: true})
	}
	rules = append(rules, WindowRule{Class: "ROX-Filer", Floating: false})
	return rules
}
