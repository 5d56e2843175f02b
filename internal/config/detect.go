package config

import (
	"os/exec"
	"sort"
	"strings"
)

// DetectedProgram is a spawn-role program found on PATH.
type DetectedProgram struct {
	Role       string // terminal, browser, launcher, screenshot
	Command    string
	Path       string
	Configured bool // the configured command for the role resolves to this program
}

// knownPrograms lists candidates per spawn role in preference order.
var knownPrograms = map[string][]string{
	"terminal":   {"alacritty", "kitty", "wezterm", "foot", "xterm"},
	"browser":    {"firefox", "chromium", "google-chrome", "brave-browser"},
	"launcher":   {"rofi -show drun", "dmenu_run"},
	"screenshot": {"scrot", "maim", "flameshot gui"},
}

// DetectPrograms scans PATH for known programs for each spawn role.
// Results are sorted by role, then by preference.
func DetectPrograms(cfg *Config) []DetectedProgram {
	roles := make([]string, 0, len(knownPrograms))
	for role := range knownPrograms {
		roles = append(roles, role)
	}
	sort.Strings(roles)

	var detected []DetectedProgram
	for _, role := range roles {
		configured := ""
		if cfg != nil {
			configured = commandName(cfg.SpawnCommand(role))
		}
		for _, cmd := range knownPrograms[role] {
			name := commandName(cmd)
			path, err := exec.LookPath(name)
			if err != nil {
				continue
			}
			detected = append(detected, DetectedProgram{
				Role:       role,
				Command:    cmd,
				Path:       path,
				Configured: name == configured,
			})
		}
	}
	return detected
}

// FillMissingPrograms sets empty spawn commands to the first detected
// program for the role. It returns the roles it filled.
func FillMissingPrograms(cfg *Config) []string {
	var filled []string
	seen := make(map[string]bool)
	for _, d := range DetectPrograms(cfg) {
		if seen[d.Role] {
			continue
		}
		seen[d.Role] = true
		target := spawnField(cfg, d.Role)
		if target == nil || strings.TrimSpace(*target) != "" {
			continue
		}
		*target = d.Command
		filled = append(filled, d.Role)
	}
	return filled
}

func spawnField(cfg *Config, role string) *string {
	switch role {
	case "terminal":
		return &cfg.General.Terminal
	case "browser":
		return &cfg.General.Browser
	case "launcher":
		return &cfg.General.Launcher
	case "screenshot":
		return &cfg.General.Screenshot
	}
	return nil
}

func commandName(cmd string) string {
	fields := strings.Fields(cmd)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
