// Package runtimepath locates the per-session command socket.
package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SocketEnv overrides the socket location when set.
const SocketEnv = "TAGWM_SOCKET"

// Dir picks the directory for runtime files: $XDG_RUNTIME_DIR, then
// /run/user/<uid>, then a private directory under /tmp that is created on
// demand.
func Dir() (string, error) {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return dir, nil
	}

	uid := os.Getuid()
	if dir := fmt.Sprintf("/run/user/%d", uid); isDir(dir) {
		return dir, nil
	}

	dir := filepath.Join(os.TempDir(), fmt.Sprintf("tagwm-runtime-%d", uid))
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	return dir, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// SocketName returns the socket file name for an X display string. Each
// display gets its own socket so nested or parallel sessions do not
// collide: ":1" maps to "tagwm-1.sock", "host:0.0" to "tagwm-host-0.sock".
// An empty display maps to "tagwm.sock".
func SocketName(display string) string {
	display = strings.TrimSpace(display)
	if display == "" {
		return "tagwm.sock"
	}
	// The screen number does not change which manager owns the display.
	if i := strings.LastIndex(display, ":"); i >= 0 {
		if dot := strings.Index(display[i:], "."); dot >= 0 {
			display = display[:i+dot]
		}
	}
	id := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '-'
	}, display)
	id = strings.Trim(id, "-")
	if id == "" {
		return "tagwm.sock"
	}
	return "tagwm-" + id + ".sock"
}

// SocketPath returns the command socket for the current $DISPLAY.
func SocketPath() (string, error) {
	if p := os.Getenv(SocketEnv); p != "" {
		return p, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, SocketName(os.Getenv("DISPLAY"))), nil
}
