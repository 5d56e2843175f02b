// Package spawn starts external programs without waiting for them.
package spawn

import (
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"syscall"
)

// Spawner starts a program described by argv.
type Spawner interface {
	Spawn(argv []string) error
}

// Resolver maps a well-known name such as "terminal" to a command line.
type Resolver func(name string) string

// Exec starts programs through /bin/sh in their own session. The child is
// reaped in the background so Spawn never blocks on it.
type Exec struct {
	Shell   string
	Resolve Resolver
	Logger  *slog.Logger
}

// NewExec returns an Exec using sh and the given resolver.
func NewExec(resolve Resolver, logger *slog.Logger) *Exec {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exec{Shell: "/bin/sh", Resolve: resolve, Logger: logger}
}

// CommandLine resolves argv into the shell command line that Spawn runs.
// A single-word argv is looked up through the resolver first, so
// "spawn terminal" runs the configured terminal.
func (e *Exec) CommandLine(argv []string) (string, error) {
	if len(argv) == 0 {
		return "", fmt.Errorf("empty command")
	}
	line := strings.Join(argv, " ")
	if len(argv) == 1 && e.Resolve != nil {
		if resolved := strings.TrimSpace(e.Resolve(argv[0])); resolved != "" {
			line = resolved
		}
	}
	if strings.TrimSpace(line) == "" {
		return "", fmt.Errorf("empty command")
	}
	return line, nil
}

func (e *Exec) Spawn(argv []string) error {
	line, err := e.CommandLine(argv)
	if err != nil {
		return err
	}
	shell := e.Shell
	if shell == "" {
		shell = "/bin/sh"
	}

	cmd := exec.Command(shell, "-c", line)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %q: %w", line, err)
	}
	e.Logger.Debug("spawned", "command", line, "pid", cmd.Process.Pid)

	go func() {
		if err := cmd.Wait(); err != nil {
			e.Logger.Debug("spawned process exited", "command", line, "error", err)
		}
	}()
	return nil
}
