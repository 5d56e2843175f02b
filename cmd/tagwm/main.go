package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/1broseidon/tagwm/internal/config"
	"github.com/1broseidon/tagwm/internal/daemon"
	"github.com/1broseidon/tagwm/internal/ipc"
	"github.com/1broseidon/tagwm/internal/keys"
	"github.com/1broseidon/tagwm/internal/platform"
	"github.com/1broseidon/tagwm/internal/runtimepath"
	"github.com/1broseidon/tagwm/internal/spawn"
	"github.com/1broseidon/tagwm/internal/wm"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		os.Exit(runDaemon(os.Args[2:]))
	case "tag", "move-to-tag", "focus", "toggle-floating", "close", "spawn", "set", "action", "reload", "exit":
		os.Exit(runCommand(os.Args[1:]))
	case "get":
		os.Exit(runGet(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "bar":
		os.Exit(runBar(os.Args[2:]))
	case "menu":
		os.Exit(runMenu(os.Args[2:]))
	case "tui":
		os.Exit(runTUI(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "version", "--version":
		os.Exit(runVersion(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: tagwm <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon                 Run the window manager (foreground)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  tag N                  Switch to tag N (1-based)")
	fmt.Fprintln(w, "  move-to-tag N          Move the focused window to tag N")
	fmt.Fprintln(w, "  focus ID               Show and focus window ID (see 'get windows')")
	fmt.Fprintln(w, "  toggle-floating        Toggle floating on the focused window")
	fmt.Fprintln(w, "  close                  Close the focused window")
	fmt.Fprintln(w, "  spawn CMD [ARGS...]    Start a program")
	fmt.Fprintln(w, "  set KEY VALUE          Change layout, gap or border at runtime")
	fmt.Fprintln(w, "  action ACTION          Run a keybinding action")
	fmt.Fprintln(w, "  reload                 Reload the configuration")
	fmt.Fprintln(w, "  exit                   Stop the window manager")
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "  get WHAT               Query state (%s)\n", strings.Join(ipc.GetTargets, ", "))
	fmt.Fprintln(w, "  bar                    Print the status bar as a terminal line")
	fmt.Fprintln(w, "  menu                   Pick a tag or window with rofi or dmenu")
	fmt.Fprintln(w, "  tui                    Interactive dashboard for tags, windows and layout")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate        Validate configuration")
	fmt.Fprintln(w, "  config print           Print configuration")
	fmt.Fprintln(w, "  config detect          Detect terminal, browser and launcher programs")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve              Start MCP server (stdio transport)")
	fmt.Fprintln(w, "  version                Print version information")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'tagwm <command> --help' for command-specific options.")
}

func isHelp(args []string) bool {
	return len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help")
}

// runCommand sends a one-shot command to the running daemon.
func runCommand(args []string) int {
	if isHelp(args[1:]) {
		printMainUsage(os.Stdout)
		return 0
	}
	req, err := ipc.ParseCommand(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	resp, err := ipc.NewClient().Do(req)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	var msg ipc.MessageData
	if len(resp.Data) > 0 && json.Unmarshal(resp.Data, &msg) == nil && msg.Message != "" {
		fmt.Println(msg.Message)
	}
	return 0
}

func runGet(args []string) int {
	fs := flag.NewFlagSet("get", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	compact := fs.Bool("compact", false, "Print compact JSON even on a terminal")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tagwm get [--compact] <what>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintf(os.Stderr, "Targets: %s\n", strings.Join(ipc.GetTargets, ", "))
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	data, err := ipc.NewClient().Get(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	// Config is easier to read as the YAML it came from.
	if fs.Arg(0) == ipc.GetConfig {
		var cfg ipc.ConfigData
		if err := json.Unmarshal(data, &cfg); err == nil {
			fmt.Print(cfg.YAML)
			return 0
		}
	}

	if !*compact && term.IsTerminal(int(os.Stdout.Fd())) {
		var buf bytes.Buffer
		if err := json.Indent(&buf, data, "", "  "); err == nil {
			data = buf.Bytes()
		}
	}
	fmt.Println(string(data))
	return 0
}

func runVersion(args []string) int {
	if len(args) != 0 {
		fmt.Fprintln(os.Stderr, "Usage: tagwm version")
		return 2
	}
	fmt.Printf("tagwm %s\n", version)
	if v, err := ipc.NewClient().GetVersion(); err == nil {
		fmt.Printf("daemon %s (up %ds)\n", v.Version, v.UptimeSeconds)
	}
	return 0
}

func newLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func runDaemon(args []string) int {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	configPath := fs.String("config", "", "Config file path (default: ~/.config/tagwm/config.yaml)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tagwm daemon [--config PATH]")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "daemon takes no arguments")
		fs.Usage()
		return 2
	}

	path := *configPath
	if path == "" {
		p, err := config.DefaultConfigPath()
		if err != nil {
			log.Fatalf("Failed to resolve config path: %v", err)
		}
		path = p
	}

	res, err := config.LoadFromPath(path)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg := res.Config
	logger := newLogger(cfg.SlogLevel())
	slog.SetDefault(logger)
	for _, p := range res.Problems {
		logger.Warn("config problem", "problem", p)
	}
	if filled := config.FillMissingPrograms(cfg); len(filled) > 0 {
		logger.Info("detected programs", "roles", filled)
	}
	logger.Info("configuration loaded", "path", path, "tags", len(cfg.Tags.Names))

	backend, err := platform.NewLinuxBackendFromDisplay(logger)
	if err != nil {
		log.Fatalf("Failed to connect to display: %v", err)
	}
	defer backend.Disconnect()

	mgr := wm.New(cfg, backend, logger)
	spawner := spawn.NewExec(func(name string) string {
		return mgr.Config().SpawnCommand(name)
	}, logger)
	dispatcher := keys.NewDispatcher(mgr, spawner, logger)
	reload := func() (*config.Config, error) {
		res, err := config.LoadFromPath(path)
		if err != nil {
			return nil, err
		}
		config.FillMissingPrograms(res.Config)
		return res.Config, nil
	}
	dispatcher.Reload = reload

	if err := backend.Start(mgr, dispatcher); err != nil {
		log.Fatalf("Failed to start window manager: %v", err)
	}
	logger.Info("tagwm started", "version", version, "screen", backend.Screen().String())

	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		log.Fatalf("Failed to resolve IPC socket path: %v", err)
	}
	ipcServer := ipc.NewServer(socketPath, mgr, dispatcher, version, logger)
	if err := ipcServer.Start(); err != nil {
		log.Fatalf("Failed to start IPC server: %v", err)
	}
	defer ipcServer.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		err := config.Watch(ctx, path, logger, func() {
			logger.Info("config file changed, reloading")
			if err := dispatcher.Execute(keys.Action{Verb: keys.VerbReloadConfig}); err != nil {
				logger.Warn("config reload failed", "error", err)
			}
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("config watcher stopped", "error", err)
		}
	}()

	reconciler := daemon.NewReconciler(daemon.ReconcilerConfig{Logger: logger}, backend)
	go reconciler.Run(ctx)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		for {
			select {
			case sig := <-sigCh:
				if sig == syscall.SIGHUP {
					logger.Info("received SIGHUP, reloading config")
					if err := dispatcher.Execute(keys.Action{Verb: keys.VerbReloadConfig}); err != nil {
						logger.Warn("config reload failed", "error", err)
					}
					continue
				}
				logger.Info("received signal, shutting down", "signal", sig.String())
				mgr.Exit()
			case <-mgr.Done():
				backend.Quit()
				return
			}
		}
	}()

	backend.EventLoop()
	logger.Info("tagwm stopped")
	return 0
}
