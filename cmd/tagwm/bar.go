package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/1broseidon/tagwm/internal/bar"
	"github.com/1broseidon/tagwm/internal/ipc"
)

func runBar(args []string) int {
	fs := flag.NewFlagSet("bar", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	width := fs.Int("width", 0, "Line width in cells (default: terminal width, or 80)")
	watch := fs.Duration("watch", 0, "Redraw at this interval instead of printing once")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tagwm bar [--width N] [--watch DURATION]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Print the status bar as a styled terminal line, for tmux or polybar.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	cols := *width
	if cols <= 0 {
		cols = 80
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
			cols = w
		}
	}

	client := ipc.NewClient()
	draw := func() error {
		st, err := client.GetState()
		if err != nil {
			return err
		}
		cfg, err := client.GetConfig()
		if err != nil {
			return err
		}
		line := bar.Render(*st, cols, bar.NewStyles(cfg.Appearance), time.Now())
		if *watch > 0 {
			fmt.Print("\r" + line)
		} else {
			fmt.Println(line)
		}
		return nil
	}

	if err := draw(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *watch <= 0 {
		return 0
	}
	ticker := time.NewTicker(*watch)
	defer ticker.Stop()
	for range ticker.C {
		if err := draw(); err != nil {
			fmt.Fprintln(os.Stderr)
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}
	return 0
}
