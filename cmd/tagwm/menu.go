package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/1broseidon/tagwm/internal/ipc"
	"github.com/1broseidon/tagwm/internal/palette"
)

func runMenu(args []string) int {
	fs := flag.NewFlagSet("menu", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	backendName := fs.String("backend", "auto", "Menu program: auto, rofi or dmenu")
	fuzzy := fs.Bool("fuzzy", false, "Use fuzzy matching (rofi only)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tagwm menu [--backend NAME] [--fuzzy]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Pick a tag or window from rofi/dmenu and switch to it.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	backend, err := palette.NewBackend(*backendName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if f, ok := backend.(interface{ SetFuzzyMatching(bool) }); ok {
		f.SetFuzzyMatching(*fuzzy)
	}

	client := ipc.NewClient()
	st, err := client.GetState()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	msg, err := palette.Switch(backend, client, st)
	if errors.Is(err, palette.ErrCancelled) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if msg != "" {
		fmt.Println(msg)
	}
	return 0
}
