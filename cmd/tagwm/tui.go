package main

import (
	"fmt"
	"os"

	"github.com/1broseidon/tagwm/internal/ipc"
	"github.com/1broseidon/tagwm/internal/tui"
)

func runTUI(args []string) int {
	if isHelp(args) {
		fmt.Println("Usage: tagwm tui")
		fmt.Println("")
		fmt.Println("Interactive dashboard: browse tags and windows, adjust the layout.")
		return 0
	}
	if len(args) != 0 {
		fmt.Fprintln(os.Stderr, "Usage: tagwm tui")
		return 2
	}
	if err := tui.Run(ipc.NewClient()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
