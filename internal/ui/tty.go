// Package ui renders dashboards for the terminal and collects daily logs
// interactively.
package ui

import (
	"os"

	"github.com/charmbracelet/x/term"
)

// IsTTY returns true if stdout is a terminal.
func IsTTY() bool {
	return term.IsTerminal(os.Stdout.Fd())
}

// IsInputTTY returns true if stdin is a terminal, which interactive forms need.
func IsInputTTY() bool {
	return term.IsTerminal(os.Stdin.Fd())
}

// IsStderrTTY returns true if stderr is a terminal.
func IsStderrTTY() bool {
	return term.IsTerminal(os.Stderr.Fd())
}
