// Package ui holds the terminal helpers shared by the commands: colored
// status lines, terminal detection, and markdown rendering.
package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Text styles. They print plain text while colors are disabled.
var (
	Bold   = color.New(color.Bold).SprintFunc()
	Dim    = color.New(color.Faint).SprintFunc()
	Header = color.New(color.FgCyan, color.Bold).SprintFunc()
)

// Status symbols.
const (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolWarning = "⚠"
	SymbolSkipped = "-"
)

type status struct {
	symbol string
	paint  func(a ...any) string
}

var (
	successStatus = status{SymbolSuccess, color.New(color.FgGreen).SprintFunc()}
	errorStatus   = status{SymbolError, color.New(color.FgRed).SprintFunc()}
	warningStatus = status{SymbolWarning, color.New(color.FgYellow).SprintFunc()}
	skippedStatus = status{SymbolSkipped, Dim}
)

func (s status) line(msg string) string {
	mark := s.paint(s.symbol)
	if msg == "" {
		return mark
	}
	return mark + " " + msg
}

// StatusSuccess prefixes msg with a green check mark.
func StatusSuccess(msg string) string { return successStatus.line(msg) }

// StatusError prefixes msg with a red cross.
func StatusError(msg string) string { return errorStatus.line(msg) }

// StatusWarning prefixes msg with a yellow warning sign.
func StatusWarning(msg string) string { return warningStatus.line(msg) }

// StatusSkipped prefixes msg with a dimmed dash.
func StatusSkipped(msg string) string { return skippedStatus.line(msg) }

// DisableColors turns color output off for the whole process.
func DisableColors() { color.NoColor = true }

// EnableColors turns color output on for the whole process.
func EnableColors() { color.NoColor = false }

func IsColorEnabled() bool { return !color.NoColor }

// SetColorMode applies the output.color setting: "always", "never", or
// "auto". Auto keeps fatih/color's own NO_COLOR and TTY detection.
func SetColorMode(mode string) error {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
	case "always":
		EnableColors()
	case "never":
		DisableColors()
	default:
		return fmt.Errorf("unknown color mode %q (valid: auto, always, never)", mode)
	}
	return nil
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd())) // #nosec G115 - file descriptors fit in int
}

// TerminalWidth returns the column count of the terminal behind f, or
// fallback when f is not a terminal.
func TerminalWidth(f *os.File, fallback int) int {
	if !IsTerminal(f) {
		return fallback
	}
	w, _, err := term.GetSize(int(f.Fd())) // #nosec G115 - file descriptors fit in int
	if err != nil || w <= 0 {
		return fallback
	}
	return w
}
