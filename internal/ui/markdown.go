package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// RenderMarkdown renders md for the terminal, wrapping at width. With colors
// disabled it uses glamour's plain style. On any render error md is returned
// unchanged.
func RenderMarkdown(md string, width int) string {
	if width < 40 {
		width = 80
	}

	style := glamour.WithAutoStyle()
	if !IsColorEnabled() {
		style = glamour.WithStandardStyle("notty")
	}

	r, err := glamour.NewTermRenderer(
		style,
		glamour.WithWordWrap(width-4),
	)
	if err != nil {
		return md
	}

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}
