package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const ellipsis = "..."

// truncateText shortens text to width display cells.
func truncateText(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(text) <= width {
		return text
	}
	if width <= len(ellipsis) {
		return runewidth.Truncate(text, width, "")
	}
	return runewidth.Truncate(text, width, ellipsis)
}

// wrapText word-wraps text into at most maxLines lines of width cells.
// Overflowing text is cut and the last line ends in an ellipsis.
func wrapText(text string, width, maxLines int) []string {
	if width <= 0 || maxLines <= 0 {
		return []string{""}
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	var line strings.Builder
	lineWidth := 0
	flush := func() {
		lines = append(lines, line.String())
		line.Reset()
		lineWidth = 0
	}

	for _, word := range words {
		w := runewidth.StringWidth(word)
		if lineWidth > 0 && lineWidth+1+w > width {
			flush()
		}
		if lineWidth > 0 {
			line.WriteByte(' ')
			lineWidth++
		}
		if w > width {
			word = truncateText(word, width-lineWidth)
			w = runewidth.StringWidth(word)
		}
		line.WriteString(word)
		lineWidth += w
	}
	if lineWidth > 0 {
		flush()
	}

	if len(lines) > maxLines {
		lines = lines[:maxLines]
		last := lines[maxLines-1]
		if runewidth.StringWidth(last)+len(ellipsis) > width {
			last = runewidth.Truncate(last, max(width-len(ellipsis), 0), "")
		}
		lines[maxLines-1] = last + ellipsis
	}
	return lines
}

// padLines appends empty lines until lines has n entries.
func padLines(lines []string, n int) []string {
	for len(lines) < n {
		lines = append(lines, "")
	}
	return lines
}
