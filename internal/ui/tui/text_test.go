package tui

import (
	"testing"

	"github.com/mattn/go-runewidth"
)

func TestWrapText_TruncatesWithEllipsis(t *testing.T) {
	lines := wrapText("one two three", 6, 2)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[1] != "two..." {
		t.Errorf("expected truncated second line, got %q", lines[1])
	}
}

func TestWrapText_LongWordTruncates(t *testing.T) {
	lines := wrapText("superlongword", 5, 1)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if len(lines[0]) > 5 {
		t.Errorf("expected truncated line length <= 5, got %d", len(lines[0]))
	}
	if lines[0][len(lines[0])-1] != '.' {
		t.Errorf("expected ellipsis for truncated word, got %q", lines[0])
	}
}

func TestWrapText_ZeroWidth(t *testing.T) {
	lines := wrapText("text", 0, 2)
	if len(lines) != 1 || lines[0] != "" {
		t.Errorf("expected empty line for zero width, got %v", lines)
	}
}

func TestWrapText_FitsWithoutEllipsis(t *testing.T) {
	lines := wrapText("alpha beta\ngamma", 11, 3)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %v", lines)
	}
	if lines[0] != "alpha beta" || lines[1] != "gamma" {
		t.Errorf("unexpected lines %q", lines)
	}
}

func TestPadLines(t *testing.T) {
	lines := padLines([]string{"a"}, 3)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[1] != "" || lines[2] != "" {
		t.Errorf("expected padded lines to be empty, got %v", lines)
	}
}

func TestTruncateText(t *testing.T) {
	tests := map[string]struct {
		text  string
		width int
		want  string
	}{
		"fits":          {text: "short", width: 10, want: "short"},
		"exact":         {text: "exact", width: 5, want: "exact"},
		"ellipsis":      {text: "a longer value", width: 8, want: "a lon..."},
		"tiny width":    {text: "abcdef", width: 2, want: "ab"},
		"zero width":    {text: "abc", width: 0, want: ""},
		"wide runes":    {text: "日本語テキスト", width: 7, want: "日本..."},
		"wide runes ok": {text: "日本", width: 4, want: "日本"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := truncateText(tt.text, tt.width)
			if got != tt.want {
				t.Errorf("truncateText(%q, %d) = %q, want %q", tt.text, tt.width, got, tt.want)
			}
			if runewidth.StringWidth(got) > tt.width {
				t.Errorf("truncated text %q is wider than %d", got, tt.width)
			}
		})
	}
}
