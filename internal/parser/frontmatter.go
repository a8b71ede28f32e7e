package parser

import (
	"regexp"
	"strings"

	"github.com/cytsaiap-xyz/skills-manager/internal/model"
)

// Delimiter opens and closes the metadata block.
const Delimiter = "---"

// FrontmatterResult contains the metadata block and the remaining content.
type FrontmatterResult struct {
	// Frontmatter contains the lines between the delimiters, joined with \n
	Frontmatter string
	// Content contains the text after the closing delimiter
	Content string
	// HasFrontmatter indicates whether a closed block was found
	HasFrontmatter bool
}

// Frontmatter is the metadata extracted from a descriptor.
type Frontmatter struct {
	Name        string
	Description string
	Category    string
	Tags        []string
}

// Known keys, matched at the start of a line.
var (
	nameKey        = keyPattern("name")
	descriptionKey = keyPattern("description")
	categoryKey    = keyPattern("category")
	tagsKey        = keyPattern("tags")
)

func keyPattern(key string) *regexp.Regexp {
	return regexp.MustCompile(`^` + regexp.QuoteMeta(key) + `:\s*(.+)$`)
}

// SplitFrontmatter locates the metadata block at the very start of content.
// The block opens with a line holding only the delimiter and closes at the next
// such line. Without a closing line there is no block and the whole input is content.
func SplitFrontmatter(content string) FrontmatterResult {
	none := FrontmatterResult{Content: content}

	first, rest, ok := cutLine(strings.TrimPrefix(content, "\ufeff"))
	if !ok || !isDelimiter(first) {
		return none
	}

	var lines []string
	for {
		line, remaining, more := cutLine(rest)
		if isDelimiter(line) {
			return FrontmatterResult{
				Frontmatter:    strings.Join(lines, "\n"),
				Content:        remaining,
				HasFrontmatter: true,
			}
		}
		if !more {
			return none
		}
		lines = append(lines, line)
		rest = remaining
	}
}

// Body returns content without its metadata block.
func Body(content string) string {
	return SplitFrontmatter(content).Content
}

// cutLine splits off the first line, dropping its terminator (\n or \r\n).
// ok is false when s has no line terminator.
func cutLine(s string) (line, rest string, ok bool) {
	line, rest, ok = strings.Cut(s, "\n")
	return strings.TrimSuffix(line, "\r"), rest, ok
}

func isDelimiter(line string) bool {
	return strings.TrimRight(line, " \t") == Delimiter
}

// Parse extracts name, description, category, and tags from descriptor text.
// Each key takes the first line that matches it; unknown keys are ignored.
// Fields that cannot be recovered keep their defaults: empty strings,
// model.DefaultCategory, and an empty tag list.
func Parse(content string) Frontmatter {
	fm := Frontmatter{
		Category: model.DefaultCategory,
		Tags:     []string{},
	}

	result := SplitFrontmatter(content)
	if !result.HasFrontmatter {
		return fm
	}

	lines := strings.Split(result.Frontmatter, "\n")

	if v, ok := lookup(lines, nameKey); ok {
		fm.Name = cleanValue(v)
	}
	if v, ok := lookup(lines, descriptionKey); ok {
		fm.Description = cleanValue(v)
	}
	if v, ok := lookup(lines, categoryKey); ok {
		if category := cleanValue(v); category != "" {
			fm.Category = category
		}
	}
	if v, ok := lookup(lines, tagsKey); ok {
		fm.Tags = ParseTags(v)
	}

	return fm
}

// lookup returns the value of the first line matching the key pattern.
func lookup(lines []string, key *regexp.Regexp) (string, bool) {
	for _, line := range lines {
		if m := key.FindStringSubmatch(line); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// ParseTags splits a tag list written either as "a, b" or "[a, b]".
// Empty entries are dropped, so "[]" and "" both yield an empty list.
func ParseTags(value string) []string {
	value = strings.TrimSpace(value)
	if strings.HasPrefix(value, "[") && strings.HasSuffix(value, "]") {
		value = value[1 : len(value)-1]
	}

	tags := []string{}
	for _, part := range strings.Split(value, ",") {
		if tag := cleanValue(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// cleanValue trims whitespace and one pair of matching surrounding quotes.
func cleanValue(value string) string {
	value = strings.TrimSpace(value)
	if len(value) >= 2 {
		first, last := value[0], value[len(value)-1]
		if first == last && (first == '"' || first == '\'') {
			return value[1 : len(value)-1]
		}
	}
	return value
}
