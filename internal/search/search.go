// Package search filters a catalog the way the browse views do.
package search

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/cytsaiap-xyz/skills-manager/internal/model"
	"github.com/cytsaiap-xyz/skills-manager/internal/validation"
)

// AllCategories disables category filtering.
const AllCategories = "all"

// Options selects skills from a catalog. The zero value matches everything.
type Options struct {
	// Query is matched case-insensitively as a substring of the name,
	// description, category, id, or any tag.
	Query string
	// Category restricts results to one category. Empty or AllCategories
	// disables the restriction.
	Category string
	// Match is a doublestar glob matched against the skill id.
	Match string
	// Tag keeps only skills carrying this exact tag.
	Tag string
}

// Validate checks that Match is a well-formed pattern.
func (o Options) Validate() error {
	if o.Match != "" && !doublestar.ValidatePattern(o.Match) {
		return &validation.Error{
			Field:   "match",
			Message: fmt.Sprintf("invalid glob pattern %q", o.Match),
		}
	}
	return nil
}

// Filter returns the skills selected by opts, preserving order.
func Filter(skills []model.Skill, opts Options) ([]model.Skill, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	query := strings.ToLower(strings.TrimSpace(opts.Query))
	category := strings.TrimSpace(opts.Category)

	filtered := make([]model.Skill, 0, len(skills))
	for _, s := range skills {
		if !InCategory(s, category) {
			continue
		}
		if opts.Tag != "" && !s.HasTag(opts.Tag) {
			continue
		}
		if opts.Match != "" {
			// Pattern validity was checked above.
			if ok, _ := doublestar.Match(opts.Match, s.ID); !ok {
				continue
			}
		}
		if !Matches(s, query) {
			continue
		}
		filtered = append(filtered, s)
	}
	return filtered, nil
}

// InCategory reports whether s belongs to category. Empty and AllCategories
// match every skill.
func InCategory(s model.Skill, category string) bool {
	if category == "" || category == AllCategories {
		return true
	}
	return s.Category == category
}

// Matches reports whether s contains query, which must already be lower-cased.
// An empty query matches every skill.
func Matches(s model.Skill, query string) bool {
	if query == "" {
		return true
	}

	fields := []string{s.Name, s.Description, s.Category, s.ID}
	fields = append(fields, s.Tags...)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), query) {
			return true
		}
	}
	return false
}

// CategoryCount is the number of skills in one category.
type CategoryCount struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

// Counts returns the size of each category, led by an AllCategories entry
// holding the total. Categories keep the order given.
func Counts(skills []model.Skill, categories []string) []CategoryCount {
	per := make(map[string]int, len(categories))
	for _, s := range skills {
		per[s.Category]++
	}

	counts := make([]CategoryCount, 0, len(categories)+1)
	counts = append(counts, CategoryCount{Name: AllCategories, Count: len(skills)})
	for _, c := range categories {
		counts = append(counts, CategoryCount{Name: c, Count: per[c]})
	}
	return counts
}

var categoryIcons = map[string]string{
	"Development":         "💻",
	"Testing":             "🧪",
	"Documentation":       "📚",
	"DevOps":              "🔧",
	"Security":            "🔒",
	"AI":                  "🤖",
	"Database":            "🗄️",
	"Frontend":            "🎨",
	"Backend":             "⚙️",
	"Workflow":            "📋",
	model.DefaultCategory: "📦",
}

// CategoryIcon returns the emoji shown next to a category name.
func CategoryIcon(category string) string {
	if icon, ok := categoryIcons[category]; ok {
		return icon
	}
	return categoryIcons[model.DefaultCategory]
}
