// Package export renders catalog data as tables, JSON, YAML, or Markdown.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/cytsaiap-xyz/skills-manager/internal/install"
	"github.com/cytsaiap-xyz/skills-manager/internal/logging"
	"github.com/cytsaiap-xyz/skills-manager/internal/model"
	"github.com/cytsaiap-xyz/skills-manager/internal/search"
)

// Format represents an output format.
type Format string

const (
	// FormatTable renders aligned plain-text columns.
	FormatTable Format = "table"
	// FormatJSON renders JSON.
	FormatJSON Format = "json"
	// FormatYAML renders YAML.
	FormatYAML Format = "yaml"
	// FormatMarkdown renders Markdown.
	FormatMarkdown Format = "markdown"
)

// IsValid returns true if the format is recognized.
func (f Format) IsValid() bool {
	switch f {
	case FormatTable, FormatJSON, FormatYAML, FormatMarkdown:
		return true
	default:
		return false
	}
}

// String returns the string representation of the format.
func (f Format) String() string {
	return string(f)
}

// AllFormats returns all supported formats.
func AllFormats() []Format {
	return []Format{FormatTable, FormatJSON, FormatYAML, FormatMarkdown}
}

// ParseFormat parses a string into a Format. "md" is accepted for Markdown.
func ParseFormat(s string) (Format, error) {
	format := Format(strings.ToLower(strings.TrimSpace(s)))
	if format == "md" {
		format = FormatMarkdown
	}
	if !format.IsValid() {
		return "", fmt.Errorf("unsupported format %q (valid: table, json, yaml, markdown)", s)
	}
	return format, nil
}

// Options configures rendering.
type Options struct {
	Format Format
	// Pretty enables indentation for JSON.
	Pretty bool
	// Status, when set, adds install markers to skill listings.
	Status install.StatusMap
	// Width caps the description column of tables. Zero means 60.
	Width int
}

// DefaultOptions returns the default options.
func DefaultOptions() Options {
	return Options{
		Format: FormatTable,
		Pretty: true,
	}
}

// Exporter renders catalog data in the configured format.
type Exporter struct {
	opts Options
}

// New creates a new Exporter with the given options.
func New(opts Options) *Exporter {
	if opts.Format == "" {
		opts.Format = FormatTable
	}
	if opts.Width <= 0 {
		opts.Width = 60
	}
	return &Exporter{opts: opts}
}

// listedSkill is a skill with its optional install state.
type listedSkill struct {
	model.Skill `yaml:",inline"`
	Installed   *install.State `json:"installed,omitempty" yaml:"installed,omitempty"`
}

func (e *Exporter) listed(skills []model.Skill) []listedSkill {
	out := make([]listedSkill, len(skills))
	for i, s := range skills {
		out[i] = listedSkill{Skill: s}
		if e.opts.Status != nil {
			st := e.opts.Status[s.ID]
			out[i].Installed = &st
		}
	}
	return out
}

// Skills renders a skill listing.
func (e *Exporter) Skills(w io.Writer, skills []model.Skill) error {
	logging.Debug("rendering skills",
		slog.String("format", e.opts.Format.String()),
		logging.Count(len(skills)),
	)

	switch e.opts.Format {
	case FormatJSON:
		return e.writeJSON(w, e.listed(skills))
	case FormatYAML:
		return writeYAML(w, e.listed(skills))
	case FormatMarkdown:
		return e.skillsMarkdown(w, skills)
	case FormatTable:
		return e.skillsTable(w, skills)
	default:
		return fmt.Errorf("unsupported format: %s", e.opts.Format)
	}
}

// Categories renders category counts.
func (e *Exporter) Categories(w io.Writer, counts []search.CategoryCount) error {
	switch e.opts.Format {
	case FormatJSON:
		return e.writeJSON(w, counts)
	case FormatYAML:
		return writeYAML(w, counts)
	case FormatMarkdown:
		var sb strings.Builder
		sb.WriteString("| Category | Skills |\n|----------|--------|\n")
		for _, c := range counts {
			fmt.Fprintf(&sb, "| %s | %d |\n", c.Name, c.Count)
		}
		_, err := io.WriteString(w, sb.String())
		return err
	case FormatTable:
		var sb strings.Builder
		for _, c := range counts {
			icon := "  "
			if c.Name != search.AllCategories {
				icon = search.CategoryIcon(c.Name)
			}
			fmt.Fprintf(&sb, "%s %s %d\n", pad(icon, 2), pad(c.Name, 24), c.Count)
		}
		_, err := io.WriteString(w, sb.String())
		return err
	default:
		return fmt.Errorf("unsupported format: %s", e.opts.Format)
	}
}

// Installed renders the installed skills of each destination.
func (e *Exporter) Installed(w io.Writer, state model.InstalledState) error {
	switch e.opts.Format {
	case FormatJSON:
		return e.writeJSON(w, state)
	case FormatYAML:
		return writeYAML(w, state)
	case FormatMarkdown, FormatTable:
		title := cases.Title(language.English)
		var sb strings.Builder
		for i, dest := range model.AllDestinations() {
			if i > 0 {
				sb.WriteString("\n")
			}
			skills := state.For(dest)
			if e.opts.Format == FormatMarkdown {
				fmt.Fprintf(&sb, "## %s (%d)\n\n", title.String(dest.String()), len(skills))
				for _, s := range skills {
					fmt.Fprintf(&sb, "- **%s** (`%s`)\n", s.Name, s.ID)
				}
				continue
			}
			fmt.Fprintf(&sb, "%s (%d)\n", title.String(dest.String()), len(skills))
			for _, s := range skills {
				fmt.Fprintf(&sb, "  %s  %s\n", pad(s.ID, 30), s.Path)
			}
		}
		_, err := io.WriteString(w, sb.String())
		return err
	default:
		return fmt.Errorf("unsupported format: %s", e.opts.Format)
	}
}

// Detail renders one skill with its descriptor and file listing.
// Table and Markdown formats print the descriptor text as is.
func (e *Exporter) Detail(w io.Writer, d model.SkillDetail) error {
	switch e.opts.Format {
	case FormatJSON:
		return e.writeJSON(w, d)
	case FormatYAML:
		return writeYAML(w, d)
	case FormatMarkdown, FormatTable:
		_, err := io.WriteString(w, d.Content)
		return err
	default:
		return fmt.Errorf("unsupported format: %s", e.opts.Format)
	}
}

// Value renders v as JSON or YAML. Other formats are rejected.
func (e *Exporter) Value(w io.Writer, v any) error {
	switch e.opts.Format {
	case FormatJSON:
		return e.writeJSON(w, v)
	case FormatYAML:
		return writeYAML(w, v)
	default:
		return fmt.Errorf("format %s is not supported here (valid: json, yaml)", e.opts.Format)
	}
}

func (e *Exporter) writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	if e.opts.Pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		_ = encoder.Close()
		return err
	}
	return encoder.Close()
}

func (e *Exporter) skillsTable(w io.Writer, skills []model.Skill) error {
	var sb strings.Builder

	withStatus := e.opts.Status != nil
	if withStatus {
		fmt.Fprintf(&sb, "%s ", pad("INSTALLED", 9))
	}
	fmt.Fprintf(&sb, "%s %s %s\n", pad("ID", 28), pad("CATEGORY", 16), "DESCRIPTION")

	for _, s := range skills {
		if withStatus {
			fmt.Fprintf(&sb, "%s ", pad(e.opts.Status[s.ID].Marker(), 9))
		}
		fmt.Fprintf(&sb, "%s %s %s\n",
			pad(truncate(s.ID, 28), 28),
			pad(truncate(s.Category, 16), 16),
			truncate(s.Description, e.opts.Width),
		)
	}

	fmt.Fprintf(&sb, "\nTotal: %d skill(s)\n", len(skills))
	_, err := io.WriteString(w, sb.String())
	return err
}

func (e *Exporter) skillsMarkdown(w io.Writer, skills []model.Skill) error {
	var sb strings.Builder

	sb.WriteString("# Skills\n\n")
	fmt.Fprintf(&sb, "Total: %d skill(s)\n\n", len(skills))

	for i, s := range skills {
		if i > 0 {
			sb.WriteString("\n---\n\n")
		}
		fmt.Fprintf(&sb, "## %s\n\n", s.Name)
		if s.Description != "" {
			fmt.Fprintf(&sb, "*%s*\n\n", s.Description)
		}
		sb.WriteString("| Property | Value |\n")
		sb.WriteString("|----------|-------|\n")
		fmt.Fprintf(&sb, "| ID | `%s` |\n", s.ID)
		fmt.Fprintf(&sb, "| Category | %s %s |\n", search.CategoryIcon(s.Category), s.Category)
		if len(s.Tags) > 0 {
			fmt.Fprintf(&sb, "| Tags | %s |\n", strings.Join(s.Tags, ", "))
		}
		if e.opts.Status != nil {
			fmt.Fprintf(&sb, "| Installed | %s |\n", e.opts.Status[s.ID].Marker())
		}
		fmt.Fprintf(&sb, "| Path | `%s` |\n", s.Path)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// truncate shortens s to width display cells, adding an ellipsis.
func truncate(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "...")
}

// pad right-pads s to width display cells.
func pad(s string, width int) string {
	return runewidth.FillRight(s, width)
}
