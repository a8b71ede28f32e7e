package model

import "slices"

const (
	// DescriptorFile is the reserved name of the metadata file at the top level of a bundle.
	DescriptorFile = "SKILL.md"

	// DefaultCategory is the sentinel category for bundles without one.
	// It always sorts last in category listings.
	DefaultCategory = "Other"

	// DefaultDescription is shown for bundles whose descriptor has no description.
	DefaultDescription = "No description available"
)

// Skill represents one skill bundle found under a skills root.
// The ID is the bundle directory name and is only unique within a single root.
type Skill struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Category    string   `json:"category" yaml:"category"`
	Tags        []string `json:"tags" yaml:"tags"`
	Path        string   `json:"path" yaml:"path"`
}

// NewSkill returns a skill populated with the defaults derived from its directory.
func NewSkill(id, path string) Skill {
	return Skill{
		ID:          id,
		Name:        id,
		Description: DefaultDescription,
		Category:    DefaultCategory,
		Tags:        []string{},
		Path:        path,
	}
}

// HasTag reports whether the skill carries the given tag.
func (s Skill) HasTag(tag string) bool {
	return slices.Contains(s.Tags, tag)
}

// FileEntry is a single top-level entry of a bundle directory.
type FileEntry struct {
	Name        string `json:"name" yaml:"name"`
	IsDirectory bool   `json:"isDirectory" yaml:"is_directory"`
}

// SkillDetail is a skill together with its raw descriptor text and
// the bundle's immediate directory listing.
type SkillDetail struct {
	Skill   `yaml:",inline"`
	Content string      `json:"content" yaml:"content"`
	Files   []FileEntry `json:"files" yaml:"files"`
}

// Catalog is the result of scanning the skills repository.
type Catalog struct {
	Skills     []Skill  `json:"skills" yaml:"skills"`
	Categories []string `json:"categories" yaml:"categories"`
}

// Find returns the skill with the given id.
func (c Catalog) Find(id string) (Skill, bool) {
	for _, s := range c.Skills {
		if s.ID == id {
			return s, true
		}
	}
	return Skill{}, false
}

// InstalledState holds the skills found in each destination root.
// Skills are matched against the catalog by ID only.
type InstalledState struct {
	Global  []Skill `json:"global" yaml:"global"`
	Project []Skill `json:"project" yaml:"project"`
}

// For returns the installed skills of one destination.
func (s InstalledState) For(dest Destination) []Skill {
	switch dest {
	case DestinationGlobal:
		return s.Global
	case DestinationProject:
		return s.Project
	default:
		return nil
	}
}

// Contains reports whether a skill with the given id is installed at dest.
func (s InstalledState) Contains(dest Destination, id string) bool {
	return slices.ContainsFunc(s.For(dest), func(sk Skill) bool {
		return sk.ID == id
	})
}
