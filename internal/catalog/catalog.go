// Package catalog builds the list of skill bundles found under a skills root.
//
// A bundle is any directory directly inside the root. Its SKILL.md, when
// present, supplies name, description, category, and tags; anything missing
// falls back to values derived from the directory name.
package catalog

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/cytsaiap-xyz/skills-manager/internal/logging"
	"github.com/cytsaiap-xyz/skills-manager/internal/model"
	"github.com/cytsaiap-xyz/skills-manager/internal/parser"
)

// EnsureRoot creates the skills root if it does not exist.
func EnsureRoot(root string) error {
	// #nosec G301 - skills roots are user-owned directories
	if err := os.MkdirAll(root, 0o750); err != nil {
		return &ScanError{Root: root, Err: err}
	}
	return nil
}

// Scan ensures root exists and returns every bundle in it along with the
// sorted set of categories in use.
func Scan(root string) (model.Catalog, error) {
	if err := EnsureRoot(root); err != nil {
		return model.Catalog{}, err
	}

	skills, err := List(root)
	if err != nil {
		return model.Catalog{}, err
	}

	return model.Catalog{
		Skills:     skills,
		Categories: Categories(skills),
	}, nil
}

// List returns the bundles directly under root in directory listing order.
// A root that does not exist yields an empty list. Files at the top level are
// ignored, symlinks to directories are followed.
func List(root string) ([]model.Skill, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, &ScanError{Root: root, Err: err}
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logging.Debug("skills root not found", logging.Path(abs))
			return []model.Skill{}, nil
		}
		return nil, &ScanError{Root: abs, Err: err}
	}

	skills := make([]model.Skill, 0, len(entries))
	for _, entry := range entries {
		dir := filepath.Join(abs, entry.Name())
		if !isDir(dir, entry) {
			continue
		}
		skills = append(skills, load(entry.Name(), dir))
	}

	logging.Debug("scanned skills root",
		logging.Path(abs),
		logging.Count(len(skills)),
	)

	return skills, nil
}

// load builds the record for one bundle. A descriptor that cannot be read is
// logged and the record keeps its defaults.
func load(id, dir string) model.Skill {
	skill := model.NewSkill(id, dir)

	fm, _, err := ReadDescriptor(id, dir)
	if err != nil {
		logging.Warn("failed to read descriptor",
			logging.Skill(id),
			logging.Path(dir),
			logging.Err(err),
		)
		return skill
	}

	apply(&skill, fm)
	return skill
}

// apply overwrites record fields only with non-empty parsed values.
func apply(skill *model.Skill, fm parser.Frontmatter) {
	if fm.Name != "" {
		skill.Name = fm.Name
	}
	if fm.Description != "" {
		skill.Description = fm.Description
	}
	if fm.Category != "" {
		skill.Category = fm.Category
	}
	if len(fm.Tags) > 0 {
		skill.Tags = fm.Tags
	}
}

// ReadDescriptor reads and parses the SKILL.md inside dir. A missing
// descriptor is not an error: it yields parser defaults and empty content.
func ReadDescriptor(id, dir string) (parser.Frontmatter, string, error) {
	path := filepath.Join(dir, model.DescriptorFile)

	// #nosec G304 - path is a fixed file name inside a listed bundle directory
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return parser.Parse(""), "", nil
		}
		return parser.Frontmatter{}, "", &DescriptorError{Skill: id, Path: path, Err: err}
	}

	content := string(data)
	return parser.Parse(content), content, nil
}

// Categories returns the distinct categories of skills, sorted with
// model.DefaultCategory always last.
func Categories(skills []model.Skill) []string {
	seen := make(map[string]bool, len(skills))
	categories := make([]string, 0)
	for _, s := range skills {
		if !seen[s.Category] {
			seen[s.Category] = true
			categories = append(categories, s.Category)
		}
	}

	slices.SortFunc(categories, compareCategories)
	return categories
}

func compareCategories(a, b string) int {
	switch {
	case a == b:
		return 0
	case a == model.DefaultCategory:
		return 1
	case b == model.DefaultCategory:
		return -1
	default:
		return cmp.Compare(a, b)
	}
}

// isDir reports whether entry is a directory, resolving symlinks.
func isDir(path string, entry fs.DirEntry) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		logging.Debug("skipping broken symlink", logging.Path(path), logging.Err(err))
		return false
	}
	return info.IsDir()
}

// Locate returns the absolute bundle directory for id under root.
func Locate(root, id string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve skills root %q: %w", root, err)
	}

	dir := filepath.Join(abs, id)
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &NotFoundError{ID: id, Root: abs}
		}
		return "", fmt.Errorf("failed to stat skill %q: %w", id, err)
	}
	if !info.IsDir() {
		return "", &NotFoundError{ID: id, Root: abs}
	}
	return dir, nil
}
