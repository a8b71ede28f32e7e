package catalog

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cytsaiap-xyz/skills-manager/internal/model"
	"github.com/cytsaiap-xyz/skills-manager/internal/validation"
)

// Detail returns one skill with its raw SKILL.md text and the bundle's
// top-level entries. Subdirectories are listed but not descended into.
func Detail(root, id string) (model.SkillDetail, error) {
	if err := validation.SkillID(id); err != nil {
		return model.SkillDetail{}, err
	}

	dir, err := Locate(root, id)
	if err != nil {
		return model.SkillDetail{}, err
	}

	fm, content, err := ReadDescriptor(id, dir)
	if err != nil {
		return model.SkillDetail{}, err
	}

	skill := model.NewSkill(id, dir)
	apply(&skill, fm)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return model.SkillDetail{}, fmt.Errorf("failed to list skill %q: %w", id, err)
	}

	files := make([]model.FileEntry, 0, len(entries))
	for _, entry := range entries {
		files = append(files, model.FileEntry{
			Name:        entry.Name(),
			IsDirectory: isDir(filepath.Join(dir, entry.Name()), entry),
		})
	}

	return model.SkillDetail{
		Skill:   skill,
		Content: content,
		Files:   files,
	}, nil
}
