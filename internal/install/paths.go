package install

import (
	"path/filepath"

	"github.com/cytsaiap-xyz/skills-manager/internal/model"
	"github.com/cytsaiap-xyz/skills-manager/internal/util"
	"github.com/cytsaiap-xyz/skills-manager/internal/validation"
)

// ProjectSubdir is the skills directory inside a project.
var ProjectSubdir = filepath.Join(".opencode", "skill")

// ProjectSkillsPath returns the skills directory of a project, expanding a
// leading "~" in projectPath.
func ProjectSkillsPath(projectPath string) string {
	return filepath.Join(util.ExpandPath(projectPath), ProjectSubdir)
}

// DestinationRoot returns the directory that holds installed bundles for dest.
func DestinationRoot(globalRoot string, dest model.Destination, projectPath string) (string, error) {
	switch dest {
	case model.DestinationGlobal:
		return util.ExpandPath(globalRoot), nil
	case model.DestinationProject:
		if err := validation.ProjectPath(dest, projectPath); err != nil {
			return "", err
		}
		return ProjectSkillsPath(projectPath), nil
	default:
		return "", &validation.Error{
			Field:   "destination",
			Message: "unsupported destination " + string(dest),
		}
	}
}

// DestinationPath returns where skill id is installed for dest.
func DestinationPath(globalRoot string, dest model.Destination, projectPath, id string) (string, error) {
	if err := validation.SkillID(id); err != nil {
		return "", err
	}
	root, err := DestinationRoot(globalRoot, dest, projectPath)
	if err != nil {
		return "", err
	}
	return filepath.Join(root, id), nil
}
