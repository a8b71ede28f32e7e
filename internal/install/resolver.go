package install

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cytsaiap-xyz/skills-manager/internal/catalog"
	"github.com/cytsaiap-xyz/skills-manager/internal/logging"
	"github.com/cytsaiap-xyz/skills-manager/internal/model"
	"github.com/cytsaiap-xyz/skills-manager/internal/util"
	"github.com/cytsaiap-xyz/skills-manager/internal/validation"
)

// ListType selects which destinations are scanned.
type ListType string

// Supported list types.
const (
	ListAll     ListType = "all"
	ListGlobal  ListType = "global"
	ListProject ListType = "project"
)

// ParseListType converts s to a ListType. An empty string means ListAll.
func ParseListType(s string) (ListType, error) {
	switch t := ListType(strings.ToLower(strings.TrimSpace(s))); t {
	case "":
		return ListAll, nil
	case ListAll, ListGlobal, ListProject:
		return t, nil
	default:
		return "", &validation.Error{
			Field:   "type",
			Message: fmt.Sprintf("unknown type %q (valid: all, global, project)", s),
		}
	}
}

func (t ListType) includes(dest model.Destination) bool {
	return t == ListAll || t == "" || string(t) == string(dest)
}

// Query selects the installed skills to list.
type Query struct {
	Type ListType
	// ProjectPath is the project root, not its skills directory.
	// Empty means no project is scanned.
	ProjectPath string
}

// Resolver lists installed skills.
type Resolver struct {
	GlobalRoot string
}

// NewResolver returns a resolver for the given global root.
func NewResolver(globalRoot string) *Resolver {
	return &Resolver{GlobalRoot: globalRoot}
}

// List scans the destinations selected by q. Destinations that are not
// selected, and the project when q.ProjectPath is empty, are returned as
// empty lists without touching the filesystem. Roots are never created.
func (r *Resolver) List(ctx context.Context, q Query) (model.InstalledState, error) {
	state := model.InstalledState{
		Global:  []model.Skill{},
		Project: []model.Skill{},
	}

	if q.Type.includes(model.DestinationGlobal) {
		skills, err := catalog.List(util.ExpandPath(r.GlobalRoot))
		if err != nil {
			return model.InstalledState{}, fmt.Errorf("failed to list global skills: %w", err)
		}
		state.Global = skills
	}

	if err := ctx.Err(); err != nil {
		return model.InstalledState{}, err
	}

	if q.Type.includes(model.DestinationProject) && strings.TrimSpace(q.ProjectPath) != "" {
		skills, err := catalog.List(ProjectSkillsPath(q.ProjectPath))
		if err != nil {
			return model.InstalledState{}, fmt.Errorf("failed to list project skills: %w", err)
		}
		state.Project = skills
	}

	logging.Debug("resolved installed skills",
		logging.Operation("list-installed"),
		slog.Int("global", len(state.Global)),
		slog.Int("project", len(state.Project)),
	)

	return state, nil
}

// ResolveInstalled lists both destinations. projectPath may be empty.
func ResolveInstalled(globalRoot, projectPath string) (model.InstalledState, error) {
	return NewResolver(globalRoot).List(context.Background(), Query{
		Type:        ListAll,
		ProjectPath: projectPath,
	})
}
