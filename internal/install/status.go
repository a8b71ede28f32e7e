package install

import "github.com/cytsaiap-xyz/skills-manager/internal/model"

// State records where one skill is installed.
type State struct {
	Global  bool `json:"global" yaml:"global"`
	Project bool `json:"project" yaml:"project"`
}

// Any reports whether the skill is installed anywhere.
func (s State) Any() bool {
	return s.Global || s.Project
}

// Marker abbreviates the state: G for global, P for project, - for neither.
func (s State) Marker() string {
	switch {
	case s.Global && s.Project:
		return "G P"
	case s.Global:
		return "G"
	case s.Project:
		return "P"
	default:
		return "-"
	}
}

// StatusMap maps catalog skill ids to their install state.
type StatusMap map[string]State

// Status matches installed skills against the catalog by id.
// Installed skills with no catalog counterpart are ignored.
func Status(skills []model.Skill, installed model.InstalledState) StatusMap {
	global := ids(installed.Global)
	project := ids(installed.Project)

	status := make(StatusMap, len(skills))
	for _, s := range skills {
		status[s.ID] = State{
			Global:  global[s.ID],
			Project: project[s.ID],
		}
	}
	return status
}

// IsInstalled reports whether id is installed at dest.
func (m StatusMap) IsInstalled(id string, dest model.Destination) bool {
	st := m[id]
	switch dest {
	case model.DestinationGlobal:
		return st.Global
	case model.DestinationProject:
		return st.Project
	default:
		return false
	}
}

// Set marks id as installed at dest.
func (m StatusMap) Set(id string, dest model.Destination) {
	st := m[id]
	switch dest {
	case model.DestinationGlobal:
		st.Global = true
	case model.DestinationProject:
		st.Project = true
	}
	m[id] = st
}

func ids(skills []model.Skill) map[string]bool {
	set := make(map[string]bool, len(skills))
	for _, s := range skills {
		set[s.ID] = true
	}
	return set
}
