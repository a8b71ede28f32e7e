package install

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cytsaiap-xyz/skills-manager/internal/model"
	"github.com/cytsaiap-xyz/skills-manager/internal/util"
	"github.com/cytsaiap-xyz/skills-manager/internal/validation"
)

func TestParseListType(t *testing.T) {
	tests := map[string]struct {
		input   string
		want    ListType
		wantErr bool
	}{
		"empty":   {input: "", want: ListAll},
		"all":     {input: "all", want: ListAll},
		"global":  {input: "GLOBAL", want: ListGlobal},
		"project": {input: " project ", want: ListProject},
		"unknown": {input: "both", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ParseListType(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseListType(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, validation.ErrInvalid) {
					t.Errorf("expected validation error, got %v", err)
				}
				return
			}
			util.AssertEqual(t, got, tt.want)
		})
	}
}

func TestResolver_List(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	global := filepath.Join(home, "global")
	util.WriteSkill(t, global, "g1", "---\nname: Global One\n---\n")
	util.WriteSkill(t, global, "shared", "")

	project := filepath.Join(home, "work", "app")
	util.WriteSkill(t, filepath.Join(project, ".opencode", "skill"), "shared", "")

	tests := map[string]struct {
		query       Query
		wantGlobal  int
		wantProject int
	}{
		"all with project": {
			query:       Query{Type: ListAll, ProjectPath: project},
			wantGlobal:  2,
			wantProject: 1,
		},
		"all without project": {
			query:      Query{Type: ListAll},
			wantGlobal: 2,
		},
		"zero value type": {
			query:       Query{ProjectPath: project},
			wantGlobal:  2,
			wantProject: 1,
		},
		"global only": {
			query:      Query{Type: ListGlobal, ProjectPath: project},
			wantGlobal: 2,
		},
		"project only": {
			query:       Query{Type: ListProject, ProjectPath: project},
			wantProject: 1,
		},
		"home shorthand": {
			query:       Query{Type: ListProject, ProjectPath: "~/work/app"},
			wantProject: 1,
		},
		"project without skills dir": {
			query:      Query{ProjectPath: filepath.Join(home, "elsewhere")},
			wantGlobal: 2,
		},
	}

	r := NewResolver(global)
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			state, err := r.List(context.Background(), tt.query)
			util.AssertNoError(t, err)

			if state.Global == nil || state.Project == nil {
				t.Fatal("installed lists must never be nil")
			}
			util.AssertEqual(t, len(state.Global), tt.wantGlobal)
			util.AssertEqual(t, len(state.Project), tt.wantProject)
		})
	}
}

func TestResolver_ListDoesNotCreateRoots(t *testing.T) {
	base := t.TempDir()
	global := filepath.Join(base, "global")
	project := filepath.Join(base, "project")

	state, err := NewResolver(global).List(context.Background(), Query{ProjectPath: project})
	util.AssertNoError(t, err)
	util.AssertEqual(t, len(state.Global), 0)
	util.AssertEqual(t, len(state.Project), 0)

	for _, p := range []string{global, project} {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("%s should not exist", p)
		}
	}
}

func TestResolveInstalled(t *testing.T) {
	base := t.TempDir()
	global := filepath.Join(base, "global")
	util.WriteSkill(t, global, "a", "")

	state, err := ResolveInstalled(global, "")
	util.AssertNoError(t, err)
	util.AssertEqual(t, len(state.Global), 1)
	util.AssertEqual(t, len(state.Project), 0)
	if !state.Contains(model.DestinationGlobal, "a") {
		t.Error("expected a to be installed globally")
	}
}

func TestDestinationPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := map[string]struct {
		global  string
		dest    model.Destination
		project string
		id      string
		want    string
		wantErr bool
	}{
		"global": {
			global: "/opt/skills",
			dest:   model.DestinationGlobal,
			id:     "foo",
			want:   filepath.Join("/opt/skills", "foo"),
		},
		"global with home shorthand": {
			global: "~/.config/opencode/skill",
			dest:   model.DestinationGlobal,
			id:     "foo",
			want:   filepath.Join(home, ".config", "opencode", "skill", "foo"),
		},
		"project": {
			dest:    model.DestinationProject,
			project: "/src/app",
			id:      "foo",
			want:    filepath.Join("/src/app", ".opencode", "skill", "foo"),
		},
		"project requires path": {
			dest:    model.DestinationProject,
			id:      "foo",
			wantErr: true,
		},
		"bad id": {
			global:  "/opt/skills",
			dest:    model.DestinationGlobal,
			id:      "a/b",
			wantErr: true,
		},
		"unknown destination": {
			dest:    "cloud",
			id:      "foo",
			wantErr: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := DestinationPath(tt.global, tt.dest, tt.project, tt.id)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DestinationPath() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				util.AssertEqual(t, got, tt.want)
			}
		})
	}
}

func TestStatus(t *testing.T) {
	skills := []model.Skill{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	installed := model.InstalledState{
		Global:  []model.Skill{{ID: "a"}, {ID: "orphan"}},
		Project: []model.Skill{{ID: "a"}, {ID: "c"}},
	}

	status := Status(skills, installed)

	util.AssertEqual(t, len(status), 3)
	util.AssertEqual(t, status["a"], State{Global: true, Project: true})
	util.AssertEqual(t, status["b"], State{})
	util.AssertEqual(t, status["c"], State{Project: true})
	if _, ok := status["orphan"]; ok {
		t.Error("installed skills outside the catalog must be ignored")
	}

	if !status.IsInstalled("c", model.DestinationProject) || status.IsInstalled("c", model.DestinationGlobal) {
		t.Error("IsInstalled mismatch for c")
	}
	if status["b"].Any() {
		t.Error("b should not be installed anywhere")
	}

	status.Set("b", model.DestinationGlobal)
	if !status.IsInstalled("b", model.DestinationGlobal) {
		t.Error("Set did not mark b as installed")
	}
}

func TestStateMarker(t *testing.T) {
	tests := map[string]struct {
		state State
		want  string
	}{
		"none":    {state: State{}, want: "-"},
		"global":  {state: State{Global: true}, want: "G"},
		"project": {state: State{Project: true}, want: "P"},
		"both":    {state: State{Global: true, Project: true}, want: "G P"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			util.AssertEqual(t, tt.state.Marker(), tt.want)
		})
	}
}
