package model

import "testing"

func TestNewSkill(t *testing.T) {
	s := NewSkill("git-helper", "/repo/git-helper")

	if s.ID != "git-helper" || s.Name != "git-helper" {
		t.Errorf("NewSkill() id/name = %q/%q, want git-helper/git-helper", s.ID, s.Name)
	}
	if s.Description != DefaultDescription {
		t.Errorf("NewSkill().Description = %q, want %q", s.Description, DefaultDescription)
	}
	if s.Category != DefaultCategory {
		t.Errorf("NewSkill().Category = %q, want %q", s.Category, DefaultCategory)
	}
	if s.Tags == nil || len(s.Tags) != 0 {
		t.Errorf("NewSkill().Tags = %#v, want empty non-nil slice", s.Tags)
	}
	if s.Path != "/repo/git-helper" {
		t.Errorf("NewSkill().Path = %q", s.Path)
	}
}

func TestSkillHasTag(t *testing.T) {
	s := Skill{Tags: []string{"git", "vcs"}}
	if !s.HasTag("vcs") {
		t.Error("expected HasTag(vcs) to be true")
	}
	if s.HasTag("Git") {
		t.Error("HasTag should be case-sensitive")
	}
}

func TestCatalogFind(t *testing.T) {
	c := Catalog{Skills: []Skill{{ID: "a"}, {ID: "b", Name: "Bee"}}}

	got, ok := c.Find("b")
	if !ok || got.Name != "Bee" {
		t.Errorf("Find(b) = %+v, %v", got, ok)
	}
	if _, ok := c.Find("c"); ok {
		t.Error("Find(c) should not find anything")
	}
}

func TestInstalledStateContains(t *testing.T) {
	state := InstalledState{
		Global:  []Skill{{ID: "shared"}, {ID: "global-only"}},
		Project: []Skill{{ID: "shared"}},
	}

	tests := map[string]struct {
		dest Destination
		id   string
		want bool
	}{
		"global hit":          {dest: DestinationGlobal, id: "global-only", want: true},
		"project miss":        {dest: DestinationProject, id: "global-only", want: false},
		"present in both":     {dest: DestinationProject, id: "shared", want: true},
		"unknown destination": {dest: "elsewhere", id: "shared", want: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := state.Contains(tt.dest, tt.id); got != tt.want {
				t.Errorf("Contains(%q, %q) = %v, want %v", tt.dest, tt.id, got, tt.want)
			}
		})
	}
}
