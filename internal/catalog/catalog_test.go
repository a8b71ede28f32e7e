package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/cytsaiap-xyz/skills-manager/internal/model"
	"github.com/cytsaiap-xyz/skills-manager/internal/util"
)

func TestScan_EmptyRoot(t *testing.T) {
	root := t.TempDir()

	got, err := Scan(root)
	util.AssertNoError(t, err)

	if got.Skills == nil || len(got.Skills) != 0 {
		t.Errorf("Skills = %v, want empty non-nil slice", got.Skills)
	}
	if got.Categories == nil || len(got.Categories) != 0 {
		t.Errorf("Categories = %v, want empty non-nil slice", got.Categories)
	}
}

func TestScan_CreatesMissingRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "skills_repo")

	got, err := Scan(root)
	util.AssertNoError(t, err)
	util.AssertEqual(t, len(got.Skills), 0)

	info, err := os.Stat(root)
	if err != nil {
		t.Fatalf("root was not created: %v", err)
	}
	if !info.IsDir() {
		t.Error("root should be a directory")
	}
}

func TestScan_RootIsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	util.WriteFile(t, file, "x")

	_, err := Scan(file)
	var scanErr *ScanError
	if !errors.As(err, &scanErr) {
		t.Fatalf("Scan() error = %v, want *ScanError", err)
	}
}

func TestScan_NoDescriptors(t *testing.T) {
	root := t.TempDir()
	util.WriteSkill(t, root, "alpha", "")
	util.WriteSkill(t, root, "beta", "")

	got, err := Scan(root)
	util.AssertNoError(t, err)

	if len(got.Skills) != 2 {
		t.Fatalf("got %d skills, want 2", len(got.Skills))
	}
	for _, s := range got.Skills {
		if s.Name != s.ID {
			t.Errorf("skill %q: Name = %q, want id", s.ID, s.Name)
		}
		if s.Category != model.DefaultCategory {
			t.Errorf("skill %q: Category = %q, want %q", s.ID, s.Category, model.DefaultCategory)
		}
		if s.Description != model.DefaultDescription {
			t.Errorf("skill %q: Description = %q", s.ID, s.Description)
		}
		if s.Tags == nil || len(s.Tags) != 0 {
			t.Errorf("skill %q: Tags = %v, want empty", s.ID, s.Tags)
		}
	}
	if !slices.Equal(got.Categories, []string{model.DefaultCategory}) {
		t.Errorf("Categories = %v, want [Other]", got.Categories)
	}
}

func TestScan_Metadata(t *testing.T) {
	root := t.TempDir()
	dir := util.WriteSkill(t, root, "git-helper", `---
name: Git Helper
description: "Commits, rebases, and more"
category: Dev
tags: [git, vcs]
---
# Git Helper
`)
	util.WriteSkill(t, root, "partial", "---\ndescription: only a description\n---\n")
	util.WriteFile(t, filepath.Join(root, "README.md"), "top-level files are ignored")

	got, err := Scan(root)
	util.AssertNoError(t, err)

	if len(got.Skills) != 2 {
		t.Fatalf("got %d skills, want 2: %+v", len(got.Skills), got.Skills)
	}

	git, ok := got.Find("git-helper")
	if !ok {
		t.Fatal("git-helper not found")
	}
	util.AssertEqual(t, git.Name, "Git Helper")
	util.AssertEqual(t, git.Description, "Commits, rebases, and more")
	util.AssertEqual(t, git.Category, "Dev")
	util.AssertEqual(t, git.Path, dir)
	if !slices.Equal(git.Tags, []string{"git", "vcs"}) {
		t.Errorf("Tags = %v", git.Tags)
	}

	partial, _ := got.Find("partial")
	util.AssertEqual(t, partial.Name, "partial")
	util.AssertEqual(t, partial.Description, "only a description")
	util.AssertEqual(t, partial.Category, model.DefaultCategory)

	if !slices.Equal(got.Categories, []string{"Dev", model.DefaultCategory}) {
		t.Errorf("Categories = %v", got.Categories)
	}
}

func TestScan_CorruptDescriptorIsolated(t *testing.T) {
	root := t.TempDir()
	util.WriteSkill(t, root, "good", "---\nname: Good\ncategory: Ops\n---\n")

	// A SKILL.md that is a directory cannot be read as a file.
	broken := util.WriteSkill(t, root, "broken", "")
	if err := os.Mkdir(filepath.Join(broken, model.DescriptorFile), 0o750); err != nil {
		t.Fatal(err)
	}

	got, err := Scan(root)
	util.AssertNoError(t, err)

	if len(got.Skills) != 2 {
		t.Fatalf("got %d skills, want 2", len(got.Skills))
	}

	good, ok := got.Find("good")
	if !ok || good.Name != "Good" || good.Category != "Ops" {
		t.Errorf("good = %+v", good)
	}

	b, ok := got.Find("broken")
	if !ok {
		t.Fatal("broken bundle should still be listed")
	}
	util.AssertEqual(t, b.Name, "broken")
	util.AssertEqual(t, b.Category, model.DefaultCategory)
}

func TestScan_FollowsSymlinkedBundles(t *testing.T) {
	root := t.TempDir()
	target := util.WriteSkill(t, t.TempDir(), "real", "---\nname: Linked\n---\n")
	if err := os.Symlink(target, filepath.Join(root, "linked")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	if err := os.Symlink(filepath.Join(root, "missing"), filepath.Join(root, "dangling")); err != nil {
		t.Fatal(err)
	}

	got, err := Scan(root)
	util.AssertNoError(t, err)

	if len(got.Skills) != 1 {
		t.Fatalf("got %d skills, want 1: %+v", len(got.Skills), got.Skills)
	}
	util.AssertEqual(t, got.Skills[0].ID, "linked")
	util.AssertEqual(t, got.Skills[0].Name, "Linked")
}

func TestList_MissingRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "absent")

	got, err := List(root)
	util.AssertNoError(t, err)
	if got == nil || len(got) != 0 {
		t.Errorf("List() = %v, want empty", got)
	}
	if _, err := os.Stat(root); !os.IsNotExist(err) {
		t.Error("List must not create the root")
	}
}

func TestList_RelativeRootYieldsAbsolutePaths(t *testing.T) {
	root := t.TempDir()
	util.WriteSkill(t, root, "one", "")
	t.Chdir(root)

	got, err := List(".")
	util.AssertNoError(t, err)
	if len(got) != 1 {
		t.Fatalf("got %d skills, want 1", len(got))
	}
	if !filepath.IsAbs(got[0].Path) {
		t.Errorf("Path = %q, want absolute", got[0].Path)
	}
}

func TestCategories(t *testing.T) {
	tests := map[string]struct {
		categories []string
		want       []string
	}{
		"empty": {
			categories: nil,
			want:       []string{},
		},
		"sentinel last": {
			categories: []string{"Zeta", "Other", "Alpha"},
			want:       []string{"Alpha", "Zeta", "Other"},
		},
		"duplicates collapsed": {
			categories: []string{"Dev", "Dev", "Ops", "Dev"},
			want:       []string{"Dev", "Ops"},
		},
		"case sensitive ordinal": {
			categories: []string{"beta", "Alpha", "Other", "alpha"},
			want:       []string{"Alpha", "alpha", "beta", "Other"},
		},
		"only sentinel": {
			categories: []string{"Other", "Other"},
			want:       []string{"Other"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			skills := make([]model.Skill, 0, len(tt.categories))
			for _, c := range tt.categories {
				skills = append(skills, model.Skill{Category: c})
			}
			got := Categories(skills)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Categories() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReadDescriptor(t *testing.T) {
	root := t.TempDir()

	t.Run("missing descriptor", func(t *testing.T) {
		dir := util.WriteSkill(t, root, "bare", "")
		fm, content, err := ReadDescriptor("bare", dir)
		util.AssertNoError(t, err)
		util.AssertEqual(t, content, "")
		util.AssertEqual(t, fm.Category, model.DefaultCategory)
	})

	t.Run("unreadable descriptor", func(t *testing.T) {
		dir := util.WriteSkill(t, root, "dir-descriptor", "")
		if err := os.Mkdir(filepath.Join(dir, model.DescriptorFile), 0o750); err != nil {
			t.Fatal(err)
		}
		_, _, err := ReadDescriptor("dir-descriptor", dir)
		var descErr *DescriptorError
		if !errors.As(err, &descErr) {
			t.Fatalf("error = %v, want *DescriptorError", err)
		}
		util.AssertEqual(t, descErr.Skill, "dir-descriptor")
	})
}

func TestLocate(t *testing.T) {
	root := t.TempDir()
	dir := util.WriteSkill(t, root, "present", "")
	util.WriteFile(t, filepath.Join(root, "file-only"), "x")

	got, err := Locate(root, "present")
	util.AssertNoError(t, err)
	util.AssertEqual(t, got, dir)

	for _, id := range []string{"absent", "file-only"} {
		_, err := Locate(root, id)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Locate(%q) error = %v, want ErrNotFound", id, err)
		}
		var nf *NotFoundError
		if errors.As(err, &nf) && nf.ID != id {
			t.Errorf("NotFoundError.ID = %q, want %q", nf.ID, id)
		}
	}
}
