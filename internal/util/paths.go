package util

import (
	"os"
	"path/filepath"
	"strings"
)

// HomeDir returns the user's home directory
func HomeDir() string {
	home, _ := os.UserHomeDir()
	return home
}

// ExpandPath expands a leading "~" to the user's home directory.
// Only "~" and "~/..." are expanded; "~user" forms are returned unchanged.
func ExpandPath(p string) string {
	if p == "~" {
		return HomeDir()
	}
	if strings.HasPrefix(p, "~/") || strings.HasPrefix(p, "~"+string(filepath.Separator)) {
		return filepath.Join(HomeDir(), p[2:])
	}
	return p
}

// ConfigPath returns the skills-manager configuration directory.
func ConfigPath() string {
	return filepath.Join(HomeDir(), ".config", "skills-manager")
}

// DefaultRepoPath returns the default skills repository (catalog root).
func DefaultRepoPath() string {
	return filepath.Join(ConfigPath(), "skills_repo")
}

// DefaultGlobalSkillsPath returns the default global install root.
func DefaultGlobalSkillsPath() string {
	return filepath.Join(HomeDir(), ".config", "opencode", "skill")
}
