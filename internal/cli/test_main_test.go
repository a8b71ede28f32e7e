package cli

import (
	"fmt"
	"os"
	"testing"
)

// overrideEnv lists variables that would point tests at real user directories.
var overrideEnv = []string{
	"SKILLS_REPO_PATH",
	"GLOBAL_SKILLS_PATH",
	"PORT",
	"SKILLS_MANAGER_HOST",
	"SKILLS_MANAGER_STATIC_DIR",
	"SKILLS_MANAGER_OUTPUT_FORMAT",
	"SKILLS_MANAGER_OUTPUT_COLOR",
	"SKILLS_MANAGER_PROGRESS",
}

func TestMain(m *testing.M) {
	tempHome, err := os.MkdirTemp("", "skills-manager-home-")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create temp HOME: %v\n", err)
		os.Exit(1)
	}

	oldHome, hadHome := os.LookupEnv("HOME")
	if err := os.Setenv("HOME", tempHome); err != nil {
		fmt.Fprintf(os.Stderr, "failed to set HOME: %v\n", err)
		_ = os.RemoveAll(tempHome)
		os.Exit(1)
	}
	for _, key := range overrideEnv {
		_ = os.Unsetenv(key)
	}

	code := m.Run()

	if hadHome {
		_ = os.Setenv("HOME", oldHome)
	} else {
		_ = os.Unsetenv("HOME")
	}
	_ = os.RemoveAll(tempHome)

	os.Exit(code)
}
