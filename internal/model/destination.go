package model

import (
	"fmt"
	"strings"
)

// Destination identifies where a skill gets installed.
type Destination string

const (
	// DestinationGlobal is the user-level skills directory shared by all projects.
	DestinationGlobal Destination = "global"

	// DestinationProject is the skills directory nested inside a single project.
	DestinationProject Destination = "project"
)

// IsValid returns true if the destination is recognized.
func (d Destination) IsValid() bool {
	switch d {
	case DestinationGlobal, DestinationProject:
		return true
	default:
		return false
	}
}

// AllDestinations returns every supported destination.
func AllDestinations() []Destination {
	return []Destination{DestinationGlobal, DestinationProject}
}

// String returns the string representation of the destination.
func (d Destination) String() string {
	return string(d)
}

// Description returns a human-readable description of the destination.
func (d Destination) Description() string {
	switch d {
	case DestinationGlobal:
		return "User-level skills available to every project"
	case DestinationProject:
		return "Skills local to a single project"
	default:
		return "Unknown destination"
	}
}

// ParseDestination converts a string to a Destination.
// Returns an error if the destination is not recognized.
func ParseDestination(s string) (Destination, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))

	dest := Destination(normalized)
	if dest.IsValid() {
		return dest, nil
	}

	switch normalized {
	case "user", "home":
		return DestinationGlobal, nil
	case "repo", "repository", "local":
		return DestinationProject, nil
	default:
		return "", fmt.Errorf("unknown destination %q (valid: global, project)", s)
	}
}
