package catalog

import (
	"errors"
	"fmt"
)

// ErrNotFound matches every *NotFoundError through errors.Is.
var ErrNotFound = errors.New("skill not found")

// ScanError reports a skills root that cannot be created or listed.
type ScanError struct {
	Root string
	Err  error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("failed to scan skills root %q: %v", e.Root, e.Err)
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// DescriptorError reports a SKILL.md that exists but cannot be read.
// Scans log it and keep going; Detail returns it.
type DescriptorError struct {
	Skill string
	Path  string
	Err   error
}

func (e *DescriptorError) Error() string {
	return fmt.Sprintf("failed to read descriptor for skill %q at %q: %v", e.Skill, e.Path, e.Err)
}

func (e *DescriptorError) Unwrap() error {
	return e.Err
}

// NotFoundError reports a skill id with no bundle directory under the root.
type NotFoundError struct {
	ID   string
	Root string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("skill %q not found in %q", e.ID, e.Root)
}

// Is reports whether target is ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
