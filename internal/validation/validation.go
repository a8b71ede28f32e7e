// Package validation checks user-supplied input before any filesystem access.
package validation

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cytsaiap-xyz/skills-manager/internal/model"
)

// ErrInvalid matches every *Error through errors.Is.
var ErrInvalid = errors.New("invalid input")

// Error represents a validation failure with context.
type Error struct {
	// Field is the name of the input that failed validation
	Field string
	// Message describes the validation failure
	Message string
	// Err is the underlying error (if any)
	Err error
}

// Error returns a formatted validation error message.
func (ve *Error) Error() string {
	if ve.Err != nil {
		return fmt.Sprintf("validation failed for %q: %s: %v", ve.Field, ve.Message, ve.Err)
	}
	return fmt.Sprintf("validation failed for %q: %s", ve.Field, ve.Message)
}

// Unwrap returns the underlying error for errors.Is/As.
func (ve *Error) Unwrap() error {
	return ve.Err
}

// Is reports whether target is ErrInvalid.
func (ve *Error) Is(target error) bool {
	return target == ErrInvalid
}

// Errors collects multiple validation errors.
type Errors []error

// Error returns a formatted error message for all validation failures.
func (ve Errors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}
	return fmt.Sprintf("%d validation errors:\n- %s", len(ve), errors.Join(ve...))
}

// Result contains the outcome of a validation check.
type Result struct {
	// Valid indicates whether all validations passed
	Valid bool
	// Warnings contains non-fatal validation issues
	Warnings []string
	// Errors contains validation failures that prevent the operation
	Errors []error
}

// NewResult returns a passing result.
func NewResult() *Result {
	return &Result{Valid: true}
}

// AddError adds an error to the validation result.
func (r *Result) AddError(err error) {
	r.Valid = false
	r.Errors = append(r.Errors, err)
}

// AddWarning adds a warning to the validation result.
func (r *Result) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// HasErrors returns true if there are any validation errors.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// Error returns the combined validation error, or nil.
func (r *Result) Error() error {
	if !r.HasErrors() {
		return nil
	}
	if len(r.Errors) == 1 {
		return r.Errors[0]
	}
	return Errors(r.Errors)
}

// Required fails when value is empty after trimming whitespace.
func Required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &Error{Field: field, Message: "is required"}
	}
	return nil
}

// SkillID checks that id names a single directory entry.
// Ids are joined onto root paths, so separators and dot segments are rejected.
func SkillID(id string) error {
	if err := Required("skillId", id); err != nil {
		return err
	}
	switch {
	case id == "." || id == "..":
		return &Error{Field: "skillId", Message: fmt.Sprintf("%q is not a valid skill id", id)}
	case strings.ContainsAny(id, `/\`) || strings.ContainsRune(id, filepath.Separator):
		return &Error{Field: "skillId", Message: fmt.Sprintf("%q must not contain path separators", id)}
	case strings.ContainsRune(id, 0):
		return &Error{Field: "skillId", Message: "must not contain NUL bytes"}
	}
	return nil
}

// Destination parses an install destination kind.
func Destination(value string) (model.Destination, error) {
	if err := Required("destination", value); err != nil {
		return "", err
	}
	dest, err := model.ParseDestination(value)
	if err != nil {
		return "", &Error{Field: "destination", Message: "unsupported destination", Err: err}
	}
	return dest, nil
}

// ProjectPath requires a project path when installing into a project.
func ProjectPath(dest model.Destination, projectPath string) error {
	if dest != model.DestinationProject {
		return nil
	}
	if strings.TrimSpace(projectPath) == "" {
		return &Error{Field: "projectPath", Message: "is required for project destination"}
	}
	return nil
}
