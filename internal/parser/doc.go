// Package parser extracts skill metadata from SKILL.md descriptors.
//
// Descriptors are often written by hand, so parsing is lenient: the metadata
// block is scanned line by line for a handful of known keys instead of being
// decoded as strict YAML. A missing or malformed block never produces an
// error, only default values.
package parser
