// Package install resolves where skills live once installed and copies
// bundles from the skills repository into a destination.
//
// Two destinations exist. Global installs go to <global>/<id>. Project installs
// go to <project>/.opencode/skill/<id>; that nesting is fixed.
package install
