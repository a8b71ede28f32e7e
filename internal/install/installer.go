package install

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cytsaiap-xyz/skills-manager/internal/catalog"
	"github.com/cytsaiap-xyz/skills-manager/internal/logging"
	"github.com/cytsaiap-xyz/skills-manager/internal/model"
	"github.com/cytsaiap-xyz/skills-manager/internal/util"
	"github.com/cytsaiap-xyz/skills-manager/internal/validation"
)

// ProgressFunc is called once per copied file with its path relative to the
// installed bundle.
type ProgressFunc func(rel string)

// Request describes one install.
type Request struct {
	SkillID     string
	Destination model.Destination
	// ProjectPath is the project root. Required for DestinationProject.
	ProjectPath string
}

// Validate checks the request without touching the filesystem.
func (r Request) Validate() error {
	if err := validation.SkillID(r.SkillID); err != nil {
		return err
	}
	if !r.Destination.IsValid() {
		return &validation.Error{
			Field:   "destination",
			Message: fmt.Sprintf("unknown destination %q (valid: global, project)", r.Destination),
		}
	}
	return validation.ProjectPath(r.Destination, r.ProjectPath)
}

// Result describes a completed install.
type Result struct {
	SkillID     string            `json:"skillId" yaml:"skill_id"`
	Destination model.Destination `json:"destination" yaml:"destination"`
	// Path is the installed bundle directory.
	Path  string `json:"path" yaml:"path"`
	Files int    `json:"files" yaml:"files"`
	Dirs  int    `json:"dirs" yaml:"dirs"`
}

// Installer copies bundles from the skills repository to a destination.
type Installer struct {
	RepoRoot   string
	GlobalRoot string
	// Progress, when set, is called for each copied file.
	Progress ProgressFunc
}

// NewInstaller returns an installer reading from repoRoot.
func NewInstaller(repoRoot, globalRoot string) *Installer {
	return &Installer{
		RepoRoot:   repoRoot,
		GlobalRoot: globalRoot,
	}
}

// Source returns the bundle directory for id in the skills repository.
func (i *Installer) Source(id string) (string, error) {
	if err := validation.SkillID(id); err != nil {
		return "", err
	}
	return catalog.Locate(util.ExpandPath(i.RepoRoot), id)
}

// Install copies the bundle req.SkillID to its destination and returns where
// it went. Existing files at the destination are overwritten, so repeating an
// install is safe. Whether the skill was already installed is not checked.
func (i *Installer) Install(ctx context.Context, req Request) (Result, error) {
	if err := req.Validate(); err != nil {
		return Result{}, err
	}

	dst, err := DestinationPath(i.GlobalRoot, req.Destination, req.ProjectPath, req.SkillID)
	if err != nil {
		return Result{}, err
	}

	src, err := i.Source(req.SkillID)
	if err != nil {
		return Result{}, err
	}

	if err := checkOverlap(src, dst); err != nil {
		return Result{}, err
	}

	start := time.Now()
	logging.Debug("installing skill",
		logging.Skill(req.SkillID),
		logging.Destination(req.Destination.String()),
		logging.Path(dst),
	)

	// #nosec G301 - destination roots are user-owned directories
	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return Result{}, fmt.Errorf("failed to create destination root: %w", err)
	}

	c := &copier{ctx: ctx, root: dst, progress: i.Progress}
	if err := c.copyDir(src, dst); err != nil {
		logging.Error("install failed",
			logging.Skill(req.SkillID),
			logging.Path(dst),
			logging.Err(err),
		)
		return Result{}, fmt.Errorf("failed to install skill %q: %w", req.SkillID, err)
	}

	logging.Info("installed skill",
		logging.Skill(req.SkillID),
		logging.Destination(req.Destination.String()),
		logging.Path(dst),
		logging.Count(c.files),
		logging.Duration(time.Since(start)),
	)

	return Result{
		SkillID:     req.SkillID,
		Destination: req.Destination,
		Path:        dst,
		Files:       c.files,
		Dirs:        c.dirs,
	}, nil
}

// checkOverlap rejects a destination that is the source bundle or lies
// inside it. Copying onto itself truncates the source files, and copying
// into itself recurses without end.
func checkOverlap(src, dst string) error {
	realSrc, err := resolvePath(src)
	if err != nil {
		return fmt.Errorf("failed to resolve source %q: %w", src, err)
	}
	realDst, err := resolvePath(dst)
	if err != nil {
		return fmt.Errorf("failed to resolve destination %q: %w", dst, err)
	}

	switch {
	case realDst == realSrc:
		return &validation.Error{
			Field:   "destination",
			Message: fmt.Sprintf("%s is the source bundle itself", dst),
		}
	case strings.HasPrefix(realDst, realSrc+string(filepath.Separator)):
		return &validation.Error{
			Field:   "destination",
			Message: fmt.Sprintf("%s is inside the source bundle %s", dst, src),
		}
	}
	return nil
}

// resolvePath returns the absolute, symlink-free form of p. Components that
// do not exist yet are appended to the resolved deepest existing ancestor.
func resolvePath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}

	var missing []string
	cur := abs
	for {
		resolved, err := filepath.EvalSymlinks(cur)
		if err == nil {
			return filepath.Join(append([]string{resolved}, missing...)...), nil
		}
		if !os.IsNotExist(err) {
			return "", err
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return abs, nil
		}
		missing = append([]string{filepath.Base(cur)}, missing...)
		cur = parent
	}
}
