package install

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cytsaiap-xyz/skills-manager/internal/logging"
)

// copier recursively copies a bundle, overwriting files that already exist
// at the destination. Entries present only at the destination are left alone.
type copier struct {
	ctx      context.Context
	root     string
	progress ProgressFunc
	files    int
	dirs     int
}

// removeExisting removes a file, symlink, or directory at the given path.
// Uses os.Lstat so symlinks are removed as entries.
func removeExisting(path string) error {
	info, err := os.Lstat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat %q: %w", path, err)
	}

	if info.IsDir() {
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("failed to remove directory %q: %w", path, err)
		}
		logging.Debug("removed existing directory", logging.Path(path))
		return nil
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to remove %q: %w", path, err)
	}
	logging.Debug("removed existing entry", logging.Path(path))
	return nil
}

// copyFile copies a single file from src to dst, preserving permissions.
// A symlink already sitting at dst is replaced rather than written through.
func (c *copier) copyFile(src, dst string, mode fs.FileMode) error {
	if info, err := os.Lstat(dst); err == nil && info.Mode()&os.ModeSymlink != 0 {
		if err := removeExisting(dst); err != nil {
			return err
		}
	}

	// #nosec G304 - src is inside a located bundle directory
	srcFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source %q: %w", src, err)
	}
	defer func() { _ = srcFile.Close() }()

	// #nosec G302 G304 - preserving source permissions, dst is under a resolved destination
	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode.Perm())
	if err != nil {
		return fmt.Errorf("failed to create destination %q: %w", dst, err)
	}

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		_ = dstFile.Close()
		return fmt.Errorf("failed to copy content to %q: %w", dst, err)
	}
	if err := dstFile.Close(); err != nil {
		return fmt.Errorf("failed to close %q: %w", dst, err)
	}

	c.files++
	c.report(dst)
	return nil
}

func (c *copier) copySymlink(src, dst string) error {
	target, err := os.Readlink(src)
	if err != nil {
		return fmt.Errorf("failed to read symlink %q: %w", src, err)
	}
	if err := removeExisting(dst); err != nil {
		return err
	}
	if err := os.Symlink(target, dst); err != nil {
		return fmt.Errorf("failed to create symlink %q: %w", dst, err)
	}

	c.files++
	c.report(dst)
	return nil
}

// copyDir recursively copies the directory src into dst, creating dst
// and any missing parents.
func (c *copier) copyDir(src, dst string) error {
	if err := c.ctx.Err(); err != nil {
		return err
	}

	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("failed to stat source %q: %w", src, err)
	}
	if !srcInfo.IsDir() {
		return fmt.Errorf("source %q is not a directory", src)
	}

	if err := os.MkdirAll(dst, srcInfo.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to create destination directory %q: %w", dst, err)
	}
	c.dirs++

	entries, err := os.ReadDir(src)
	if err != nil {
		return fmt.Errorf("failed to read source directory %q: %w", src, err)
	}

	for _, entry := range entries {
		if err := c.ctx.Err(); err != nil {
			return err
		}

		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		info, err := os.Lstat(srcPath)
		if err != nil {
			return fmt.Errorf("failed to lstat %q: %w", srcPath, err)
		}

		switch {
		case info.IsDir():
			err = c.copyDir(srcPath, dstPath)
		case info.Mode()&os.ModeSymlink != 0:
			err = c.copySymlink(srcPath, dstPath)
		case info.Mode().IsRegular():
			err = c.copyFile(srcPath, dstPath, info.Mode())
		default:
			logging.Debug("skipping special file", logging.Path(srcPath))
		}
		if err != nil {
			return err
		}
	}

	logging.Debug("copied directory", logging.Path(src))
	return nil
}

func (c *copier) report(dst string) {
	if c.progress == nil {
		return
	}
	rel, err := filepath.Rel(c.root, dst)
	if err != nil {
		rel = dst
	}
	c.progress(rel)
}

// CountFiles returns the number of files and symlinks under dir, the number
// of progress callbacks an install of dir reports.
func CountFiles(dir string) (int, error) {
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve %q: %w", dir, err)
	}

	n := 0
	err = filepath.WalkDir(resolved, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() || d.Type()&fs.ModeSymlink != 0 {
			n++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count files in %q: %w", dir, err)
	}
	return n, nil
}
