// Package progress draws a file-count bar while a skill bundle is copied.
package progress

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/cytsaiap-xyz/skills-manager/internal/logging"
	"github.com/cytsaiap-xyz/skills-manager/internal/ui"
)

// Options configures New.
type Options struct {
	SkillID string
	// Total is the number of files expected.
	Total int
	// Writer defaults to os.Stderr.
	Writer   io.Writer
	Disabled bool
	// Force draws the bar even when Writer is not a terminal.
	Force bool
}

// Bar counts copied files. When hidden it logs each file at debug level
// instead, so the bar never interleaves with log lines.
type Bar struct {
	bar    *progressbar.ProgressBar
	skill  string
	copied int
}

// New returns a Bar for one install. The bar is drawn only on a color
// terminal while debug logging is off, unless Force is set.
func New(opts Options) *Bar {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	b := &Bar{skill: opts.SkillID}
	if opts.Disabled || opts.Total <= 0 || !(opts.Force || drawable(w)) {
		return b
	}

	b.bar = progressbar.NewOptions(
		opts.Total,
		progressbar.OptionSetDescription("Installing "+opts.SkillID),
		progressbar.OptionSetWriter(w),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(20),
		progressbar.OptionThrottle(50*time.Millisecond),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionEnableColorCodes(ui.IsColorEnabled()),
		progressbar.OptionOnCompletion(func() {
			_, _ = fmt.Fprintln(w)
		}),
	)
	return b
}

// Visible reports whether the bar is drawn.
func (b *Bar) Visible() bool {
	return b.bar != nil
}

// Copied returns the number of files stepped so far.
func (b *Bar) Copied() int {
	return b.copied
}

// Step records one copied file. It has the shape of install.ProgressFunc.
func (b *Bar) Step(rel string) {
	b.copied++
	if b.bar == nil {
		logging.Debug("copied file", logging.Skill(b.skill), logging.Path(rel))
		return
	}
	_ = b.bar.Add(1)
}

// Done completes the bar.
func (b *Bar) Done() error {
	logging.Debug("copy finished", logging.Skill(b.skill), logging.Count(b.copied))
	if b.bar == nil {
		return nil
	}
	return b.bar.Finish()
}

// Abort erases the bar after a failed install.
func (b *Bar) Abort() error {
	if b.bar == nil {
		return nil
	}
	return b.bar.Clear()
}

func drawable(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || !ui.IsColorEnabled() || !ui.IsTerminal(f) {
		return false
	}
	return !logging.Default().Enabled(context.Background(), slog.LevelDebug)
}
