// Package logging configures the process-wide slog logger and names the
// attributes skills-manager logs with.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
	"time"
)

// Options configures New.
type Options struct {
	// Level is the minimum level written. The zero value is info.
	Level slog.Level
	// Output defaults to os.Stderr.
	Output io.Writer
	JSON   bool
	// AddSource includes file:line of the call site.
	AddSource bool
}

// CLIOptions maps the verbosity flags of the command line to Options.
// Without either flag only warnings and errors are written.
func CLIOptions(verbose, debug, json bool) Options {
	opts := Options{Level: slog.LevelWarn, Output: os.Stderr, JSON: json}
	switch {
	case debug:
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	case verbose:
		opts.Level = slog.LevelInfo
	}
	return opts
}

// New builds a text or JSON logger from opts.
func New(opts Options) *slog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	handlerOpts := &slog.HandlerOptions{Level: opts.Level, AddSource: opts.AddSource}
	if opts.JSON {
		return slog.New(slog.NewJSONHandler(out, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(out, handlerOpts))
}

var current atomic.Pointer[slog.Logger]

// Default returns the logger installed by SetDefault, falling back to
// slog.Default.
func Default() *slog.Logger {
	if l := current.Load(); l != nil {
		return l
	}
	return slog.Default()
}

// SetDefault installs logger for this package and for slog.
func SetDefault(logger *slog.Logger) {
	current.Store(logger)
	slog.SetDefault(logger)
}

// Debug logs with the default logger.
func Debug(msg string, args ...any) { Default().Debug(msg, args...) }

// Info logs with the default logger.
func Info(msg string, args ...any) { Default().Info(msg, args...) }

// Warn logs with the default logger.
func Warn(msg string, args ...any) { Default().Warn(msg, args...) }

// Error logs with the default logger.
func Error(msg string, args ...any) { Default().Error(msg, args...) }

type ctxKey struct{}

// NewContext returns a copy of ctx carrying logger.
func NewContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext returns the logger carried by ctx, or Default.
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return Default()
}

// Attribute keys.
const (
	KeySkill       = "skill"
	KeyPath        = "path"
	KeyOperation   = "operation"
	KeyDestination = "destination"
	KeyCount       = "count"
	KeyError       = "error"
	KeyDuration    = "duration"
	KeyRequestID   = "request_id"
	KeyMethod      = "method"
	KeyStatus      = "status"
)

// Skill identifies a skill bundle by id.
func Skill(id string) slog.Attr { return slog.String(KeySkill, id) }

// Path is a file or directory path.
func Path(p string) slog.Attr { return slog.String(KeyPath, p) }

func Operation(op string) slog.Attr { return slog.String(KeyOperation, op) }

// Destination is an install destination kind.
func Destination(d string) slog.Attr { return slog.String(KeyDestination, d) }

// Err attaches err, or nothing when err is nil.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any(KeyError, err)
}

func Count(n int) slog.Attr { return slog.Int(KeyCount, n) }

func Duration(d time.Duration) slog.Attr { return slog.Duration(KeyDuration, d) }

// RequestID correlates the lines of one HTTP request.
func RequestID(id string) slog.Attr { return slog.String(KeyRequestID, id) }

func Method(m string) slog.Attr { return slog.String(KeyMethod, m) }

// Status is an HTTP status code.
func Status(code int) slog.Attr { return slog.Int(KeyStatus, code) }
