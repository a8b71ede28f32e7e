// Package cli provides the command-line interface for skills-manager.
package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/cytsaiap-xyz/skills-manager/internal/config"
	"github.com/cytsaiap-xyz/skills-manager/internal/logging"
	"github.com/cytsaiap-xyz/skills-manager/internal/ui"
)

var (
	// Version is the current version of the application.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// BuildDate is the date and time of the build.
	BuildDate = "unknown"
)

// Run executes the CLI application with the given context and arguments.
func Run(ctx context.Context, args []string) error {
	app := &cli.Command{
		Name:    "skills-manager",
		Usage:   "Browse a local skills repository and install skills globally or into projects",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML or TOML config file",
			},
			&cli.StringFlag{
				Name:  "repo",
				Usage: "Skills repository directory (overrides config and SKILLS_REPO_PATH)",
			},
			&cli.StringFlag{
				Name:  "global",
				Usage: "Global skills directory (overrides config and GLOBAL_SKILLS_PATH)",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable verbose output (info level logging)",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug output (debug level logging, implies verbose)",
			},
			&cli.BoolFlag{
				Name:  "log-json",
				Usage: "Write logs as JSON",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colored output",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if err := loadDotEnv(); err != nil {
				return ctx, err
			}
			configureColors(cmd)
			return ctx, configureLogging(cmd)
		},
		Commands: []*cli.Command{
			versionCommand(),
			configCommand(),
			listCommand(),
			categoriesCommand(),
			showCommand(),
			installedCommand(),
			installCommand(),
			browseCommand(),
			serveCommand(),
		},
	}
	return app.Run(ctx, args)
}

// loadDotEnv reads a .env file from the working directory, if present.
func loadDotEnv() error {
	wd, err := os.Getwd()
	if err != nil {
		return nil
	}
	return config.LoadDotEnv(wd)
}

// configureColors sets up color output based on CLI flags.
func configureColors(cmd *cli.Command) {
	if cmd.Bool("no-color") {
		ui.DisableColors()
	}
}

// configureLogging sets up the logging level based on CLI flags.
func configureLogging(cmd *cli.Command) error {
	opts := logging.CLIOptions(cmd.Bool("verbose"), cmd.Bool("debug"), cmd.Bool("log-json"))
	logging.SetDefault(logging.New(opts))

	logging.Debug("logging configured", slog.String("level", opts.Level.String()))

	return nil
}
