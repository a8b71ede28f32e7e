package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/cytsaiap-xyz/skills-manager/internal/catalog"
	"github.com/cytsaiap-xyz/skills-manager/internal/config"
	"github.com/cytsaiap-xyz/skills-manager/internal/export"
	"github.com/cytsaiap-xyz/skills-manager/internal/install"
	"github.com/cytsaiap-xyz/skills-manager/internal/logging"
	"github.com/cytsaiap-xyz/skills-manager/internal/model"
	"github.com/cytsaiap-xyz/skills-manager/internal/ui"
	"github.com/cytsaiap-xyz/skills-manager/internal/util"
)

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format: table, json, yaml, markdown (default from config)",
	}
}

func projectFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "project",
		Aliases: []string{"p"},
		Usage:   "Project directory; its .opencode/skill directory is the project destination",
	}
}

// loadConfig loads the file named by --config, or the default config file,
// then applies the path flags and the configured color mode.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path := cmd.String("config"); path != "" {
		cfg, err = config.LoadFromPath(util.ExpandPath(path))
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if v := cmd.String("repo"); v != "" {
		cfg.Paths.SkillsRepo = v
	}
	if v := cmd.String("global"); v != "" {
		cfg.Paths.GlobalSkills = v
	}

	result := cfg.Validate()
	if result.HasErrors() {
		return nil, fmt.Errorf("invalid configuration: %w", result.Error())
	}
	for _, w := range result.Warnings {
		logging.Warn(w)
	}

	if !cmd.Bool("no-color") {
		if err := ui.SetColorMode(cfg.Output.Color); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// projectPath returns the absolute --project directory, or "" when unset.
func projectPath(cmd *cli.Command) (string, error) {
	p := strings.TrimSpace(cmd.String("project"))
	if p == "" {
		return "", nil
	}
	abs, err := filepath.Abs(util.ExpandPath(p))
	if err != nil {
		return "", fmt.Errorf("invalid project path %q: %w", p, err)
	}
	return abs, nil
}

// newExporter builds an exporter for --format, falling back to the
// configured format.
func newExporter(cmd *cli.Command, cfg *config.Config, status install.StatusMap) (*export.Exporter, error) {
	name := cmd.String("format")
	if name == "" {
		name = cfg.Output.Format
	}
	format, err := export.ParseFormat(name)
	if err != nil {
		return nil, err
	}

	return export.New(export.Options{
		Format: format,
		Pretty: true,
		Status: status,
		Width:  max(ui.TerminalWidth(os.Stdout, 120)-60, 20),
	}), nil
}

// loadCatalog scans the repository and resolves which skills are installed.
func loadCatalog(ctx context.Context, cfg *config.Config, project string) (model.Catalog, install.StatusMap, error) {
	cat, err := catalog.Scan(cfg.RepoPath())
	if err != nil {
		return model.Catalog{}, nil, err
	}

	installed, err := install.NewResolver(cfg.GlobalPath()).List(ctx, install.Query{
		Type:        install.ListAll,
		ProjectPath: project,
	})
	if err != nil {
		return model.Catalog{}, nil, err
	}

	return cat, install.Status(cat.Skills, installed), nil
}
