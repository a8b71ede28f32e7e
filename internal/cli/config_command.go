package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/cytsaiap-xyz/skills-manager/internal/config"
	"github.com/cytsaiap-xyz/skills-manager/internal/ui"
)

func configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Show or initialize configuration",
		Flags: []cli.Flag{
			formatFlag(),
		},
		Action: runConfigShow,
		Commands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Display the effective configuration",
				Flags:  []cli.Flag{formatFlag()},
				Action: runConfigShow,
			},
			{
				Name:  "init",
				Usage: "Write a config file with the default settings",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing config file",
					},
				},
				Action: func(_ context.Context, cmd *cli.Command) error {
					path := config.FilePath()
					if config.Exists() && !cmd.Bool("force") {
						return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
					}
					if err := config.Default().SaveToPath(path); err != nil {
						return fmt.Errorf("failed to write config: %w", err)
					}
					fmt.Println(ui.StatusSuccess("Created config file at " + path))
					return nil
				},
			},
			{
				Name:  "path",
				Usage: "Print the config file location",
				Action: func(_ context.Context, _ *cli.Command) error {
					fmt.Println(config.FilePath())
					return nil
				},
			},
		},
	}
}

func runConfigShow(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	switch cmd.String("format") {
	case "json", "yaml":
		exp, err := newExporter(cmd, cfg, nil)
		if err != nil {
			return err
		}
		return exp.Value(os.Stdout, cfg)
	case "", "table":
	default:
		return fmt.Errorf("unsupported format %q for config (valid: table, json, yaml)", cmd.String("format"))
	}

	source := config.FilePath()
	if path := cmd.String("config"); path != "" {
		source = path
	} else if !config.Exists() {
		source += " (not found, using defaults)"
	}

	fmt.Println(ui.Header("Configuration"))
	fmt.Printf("  %-18s %s\n", "file:", source)
	fmt.Printf("  %-18s %s\n", "skills repository:", cfg.RepoPath())
	fmt.Printf("  %-18s %s\n", "server:", cfg.Addr())
	if cfg.Server.StaticDir != "" {
		fmt.Printf("  %-18s %s\n", "static dir:", cfg.Server.StaticDir)
	}
	fmt.Printf("  %-18s %s\n", "output format:", cfg.Output.Format)

	fmt.Println()
	fmt.Println(ui.Header("Destinations"))
	for _, d := range cfg.Destinations() {
		fmt.Printf("  %-8s %-18s %s\n", d.ID, d.Name, d.Path)
	}
	return nil
}
