package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/cytsaiap-xyz/skills-manager/internal/catalog"
	"github.com/cytsaiap-xyz/skills-manager/internal/export"
	"github.com/cytsaiap-xyz/skills-manager/internal/install"
	"github.com/cytsaiap-xyz/skills-manager/internal/model"
	"github.com/cytsaiap-xyz/skills-manager/internal/parser"
	"github.com/cytsaiap-xyz/skills-manager/internal/search"
	"github.com/cytsaiap-xyz/skills-manager/internal/ui"
)

func listCommand() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Aliases:   []string{"ls"},
		Usage:     "List skills in the repository",
		UsageText: "skills-manager list [options] [query]",
		Description: `List every skill bundle in the skills repository with its install state.

   A positional query is matched case-insensitively against the name,
   description, category, id, and tags.

   Examples:
     skills-manager list
     skills-manager list --category Testing
     skills-manager list --match 'git-*' -f json
     skills-manager list --tag testing
     skills-manager list review --project .`,
		Flags: []cli.Flag{
			formatFlag(),
			projectFlag(),
			&cli.StringFlag{
				Name:  "category",
				Usage: "Only show skills in this category",
			},
			&cli.StringFlag{
				Name:    "match",
				Aliases: []string{"m"},
				Usage:   "Only show skills whose id matches this glob",
			},
			&cli.StringFlag{
				Name:  "tag",
				Usage: "Only show skills with this tag",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			project, err := projectPath(cmd)
			if err != nil {
				return err
			}

			cat, status, err := loadCatalog(ctx, cfg, project)
			if err != nil {
				return err
			}

			skills, err := search.Filter(cat.Skills, search.Options{
				Query:    strings.Join(cmd.Args().Slice(), " "),
				Category: cmd.String("category"),
				Match:    cmd.String("match"),
				Tag:      cmd.String("tag"),
			})
			if err != nil {
				return err
			}

			exp, err := newExporter(cmd, cfg, status)
			if err != nil {
				return err
			}
			return exp.Skills(os.Stdout, skills)
		},
	}
}

func categoriesCommand() *cli.Command {
	return &cli.Command{
		Name:  "categories",
		Usage: "List categories with the number of skills in each",
		Flags: []cli.Flag{
			formatFlag(),
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			cat, err := catalog.Scan(cfg.RepoPath())
			if err != nil {
				return err
			}

			exp, err := newExporter(cmd, cfg, nil)
			if err != nil {
				return err
			}
			return exp.Categories(os.Stdout, search.Counts(cat.Skills, cat.Categories))
		},
	}
}

func showCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show a skill's metadata, files, and SKILL.md",
		UsageText: "skills-manager show [options] <skill-id>",
		Flags: []cli.Flag{
			formatFlag(),
			&cli.BoolFlag{
				Name:  "raw",
				Usage: "Print SKILL.md without rendering it",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return errors.New("show requires exactly 1 argument: <skill-id>")
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			detail, err := catalog.Detail(cfg.RepoPath(), cmd.Args().First())
			if err != nil {
				return err
			}

			exp, err := newExporter(cmd, cfg, nil)
			if err != nil {
				return err
			}

			if cmd.Bool("raw") || cmd.String("format") != "" {
				return exp.Detail(os.Stdout, detail)
			}
			printDetail(detail)
			return nil
		},
	}
}

// printDetail writes a human-readable view of a skill to stdout.
func printDetail(d model.SkillDetail) {
	fmt.Printf("%s %s\n", ui.Header(d.Name), ui.Dim("("+d.ID+")"))
	fmt.Printf("  %s %s\n", ui.Bold("Category:"), search.CategoryIcon(d.Category)+" "+d.Category)
	if len(d.Tags) > 0 {
		fmt.Printf("  %s %s\n", ui.Bold("Tags:"), strings.Join(d.Tags, ", "))
	}
	fmt.Printf("  %s %s\n", ui.Bold("Path:"), d.Path)
	fmt.Printf("  %s %s\n", ui.Bold("Description:"), d.Description)

	fmt.Printf("\n%s\n", ui.Header("Files"))
	for _, f := range d.Files {
		if f.IsDirectory {
			fmt.Printf("  %s/\n", f.Name)
			continue
		}
		fmt.Printf("  %s\n", f.Name)
	}

	if d.Content == "" {
		fmt.Printf("\n%s\n", ui.StatusWarning("No "+model.DescriptorFile+" in this skill"))
		return
	}
	fmt.Printf("\n%s\n", ui.RenderMarkdown(parser.Body(d.Content), ui.TerminalWidth(os.Stdout, 80)))
}

func installedCommand() *cli.Command {
	return &cli.Command{
		Name:  "installed",
		Usage: "List skills installed globally and in a project",
		Flags: []cli.Flag{
			formatFlag(),
			projectFlag(),
			&cli.StringFlag{
				Name:    "type",
				Aliases: []string{"t"},
				Value:   string(install.ListAll),
				Usage:   "Which destinations to list: all, global, project",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			project, err := projectPath(cmd)
			if err != nil {
				return err
			}
			listType, err := install.ParseListType(cmd.String("type"))
			if err != nil {
				return err
			}

			state, err := install.NewResolver(cfg.GlobalPath()).List(ctx, install.Query{
				Type:        listType,
				ProjectPath: project,
			})
			if err != nil {
				return err
			}

			exp, err := newExporter(cmd, cfg, nil)
			if err != nil {
				return err
			}
			if err := exp.Installed(os.Stdout, state); err != nil {
				return err
			}

			if project == "" && listType != install.ListGlobal && formatIsText(cmd, cfg.Output.Format) {
				fmt.Println(ui.Dim("Pass --project to include a project's skills."))
			}
			return nil
		},
	}
}

// formatIsText reports whether the selected format is meant for people.
func formatIsText(cmd *cli.Command, fallback string) bool {
	name := cmd.String("format")
	if name == "" {
		name = fallback
	}
	f, err := export.ParseFormat(name)
	return err == nil && (f == export.FormatTable || f == export.FormatMarkdown)
}
