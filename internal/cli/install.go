package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/cytsaiap-xyz/skills-manager/internal/config"
	"github.com/cytsaiap-xyz/skills-manager/internal/install"
	"github.com/cytsaiap-xyz/skills-manager/internal/logging"
	"github.com/cytsaiap-xyz/skills-manager/internal/model"
	"github.com/cytsaiap-xyz/skills-manager/internal/progress"
	"github.com/cytsaiap-xyz/skills-manager/internal/ui"
	"github.com/cytsaiap-xyz/skills-manager/internal/validation"
)

func installCommand() *cli.Command {
	return &cli.Command{
		Name:      "install",
		Usage:     "Copy skills from the repository to a destination",
		UsageText: "skills-manager install [options] <skill-id>...",
		Description: `Copy one or more skill bundles to the global skills directory or to a
   project's .opencode/skill directory. Files already at the destination are
   overwritten; extra files there are kept.

   Examples:
     skills-manager install git-helper
     skills-manager install --to project --project . git-helper test-runner`,
		Flags: []cli.Flag{
			projectFlag(),
			&cli.StringFlag{
				Name:    "to",
				Aliases: []string{"d", "destination"},
				Value:   string(model.DestinationGlobal),
				Usage:   "Destination: global or project",
			},
			&cli.BoolFlag{
				Name:  "no-progress",
				Usage: "Do not show a progress bar",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() == 0 {
				return errors.New("install requires at least 1 argument: <skill-id>")
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			dest, err := validation.Destination(cmd.String("to"))
			if err != nil {
				return err
			}
			project, err := projectPath(cmd)
			if err != nil {
				return err
			}
			if err := validation.ProjectPath(dest, project); err != nil {
				return fmt.Errorf("%w (pass --project)", err)
			}

			status, err := installedStatus(ctx, cfg, project)
			if err != nil {
				return err
			}

			showProgress := cfg.Output.Progress && !cmd.Bool("no-progress")
			var failed int
			seen := map[string]bool{}
			for _, id := range cmd.Args().Slice() {
				if seen[id] {
					fmt.Println(ui.StatusSkipped(id + " listed more than once"))
					continue
				}
				seen[id] = true
				if err := installOne(ctx, cfg, install.Request{
					SkillID:     id,
					Destination: dest,
					ProjectPath: project,
				}, status, showProgress); err != nil {
					fmt.Println(ui.StatusError(fmt.Sprintf("%s: %v", id, err)))
					failed++
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d install(s) failed", failed, cmd.Args().Len())
			}
			return nil
		},
	}
}

// installedStatus resolves the install state of every installed skill id.
func installedStatus(ctx context.Context, cfg *config.Config, project string) (install.StatusMap, error) {
	state, err := install.NewResolver(cfg.GlobalPath()).List(ctx, install.Query{
		Type:        install.ListAll,
		ProjectPath: project,
	})
	if err != nil {
		return nil, err
	}

	status := install.StatusMap{}
	for _, s := range state.Global {
		status.Set(s.ID, model.DestinationGlobal)
	}
	for _, s := range state.Project {
		status.Set(s.ID, model.DestinationProject)
	}
	return status, nil
}

func installOne(ctx context.Context, cfg *config.Config, req install.Request, status install.StatusMap, showProgress bool) error {
	installer := install.NewInstaller(cfg.RepoPath(), cfg.GlobalPath())

	src, err := installer.Source(req.SkillID)
	if err != nil {
		return err
	}

	if status.IsInstalled(req.SkillID, req.Destination) {
		fmt.Println(ui.StatusWarning(fmt.Sprintf("%s is already installed (%s); overwriting", req.SkillID, req.Destination)))
	}

	total, err := install.CountFiles(src)
	if err != nil {
		logging.Debug("could not count files", logging.Skill(req.SkillID), logging.Err(err))
	}
	bar := progress.New(progress.Options{
		SkillID:  req.SkillID,
		Total:    total,
		Disabled: !showProgress,
	})
	installer.Progress = bar.Step

	res, err := installer.Install(ctx, req)
	closeProgress(bar, req.SkillID, err != nil)
	if err != nil {
		return err
	}

	status.Set(res.SkillID, res.Destination)
	fmt.Println(ui.StatusSuccess(fmt.Sprintf("Skill %q copied successfully to %s (%d file(s))", res.SkillID, res.Path, res.Files)))
	return nil
}

// closeProgress finishes bar, or erases it when the install failed. Terminal
// write errors do not fail the install and are only logged.
func closeProgress(bar *progress.Bar, skillID string, failed bool) {
	if failed {
		if err := bar.Abort(); err != nil {
			logging.Debug("could not clear progress bar", logging.Skill(skillID), logging.Err(err))
		}
		return
	}
	if err := bar.Done(); err != nil {
		logging.Debug("could not finish progress bar", logging.Skill(skillID), logging.Err(err))
	}
}
