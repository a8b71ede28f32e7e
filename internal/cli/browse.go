package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/cytsaiap-xyz/skills-manager/internal/catalog"
	"github.com/cytsaiap-xyz/skills-manager/internal/install"
	"github.com/cytsaiap-xyz/skills-manager/internal/model"
	"github.com/cytsaiap-xyz/skills-manager/internal/ui"
	"github.com/cytsaiap-xyz/skills-manager/internal/ui/tui"
)

func browseCommand() *cli.Command {
	return &cli.Command{
		Name:  "browse",
		Usage: "Browse and install skills interactively",
		Description: `Open an interactive table of the skills repository.

   Press tab to cycle categories, / to filter, enter for details, i to install
   globally, and p to install into the --project directory.`,
		Flags: []cli.Flag{
			projectFlag(),
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
			if len(cat.Skills) == 0 {
				fmt.Printf("No skills found in %s\n", cfg.RepoPath())
				return nil
			}

			repo := cfg.RepoPath()
			installer := install.NewInstaller(repo, cfg.GlobalPath())
			result, err := tui.RunBrowse(cat, tui.BrowseOptions{
				Status:      status,
				ProjectPath: project,
				Install: func(id string, dest model.Destination) (string, error) {
					res, err := installer.Install(ctx, install.Request{
						SkillID:     id,
						Destination: dest,
						ProjectPath: project,
					})
					return res.Path, err
				},
				Content: func(id string) (string, error) {
					dir, err := catalog.Locate(repo, id)
					if err != nil {
						return "", err
					}
					_, content, err := catalog.ReadDescriptor(id, dir)
					return content, err
				},
			})
			if err != nil {
				return fmt.Errorf("browse failed: %w", err)
			}

			if result.Installed > 0 {
				fmt.Println(ui.StatusSuccess(fmt.Sprintf("Installed %d skill(s)", result.Installed)))
			}
			return nil
		},
	}
}
