package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/cytsaiap-xyz/skills-manager/internal/catalog"
	"github.com/cytsaiap-xyz/skills-manager/internal/server"
	"github.com/cytsaiap-xyz/skills-manager/internal/ui"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the skills API (and optionally a web UI) over HTTP",
		Description: `Start a local HTTP server exposing:

     GET  /api/skills          catalog and categories
     GET  /api/skills/{name}   one skill with SKILL.md and files
     GET  /api/installed       installed skills (?type=&projectPath=)
     GET  /api/config          paths and destinations
     POST /api/download        install {skillId, destination, projectPath}

   Use --verbose to log each request.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Interface to listen on (default from config)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Port to listen on (default from config or PORT)",
			},
			&cli.StringFlag{
				Name:  "static-dir",
				Usage: "Directory with a built web UI to serve at /",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if v := cmd.String("host"); v != "" {
				cfg.Server.Host = v
			}
			if cmd.IsSet("port") {
				cfg.Server.Port = cmd.Int("port")
			}
			if v := cmd.String("static-dir"); v != "" {
				cfg.Server.StaticDir = v
			}

			if err := catalog.EnsureRoot(cfg.RepoPath()); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Printf("%s http://%s\n", ui.Bold("Skills Manager API listening on"), cfg.Addr())
			fmt.Printf("  repository: %s\n", cfg.RepoPath())
			fmt.Printf("  global:     %s\n", cfg.GlobalPath())

			return server.New(cfg).ListenAndServe(ctx)
		},
	}
}
