package cli

import (
	"context"
	"io"

	"github.com/fatih/color"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/ecsync/pkg/cli/config"
	"github.com/m-mizutani/ecsync/pkg/domain/model"
	"github.com/m-mizutani/ecsync/pkg/domain/types"
	"github.com/m-mizutani/ecsync/pkg/infra/web"
	"github.com/m-mizutani/ecsync/pkg/usecase"
)

func cmdSync() *cli.Command {
	var (
		githubCfg config.GitHub
		sourceCfg config.Source
		outputCfg config.Output
	)

	flags := append(githubCfg.Flags(), sourceCfg.Flags()...)
	flags = append(flags, outputCfg.Flags()...)

	return &cli.Command{
		Name:    "sync",
		Aliases: []string{"s"},
		Usage:   "Fetch release content and write it to the output directory",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			if err := sourceCfg.LoadFile(c); err != nil {
				return err
			}

			// Credentials are checked before anything is fetched or removed
			githubClient, err := githubCfg.NewClient()
			if err != nil {
				return goerr.Wrap(err, "failed to create GitHub client")
			}

			logger.Debug("Configuration loaded",
				"github", githubCfg,
				"source", sourceCfg,
				"output", outputCfg.Dir,
			)

			syncUC := usecase.NewSync(
				githubClient,
				web.NewClient(web.WithUserAgent("ecsync/"+types.Version)),
				outputCfg.Workspace(),
				sourceCfg.SyncOptions()...,
			)

			result, err := syncUC.Run(ctx, sourceCfg.Tag)
			if err != nil {
				return goerr.Wrap(err, "content sync failed")
			}

			printSummary(c.Root().Writer, result)
			return nil
		},
	}
}

func printSummary(w io.Writer, result *model.RunResult) {
	green := color.New(color.FgGreen, color.Bold)
	_, _ = green.Fprintf(w, "Synced %s", result.TagName)
	_, _ = color.New(color.Faint).Fprintf(w, " (%d docs, %d API descriptions) -> %s\n",
		result.Documents, result.Descriptions, result.OutputDir)
}
