package cli

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	"github.com/m-mizutani/ctxlog"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/ecsync/pkg/cli/config"
	"github.com/m-mizutani/ecsync/pkg/domain/types"
)

// Run runs the CLI application
func Run(ctx context.Context, args []string) error {
	var (
		loggerCfg config.Logger
		sentryCfg config.Sentry
		logger    *slog.Logger
	)

	// Existing environment variables take precedence over .env
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	app := &cli.Command{
		Name:           "ecsync",
		Usage:          "Sync Electron release docs, API data and website content into a local content tree",
		Version:        types.Version,
		Flags:          append(loggerCfg.Flags(), sentryCfg.Flags()...),
		DefaultCommand: "sync",
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			var err error
			logger, err = loggerCfg.Configure()
			if err != nil {
				return nil, err
			}

			if err := sentryCfg.Configure(); err != nil {
				return nil, err
			}

			slog.SetDefault(logger)
			return ctxlog.With(ctx, logger), nil
		},
		Commands: []*cli.Command{
			cmdSync(),
			cmdServe(&sentryCfg),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Error("CLI execution failed", slog.Any("error", err))

		if sentryCfg.Enabled() {
			sentry.CaptureException(err)
			sentry.Flush(2 * time.Second)
		}

		_, _ = color.New(color.FgRed).Fprintf(os.Stderr, "Error: %s\n", err.Error())
		return err
	}

	return nil
}
