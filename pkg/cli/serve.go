package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/ecsync/pkg/cli/config"
	controller "github.com/m-mizutani/ecsync/pkg/controller/http"
	"github.com/m-mizutani/ecsync/pkg/domain/types"
	"github.com/m-mizutani/ecsync/pkg/infra/metrics"
	"github.com/m-mizutani/ecsync/pkg/infra/web"
	"github.com/m-mizutani/ecsync/pkg/usecase"
)

func cmdServe(sentryCfg *config.Sentry) *cli.Command {
	var (
		serverCfg config.Server
		githubCfg config.GitHub
		sourceCfg config.Source
		outputCfg config.Output
	)

	flags := append(serverCfg.Flags(), githubCfg.Flags()...)
	flags = append(flags, sourceCfg.Flags()...)
	flags = append(flags, outputCfg.Flags()...)

	return &cli.Command{
		Name:  "serve",
		Usage: "Start HTTP server that syncs content when a release is published",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			if err := sourceCfg.LoadFile(c); err != nil {
				return err
			}
			if err := serverCfg.Validate(); err != nil {
				return err
			}

			githubClient, err := githubCfg.NewClient()
			if err != nil {
				return goerr.Wrap(err, "failed to create GitHub client")
			}

			recorder := metrics.NewPrometheusRecorder(nil)
			syncUC := usecase.NewSync(
				githubClient,
				web.NewClient(web.WithUserAgent("ecsync/"+types.Version)),
				outputCfg.Workspace(),
				append(sourceCfg.SyncOptions(), usecase.WithMetrics(recorder))...,
			)
			webhookUC := usecase.NewWebhook(syncUC, sourceCfg.Owner, sourceCfg.Repo,
				usecase.WithErrorReporter(sentryCfg.Report),
			)

			server, err := controller.NewServer(
				ctx,
				webhookUC,
				controller.WithAddr(serverCfg.Addr),
				controller.WithWebhookSecret(serverCfg.WebhookSecret),
				controller.WithMetricsHandler(recorder.Handler()),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			logger.Info("Starting ecsync server",
				slog.String("addr", serverCfg.Addr),
				slog.String("repository", sourceCfg.Owner+"/"+sourceCfg.Repo),
				slog.String("output", outputCfg.Dir),
			)

			errCh := make(chan error, 1)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- err
				}
			}()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			case err := <-errCh:
				return goerr.Wrap(err, "HTTP server error")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Waiting for running syncs to finish")
			webhookUC.Wait()

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
