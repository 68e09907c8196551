package usecase

import (
	"context"
	"strings"
	"sync"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/ecsync/pkg/domain/interfaces"
	"github.com/m-mizutani/ecsync/pkg/domain/model"
	"github.com/m-mizutani/ecsync/pkg/utils/async"
)

type webhookUseCase struct {
	syncUC      interfaces.SyncUseCase
	fullName    string
	reportError func(ctx context.Context, err error)

	// running serializes pipeline runs, inflight tracks dispatched ones
	running  sync.Mutex
	inflight sync.WaitGroup
}

// WebhookOption configures the webhook use case
type WebhookOption func(*webhookUseCase)

// WithErrorReporter sets a function receiving every failed sync run, e.g. to
// forward it to an error tracker
func WithErrorReporter(report func(ctx context.Context, err error)) WebhookOption {
	return func(uc *webhookUseCase) {
		uc.reportError = report
	}
}

// NewWebhook creates a new instance of WebhookUseCase that syncs content
// when a release of owner/repo is published
func NewWebhook(syncUC interfaces.SyncUseCase, owner, repo string, opts ...WebhookOption) *webhookUseCase {
	uc := &webhookUseCase{
		syncUC:      syncUC,
		fullName:    owner + "/" + repo,
		reportError: func(context.Context, error) {},
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// ProcessEvent processes a webhook event. A published release of the
// configured repository dispatches a content sync for its tag; anything
// else is logged and ignored.
func (uc *webhookUseCase) ProcessEvent(ctx context.Context, event *model.WebhookEvent) error {
	logger := ctxlog.From(ctx)

	logger.Info("Processing webhook event",
		"id", event.ID,
		"type", event.Type,
		"action", event.Action,
		"repository", event.Repository,
		"sender", event.Sender,
		"supported", event.IsSupportedEvent(),
	)

	if !event.IsSupportedEvent() {
		logger.Warn("Unsupported event received",
			"type", event.Type,
			"action", event.Action,
		)
		return nil
	}

	if !strings.EqualFold(event.Repository, uc.fullName) {
		logger.Info("Ignoring release of another repository",
			"repository", event.Repository,
			"expected", uc.fullName,
		)
		return nil
	}

	if event.TagName == "" {
		logger.Warn("Release event without tag name", "id", event.ID)
		return nil
	}

	tag := event.TagName
	uc.inflight.Add(1)
	async.Dispatch(ctx, func(ctx context.Context) error {
		defer uc.inflight.Done()

		uc.running.Lock()
		defer uc.running.Unlock()

		result, err := uc.syncUC.Run(ctx, tag)
		if err != nil {
			err = goerr.Wrap(err, "webhook sync failed",
				goerr.V("delivery_id", event.ID),
				goerr.V("tag", tag),
			)
			uc.reportError(ctx, err)
			return err
		}

		ctxlog.From(ctx).Info("Synced release from webhook",
			"delivery_id", event.ID,
			"tag", result.TagName,
			"run_id", result.RunID,
		)
		return nil
	})

	return nil
}

// Wait blocks until every dispatched sync has finished
func (uc *webhookUseCase) Wait() {
	uc.inflight.Wait()
}
