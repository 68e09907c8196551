package usecase

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/ecsync/pkg/domain/model"
	"github.com/m-mizutani/ecsync/pkg/domain/types"
)

// FetchWebsiteContent downloads the website locale file. The location does not depend on the release.
func (uc *Sync) FetchWebsiteContent(ctx context.Context) (model.WebsiteContent, error) {
	logger := ctxlog.From(ctx)
	logger.Info("Fetching website content", "url", uc.websiteURL)

	body, err := uc.httpClient.Get(ctx, uc.websiteURL)
	if err != nil {
		logger.Error("Unable to fetch website content", "error", err, "url", uc.websiteURL)
		return nil, goerr.Wrap(err, "failed to download website content")
	}
	return model.WebsiteContent(body), nil
}

// WriteWebsiteContent writes content verbatim
func (uc *Sync) WriteWebsiteContent(ctx context.Context, content model.WebsiteContent) error {
	logger := ctxlog.From(ctx)
	logger.Info("Writing website content", "path", types.WebsiteContentPath, "size_bytes", len(content))

	if err := uc.workspace.WriteFile(types.WebsiteContentPath, content); err != nil {
		logger.Error("Unable to write website content", "error", err)
		return err
	}
	return nil
}
