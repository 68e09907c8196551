package usecase

import (
	"context"

	"github.com/m-mizutani/ctxlog"

	"github.com/m-mizutani/ecsync/pkg/domain/model"
)

// ResolveRelease returns the release tagged with tag, or the latest published
// release when tag is empty. The lookup is attempted once.
func (uc *Sync) ResolveRelease(ctx context.Context, tag string) (*model.Release, error) {
	logger := ctxlog.From(ctx)

	var (
		release *model.Release
		err     error
	)
	if tag != "" {
		logger.Info("Fetching release by tag", "owner", uc.owner, "repo", uc.repo, "tag", tag)
		release, err = uc.githubClient.ReleaseByTag(ctx, uc.owner, uc.repo, tag)
	} else {
		logger.Info("Fetching the latest release", "owner", uc.owner, "repo", uc.repo)
		release, err = uc.githubClient.LatestRelease(ctx, uc.owner, uc.repo)
	}

	if err != nil {
		logger.Error("Unable to fetch release",
			"error", err,
			"owner", uc.owner,
			"repo", uc.repo,
			"tag", tag,
		)
		return nil, err
	}

	logger.Info("Resolved release",
		"tag_name", release.TagName,
		"release_name", release.Name,
		"asset_count", len(release.Assets),
	)
	return release, nil
}
