package interfaces

import (
	"context"

	"github.com/m-mizutani/ecsync/pkg/domain/model"
)

// GitHubClient defines operations for interacting with GitHub API
type GitHubClient interface {
	// LatestRelease returns the most recent published release of the repository
	LatestRelease(ctx context.Context, owner, repo string) (*model.Release, error)

	// ReleaseByTag returns the release tagged with tag
	ReleaseByTag(ctx context.Context, owner, repo, tag string) (*model.Release, error)

	// DownloadZipball downloads the source code zipball for a specific ref
	DownloadZipball(ctx context.Context, owner, repo, ref string) ([]byte, error)
}

// HTTPClient fetches plain resources that are not served by the GitHub API
type HTTPClient interface {
	Get(ctx context.Context, url string) ([]byte, error)
}
