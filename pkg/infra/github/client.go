package github

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/ecsync/pkg/domain/interfaces"
	"github.com/m-mizutani/ecsync/pkg/domain/model"
)

type client struct {
	githubClient *github.Client
}

type options struct {
	baseURL   string
	transport http.RoundTripper
}

// Option configures the GitHub client
type Option func(*options)

// WithBaseURL points the client at another API endpoint, e.g. GitHub Enterprise
func WithBaseURL(baseURL string) Option {
	return func(o *options) {
		o.baseURL = baseURL
	}
}

// WithTransport replaces the underlying HTTP transport
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) {
		o.transport = rt
	}
}

func buildOptions(opts []Option) *options {
	o := &options{transport: http.DefaultTransport}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// NewClient creates a new GitHub client authenticated with a personal access token
func NewClient(token string, opts ...Option) (interfaces.GitHubClient, error) {
	if token == "" {
		return nil, goerr.New("GitHub token is required")
	}

	o := buildOptions(opts)
	githubClient := github.NewClient(&http.Client{Transport: o.transport}).WithAuthToken(token)
	if err := setBaseURL(githubClient, o.baseURL); err != nil {
		return nil, err
	}

	return &client{githubClient: githubClient}, nil
}

// NewAppClient creates a new GitHub client with App installation authentication
func NewAppClient(appID, installationID int64, privateKey []byte, opts ...Option) (interfaces.GitHubClient, error) {
	o := buildOptions(opts)

	itr, err := ghinstallation.New(o.transport, appID, installationID, privateKey)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GitHub App transport",
			goerr.V("app_id", appID),
			goerr.V("installation_id", installationID),
		)
	}
	if o.baseURL != "" {
		itr.BaseURL = strings.TrimSuffix(o.baseURL, "/")
	}

	githubClient := github.NewClient(&http.Client{Transport: itr})
	if err := setBaseURL(githubClient, o.baseURL); err != nil {
		return nil, err
	}

	return &client{githubClient: githubClient}, nil
}

func setBaseURL(c *github.Client, baseURL string) error {
	if baseURL == "" {
		return nil
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return goerr.Wrap(err, "invalid GitHub API URL", goerr.V("url", baseURL))
	}
	c.BaseURL = u
	return nil
}

// LatestRelease returns the most recent published release
func (c *client) LatestRelease(ctx context.Context, owner, repo string) (*model.Release, error) {
	release, resp, err := c.githubClient.Repositories.GetLatestRelease(ctx, owner, repo)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get latest release",
			goerr.V("owner", owner),
			goerr.V("repo", repo),
			goerr.V("status", statusCode(resp)),
			goerr.T(model.ErrTagFetch),
		)
	}

	return toRelease(release), nil
}

// ReleaseByTag returns the release tagged with tag
func (c *client) ReleaseByTag(ctx context.Context, owner, repo, tag string) (*model.Release, error) {
	release, resp, err := c.githubClient.Repositories.GetReleaseByTag(ctx, owner, repo, tag)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get release by tag",
			goerr.V("owner", owner),
			goerr.V("repo", repo),
			goerr.V("tag", tag),
			goerr.V("status", statusCode(resp)),
			goerr.T(model.ErrTagFetch),
		)
	}

	return toRelease(release), nil
}

// DownloadZipball downloads the source code zipball for a specific ref
func (c *client) DownloadZipball(ctx context.Context, owner, repo, ref string) ([]byte, error) {
	// Follow up to 3 redirects
	archiveURL, resp, err := c.githubClient.Repositories.GetArchiveLink(ctx, owner, repo, github.Zipball, &github.RepositoryContentGetOptions{
		Ref: ref,
	}, 3)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get zipball download URL",
			goerr.V("owner", owner),
			goerr.V("repo", repo),
			goerr.V("ref", ref),
			goerr.V("status", statusCode(resp)),
			goerr.T(model.ErrTagFetch),
		)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, archiveURL.String(), nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create download request",
			goerr.V("url", archiveURL.String()),
			goerr.T(model.ErrTagFetch),
		)
	}

	// Use the same client transport for authentication
	httpClient := &http.Client{Transport: c.githubClient.Client().Transport}
	dlResp, err := httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to download zipball",
			goerr.V("url", archiveURL.String()),
			goerr.T(model.ErrTagFetch),
		)
	}
	defer dlResp.Body.Close()

	if dlResp.StatusCode != http.StatusOK {
		return nil, goerr.New("unexpected status code for zipball",
			goerr.V("url", archiveURL.String()),
			goerr.V("status", dlResp.StatusCode),
			goerr.T(model.ErrTagFetch),
		)
	}

	data, err := io.ReadAll(dlResp.Body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read zipball body",
			goerr.V("url", archiveURL.String()),
			goerr.T(model.ErrTagFetch),
		)
	}

	return data, nil
}

func toRelease(r *github.RepositoryRelease) *model.Release {
	release := &model.Release{
		TagName: r.GetTagName(),
		Name:    r.GetName(),
	}
	for _, asset := range r.Assets {
		release.Assets = append(release.Assets, model.Asset{
			Name:        asset.GetName(),
			DownloadURL: asset.GetBrowserDownloadURL(),
		})
	}
	return release
}

func statusCode(resp *github.Response) int {
	if resp == nil || resp.Response == nil {
		return 0
	}
	return resp.StatusCode
}
