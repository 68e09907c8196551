package config

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/ecsync/pkg/domain/interfaces"
	githubinfra "github.com/m-mizutani/ecsync/pkg/infra/github"
)

// GitHub holds GitHub API credentials. Either a token or a complete set of
// GitHub App credentials is required.
type GitHub struct {
	Token          string `masq:"secret"`
	AppID          int64
	InstallationID int64
	PrivateKey     string `masq:"secret"`
	APIURL         string
}

// Flags returns CLI flags for GitHub configuration
func (c *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "GitHub access token",
			Destination: &c.Token,
			Sources:     cli.EnvVars("ECSYNC_GITHUB_TOKEN", "GITHUB_TOKEN"),
		},
		&cli.Int64Flag{
			Name:        "github-app-id",
			Usage:       "GitHub App ID, used instead of a token",
			Destination: &c.AppID,
			Sources:     cli.EnvVars("ECSYNC_GITHUB_APP_ID"),
		},
		&cli.Int64Flag{
			Name:        "github-installation-id",
			Usage:       "GitHub App installation ID",
			Destination: &c.InstallationID,
			Sources:     cli.EnvVars("ECSYNC_GITHUB_INSTALLATION_ID"),
		},
		&cli.StringFlag{
			Name:        "github-private-key",
			Usage:       "GitHub App private key (PEM content)",
			Destination: &c.PrivateKey,
			Sources:     cli.EnvVars("ECSYNC_GITHUB_PRIVATE_KEY"),
		},
		&cli.StringFlag{
			Name:        "github-api-url",
			Usage:       "GitHub API base URL (for GitHub Enterprise)",
			Destination: &c.APIURL,
			Sources:     cli.EnvVars("ECSYNC_GITHUB_API_URL"),
		},
	}
}

func (c *GitHub) hasApp() bool {
	return c.AppID != 0 && c.InstallationID != 0 && c.PrivateKey != ""
}

// Validate checks that credentials are present
func (c *GitHub) Validate() error {
	if c.Token == "" && !c.hasApp() {
		return goerr.New("GitHub credential is required: set GITHUB_TOKEN or GitHub App ID, installation ID and private key")
	}
	return nil
}

// NewClient creates a GitHub client from the configuration. A token takes
// precedence over App credentials.
func (c *GitHub) NewClient() (interfaces.GitHubClient, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var opts []githubinfra.Option
	if c.APIURL != "" {
		opts = append(opts, githubinfra.WithBaseURL(c.APIURL))
	}

	if c.Token != "" {
		return githubinfra.NewClient(c.Token, opts...)
	}
	return githubinfra.NewAppClient(c.AppID, c.InstallationID, []byte(c.PrivateKey), opts...)
}
