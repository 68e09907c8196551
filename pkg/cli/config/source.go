package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/ecsync/pkg/domain/types"
	"github.com/m-mizutani/ecsync/pkg/usecase"
)

// Source holds the upstream locations the content is fetched from
type Source struct {
	Owner      string
	Repo       string
	Tag        string
	Asset      string
	WebsiteURL string
	File       string
}

// sourceFile is the layout of the TOML config file
type sourceFile struct {
	Owner      string `toml:"owner"`
	Repo       string `toml:"repo"`
	Tag        string `toml:"tag"`
	Asset      string `toml:"asset"`
	WebsiteURL string `toml:"website_url"`
}

// Flags returns CLI flags for source configuration
func (c *Source) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "owner",
			Usage:       "Owner of the upstream repository",
			Value:       types.DefaultOwner,
			Destination: &c.Owner,
			Sources:     cli.EnvVars("ECSYNC_OWNER"),
		},
		&cli.StringFlag{
			Name:        "repo",
			Usage:       "Name of the upstream repository",
			Value:       types.DefaultRepo,
			Destination: &c.Repo,
			Sources:     cli.EnvVars("ECSYNC_REPO"),
		},
		&cli.StringFlag{
			Name:        "tag",
			Aliases:     []string{"t"},
			Usage:       "Release tag to sync (latest release if empty)",
			Destination: &c.Tag,
			Sources:     cli.EnvVars("ECSYNC_TAG"),
		},
		&cli.StringFlag{
			Name:        "asset",
			Usage:       "Name of the release asset holding API definitions",
			Value:       types.DefaultAssetName,
			Destination: &c.Asset,
			Sources:     cli.EnvVars("ECSYNC_ASSET"),
		},
		&cli.StringFlag{
			Name:        "website-url",
			Usage:       "URL of the website locale file",
			Value:       types.DefaultWebsiteURL,
			Destination: &c.WebsiteURL,
			Sources:     cli.EnvVars("ECSYNC_WEBSITE_URL"),
		},
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "TOML file with source settings; explicit flags take precedence",
			Destination: &c.File,
			Sources:     cli.EnvVars("ECSYNC_CONFIG"),
		},
	}
}

// LoadFile fills the settings not given on the command line from the TOML file
func (c *Source) LoadFile(cmd *cli.Command) error {
	if c.File == "" {
		return nil
	}

	raw, err := os.ReadFile(c.File)
	if err != nil {
		return goerr.Wrap(err, "failed to read config file", goerr.V("path", c.File))
	}

	var file sourceFile
	if err := toml.Unmarshal(raw, &file); err != nil {
		return goerr.Wrap(err, "failed to parse config file", goerr.V("path", c.File))
	}

	apply := func(flag string, dst *string, v string) {
		if v != "" && !cmd.IsSet(flag) {
			*dst = v
		}
	}
	apply("owner", &c.Owner, file.Owner)
	apply("repo", &c.Repo, file.Repo)
	apply("tag", &c.Tag, file.Tag)
	apply("asset", &c.Asset, file.Asset)
	apply("website-url", &c.WebsiteURL, file.WebsiteURL)

	return nil
}

// SyncOptions converts the configuration into use case options
func (c *Source) SyncOptions() []usecase.SyncOption {
	return []usecase.SyncOption{
		usecase.WithRepository(c.Owner, c.Repo),
		usecase.WithAssetName(c.Asset),
		usecase.WithWebsiteURL(c.WebsiteURL),
	}
}
