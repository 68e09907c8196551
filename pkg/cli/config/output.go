package config

import (
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/ecsync/pkg/domain/types"
	"github.com/m-mizutani/ecsync/pkg/infra/workspace"
)

// Output holds the location of the generated content tree
type Output struct {
	Dir string
}

// Flags returns CLI flags for output configuration
func (c *Output) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Output root directory; removed and recreated on every run",
			Value:       types.DefaultOutputDir,
			Destination: &c.Dir,
			Sources:     cli.EnvVars("ECSYNC_OUTPUT"),
		},
	}
}

// Workspace returns the workspace rooted at the output directory
func (c *Output) Workspace() *workspace.Workspace {
	return workspace.New(c.Dir)
}
