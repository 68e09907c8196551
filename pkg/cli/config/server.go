package config

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Server holds server configuration
type Server struct {
	Addr          string
	WebhookSecret string `masq:"secret"`
}

// Flags returns CLI flags for server configuration
func (c *Server) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Server address",
			Value:       "localhost:8080",
			Destination: &c.Addr,
			Sources:     cli.EnvVars("ECSYNC_ADDR"),
		},
		&cli.StringFlag{
			Name:        "webhook-secret",
			Usage:       "GitHub webhook secret",
			Destination: &c.WebhookSecret,
			Sources:     cli.EnvVars("ECSYNC_WEBHOOK_SECRET"),
		},
	}
}

// Validate checks that the webhook secret is present
func (c *Server) Validate() error {
	if c.WebhookSecret == "" {
		return goerr.New("webhook secret is required")
	}
	return nil
}
