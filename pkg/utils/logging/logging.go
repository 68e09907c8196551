package logging

import (
	"io"
	"log/slog"

	"github.com/m-mizutani/clog"
	"github.com/m-mizutani/masq"
)

// New creates a logger writing to w. Secrets are redacted by masq in both formats.
func New(w io.Writer, level slog.Level, json bool) *slog.Logger {
	filter := masq.New(
		masq.WithTag("secret"),
		masq.WithFieldName("Token"),
		masq.WithFieldName("PrivateKey"),
		masq.WithFieldName("WebhookSecret"),
	)

	var handler slog.Handler
	if json {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:       level,
			ReplaceAttr: filter,
		})
	} else {
		handler = clog.New(
			clog.WithWriter(w),
			clog.WithLevel(level),
			clog.WithReplaceAttr(filter),
		)
	}

	return slog.New(handler)
}
