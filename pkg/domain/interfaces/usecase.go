package interfaces

//go:generate moq -out mocks/usecase_mock.go -pkg mocks . WebhookUseCase SyncUseCase

import (
	"context"

	"github.com/m-mizutani/ecsync/pkg/domain/model"
)

// WebhookUseCase defines the interface for webhook event processing
type WebhookUseCase interface {
	// ProcessEvent processes a webhook event
	ProcessEvent(ctx context.Context, event *model.WebhookEvent) error
}

// SyncUseCase runs the content pipeline
type SyncUseCase interface {
	// Run resets the output tree and writes the content of the release tagged
	// with tag, or of the latest release when tag is empty
	Run(ctx context.Context, tag string) (*model.RunResult, error)
}
