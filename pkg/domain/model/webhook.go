package model

import "time"

// WebhookEventType represents the type of webhook event received
type WebhookEventType string

const (
	EventTypeRelease WebhookEventType = "release"
	EventTypePing    WebhookEventType = "ping"
	EventTypeUnknown WebhookEventType = "unknown"
)

// WebhookEvent represents a webhook event received from GitHub
type WebhookEvent struct {
	ID         string           // Retrieved from X-GitHub-Delivery header
	Type       WebhookEventType // Retrieved from X-GitHub-Event header
	Action     string           // Event action (e.g., released, created)
	Repository string           // Repository full name (owner/repo)
	Sender     string           // Sender username
	TagName    string           // Release tag, only for release events
	ReceivedAt time.Time        // Time when the event was received
	RawPayload []byte           // Raw JSON payload
}

// IsSupportedEvent checks if the event should trigger a content sync
func (e *WebhookEvent) IsSupportedEvent() bool {
	switch e.Type {
	case EventTypeRelease:
		return e.Action == "released"
	default:
		return false
	}
}
