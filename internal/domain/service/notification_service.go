package service

import (
	"context"
)

// NotificationService defines the interface for push notification services.
// Order-status updates are fanned out via per-user topics so the backend
// does not need to track device tokens.
type NotificationService interface {
	// SendToTopic sends a push notification to every device subscribed to a topic.
	SendToTopic(ctx context.Context, topic, title, body string, data map[string]string) error
}
