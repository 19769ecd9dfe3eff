package service

import (
	"context"
)

// Order event types published to the message queue.
const (
	OrderEventPlaced           = "order.placed"
	OrderEventPaymentCompleted = "order.payment_completed"
	OrderEventStatusChanged    = "order.status_changed"
)

// OrderEvent represents an order lifecycle event for async consumers.
type OrderEvent struct {
	RequestID  string  `json:"request_id,omitempty"` // For distributed tracing
	Type       string  `json:"type"`
	OrderID    string  `json:"order_id"`
	UserID     string  `json:"user_id"`
	TotalPrice float64 `json:"total_price"`
	Status     string  `json:"status,omitempty"`
	Pidx       string  `json:"pidx,omitempty"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishOrderEvent publishes an order lifecycle event for async processing
	PublishOrderEvent(ctx context.Context, event *OrderEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
