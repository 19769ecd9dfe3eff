package repository

import (
	"context"
	"errors"

	"voltcart/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrOrderNotFound is returned when an order does not exist.
var ErrOrderNotFound = errors.New("order not found")

// OrderRepository defines the standard operations for order persistence.
type OrderRepository interface {
	// Create persists a new order together with its lines.
	Create(ctx context.Context, order *entity.Order) error

	// FindByID retrieves a single order with its lines loaded.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)

	// FindAll retrieves every order, newest first. Admin listing.
	FindAll(ctx context.Context) ([]*entity.Order, error)

	// FindByUser retrieves a user's orders, newest first.
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error)

	// UpdateStatus sets the fulfilment status of an order.
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error

	// MarkPaid flips PaymentConfirmed to true. Idempotent.
	MarkPaid(ctx context.Context, id uuid.UUID) error
}
