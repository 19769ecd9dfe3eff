package repository

import (
	"context"
	"errors"

	"voltcart/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrPaymentNotFound is returned when a payment record does not exist.
var ErrPaymentNotFound = errors.New("payment not found")

// PaymentRepository defines the standard operations for payment persistence.
type PaymentRepository interface {
	// Create persists a new payment attempt.
	Create(ctx context.Context, payment *entity.Payment) error

	// FindByPidx retrieves a payment attempt by the gateway's payment index.
	FindByPidx(ctx context.Context, pidx string) (*entity.Payment, error)

	// FindByOrder retrieves all payment attempts for an order, newest first.
	FindByOrder(ctx context.Context, orderID uuid.UUID) ([]*entity.Payment, error)

	// UpdateStatus sets the status and gateway transaction ID of an attempt.
	UpdateStatus(ctx context.Context, id uuid.UUID, status, transactionID string) error
}
