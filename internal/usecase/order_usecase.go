package usecase

import (
	"context"

	"voltcart/internal/domain/entity"

	"github.com/google/uuid"
)

// PlaceOrderInput is a checkout submission. The client's total is carried
// only so the server can verify it against its own computation.
type PlaceOrderInput struct {
	Address     entity.ShippingAddress
	ClientTotal float64
}

// OrderAccess identifies the caller for ownership checks on order reads.
type OrderAccess struct {
	UserID  uuid.UUID
	IsAdmin bool
}

// OrderUsecase defines the interface for checkout and order management.
type OrderUsecase interface {
	// PlaceOrder validates the submission, converts the active cart into an
	// order, decrements stock, and clears the cart, all in one transaction.
	// Validation failures produce no persistence calls.
	PlaceOrder(ctx context.Context, userID uuid.UUID, input *PlaceOrderInput) (*entity.Order, error)

	// GetOrder loads one order. Non-admin callers may only read their own.
	GetOrder(ctx context.Context, access OrderAccess, orderID uuid.UUID) (*entity.Order, error)

	// ListByUser loads the user's orders, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error)

	// ListAll loads every order. Admin listing.
	ListAll(ctx context.Context) ([]*entity.Order, error)

	// UpdateStatus sets an order's fulfilment status and notifies the buyer.
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (*entity.Order, error)
}
