package repository

import (
	"context"
	"errors"

	"voltcart/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrCartItemNotFound is returned when a cart line does not exist.
var ErrCartItemNotFound = errors.New("cart item not found")

// CartRepository defines the standard operations for cart persistence.
// Listings always load the referenced product alongside each line.
type CartRepository interface {
	// FindActiveByUser retrieves the user's active cart lines with products loaded.
	FindActiveByUser(ctx context.Context, userID uuid.UUID) ([]*entity.CartItem, error)

	// FindByID retrieves a single cart line with its product loaded.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.CartItem, error)

	// FindActiveByUserAndProduct retrieves the user's active line for a product, if any.
	FindActiveByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*entity.CartItem, error)

	// Create persists a new cart line.
	Create(ctx context.Context, item *entity.CartItem) error

	// UpdateQuantity sets the quantity of an existing line.
	UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error

	// MarkOrdered flips the user's active lines to the ordered status.
	MarkOrdered(ctx context.Context, userID uuid.UUID) error

	// Delete removes a cart line by its ID.
	Delete(ctx context.Context, id uuid.UUID) error
}
