package usecase

import (
	"context"

	"voltcart/internal/domain/entity"

	"github.com/google/uuid"
)

// AddToCartInput adds units of a product to the user's cart. Size and
// colour are optional variant hints stored with the line.
type AddToCartInput struct {
	ProductID uuid.UUID
	Quantity  int // Defaults to 1 when zero.
	Size      string
	Color     string
}

// UpdateCartItemInput sets the quantity of the user's line for a product.
// Size and colour are accepted for client compatibility; the stored variant
// is fixed at add time.
type UpdateCartItemInput struct {
	ProductID uuid.UUID
	Quantity  int
	Size      string
	Color     string
}

// CartOutput is the user's reconciled cart: only lines whose product still
// resolves and is sellable are listed, and the subtotal covers those lines only.
type CartOutput struct {
	Items    []*entity.CartItem
	Subtotal float64
}

// CartUsecase defines the interface for cart operations.
type CartUsecase interface {
	// AddToCart adds a product to the cart, merging with an existing line.
	// The combined quantity may not exceed the product's stock.
	AddToCart(ctx context.Context, userID uuid.UUID, input *AddToCartInput) (*entity.CartItem, error)

	// GetCart loads the user's cart, filtering out lines whose product is
	// missing or unsellable, and computes the subtotal over the rest.
	GetCart(ctx context.Context, userID uuid.UUID) (*CartOutput, error)

	// UpdateItem sets a line's quantity. Quantities below 1 and quantities
	// above the product's stock are rejected before any write.
	UpdateItem(ctx context.Context, userID uuid.UUID, input *UpdateCartItemInput) (*entity.CartItem, error)

	// RemoveItem deletes one cart line owned by the user.
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error
}
