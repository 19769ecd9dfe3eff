package usecase

import (
	"context"

	"voltcart/internal/domain/entity"

	"github.com/google/uuid"
)

// FavouriteUsecase defines the interface for wishlist operations. The
// server-side list is authoritative; clients reconcile against it.
type FavouriteUsecase interface {
	// Add saves a product to the caller's wishlist.
	Add(ctx context.Context, userID, productID uuid.UUID) (*entity.Favourite, error)

	// Remove deletes one wishlist entry owned by the caller.
	Remove(ctx context.Context, userID, favouriteID uuid.UUID) error

	// List loads the caller's wishlist with products, newest first.
	List(ctx context.Context, userID uuid.UUID) ([]*entity.Favourite, error)
}
