package repository

import (
	"context"
	"errors"

	"voltcart/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrFavouriteNotFound is returned when a favourite entry does not exist.
var ErrFavouriteNotFound = errors.New("favourite not found")

// FavouriteRepository defines the standard operations for wishlist persistence.
type FavouriteRepository interface {
	// Create persists a new favourite. Adding an already-saved product is a no-op.
	Create(ctx context.Context, favourite *entity.Favourite) error

	// FindByUser retrieves a user's favourites with products loaded, newest first.
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Favourite, error)

	// FindByID retrieves a single favourite entry.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Favourite, error)

	// Delete removes a favourite entry by its ID.
	Delete(ctx context.Context, id uuid.UUID) error
}
