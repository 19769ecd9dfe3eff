package entity

import (
	"time"

	"github.com/google/uuid"
)

// Favourite marks a product saved to a user's wishlist. Adding the same
// product twice is a no-op at the repository level.
type Favourite struct {
	ID        uuid.UUID // The unique ID for this favourite entry.
	UserID    uuid.UUID // The owner of the wishlist.
	ProductID uuid.UUID // The saved product.
	Product   *Product  // The referenced product, loaded for listings. Nil when deleted.
	CreatedAt time.Time // When the product was saved.
}
