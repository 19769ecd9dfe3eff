package entity

import (
	"time"

	"github.com/google/uuid"
)

// Cart item lifecycle states.
const (
	CartStatusActive  = "active"  // The item sits in the user's cart.
	CartStatusOrdered = "ordered" // The item has been converted into an order line.
)

// CartItem is one line in a user's shopping cart. The referenced product is
// loaded alongside the line so callers can price and validate it.
type CartItem struct {
	ID        uuid.UUID // The unique ID for this cart line.
	UserID    uuid.UUID // The owner of the cart.
	ProductID uuid.UUID // The product this line refers to.
	Product   *Product  // The referenced product. Nil when the product has been deleted.
	Quantity  int       // Requested units. Always >= 1 and <= Product.Stock.
	Size      string    // Optional variant size, empty when not applicable.
	Color     string    // Optional variant colour, empty when not applicable.
	Status    string    // One of the CartStatus constants.
	CreatedAt time.Time // When the line was added.
	UpdatedAt time.Time // Last quantity or status change.
}

// Valid reports whether this line may participate in totals and checkout:
// the referenced product must still be sellable and the quantity positive.
func (c *CartItem) Valid() bool {
	return c != nil && c.Quantity > 0 && c.Product.Sellable()
}

// LineTotal is the price contribution of this line, zero for invalid lines.
func (c *CartItem) LineTotal() float64 {
	if !c.Valid() {
		return 0
	}

	return c.Product.Price * float64(c.Quantity)
}
