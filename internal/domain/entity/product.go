package entity

import (
	"time"

	"github.com/google/uuid"
)

// Product is a single catalog item offered by the store.
type Product struct {
	ID          uuid.UUID // The unique ID for this product.
	Name        string    // Display name shown in listings and the cart.
	Description string    // Long-form product description.
	Category    string    // Category slug used for filtered listings, e.g. "mobiles", "laptops".
	Price       float64   // Unit price in rupees.
	Stock       int       // Units currently available. Cart quantities may never exceed this.
	ImageURL    string    // Public URL of the product image in blob storage.
	CreatedAt   time.Time // Timestamp of when this product was created.
	UpdatedAt   time.Time // Timestamp of the last modification.
}

// Sellable reports whether the product carries the fields a cart line
// needs to be priced. Lines referencing products that fail this check are
// excluded from cart listings and totals.
func (p *Product) Sellable() bool {
	if p == nil {
		return false
	}

	return p.Name != "" && p.Price > 0 && p.Stock > 0
}
