package repository

import (
	"context"
	"errors"

	"voltcart/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrProductNotFound is returned when a product does not exist.
var ErrProductNotFound = errors.New("product not found")

// ProductPage is one page of a category listing together with the total
// match count, which callers need to compute the page count.
type ProductPage struct {
	Products   []*entity.Product
	TotalCount int64
}

// ProductRepository defines the standard operations for catalog persistence.
type ProductRepository interface {
	// Create persists a new product.
	Create(ctx context.Context, product *entity.Product) error

	// FindByID retrieves a single product by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)

	// FindAll retrieves every product, newest first.
	FindAll(ctx context.Context) ([]*entity.Product, error)

	// FindByCategory retrieves one page of products in a category.
	// Page is 1-indexed; limit is the page size.
	FindByCategory(ctx context.Context, category string, page, limit int) (*ProductPage, error)

	// Update modifies an existing product.
	Update(ctx context.Context, product *entity.Product) error

	// DecrementStock atomically reduces stock for a product.
	// It fails if the remaining stock would go negative.
	DecrementStock(ctx context.Context, id uuid.UUID, quantity int) error

	// Delete removes a product by its ID.
	Delete(ctx context.Context, id uuid.UUID) error
}
