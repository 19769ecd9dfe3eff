package usecase

import (
	"context"
	"io"

	"voltcart/internal/domain/entity"

	"github.com/google/uuid"
)

// ImageUpload carries an uploaded image stream with its metadata.
type ImageUpload struct {
	Filename    string
	ContentType string
	Reader      io.Reader
}

// CreateProductInput defines the data required to create a catalog item.
type CreateProductInput struct {
	Name        string
	Description string
	Category    string
	Price       float64
	Stock       int
	Image       *ImageUpload // Optional product image.
}

// UpdateProductInput defines the mutable product fields. Nil pointers leave
// the stored value unchanged.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Category    *string
	Price       *float64
	Stock       *int
	Image       *ImageUpload
}

// ListByCategoryInput selects one page of a category listing.
type ListByCategoryInput struct {
	Category string
	Page     int // 1-indexed; values below 1 are normalized to 1.
	Limit    int // Page size; 0 means the configured default.
}

// ProductListOutput is one listing page. TotalCount lets clients derive the
// page count; Ratings holds the aggregated review summaries for the page's
// products, absent for products without reviews.
type ProductListOutput struct {
	Products   []*entity.Product
	TotalCount int64
	Page       int
	Limit      int
	Ratings    map[uuid.UUID]*entity.RatingSummary
}

// ProductUsecase defines the interface for catalog operations.
type ProductUsecase interface {
	// Create adds a product to the catalog, storing its image if provided.
	Create(ctx context.Context, input *CreateProductInput) (*entity.Product, error)

	// Update modifies a product. A new image replaces the stored one.
	Update(ctx context.Context, id uuid.UUID, input *UpdateProductInput) (*entity.Product, error)

	// Delete removes a product and its stored image.
	Delete(ctx context.Context, id uuid.UUID) error

	// GetByID loads a single product.
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)

	// GetAll loads the full catalog, newest first.
	GetAll(ctx context.Context) ([]*entity.Product, error)

	// ListByCategory loads one page of a category with rating summaries.
	ListByCategory(ctx context.Context, input *ListByCategoryInput) (*ProductListOutput, error)
}
