package repository

import (
	"context"
	"errors"

	"voltcart/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrReviewNotFound is returned when a review does not exist.
var ErrReviewNotFound = errors.New("review not found")

// ReviewRepository defines the standard operations for review persistence.
type ReviewRepository interface {
	// Create persists a new review.
	Create(ctx context.Context, review *entity.Review) error

	// FindByID retrieves a single review.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error)

	// FindByProduct retrieves all reviews for a product, newest first.
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]*entity.Review, error)

	// FindByUserAndProduct retrieves a user's review on a product, if any.
	FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*entity.Review, error)

	// Update modifies an existing review's rating and comment.
	Update(ctx context.Context, review *entity.Review) error

	// AverageRating computes the rating summary for one product.
	AverageRating(ctx context.Context, productID uuid.UUID) (*entity.RatingSummary, error)

	// AverageRatings computes rating summaries for a batch of products.
	// Products with no reviews are absent from the result.
	AverageRatings(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]*entity.RatingSummary, error)
}
