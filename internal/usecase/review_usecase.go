package usecase

import (
	"context"

	"voltcart/internal/domain/entity"

	"github.com/google/uuid"
)

// PostReviewInput creates or updates the caller's review on a product.
type PostReviewInput struct {
	ProductID uuid.UUID
	Rating    int // 1 through 5.
	Comment   string
}

// ReviewUsecase defines the interface for product reviews and ratings.
type ReviewUsecase interface {
	// PostReview stores the caller's review. A second post on the same
	// product updates the existing review instead of adding another.
	PostReview(ctx context.Context, userID uuid.UUID, input *PostReviewInput) (*entity.Review, error)

	// GetProductReviews loads all reviews for a product, newest first.
	GetProductReviews(ctx context.Context, productID uuid.UUID) ([]*entity.Review, error)

	// GetUserReview loads the caller's review on a product, if any.
	GetUserReview(ctx context.Context, userID, productID uuid.UUID) (*entity.Review, error)

	// AverageRating aggregates the rating for one product.
	AverageRating(ctx context.Context, productID uuid.UUID) (*entity.RatingSummary, error)

	// AverageRatings aggregates ratings for a batch of products in one query.
	AverageRatings(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]*entity.RatingSummary, error)
}
