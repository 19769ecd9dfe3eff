package entity

import (
	"time"

	"github.com/google/uuid"
)

// Review is a user's rating and comment on a product. A user holds at most
// one review per product; posting again updates the existing one.
type Review struct {
	ID        uuid.UUID // The unique ID for this review.
	UserID    uuid.UUID // The reviewer.
	ProductID uuid.UUID // The reviewed product.
	Rating    int       // Star rating, 1 through 5.
	Comment   string    // Free-form review text.
	CreatedAt time.Time // When the review was first posted.
	UpdatedAt time.Time // Last edit.
}

// RatingSummary is the aggregated rating for one product.
type RatingSummary struct {
	ProductID uuid.UUID // The product the summary belongs to.
	Average   float64   // Mean rating across all reviews, 0 when there are none.
	Count     int       // Number of reviews contributing to the average.
}
