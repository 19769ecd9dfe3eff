package impl

import (
	"context"
	"log/slog"

	deliverycontext "voltcart/internal/delivery/context"
	"voltcart/internal/domain/entity"
	domainerrors "voltcart/internal/domain/errors"
	"voltcart/internal/domain/repository"
	"voltcart/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// reviewService implements the ReviewUsecase interface.
type reviewService struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
	logger      *slog.Logger
}

// ReviewServiceParams holds dependencies for ReviewService, injected by Fx.
type ReviewServiceParams struct {
	fx.In

	ReviewRepo  repository.ReviewRepository
	ProductRepo repository.ProductRepository
	Logger      *slog.Logger
}

// NewReviewService is the constructor for reviewService.
func NewReviewService(params ReviewServiceParams) usecase.ReviewUsecase {
	return &reviewService{
		reviewRepo:  params.ReviewRepo,
		productRepo: params.ProductRepo,
		logger:      params.Logger,
	}
}

func (srv *reviewService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// PostReview stores the caller's review. A second post on the same product
// updates the existing review instead of adding another.
func (srv *reviewService) PostReview(ctx context.Context, userID uuid.UUID, input *usecase.PostReviewInput) (*entity.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, errors.Wrap(domainerrors.ErrInvalidRating, "rating outside 1-5")
	}

	if _, err := srv.productRepo.FindByID(ctx, input.ProductID); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, errors.Wrap(domainerrors.ErrProductNotFound, "cannot review missing product")
		}

		return nil, errors.Wrap(err, "failed to load product for review")
	}

	existing, err := srv.reviewRepo.FindByUserAndProduct(ctx, userID, input.ProductID)
	if err != nil && !errors.Is(err, repository.ErrReviewNotFound) {
		return nil, errors.Wrap(err, "failed to look up existing review")
	}

	if existing != nil {
		existing.Rating = input.Rating
		existing.Comment = input.Comment
		if err := srv.reviewRepo.Update(ctx, existing); err != nil {
			return nil, errors.Wrap(err, "failed to update review")
		}

		srv.log(ctx).Debug("Review updated", slog.Any("reviewID", existing.ID))

		return existing, nil
	}

	review := &entity.Review{
		UserID:    userID,
		ProductID: input.ProductID,
		Rating:    input.Rating,
		Comment:   input.Comment,
	}
	if err := srv.reviewRepo.Create(ctx, review); err != nil {
		return nil, errors.Wrap(err, "failed to create review")
	}

	srv.log(ctx).Debug("Review created", slog.Any("reviewID", review.ID))

	return review, nil
}

// GetProductReviews loads all reviews for a product, newest first.
func (srv *reviewService) GetProductReviews(ctx context.Context, productID uuid.UUID) ([]*entity.Review, error) {
	reviews, err := srv.reviewRepo.FindByProduct(ctx, productID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list product reviews")
	}

	return reviews, nil
}

// GetUserReview loads the caller's review on a product, if any.
func (srv *reviewService) GetUserReview(ctx context.Context, userID, productID uuid.UUID) (*entity.Review, error) {
	review, err := srv.reviewRepo.FindByUserAndProduct(ctx, userID, productID)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, errors.Wrap(domainerrors.ErrReviewNotFound, "no review by user on product")
		}

		return nil, errors.Wrap(err, "failed to load user review")
	}

	return review, nil
}

// AverageRating aggregates the rating for one product.
func (srv *reviewService) AverageRating(ctx context.Context, productID uuid.UUID) (*entity.RatingSummary, error) {
	summary, err := srv.reviewRepo.AverageRating(ctx, productID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to aggregate rating")
	}

	return summary, nil
}

// AverageRatings aggregates ratings for a batch of products in one query.
func (srv *reviewService) AverageRatings(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]*entity.RatingSummary, error) {
	if len(productIDs) == 0 {
		return map[uuid.UUID]*entity.RatingSummary{}, nil
	}

	summaries, err := srv.reviewRepo.AverageRatings(ctx, productIDs)
	if err != nil {
		return nil, errors.Wrap(err, "failed to aggregate ratings")
	}

	return summaries, nil
}
