package postgres

import (
	"context"

	"voltcart/internal/domain/entity"
	domainerrors "voltcart/internal/domain/errors"
	"voltcart/internal/domain/repository"
	"voltcart/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// reviewRepository implements repository.ReviewRepository using GORM.
type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository is the constructor for reviewRepository.
func NewReviewRepository(db *gorm.DB) repository.ReviewRepository {
	return &reviewRepository{db: db}
}

// Create persists a new review.
func (repo *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	reviewM := fromReviewDomain(review)

	if err := repo.db.WithContext(ctx).Create(reviewM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrConflict.WrapMessage("user has already reviewed this product")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrProductNotFound.WrapMessage("review references missing product")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create review")
	}

	review.ID = reviewM.ID
	review.CreatedAt = reviewM.CreatedAt
	review.UpdatedAt = reviewM.UpdatedAt

	return nil
}

// FindByID retrieves a single review.
func (repo *reviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	var reviewM model.ReviewModel
	err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&reviewM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrReviewNotFound
		}

		return nil, errors.Wrap(err, "failed to find review by id")
	}

	return toReviewDomain(&reviewM), nil
}

// FindByProduct retrieves all reviews for a product, newest first.
func (repo *reviewRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]*entity.Review, error) {
	var reviewsM []model.ReviewModel
	err := repo.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&reviewsM).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list reviews by product")
	}

	reviews := make([]*entity.Review, 0, len(reviewsM))
	for i := range reviewsM {
		reviews = append(reviews, toReviewDomain(&reviewsM[i]))
	}

	return reviews, nil
}

// FindByUserAndProduct retrieves a user's review on a product, if any.
func (repo *reviewRepository) FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*entity.Review, error) {
	var reviewM model.ReviewModel
	err := repo.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&reviewM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrReviewNotFound
		}

		return nil, errors.Wrap(err, "failed to find review by user and product")
	}

	return toReviewDomain(&reviewM), nil
}

// Update modifies an existing review's rating and comment.
func (repo *reviewRepository) Update(ctx context.Context, review *entity.Review) error {
	result := repo.db.WithContext(ctx).
		Model(&model.ReviewModel{}).
		Where("id = ?", review.ID).
		Updates(map[string]any{
			"rating":  review.Rating,
			"comment": review.Comment,
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update review")
	}
	if result.RowsAffected == 0 {
		return repository.ErrReviewNotFound
	}

	return nil
}

// AverageRating computes the rating summary for one product.
func (repo *reviewRepository) AverageRating(ctx context.Context, productID uuid.UUID) (*entity.RatingSummary, error) {
	var row ratingRow
	err := repo.db.WithContext(ctx).
		Model(&model.ReviewModel{}).
		Select("product_id, AVG(rating) AS average, COUNT(*) AS count").
		Where("product_id = ?", productID).
		Group("product_id").
		Scan(&row).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to compute average rating")
	}

	// No reviews yet: Scan leaves the row zeroed.
	if row.Count == 0 {
		return &entity.RatingSummary{ProductID: productID}, nil
	}

	return &entity.RatingSummary{
		ProductID: row.ProductID,
		Average:   row.Average,
		Count:     row.Count,
	}, nil
}

// AverageRatings computes rating summaries for a batch of products in one query.
func (repo *reviewRepository) AverageRatings(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]*entity.RatingSummary, error) {
	if len(productIDs) == 0 {
		return map[uuid.UUID]*entity.RatingSummary{}, nil
	}

	var rows []ratingRow
	err := repo.db.WithContext(ctx).
		Model(&model.ReviewModel{}).
		Select("product_id, AVG(rating) AS average, COUNT(*) AS count").
		Where("product_id IN ?", productIDs).
		Group("product_id").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to compute average ratings")
	}

	summaries := make(map[uuid.UUID]*entity.RatingSummary, len(rows))
	for _, row := range rows {
		summaries[row.ProductID] = &entity.RatingSummary{
			ProductID: row.ProductID,
			Average:   row.Average,
			Count:     row.Count,
		}
	}

	return summaries, nil
}

// ratingRow receives the aggregate columns of the rating queries.
type ratingRow struct {
	ProductID uuid.UUID
	Average   float64
	Count     int
}

// --- Mapper Functions ---

// toReviewDomain converts a GORM ReviewModel to a domain Review entity.
func toReviewDomain(data *model.ReviewModel) *entity.Review {
	if data == nil {
		return nil
	}

	return &entity.Review{
		ID:        data.ID,
		UserID:    data.UserID,
		ProductID: data.ProductID,
		Rating:    data.Rating,
		Comment:   data.Comment,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}

// fromReviewDomain converts a domain Review entity to a GORM ReviewModel.
func fromReviewDomain(data *entity.Review) *model.ReviewModel {
	if data == nil {
		return nil
	}

	return &model.ReviewModel{
		ID:        data.ID,
		UserID:    data.UserID,
		ProductID: data.ProductID,
		Rating:    data.Rating,
		Comment:   data.Comment,
	}
}
