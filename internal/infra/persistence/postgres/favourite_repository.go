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

// favouriteRepository implements repository.FavouriteRepository using GORM.
type favouriteRepository struct {
	db *gorm.DB
}

// NewFavouriteRepository is the constructor for favouriteRepository.
func NewFavouriteRepository(db *gorm.DB) repository.FavouriteRepository {
	return &favouriteRepository{db: db}
}

// Create persists a new favourite. The (user, product) pair is unique; a
// second add for the same product surfaces as a conflict.
func (repo *favouriteRepository) Create(ctx context.Context, favourite *entity.Favourite) error {
	favM := &model.FavouriteModel{
		ID:        favourite.ID,
		UserID:    favourite.UserID,
		ProductID: favourite.ProductID,
	}

	err := repo.db.WithContext(ctx).Create(favM).Error
	if err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrConflict.WrapMessage("product already in favourites")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrProductNotFound.WrapMessage("favourite references missing product")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create favourite")
	}

	favourite.ID = favM.ID
	favourite.CreatedAt = favM.CreatedAt

	return nil
}

// FindByUser retrieves a user's favourites with products loaded, newest first.
func (repo *favouriteRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Favourite, error) {
	var favsM []model.FavouriteModel
	err := repo.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&favsM).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list favourites")
	}

	favs := make([]*entity.Favourite, 0, len(favsM))
	for i := range favsM {
		favs = append(favs, toFavouriteDomain(&favsM[i]))
	}

	return favs, nil
}

// FindByID retrieves a single favourite entry.
func (repo *favouriteRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Favourite, error) {
	var favM model.FavouriteModel
	err := repo.db.WithContext(ctx).
		Preload("Product").
		Where("id = ?", id).
		First(&favM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrFavouriteNotFound
		}

		return nil, errors.Wrap(err, "failed to find favourite by id")
	}

	return toFavouriteDomain(&favM), nil
}

// Delete removes a favourite entry by its ID.
func (repo *favouriteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.FavouriteModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete favourite")
	}
	if result.RowsAffected == 0 {
		return repository.ErrFavouriteNotFound
	}

	return nil
}

// --- Mapper Functions ---

// toFavouriteDomain converts a GORM FavouriteModel to a domain Favourite entity.
func toFavouriteDomain(data *model.FavouriteModel) *entity.Favourite {
	if data == nil {
		return nil
	}

	return &entity.Favourite{
		ID:        data.ID,
		UserID:    data.UserID,
		ProductID: data.ProductID,
		Product:   toProductDomain(data.Product),
		CreatedAt: data.CreatedAt,
	}
}
