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

// favouriteService implements the FavouriteUsecase interface.
type favouriteService struct {
	favouriteRepo repository.FavouriteRepository
	productRepo   repository.ProductRepository
	logger        *slog.Logger
}

// FavouriteServiceParams holds dependencies for FavouriteService, injected by Fx.
type FavouriteServiceParams struct {
	fx.In

	FavouriteRepo repository.FavouriteRepository
	ProductRepo   repository.ProductRepository
	Logger        *slog.Logger
}

// NewFavouriteService is the constructor for favouriteService.
func NewFavouriteService(params FavouriteServiceParams) usecase.FavouriteUsecase {
	return &favouriteService{
		favouriteRepo: params.FavouriteRepo,
		productRepo:   params.ProductRepo,
		logger:        params.Logger,
	}
}

func (srv *favouriteService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Add saves a product to the caller's wishlist.
func (srv *favouriteService) Add(ctx context.Context, userID, productID uuid.UUID) (*entity.Favourite, error) {
	product, err := srv.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, errors.Wrap(domainerrors.ErrProductNotFound, "cannot favourite missing product")
		}

		return nil, errors.Wrap(err, "failed to load product for favourite")
	}

	favourite := &entity.Favourite{
		UserID:    userID,
		ProductID: productID,
	}
	if err := srv.favouriteRepo.Create(ctx, favourite); err != nil {
		return nil, errors.Wrap(err, "failed to save favourite")
	}
	favourite.Product = product

	srv.log(ctx).Debug("Favourite saved", slog.Any("userID", userID), slog.Any("productID", productID))

	return favourite, nil
}

// Remove deletes one wishlist entry owned by the caller.
func (srv *favouriteService) Remove(ctx context.Context, userID, favouriteID uuid.UUID) error {
	favourite, err := srv.favouriteRepo.FindByID(ctx, favouriteID)
	if err != nil {
		if errors.Is(err, repository.ErrFavouriteNotFound) {
			return errors.Wrap(domainerrors.ErrFavouriteNotFound, "favourite not found")
		}

		return errors.Wrap(err, "failed to load favourite")
	}
	if favourite.UserID != userID {
		return errors.Wrap(domainerrors.ErrForbidden, "favourite belongs to another user")
	}

	if err := srv.favouriteRepo.Delete(ctx, favouriteID); err != nil {
		return errors.Wrap(err, "failed to delete favourite")
	}

	return nil
}

// List loads the caller's wishlist with products, newest first. This listing
// is the authoritative state clients reconcile their local flags against.
func (srv *favouriteService) List(ctx context.Context, userID uuid.UUID) ([]*entity.Favourite, error) {
	favourites, err := srv.favouriteRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list favourites")
	}

	return favourites, nil
}
