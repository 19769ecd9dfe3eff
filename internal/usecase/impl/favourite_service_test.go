package impl

import (
	"context"
	"testing"

	"voltcart/internal/domain/entity"
	domainerrors "voltcart/internal/domain/errors"
	"voltcart/internal/domain/repository"
	mockRepo "voltcart/internal/mocks/repository"
	"voltcart/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type favouriteServiceFixtures struct {
	service       usecase.FavouriteUsecase
	favouriteRepo *mockRepo.MockFavouriteRepository
	productRepo   *mockRepo.MockProductRepository
}

func createTestFavouriteService(t *testing.T) favouriteServiceFixtures {
	favouriteRepo := mockRepo.NewMockFavouriteRepository(t)
	productRepo := mockRepo.NewMockProductRepository(t)

	svc := NewFavouriteService(FavouriteServiceParams{
		FavouriteRepo: favouriteRepo,
		ProductRepo:   productRepo,
		Logger:        newDiscardLogger(),
	})

	return favouriteServiceFixtures{service: svc, favouriteRepo: favouriteRepo, productRepo: productRepo}
}

func TestFavouriteService_Add_UnknownProduct(t *testing.T) {
	fx := createTestFavouriteService(t)

	ctx := context.Background()
	productID := uuid.New()
	fx.productRepo.On("FindByID", ctx, productID).Return(nil, repository.ErrProductNotFound)

	favourite, err := fx.service.Add(ctx, uuid.New(), productID)

	require.Error(t, err)
	assert.Nil(t, favourite)
	assert.ErrorIs(t, err, domainerrors.ErrProductNotFound)
	fx.favouriteRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestFavouriteService_Add_Success(t *testing.T) {
	fx := createTestFavouriteService(t)

	ctx := context.Background()
	userID := uuid.New()
	product := sellableProduct(10)

	fx.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
	fx.favouriteRepo.On("Create", ctx, mock.MatchedBy(func(favourite *entity.Favourite) bool {
		return favourite.UserID == userID && favourite.ProductID == product.ID
	})).Return(nil)

	favourite, err := fx.service.Add(ctx, userID, product.ID)

	require.NoError(t, err)
	assert.Equal(t, product, favourite.Product)
}

func TestFavouriteService_Remove_WrongOwner(t *testing.T) {
	fx := createTestFavouriteService(t)

	ctx := context.Background()
	favouriteID := uuid.New()
	fx.favouriteRepo.On("FindByID", ctx, favouriteID).Return(&entity.Favourite{
		ID:     favouriteID,
		UserID: uuid.New(),
	}, nil)

	err := fx.service.Remove(ctx, uuid.New(), favouriteID)

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
	fx.favouriteRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestFavouriteService_Remove_Success(t *testing.T) {
	fx := createTestFavouriteService(t)

	ctx := context.Background()
	userID := uuid.New()
	favouriteID := uuid.New()
	fx.favouriteRepo.On("FindByID", ctx, favouriteID).Return(&entity.Favourite{ID: favouriteID, UserID: userID}, nil)
	fx.favouriteRepo.On("Delete", ctx, favouriteID).Return(nil)

	err := fx.service.Remove(ctx, userID, favouriteID)

	require.NoError(t, err)
}

func TestFavouriteService_Remove_NotFound(t *testing.T) {
	fx := createTestFavouriteService(t)

	ctx := context.Background()
	favouriteID := uuid.New()
	fx.favouriteRepo.On("FindByID", ctx, favouriteID).Return(nil, repository.ErrFavouriteNotFound)

	err := fx.service.Remove(ctx, uuid.New(), favouriteID)

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrFavouriteNotFound)
}

func TestFavouriteService_List(t *testing.T) {
	fx := createTestFavouriteService(t)

	ctx := context.Background()
	userID := uuid.New()
	favourites := []*entity.Favourite{
		{ID: uuid.New(), UserID: userID, ProductID: uuid.New(), Product: sellableProduct(5)},
	}
	fx.favouriteRepo.On("FindByUser", ctx, userID).Return(favourites, nil)

	listed, err := fx.service.List(ctx, userID)

	require.NoError(t, err)
	assert.Equal(t, favourites, listed)
}
