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

type cartServiceFixtures struct {
	service     usecase.CartUsecase
	cartRepo    *mockRepo.MockCartRepository
	productRepo *mockRepo.MockProductRepository
}

func createTestCartService(t *testing.T) cartServiceFixtures {
	cartRepo := mockRepo.NewMockCartRepository(t)
	productRepo := mockRepo.NewMockProductRepository(t)

	svc := NewCartService(CartServiceParams{
		CartRepo:    cartRepo,
		ProductRepo: productRepo,
		Logger:      newDiscardLogger(),
	})

	return cartServiceFixtures{service: svc, cartRepo: cartRepo, productRepo: productRepo}
}

func sellableProduct(stock int) *entity.Product {
	return &entity.Product{
		ID:       uuid.New(),
		Name:     "Wireless Mouse",
		Category: "accessories",
		Price:    1500,
		Stock:    stock,
	}
}

func TestCartService_AddToCart_ZeroQuantityDefaultsToOne(t *testing.T) {
	fx := createTestCartService(t)

	ctx := context.Background()
	userID := uuid.New()
	product := sellableProduct(10)

	fx.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
	fx.cartRepo.On("FindActiveByUserAndProduct", ctx, userID, product.ID).
		Return(nil, repository.ErrCartItemNotFound)
	fx.cartRepo.On("Create", ctx, mock.AnythingOfType("*entity.CartItem")).Return(nil)

	line, err := fx.service.AddToCart(ctx, userID, &usecase.AddToCartInput{
		ProductID: product.ID,
		Size:      "M",
		Color:     "black",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, line.Quantity)
	assert.Equal(t, entity.CartStatusActive, line.Status)
	assert.Equal(t, "M", line.Size)
	assert.Equal(t, "black", line.Color)
}

func TestCartService_AddToCart_NegativeQuantityRejected(t *testing.T) {
	fx := createTestCartService(t)

	line, err := fx.service.AddToCart(context.Background(), uuid.New(), &usecase.AddToCartInput{
		ProductID: uuid.New(),
		Quantity:  -2,
	})

	require.Error(t, err)
	assert.Nil(t, line)
	assert.ErrorIs(t, err, domainerrors.ErrQuantityTooLow)
	// Rejected before any lookup or write.
	fx.productRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	fx.cartRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCartService_AddToCart_MergeExceedingStock(t *testing.T) {
	fx := createTestCartService(t)

	ctx := context.Background()
	userID := uuid.New()
	product := sellableProduct(5)
	existing := &entity.CartItem{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: product.ID,
		Quantity:  4,
		Status:    entity.CartStatusActive,
	}

	fx.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
	fx.cartRepo.On("FindActiveByUserAndProduct", ctx, userID, product.ID).Return(existing, nil)

	// 4 already in the cart plus 2 more exceeds the 5 in stock.
	line, err := fx.service.AddToCart(ctx, userID, &usecase.AddToCartInput{
		ProductID: product.ID,
		Quantity:  2,
	})

	require.Error(t, err)
	assert.Nil(t, line)
	assert.ErrorIs(t, err, domainerrors.ErrOutOfStock)
	fx.cartRepo.AssertNotCalled(t, "UpdateQuantity", mock.Anything, mock.Anything, mock.Anything)
}

func TestCartService_AddToCart_MergesExistingLine(t *testing.T) {
	fx := createTestCartService(t)

	ctx := context.Background()
	userID := uuid.New()
	product := sellableProduct(10)
	existing := &entity.CartItem{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: product.ID,
		Quantity:  3,
		Status:    entity.CartStatusActive,
	}

	fx.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
	fx.cartRepo.On("FindActiveByUserAndProduct", ctx, userID, product.ID).Return(existing, nil)
	fx.cartRepo.On("UpdateQuantity", ctx, existing.ID, 5).Return(nil)

	line, err := fx.service.AddToCart(ctx, userID, &usecase.AddToCartInput{
		ProductID: product.ID,
		Quantity:  2,
	})

	require.NoError(t, err)
	assert.Equal(t, existing.ID, line.ID)
	assert.Equal(t, 5, line.Quantity)
	fx.cartRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCartService_GetCart_FiltersUnsellableLines(t *testing.T) {
	fx := createTestCartService(t)

	ctx := context.Background()
	userID := uuid.New()
	good := sellableProduct(10)
	lines := []*entity.CartItem{
		{ID: uuid.New(), UserID: userID, ProductID: good.ID, Product: good, Quantity: 2, Status: entity.CartStatusActive},
		// Product deleted since the line was added.
		{ID: uuid.New(), UserID: userID, ProductID: uuid.New(), Product: nil, Quantity: 1, Status: entity.CartStatusActive},
		// Product ran out of stock.
		{ID: uuid.New(), UserID: userID, ProductID: uuid.New(), Product: &entity.Product{ID: uuid.New(), Name: "Keyboard", Price: 900, Stock: 0}, Quantity: 1, Status: entity.CartStatusActive},
		// Oversold product driven below zero by a concurrent checkout.
		{ID: uuid.New(), UserID: userID, ProductID: uuid.New(), Product: &entity.Product{ID: uuid.New(), Name: "Webcam", Price: 2200, Stock: -1}, Quantity: 1, Status: entity.CartStatusActive},
		// Bad import left a negative price.
		{ID: uuid.New(), UserID: userID, ProductID: uuid.New(), Product: &entity.Product{ID: uuid.New(), Name: "Headset", Price: -500, Stock: 4}, Quantity: 1, Status: entity.CartStatusActive},
	}

	fx.cartRepo.On("FindActiveByUser", ctx, userID).Return(lines, nil)

	output, err := fx.service.GetCart(ctx, userID)

	require.NoError(t, err)
	require.Len(t, output.Items, 1)
	assert.Equal(t, good.ID, output.Items[0].ProductID)
	assert.InDelta(t, 3000.0, output.Subtotal, 0.001)
	// Filtering is read-only; nothing is deleted.
	fx.cartRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	fx.cartRepo.AssertNotCalled(t, "UpdateQuantity", mock.Anything, mock.Anything, mock.Anything)
}

func TestCartService_GetCart_Empty(t *testing.T) {
	fx := createTestCartService(t)

	ctx := context.Background()
	userID := uuid.New()
	fx.cartRepo.On("FindActiveByUser", ctx, userID).Return([]*entity.CartItem{}, nil)

	output, err := fx.service.GetCart(ctx, userID)

	require.NoError(t, err)
	assert.Empty(t, output.Items)
	assert.Zero(t, output.Subtotal)
}

func TestCartService_UpdateItem_QuantityBelowOne(t *testing.T) {
	fx := createTestCartService(t)

	line, err := fx.service.UpdateItem(context.Background(), uuid.New(), &usecase.UpdateCartItemInput{
		ProductID: uuid.New(),
		Quantity:  0,
	})

	require.Error(t, err)
	assert.Nil(t, line)
	assert.ErrorIs(t, err, domainerrors.ErrQuantityTooLow)
	fx.cartRepo.AssertNotCalled(t, "FindActiveByUserAndProduct", mock.Anything, mock.Anything, mock.Anything)
}

func TestCartService_UpdateItem_ExceedsStock(t *testing.T) {
	fx := createTestCartService(t)

	ctx := context.Background()
	userID := uuid.New()
	product := sellableProduct(3)
	line := &entity.CartItem{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: product.ID,
		Product:   product,
		Quantity:  2,
		Status:    entity.CartStatusActive,
	}

	fx.cartRepo.On("FindActiveByUserAndProduct", ctx, userID, product.ID).Return(line, nil)

	updated, err := fx.service.UpdateItem(ctx, userID, &usecase.UpdateCartItemInput{
		ProductID: product.ID,
		Quantity:  4,
	})

	require.Error(t, err)
	assert.Nil(t, updated)
	assert.ErrorIs(t, err, domainerrors.ErrOutOfStock)
	fx.cartRepo.AssertNotCalled(t, "UpdateQuantity", mock.Anything, mock.Anything, mock.Anything)
}

func TestCartService_UpdateItem_Success(t *testing.T) {
	fx := createTestCartService(t)

	ctx := context.Background()
	userID := uuid.New()
	product := sellableProduct(10)
	line := &entity.CartItem{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: product.ID,
		Product:   product,
		Quantity:  2,
		Status:    entity.CartStatusActive,
	}

	fx.cartRepo.On("FindActiveByUserAndProduct", ctx, userID, product.ID).Return(line, nil)
	fx.cartRepo.On("UpdateQuantity", ctx, line.ID, 7).Return(nil)

	updated, err := fx.service.UpdateItem(ctx, userID, &usecase.UpdateCartItemInput{
		ProductID: product.ID,
		Quantity:  7,
	})

	require.NoError(t, err)
	assert.Equal(t, 7, updated.Quantity)
}

func TestCartService_RemoveItem_WrongOwner(t *testing.T) {
	fx := createTestCartService(t)

	ctx := context.Background()
	itemID := uuid.New()
	fx.cartRepo.On("FindByID", ctx, itemID).Return(&entity.CartItem{
		ID:     itemID,
		UserID: uuid.New(),
	}, nil)

	err := fx.service.RemoveItem(ctx, uuid.New(), itemID)

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
	fx.cartRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCartService_RemoveItem_Success(t *testing.T) {
	fx := createTestCartService(t)

	ctx := context.Background()
	userID := uuid.New()
	itemID := uuid.New()
	fx.cartRepo.On("FindByID", ctx, itemID).Return(&entity.CartItem{ID: itemID, UserID: userID}, nil)
	fx.cartRepo.On("Delete", ctx, itemID).Return(nil)

	err := fx.service.RemoveItem(ctx, userID, itemID)

	require.NoError(t, err)
}
