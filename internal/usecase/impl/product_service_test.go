package impl

import (
	"context"
	"strings"
	"testing"

	"voltcart/config"
	"voltcart/internal/domain/entity"
	domainerrors "voltcart/internal/domain/errors"
	"voltcart/internal/domain/repository"
	mockRepo "voltcart/internal/mocks/repository"
	mockSvc "voltcart/internal/mocks/service"
	"voltcart/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type productServiceFixtures struct {
	service     usecase.ProductUsecase
	productRepo *mockRepo.MockProductRepository
	reviewRepo  *mockRepo.MockReviewRepository
	imageStore  *mockSvc.MockImageStore
}

func createTestProductService(t *testing.T) productServiceFixtures {
	productRepo := mockRepo.NewMockProductRepository(t)
	reviewRepo := mockRepo.NewMockReviewRepository(t)
	imageStore := mockSvc.NewMockImageStore(t)

	svc := NewProductService(ProductServiceParams{
		ProductRepo: productRepo,
		ReviewRepo:  reviewRepo,
		ImageStore:  imageStore,
		Config: &config.Config{
			Catalog: &config.CatalogConfig{DefaultPageSize: 8, MaxPageSize: 50},
		},
		Logger: newDiscardLogger(),
	})

	return productServiceFixtures{
		service:     svc,
		productRepo: productRepo,
		reviewRepo:  reviewRepo,
		imageStore:  imageStore,
	}
}

func TestProductService_Create_WithImage(t *testing.T) {
	fx := createTestProductService(t)

	ctx := context.Background()
	image := strings.NewReader("image-bytes")

	fx.imageStore.On("Save", ctx, "mouse.png", "image/png", image).
		Return("https://blob.example.com/mouse.png", nil)
	fx.productRepo.On("Create", ctx, mock.MatchedBy(func(product *entity.Product) bool {
		return product.ImageURL == "https://blob.example.com/mouse.png"
	})).Return(nil)

	product, err := fx.service.Create(ctx, &usecase.CreateProductInput{
		Name:     "Wireless Mouse",
		Category: "accessories",
		Price:    1500,
		Stock:    10,
		Image:    &usecase.ImageUpload{Filename: "mouse.png", ContentType: "image/png", Reader: image},
	})

	require.NoError(t, err)
	assert.Equal(t, "https://blob.example.com/mouse.png", product.ImageURL)
}

func TestProductService_Create_OrphanImageCleanedUp(t *testing.T) {
	fx := createTestProductService(t)

	ctx := context.Background()
	image := strings.NewReader("image-bytes")

	fx.imageStore.On("Save", ctx, "mouse.png", "image/png", image).
		Return("https://blob.example.com/mouse.png", nil)
	fx.productRepo.On("Create", ctx, mock.Anything).Return(assert.AnError)
	// The stored blob is removed when the row never materialized.
	fx.imageStore.On("Delete", ctx, "https://blob.example.com/mouse.png").Return(nil)

	product, err := fx.service.Create(ctx, &usecase.CreateProductInput{
		Name:     "Wireless Mouse",
		Category: "accessories",
		Price:    1500,
		Stock:    10,
		Image:    &usecase.ImageUpload{Filename: "mouse.png", ContentType: "image/png", Reader: image},
	})

	require.Error(t, err)
	assert.Nil(t, product)
}

func TestProductService_Update_ReplacesImage(t *testing.T) {
	fx := createTestProductService(t)

	ctx := context.Background()
	productID := uuid.New()
	image := strings.NewReader("new-image")

	fx.productRepo.On("FindByID", ctx, productID).Return(&entity.Product{
		ID:       productID,
		Name:     "Wireless Mouse",
		Price:    1500,
		Stock:    10,
		ImageURL: "https://blob.example.com/old.png",
	}, nil)
	fx.imageStore.On("Save", ctx, "new.png", "image/png", image).
		Return("https://blob.example.com/new.png", nil)
	fx.productRepo.On("Update", ctx, mock.MatchedBy(func(product *entity.Product) bool {
		return product.ImageURL == "https://blob.example.com/new.png"
	})).Return(nil)
	fx.imageStore.On("Delete", ctx, "https://blob.example.com/old.png").Return(nil)

	newPrice := 1200.0
	product, err := fx.service.Update(ctx, productID, &usecase.UpdateProductInput{
		Price: &newPrice,
		Image: &usecase.ImageUpload{Filename: "new.png", ContentType: "image/png", Reader: image},
	})

	require.NoError(t, err)
	assert.InDelta(t, 1200.0, product.Price, 0.001)
	assert.Equal(t, "https://blob.example.com/new.png", product.ImageURL)
	// Untouched fields keep their stored values.
	assert.Equal(t, "Wireless Mouse", product.Name)
}

func TestProductService_Update_NotFound(t *testing.T) {
	fx := createTestProductService(t)

	ctx := context.Background()
	productID := uuid.New()
	fx.productRepo.On("FindByID", ctx, productID).Return(nil, repository.ErrProductNotFound)

	product, err := fx.service.Update(ctx, productID, &usecase.UpdateProductInput{})

	require.Error(t, err)
	assert.Nil(t, product)
	assert.ErrorIs(t, err, domainerrors.ErrProductNotFound)
}

func TestProductService_Delete_RemovesRowThenImage(t *testing.T) {
	fx := createTestProductService(t)

	ctx := context.Background()
	productID := uuid.New()
	fx.productRepo.On("FindByID", ctx, productID).Return(&entity.Product{
		ID:       productID,
		Name:     "Wireless Mouse",
		Price:    1500,
		Stock:    10,
		ImageURL: "https://blob.example.com/mouse.png",
	}, nil)
	fx.productRepo.On("Delete", ctx, productID).Return(nil)
	fx.imageStore.On("Delete", ctx, "https://blob.example.com/mouse.png").Return(nil)

	err := fx.service.Delete(ctx, productID)

	require.NoError(t, err)
}

func TestProductService_ListByCategory_NormalizesPaging(t *testing.T) {
	fx := createTestProductService(t)

	ctx := context.Background()
	product := sellableProduct(10)

	// Page below 1 becomes 1; limit above the cap is clamped to 50.
	fx.productRepo.On("FindByCategory", ctx, "mobiles", 1, 50).Return(&repository.ProductPage{
		Products:   []*entity.Product{product},
		TotalCount: 1,
	}, nil)
	fx.reviewRepo.On("AverageRatings", ctx, []uuid.UUID{product.ID}).
		Return(map[uuid.UUID]*entity.RatingSummary{}, nil)

	output, err := fx.service.ListByCategory(ctx, &usecase.ListByCategoryInput{
		Category: "mobiles",
		Page:     0,
		Limit:    500,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, output.Page)
	assert.Equal(t, 50, output.Limit)
	assert.Equal(t, int64(1), output.TotalCount)
}

func TestProductService_ListByCategory_DefaultLimit(t *testing.T) {
	fx := createTestProductService(t)

	ctx := context.Background()
	fx.productRepo.On("FindByCategory", ctx, "laptops", 2, 8).Return(&repository.ProductPage{
		Products:   []*entity.Product{},
		TotalCount: 9,
	}, nil)

	output, err := fx.service.ListByCategory(ctx, &usecase.ListByCategoryInput{Category: "laptops", Page: 2})

	require.NoError(t, err)
	assert.Equal(t, 8, output.Limit)
	// An empty page performs no ratings query.
	fx.reviewRepo.AssertNotCalled(t, "AverageRatings", mock.Anything, mock.Anything)
}

func TestProductService_ListByCategory_AttachesRatings(t *testing.T) {
	fx := createTestProductService(t)

	ctx := context.Background()
	product := sellableProduct(10)

	fx.productRepo.On("FindByCategory", ctx, "accessories", 1, 8).Return(&repository.ProductPage{
		Products:   []*entity.Product{product},
		TotalCount: 1,
	}, nil)
	fx.reviewRepo.On("AverageRatings", ctx, []uuid.UUID{product.ID}).
		Return(map[uuid.UUID]*entity.RatingSummary{
			product.ID: {ProductID: product.ID, Average: 4.5, Count: 12},
		}, nil)

	output, err := fx.service.ListByCategory(ctx, &usecase.ListByCategoryInput{Category: "accessories"})

	require.NoError(t, err)
	require.Contains(t, output.Ratings, product.ID)
	assert.InDelta(t, 4.5, output.Ratings[product.ID].Average, 0.001)
	assert.Equal(t, 12, output.Ratings[product.ID].Count)
}

func TestProductService_ListByCategory_RatingsFailureStillServesPage(t *testing.T) {
	fx := createTestProductService(t)

	ctx := context.Background()
	product := sellableProduct(10)

	fx.productRepo.On("FindByCategory", ctx, "accessories", 1, 8).Return(&repository.ProductPage{
		Products:   []*entity.Product{product},
		TotalCount: 1,
	}, nil)
	fx.reviewRepo.On("AverageRatings", ctx, []uuid.UUID{product.ID}).Return(nil, assert.AnError)

	output, err := fx.service.ListByCategory(ctx, &usecase.ListByCategoryInput{Category: "accessories"})

	require.NoError(t, err)
	require.Len(t, output.Products, 1)
	assert.Empty(t, output.Ratings)
}
