package impl

import (
	"context"
	"log/slog"

	"voltcart/config"
	deliverycontext "voltcart/internal/delivery/context"
	"voltcart/internal/domain/entity"
	domainerrors "voltcart/internal/domain/errors"
	"voltcart/internal/domain/repository"
	"voltcart/internal/domain/service"
	"voltcart/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	fallbackPageSize = 8
	fallbackPageMax  = 50
)

// productService implements the ProductUsecase interface.
type productService struct {
	productRepo     repository.ProductRepository
	reviewRepo      repository.ReviewRepository
	imageStore      service.ImageStore
	defaultPageSize int
	maxPageSize     int
	logger          *slog.Logger
}

// ProductServiceParams holds dependencies for ProductService, injected by Fx.
type ProductServiceParams struct {
	fx.In

	ProductRepo repository.ProductRepository
	ReviewRepo  repository.ReviewRepository
	ImageStore  service.ImageStore
	Config      *config.Config
	Logger      *slog.Logger
}

// NewProductService is the constructor for productService.
func NewProductService(params ProductServiceParams) usecase.ProductUsecase {
	defaultPageSize := fallbackPageSize
	maxPageSize := fallbackPageMax
	if params.Config != nil && params.Config.Catalog != nil {
		if params.Config.Catalog.DefaultPageSize > 0 {
			defaultPageSize = params.Config.Catalog.DefaultPageSize
		}
		if params.Config.Catalog.MaxPageSize > 0 {
			maxPageSize = params.Config.Catalog.MaxPageSize
		}
	}

	return &productService{
		productRepo:     params.ProductRepo,
		reviewRepo:      params.ReviewRepo,
		imageStore:      params.ImageStore,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
		logger:          params.Logger,
	}
}

func (srv *productService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Create adds a product to the catalog, storing its image if provided.
func (srv *productService) Create(ctx context.Context, input *usecase.CreateProductInput) (*entity.Product, error) {
	srv.log(ctx).Info("Creating product", slog.String("name", input.Name), slog.String("category", input.Category))

	product := &entity.Product{
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
		Price:       input.Price,
		Stock:       input.Stock,
	}

	if input.Image != nil {
		url, err := srv.imageStore.Save(ctx, input.Image.Filename, input.Image.ContentType, input.Image.Reader)
		if err != nil {
			return nil, errors.Wrap(domainerrors.ErrImageUploadFailed.WrapMessage(err.Error()), "failed to store product image")
		}
		product.ImageURL = url
	}

	if err := srv.productRepo.Create(ctx, product); err != nil {
		// Keep blob storage consistent when the row never materialized.
		if product.ImageURL != "" {
			if delErr := srv.imageStore.Delete(ctx, product.ImageURL); delErr != nil {
				srv.log(ctx).Warn("Failed to delete orphaned product image", slog.String("url", product.ImageURL), slog.Any("error", delErr))
			}
		}

		return nil, errors.Wrap(err, "failed to create product")
	}

	return product, nil
}

// Update modifies a product. A new image replaces the stored one.
func (srv *productService) Update(ctx context.Context, id uuid.UUID, input *usecase.UpdateProductInput) (*entity.Product, error) {
	product, err := srv.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}

	previousImage := ""
	if input.Image != nil {
		url, saveErr := srv.imageStore.Save(ctx, input.Image.Filename, input.Image.ContentType, input.Image.Reader)
		if saveErr != nil {
			return nil, errors.Wrap(domainerrors.ErrImageUploadFailed.WrapMessage(saveErr.Error()), "failed to store product image")
		}
		previousImage = product.ImageURL
		product.ImageURL = url
	}

	if err := srv.productRepo.Update(ctx, product); err != nil {
		return nil, errors.Wrap(err, "failed to update product")
	}

	if previousImage != "" {
		if delErr := srv.imageStore.Delete(ctx, previousImage); delErr != nil {
			srv.log(ctx).Warn("Failed to delete replaced product image", slog.String("url", previousImage), slog.Any("error", delErr))
		}
	}

	return product, nil
}

// Delete removes a product and its stored image.
func (srv *productService) Delete(ctx context.Context, id uuid.UUID) error {
	product, err := srv.findProduct(ctx, id)
	if err != nil {
		return err
	}

	if err := srv.productRepo.Delete(ctx, id); err != nil {
		return errors.Wrap(err, "failed to delete product")
	}

	if product.ImageURL != "" {
		if delErr := srv.imageStore.Delete(ctx, product.ImageURL); delErr != nil {
			srv.log(ctx).Warn("Failed to delete product image", slog.String("url", product.ImageURL), slog.Any("error", delErr))
		}
	}

	return nil
}

// GetByID loads a single product.
func (srv *productService) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	return srv.findProduct(ctx, id)
}

// GetAll loads the full catalog, newest first.
func (srv *productService) GetAll(ctx context.Context) ([]*entity.Product, error) {
	products, err := srv.productRepo.FindAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	return products, nil
}

// ListByCategory loads one page of a category with rating summaries for the
// page's products resolved in a single batched query.
func (srv *productService) ListByCategory(ctx context.Context, input *usecase.ListByCategoryInput) (*usecase.ProductListOutput, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}

	limit := input.Limit
	if limit <= 0 {
		limit = srv.defaultPageSize
	}
	if limit > srv.maxPageSize {
		limit = srv.maxPageSize
	}

	result, err := srv.productRepo.FindByCategory(ctx, input.Category, page, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list category page")
	}

	productIDs := make([]uuid.UUID, 0, len(result.Products))
	for _, product := range result.Products {
		productIDs = append(productIDs, product.ID)
	}

	ratings := map[uuid.UUID]*entity.RatingSummary{}
	if len(productIDs) > 0 {
		ratings, err = srv.reviewRepo.AverageRatings(ctx, productIDs)
		if err != nil {
			// Ratings decorate the listing; the page itself is still served.
			srv.log(ctx).Warn("Failed to load rating summaries", slog.String("category", input.Category), slog.Any("error", err))
			ratings = map[uuid.UUID]*entity.RatingSummary{}
		}
	}

	return &usecase.ProductListOutput{
		Products:   result.Products,
		TotalCount: result.TotalCount,
		Page:       page,
		Limit:      limit,
		Ratings:    ratings,
	}, nil
}

func (srv *productService) findProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := srv.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, errors.Wrap(domainerrors.ErrProductNotFound, "product not found")
		}

		return nil, errors.Wrap(err, "failed to load product")
	}

	return product, nil
}
