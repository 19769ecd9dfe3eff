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

// productRepository implements repository.ProductRepository using GORM.
type productRepository struct {
	db *gorm.DB
}

// NewProductRepository is the constructor for productRepository.
func NewProductRepository(db *gorm.DB) repository.ProductRepository {
	return &productRepository{db: db}
}

// Create persists a new product.
func (repo *productRepository) Create(ctx context.Context, product *entity.Product) error {
	productM := fromProductDomain(product)

	if err := repo.db.WithContext(ctx).Create(productM).Error; err != nil {
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required product information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create product")
	}

	product.ID = productM.ID
	product.CreatedAt = productM.CreatedAt
	product.UpdatedAt = productM.UpdatedAt

	return nil
}

// FindByID retrieves a single product by its unique ID.
func (repo *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var productM model.ProductModel
	err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&productM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrProductNotFound
		}

		return nil, errors.Wrap(err, "failed to find product by id")
	}

	return toProductDomain(&productM), nil
}

// FindAll retrieves every product, newest first.
func (repo *productRepository) FindAll(ctx context.Context) ([]*entity.Product, error) {
	var productsM []model.ProductModel
	err := repo.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&productsM).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	return toProductDomainSlice(productsM), nil
}

// FindByCategory retrieves one page of products in a category.
// Page is 1-indexed; out-of-range pages return an empty slice with the
// total count intact so callers can still compute the page count.
func (repo *productRepository) FindByCategory(ctx context.Context, category string, page, limit int) (*repository.ProductPage, error) {
	var total int64
	err := repo.db.WithContext(ctx).
		Model(&model.ProductModel{}).
		Where("category = ?", category).
		Count(&total).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to count products in category")
	}

	var productsM []model.ProductModel
	err = repo.db.WithContext(ctx).
		Where("category = ?", category).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&productsM).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products by category")
	}

	return &repository.ProductPage{
		Products:   toProductDomainSlice(productsM),
		TotalCount: total,
	}, nil
}

// Update modifies an existing product.
func (repo *productRepository) Update(ctx context.Context, product *entity.Product) error {
	productM := fromProductDomain(product)

	result := repo.db.WithContext(ctx).
		Model(&model.ProductModel{}).
		Where("id = ?", product.ID).
		Updates(map[string]any{
			"name":        productM.Name,
			"description": productM.Description,
			"category":    productM.Category,
			"price":       productM.Price,
			"stock":       productM.Stock,
			"image_url":   productM.ImageURL,
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update product")
	}
	if result.RowsAffected == 0 {
		return repository.ErrProductNotFound
	}

	return nil
}

// DecrementStock atomically reduces stock for a product. The guard in the
// WHERE clause keeps stock from ever going negative under concurrent checkouts.
func (repo *productRepository) DecrementStock(ctx context.Context, id uuid.UUID, quantity int) error {
	result := repo.db.WithContext(ctx).
		Model(&model.ProductModel{}).
		Where("id = ? AND stock >= ?", id, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to decrement stock")
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrOutOfStock.WrapMessage("insufficient stock for product")
	}

	return nil
}

// Delete removes a product by its ID.
func (repo *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.ProductModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete product")
	}
	if result.RowsAffected == 0 {
		return repository.ErrProductNotFound
	}

	return nil
}

// --- Mapper Functions ---

// toProductDomain converts a GORM ProductModel to a domain Product entity.
func toProductDomain(data *model.ProductModel) *entity.Product {
	if data == nil {
		return nil
	}

	return &entity.Product{
		ID:          data.ID,
		Name:        data.Name,
		Description: data.Description,
		Category:    data.Category,
		Price:       data.Price,
		Stock:       data.Stock,
		ImageURL:    data.ImageURL,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

func toProductDomainSlice(data []model.ProductModel) []*entity.Product {
	products := make([]*entity.Product, 0, len(data))
	for i := range data {
		products = append(products, toProductDomain(&data[i]))
	}

	return products
}

// fromProductDomain converts a domain Product entity to a GORM ProductModel.
func fromProductDomain(data *entity.Product) *model.ProductModel {
	if data == nil {
		return nil
	}

	return &model.ProductModel{
		ID:          data.ID,
		Name:        data.Name,
		Description: data.Description,
		Category:    data.Category,
		Price:       data.Price,
		Stock:       data.Stock,
		ImageURL:    data.ImageURL,
	}
}
