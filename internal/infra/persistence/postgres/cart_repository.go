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

// cartRepository implements repository.CartRepository using GORM.
type cartRepository struct {
	db *gorm.DB
}

// NewCartRepository is the constructor for cartRepository.
func NewCartRepository(db *gorm.DB) repository.CartRepository {
	return &cartRepository{db: db}
}

// FindActiveByUser retrieves the user's active cart lines with products loaded.
func (repo *cartRepository) FindActiveByUser(ctx context.Context, userID uuid.UUID) ([]*entity.CartItem, error) {
	var itemsM []model.CartItemModel
	err := repo.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ? AND status = ?", userID, entity.CartStatusActive).
		Order("created_at ASC").
		Find(&itemsM).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list cart items")
	}

	items := make([]*entity.CartItem, 0, len(itemsM))
	for i := range itemsM {
		items = append(items, toCartItemDomain(&itemsM[i]))
	}

	return items, nil
}

// FindByID retrieves a single cart line with its product loaded.
func (repo *cartRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.CartItem, error) {
	var itemM model.CartItemModel
	err := repo.db.WithContext(ctx).
		Preload("Product").
		Where("id = ?", id).
		First(&itemM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCartItemNotFound
		}

		return nil, errors.Wrap(err, "failed to find cart item by id")
	}

	return toCartItemDomain(&itemM), nil
}

// FindActiveByUserAndProduct retrieves the user's active line for a product, if any.
func (repo *cartRepository) FindActiveByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*entity.CartItem, error) {
	var itemM model.CartItemModel
	err := repo.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ? AND product_id = ? AND status = ?", userID, productID, entity.CartStatusActive).
		First(&itemM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCartItemNotFound
		}

		return nil, errors.Wrap(err, "failed to find cart item by user and product")
	}

	return toCartItemDomain(&itemM), nil
}

// Create persists a new cart line.
func (repo *cartRepository) Create(ctx context.Context, item *entity.CartItem) error {
	itemM := fromCartItemDomain(item)

	if err := repo.db.WithContext(ctx).Create(itemM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrProductNotFound.WrapMessage("cart line references missing product")
		}
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrConflict.WrapMessage("product already in cart")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create cart item")
	}

	item.ID = itemM.ID
	item.CreatedAt = itemM.CreatedAt
	item.UpdatedAt = itemM.UpdatedAt

	return nil
}

// UpdateQuantity sets the quantity of an existing line.
func (repo *cartRepository) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error {
	result := repo.db.WithContext(ctx).
		Model(&model.CartItemModel{}).
		Where("id = ?", id).
		Update("quantity", quantity)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update cart quantity")
	}
	if result.RowsAffected == 0 {
		return repository.ErrCartItemNotFound
	}

	return nil
}

// MarkOrdered flips the user's active lines to the ordered status.
func (repo *cartRepository) MarkOrdered(ctx context.Context, userID uuid.UUID) error {
	err := repo.db.WithContext(ctx).
		Model(&model.CartItemModel{}).
		Where("user_id = ? AND status = ?", userID, entity.CartStatusActive).
		Update("status", entity.CartStatusOrdered).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to mark cart items ordered")
	}

	return nil
}

// Delete removes a cart line by its ID.
func (repo *cartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.CartItemModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete cart item")
	}
	if result.RowsAffected == 0 {
		return repository.ErrCartItemNotFound
	}

	return nil
}

// --- Mapper Functions ---

// toCartItemDomain converts a GORM CartItemModel to a domain CartItem entity.
func toCartItemDomain(data *model.CartItemModel) *entity.CartItem {
	if data == nil {
		return nil
	}

	return &entity.CartItem{
		ID:        data.ID,
		UserID:    data.UserID,
		ProductID: data.ProductID,
		Product:   toProductDomain(data.Product),
		Quantity:  data.Quantity,
		Size:      data.Size,
		Color:     data.Color,
		Status:    data.Status,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}

// fromCartItemDomain converts a domain CartItem entity to a GORM CartItemModel.
func fromCartItemDomain(data *entity.CartItem) *model.CartItemModel {
	if data == nil {
		return nil
	}

	return &model.CartItemModel{
		ID:        data.ID,
		UserID:    data.UserID,
		ProductID: data.ProductID,
		Quantity:  data.Quantity,
		Size:      data.Size,
		Color:     data.Color,
		Status:    data.Status,
	}
}
