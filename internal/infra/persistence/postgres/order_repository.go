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

// orderRepository implements repository.OrderRepository using GORM.
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository is the constructor for orderRepository.
func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

// Create persists a new order together with its lines.
func (repo *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	orderM := fromOrderDomain(order)

	if err := repo.db.WithContext(ctx).Create(orderM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrOrderValidation.WrapMessage("order references missing product or user")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrOrderValidation.WrapMessage("missing required order information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create order")
	}

	order.ID = orderM.ID
	order.CreatedAt = orderM.CreatedAt
	order.UpdatedAt = orderM.UpdatedAt
	for i := range orderM.Items {
		order.Items[i].ID = orderM.Items[i].ID
		order.Items[i].OrderID = orderM.ID
	}

	return nil
}

// FindByID retrieves a single order with its lines loaded.
func (repo *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var orderM model.OrderModel
	err := repo.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&orderM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "failed to find order by id")
	}

	return toOrderDomain(&orderM), nil
}

// FindAll retrieves every order, newest first.
func (repo *orderRepository) FindAll(ctx context.Context) ([]*entity.Order, error) {
	var ordersM []model.OrderModel
	err := repo.db.WithContext(ctx).
		Preload("Items").
		Order("created_at DESC").
		Find(&ordersM).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}

	return toOrderDomainSlice(ordersM), nil
}

// FindByUser retrieves a user's orders, newest first.
func (repo *orderRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error) {
	var ordersM []model.OrderModel
	err := repo.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&ordersM).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders by user")
	}

	return toOrderDomainSlice(ordersM), nil
}

// UpdateStatus sets the fulfilment status of an order.
func (repo *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	result := repo.db.WithContext(ctx).
		Model(&model.OrderModel{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update order status")
	}
	if result.RowsAffected == 0 {
		return repository.ErrOrderNotFound
	}

	return nil
}

// MarkPaid flips PaymentConfirmed to true. Re-marking a paid order succeeds
// without touching the row, which keeps the operation idempotent.
func (repo *orderRepository) MarkPaid(ctx context.Context, id uuid.UUID) error {
	var count int64
	err := repo.db.WithContext(ctx).
		Model(&model.OrderModel{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to check order before marking paid")
	}
	if count == 0 {
		return repository.ErrOrderNotFound
	}

	err = repo.db.WithContext(ctx).
		Model(&model.OrderModel{}).
		Where("id = ? AND payment_confirmed = false", id).
		Update("payment_confirmed", true).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to mark order paid")
	}

	return nil
}

// --- Mapper Functions ---

// toOrderDomain converts a GORM OrderModel to a domain Order entity.
func toOrderDomain(data *model.OrderModel) *entity.Order {
	if data == nil {
		return nil
	}

	items := make([]entity.OrderItem, 0, len(data.Items))
	for _, item := range data.Items {
		items = append(items, entity.OrderItem{
			ID:        item.ID,
			OrderID:   item.OrderID,
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
		})
	}

	return &entity.Order{
		ID:     data.ID,
		UserID: data.UserID,
		Items:  items,
		Address: entity.ShippingAddress{
			FirstName: data.FirstName,
			LastName:  data.LastName,
			Email:     data.Email,
			Street:    data.Street,
			City:      data.City,
			State:     data.State,
			ZipCode:   data.ZipCode,
			Country:   data.Country,
			Phone:     data.Phone,
		},
		DeliveryFee:      data.DeliveryFee,
		TotalPrice:       data.TotalPrice,
		Status:           data.Status,
		PaymentConfirmed: data.PaymentConfirmed,
		CreatedAt:        data.CreatedAt,
		UpdatedAt:        data.UpdatedAt,
	}
}

func toOrderDomainSlice(data []model.OrderModel) []*entity.Order {
	orders := make([]*entity.Order, 0, len(data))
	for i := range data {
		orders = append(orders, toOrderDomain(&data[i]))
	}

	return orders
}

// fromOrderDomain converts a domain Order entity to a GORM OrderModel.
func fromOrderDomain(data *entity.Order) *model.OrderModel {
	if data == nil {
		return nil
	}

	items := make([]model.OrderItemModel, 0, len(data.Items))
	for _, item := range data.Items {
		items = append(items, model.OrderItemModel{
			ID:        item.ID,
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
		})
	}

	return &model.OrderModel{
		ID:               data.ID,
		UserID:           data.UserID,
		FirstName:        data.Address.FirstName,
		LastName:         data.Address.LastName,
		Email:            data.Address.Email,
		Street:           data.Address.Street,
		City:             data.Address.City,
		State:            data.Address.State,
		ZipCode:          data.Address.ZipCode,
		Country:          data.Address.Country,
		Phone:            data.Address.Phone,
		DeliveryFee:      data.DeliveryFee,
		TotalPrice:       data.TotalPrice,
		Status:           data.Status,
		PaymentConfirmed: data.PaymentConfirmed,
		Items:            items,
	}
}
