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

// paymentRepository implements repository.PaymentRepository using GORM.
type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository is the constructor for paymentRepository.
func NewPaymentRepository(db *gorm.DB) repository.PaymentRepository {
	return &paymentRepository{db: db}
}

// Create persists a new payment attempt.
func (repo *paymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	paymentM := fromPaymentDomain(payment)

	if err := repo.db.WithContext(ctx).Create(paymentM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrConflict.WrapMessage("payment with this pidx already exists")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrOrderNotFound.WrapMessage("payment references missing order")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create payment")
	}

	payment.ID = paymentM.ID
	payment.CreatedAt = paymentM.CreatedAt
	payment.UpdatedAt = paymentM.UpdatedAt

	return nil
}

// FindByPidx retrieves a payment attempt by the gateway's payment index.
func (repo *paymentRepository) FindByPidx(ctx context.Context, pidx string) (*entity.Payment, error) {
	var paymentM model.PaymentModel
	err := repo.db.WithContext(ctx).
		Where("pidx = ?", pidx).
		First(&paymentM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrPaymentNotFound
		}

		return nil, errors.Wrap(err, "failed to find payment by pidx")
	}

	return toPaymentDomain(&paymentM), nil
}

// FindByOrder retrieves all payment attempts for an order, newest first.
func (repo *paymentRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]*entity.Payment, error) {
	var paymentsM []model.PaymentModel
	err := repo.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at DESC").
		Find(&paymentsM).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list payments by order")
	}

	payments := make([]*entity.Payment, 0, len(paymentsM))
	for i := range paymentsM {
		payments = append(payments, toPaymentDomain(&paymentsM[i]))
	}

	return payments, nil
}

// UpdateStatus sets the status and gateway transaction ID of an attempt.
func (repo *paymentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status, transactionID string) error {
	result := repo.db.WithContext(ctx).
		Model(&model.PaymentModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":         status,
			"transaction_id": transactionID,
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update payment status")
	}
	if result.RowsAffected == 0 {
		return repository.ErrPaymentNotFound
	}

	return nil
}

// --- Mapper Functions ---

// toPaymentDomain converts a GORM PaymentModel to a domain Payment entity.
func toPaymentDomain(data *model.PaymentModel) *entity.Payment {
	if data == nil {
		return nil
	}

	return &entity.Payment{
		ID:            data.ID,
		OrderID:       data.OrderID,
		Pidx:          data.Pidx,
		AmountPaisa:   data.AmountPaisa,
		Status:        data.Status,
		TransactionID: data.TransactionID,
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
	}
}

// fromPaymentDomain converts a domain Payment entity to a GORM PaymentModel.
func fromPaymentDomain(data *entity.Payment) *model.PaymentModel {
	if data == nil {
		return nil
	}

	return &model.PaymentModel{
		ID:            data.ID,
		OrderID:       data.OrderID,
		Pidx:          data.Pidx,
		AmountPaisa:   data.AmountPaisa,
		Status:        data.Status,
		TransactionID: data.TransactionID,
	}
}
