package impl

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	deliverycontext "voltcart/internal/delivery/context"
	"voltcart/internal/domain/entity"
	domainerrors "voltcart/internal/domain/errors"
	"voltcart/internal/domain/repository"
	"voltcart/internal/domain/service"
	"voltcart/internal/infra/metrics"
	"voltcart/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// paymentService implements the PaymentUsecase interface.
type paymentService struct {
	txManager   repository.TransactionManager
	paymentRepo repository.PaymentRepository
	orderRepo   repository.OrderRepository
	userRepo    repository.UserRepository
	gateway     service.PaymentGateway
	qrService   service.QRCodeService
	publisher   service.EventPublisher
	notifier    service.NotificationService
	logger      *slog.Logger
}

// PaymentServiceParams holds dependencies for PaymentService, injected by Fx.
type PaymentServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	PaymentRepo repository.PaymentRepository
	OrderRepo   repository.OrderRepository
	UserRepo    repository.UserRepository
	Gateway     service.PaymentGateway
	QRService   service.QRCodeService
	Publisher   service.EventPublisher
	Notifier    service.NotificationService
	Logger      *slog.Logger
}

// NewPaymentService is the constructor for paymentService.
func NewPaymentService(params PaymentServiceParams) usecase.PaymentUsecase {
	return &paymentService{
		txManager:   params.TxManager,
		paymentRepo: params.PaymentRepo,
		orderRepo:   params.OrderRepo,
		userRepo:    params.UserRepo,
		gateway:     params.Gateway,
		qrService:   params.QRService,
		publisher:   params.Publisher,
		notifier:    params.Notifier,
		logger:      params.Logger,
	}
}

func (srv *paymentService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// InitializePayment opens a gateway attempt for an unpaid order owned by the
// caller. A failed initiation leaves the order unpaid and retryable.
func (srv *paymentService) InitializePayment(ctx context.Context, userID, orderID uuid.UUID) (*usecase.PaymentInitOutput, error) {
	srv.log(ctx).Info("Initializing payment", slog.Any("orderID", orderID))

	order, err := srv.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, errors.Wrap(domainerrors.ErrOrderNotFound, "order not found")
		}

		return nil, errors.Wrap(err, "failed to load order for payment")
	}
	if order.UserID != userID {
		return nil, errors.Wrap(domainerrors.ErrForbidden, "order belongs to another user")
	}
	if order.PaymentConfirmed {
		return nil, errors.Wrap(domainerrors.ErrConflict, "order already paid")
	}

	customer, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load customer for payment")
	}

	amountPaisa := toPaisa(order.TotalPrice)
	handoff, err := srv.gateway.Initiate(ctx, service.PaymentInitiation{
		AmountPaisa:       amountPaisa,
		PurchaseOrderID:   order.ID.String(),
		PurchaseOrderName: fmt.Sprintf("Order %s", order.ID.String()[:8]),
		CustomerName:      customer.Name,
		CustomerEmail:     customer.Email,
		CustomerPhone:     customer.Phone,
	})
	if err != nil {
		srv.log(ctx).Error("Gateway initiation failed", slog.Any("orderID", orderID), slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrPaymentInitFailed, "gateway initiation failed")
	}

	payment := &entity.Payment{
		OrderID:     order.ID,
		Pidx:        handoff.Pidx,
		AmountPaisa: amountPaisa,
		Status:      entity.PaymentStatusInitiated,
	}
	if err := srv.paymentRepo.Create(ctx, payment); err != nil {
		return nil, errors.Wrap(err, "failed to record payment attempt")
	}

	qr, err := srv.qrService.GeneratePaymentQR(handoff.PaymentURL)
	if err != nil {
		// The handoff URL alone is enough to continue checkout.
		srv.log(ctx).Warn("Failed to render payment QR", slog.Any("orderID", orderID), slog.Any("error", err))
		qr = nil
	}

	return &usecase.PaymentInitOutput{
		Pidx:       handoff.Pidx,
		PaymentURL: handoff.PaymentURL,
		QRCode:     qr,
	}, nil
}

// CompletePayment handles the gateway-return callback. The gateway lookup is
// the only authority: exactly one Lookup runs, and only a completed status
// marks the payment and order paid. Repeat calls for the same pidx settle on
// the stored state without re-marking anything.
func (srv *paymentService) CompletePayment(ctx context.Context, input *usecase.CompletePaymentInput) (*usecase.CompletePaymentOutput, error) {
	srv.log(ctx).Info("Completing payment", slog.String("pidx", input.Pidx), slog.Any("orderID", input.OrderID))

	payment, err := srv.paymentRepo.FindByPidx(ctx, input.Pidx)
	if err != nil {
		if errors.Is(err, repository.ErrPaymentNotFound) {
			return nil, errors.Wrap(domainerrors.ErrPaymentNotFound, "unknown payment index")
		}

		return nil, errors.Wrap(err, "failed to load payment attempt")
	}
	if payment.OrderID != input.OrderID {
		return nil, errors.Wrap(domainerrors.ErrPaymentNotFound, "payment index does not match order")
	}

	order, err := srv.orderRepo.FindByID(ctx, input.OrderID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load order for completion")
	}

	// Already settled: the callback is idempotent.
	if payment.Status == entity.PaymentStatusCompleted {
		return &usecase.CompletePaymentOutput{
			Status:    service.GatewayStatusCompleted,
			Completed: true,
			Order:     order,
		}, nil
	}

	status, err := srv.gateway.Lookup(ctx, input.Pidx)
	if err != nil {
		return nil, errors.Wrap(err, "gateway lookup failed")
	}

	if status.Status != service.GatewayStatusCompleted {
		srv.recordOutcome(ctx, payment, status)
		metrics.PaymentsCompleted.WithLabelValues(status.Status).Inc()

		return &usecase.CompletePaymentOutput{
			Status:    status.Status,
			Completed: false,
			Order:     order,
		}, errors.Wrap(domainerrors.ErrPaymentNotCompleted.WithDetails("status: "+status.Status), "gateway did not confirm payment")
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if updateErr := repoFactory.PaymentRepo().UpdateStatus(ctx, payment.ID, entity.PaymentStatusCompleted, status.TransactionID); updateErr != nil {
			return errors.Wrap(updateErr, "failed to mark payment completed")
		}
		if markErr := repoFactory.OrderRepo().MarkPaid(ctx, order.ID); markErr != nil {
			return errors.Wrap(markErr, "failed to mark order paid")
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute payment completion transaction")
	}

	order.PaymentConfirmed = true
	metrics.PaymentsCompleted.WithLabelValues(service.GatewayStatusCompleted).Inc()

	event := &service.OrderEvent{
		Type:       service.OrderEventPaymentCompleted,
		OrderID:    order.ID.String(),
		UserID:     order.UserID.String(),
		TotalPrice: order.TotalPrice,
		Pidx:       input.Pidx,
		RequestID:  deliverycontext.GetRequestIDFromContext(ctx),
	}
	if pubErr := srv.publisher.PublishOrderEvent(ctx, event); pubErr != nil {
		srv.log(ctx).Warn("Failed to publish payment event", slog.Any("orderID", order.ID), slog.Any("error", pubErr))
	}

	if srv.notifier != nil {
		srv.pushPaymentNotification(ctx, order)
	}

	srv.log(ctx).Info("Payment confirmed", slog.Any("orderID", order.ID), slog.String("pidx", input.Pidx))

	return &usecase.CompletePaymentOutput{
		Status:    service.GatewayStatusCompleted,
		Completed: true,
		Order:     order,
	}, nil
}

func (srv *paymentService) pushPaymentNotification(ctx context.Context, order *entity.Order) {
	topic := "user-" + order.UserID.String()
	if pushErr := srv.notifier.SendToTopic(ctx, topic,
		"Payment received",
		"Your payment was confirmed. We are preparing your order.",
		map[string]string{"order_id": order.ID.String()},
	); pushErr != nil {
		srv.log(ctx).Warn("Failed to push payment notification", slog.Any("orderID", order.ID), slog.Any("error", pushErr))
	}
}

// RecordPayment stores a client-reported payment attempt.
func (srv *paymentService) RecordPayment(ctx context.Context, input *usecase.RecordPaymentInput) (*entity.Payment, error) {
	if _, err := srv.orderRepo.FindByID(ctx, input.OrderID); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, errors.Wrap(domainerrors.ErrOrderNotFound, "order not found")
		}

		return nil, errors.Wrap(err, "failed to load order for payment record")
	}

	status := input.Status
	if status == "" {
		status = entity.PaymentStatusInitiated
	}

	payment := &entity.Payment{
		OrderID:     input.OrderID,
		Pidx:        input.Pidx,
		AmountPaisa: input.AmountPaisa,
		Status:      status,
	}
	if err := srv.paymentRepo.Create(ctx, payment); err != nil {
		return nil, errors.Wrap(err, "failed to record payment")
	}

	return payment, nil
}

// recordOutcome stores a non-completed gateway verdict on the attempt.
func (srv *paymentService) recordOutcome(ctx context.Context, payment *entity.Payment, status *service.PaymentStatus) {
	mapped := entity.PaymentStatusInitiated
	switch status.Status {
	case service.GatewayStatusExpired, service.GatewayStatusFailed:
		mapped = entity.PaymentStatusFailed
	case service.GatewayStatusRefunded:
		mapped = entity.PaymentStatusRefunded
	case service.GatewayStatusPending:
		mapped = entity.PaymentStatusInitiated
	}

	if mapped == payment.Status {
		return
	}
	if err := srv.paymentRepo.UpdateStatus(ctx, payment.ID, mapped, status.TransactionID); err != nil {
		srv.log(ctx).Warn("Failed to record gateway outcome", slog.String("pidx", payment.Pidx), slog.Any("error", err))
	}
}

// toPaisa converts a rupee amount to integer paisa.
func toPaisa(rupees float64) int64 {
	return int64(math.Round(rupees * 100))
}
