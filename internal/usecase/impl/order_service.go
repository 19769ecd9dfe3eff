package impl

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"regexp"

	"voltcart/config"
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

const defaultDeliveryFee = 40

//nolint:gochecknoglobals
var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\d{10}$`)
)

// Allowed fulfilment statuses for admin updates.
//
//nolint:gochecknoglobals
var orderStatuses = map[string]struct{}{
	entity.OrderStatusPending:   {},
	entity.OrderStatusShipped:   {},
	entity.OrderStatusDelivered: {},
	entity.OrderStatusCancelled: {},
}

// orderService implements the OrderUsecase interface.
type orderService struct {
	txManager   repository.TransactionManager
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	publisher   service.EventPublisher
	notifier    service.NotificationService
	deliveryFee float64
	logger      *slog.Logger
}

// OrderServiceParams holds dependencies for OrderService, injected by Fx.
type OrderServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	OrderRepo repository.OrderRepository
	CartRepo  repository.CartRepository
	Publisher service.EventPublisher
	Notifier  service.NotificationService
	Config    *config.Config
	Logger    *slog.Logger
}

// NewOrderService is the constructor for orderService.
func NewOrderService(params OrderServiceParams) usecase.OrderUsecase {
	deliveryFee := float64(defaultDeliveryFee)
	if params.Config != nil && params.Config.Checkout != nil && params.Config.Checkout.DeliveryFee > 0 {
		deliveryFee = params.Config.Checkout.DeliveryFee
	}

	return &orderService{
		txManager:   params.TxManager,
		orderRepo:   params.OrderRepo,
		cartRepo:    params.CartRepo,
		publisher:   params.Publisher,
		notifier:    params.Notifier,
		deliveryFee: deliveryFee,
		logger:      params.Logger,
	}
}

func (srv *orderService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// PlaceOrder converts the active cart into an order. The validation gate
// runs entirely on the submission and the loaded cart before the order
// transaction opens; a rejected submission performs no order writes.
func (srv *orderService) PlaceOrder(ctx context.Context, userID uuid.UUID, input *usecase.PlaceOrderInput) (*entity.Order, error) {
	srv.log(ctx).Info("Placing order", slog.Any("userID", userID))

	if err := validateAddress(input.Address); err != nil {
		return nil, err
	}

	lines, err := srv.cartRepo.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load cart for checkout")
	}

	items, subtotal, err := buildOrderItems(lines)
	if err != nil {
		return nil, err
	}

	total := subtotal + srv.deliveryFee
	if input.ClientTotal != 0 && math.Abs(input.ClientTotal-total) > 0.009 {
		srv.log(ctx).Warn("Checkout total mismatch", slog.Any("userID", userID), slog.Float64("client", input.ClientTotal), slog.Float64("server", total))

		return nil, errors.Wrap(domainerrors.ErrTotalMismatch, "client total does not match server computation")
	}

	order := &entity.Order{
		UserID:      userID,
		Items:       items,
		Address:     input.Address,
		DeliveryFee: srv.deliveryFee,
		TotalPrice:  total,
		Status:      entity.OrderStatusPending,
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if createErr := repoFactory.OrderRepo().Create(ctx, order); createErr != nil {
			return errors.Wrap(createErr, "failed to create order")
		}

		productRepo := repoFactory.ProductRepo()
		for _, item := range order.Items {
			if decErr := productRepo.DecrementStock(ctx, item.ProductID, item.Quantity); decErr != nil {
				if errors.Is(decErr, domainerrors.ErrOutOfStock) {
					return errors.Wrap(domainerrors.ErrOutOfStock, "stock changed during checkout")
				}

				return errors.Wrap(decErr, "failed to decrement stock")
			}
		}

		if markErr := repoFactory.CartRepo().MarkOrdered(ctx, userID); markErr != nil {
			return errors.Wrap(markErr, "failed to clear cart after checkout")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to execute checkout transaction", slog.Any("userID", userID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute checkout transaction")
	}

	metrics.OrdersPlaced.Inc()
	srv.publishEvent(ctx, &service.OrderEvent{
		Type:       service.OrderEventPlaced,
		OrderID:    order.ID.String(),
		UserID:     userID.String(),
		TotalPrice: order.TotalPrice,
		Status:     order.Status,
	})

	srv.log(ctx).Info("Order placed", slog.Any("orderID", order.ID), slog.Float64("total", order.TotalPrice))

	return order, nil
}

// GetOrder loads one order. Non-admin callers may only read their own.
func (srv *orderService) GetOrder(ctx context.Context, access usecase.OrderAccess, orderID uuid.UUID) (*entity.Order, error) {
	order, err := srv.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !access.IsAdmin && order.UserID != access.UserID {
		return nil, errors.Wrap(domainerrors.ErrForbidden, "order belongs to another user")
	}

	return order, nil
}

// ListByUser loads the user's orders, newest first.
func (srv *orderService) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error) {
	orders, err := srv.orderRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list user orders")
	}

	return orders, nil
}

// ListAll loads every order. Admin listing.
func (srv *orderService) ListAll(ctx context.Context) ([]*entity.Order, error) {
	orders, err := srv.orderRepo.FindAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}

	return orders, nil
}

// UpdateStatus sets an order's fulfilment status, publishes the change, and
// pushes a notification to the buyer's devices.
func (srv *orderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (*entity.Order, error) {
	if _, ok := orderStatuses[status]; !ok {
		return nil, errors.Wrap(domainerrors.ErrOrderValidation.WithDetails("status: "+status), "unknown order status")
	}

	order, err := srv.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := srv.orderRepo.UpdateStatus(ctx, orderID, status); err != nil {
		return nil, errors.Wrap(err, "failed to update order status")
	}
	order.Status = status

	srv.publishEvent(ctx, &service.OrderEvent{
		Type:       service.OrderEventStatusChanged,
		OrderID:    order.ID.String(),
		UserID:     order.UserID.String(),
		TotalPrice: order.TotalPrice,
		Status:     status,
	})

	if srv.notifier == nil {
		return order, nil
	}

	topic := "user-" + order.UserID.String()
	if pushErr := srv.notifier.SendToTopic(ctx, topic,
		"Order update",
		fmt.Sprintf("Your order is now %s.", status),
		map[string]string{"order_id": order.ID.String(), "status": status},
	); pushErr != nil {
		srv.log(ctx).Warn("Failed to push order status notification", slog.Any("orderID", orderID), slog.Any("error", pushErr))
	}

	return order, nil
}

func (srv *orderService) findOrder(ctx context.Context, orderID uuid.UUID) (*entity.Order, error) {
	order, err := srv.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, errors.Wrap(domainerrors.ErrOrderNotFound, "order not found")
		}

		return nil, errors.Wrap(err, "failed to load order")
	}

	return order, nil
}

func (srv *orderService) publishEvent(ctx context.Context, event *service.OrderEvent) {
	event.RequestID = deliverycontext.GetRequestIDFromContext(ctx)
	if err := srv.publisher.PublishOrderEvent(ctx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish order event", slog.String("type", event.Type), slog.String("orderID", event.OrderID), slog.Any("error", err))
	}
}

// validateAddress applies the checkout gate to the submitted address.
func validateAddress(address entity.ShippingAddress) error {
	if !address.Complete() {
		return errors.Wrap(domainerrors.ErrOrderValidation, "address has blank fields")
	}
	if !emailPattern.MatchString(address.Email) {
		return errors.Wrap(domainerrors.ErrOrderValidation.WithDetails("field: email"), "malformed email")
	}
	if !phonePattern.MatchString(address.Phone) {
		return errors.Wrap(domainerrors.ErrOrderValidation.WithDetails("field: phone"), "phone must be 10 digits")
	}

	return nil
}

// buildOrderItems snapshots the cart lines into order lines. Every line must
// resolve to a sellable product with a positive quantity; an invalid line
// rejects the whole checkout rather than silently shrinking the order.
func buildOrderItems(lines []*entity.CartItem) ([]entity.OrderItem, float64, error) {
	if len(lines) == 0 {
		return nil, 0, errors.Wrap(domainerrors.ErrEmptyCart, "checkout with empty cart")
	}

	items := make([]entity.OrderItem, 0, len(lines))
	var subtotal float64

	for _, line := range lines {
		if !line.Valid() {
			return nil, 0, errors.Wrap(domainerrors.ErrOrderValidation, "cart line no longer valid")
		}
		if line.Quantity > line.Product.Stock {
			return nil, 0, errors.Wrap(domainerrors.ErrOutOfStock, "cart quantity exceeds stock")
		}

		items = append(items, entity.OrderItem{
			ProductID: line.ProductID,
			Name:      line.Product.Name,
			Price:     line.Product.Price,
			Quantity:  line.Quantity,
		})
		subtotal += line.LineTotal()
	}

	return items, subtotal, nil
}
