package handler

import (
	"log/slog"
	"net/http"

	"voltcart/internal/delivery/http/middleware"
	"voltcart/internal/delivery/http/response"
	"voltcart/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// OrderHandler holds dependencies for order handlers.
type OrderHandler struct {
	uc     usecase.OrderUsecase
	logger *slog.Logger
}

// NewOrderHandler is the constructor for OrderHandler, injected by Fx.
func NewOrderHandler(uc usecase.OrderUsecase, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{uc: uc, logger: logger}
}

// PlaceOrder converts the user's active cart into an order. The shipping
// address and contact fields are validated before anything is written.
func (h *OrderHandler) PlaceOrder(c echo.Context) error {
	userID, err := middleware.UserIDFromContext(c)
	if err != nil {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var input *usecase.PlaceOrderInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid order input")
	}

	order, err := h.uc.PlaceOrder(c.Request().Context(), userID, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, order, "Order placed successfully")
}

// GetOrder returns a single order. Owners see their own orders, admins
// see any order.
func (h *OrderHandler) GetOrder(c echo.Context) error {
	userID, err := middleware.UserIDFromContext(c)
	if err != nil {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid order ID")
	}

	access := usecase.OrderAccess{
		UserID:  userID,
		IsAdmin: middleware.HasRole(c, "admin"),
	}

	order, err := h.uc.GetOrder(c.Request().Context(), access, orderID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, order, "Order retrieved successfully")
}

// ListUserOrders returns the authenticated user's orders, newest first.
func (h *OrderHandler) ListUserOrders(c echo.Context) error {
	userID, err := middleware.UserIDFromContext(c)
	if err != nil {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	orders, err := h.uc.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, orders, "Orders retrieved successfully")
}

// ListAllOrders returns every order in the system. Admin only.
func (h *OrderHandler) ListAllOrders(c echo.Context) error {
	orders, err := h.uc.ListAll(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, orders, "Orders retrieved successfully")
}

// UpdateStatus transitions an order's fulfilment status. Admin only.
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid order ID")
	}

	var input struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid status input")
	}

	order, err := h.uc.UpdateStatus(c.Request().Context(), orderID, input.Status)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, order, "Order status updated")
}
