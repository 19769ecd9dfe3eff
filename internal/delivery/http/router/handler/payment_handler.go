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

// PaymentHandler holds dependencies for payment handlers.
type PaymentHandler struct {
	uc     usecase.PaymentUsecase
	logger *slog.Logger
}

// NewPaymentHandler is the constructor for PaymentHandler, injected by Fx.
func NewPaymentHandler(uc usecase.PaymentUsecase, logger *slog.Logger) *PaymentHandler {
	return &PaymentHandler{uc: uc, logger: logger}
}

// InitializeKhalti starts a Khalti checkout for one of the user's orders
// and returns the payment URL together with a QR code for it.
func (h *PaymentHandler) InitializeKhalti(c echo.Context) error {
	userID, err := middleware.UserIDFromContext(c)
	if err != nil {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var input struct {
		OrderID uuid.UUID `json:"orderId"`
	}
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid payment input")
	}

	output, err := h.uc.InitializePayment(c.Request().Context(), userID, input.OrderID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Payment initialized")
}

// CompleteKhalti is the return-URL endpoint Khalti redirects to. It
// verifies the pidx with the gateway and settles the order. Calling it
// again for a settled payment is a no-op success.
func (h *PaymentHandler) CompleteKhalti(c echo.Context) error {
	orderID, err := uuid.Parse(c.QueryParam("orderId"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid order ID")
	}

	input := &usecase.CompletePaymentInput{
		Pidx:    c.QueryParam("pidx"),
		OrderID: orderID,
	}
	if input.Pidx == "" {
		return response.BadRequest(c, "INVALID_INPUT", "pidx is required")
	}

	output, err := h.uc.CompletePayment(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Payment completed")
}

// RecordPayment stores a payment row directly. Admin only, used for
// reconciling out-of-band settlements.
func (h *PaymentHandler) RecordPayment(c echo.Context) error {
	var input *usecase.RecordPaymentInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid payment input")
	}

	payment, err := h.uc.RecordPayment(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, payment, "Payment recorded")
}
