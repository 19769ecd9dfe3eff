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

// CartHandler holds dependencies for cart handlers.
type CartHandler struct {
	uc     usecase.CartUsecase
	logger *slog.Logger
}

// NewCartHandler is the constructor for CartHandler, injected by Fx.
func NewCartHandler(uc usecase.CartUsecase, logger *slog.Logger) *CartHandler {
	return &CartHandler{uc: uc, logger: logger}
}

// AddToCart adds a product to the user's active cart, merging with an
// existing line for the same product.
func (h *CartHandler) AddToCart(c echo.Context) error {
	userID, err := middleware.UserIDFromContext(c)
	if err != nil {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var input *usecase.AddToCartInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid cart input")
	}

	item, err := h.uc.AddToCart(c.Request().Context(), userID, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, item, "Added to cart")
}

// GetCart returns the user's active cart lines and their subtotal. Lines
// whose product no longer exists or is no longer sellable are excluded.
func (h *CartHandler) GetCart(c echo.Context) error {
	userID, err := middleware.UserIDFromContext(c)
	if err != nil {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	cart, err := h.uc.GetCart(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, cart, "Cart retrieved successfully")
}

// UpdateItem sets the quantity of one cart line.
func (h *CartHandler) UpdateItem(c echo.Context) error {
	userID, err := middleware.UserIDFromContext(c)
	if err != nil {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var input *usecase.UpdateCartItemInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid cart input")
	}

	item, err := h.uc.UpdateItem(c.Request().Context(), userID, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, item, "Cart updated successfully")
}

// RemoveItem deletes one cart line owned by the user.
func (h *CartHandler) RemoveItem(c echo.Context) error {
	userID, err := middleware.UserIDFromContext(c)
	if err != nil {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid cart item ID")
	}

	if err := h.uc.RemoveItem(c.Request().Context(), userID, itemID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Removed from cart")
}
