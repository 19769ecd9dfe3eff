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

// FavouriteHandler holds dependencies for favourites handlers.
type FavouriteHandler struct {
	uc     usecase.FavouriteUsecase
	logger *slog.Logger
}

// NewFavouriteHandler is the constructor for FavouriteHandler, injected by Fx.
func NewFavouriteHandler(uc usecase.FavouriteUsecase, logger *slog.Logger) *FavouriteHandler {
	return &FavouriteHandler{uc: uc, logger: logger}
}

// Add marks a product as a favourite of the authenticated user.
func (h *FavouriteHandler) Add(c echo.Context) error {
	userID, err := middleware.UserIDFromContext(c)
	if err != nil {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var input struct {
		ProductID uuid.UUID `json:"productId"`
	}
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid favourite input")
	}

	favourite, err := h.uc.Add(c.Request().Context(), userID, input.ProductID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, favourite, "Added to favourites")
}

// List returns the user's favourites. The server-side list is the source
// of truth the storefront reconciles against after login.
func (h *FavouriteHandler) List(c echo.Context) error {
	userID, err := middleware.UserIDFromContext(c)
	if err != nil {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	favourites, err := h.uc.List(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, favourites, "Favourites retrieved successfully")
}

// Remove deletes one favourite owned by the user.
func (h *FavouriteHandler) Remove(c echo.Context) error {
	userID, err := middleware.UserIDFromContext(c)
	if err != nil {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	favouriteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid favourite ID")
	}

	if err := h.uc.Remove(c.Request().Context(), userID, favouriteID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Removed from favourites")
}
