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

// ReviewHandler holds dependencies for review handlers.
type ReviewHandler struct {
	uc     usecase.ReviewUsecase
	logger *slog.Logger
}

// NewReviewHandler is the constructor for ReviewHandler, injected by Fx.
func NewReviewHandler(uc usecase.ReviewUsecase, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{uc: uc, logger: logger}
}

// PostReview creates or replaces the user's review for a product.
func (h *ReviewHandler) PostReview(c echo.Context) error {
	userID, err := middleware.UserIDFromContext(c)
	if err != nil {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var input *usecase.PostReviewInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid review input")
	}

	review, err := h.uc.PostReview(c.Request().Context(), userID, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, review, "Review posted successfully")
}

// GetProductReviews returns every review for a product, newest first.
func (h *ReviewHandler) GetProductReviews(c echo.Context) error {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid product ID")
	}

	reviews, err := h.uc.GetProductReviews(c.Request().Context(), productID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, reviews, "Reviews retrieved successfully")
}

// GetUserReview returns the authenticated user's review for a product,
// if one exists.
func (h *ReviewHandler) GetUserReview(c echo.Context) error {
	userID, err := middleware.UserIDFromContext(c)
	if err != nil {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid product ID")
	}

	review, err := h.uc.GetUserReview(c.Request().Context(), userID, productID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, review, "Review retrieved successfully")
}

// AverageRating returns the aggregated rating summary for one product.
func (h *ReviewHandler) AverageRating(c echo.Context) error {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid product ID")
	}

	summary, err := h.uc.AverageRating(c.Request().Context(), productID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, summary, "Rating retrieved successfully")
}

// AverageRatings returns rating summaries for a batch of products in one
// round trip, keyed by product ID.
func (h *ReviewHandler) AverageRatings(c echo.Context) error {
	var input struct {
		ProductIDs []uuid.UUID `json:"productIds"`
	}
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid input")
	}

	summaries, err := h.uc.AverageRatings(c.Request().Context(), input.ProductIDs)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, summaries, "Ratings retrieved successfully")
}
