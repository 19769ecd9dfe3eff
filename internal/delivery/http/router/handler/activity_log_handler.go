package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"voltcart/internal/delivery/http/response"
	"voltcart/internal/domain/repository"
	"voltcart/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ActivityLogHandler serves the admin audit trail.
type ActivityLogHandler struct {
	uc     usecase.ActivityLogUsecase
	logger *slog.Logger
}

// NewActivityLogHandler is the constructor for ActivityLogHandler, injected by Fx.
func NewActivityLogHandler(uc usecase.ActivityLogUsecase, logger *slog.Logger) *ActivityLogHandler {
	return &ActivityLogHandler{uc: uc, logger: logger}
}

// List returns audit entries, newest first. Admin only. Supports optional
// username, role and limit query filters.
func (h *ActivityLogHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	logs, err := h.uc.List(c.Request().Context(), repository.ActivityLogQuery{
		Username: c.QueryParam("username"),
		Role:     c.QueryParam("role"),
		Limit:    limit,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, logs, "Activity logs retrieved successfully")
}
