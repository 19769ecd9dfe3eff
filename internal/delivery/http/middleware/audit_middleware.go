package middleware

import (
	"log/slog"
	"time"

	"voltcart/internal/domain/entity"
	"voltcart/internal/usecase"

	"github.com/labstack/echo/v4"
)

// AuditMiddleware records an activity log entry for every authenticated
// mutating request. Entries land in MongoDB and feed the admin back
// office; logging failures never fail the request itself.
type AuditMiddleware struct {
	activityUC usecase.ActivityLogUsecase
	userUC     usecase.UserUsecase
	logger     *slog.Logger
}

// NewAuditMiddleware is the constructor for AuditMiddleware.
func NewAuditMiddleware(activityUC usecase.ActivityLogUsecase, userUC usecase.UserUsecase, logger *slog.Logger) *AuditMiddleware {
	return &AuditMiddleware{
		activityUC: activityUC,
		userUC:     userUC,
		logger:     logger,
	}
}

// Record runs the handler, then writes one audit entry for it. Reads are
// skipped, only state-changing methods are worth the storage.
func (m *AuditMiddleware) Record(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := next(c)

		method := c.Request().Method
		if method == "GET" || method == "HEAD" || method == "OPTIONS" {
			return err
		}

		userID, idErr := UserIDFromContext(c)
		if idErr != nil {
			return err
		}

		entry := &entity.ActivityLog{
			UserID:     userID,
			Role:       "user",
			Method:     method,
			Path:       c.Request().URL.Path,
			StatusCode: c.Response().Status,
			IP:         c.RealIP(),
			UserAgent:  c.Request().UserAgent(),
			CreatedAt:  time.Now(),
		}
		if HasRole(c, "admin") {
			entry.Role = "admin"
		}

		ctx := c.Request().Context()
		if user, profileErr := m.userUC.GetProfile(ctx, userID); profileErr == nil {
			entry.Username = user.Name
		}

		if recordErr := m.activityUC.Record(ctx, entry); recordErr != nil {
			m.logger.Warn("failed to record activity log",
				slog.String("path", entry.Path),
				slog.Any("error", recordErr),
			)
		}

		return err
	}
}
