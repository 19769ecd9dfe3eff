package middleware

import (
	"log/slog"

	domainerrors "voltcart/internal/domain/errors"
	"voltcart/internal/domain/service"

	"github.com/labstack/echo/v4"
)

// RateLimitMiddleware throttles requests per client IP. It is applied to
// the credential endpoints only, so a flood of login attempts from one
// address cannot be used to probe accounts.
type RateLimitMiddleware struct {
	limiter service.RateLimiter
	logger  *slog.Logger
}

// NewRateLimitMiddleware is the constructor for RateLimitMiddleware.
func NewRateLimitMiddleware(limiter service.RateLimiter, logger *slog.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{limiter: limiter, logger: logger}
}

// Limit rejects the request with 429 once the caller's window budget is
// spent. Limiter backend failures let the request through, auth still
// stands between the caller and anything sensitive.
func (m *RateLimitMiddleware) Limit(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ip := c.RealIP()

		allowed, err := m.limiter.Allow(c.Request().Context(), ip)
		if err != nil {
			m.logger.Warn("rate limiter unavailable, allowing request",
				slog.String("ip", ip),
				slog.Any("error", err),
			)

			return next(c)
		}
		if !allowed {
			return domainerrors.ErrTooManyRequests
		}

		return next(c)
	}
}
