package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"voltcart/internal/domain/service"
	"voltcart/internal/usecase"

	"github.com/labstack/echo/v4"
)

// AuthMiddleware provides middleware for JWT authentication and authorization.
type AuthMiddleware struct {
	tokenSvc service.TokenService
	userUC   usecase.UserUsecase
	logger   *slog.Logger
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService, userUC usecase.UserUsecase, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc, userUC: userUC, logger: logger}
}

// Authenticate is the core middleware function that validates the JWT access token.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Authorization header is missing"})
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid token format, must be Bearer token"})
		}

		claims, err := m.tokenSvc.ValidateAccessToken(tokenString)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or expired token"})
		}

		// Set user info on the context for handlers to use
		c.Set("userID", claims.UserID)
		c.Set("roles", claims.Roles)

		return next(c)
	}
}

// RequireAdmin gates admin-only routes. The admin flag is re-checked
// against the database on every request, so a revoked admin loses access
// immediately rather than at token expiry. Lookup failures deny access.
// It must be used AFTER the Authenticate middleware.
func (m *AuthMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := UserIDFromContext(c)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "User ID missing from token"})
		}

		isAdmin, err := m.userUC.CheckAdmin(c.Request().Context(), userID)
		if err != nil {
			m.logger.Warn("admin check failed, denying access",
				slog.String("user_id", userID.String()),
				slog.Any("error", err),
			)

			return c.JSON(http.StatusForbidden, map[string]string{"error": "Permission denied: could not verify admin role"})
		}
		if !isAdmin {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "Permission denied: require 'admin' role"})
		}

		return next(c)
	}
}
