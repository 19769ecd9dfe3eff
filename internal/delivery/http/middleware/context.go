package middleware

import (
	"slices"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// UserIDFromContext returns the authenticated user's ID set by Authenticate.
func UserIDFromContext(c echo.Context) (uuid.UUID, error) {
	userID, ok := c.Get("userID").(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, errors.New("user ID missing from request context")
	}

	return userID, nil
}

// HasRole reports whether the authenticated user carries the given role.
func HasRole(c echo.Context, role string) bool {
	roles, ok := c.Get("roles").([]string)
	if !ok {
		return false
	}

	return slices.Contains(roles, role)
}
