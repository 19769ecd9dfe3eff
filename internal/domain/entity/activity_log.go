package entity

import (
	"time"

	"github.com/google/uuid"
)

// ActivityLog is one audit entry recorded for a handled API request.
// Entries are written to MongoDB and surfaced in the admin back office.
type ActivityLog struct {
	ID         string    // Storage-assigned document ID, hex string.
	UserID     uuid.UUID // The authenticated user, zero for anonymous requests.
	Username   string    // Display name of the user at the time of the request.
	Role       string    // "admin" or "user".
	Method     string    // HTTP method.
	Path       string    // Request path.
	StatusCode int       // Response status code.
	IP         string    // Client IP address.
	UserAgent  string    // Client user agent string.
	CreatedAt  time.Time // When the request was handled.
}
