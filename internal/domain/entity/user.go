// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core entity in the system, representing a unique "person" or "account".
// It contains only the most fundamental identity information shared across all roles.
type User struct {
	ID                uuid.UUID // The Global Unique Identifier (GUID) for the user.
	Email             string    // The user's primary contact email, used as the login identifier.
	Name              string    // The user's display name or real name.
	Phone             string    // The user's contact phone number, collected at registration.
	IsAdmin           bool      // Whether this account holds the admin role for back-office access.
	EmailVerified     bool      // Whether the registration OTP has been confirmed for this account.
	ProfilePictureURL string    // URL of the user's uploaded profile picture. Empty if none was uploaded.
	CreatedAt         time.Time // Timestamp of when this user account was created.
	UpdatedAt         time.Time // Timestamp of the last modification to this user's data.
}
