// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Credential represents a user's email/password login record.
type Credential struct {
	ID           uuid.UUID // The unique ID for this specific credential record itself.
	UserID       uuid.UUID // Links this credential to the User it belongs to.
	PasswordHash string    // Stores the bcrypt-hashed password.
	UpdatedAt    time.Time // Timestamp of the last password change.
	CreatedAt    time.Time // Timestamp of when this credential was created.
}

// RefreshToken represents a long-lived, authorized user session.
// It is used to obtain a new Access Token after the old one expires, without requiring credentials.
type RefreshToken struct {
	ID        uuid.UUID // The unique ID for this specific refresh token record.
	UserID    uuid.UUID // Links this session to the User it belongs to.
	TokenHash string    // Stores a SHA-256 hash of the raw refresh token for secure comparison in the database.
	ExpiresAt time.Time // The exact time when this refresh token will expire and become invalid.
	CreatedAt time.Time // Timestamp of when this session was created (i.e., when the user logged in).
}

// PasswordRecord is a retired password hash kept for reuse checks.
// The most recent entries are compared against a proposed new password so
// users cannot rotate back to something they used before.
type PasswordRecord struct {
	ID           uuid.UUID // The unique ID for this history entry.
	UserID       uuid.UUID // Links this entry to the User it belongs to.
	PasswordHash string    // The bcrypt hash of the retired password.
	CreatedAt    time.Time // When the password was set (not when it was retired).
}
