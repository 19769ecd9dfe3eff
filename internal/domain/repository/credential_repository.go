package repository

import (
	"context"
	"errors"

	"voltcart/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrCredentialNotFound is returned when a user has no stored credential.
var ErrCredentialNotFound = errors.New("credential not found")

// CredentialRepository manages email/password login records.
type CredentialRepository interface {
	// Create persists a new credential for a user.
	Create(ctx context.Context, credential *entity.Credential) error

	// FindByUserID retrieves the credential belonging to a user.
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Credential, error)

	// UpdatePasswordHash replaces the stored hash for a user's credential.
	UpdatePasswordHash(ctx context.Context, userID uuid.UUID, passwordHash string) error
}

// PasswordHistoryRepository keeps retired password hashes for reuse checks.
type PasswordHistoryRepository interface {
	// Add records a password hash at the time it becomes active.
	Add(ctx context.Context, record *entity.PasswordRecord) error

	// Recent returns up to limit history entries for a user, newest first.
	Recent(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.PasswordRecord, error)
}
