package auth

import (
	"testing"

	"voltcart/config"

	"github.com/stretchr/testify/assert"
)

func testHasherConfig() *config.Config {
	return &config.Config{
		PasswordStrength: &config.PasswordStrengthConfig{
			MinLength:        8,
			MaxLength:        72,
			RequireUppercase: true,
			RequireLowercase: true,
			RequireNumbers:   true,
			RequireSpecial:   true,
		},
	}
}

func TestBcryptHasher_HashAndCheck(t *testing.T) {
	hasher := NewBcryptHasher(testHasherConfig())

	password := "StrongPass123!"
	hash, err := hasher.Hash(password)
	assert.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, password, hash)

	assert.True(t, hasher.Check(password, hash))
	assert.False(t, hasher.Check("WrongPass123!", hash))
}

func TestBcryptHasher_HashProducesUniqueSalts(t *testing.T) {
	hasher := NewBcryptHasher(testHasherConfig())

	password := "StrongPass123!"
	hash1, err := hasher.Hash(password)
	assert.NoError(t, err)
	hash2, err := hasher.Hash(password)
	assert.NoError(t, err)

	assert.NotEqual(t, hash1, hash2)
	assert.True(t, hasher.Check(password, hash1))
	assert.True(t, hasher.Check(password, hash2))
}

func TestBcryptHasher_ValidatePasswordStrength(t *testing.T) {
	hasher := NewBcryptHasher(testHasherConfig())

	weakPasswords := []string{
		"123",         // Too short
		"password123", // No uppercase
		"PASSWORD123", // No lowercase
		"PasswordABC", // No numbers
		"Password123", // No special characters
	}

	for _, weak := range weakPasswords {
		err := hasher.ValidatePasswordStrength(weak)
		assert.Error(t, err, "expected error for weak password: %s", weak)
	}

	assert.NoError(t, hasher.ValidatePasswordStrength("StrongPass123!"))
}

func TestBcryptHasher_NoPolicyAcceptsAnything(t *testing.T) {
	hasher := NewBcryptHasher(&config.Config{})

	assert.NoError(t, hasher.ValidatePasswordStrength("abc"))
}
