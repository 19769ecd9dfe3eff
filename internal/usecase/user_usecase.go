// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"io"

	"voltcart/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// VerifyOTPInput carries an email and the code the user received.
type VerifyOTPInput struct {
	Email string
	Code  string
}

// LoginInput defines the data required to start a login. The CAPTCHA token
// is verified before any credential is looked up.
type LoginInput struct {
	Email        string
	Password     string
	CaptchaToken string
	RemoteIP     string
}

// RefreshTokenInput carries the raw refresh token presented by the client.
type RefreshTokenInput struct {
	RefreshToken string
}

// LogoutInput carries the refresh token of the session being ended.
type LogoutInput struct {
	RefreshToken string
}

// UpdateProfileInput defines the mutable profile fields.
type UpdateProfileInput struct {
	Name  string
	Phone string
}

// ResetPasswordInput completes a forgot-password flow: the emailed code
// plus the replacement password.
type ResetPasswordInput struct {
	Email       string
	Code        string
	NewPassword string
}

// UpdatePasswordInput changes the password of an authenticated user.
type UpdatePasswordInput struct {
	CurrentPassword string
	NewPassword     string
}

// --- Output DTOs ---

// RegisterOutput returns the newly created user's basic information.
type RegisterOutput struct {
	User *entity.User
}

// LoginOutput returns the generated tokens after a completed login.
type LoginOutput struct {
	AccessToken  string
	RefreshToken string
	User         *entity.User
}

// RefreshTokenOutput returns the re-issued access token.
type RefreshTokenOutput struct {
	AccessToken string
}

// UserUsecase defines the interface for user-related business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type UserUsecase interface {
	// Register creates an unverified account and emails a registration OTP.
	Register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error)

	// VerifyRegistrationOTP confirms the emailed code and marks the account verified.
	VerifyRegistrationOTP(ctx context.Context, input *VerifyOTPInput) error

	// ResendRegistrationOTP issues a fresh registration code to an unverified account.
	ResendRegistrationOTP(ctx context.Context, email string) error

	// Login verifies the CAPTCHA token, then the credentials, and on success
	// emails a login OTP. No session is issued until the OTP is verified.
	Login(ctx context.Context, input *LoginInput) error

	// VerifyLoginOTP confirms the login code and issues the session tokens.
	VerifyLoginOTP(ctx context.Context, input *VerifyOTPInput) (*LoginOutput, error)

	// ResendLoginOTP issues a fresh login code.
	ResendLoginOTP(ctx context.Context, email string) error

	// RefreshToken exchanges a valid refresh token for a new access token.
	RefreshToken(ctx context.Context, input *RefreshTokenInput) (*RefreshTokenOutput, error)

	// Logout invalidates the session behind the given refresh token.
	Logout(ctx context.Context, input *LogoutInput) error

	// GetProfile loads the user's account data.
	GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error)

	// UpdateProfile changes the user's mutable profile fields.
	UpdateProfile(ctx context.Context, userID uuid.UUID, input *UpdateProfileInput) (*entity.User, error)

	// UpdateProfilePicture stores a new profile image and records its URL.
	UpdateProfilePicture(ctx context.Context, userID uuid.UUID, filename, contentType string, image io.Reader) (*entity.User, error)

	// ForgotPassword emails a password-reset OTP to the account, if it exists.
	ForgotPassword(ctx context.Context, email string) error

	// ResetPassword completes the forgot-password flow and revokes all sessions.
	ResetPassword(ctx context.Context, input *ResetPasswordInput) error

	// UpdatePassword changes an authenticated user's password after
	// re-checking the current one.
	UpdatePassword(ctx context.Context, userID uuid.UUID, input *UpdatePasswordInput) error

	// CheckAdmin re-checks the admin flag against the database.
	CheckAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
}
