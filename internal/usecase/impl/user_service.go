// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"voltcart/config"
	deliverycontext "voltcart/internal/delivery/context"
	"voltcart/internal/domain/entity"
	domainerrors "voltcart/internal/domain/errors"
	"voltcart/internal/domain/repository"
	"voltcart/internal/domain/service"
	"voltcart/internal/infra/metrics"
	"voltcart/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// userService implements the UserUsecase interface.
type userService struct {
	txManager         repository.TransactionManager
	userRepo          repository.UserRepository
	credentialRepo    repository.CredentialRepository
	refreshTokenRepo  repository.RefreshTokenRepository
	hasher            service.PasswordHasher
	tokenService      service.TokenService
	otpService        service.OTPService
	captchaVerifier   service.CaptchaVerifier
	mailer            service.Mailer
	imageStore        service.ImageStore
	maxActiveSessions int
	passwordHistory   int
	logger            *slog.Logger
}

// UserServiceParams holds dependencies for UserService, injected by Fx.
type UserServiceParams struct {
	fx.In

	TxManager        repository.TransactionManager
	UserRepo         repository.UserRepository
	CredentialRepo   repository.CredentialRepository
	RefreshTokenRepo repository.RefreshTokenRepository
	Hasher           service.PasswordHasher
	TokenService     service.TokenService
	OTPService       service.OTPService
	CaptchaVerifier  service.CaptchaVerifier
	Mailer           service.Mailer
	ImageStore       service.ImageStore
	Config           *config.Config
	Logger           *slog.Logger
}

// NewUserService is the constructor for userService. It receives all dependencies as interfaces.
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	maxActiveSessions := 0
	passwordHistory := 0
	if params.Config != nil && params.Config.Auth != nil {
		maxActiveSessions = params.Config.Auth.MaxActiveSessions
		passwordHistory = params.Config.Auth.PasswordHistory
	}

	return &userService{
		txManager:         params.TxManager,
		userRepo:          params.UserRepo,
		credentialRepo:    params.CredentialRepo,
		refreshTokenRepo:  params.RefreshTokenRepo,
		hasher:            params.Hasher,
		tokenService:      params.TokenService,
		otpService:        params.OTPService,
		captchaVerifier:   params.CaptchaVerifier,
		mailer:            params.Mailer,
		imageStore:        params.ImageStore,
		maxActiveSessions: maxActiveSessions,
		passwordHistory:   passwordHistory,
		logger:            params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates an unverified account with its credential, then emails
// the registration OTP.
func (srv *userService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	srv.log(ctx).Info("Starting registration", slog.String("email", input.Email))

	if err := srv.hasher.ValidatePasswordStrength(input.Password); err != nil {
		srv.log(ctx).Warn("Password validation failed during registration", slog.String("email", input.Email), slog.Any("error", err))

		return nil, err
	}

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password during registration")
	}

	var registeredUser *entity.User
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()
		credentialRepo := repoFactory.CredentialRepo()
		historyRepo := repoFactory.PasswordHistoryRepo()

		_, findErr := userRepo.FindByEmail(ctx, input.Email)
		if findErr == nil {
			return errors.Wrap(domainerrors.ErrUserAlreadyExists, "email already registered")
		}
		if !errors.Is(findErr, repository.ErrUserNotFound) {
			return errors.Wrap(findErr, "failed to check existing account")
		}

		newUser := &entity.User{
			Name:  input.Name,
			Email: input.Email,
			Phone: input.Phone,
		}
		if createErr := userRepo.Create(ctx, newUser); createErr != nil {
			return errors.Wrap(createErr, "failed to create user during registration")
		}

		if createErr := credentialRepo.Create(ctx, &entity.Credential{
			UserID:       newUser.ID,
			PasswordHash: hashedPassword,
		}); createErr != nil {
			return errors.Wrap(createErr, "failed to create credential during registration")
		}

		if addErr := historyRepo.Add(ctx, &entity.PasswordRecord{
			UserID:       newUser.ID,
			PasswordHash: hashedPassword,
		}); addErr != nil {
			return errors.Wrap(addErr, "failed to record password history during registration")
		}

		registeredUser = newUser

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to execute registration transaction", slog.String("email", input.Email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute registration transaction")
	}

	if err := srv.issueAndDeliverOTP(ctx, input.Email, service.OTPPurposeRegistration); err != nil {
		// The account exists; the code can be re-requested via resend.
		srv.log(ctx).Warn("Failed to deliver registration OTP", slog.String("email", input.Email), slog.Any("error", err))
	}

	srv.log(ctx).Debug("Registration completed", slog.Any("userID", registeredUser.ID))

	return &usecase.RegisterOutput{User: registeredUser}, nil
}

// VerifyRegistrationOTP confirms the emailed code and marks the account verified.
func (srv *userService) VerifyRegistrationOTP(ctx context.Context, input *usecase.VerifyOTPInput) error {
	if err := srv.otpService.Verify(ctx, input.Email, service.OTPPurposeRegistration, input.Code); err != nil {
		if errors.Is(err, service.ErrOTPMismatch) {
			return errors.Wrap(domainerrors.ErrOTPInvalid, "registration code rejected")
		}

		return errors.Wrap(err, "failed to verify registration code")
	}

	user, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		return errors.Wrap(err, "failed to load user for verification")
	}

	if user.EmailVerified {
		return nil
	}

	user.EmailVerified = true
	if err := srv.userRepo.Update(ctx, user); err != nil {
		return errors.Wrap(err, "failed to mark account verified")
	}

	srv.log(ctx).Info("Account verified", slog.Any("userID", user.ID))

	return nil
}

// ResendRegistrationOTP issues a fresh registration code to an unverified account.
func (srv *userService) ResendRegistrationOTP(ctx context.Context, email string) error {
	user, err := srv.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return errors.Wrap(domainerrors.ErrUserNotFound, "no account for email")
		}

		return errors.Wrap(err, "failed to load user for OTP resend")
	}
	if user.EmailVerified {
		return errors.Wrap(domainerrors.ErrConflict, "account already verified")
	}

	return srv.issueAndDeliverOTP(ctx, email, service.OTPPurposeRegistration)
}

// Login verifies the CAPTCHA before any credential is touched, checks the
// password, and emails a login OTP. Tokens are issued only by VerifyLoginOTP.
func (srv *userService) Login(ctx context.Context, input *usecase.LoginInput) error {
	srv.log(ctx).Debug("Starting login", slog.String("email", input.Email))

	if input.CaptchaToken == "" {
		return errors.Wrap(domainerrors.ErrCaptchaRequired, "login without captcha token")
	}
	if err := srv.captchaVerifier.Verify(ctx, input.CaptchaToken, input.RemoteIP); err != nil {
		if errors.Is(err, service.ErrCaptchaInvalid) {
			return errors.Wrap(domainerrors.ErrCaptchaFailed, "captcha rejected")
		}

		return errors.Wrap(err, "failed to verify captcha")
	}

	user, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
		}

		return errors.Wrap(err, "failed to load user for login")
	}
	if !user.EmailVerified {
		return errors.Wrap(domainerrors.ErrEmailNotVerified, "login before verification")
	}

	credential, err := srv.credentialRepo.FindByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrCredentialNotFound) {
			return errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
		}

		return errors.Wrap(err, "failed to load credential for login")
	}

	// bcrypt comparison is CPU-bound, keep it outside any transaction.
	if !srv.hasher.Check(input.Password, credential.PasswordHash) {
		srv.log(ctx).Warn("Login failed", slog.String("email", input.Email))

		return errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	if err := srv.issueAndDeliverOTP(ctx, input.Email, service.OTPPurposeLogin); err != nil {
		return errors.Wrap(err, "failed to deliver login code")
	}

	srv.log(ctx).Info("Login code sent", slog.Any("userID", user.ID))

	return nil
}

// VerifyLoginOTP confirms the login code and issues the session tokens.
func (srv *userService) VerifyLoginOTP(ctx context.Context, input *usecase.VerifyOTPInput) (*usecase.LoginOutput, error) {
	if err := srv.otpService.Verify(ctx, input.Email, service.OTPPurposeLogin, input.Code); err != nil {
		if errors.Is(err, service.ErrOTPMismatch) {
			return nil, errors.Wrap(domainerrors.ErrOTPInvalid, "login code rejected")
		}

		return nil, errors.Wrap(err, "failed to verify login code")
	}

	user, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load user after login code")
	}

	accessToken, refreshTokenString, err := srv.tokenService.GenerateTokens(user.ID, rolesFor(user))
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate tokens")
	}

	if err := srv.persistRefreshToken(ctx, user.ID, refreshTokenString); err != nil {
		return nil, err
	}

	srv.log(ctx).Debug("User logged in successfully", slog.Any("userID", user.ID))

	return &usecase.LoginOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshTokenString,
		User:         user,
	}, nil
}

// ResendLoginOTP issues a fresh login code.
func (srv *userService) ResendLoginOTP(ctx context.Context, email string) error {
	user, err := srv.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return errors.Wrap(domainerrors.ErrInvalidCredentials, "no pending login for email")
		}

		return errors.Wrap(err, "failed to load user for OTP resend")
	}

	if err := srv.issueAndDeliverOTP(ctx, user.Email, service.OTPPurposeLogin); err != nil {
		return errors.Wrap(err, "failed to deliver login code")
	}

	return nil
}

// RefreshToken handles the process of issuing a new access token using a refresh token.
// The refresh token remains unchanged for security reasons.
func (srv *userService) RefreshToken(ctx context.Context, input *usecase.RefreshTokenInput) (*usecase.RefreshTokenOutput, error) {
	srv.log(ctx).Info("Attempting to refresh access token")

	claims, err := srv.tokenService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrRefreshTokenInvalid, "invalid refresh token")
	}

	tokenHash := srv.tokenService.HashToken(input.RefreshToken)
	if _, err := srv.refreshTokenRepo.FindRefreshTokenByHash(ctx, tokenHash); err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) {
			return nil, errors.Wrap(domainerrors.ErrRefreshTokenNotFound, "refresh token not found")
		}
		if errors.Is(err, repository.ErrRefreshTokenExpired) {
			return nil, errors.Wrap(domainerrors.ErrRefreshTokenExpired, "refresh token expired")
		}

		return nil, errors.Wrap(err, "failed to look up refresh token")
	}

	user, err := srv.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find user for token refresh")
	}

	// Only a new access token is minted; the refresh token stays unchanged.
	newAccessToken, _, err := srv.tokenService.GenerateTokens(user.ID, rolesFor(user))
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate new access token")
	}

	return &usecase.RefreshTokenOutput{AccessToken: newAccessToken}, nil
}

// Logout handles the process of invalidating a user's session by deleting their refresh token.
func (srv *userService) Logout(ctx context.Context, input *usecase.LogoutInput) error {
	srv.log(ctx).Info("Attempting to log out")

	if _, err := srv.tokenService.ValidateRefreshToken(input.RefreshToken); err != nil {
		// Even if the token is invalid, we can proceed to delete it from the database.
		srv.log(ctx).Warn("Logout with invalid token", slog.Any("error", err))
	}

	tokenHash := srv.tokenService.HashToken(input.RefreshToken)
	if err := srv.refreshTokenRepo.DeleteRefreshTokenByHash(ctx, tokenHash); err != nil {
		return errors.Wrap(err, "failed to delete refresh token")
	}

	srv.log(ctx).Info("Successfully logged out")

	return nil
}

// GetProfile loads the user's account data.
func (srv *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(domainerrors.ErrUserNotFound, "profile not found")
		}

		return nil, errors.Wrap(err, "failed to load profile")
	}

	return user, nil
}

// UpdateProfile changes the user's mutable profile fields.
func (srv *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, input *usecase.UpdateProfileInput) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load user for profile update")
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Phone != "" {
		user.Phone = input.Phone
	}

	if err := srv.userRepo.Update(ctx, user); err != nil {
		return nil, errors.Wrap(err, "failed to update profile")
	}

	return user, nil
}

// UpdateProfilePicture stores a new profile image and records its URL.
func (srv *userService) UpdateProfilePicture(ctx context.Context, userID uuid.UUID, filename, contentType string, image io.Reader) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load user for picture update")
	}

	url, err := srv.imageStore.Save(ctx, filename, contentType, image)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrImageUploadFailed.WrapMessage(err.Error()), "failed to store profile picture")
	}

	previous := user.ProfilePictureURL
	user.ProfilePictureURL = url
	if err := srv.userRepo.Update(ctx, user); err != nil {
		return nil, errors.Wrap(err, "failed to record profile picture")
	}

	if previous != "" {
		if delErr := srv.imageStore.Delete(ctx, previous); delErr != nil {
			srv.log(ctx).Warn("Failed to delete previous profile picture", slog.String("url", previous), slog.Any("error", delErr))
		}
	}

	return user, nil
}

// ForgotPassword emails a password-reset OTP. A missing account is treated
// as success so the endpoint does not reveal which emails are registered.
func (srv *userService) ForgotPassword(ctx context.Context, email string) error {
	_, err := srv.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.log(ctx).Debug("Forgot-password for unknown email", slog.String("email", email))

			return nil
		}

		return errors.Wrap(err, "failed to load user for password reset")
	}

	return srv.issueAndDeliverOTP(ctx, email, service.OTPPurposePasswordReset)
}

// ResetPassword completes the forgot-password flow and revokes all sessions.
func (srv *userService) ResetPassword(ctx context.Context, input *usecase.ResetPasswordInput) error {
	if err := srv.otpService.Verify(ctx, input.Email, service.OTPPurposePasswordReset, input.Code); err != nil {
		if errors.Is(err, service.ErrOTPMismatch) {
			return errors.Wrap(domainerrors.ErrOTPInvalid, "reset code rejected")
		}

		return errors.Wrap(err, "failed to verify reset code")
	}

	user, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		return errors.Wrap(err, "failed to load user for password reset")
	}

	if err := srv.rotatePassword(ctx, user.ID, input.NewPassword); err != nil {
		return err
	}

	// A reset invalidates every session the old password may have opened.
	if err := srv.refreshTokenRepo.DeleteRefreshTokensByUserID(ctx, user.ID); err != nil {
		srv.log(ctx).Warn("Failed to revoke sessions after password reset", slog.Any("userID", user.ID), slog.Any("error", err))
	}

	srv.log(ctx).Info("Password reset completed", slog.Any("userID", user.ID))

	return nil
}

// UpdatePassword changes an authenticated user's password after re-checking
// the current one.
func (srv *userService) UpdatePassword(ctx context.Context, userID uuid.UUID, input *usecase.UpdatePasswordInput) error {
	credential, err := srv.credentialRepo.FindByUserID(ctx, userID)
	if err != nil {
		return errors.Wrap(err, "failed to load credential for password update")
	}

	if !srv.hasher.Check(input.CurrentPassword, credential.PasswordHash) {
		return errors.Wrap(domainerrors.ErrInvalidCredentials, "current password mismatch")
	}

	return srv.rotatePassword(ctx, userID, input.NewPassword)
}

// CheckAdmin re-checks the admin flag against the database.
func (srv *userService) CheckAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		return false, errors.Wrap(err, "failed to load user for admin check")
	}

	return user.IsAdmin, nil
}

// rotatePassword validates strength and history, then swaps the stored hash
// and appends the history entry in one transaction.
func (srv *userService) rotatePassword(ctx context.Context, userID uuid.UUID, newPassword string) error {
	if err := srv.hasher.ValidatePasswordStrength(newPassword); err != nil {
		return err
	}

	if srv.passwordHistory > 0 {
		records, err := srv.txHistory(ctx, userID)
		if err != nil {
			return err
		}
		for _, record := range records {
			if srv.hasher.Check(newPassword, record.PasswordHash) {
				return errors.Wrap(domainerrors.ErrPasswordReused, "password matches a recent one")
			}
		}
	}

	newHash, err := srv.hasher.Hash(newPassword)
	if err != nil {
		return errors.Wrap(err, "failed to hash new password")
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if updateErr := repoFactory.CredentialRepo().UpdatePasswordHash(ctx, userID, newHash); updateErr != nil {
			return errors.Wrap(updateErr, "failed to update password hash")
		}

		if addErr := repoFactory.PasswordHistoryRepo().Add(ctx, &entity.PasswordRecord{
			UserID:       userID,
			PasswordHash: newHash,
		}); addErr != nil {
			return errors.Wrap(addErr, "failed to record password history")
		}

		return nil
	})
	if err != nil {
		return errors.Wrap(err, "failed to execute password rotation transaction")
	}

	return nil
}

func (srv *userService) txHistory(ctx context.Context, userID uuid.UUID) ([]*entity.PasswordRecord, error) {
	var records []*entity.PasswordRecord

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		var recentErr error
		records, recentErr = repoFactory.PasswordHistoryRepo().Recent(ctx, userID, srv.passwordHistory)
		if recentErr != nil {
			return errors.Wrap(recentErr, "failed to load password history")
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute password history transaction")
	}

	return records, nil
}

// persistRefreshToken stores the session, enforcing the active-session cap
// inside one transaction when a cap is configured.
func (srv *userService) persistRefreshToken(ctx context.Context, userID uuid.UUID, refreshTokenString string) error {
	newToken := func() *entity.RefreshToken {
		return &entity.RefreshToken{
			UserID:    userID,
			TokenHash: srv.tokenService.HashToken(refreshTokenString),
			ExpiresAt: time.Now().Add(srv.tokenService.GetRefreshTokenDuration()),
		}
	}

	if srv.maxActiveSessions <= 0 {
		// No session limit: direct insert avoids unnecessary transaction overhead.
		if err := srv.refreshTokenRepo.CreateRefreshToken(ctx, newToken()); err != nil {
			return errors.Wrap(err, "failed to store refresh token")
		}

		return nil
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		refreshRepo := repoFactory.RefreshTokenRepo()

		activeSessions, countErr := refreshRepo.CountActiveSessionsByUserID(ctx, userID)
		if countErr != nil {
			return errors.Wrap(countErr, "failed to count active sessions")
		}
		if activeSessions >= srv.maxActiveSessions {
			return errors.Wrap(domainerrors.ErrSessionLimitExceeded, "active session limit exceeded")
		}

		if createErr := refreshRepo.CreateRefreshToken(ctx, newToken()); createErr != nil {
			return errors.Wrap(createErr, "failed to store refresh token")
		}

		return nil
	})
	if err != nil {
		return errors.Wrap(err, "failed to execute session transaction")
	}

	return nil
}

// issueAndDeliverOTP generates a code for the purpose and emails it.
func (srv *userService) issueAndDeliverOTP(ctx context.Context, email, purpose string) error {
	code, err := srv.otpService.Issue(ctx, email, purpose)
	if err != nil {
		return errors.Wrap(err, "failed to issue verification code")
	}

	metrics.OTPIssued.WithLabelValues(purpose).Inc()

	subject, body := otpMessage(purpose, code)
	if err := srv.mailer.Send(ctx, email, subject, body); err != nil {
		return errors.Wrap(err, "failed to send verification code")
	}

	return nil
}

func otpMessage(purpose, code string) (subject, body string) {
	switch purpose {
	case service.OTPPurposeLogin:
		subject = "Your login code"
	case service.OTPPurposePasswordReset:
		subject = "Your password reset code"
	default:
		subject = "Your verification code"
	}

	body = fmt.Sprintf("Your one-time code is %s. It expires shortly; do not share it with anyone.", code)

	return subject, body
}

// rolesFor maps the account's admin flag onto token role claims.
func rolesFor(user *entity.User) []string {
	roles := []string{"user"}
	if user.IsAdmin {
		roles = append(roles, "admin")
	}

	return roles
}
