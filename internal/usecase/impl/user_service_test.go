package impl

import (
	"context"
	"testing"

	"voltcart/internal/domain/entity"
	domainerrors "voltcart/internal/domain/errors"
	"voltcart/internal/domain/repository"
	"voltcart/internal/domain/service"
	mockRepo "voltcart/internal/mocks/repository"
	mockSvc "voltcart/internal/mocks/service"
	"voltcart/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// userServiceFixtures holds all test dependencies for user service tests.
type userServiceFixtures struct {
	service          usecase.UserUsecase
	txManager        *mockRepo.MockTransactionManager
	userRepo         *mockRepo.MockUserRepository
	credentialRepo   *mockRepo.MockCredentialRepository
	refreshTokenRepo *mockRepo.MockRefreshTokenRepository
	hasher           *mockSvc.MockPasswordHasher
	tokenService     *mockSvc.MockTokenService
	otpService       *mockSvc.MockOTPService
	captchaVerifier  *mockSvc.MockCaptchaVerifier
	mailer           *mockSvc.MockMailer
	imageStore       *mockSvc.MockImageStore
}

func createTestUserService(t *testing.T, maxActiveSessions, passwordHistory int) userServiceFixtures {
	txManager := mockRepo.NewMockTransactionManager(t)
	userRepo := mockRepo.NewMockUserRepository(t)
	credentialRepo := mockRepo.NewMockCredentialRepository(t)
	refreshTokenRepo := mockRepo.NewMockRefreshTokenRepository(t)
	hasher := mockSvc.NewMockPasswordHasher(t)
	tokenService := mockSvc.NewMockTokenService(t)
	otpService := mockSvc.NewMockOTPService(t)
	captchaVerifier := mockSvc.NewMockCaptchaVerifier(t)
	mailer := mockSvc.NewMockMailer(t)
	imageStore := mockSvc.NewMockImageStore(t)

	svc := NewUserService(UserServiceParams{
		TxManager:        txManager,
		UserRepo:         userRepo,
		CredentialRepo:   credentialRepo,
		RefreshTokenRepo: refreshTokenRepo,
		Hasher:           hasher,
		TokenService:     tokenService,
		OTPService:       otpService,
		CaptchaVerifier:  captchaVerifier,
		Mailer:           mailer,
		ImageStore:       imageStore,
		Config:           newTestAuthConfig(maxActiveSessions, passwordHistory),
		Logger:           newDiscardLogger(),
	})

	return userServiceFixtures{
		service:          svc,
		txManager:        txManager,
		userRepo:         userRepo,
		credentialRepo:   credentialRepo,
		refreshTokenRepo: refreshTokenRepo,
		hasher:           hasher,
		tokenService:     tokenService,
		otpService:       otpService,
		captchaVerifier:  captchaVerifier,
		mailer:           mailer,
		imageStore:       imageStore,
	}
}

func TestUserService_Register_Success(t *testing.T) {
	fx := createTestUserService(t, 0, 0)

	ctx := context.Background()
	input := &usecase.RegisterInput{
		Name:     "Test User",
		Email:    "test@example.com",
		Phone:    "9800000000",
		Password: "Password123!",
	}

	fx.hasher.On("ValidatePasswordStrength", input.Password).Return(nil)
	fx.hasher.On("Hash", input.Password).Return("hashed_password", nil)

	txUserRepo := mockRepo.NewMockUserRepository(t)
	txCredentialRepo := mockRepo.NewMockCredentialRepository(t)
	txHistoryRepo := mockRepo.NewMockPasswordHistoryRepository(t)

	txUserRepo.On("FindByEmail", ctx, input.Email).Return(nil, repository.ErrUserNotFound)
	txUserRepo.On("Create", ctx, mock.AnythingOfType("*entity.User")).
		Run(func(args mock.Arguments) {
			user := args.Get(1).(*entity.User)
			user.ID = uuid.New()
		}).
		Return(nil)
	txCredentialRepo.On("Create", ctx, mock.AnythingOfType("*entity.Credential")).Return(nil)
	txHistoryRepo.On("Add", ctx, mock.AnythingOfType("*entity.PasswordRecord")).Return(nil)

	fx.txManager.Factory = &mockRepo.MockRepositoryFactory{
		Users:           txUserRepo,
		Credentials:     txCredentialRepo,
		PasswordHistory: txHistoryRepo,
	}
	fx.txManager.On("Execute", ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).Return(nil)

	fx.otpService.On("Issue", ctx, input.Email, service.OTPPurposeRegistration).Return("123456", nil)
	fx.mailer.On("Send", ctx, input.Email, mock.AnythingOfType("string"), mock.AnythingOfType("string")).Return(nil)

	output, err := fx.service.Register(ctx, input)

	require.NoError(t, err)
	assert.NotNil(t, output)
	assert.Equal(t, input.Email, output.User.Email)
	assert.NotEqual(t, uuid.Nil, output.User.ID)
}

func TestUserService_Register_WeakPassword(t *testing.T) {
	fx := createTestUserService(t, 0, 0)

	ctx := context.Background()
	fx.hasher.On("ValidatePasswordStrength", "weak").Return(domainerrors.ErrPasswordStrength)

	output, err := fx.service.Register(ctx, &usecase.RegisterInput{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "weak",
	})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrPasswordStrength)
	// Nothing is hashed or persisted for a rejected password.
	fx.hasher.AssertNotCalled(t, "Hash", mock.Anything)
	fx.txManager.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestUserService_Register_MailFailureIsNonFatal(t *testing.T) {
	fx := createTestUserService(t, 0, 0)

	ctx := context.Background()
	input := &usecase.RegisterInput{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "Password123!",
	}

	fx.hasher.On("ValidatePasswordStrength", input.Password).Return(nil)
	fx.hasher.On("Hash", input.Password).Return("hashed_password", nil)

	txUserRepo := mockRepo.NewMockUserRepository(t)
	txCredentialRepo := mockRepo.NewMockCredentialRepository(t)
	txHistoryRepo := mockRepo.NewMockPasswordHistoryRepository(t)
	txUserRepo.On("FindByEmail", ctx, input.Email).Return(nil, repository.ErrUserNotFound)
	txUserRepo.On("Create", ctx, mock.AnythingOfType("*entity.User")).Return(nil)
	txCredentialRepo.On("Create", ctx, mock.AnythingOfType("*entity.Credential")).Return(nil)
	txHistoryRepo.On("Add", ctx, mock.AnythingOfType("*entity.PasswordRecord")).Return(nil)

	fx.txManager.Factory = &mockRepo.MockRepositoryFactory{
		Users:           txUserRepo,
		Credentials:     txCredentialRepo,
		PasswordHistory: txHistoryRepo,
	}
	fx.txManager.On("Execute", ctx, mock.Anything).Return(nil)

	fx.otpService.On("Issue", ctx, input.Email, service.OTPPurposeRegistration).Return("", errors.New("redis down"))

	// The account is created even when the code cannot be delivered.
	output, err := fx.service.Register(ctx, input)

	require.NoError(t, err)
	assert.NotNil(t, output)
}

func TestUserService_Login_MissingCaptcha(t *testing.T) {
	fx := createTestUserService(t, 0, 0)

	err := fx.service.Login(context.Background(), &usecase.LoginInput{
		Email:    "test@example.com",
		Password: "Password123!",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrCaptchaRequired)
	// No credential may be touched before the CAPTCHA gate.
	fx.userRepo.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
	fx.credentialRepo.AssertNotCalled(t, "FindByUserID", mock.Anything, mock.Anything)
}

func TestUserService_Login_CaptchaRejected(t *testing.T) {
	fx := createTestUserService(t, 0, 0)

	ctx := context.Background()
	fx.captchaVerifier.On("Verify", ctx, "bad-token", "10.0.0.1").Return(service.ErrCaptchaInvalid)

	err := fx.service.Login(ctx, &usecase.LoginInput{
		Email:        "test@example.com",
		Password:     "Password123!",
		CaptchaToken: "bad-token",
		RemoteIP:     "10.0.0.1",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrCaptchaFailed)
	fx.userRepo.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
	fx.credentialRepo.AssertNotCalled(t, "FindByUserID", mock.Anything, mock.Anything)
}

func TestUserService_Login_SendsOTPInsteadOfTokens(t *testing.T) {
	fx := createTestUserService(t, 0, 0)

	ctx := context.Background()
	userID := uuid.New()
	input := &usecase.LoginInput{
		Email:        "test@example.com",
		Password:     "Password123!",
		CaptchaToken: "good-token",
		RemoteIP:     "10.0.0.1",
	}

	fx.captchaVerifier.On("Verify", ctx, input.CaptchaToken, input.RemoteIP).Return(nil)
	fx.userRepo.On("FindByEmail", ctx, input.Email).Return(&entity.User{
		ID:            userID,
		Email:         input.Email,
		EmailVerified: true,
	}, nil)
	fx.credentialRepo.On("FindByUserID", ctx, userID).Return(&entity.Credential{
		UserID:       userID,
		PasswordHash: "hashed_password",
	}, nil)
	fx.hasher.On("Check", input.Password, "hashed_password").Return(true)
	fx.otpService.On("Issue", ctx, input.Email, service.OTPPurposeLogin).Return("654321", nil)
	fx.mailer.On("Send", ctx, input.Email, mock.AnythingOfType("string"), mock.AnythingOfType("string")).Return(nil)

	err := fx.service.Login(ctx, input)

	require.NoError(t, err)
	// Tokens appear only after the OTP round trip.
	fx.tokenService.AssertNotCalled(t, "GenerateTokens", mock.Anything, mock.Anything)
}

func TestUserService_Login_UnverifiedEmail(t *testing.T) {
	fx := createTestUserService(t, 0, 0)

	ctx := context.Background()
	fx.captchaVerifier.On("Verify", ctx, "good-token", "").Return(nil)
	fx.userRepo.On("FindByEmail", ctx, "test@example.com").Return(&entity.User{
		ID:    uuid.New(),
		Email: "test@example.com",
	}, nil)

	err := fx.service.Login(ctx, &usecase.LoginInput{
		Email:        "test@example.com",
		Password:     "Password123!",
		CaptchaToken: "good-token",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrEmailNotVerified)
}

func TestUserService_Login_WrongPassword(t *testing.T) {
	fx := createTestUserService(t, 0, 0)

	ctx := context.Background()
	userID := uuid.New()
	fx.captchaVerifier.On("Verify", ctx, "good-token", "").Return(nil)
	fx.userRepo.On("FindByEmail", ctx, "test@example.com").Return(&entity.User{
		ID:            userID,
		Email:         "test@example.com",
		EmailVerified: true,
	}, nil)
	fx.credentialRepo.On("FindByUserID", ctx, userID).Return(&entity.Credential{
		UserID:       userID,
		PasswordHash: "hashed_password",
	}, nil)
	fx.hasher.On("Check", "WrongPassword1!", "hashed_password").Return(false)

	err := fx.service.Login(ctx, &usecase.LoginInput{
		Email:        "test@example.com",
		Password:     "WrongPassword1!",
		CaptchaToken: "good-token",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	fx.otpService.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserService_VerifyLoginOTP_Success(t *testing.T) {
	fx := createTestUserService(t, 0, 0)

	ctx := context.Background()
	userID := uuid.New()
	user := &entity.User{ID: userID, Email: "test@example.com", EmailVerified: true}

	fx.otpService.On("Verify", ctx, user.Email, service.OTPPurposeLogin, "654321").Return(nil)
	fx.userRepo.On("FindByEmail", ctx, user.Email).Return(user, nil)
	fx.tokenService.On("GenerateTokens", userID, []string{"user"}).Return("access-token", "refresh-token", nil)
	fx.tokenService.On("HashToken", "refresh-token").Return("refresh-hash")
	fx.tokenService.On("GetRefreshTokenDuration").Return(defaultTestRefreshTTL)
	fx.refreshTokenRepo.On("CreateRefreshToken", ctx, mock.AnythingOfType("*entity.RefreshToken")).Return(nil)

	output, err := fx.service.VerifyLoginOTP(ctx, &usecase.VerifyOTPInput{Email: user.Email, Code: "654321"})

	require.NoError(t, err)
	assert.Equal(t, "access-token", output.AccessToken)
	assert.Equal(t, "refresh-token", output.RefreshToken)
	assert.Equal(t, user, output.User)
}

func TestUserService_VerifyLoginOTP_WrongCode(t *testing.T) {
	fx := createTestUserService(t, 0, 0)

	ctx := context.Background()
	fx.otpService.On("Verify", ctx, "test@example.com", service.OTPPurposeLogin, "000000").
		Return(service.ErrOTPMismatch)

	output, err := fx.service.VerifyLoginOTP(ctx, &usecase.VerifyOTPInput{Email: "test@example.com", Code: "000000"})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrOTPInvalid)
	fx.tokenService.AssertNotCalled(t, "GenerateTokens", mock.Anything, mock.Anything)
}

func TestUserService_VerifyLoginOTP_SessionLimit(t *testing.T) {
	fx := createTestUserService(t, 2, 0)

	ctx := context.Background()
	userID := uuid.New()
	user := &entity.User{ID: userID, Email: "test@example.com", EmailVerified: true}

	fx.otpService.On("Verify", ctx, user.Email, service.OTPPurposeLogin, "654321").Return(nil)
	fx.userRepo.On("FindByEmail", ctx, user.Email).Return(user, nil)
	fx.tokenService.On("GenerateTokens", userID, []string{"user"}).Return("access-token", "refresh-token", nil)

	txRefreshRepo := mockRepo.NewMockRefreshTokenRepository(t)
	txRefreshRepo.On("CountActiveSessionsByUserID", ctx, userID).Return(2, nil)

	fx.txManager.Factory = &mockRepo.MockRepositoryFactory{RefreshTokens: txRefreshRepo}
	fx.txManager.On("Execute", ctx, mock.Anything).Return(nil)

	output, err := fx.service.VerifyLoginOTP(ctx, &usecase.VerifyOTPInput{Email: user.Email, Code: "654321"})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrSessionLimitExceeded)
	txRefreshRepo.AssertNotCalled(t, "CreateRefreshToken", mock.Anything, mock.Anything)
}

func TestUserService_RefreshToken_Success(t *testing.T) {
	fx := createTestUserService(t, 0, 0)

	ctx := context.Background()
	userID := uuid.New()
	user := &entity.User{ID: userID, Email: "test@example.com", EmailVerified: true}

	fx.tokenService.On("ValidateRefreshToken", "refresh-token").
		Return(&service.Claims{UserID: userID, Type: "refresh"}, nil)
	fx.tokenService.On("HashToken", "refresh-token").Return("refresh-hash")
	fx.refreshTokenRepo.On("FindRefreshTokenByHash", ctx, "refresh-hash").
		Return(&entity.RefreshToken{UserID: userID, TokenHash: "refresh-hash"}, nil)
	fx.userRepo.On("FindByID", ctx, userID).Return(user, nil)
	fx.tokenService.On("GenerateTokens", userID, []string{"user"}).Return("new-access", "unused-refresh", nil)

	output, err := fx.service.RefreshToken(ctx, &usecase.RefreshTokenInput{RefreshToken: "refresh-token"})

	require.NoError(t, err)
	assert.Equal(t, "new-access", output.AccessToken)
}

func TestUserService_RefreshToken_UnknownToken(t *testing.T) {
	fx := createTestUserService(t, 0, 0)

	ctx := context.Background()
	userID := uuid.New()

	fx.tokenService.On("ValidateRefreshToken", "refresh-token").
		Return(&service.Claims{UserID: userID, Type: "refresh"}, nil)
	fx.tokenService.On("HashToken", "refresh-token").Return("refresh-hash")
	fx.refreshTokenRepo.On("FindRefreshTokenByHash", ctx, "refresh-hash").
		Return(nil, repository.ErrRefreshTokenNotFound)

	output, err := fx.service.RefreshToken(ctx, &usecase.RefreshTokenInput{RefreshToken: "refresh-token"})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrRefreshTokenNotFound)
}

func TestUserService_ForgotPassword_UnknownEmailIsSilent(t *testing.T) {
	fx := createTestUserService(t, 0, 0)

	ctx := context.Background()
	fx.userRepo.On("FindByEmail", ctx, "nobody@example.com").Return(nil, repository.ErrUserNotFound)

	err := fx.service.ForgotPassword(ctx, "nobody@example.com")

	require.NoError(t, err)
	// Unknown emails get no code, and no distinguishable error either.
	fx.otpService.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserService_ResetPassword_RejectsReusedPassword(t *testing.T) {
	fx := createTestUserService(t, 0, 3)

	ctx := context.Background()
	userID := uuid.New()
	user := &entity.User{ID: userID, Email: "test@example.com", EmailVerified: true}

	fx.otpService.On("Verify", ctx, user.Email, service.OTPPurposePasswordReset, "111111").Return(nil)
	fx.userRepo.On("FindByEmail", ctx, user.Email).Return(user, nil)
	fx.hasher.On("ValidatePasswordStrength", "Recycled123!").Return(nil)

	txHistoryRepo := mockRepo.NewMockPasswordHistoryRepository(t)
	txHistoryRepo.On("Recent", ctx, userID, 3).Return([]*entity.PasswordRecord{
		{UserID: userID, PasswordHash: "old-hash"},
	}, nil)

	fx.txManager.Factory = &mockRepo.MockRepositoryFactory{PasswordHistory: txHistoryRepo}
	fx.txManager.On("Execute", ctx, mock.Anything).Return(nil)

	fx.hasher.On("Check", "Recycled123!", "old-hash").Return(true)

	err := fx.service.ResetPassword(ctx, &usecase.ResetPasswordInput{
		Email:       user.Email,
		Code:        "111111",
		NewPassword: "Recycled123!",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrPasswordReused)
	fx.hasher.AssertNotCalled(t, "Hash", mock.Anything)
}

func TestUserService_CheckAdmin(t *testing.T) {
	fx := createTestUserService(t, 0, 0)

	ctx := context.Background()
	adminID := uuid.New()
	userID := uuid.New()

	fx.userRepo.On("FindByID", ctx, adminID).Return(&entity.User{ID: adminID, IsAdmin: true}, nil)
	fx.userRepo.On("FindByID", ctx, userID).Return(&entity.User{ID: userID}, nil)

	isAdmin, err := fx.service.CheckAdmin(ctx, adminID)
	require.NoError(t, err)
	assert.True(t, isAdmin)

	isAdmin, err = fx.service.CheckAdmin(ctx, userID)
	require.NoError(t, err)
	assert.False(t, isAdmin)
}
