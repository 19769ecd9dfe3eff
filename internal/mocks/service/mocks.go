// Package service provides hand-written testify mocks for the domain
// service interfaces.
package service

import (
	"context"
	"io"
	"time"

	"voltcart/internal/domain/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

func bind(m *mock.Mock, t testingT) {
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
}

// MockPasswordHasher mocks service.PasswordHasher.
type MockPasswordHasher struct{ mock.Mock }

// NewMockPasswordHasher creates the mock bound to t.
func NewMockPasswordHasher(t testingT) *MockPasswordHasher {
	m := &MockPasswordHasher{}
	bind(&m.Mock, t)

	return m
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)

	return args.String(0), args.Error(1)
}

func (m *MockPasswordHasher) Check(password, hash string) bool {
	return m.Called(password, hash).Bool(0)
}

func (m *MockPasswordHasher) ValidatePasswordStrength(password string) error {
	return m.Called(password).Error(0)
}

// MockTokenService mocks service.TokenService.
type MockTokenService struct{ mock.Mock }

// NewMockTokenService creates the mock bound to t.
func NewMockTokenService(t testingT) *MockTokenService {
	m := &MockTokenService{}
	bind(&m.Mock, t)

	return m
}

func (m *MockTokenService) GenerateTokens(userID uuid.UUID, roles []string) (string, string, error) {
	args := m.Called(userID, roles)

	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockTokenService) ValidateAccessToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	claims, _ := args.Get(0).(*service.Claims)

	return claims, args.Error(1)
}

func (m *MockTokenService) ValidateRefreshToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	claims, _ := args.Get(0).(*service.Claims)

	return claims, args.Error(1)
}

func (m *MockTokenService) HashToken(token string) string {
	return m.Called(token).String(0)
}

func (m *MockTokenService) GetRefreshTokenDuration() time.Duration {
	args := m.Called()
	duration, _ := args.Get(0).(time.Duration)

	return duration
}

// MockOTPService mocks service.OTPService.
type MockOTPService struct{ mock.Mock }

// NewMockOTPService creates the mock bound to t.
func NewMockOTPService(t testingT) *MockOTPService {
	m := &MockOTPService{}
	bind(&m.Mock, t)

	return m
}

func (m *MockOTPService) Issue(ctx context.Context, email, purpose string) (string, error) {
	args := m.Called(ctx, email, purpose)

	return args.String(0), args.Error(1)
}

func (m *MockOTPService) Verify(ctx context.Context, email, purpose, code string) error {
	return m.Called(ctx, email, purpose, code).Error(0)
}

// MockCaptchaVerifier mocks service.CaptchaVerifier.
type MockCaptchaVerifier struct{ mock.Mock }

// NewMockCaptchaVerifier creates the mock bound to t.
func NewMockCaptchaVerifier(t testingT) *MockCaptchaVerifier {
	m := &MockCaptchaVerifier{}
	bind(&m.Mock, t)

	return m
}

func (m *MockCaptchaVerifier) Verify(ctx context.Context, token, remoteIP string) error {
	return m.Called(ctx, token, remoteIP).Error(0)
}

// MockMailer mocks service.Mailer.
type MockMailer struct{ mock.Mock }

// NewMockMailer creates the mock bound to t.
func NewMockMailer(t testingT) *MockMailer {
	m := &MockMailer{}
	bind(&m.Mock, t)

	return m
}

func (m *MockMailer) Send(ctx context.Context, to, subject, body string) error {
	return m.Called(ctx, to, subject, body).Error(0)
}

// MockRateLimiter mocks service.RateLimiter.
type MockRateLimiter struct{ mock.Mock }

// NewMockRateLimiter creates the mock bound to t.
func NewMockRateLimiter(t testingT) *MockRateLimiter {
	m := &MockRateLimiter{}
	bind(&m.Mock, t)

	return m
}

func (m *MockRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)

	return args.Bool(0), args.Error(1)
}

// MockImageStore mocks service.ImageStore.
type MockImageStore struct{ mock.Mock }

// NewMockImageStore creates the mock bound to t.
func NewMockImageStore(t testingT) *MockImageStore {
	m := &MockImageStore{}
	bind(&m.Mock, t)

	return m
}

func (m *MockImageStore) Save(ctx context.Context, filename, contentType string, r io.Reader) (string, error) {
	args := m.Called(ctx, filename, contentType, r)

	return args.String(0), args.Error(1)
}

func (m *MockImageStore) Delete(ctx context.Context, url string) error {
	return m.Called(ctx, url).Error(0)
}

// MockPaymentGateway mocks service.PaymentGateway.
type MockPaymentGateway struct{ mock.Mock }

// NewMockPaymentGateway creates the mock bound to t.
func NewMockPaymentGateway(t testingT) *MockPaymentGateway {
	m := &MockPaymentGateway{}
	bind(&m.Mock, t)

	return m
}

func (m *MockPaymentGateway) Initiate(ctx context.Context, req service.PaymentInitiation) (*service.PaymentHandoff, error) {
	args := m.Called(ctx, req)
	handoff, _ := args.Get(0).(*service.PaymentHandoff)

	return handoff, args.Error(1)
}

func (m *MockPaymentGateway) Lookup(ctx context.Context, pidx string) (*service.PaymentStatus, error) {
	args := m.Called(ctx, pidx)
	status, _ := args.Get(0).(*service.PaymentStatus)

	return status, args.Error(1)
}

// MockQRCodeService mocks service.QRCodeService.
type MockQRCodeService struct{ mock.Mock }

// NewMockQRCodeService creates the mock bound to t.
func NewMockQRCodeService(t testingT) *MockQRCodeService {
	m := &MockQRCodeService{}
	bind(&m.Mock, t)

	return m
}

func (m *MockQRCodeService) GeneratePaymentQR(paymentURL string) ([]byte, error) {
	args := m.Called(paymentURL)
	png, _ := args.Get(0).([]byte)

	return png, args.Error(1)
}

// MockEventPublisher mocks service.EventPublisher.
type MockEventPublisher struct{ mock.Mock }

// NewMockEventPublisher creates the mock bound to t.
func NewMockEventPublisher(t testingT) *MockEventPublisher {
	m := &MockEventPublisher{}
	bind(&m.Mock, t)

	return m
}

func (m *MockEventPublisher) PublishOrderEvent(ctx context.Context, event *service.OrderEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *MockEventPublisher) Close() error {
	return m.Called().Error(0)
}

// MockNotificationService mocks service.NotificationService.
type MockNotificationService struct{ mock.Mock }

// NewMockNotificationService creates the mock bound to t.
func NewMockNotificationService(t testingT) *MockNotificationService {
	m := &MockNotificationService{}
	bind(&m.Mock, t)

	return m
}

func (m *MockNotificationService) SendToTopic(ctx context.Context, topic, title, body string, data map[string]string) error {
	return m.Called(ctx, topic, title, body, data).Error(0)
}
