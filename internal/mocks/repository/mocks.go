// Package repository provides hand-written testify mocks for the domain
// repository interfaces. Constructors bind the mock to the test and assert
// expectations on cleanup.
package repository

import (
	"context"

	"voltcart/internal/domain/entity"
	"voltcart/internal/domain/repository"

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

// MockTransactionManager mocks repository.TransactionManager. By default it
// runs the given function against the factory configured via Factory.
type MockTransactionManager struct {
	mock.Mock

	// Factory is handed to the transaction function when Execute is
	// expected with mock.AnythingOfType("func(repository.RepositoryFactory) error").
	Factory repository.RepositoryFactory
}

// NewMockTransactionManager creates the mock bound to t.
func NewMockTransactionManager(t testingT) *MockTransactionManager {
	m := &MockTransactionManager{}
	bind(&m.Mock, t)

	return m
}

// Execute mocks the transactional wrapper. When no explicit return error is
// set, the transaction function runs against the configured Factory and its
// error is returned, mirroring the real manager's behavior.
func (m *MockTransactionManager) Execute(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
	args := m.Called(ctx, fn)
	if err := args.Error(0); err != nil {
		return err
	}
	if m.Factory != nil {
		return fn(m.Factory)
	}

	return nil
}

// MockRepositoryFactory mocks repository.RepositoryFactory by returning
// fixed repository instances.
type MockRepositoryFactory struct {
	Users           repository.UserRepository
	Credentials     repository.CredentialRepository
	PasswordHistory repository.PasswordHistoryRepository
	RefreshTokens   repository.RefreshTokenRepository
	Products        repository.ProductRepository
	Carts           repository.CartRepository
	Orders          repository.OrderRepository
	Reviews         repository.ReviewRepository
	Favourites      repository.FavouriteRepository
	Payments        repository.PaymentRepository
}

func (f *MockRepositoryFactory) UserRepo() repository.UserRepository { return f.Users }

func (f *MockRepositoryFactory) CredentialRepo() repository.CredentialRepository {
	return f.Credentials
}

func (f *MockRepositoryFactory) PasswordHistoryRepo() repository.PasswordHistoryRepository {
	return f.PasswordHistory
}

func (f *MockRepositoryFactory) RefreshTokenRepo() repository.RefreshTokenRepository {
	return f.RefreshTokens
}

func (f *MockRepositoryFactory) ProductRepo() repository.ProductRepository { return f.Products }

func (f *MockRepositoryFactory) CartRepo() repository.CartRepository { return f.Carts }

func (f *MockRepositoryFactory) OrderRepo() repository.OrderRepository { return f.Orders }

func (f *MockRepositoryFactory) ReviewRepo() repository.ReviewRepository { return f.Reviews }

func (f *MockRepositoryFactory) FavouriteRepo() repository.FavouriteRepository {
	return f.Favourites
}

func (f *MockRepositoryFactory) PaymentRepo() repository.PaymentRepository { return f.Payments }

// MockUserRepository mocks repository.UserRepository.
type MockUserRepository struct{ mock.Mock }

// NewMockUserRepository creates the mock bound to t.
func NewMockUserRepository(t testingT) *MockUserRepository {
	m := &MockUserRepository{}
	bind(&m.Mock, t)

	return m
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*entity.User)

	return user, args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*entity.User)

	return user, args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *entity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *entity.User) error {
	return m.Called(ctx, user).Error(0)
}

// MockCredentialRepository mocks repository.CredentialRepository.
type MockCredentialRepository struct{ mock.Mock }

// NewMockCredentialRepository creates the mock bound to t.
func NewMockCredentialRepository(t testingT) *MockCredentialRepository {
	m := &MockCredentialRepository{}
	bind(&m.Mock, t)

	return m
}

func (m *MockCredentialRepository) Create(ctx context.Context, credential *entity.Credential) error {
	return m.Called(ctx, credential).Error(0)
}

func (m *MockCredentialRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Credential, error) {
	args := m.Called(ctx, userID)
	credential, _ := args.Get(0).(*entity.Credential)

	return credential, args.Error(1)
}

func (m *MockCredentialRepository) UpdatePasswordHash(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	return m.Called(ctx, userID, passwordHash).Error(0)
}

// MockPasswordHistoryRepository mocks repository.PasswordHistoryRepository.
type MockPasswordHistoryRepository struct{ mock.Mock }

// NewMockPasswordHistoryRepository creates the mock bound to t.
func NewMockPasswordHistoryRepository(t testingT) *MockPasswordHistoryRepository {
	m := &MockPasswordHistoryRepository{}
	bind(&m.Mock, t)

	return m
}

func (m *MockPasswordHistoryRepository) Add(ctx context.Context, record *entity.PasswordRecord) error {
	return m.Called(ctx, record).Error(0)
}

func (m *MockPasswordHistoryRepository) Recent(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.PasswordRecord, error) {
	args := m.Called(ctx, userID, limit)
	records, _ := args.Get(0).([]*entity.PasswordRecord)

	return records, args.Error(1)
}

// MockRefreshTokenRepository mocks repository.RefreshTokenRepository.
type MockRefreshTokenRepository struct{ mock.Mock }

// NewMockRefreshTokenRepository creates the mock bound to t.
func NewMockRefreshTokenRepository(t testingT) *MockRefreshTokenRepository {
	m := &MockRefreshTokenRepository{}
	bind(&m.Mock, t)

	return m
}

func (m *MockRefreshTokenRepository) CreateRefreshToken(ctx context.Context, token *entity.RefreshToken) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockRefreshTokenRepository) FindRefreshTokenByHash(ctx context.Context, tokenHash string) (*entity.RefreshToken, error) {
	args := m.Called(ctx, tokenHash)
	token, _ := args.Get(0).(*entity.RefreshToken)

	return token, args.Error(1)
}

func (m *MockRefreshTokenRepository) FindRefreshTokensByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.RefreshToken, error) {
	args := m.Called(ctx, userID)
	tokens, _ := args.Get(0).([]*entity.RefreshToken)

	return tokens, args.Error(1)
}

func (m *MockRefreshTokenRepository) DeleteRefreshToken(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRefreshTokenRepository) DeleteRefreshTokenByHash(ctx context.Context, tokenHash string) error {
	return m.Called(ctx, tokenHash).Error(0)
}

func (m *MockRefreshTokenRepository) DeleteRefreshTokensByUserID(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockRefreshTokenRepository) DeleteExpiredRefreshTokens(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockRefreshTokenRepository) CountActiveSessionsByUserID(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)

	return args.Int(0), args.Error(1)
}

// MockProductRepository mocks repository.ProductRepository.
type MockProductRepository struct{ mock.Mock }

// NewMockProductRepository creates the mock bound to t.
func NewMockProductRepository(t testingT) *MockProductRepository {
	m := &MockProductRepository{}
	bind(&m.Mock, t)

	return m
}

func (m *MockProductRepository) Create(ctx context.Context, product *entity.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	args := m.Called(ctx, id)
	product, _ := args.Get(0).(*entity.Product)

	return product, args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context) ([]*entity.Product, error) {
	args := m.Called(ctx)
	products, _ := args.Get(0).([]*entity.Product)

	return products, args.Error(1)
}

func (m *MockProductRepository) FindByCategory(ctx context.Context, category string, page, limit int) (*repository.ProductPage, error) {
	args := m.Called(ctx, category, page, limit)
	result, _ := args.Get(0).(*repository.ProductPage)

	return result, args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, product *entity.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *MockProductRepository) DecrementStock(ctx context.Context, id uuid.UUID, quantity int) error {
	return m.Called(ctx, id, quantity).Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockCartRepository mocks repository.CartRepository.
type MockCartRepository struct{ mock.Mock }

// NewMockCartRepository creates the mock bound to t.
func NewMockCartRepository(t testingT) *MockCartRepository {
	m := &MockCartRepository{}
	bind(&m.Mock, t)

	return m
}

func (m *MockCartRepository) FindActiveByUser(ctx context.Context, userID uuid.UUID) ([]*entity.CartItem, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]*entity.CartItem)

	return items, args.Error(1)
}

func (m *MockCartRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.CartItem, error) {
	args := m.Called(ctx, id)
	item, _ := args.Get(0).(*entity.CartItem)

	return item, args.Error(1)
}

func (m *MockCartRepository) FindActiveByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*entity.CartItem, error) {
	args := m.Called(ctx, userID, productID)
	item, _ := args.Get(0).(*entity.CartItem)

	return item, args.Error(1)
}

func (m *MockCartRepository) Create(ctx context.Context, item *entity.CartItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockCartRepository) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error {
	return m.Called(ctx, id, quantity).Error(0)
}

func (m *MockCartRepository) MarkOrdered(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockCartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockOrderRepository mocks repository.OrderRepository.
type MockOrderRepository struct{ mock.Mock }

// NewMockOrderRepository creates the mock bound to t.
func NewMockOrderRepository(t testingT) *MockOrderRepository {
	m := &MockOrderRepository{}
	bind(&m.Mock, t)

	return m
}

func (m *MockOrderRepository) Create(ctx context.Context, order *entity.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	args := m.Called(ctx, id)
	order, _ := args.Get(0).(*entity.Order)

	return order, args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context) ([]*entity.Order, error) {
	args := m.Called(ctx)
	orders, _ := args.Get(0).([]*entity.Order)

	return orders, args.Error(1)
}

func (m *MockOrderRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error) {
	args := m.Called(ctx, userID)
	orders, _ := args.Get(0).([]*entity.Order)

	return orders, args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockOrderRepository) MarkPaid(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockReviewRepository mocks repository.ReviewRepository.
type MockReviewRepository struct{ mock.Mock }

// NewMockReviewRepository creates the mock bound to t.
func NewMockReviewRepository(t testingT) *MockReviewRepository {
	m := &MockReviewRepository{}
	bind(&m.Mock, t)

	return m
}

func (m *MockReviewRepository) Create(ctx context.Context, review *entity.Review) error {
	return m.Called(ctx, review).Error(0)
}

func (m *MockReviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	args := m.Called(ctx, id)
	review, _ := args.Get(0).(*entity.Review)

	return review, args.Error(1)
}

func (m *MockReviewRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]*entity.Review, error) {
	args := m.Called(ctx, productID)
	reviews, _ := args.Get(0).([]*entity.Review)

	return reviews, args.Error(1)
}

func (m *MockReviewRepository) FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*entity.Review, error) {
	args := m.Called(ctx, userID, productID)
	review, _ := args.Get(0).(*entity.Review)

	return review, args.Error(1)
}

func (m *MockReviewRepository) Update(ctx context.Context, review *entity.Review) error {
	return m.Called(ctx, review).Error(0)
}

func (m *MockReviewRepository) AverageRating(ctx context.Context, productID uuid.UUID) (*entity.RatingSummary, error) {
	args := m.Called(ctx, productID)
	summary, _ := args.Get(0).(*entity.RatingSummary)

	return summary, args.Error(1)
}

func (m *MockReviewRepository) AverageRatings(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]*entity.RatingSummary, error) {
	args := m.Called(ctx, productIDs)
	summaries, _ := args.Get(0).(map[uuid.UUID]*entity.RatingSummary)

	return summaries, args.Error(1)
}

// MockFavouriteRepository mocks repository.FavouriteRepository.
type MockFavouriteRepository struct{ mock.Mock }

// NewMockFavouriteRepository creates the mock bound to t.
func NewMockFavouriteRepository(t testingT) *MockFavouriteRepository {
	m := &MockFavouriteRepository{}
	bind(&m.Mock, t)

	return m
}

func (m *MockFavouriteRepository) Create(ctx context.Context, favourite *entity.Favourite) error {
	return m.Called(ctx, favourite).Error(0)
}

func (m *MockFavouriteRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Favourite, error) {
	args := m.Called(ctx, userID)
	favourites, _ := args.Get(0).([]*entity.Favourite)

	return favourites, args.Error(1)
}

func (m *MockFavouriteRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Favourite, error) {
	args := m.Called(ctx, id)
	favourite, _ := args.Get(0).(*entity.Favourite)

	return favourite, args.Error(1)
}

func (m *MockFavouriteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockPaymentRepository mocks repository.PaymentRepository.
type MockPaymentRepository struct{ mock.Mock }

// NewMockPaymentRepository creates the mock bound to t.
func NewMockPaymentRepository(t testingT) *MockPaymentRepository {
	m := &MockPaymentRepository{}
	bind(&m.Mock, t)

	return m
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	return m.Called(ctx, payment).Error(0)
}

func (m *MockPaymentRepository) FindByPidx(ctx context.Context, pidx string) (*entity.Payment, error) {
	args := m.Called(ctx, pidx)
	payment, _ := args.Get(0).(*entity.Payment)

	return payment, args.Error(1)
}

func (m *MockPaymentRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]*entity.Payment, error) {
	args := m.Called(ctx, orderID)
	payments, _ := args.Get(0).([]*entity.Payment)

	return payments, args.Error(1)
}

func (m *MockPaymentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status, transactionID string) error {
	return m.Called(ctx, id, status, transactionID).Error(0)
}

// MockActivityLogRepository mocks repository.ActivityLogRepository.
type MockActivityLogRepository struct{ mock.Mock }

// NewMockActivityLogRepository creates the mock bound to t.
func NewMockActivityLogRepository(t testingT) *MockActivityLogRepository {
	m := &MockActivityLogRepository{}
	bind(&m.Mock, t)

	return m
}

func (m *MockActivityLogRepository) Insert(ctx context.Context, log *entity.ActivityLog) error {
	return m.Called(ctx, log).Error(0)
}

func (m *MockActivityLogRepository) Find(ctx context.Context, query repository.ActivityLogQuery) ([]*entity.ActivityLog, error) {
	args := m.Called(ctx, query)
	logs, _ := args.Get(0).([]*entity.ActivityLog)

	return logs, args.Error(1)
}
