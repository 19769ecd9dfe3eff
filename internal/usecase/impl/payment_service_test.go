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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type paymentServiceFixtures struct {
	service     usecase.PaymentUsecase
	txManager   *mockRepo.MockTransactionManager
	paymentRepo *mockRepo.MockPaymentRepository
	orderRepo   *mockRepo.MockOrderRepository
	userRepo    *mockRepo.MockUserRepository
	gateway     *mockSvc.MockPaymentGateway
	qrService   *mockSvc.MockQRCodeService
	publisher   *mockSvc.MockEventPublisher
	notifier    *mockSvc.MockNotificationService
}

func createTestPaymentService(t *testing.T) paymentServiceFixtures {
	txManager := mockRepo.NewMockTransactionManager(t)
	paymentRepo := mockRepo.NewMockPaymentRepository(t)
	orderRepo := mockRepo.NewMockOrderRepository(t)
	userRepo := mockRepo.NewMockUserRepository(t)
	gateway := mockSvc.NewMockPaymentGateway(t)
	qrService := mockSvc.NewMockQRCodeService(t)
	publisher := mockSvc.NewMockEventPublisher(t)
	notifier := mockSvc.NewMockNotificationService(t)

	svc := NewPaymentService(PaymentServiceParams{
		TxManager:   txManager,
		PaymentRepo: paymentRepo,
		OrderRepo:   orderRepo,
		UserRepo:    userRepo,
		Gateway:     gateway,
		QRService:   qrService,
		Publisher:   publisher,
		Notifier:    notifier,
		Logger:      newDiscardLogger(),
	})

	return paymentServiceFixtures{
		service:     svc,
		txManager:   txManager,
		paymentRepo: paymentRepo,
		orderRepo:   orderRepo,
		userRepo:    userRepo,
		gateway:     gateway,
		qrService:   qrService,
		publisher:   publisher,
		notifier:    notifier,
	}
}

func TestPaymentService_Initialize_WrongOwner(t *testing.T) {
	fx := createTestPaymentService(t)

	ctx := context.Background()
	orderID := uuid.New()
	fx.orderRepo.On("FindByID", ctx, orderID).Return(&entity.Order{ID: orderID, UserID: uuid.New()}, nil)

	output, err := fx.service.InitializePayment(ctx, uuid.New(), orderID)

	require.Error(t, err)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
	fx.gateway.AssertNotCalled(t, "Initiate", mock.Anything, mock.Anything)
}

func TestPaymentService_Initialize_AlreadyPaid(t *testing.T) {
	fx := createTestPaymentService(t)

	ctx := context.Background()
	userID := uuid.New()
	orderID := uuid.New()
	fx.orderRepo.On("FindByID", ctx, orderID).Return(&entity.Order{
		ID:               orderID,
		UserID:           userID,
		PaymentConfirmed: true,
	}, nil)

	output, err := fx.service.InitializePayment(ctx, userID, orderID)

	require.Error(t, err)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrConflict)
	fx.gateway.AssertNotCalled(t, "Initiate", mock.Anything, mock.Anything)
}

func TestPaymentService_Initialize_Success(t *testing.T) {
	fx := createTestPaymentService(t)

	ctx := context.Background()
	userID := uuid.New()
	orderID := uuid.New()
	fx.orderRepo.On("FindByID", ctx, orderID).Return(&entity.Order{
		ID:         orderID,
		UserID:     userID,
		TotalPrice: 340.50,
	}, nil)
	fx.userRepo.On("FindByID", ctx, userID).Return(&entity.User{
		ID:    userID,
		Name:  "Asha Shrestha",
		Email: "asha@example.com",
		Phone: "9800000000",
	}, nil)

	fx.gateway.On("Initiate", ctx, mock.MatchedBy(func(req service.PaymentInitiation) bool {
		// 340.50 rupees is 34050 paisa.
		return req.AmountPaisa == 34050 && req.PurchaseOrderID == orderID.String()
	})).Return(&service.PaymentHandoff{
		Pidx:       "pidx-123",
		PaymentURL: "https://pay.example.com/pidx-123",
	}, nil)

	fx.paymentRepo.On("Create", ctx, mock.MatchedBy(func(payment *entity.Payment) bool {
		return payment.Pidx == "pidx-123" &&
			payment.AmountPaisa == 34050 &&
			payment.Status == entity.PaymentStatusInitiated
	})).Return(nil)

	fx.qrService.On("GeneratePaymentQR", "https://pay.example.com/pidx-123").Return([]byte("png-bytes"), nil)

	output, err := fx.service.InitializePayment(ctx, userID, orderID)

	require.NoError(t, err)
	assert.Equal(t, "pidx-123", output.Pidx)
	assert.Equal(t, "https://pay.example.com/pidx-123", output.PaymentURL)
	assert.Equal(t, []byte("png-bytes"), output.QRCode)
}

func TestPaymentService_Initialize_QRFailureIsNonFatal(t *testing.T) {
	fx := createTestPaymentService(t)

	ctx := context.Background()
	userID := uuid.New()
	orderID := uuid.New()
	fx.orderRepo.On("FindByID", ctx, orderID).Return(&entity.Order{ID: orderID, UserID: userID, TotalPrice: 100}, nil)
	fx.userRepo.On("FindByID", ctx, userID).Return(&entity.User{ID: userID, Name: "Asha"}, nil)
	fx.gateway.On("Initiate", ctx, mock.Anything).Return(&service.PaymentHandoff{
		Pidx:       "pidx-456",
		PaymentURL: "https://pay.example.com/pidx-456",
	}, nil)
	fx.paymentRepo.On("Create", ctx, mock.Anything).Return(nil)
	fx.qrService.On("GeneratePaymentQR", "https://pay.example.com/pidx-456").
		Return(nil, assert.AnError)

	output, err := fx.service.InitializePayment(ctx, userID, orderID)

	require.NoError(t, err)
	assert.Nil(t, output.QRCode)
	assert.Equal(t, "https://pay.example.com/pidx-456", output.PaymentURL)
}

func TestPaymentService_Initialize_GatewayFailure(t *testing.T) {
	fx := createTestPaymentService(t)

	ctx := context.Background()
	userID := uuid.New()
	orderID := uuid.New()
	fx.orderRepo.On("FindByID", ctx, orderID).Return(&entity.Order{ID: orderID, UserID: userID, TotalPrice: 100}, nil)
	fx.userRepo.On("FindByID", ctx, userID).Return(&entity.User{ID: userID}, nil)
	fx.gateway.On("Initiate", ctx, mock.Anything).Return(nil, assert.AnError)

	output, err := fx.service.InitializePayment(ctx, userID, orderID)

	require.Error(t, err)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrPaymentInitFailed)
	// A failed initiation records nothing; the order stays retryable.
	fx.paymentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPaymentService_Complete_UnknownPidx(t *testing.T) {
	fx := createTestPaymentService(t)

	ctx := context.Background()
	fx.paymentRepo.On("FindByPidx", ctx, "ghost").Return(nil, repository.ErrPaymentNotFound)

	output, err := fx.service.CompletePayment(ctx, &usecase.CompletePaymentInput{Pidx: "ghost", OrderID: uuid.New()})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrPaymentNotFound)
	fx.gateway.AssertNotCalled(t, "Lookup", mock.Anything, mock.Anything)
}

func TestPaymentService_Complete_PidxOrderMismatch(t *testing.T) {
	fx := createTestPaymentService(t)

	ctx := context.Background()
	fx.paymentRepo.On("FindByPidx", ctx, "pidx-123").Return(&entity.Payment{
		ID:      uuid.New(),
		OrderID: uuid.New(),
		Pidx:    "pidx-123",
	}, nil)

	output, err := fx.service.CompletePayment(ctx, &usecase.CompletePaymentInput{Pidx: "pidx-123", OrderID: uuid.New()})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrPaymentNotFound)
	fx.gateway.AssertNotCalled(t, "Lookup", mock.Anything, mock.Anything)
}

func TestPaymentService_Complete_AlreadyCompletedSkipsLookup(t *testing.T) {
	fx := createTestPaymentService(t)

	ctx := context.Background()
	orderID := uuid.New()
	fx.paymentRepo.On("FindByPidx", ctx, "pidx-123").Return(&entity.Payment{
		ID:      uuid.New(),
		OrderID: orderID,
		Pidx:    "pidx-123",
		Status:  entity.PaymentStatusCompleted,
	}, nil)
	fx.orderRepo.On("FindByID", ctx, orderID).Return(&entity.Order{
		ID:               orderID,
		UserID:           uuid.New(),
		PaymentConfirmed: true,
	}, nil)

	output, err := fx.service.CompletePayment(ctx, &usecase.CompletePaymentInput{Pidx: "pidx-123", OrderID: orderID})

	require.NoError(t, err)
	assert.True(t, output.Completed)
	assert.Equal(t, service.GatewayStatusCompleted, output.Status)
	// A settled payment does not go back to the gateway or re-mark anything.
	fx.gateway.AssertNotCalled(t, "Lookup", mock.Anything, mock.Anything)
	fx.txManager.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestPaymentService_Complete_Success(t *testing.T) {
	fx := createTestPaymentService(t)

	ctx := context.Background()
	orderID := uuid.New()
	buyerID := uuid.New()
	paymentID := uuid.New()

	fx.paymentRepo.On("FindByPidx", ctx, "pidx-123").Return(&entity.Payment{
		ID:          paymentID,
		OrderID:     orderID,
		Pidx:        "pidx-123",
		AmountPaisa: 34000,
		Status:      entity.PaymentStatusInitiated,
	}, nil)
	fx.orderRepo.On("FindByID", ctx, orderID).Return(&entity.Order{
		ID:         orderID,
		UserID:     buyerID,
		TotalPrice: 340,
	}, nil)
	fx.gateway.On("Lookup", ctx, "pidx-123").Return(&service.PaymentStatus{
		Pidx:          "pidx-123",
		Status:        service.GatewayStatusCompleted,
		TransactionID: "txn-789",
	}, nil).Once()

	txPaymentRepo := mockRepo.NewMockPaymentRepository(t)
	txOrderRepo := mockRepo.NewMockOrderRepository(t)
	txPaymentRepo.On("UpdateStatus", ctx, paymentID, entity.PaymentStatusCompleted, "txn-789").Return(nil)
	txOrderRepo.On("MarkPaid", ctx, orderID).Return(nil)

	fx.txManager.Factory = &mockRepo.MockRepositoryFactory{
		Payments: txPaymentRepo,
		Orders:   txOrderRepo,
	}
	fx.txManager.On("Execute", ctx, mock.Anything).Return(nil)

	fx.publisher.On("PublishOrderEvent", ctx, mock.MatchedBy(func(event *service.OrderEvent) bool {
		return event.Type == service.OrderEventPaymentCompleted && event.Pidx == "pidx-123"
	})).Return(nil)
	fx.notifier.On("SendToTopic", ctx, "user-"+buyerID.String(), mock.AnythingOfType("string"), mock.AnythingOfType("string"), mock.Anything).Return(nil)

	output, err := fx.service.CompletePayment(ctx, &usecase.CompletePaymentInput{Pidx: "pidx-123", OrderID: orderID})

	require.NoError(t, err)
	assert.True(t, output.Completed)
	assert.True(t, output.Order.PaymentConfirmed)
	fx.gateway.AssertNumberOfCalls(t, "Lookup", 1)
}

func TestPaymentService_Complete_PendingStatus(t *testing.T) {
	fx := createTestPaymentService(t)

	ctx := context.Background()
	orderID := uuid.New()
	paymentID := uuid.New()

	fx.paymentRepo.On("FindByPidx", ctx, "pidx-123").Return(&entity.Payment{
		ID:      paymentID,
		OrderID: orderID,
		Pidx:    "pidx-123",
		Status:  entity.PaymentStatusInitiated,
	}, nil)
	fx.orderRepo.On("FindByID", ctx, orderID).Return(&entity.Order{ID: orderID, UserID: uuid.New()}, nil)
	fx.gateway.On("Lookup", ctx, "pidx-123").Return(&service.PaymentStatus{
		Pidx:   "pidx-123",
		Status: service.GatewayStatusPending,
	}, nil)

	output, err := fx.service.CompletePayment(ctx, &usecase.CompletePaymentInput{Pidx: "pidx-123", OrderID: orderID})

	require.Error(t, err)
	require.NotNil(t, output)
	assert.False(t, output.Completed)
	assert.Equal(t, service.GatewayStatusPending, output.Status)
	assert.ErrorIs(t, err, domainerrors.ErrPaymentNotCompleted)
	// Pending matches the stored status, so nothing is re-written.
	fx.txManager.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
	fx.paymentRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPaymentService_Complete_UserCanceledRecordsFailure(t *testing.T) {
	fx := createTestPaymentService(t)

	ctx := context.Background()
	orderID := uuid.New()
	paymentID := uuid.New()

	fx.paymentRepo.On("FindByPidx", ctx, "pidx-123").Return(&entity.Payment{
		ID:      paymentID,
		OrderID: orderID,
		Pidx:    "pidx-123",
		Status:  entity.PaymentStatusInitiated,
	}, nil)
	fx.orderRepo.On("FindByID", ctx, orderID).Return(&entity.Order{ID: orderID, UserID: uuid.New()}, nil)
	fx.gateway.On("Lookup", ctx, "pidx-123").Return(&service.PaymentStatus{
		Pidx:   "pidx-123",
		Status: service.GatewayStatusFailed,
	}, nil)
	fx.paymentRepo.On("UpdateStatus", ctx, paymentID, entity.PaymentStatusFailed, "").Return(nil)

	output, err := fx.service.CompletePayment(ctx, &usecase.CompletePaymentInput{Pidx: "pidx-123", OrderID: orderID})

	require.Error(t, err)
	require.NotNil(t, output)
	assert.False(t, output.Completed)
	assert.ErrorIs(t, err, domainerrors.ErrPaymentNotCompleted)
	fx.txManager.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestPaymentService_Complete_RefundedRecordsRefund(t *testing.T) {
	fx := createTestPaymentService(t)

	ctx := context.Background()
	orderID := uuid.New()
	paymentID := uuid.New()

	fx.paymentRepo.On("FindByPidx", ctx, "pidx-123").Return(&entity.Payment{
		ID:      paymentID,
		OrderID: orderID,
		Pidx:    "pidx-123",
		Status:  entity.PaymentStatusInitiated,
	}, nil)
	fx.orderRepo.On("FindByID", ctx, orderID).Return(&entity.Order{ID: orderID, UserID: uuid.New()}, nil)
	fx.gateway.On("Lookup", ctx, "pidx-123").Return(&service.PaymentStatus{
		Pidx:          "pidx-123",
		Status:        service.GatewayStatusRefunded,
		TransactionID: "txn-456",
	}, nil)
	// A refund is terminal, not a retryable initiated state.
	fx.paymentRepo.On("UpdateStatus", ctx, paymentID, entity.PaymentStatusRefunded, "txn-456").Return(nil)

	output, err := fx.service.CompletePayment(ctx, &usecase.CompletePaymentInput{Pidx: "pidx-123", OrderID: orderID})

	require.Error(t, err)
	require.NotNil(t, output)
	assert.False(t, output.Completed)
	assert.ErrorIs(t, err, domainerrors.ErrPaymentNotCompleted)
	fx.txManager.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestPaymentService_RecordPayment_DefaultsStatus(t *testing.T) {
	fx := createTestPaymentService(t)

	ctx := context.Background()
	orderID := uuid.New()
	fx.orderRepo.On("FindByID", ctx, orderID).Return(&entity.Order{ID: orderID}, nil)
	fx.paymentRepo.On("Create", ctx, mock.MatchedBy(func(payment *entity.Payment) bool {
		return payment.Status == entity.PaymentStatusInitiated
	})).Return(nil)

	payment, err := fx.service.RecordPayment(ctx, &usecase.RecordPaymentInput{
		OrderID:     orderID,
		Pidx:        "pidx-999",
		AmountPaisa: 5000,
	})

	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusInitiated, payment.Status)
}
