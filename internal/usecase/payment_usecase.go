package usecase

import (
	"context"

	"voltcart/internal/domain/entity"

	"github.com/google/uuid"
)

// PaymentInitOutput is the handoff returned to the client: where to send the
// customer, plus a QR rendering of the same URL for cross-device checkout.
type PaymentInitOutput struct {
	Pidx       string
	PaymentURL string
	QRCode     []byte // PNG image of PaymentURL.
}

// CompletePaymentInput carries the gateway-return callback parameters.
type CompletePaymentInput struct {
	Pidx    string
	OrderID uuid.UUID
}

// CompletePaymentOutput reports the authoritative gateway verdict.
type CompletePaymentOutput struct {
	Status    string // The gateway's lookup status.
	Completed bool   // True when the order is now (or already was) paid.
	Order     *entity.Order
}

// RecordPaymentInput stores a payment attempt reported by the client.
type RecordPaymentInput struct {
	OrderID     uuid.UUID
	Pidx        string
	AmountPaisa int64
	Status      string
}

// PaymentUsecase defines the interface for the hosted-checkout handshake.
type PaymentUsecase interface {
	// InitializePayment opens a gateway attempt for an unpaid order owned by
	// the caller. A failed initiation leaves the order unpaid and retryable.
	InitializePayment(ctx context.Context, userID, orderID uuid.UUID) (*PaymentInitOutput, error)

	// CompletePayment handles the gateway-return callback: it performs one
	// Lookup and marks the payment and order paid only on a completed status.
	// Safe to call repeatedly for the same pidx.
	CompletePayment(ctx context.Context, input *CompletePaymentInput) (*CompletePaymentOutput, error)

	// RecordPayment stores a client-reported payment attempt.
	RecordPayment(ctx context.Context, input *RecordPaymentInput) (*entity.Payment, error)
}
