package service

import (
	"context"
	"errors"
)

// Gateway lookup statuses, as reported by the provider.
const (
	GatewayStatusCompleted = "Completed"
	GatewayStatusPending   = "Pending"
	GatewayStatusExpired   = "Expired"
	GatewayStatusRefunded  = "Refunded"
	GatewayStatusFailed    = "User canceled"
)

// ErrGatewayRejected is returned when the provider refuses an initiation request.
var ErrGatewayRejected = errors.New("payment gateway rejected the request")

// PaymentInitiation is the request handed to the gateway to open a payment.
type PaymentInitiation struct {
	AmountPaisa       int64  // Amount in paisa (1 rupee = 100 paisa).
	PurchaseOrderID   string // Our order ID, echoed back by the gateway.
	PurchaseOrderName string // Human-readable order label.
	CustomerName      string
	CustomerEmail     string
	CustomerPhone     string
}

// PaymentHandoff is the gateway's answer to an initiation: the payment index
// that identifies the attempt and the hosted page the customer is sent to.
type PaymentHandoff struct {
	Pidx       string
	PaymentURL string
	ExpiresAt  string
}

// PaymentStatus is the gateway's verdict on a payment attempt.
type PaymentStatus struct {
	Pidx          string
	Status        string // One of the GatewayStatus constants.
	TransactionID string
	AmountPaisa   int64
	Refunded      bool
}

// PaymentGateway abstracts the hosted-checkout provider. The flow is a
// handshake: Initiate opens an attempt, the customer pays on the provider's
// page, and Lookup is the authoritative check of the outcome.
type PaymentGateway interface {
	// Initiate opens a payment attempt with the provider.
	Initiate(ctx context.Context, req PaymentInitiation) (*PaymentHandoff, error)

	// Lookup asks the provider for the current state of an attempt.
	Lookup(ctx context.Context, pidx string) (*PaymentStatus, error)
}
