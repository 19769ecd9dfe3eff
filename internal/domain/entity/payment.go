package entity

import (
	"time"

	"github.com/google/uuid"
)

// Payment attempt states, mirroring the gateway's lookup vocabulary.
const (
	PaymentStatusInitiated = "initiated" // Handed off to the gateway, outcome unknown.
	PaymentStatusCompleted = "completed" // Gateway confirmed the payment.
	PaymentStatusFailed    = "failed"    // Gateway reported failure or expiry.
	PaymentStatusRefunded  = "refunded"  // Gateway returned the funds after completion.
)

// Payment records one checkout handshake with the payment gateway.
// An order can accumulate several attempts; only a completed one marks
// the order paid.
type Payment struct {
	ID            uuid.UUID // The unique ID for this payment attempt.
	OrderID       uuid.UUID // The order being paid for.
	Pidx          string    // The gateway's payment index, returned at initiation.
	AmountPaisa   int64     // Amount handed to the gateway, in paisa (1 rupee = 100 paisa).
	Status        string    // One of the PaymentStatus constants.
	TransactionID string    // The gateway's transaction ID, set once the payment completes.
	CreatedAt     time.Time // When the handshake was initiated.
	UpdatedAt     time.Time // Last status change.
}
