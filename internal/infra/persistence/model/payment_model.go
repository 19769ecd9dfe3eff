package model

import (
	"time"

	"github.com/google/uuid"
)

// PaymentModel mirrors the 'payments' table. One row per gateway handshake.
type PaymentModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	OrderID       uuid.UUID `gorm:"type:uuid;not null;index"`
	Pidx          string    `gorm:"type:varchar(100);unique;not null"`
	AmountPaisa   int64     `gorm:"not null"`
	Status        string    `gorm:"type:varchar(20);not null;default:'initiated'"`
	TransactionID string    `gorm:"type:varchar(100)"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName explicitly sets the table name for GORM.
func (PaymentModel) TableName() string {
	return "payments"
}
