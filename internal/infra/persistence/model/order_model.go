package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderModel mirrors the 'orders' table. The shipping address is flattened
// into columns; order lines live in 'order_items'.
type OrderModel struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	UserID           uuid.UUID `gorm:"type:uuid;not null;index"`
	FirstName        string    `gorm:"type:varchar(100);not null"`
	LastName         string    `gorm:"type:varchar(100);not null"`
	Email            string    `gorm:"type:varchar(255);not null"`
	Street           string    `gorm:"type:varchar(255);not null"`
	City             string    `gorm:"type:varchar(100);not null"`
	State            string    `gorm:"type:varchar(100);not null"`
	ZipCode          string    `gorm:"type:varchar(20);not null"`
	Country          string    `gorm:"type:varchar(100);not null"`
	Phone            string    `gorm:"type:varchar(30);not null"`
	DeliveryFee      float64   `gorm:"type:numeric(12,2);not null"`
	TotalPrice       float64   `gorm:"type:numeric(12,2);not null"`
	Status           string    `gorm:"type:varchar(20);not null;default:'pending'"`
	PaymentConfirmed bool      `gorm:"not null;default:false"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Items []OrderItemModel `gorm:"foreignKey:OrderID"`
}

// TableName explicitly sets the table name for GORM.
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel mirrors the 'order_items' table. Name and price are
// snapshots taken at checkout.
type OrderItemModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID `gorm:"type:uuid;not null"`
	Name      string    `gorm:"type:varchar(255);not null"`
	Price     float64   `gorm:"type:numeric(12,2);not null"`
	Quantity  int       `gorm:"not null"`
}

// TableName explicitly sets the table name for GORM.
func (OrderItemModel) TableName() string {
	return "order_items"
}
