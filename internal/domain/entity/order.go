package entity

import (
	"time"

	"github.com/google/uuid"
)

// Order lifecycle states.
const (
	OrderStatusPending   = "pending"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// ShippingAddress is the delivery destination captured at checkout.
// Every field is required; an order with any blank field is rejected
// before any persistence happens.
type ShippingAddress struct {
	FirstName string
	LastName  string
	Email     string
	Street    string
	City      string
	State     string
	ZipCode   string
	Country   string
	Phone     string
}

// Complete reports whether every address field is non-blank.
func (a ShippingAddress) Complete() bool {
	fields := []string{
		a.FirstName, a.LastName, a.Email,
		a.Street, a.City, a.State, a.ZipCode, a.Country, a.Phone,
	}
	for _, f := range fields {
		if f == "" {
			return false
		}
	}

	return true
}

// OrderItem is a snapshot of one purchased line. Price is copied from the
// product at checkout time so later price changes do not affect the order.
type OrderItem struct {
	ID        uuid.UUID // The unique ID for this order line.
	OrderID   uuid.UUID // The order this line belongs to.
	ProductID uuid.UUID // The purchased product.
	Name      string    // Product name at time of purchase.
	Price     float64   // Unit price at time of purchase.
	Quantity  int       // Units purchased.
}

// Order is a confirmed purchase. It is created unpaid; payment confirmation
// arrives later through the gateway return callback, and an order may remain
// unpaid indefinitely.
type Order struct {
	ID               uuid.UUID       // The unique ID for this order.
	UserID           uuid.UUID       // The buyer.
	Items            []OrderItem     // Purchased lines.
	Address          ShippingAddress // Delivery destination.
	DeliveryFee      float64         // Flat fee added on top of the item subtotal.
	TotalPrice       float64         // Item subtotal plus DeliveryFee, recomputed server-side.
	Status           string          // One of the OrderStatus constants.
	PaymentConfirmed bool            // False until the gateway reports the payment completed.
	CreatedAt        time.Time       // When the order was placed.
	UpdatedAt        time.Time       // Last status or payment change.
}

// Subtotal is the sum of line totals, excluding the delivery fee.
func (o *Order) Subtotal() float64 {
	var sum float64
	for _, item := range o.Items {
		sum += item.Price * float64(item.Quantity)
	}

	return sum
}
