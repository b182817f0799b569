package order

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the lifecycle state of an order.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// PaymentMethod records how an order was (or will be) paid. Actual payment
// processing is out of scope; only the method and status are recorded.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCard   PaymentMethod = "card"
	PaymentOnline PaymentMethod = "online"
	PaymentOther  PaymentMethod = "other"
)

// PaymentStatus tracks the recorded payment state of an order.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// Order is a committed sale with its line items.
type Order struct {
	ID             uuid.UUID     `json:"id"`
	BusinessID     uuid.UUID     `json:"business_id"`
	CustomerID     *uuid.UUID    `json:"customer_id,omitempty"` // nil for walk-in sales
	OrderNumber    string        `json:"order_number"`
	Status         Status        `json:"status"`
	TotalAmount    float64       `json:"total_amount"`
	TaxAmount      float64       `json:"tax_amount"`
	DiscountAmount float64       `json:"discount_amount"`
	PaymentMethod  PaymentMethod `json:"payment_method"`
	PaymentStatus  PaymentStatus `json:"payment_status"`
	Notes          string        `json:"notes,omitempty"`
	Items          []*OrderItem  `json:"items,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// OrderItem is a single line of an order. Items are written once at checkout
// and never modified afterwards.
type OrderItem struct {
	ID         uuid.UUID `json:"id"`
	OrderID    uuid.UUID `json:"order_id"`
	ProductID  uuid.UUID `json:"product_id"`
	Quantity   int       `json:"quantity"`
	UnitPrice  float64   `json:"unit_price"`
	TotalPrice float64   `json:"total_price"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Line describes one cart line handed to PlaceOrder. The unit price is the
// snapshot taken when the line entered the cart, not the product's current price.
type Line struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	UnitPrice float64   `json:"unit_price"`
}

// PlaceOrderRequest is the payload for committing a cart as an order.
type PlaceOrderRequest struct {
	BusinessID     uuid.UUID
	CustomerID     *uuid.UUID
	Lines          []Line
	TaxAmount      float64
	DiscountAmount float64
	PaymentMethod  string
	Notes          string
}

// UpdateStatusRequest is the payload for advancing an order's status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}
