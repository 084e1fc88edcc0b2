package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// Payment statuses.
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

// Order is the model for the 'orders' table. The delivery address and the
// totals are copies taken when the order was placed.
type Order struct {
	ID                   int64           `json:"id" db:"id"`
	UserID               int64           `json:"user_id" db:"user_id"`
	DeliveryStreet       string          `json:"delivery_street" db:"delivery_street"`
	DeliveryCity         string          `json:"delivery_city" db:"delivery_city"`
	DeliveryState        string          `json:"delivery_state" db:"delivery_state"`
	DeliveryPostalCode   string          `json:"delivery_postal_code" db:"delivery_postal_code"`
	DeliveryCountry      string          `json:"delivery_country" db:"delivery_country"`
	DeliveryInstructions *string         `json:"delivery_instructions" db:"delivery_instructions"`
	Subtotal             decimal.Decimal `json:"subtotal" db:"subtotal"`
	DeliveryFee          decimal.Decimal `json:"delivery_fee" db:"delivery_fee"`
	Tax                  decimal.Decimal `json:"tax" db:"tax"`
	Total                decimal.Decimal `json:"total" db:"total"`
	Status               string          `json:"status" db:"status"`
	PaymentMethod        string          `json:"payment_method" db:"payment_method"`
	PaymentStatus        string          `json:"payment_status" db:"payment_status"`
	CreatedAt            time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at" db:"updated_at"`

	Items []OrderItem `json:"items" db:"-"`
}

// OrderItem is the model for the 'order_items' table. Name and price are
// snapshots of the product at order time.
type OrderItem struct {
	ID           int64           `json:"id" db:"id"`
	OrderID      int64           `json:"order_id" db:"order_id"`
	ProductID    int64           `json:"product_id" db:"product_id"`
	ProductName  string          `json:"product_name" db:"product_name"`
	ProductPrice decimal.Decimal `json:"product_price" db:"product_price"`
	Quantity     int             `json:"quantity" db:"quantity"`
	Subtotal     decimal.Decimal `json:"subtotal" db:"subtotal"`
}

// DeliveryAddress is the address block copied onto an order.
type DeliveryAddress struct {
	Street       string
	City         string
	State        string
	PostalCode   string
	Country      string
	Instructions *string
}

// CartLine is one requested product and quantity.
type CartLine struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required,gt=0"`
}
