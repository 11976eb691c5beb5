package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is the aggregate root for a sale. An order and its lines are written
// in one transaction and never modified afterwards.
type Order struct {
	ID            int64           `json:"id"`
	Number        string          `json:"number"`
	CustomerID    int64           `json:"customer_id"`
	WorkerID      int64           `json:"worker_id"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Discount      decimal.Decimal `json:"discount"`
	ServiceCharge decimal.Decimal `json:"service_charge"`
	Total         decimal.Decimal `json:"total"`
	CreatedAt     time.Time       `json:"created_at"`
	Lines         []OrderLine     `json:"lines,omitempty"`
}

// OrderLine captures the unit price at the time of sale; later price changes
// on the product do not affect it.
type OrderLine struct {
	ID        int64           `json:"id"`
	OrderID   int64           `json:"order_id"`
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// OrderSummary is the read-side view of an order header with the joined
// customer and worker names.
type OrderSummary struct {
	Order
	CustomerName string       `json:"customer_name"`
	CustomerTier CustomerTier `json:"customer_tier"`
	WorkerName   string       `json:"worker_name"`
}

type OrderDetail struct {
	OrderSummary
	LineDetails []OrderLineDetail `json:"line_details"`
}

type OrderLineDetail struct {
	OrderLine
	ProductCode string `json:"product_code"`
	ProductName string `json:"product_name"`
}
