package port

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vitoko/coffee-pos/internal/core/domain"
)

type OrderRepository interface {
	// FindActiveCustomer returns nil when the customer is absent or inactive.
	FindActiveCustomer(ctx context.Context, id int64) (*domain.Customer, error)

	// FindActiveProduct returns nil when the product is absent or inactive.
	FindActiveProduct(ctx context.Context, id int64) (*domain.Product, error)

	// CreateOrder persists the order header, its lines, and the stock
	// decrements in one transaction. The decrement is conditional on
	// remaining stock, so a concurrent order cannot drive stock negative;
	// a lost race fails with domain.ErrInsufficientStock and nothing is
	// written. Fills in the generated order and line IDs on success.
	CreateOrder(ctx context.Context, order *domain.Order) error

	ListOrders(ctx context.Context) ([]domain.OrderSummary, error)

	// GetOrder returns nil when no order has that ID.
	GetOrder(ctx context.Context, id int64) (*domain.OrderDetail, error)

	FindOrdersByCustomerAndDate(ctx context.Context, customerID int64, day time.Time) ([]domain.OrderSummary, error)
}

type CatalogRepository interface {
	// CreateProduct fills in the generated ID; a reused code fails with
	// domain.ErrDuplicateCode.
	CreateProduct(ctx context.Context, p *domain.Product) error

	DeactivateProduct(ctx context.Context, id int64) error
	UpdateProductPrice(ctx context.Context, id int64, price decimal.Decimal) error
	AddStock(ctx context.Context, id int64, quantity int) error
	ListProducts(ctx context.Context) ([]domain.Product, error)

	ProductsSoldThisWeek(ctx context.Context) ([]domain.ProductWeeklySales, error)
	YearlySalesReport(ctx context.Context) (*domain.YearlySalesReport, error)
}

type CustomerRepository interface {
	CreateCustomer(ctx context.Context, c *domain.Customer) error
	SetCustomerActive(ctx context.Context, id int64, active bool) error

	// ListCustomers filters by tier when tier is non-empty.
	ListCustomers(ctx context.Context, tier domain.CustomerTier) ([]domain.Customer, error)
}
