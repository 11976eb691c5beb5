package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vitoko/coffee-pos/internal/core/domain"
	"github.com/vitoko/coffee-pos/internal/core/pricing"
	"github.com/vitoko/coffee-pos/internal/port"
)

// defaultWorkerID is the system worker used when the request names none.
const defaultWorkerID = 1

type OrderService struct {
	store  port.OrderRepository
	cache  port.CacheRepository // nil disables the idempotency guard
	logger *zap.Logger
}

func NewOrderService(store port.OrderRepository, cache port.CacheRepository, logger *zap.Logger) *OrderService {
	return &OrderService{store: store, cache: cache, logger: logger}
}

type OrderLineRequest struct {
	ProductID int64
	Quantity  int
}

type PlaceOrderRequest struct {
	RequestID  string // optional; enables the idempotency guard
	CustomerID int64
	WorkerID   int64 // 0 means the system worker
	Lines      []OrderLineRequest
}

type PlaceOrderResult struct {
	OrderID       int64
	OrderNumber   string
	CustomerName  string
	Subtotal      decimal.Decimal
	Discount      decimal.Decimal
	ServiceCharge decimal.Decimal
	Total         decimal.Decimal
	LineCount     int
}

// PlaceOrder validates the request against live customer, product, and stock
// state, prices it, and commits the order atomically. Validation is
// fail-fast in submission order; any failure leaves the store untouched. The
// final stock check happens again inside the store transaction, so two
// concurrent orders cannot both take the last units.
func (s *OrderService) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*PlaceOrderResult, error) {
	if req.CustomerID <= 0 || len(req.Lines) == 0 {
		return nil, fmt.Errorf("%w: customer id and at least one order line are required", domain.ErrInvalidRequest)
	}

	if s.cache != nil && req.RequestID != "" {
		ok, err := s.cache.SetIdempotency(ctx, req.RequestID)
		if err != nil {
			return nil, fmt.Errorf("idempotency check: %w", err)
		}
		if !ok {
			return nil, fmt.Errorf("%w: request %s already processed", domain.ErrDuplicateRequest, req.RequestID)
		}
	}

	customer, err := s.store.FindActiveCustomer(ctx, req.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("look up customer: %w", err)
	}
	if customer == nil {
		return nil, fmt.Errorf("%w: customer %d not found or inactive", domain.ErrCustomerNotFound, req.CustomerID)
	}

	lines := make([]domain.OrderLine, 0, len(req.Lines))
	priced := make([]pricing.Line, 0, len(req.Lines))
	for _, lr := range req.Lines {
		if lr.ProductID <= 0 || lr.Quantity <= 0 {
			return nil, fmt.Errorf("%w: product id and a positive quantity are required", domain.ErrInvalidRequest)
		}

		product, err := s.store.FindActiveProduct(ctx, lr.ProductID)
		if err != nil {
			return nil, fmt.Errorf("look up product: %w", err)
		}
		if product == nil {
			return nil, fmt.Errorf("%w: product %d not found or inactive", domain.ErrProductNotFound, lr.ProductID)
		}
		if product.Stock < lr.Quantity {
			return nil, fmt.Errorf("%w for %s: %d available", domain.ErrInsufficientStock, product.Name, product.Stock)
		}

		// Unit price is captured here; the writer never re-reads it.
		qty := decimal.NewFromInt(int64(lr.Quantity))
		lines = append(lines, domain.OrderLine{
			ProductID: product.ID,
			Quantity:  lr.Quantity,
			UnitPrice: product.Price,
			Subtotal:  product.Price.Mul(qty),
		})
		priced = append(priced, pricing.Line{UnitPrice: product.Price, Quantity: lr.Quantity})
	}

	quote := pricing.Compute(priced, customer.Tier)

	workerID := req.WorkerID
	if workerID == 0 {
		workerID = defaultWorkerID
	}

	order := &domain.Order{
		Number:        newOrderNumber(),
		CustomerID:    customer.ID,
		WorkerID:      workerID,
		Subtotal:      quote.Subtotal,
		Discount:      quote.Discount,
		ServiceCharge: quote.ServiceCharge,
		Total:         quote.Total,
		CreatedAt:     time.Now(),
		Lines:         lines,
	}

	if err := s.store.CreateOrder(ctx, order); err != nil {
		s.logger.Warn("order rolled back",
			zap.String("number", order.Number),
			zap.Int64("customer_id", customer.ID),
			zap.Error(err),
		)
		if errors.Is(err, domain.ErrInsufficientStock) {
			// A concurrent order drained the stock after validation passed.
			return nil, err
		}
		return nil, fmt.Errorf("persist order: %w", err)
	}

	s.logger.Info("order committed",
		zap.Int64("order_id", order.ID),
		zap.String("number", order.Number),
		zap.Int64("customer_id", customer.ID),
		zap.String("total", quote.Total.StringFixed(2)),
	)

	return &PlaceOrderResult{
		OrderID:       order.ID,
		OrderNumber:   order.Number,
		CustomerName:  customer.Name,
		Subtotal:      quote.Subtotal,
		Discount:      quote.Discount,
		ServiceCharge: quote.ServiceCharge,
		Total:         quote.Total,
		LineCount:     len(lines),
	}, nil
}

// newOrderNumber keeps the human-facing "V" prefix and second-resolution
// timestamp, with a random suffix so concurrent orders in the same second
// cannot collide. The store's UNIQUE index on the column is the backstop.
func newOrderNumber() string {
	return fmt.Sprintf("V%s-%s",
		time.Now().UTC().Format("20060102150405"),
		strings.ToUpper(uuid.NewString()[:8]),
	)
}

func (s *OrderService) ListOrders(ctx context.Context) ([]domain.OrderSummary, error) {
	return s.store.ListOrders(ctx)
}

func (s *OrderService) GetOrder(ctx context.Context, id int64) (*domain.OrderDetail, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: order id is required", domain.ErrInvalidRequest)
	}

	detail, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("look up order: %w", err)
	}
	if detail == nil {
		return nil, fmt.Errorf("%w: order %d", domain.ErrOrderNotFound, id)
	}

	return detail, nil
}

// CustomerOrdersOn lists a customer's orders placed on the given day.
func (s *OrderService) CustomerOrdersOn(ctx context.Context, customerID int64, day time.Time) ([]domain.OrderSummary, error) {
	if customerID <= 0 {
		return nil, fmt.Errorf("%w: customer id is required", domain.ErrInvalidRequest)
	}

	return s.store.FindOrdersByCustomerAndDate(ctx, customerID, day)
}
