package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vitoko/coffee-pos/internal/core/domain"
	"github.com/vitoko/coffee-pos/internal/port"
)

type CatalogService struct {
	store  port.CatalogRepository
	logger *zap.Logger
}

func NewCatalogService(store port.CatalogRepository, logger *zap.Logger) *CatalogService {
	return &CatalogService{store: store, logger: logger}
}

func (s *CatalogService) RegisterProduct(ctx context.Context, code, name string, price decimal.Decimal, stock int) (*domain.Product, error) {
	if code == "" || name == "" {
		return nil, fmt.Errorf("%w: code and name are required", domain.ErrInvalidRequest)
	}
	if price.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", domain.ErrInvalidRequest)
	}
	if stock < 0 {
		return nil, fmt.Errorf("%w: stock must not be negative", domain.ErrInvalidRequest)
	}

	product := &domain.Product{
		Code:  code,
		Name:  name,
		Price: price,
		Stock: stock,
	}
	if err := s.store.CreateProduct(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("product registered",
		zap.Int64("product_id", product.ID),
		zap.String("code", code),
	)

	return product, nil
}

func (s *CatalogService) DeactivateProduct(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: product id is required", domain.ErrInvalidRequest)
	}

	return s.store.DeactivateProduct(ctx, id)
}

func (s *CatalogService) UpdatePrice(ctx context.Context, id int64, price decimal.Decimal) error {
	if id <= 0 {
		return fmt.Errorf("%w: product id is required", domain.ErrInvalidRequest)
	}
	if price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", domain.ErrInvalidRequest)
	}

	return s.store.UpdateProductPrice(ctx, id, price)
}

// AddStock replenishes inventory. Order placement is the only path that
// decrements stock; this is the only path that raises it.
func (s *CatalogService) AddStock(ctx context.Context, id int64, quantity int) error {
	if id <= 0 {
		return fmt.Errorf("%w: product id is required", domain.ErrInvalidRequest)
	}
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be greater than zero", domain.ErrInvalidRequest)
	}

	return s.store.AddStock(ctx, id, quantity)
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.store.ListProducts(ctx)
}

func (s *CatalogService) ProductsSoldThisWeek(ctx context.Context) ([]domain.ProductWeeklySales, error) {
	return s.store.ProductsSoldThisWeek(ctx)
}

func (s *CatalogService) YearlySales(ctx context.Context) (*domain.YearlySalesReport, error) {
	return s.store.YearlySalesReport(ctx)
}
