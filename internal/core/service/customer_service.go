package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vitoko/coffee-pos/internal/core/domain"
	"github.com/vitoko/coffee-pos/internal/port"
)

type CustomerService struct {
	store  port.CustomerRepository
	logger *zap.Logger
}

func NewCustomerService(store port.CustomerRepository, logger *zap.Logger) *CustomerService {
	return &CustomerService{store: store, logger: logger}
}

func (s *CustomerService) RegisterCustomer(ctx context.Context, name string, tier domain.CustomerTier) (*domain.Customer, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidRequest)
	}
	if tier == "" {
		tier = domain.TierNormal
	}
	if !domain.ValidTier(tier) {
		return nil, fmt.Errorf("%w: unknown tier %q", domain.ErrInvalidRequest, tier)
	}

	customer := &domain.Customer{Name: name, Tier: tier}
	if err := s.store.CreateCustomer(ctx, customer); err != nil {
		return nil, err
	}

	s.logger.Info("customer registered",
		zap.Int64("customer_id", customer.ID),
		zap.String("tier", string(tier)),
	)

	return customer, nil
}

func (s *CustomerService) DeactivateCustomer(ctx context.Context, id int64) error {
	return s.SetActive(ctx, id, false)
}

func (s *CustomerService) SetActive(ctx context.Context, id int64, active bool) error {
	if id <= 0 {
		return fmt.Errorf("%w: customer id is required", domain.ErrInvalidRequest)
	}

	return s.store.SetCustomerActive(ctx, id, active)
}

func (s *CustomerService) ListCustomers(ctx context.Context, tier domain.CustomerTier) ([]domain.Customer, error) {
	if tier != "" && !domain.ValidTier(tier) {
		return nil, fmt.Errorf("%w: unknown tier %q", domain.ErrInvalidRequest, tier)
	}

	return s.store.ListCustomers(ctx, tier)
}
