package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/vitoko/coffee-pos/internal/core/domain"
)

type mockCustomerRepo struct {
	customers []domain.Customer
	statuses  map[int64]bool
	lastTier  domain.CustomerTier
	nextID    int64
}

func newMockCustomerRepo() *mockCustomerRepo {
	return &mockCustomerRepo{statuses: make(map[int64]bool)}
}

func (m *mockCustomerRepo) CreateCustomer(ctx context.Context, c *domain.Customer) error {
	m.nextID++
	c.ID = m.nextID
	m.customers = append(m.customers, *c)
	return nil
}

func (m *mockCustomerRepo) SetCustomerActive(ctx context.Context, id int64, active bool) error {
	m.statuses[id] = active
	return nil
}

func (m *mockCustomerRepo) ListCustomers(ctx context.Context, tier domain.CustomerTier) ([]domain.Customer, error) {
	m.lastTier = tier
	return m.customers, nil
}

func TestRegisterCustomer(t *testing.T) {
	repo := newMockCustomerRepo()
	svc := NewCustomerService(repo, zap.NewNop())

	c, err := svc.RegisterCustomer(context.Background(), "Ana", domain.TierPremium)
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}
	if c.ID == 0 {
		t.Error("expected generated customer id")
	}
	if c.Tier != domain.TierPremium {
		t.Errorf("expected premium tier, got %s", c.Tier)
	}
}

func TestRegisterCustomer_DefaultsToNormalTier(t *testing.T) {
	repo := newMockCustomerRepo()
	svc := NewCustomerService(repo, zap.NewNop())

	c, err := svc.RegisterCustomer(context.Background(), "Bruno", "")
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}
	if c.Tier != domain.TierNormal {
		t.Errorf("expected normal tier, got %s", c.Tier)
	}
}

func TestRegisterCustomer_Validation(t *testing.T) {
	repo := newMockCustomerRepo()
	svc := NewCustomerService(repo, zap.NewNop())

	if _, err := svc.RegisterCustomer(context.Background(), "", domain.TierNormal); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest for missing name, got: %v", err)
	}
	if _, err := svc.RegisterCustomer(context.Background(), "Ana", "gold"); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest for unknown tier, got: %v", err)
	}
	if len(repo.customers) != 0 {
		t.Errorf("expected no customers created, got %d", len(repo.customers))
	}
}

func TestDeactivateCustomer(t *testing.T) {
	repo := newMockCustomerRepo()
	svc := NewCustomerService(repo, zap.NewNop())

	if err := svc.DeactivateCustomer(context.Background(), 3); err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}
	if active, ok := repo.statuses[3]; !ok || active {
		t.Errorf("expected customer 3 deactivated, got %v", repo.statuses)
	}
}

func TestListCustomers_TierFilter(t *testing.T) {
	repo := newMockCustomerRepo()
	svc := NewCustomerService(repo, zap.NewNop())

	if _, err := svc.ListCustomers(context.Background(), "gold"); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest for unknown tier, got: %v", err)
	}

	if _, err := svc.ListCustomers(context.Background(), domain.TierPremium); err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}
	if repo.lastTier != domain.TierPremium {
		t.Errorf("expected premium filter passed through, got %q", repo.lastTier)
	}
}
