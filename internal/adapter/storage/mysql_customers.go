package storage

import (
	"context"
	"fmt"

	"github.com/vitoko/coffee-pos/internal/core/domain"
)

func (m *MySQLAdapter) CreateCustomer(ctx context.Context, c *domain.Customer) error {
	res, err := m.db.ExecContext(ctx,
		`INSERT INTO customers (name, tier) VALUES (?, ?)`, c.Name, c.Tier)
	if err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}

	c.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("customer id: %w", err)
	}
	c.Active = true

	return nil
}

func (m *MySQLAdapter) SetCustomerActive(ctx context.Context, id int64, active bool) error {
	res, err := m.db.ExecContext(ctx,
		`UPDATE customers SET active = ? WHERE id = ?`, active, id)
	if err != nil {
		return fmt.Errorf("update customer status: %w", err)
	}

	rows, _ := res.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%w: customer %d", domain.ErrCustomerNotFound, id)
	}

	return nil
}

func (m *MySQLAdapter) ListCustomers(ctx context.Context, tier domain.CustomerTier) ([]domain.Customer, error) {
	query := `SELECT id, name, tier, active, created_at FROM customers`
	args := []any{}
	if tier != "" {
		query += ` WHERE tier = ?`
		args = append(args, tier)
	}
	query += ` ORDER BY name`

	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	defer rows.Close()

	var customers []domain.Customer
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Tier, &c.Active, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		customers = append(customers, c)
	}

	return customers, rows.Err()
}
