package storage

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vitoko/coffee-pos/internal/core/domain"
)

func (m *MySQLAdapter) CreateProduct(ctx context.Context, p *domain.Product) error {
	res, err := m.db.ExecContext(ctx, `
		INSERT INTO products (code, name, price, stock) VALUES (?, ?, ?, ?)`,
		p.Code, p.Name, p.Price, p.Stock,
	)
	if err != nil {
		if isDuplicateEntry(err) {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateCode, p.Code)
		}
		return fmt.Errorf("insert product: %w", err)
	}

	p.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("product id: %w", err)
	}
	p.Active = true

	return nil
}

func (m *MySQLAdapter) DeactivateProduct(ctx context.Context, id int64) error {
	res, err := m.db.ExecContext(ctx, `UPDATE products SET active = FALSE WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deactivate product: %w", err)
	}

	rows, _ := res.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%w: product %d", domain.ErrProductNotFound, id)
	}

	return nil
}

func (m *MySQLAdapter) UpdateProductPrice(ctx context.Context, id int64, price decimal.Decimal) error {
	res, err := m.db.ExecContext(ctx,
		`UPDATE products SET price = ? WHERE id = ? AND active = TRUE`, price, id)
	if err != nil {
		return fmt.Errorf("update price: %w", err)
	}

	rows, _ := res.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%w: product %d", domain.ErrProductNotFound, id)
	}

	return nil
}

func (m *MySQLAdapter) AddStock(ctx context.Context, id int64, quantity int) error {
	res, err := m.db.ExecContext(ctx,
		`UPDATE products SET stock = stock + ? WHERE id = ? AND active = TRUE`, quantity, id)
	if err != nil {
		return fmt.Errorf("add stock: %w", err)
	}

	rows, _ := res.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%w: product %d", domain.ErrProductNotFound, id)
	}

	return nil
}

func (m *MySQLAdapter) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, code, name, price, stock, active, created_at
		FROM products WHERE active = TRUE ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Code, &p.Name, &p.Price, &p.Stock, &p.Active, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}

	return products, rows.Err()
}

// ProductsSoldThisWeek aggregates quantities over orders placed in the
// current ISO week (Monday start, matching YEARWEEK mode 1).
func (m *MySQLAdapter) ProductsSoldThisWeek(ctx context.Context) ([]domain.ProductWeeklySales, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT p.id, p.code, p.name, p.price, p.stock, p.active, p.created_at,
		       SUM(i.quantity) AS units_sold
		FROM products p
		INNER JOIN order_items i ON p.id = i.product_id
		INNER JOIN orders o ON i.order_id = o.id
		WHERE YEARWEEK(o.created_at, 1) = YEARWEEK(CURDATE(), 1)
		GROUP BY p.id
		ORDER BY units_sold DESC`)
	if err != nil {
		return nil, fmt.Errorf("query weekly sales: %w", err)
	}
	defer rows.Close()

	var sales []domain.ProductWeeklySales
	for rows.Next() {
		var s domain.ProductWeeklySales
		if err := rows.Scan(
			&s.ID, &s.Code, &s.Name, &s.Price, &s.Stock, &s.Active, &s.CreatedAt,
			&s.UnitsSold,
		); err != nil {
			return nil, fmt.Errorf("scan weekly sales: %w", err)
		}
		sales = append(sales, s)
	}

	return sales, rows.Err()
}

func (m *MySQLAdapter) YearlySalesReport(ctx context.Context) (*domain.YearlySalesReport, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT p.code, p.name, SUM(i.quantity) AS units_sold, SUM(i.subtotal) AS revenue
		FROM products p
		INNER JOIN order_items i ON p.id = i.product_id
		INNER JOIN orders o ON i.order_id = o.id
		WHERE YEAR(o.created_at) = YEAR(CURDATE())
		GROUP BY p.id
		ORDER BY units_sold DESC`)
	if err != nil {
		return nil, fmt.Errorf("query yearly sales: %w", err)
	}
	defer rows.Close()

	report := &domain.YearlySalesReport{}
	for rows.Next() {
		var s domain.ProductYearlySales
		if err := rows.Scan(&s.Code, &s.Name, &s.UnitsSold, &s.Revenue); err != nil {
			return nil, fmt.Errorf("scan yearly sales: %w", err)
		}
		report.Products = append(report.Products, s)
		report.TotalUnits += s.UnitsSold
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return report, nil
}
