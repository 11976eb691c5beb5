package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/vitoko/coffee-pos/internal/core/domain"
)

type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

// isDuplicateEntry reports MySQL error 1062 (unique constraint violation).
func isDuplicateEntry(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

func (m *MySQLAdapter) FindActiveCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	var c domain.Customer
	err := m.db.QueryRowContext(ctx, `
		SELECT id, name, tier, active, created_at
		FROM customers WHERE id = ? AND active = TRUE`, id,
	).Scan(&c.ID, &c.Name, &c.Tier, &c.Active, &c.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query customer: %w", err)
	}

	return &c, nil
}

func (m *MySQLAdapter) FindActiveProduct(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	err := m.db.QueryRowContext(ctx, `
		SELECT id, code, name, price, stock, active, created_at
		FROM products WHERE id = ? AND active = TRUE`, id,
	).Scan(&p.ID, &p.Code, &p.Name, &p.Price, &p.Stock, &p.Active, &p.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query product: %w", err)
	}

	return &p, nil
}

// CreateOrder writes the order header, its lines, and the stock decrements in
// one transaction. Each decrement is conditioned on stock >= quantity, so of
// two concurrent orders competing for the last units exactly one commits; the
// other rolls back with domain.ErrInsufficientStock.
func (m *MySQLAdapter) CreateOrder(ctx context.Context, order *domain.Order) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO orders (number, customer_id, worker_id, subtotal, discount, service_charge, total, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		order.Number, order.CustomerID, order.WorkerID,
		order.Subtotal, order.Discount, order.ServiceCharge, order.Total,
		order.CreatedAt,
	)
	if err != nil {
		if isDuplicateEntry(err) {
			return fmt.Errorf("order number %s collided: %w", order.Number, err)
		}
		return fmt.Errorf("insert order: %w", err)
	}

	order.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("order id: %w", err)
	}

	for i := range order.Lines {
		line := &order.Lines[i]
		line.OrderID = order.ID

		res, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, quantity, unit_price, subtotal)
			VALUES (?, ?, ?, ?, ?)`,
			line.OrderID, line.ProductID, line.Quantity, line.UnitPrice, line.Subtotal,
		)
		if err != nil {
			return fmt.Errorf("insert order line: %w", err)
		}
		line.ID, _ = res.LastInsertId()

		result, err := tx.ExecContext(ctx, `
			UPDATE products SET stock = stock - ?
			WHERE id = ? AND active = TRUE AND stock >= ?`,
			line.Quantity, line.ProductID, line.Quantity,
		)
		if err != nil {
			return fmt.Errorf("decrement stock: %w", err)
		}

		rows, _ := result.RowsAffected()
		if rows == 0 {
			return fmt.Errorf("%w: product %d", domain.ErrInsufficientStock, line.ProductID)
		}
	}

	return tx.Commit()
}

const orderSummarySelect = `
	SELECT o.id, o.number, o.customer_id, o.worker_id,
	       o.subtotal, o.discount, o.service_charge, o.total, o.created_at,
	       c.name, c.tier, COALESCE(w.name, '')
	FROM orders o
	INNER JOIN customers c ON o.customer_id = c.id
	LEFT JOIN workers w ON o.worker_id = w.id`

func scanOrderSummary(rows interface{ Scan(...any) error }, s *domain.OrderSummary) error {
	return rows.Scan(
		&s.ID, &s.Number, &s.CustomerID, &s.WorkerID,
		&s.Subtotal, &s.Discount, &s.ServiceCharge, &s.Total, &s.CreatedAt,
		&s.CustomerName, &s.CustomerTier, &s.WorkerName,
	)
}

func (m *MySQLAdapter) ListOrders(ctx context.Context) ([]domain.OrderSummary, error) {
	rows, err := m.db.QueryContext(ctx, orderSummarySelect+` ORDER BY o.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.OrderSummary
	for rows.Next() {
		var s domain.OrderSummary
		if err := scanOrderSummary(rows, &s); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, s)
	}

	return orders, rows.Err()
}

func (m *MySQLAdapter) GetOrder(ctx context.Context, id int64) (*domain.OrderDetail, error) {
	var d domain.OrderDetail
	err := scanOrderSummary(
		m.db.QueryRowContext(ctx, orderSummarySelect+` WHERE o.id = ?`, id),
		&d.OrderSummary,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query order: %w", err)
	}

	rows, err := m.db.QueryContext(ctx, `
		SELECT i.id, i.order_id, i.product_id, i.quantity, i.unit_price, i.subtotal,
		       p.code, p.name
		FROM order_items i
		INNER JOIN products p ON i.product_id = p.id
		WHERE i.order_id = ?
		ORDER BY i.id`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("query order lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l domain.OrderLineDetail
		if err := rows.Scan(
			&l.ID, &l.OrderID, &l.ProductID, &l.Quantity, &l.UnitPrice, &l.Subtotal,
			&l.ProductCode, &l.ProductName,
		); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		d.LineDetails = append(d.LineDetails, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &d, nil
}

func (m *MySQLAdapter) FindOrdersByCustomerAndDate(ctx context.Context, customerID int64, day time.Time) ([]domain.OrderSummary, error) {
	rows, err := m.db.QueryContext(ctx,
		orderSummarySelect+` WHERE o.customer_id = ? AND DATE(o.created_at) = ? ORDER BY o.created_at DESC`,
		customerID, day.Format("2006-01-02"),
	)
	if err != nil {
		return nil, fmt.Errorf("query customer orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.OrderSummary
	for rows.Next() {
		var s domain.OrderSummary
		if err := scanOrderSummary(rows, &s); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, s)
	}

	return orders, rows.Err()
}
