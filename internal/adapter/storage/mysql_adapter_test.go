package storage

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vitoko/coffee-pos/internal/core/domain"
)

func getMySQLDB(t *testing.T) *sql.DB {
	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		dsn = "root:root@tcp(localhost:3306)/coffee?parseTime=true"
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Skipf("MySQL not available: %v", err)
	}

	return db
}

func seedCustomer(t *testing.T, db *sql.DB, tier domain.CustomerTier, active bool) int64 {
	t.Helper()

	res, err := db.Exec(`INSERT INTO customers (name, tier, active) VALUES (?, ?, ?)`,
		"test-customer", tier, active)
	if err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	id, _ := res.LastInsertId()

	t.Cleanup(func() {
		db.Exec(`DELETE FROM customers WHERE id = ?`, id)
	})
	return id
}

func seedProduct(t *testing.T, db *sql.DB, price string, stock int) int64 {
	t.Helper()

	res, err := db.Exec(`INSERT INTO products (code, name, price, stock) VALUES (?, ?, ?, ?)`,
		"test-"+uuid.NewString()[:8], "test-product", price, stock)
	if err != nil {
		t.Fatalf("seed product: %v", err)
	}
	id, _ := res.LastInsertId()

	t.Cleanup(func() {
		db.Exec(`DELETE FROM products WHERE id = ?`, id)
	})
	return id
}

func productStock(t *testing.T, db *sql.DB, id int64) int {
	t.Helper()

	var stock int
	if err := db.QueryRow(`SELECT stock FROM products WHERE id = ?`, id).Scan(&stock); err != nil {
		t.Fatalf("read stock: %v", err)
	}
	return stock
}

func testOrder(customerID int64, lines ...domain.OrderLine) *domain.Order {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Subtotal)
	}
	charge := subtotal.Mul(decimal.RequireFromString("0.10")).Round(2)

	return &domain.Order{
		Number:        "TEST-" + uuid.NewString()[:13],
		CustomerID:    customerID,
		WorkerID:      1,
		Subtotal:      subtotal,
		Discount:      decimal.Zero,
		ServiceCharge: charge,
		Total:         subtotal.Add(charge),
		CreatedAt:     time.Now(),
		Lines:         lines,
	}
}

func line(productID int64, quantity int, price string) domain.OrderLine {
	p := decimal.RequireFromString(price)
	return domain.OrderLine{
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: p,
		Subtotal:  p.Mul(decimal.NewFromInt(int64(quantity))),
	}
}

func TestCreateOrder_Success(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	adapter := NewMySQLAdapter(db)

	customerID := seedCustomer(t, db, domain.TierNormal, true)
	productA := seedProduct(t, db, "3.00", 10)
	productB := seedProduct(t, db, "5.00", 10)

	order := testOrder(customerID, line(productA, 2, "3.00"), line(productB, 1, "5.00"))
	t.Cleanup(func() {
		db.Exec(`DELETE FROM order_items WHERE order_id = ?`, order.ID)
		db.Exec(`DELETE FROM orders WHERE id = ?`, order.ID)
	})

	if err := adapter.CreateOrder(ctx, order); err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	if order.ID == 0 {
		t.Error("expected generated order id")
	}

	var lineCount int
	db.QueryRow(`SELECT COUNT(*) FROM order_items WHERE order_id = ?`, order.ID).Scan(&lineCount)
	if lineCount != 2 {
		t.Errorf("expected 2 persisted lines, got %d", lineCount)
	}

	if got := productStock(t, db, productA); got != 8 {
		t.Errorf("expected stock 8, got %d", got)
	}
	if got := productStock(t, db, productB); got != 9 {
		t.Errorf("expected stock 9, got %d", got)
	}
}

func TestCreateOrder_InsufficientStockRollsBack(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	adapter := NewMySQLAdapter(db)

	customerID := seedCustomer(t, db, domain.TierNormal, true)
	productA := seedProduct(t, db, "3.00", 10)
	productB := seedProduct(t, db, "5.00", 1)

	// The second line overdraws product B; the first line's decrement must
	// be rolled back with everything else.
	order := testOrder(customerID, line(productA, 2, "3.00"), line(productB, 5, "5.00"))

	err := adapter.CreateOrder(ctx, order)
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got: %v", err)
	}

	if got := productStock(t, db, productA); got != 10 {
		t.Errorf("expected stock 10 after rollback, got %d", got)
	}
	if got := productStock(t, db, productB); got != 1 {
		t.Errorf("expected stock 1 after rollback, got %d", got)
	}

	var count int
	db.QueryRow(`SELECT COUNT(*) FROM orders WHERE number = ?`, order.Number).Scan(&count)
	if count != 0 {
		t.Error("expected no order row after rollback")
	}
}

func TestCreateOrder_ConcurrentOversell(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	adapter := NewMySQLAdapter(db)

	customerID := seedCustomer(t, db, domain.TierNormal, true)
	productID := seedProduct(t, db, "3.00", 1)

	// Both orders want the last unit; exactly one may commit.
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			order := testOrder(customerID, line(productID, 1, "3.00"))
			err := adapter.CreateOrder(ctx, order)
			if err == nil {
				defer db.Exec(`DELETE FROM orders WHERE id = ?`, order.ID)
				defer db.Exec(`DELETE FROM order_items WHERE order_id = ?`, order.ID)
			}
			results <- err
		}()
	}

	var successes, stockFailures int
	for i := 0; i < 2; i++ {
		err := <-results
		switch {
		case err == nil:
			successes++
		case errors.Is(err, domain.ErrInsufficientStock):
			stockFailures++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if successes != 1 || stockFailures != 1 {
		t.Errorf("expected 1 success and 1 stock failure, got %d/%d", successes, stockFailures)
	}
	if got := productStock(t, db, productID); got != 0 {
		t.Errorf("expected stock 0, got %d", got)
	}
}

func TestFindActiveCustomer(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	adapter := NewMySQLAdapter(db)

	activeID := seedCustomer(t, db, domain.TierPremium, true)
	inactiveID := seedCustomer(t, db, domain.TierNormal, false)

	c, err := adapter.FindActiveCustomer(ctx, activeID)
	if err != nil {
		t.Fatalf("FindActiveCustomer failed: %v", err)
	}
	if c == nil {
		t.Fatal("expected customer, got nil")
	}
	if c.Tier != domain.TierPremium {
		t.Errorf("expected premium tier, got %s", c.Tier)
	}

	c, err = adapter.FindActiveCustomer(ctx, inactiveID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c != nil {
		t.Error("expected nil for inactive customer")
	}
}

func TestFindActiveProduct_NotFound(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	adapter := NewMySQLAdapter(db)

	p, err := adapter.FindActiveProduct(context.Background(), -1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != nil {
		t.Error("expected nil for nonexistent product")
	}
}

func TestCreateProduct_DuplicateCode(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	adapter := NewMySQLAdapter(db)

	code := "dup-" + uuid.NewString()[:8]
	first := &domain.Product{Code: code, Name: "first", Price: decimal.RequireFromString("1.00")}
	if err := adapter.CreateProduct(ctx, first); err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}
	t.Cleanup(func() {
		db.Exec(`DELETE FROM products WHERE id = ?`, first.ID)
	})

	second := &domain.Product{Code: code, Name: "second", Price: decimal.RequireFromString("2.00")}
	err := adapter.CreateProduct(ctx, second)
	if !errors.Is(err, domain.ErrDuplicateCode) {
		t.Errorf("expected ErrDuplicateCode, got: %v", err)
	}
}

func TestSetCustomerActive_NotFound(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	adapter := NewMySQLAdapter(db)

	err := adapter.SetCustomerActive(context.Background(), -1, false)
	if !errors.Is(err, domain.ErrCustomerNotFound) {
		t.Errorf("expected ErrCustomerNotFound, got: %v", err)
	}
}

func TestGetOrder_RoundTrip(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	adapter := NewMySQLAdapter(db)

	customerID := seedCustomer(t, db, domain.TierNormal, true)
	productID := seedProduct(t, db, "4.50", 10)

	order := testOrder(customerID, line(productID, 2, "4.50"))
	if err := adapter.CreateOrder(ctx, order); err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	t.Cleanup(func() {
		db.Exec(`DELETE FROM order_items WHERE order_id = ?`, order.ID)
		db.Exec(`DELETE FROM orders WHERE id = ?`, order.ID)
	})

	detail, err := adapter.GetOrder(ctx, order.ID)
	if err != nil {
		t.Fatalf("GetOrder failed: %v", err)
	}
	if detail == nil {
		t.Fatal("expected order detail, got nil")
	}

	if detail.Number != order.Number {
		t.Errorf("expected number %s, got %s", order.Number, detail.Number)
	}
	if detail.CustomerName != "test-customer" {
		t.Errorf("expected joined customer name, got %s", detail.CustomerName)
	}
	if len(detail.LineDetails) != 1 {
		t.Fatalf("expected 1 line, got %d", len(detail.LineDetails))
	}

	got := detail.LineDetails[0]
	if !got.UnitPrice.Equal(decimal.RequireFromString("4.50")) {
		t.Errorf("expected unit price 4.50, got %s", got.UnitPrice)
	}
	if !got.Subtotal.Equal(decimal.RequireFromString("9.00")) {
		t.Errorf("expected line subtotal 9.00, got %s", got.Subtotal)
	}
	if got.ProductName != "test-product" {
		t.Errorf("expected joined product name, got %s", got.ProductName)
	}
}
