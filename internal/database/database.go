package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"eventflow/internal/config"
	"eventflow/internal/logger"
	"eventflow/internal/metrics"
	"eventflow/internal/models"

	_ "github.com/denisenkom/go-mssqldb"
	"github.com/sirupsen/logrus"
)

// DB wraps the SQL database connection
type DB struct {
	conn *sql.DB
}

// Order is a persisted order row
type Order struct {
	OrderID     string    `json:"orderId"`
	UserID      string    `json:"userId"`
	TotalAmount float64   `json:"totalAmount"`
	Currency    string    `json:"currency"`
	PlacedAt    time.Time `json:"placedAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// New creates a new database connection
func New(cfg *config.MSSQLConfig) (*DB, error) {
	conn, err := sql.Open("sqlserver", cfg.GetConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := conn.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Set connection pool settings
	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(5 * time.Minute)

	logger.Log.Info("Successfully connected to MS SQL database")

	return &DB{conn: conn}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// Apply persists a decoded event idempotently
func (db *DB) Apply(ctx context.Context, d models.Decoded) error {
	var err error
	switch e := d.Event.(type) {
	case models.UserCreated:
		err = db.upsertUser(ctx, e)
	case models.OrderPlaced:
		err = db.upsertOrder(ctx, e)
	case models.PaymentSettled:
		err = db.upsertPayment(ctx, e)
	case models.InventoryAdjusted:
		err = db.adjustInventory(ctx, e)
	default:
		err = fmt.Errorf("no table for event type %s", d.Type)
	}

	entry := logger.WithRecordID(d.ID()).WithFields(logrus.Fields{
		"eventType": d.Type,
		"key":       d.Event.GetKey(),
	})
	if err != nil {
		entry.WithField("error", err.Error()).Error("Failed to apply event")
		return err
	}

	entry.Debug("Event applied")
	return nil
}

func observe(operation string) func() {
	start := time.Now()
	return func() {
		metrics.DBLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}

const upsertUserQuery = `
	MERGE INTO users AS target
	USING (SELECT @p1 AS user_id) AS source
	ON target.user_id = source.user_id
	WHEN MATCHED THEN
		UPDATE SET email = @p2, first_name = @p3, last_name = @p4, updated_at = @p5
	WHEN NOT MATCHED THEN
		INSERT (user_id, email, first_name, last_name, created_at, updated_at)
		VALUES (@p1, @p2, @p3, @p4, @p6, @p5);
`

func (db *DB) upsertUser(ctx context.Context, e models.UserCreated) error {
	defer observe("upsert_user")()

	_, err := db.conn.ExecContext(ctx, upsertUserQuery,
		e.UserID, e.Email, e.FirstName, e.LastName, time.Now(), e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

const upsertOrderQuery = `
	MERGE INTO orders AS target
	USING (SELECT @p1 AS order_id) AS source
	ON target.order_id = source.order_id
	WHEN MATCHED THEN
		UPDATE SET user_id = @p2, total_amount = @p3, currency = @p4, updated_at = @p5
	WHEN NOT MATCHED THEN
		INSERT (order_id, user_id, total_amount, currency, placed_at, updated_at)
		VALUES (@p1, @p2, @p3, @p4, @p6, @p5);
`

// upsertOrder replaces the order row and its items in one transaction
func (db *DB) upsertOrder(ctx context.Context, e models.OrderPlaced) error {
	defer observe("upsert_order")()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, upsertOrderQuery,
		e.OrderID, e.UserID, e.TotalAmount, e.Currency, time.Now(), e.PlacedAt); err != nil {
		return fmt.Errorf("failed to upsert order: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = @p1`, e.OrderID); err != nil {
		return fmt.Errorf("failed to delete existing order items: %w", err)
	}

	for _, item := range e.Items {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO order_items (order_id, sku, quantity, price) VALUES (@p1, @p2, @p3, @p4)`,
			e.OrderID, item.SKU, item.Quantity, item.Price); err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

const upsertPaymentQuery = `
	MERGE INTO payments AS target
	USING (SELECT @p1 AS payment_id) AS source
	ON target.payment_id = source.payment_id
	WHEN MATCHED THEN
		UPDATE SET order_id = @p2, amount = @p3, currency = @p4,
		           payment_method = @p5, status = @p6, settled_at = @p7, updated_at = @p8
	WHEN NOT MATCHED THEN
		INSERT (payment_id, order_id, amount, currency, payment_method, status, settled_at, updated_at)
		VALUES (@p1, @p2, @p3, @p4, @p5, @p6, @p7, @p8);
`

func (db *DB) upsertPayment(ctx context.Context, e models.PaymentSettled) error {
	defer observe("upsert_payment")()

	_, err := db.conn.ExecContext(ctx, upsertPaymentQuery,
		e.PaymentID, e.OrderID, e.Amount, e.Currency, e.PaymentMethod, e.Status, e.SettledAt, time.Now())
	if err != nil {
		return fmt.Errorf("failed to upsert payment: %w", err)
	}
	return nil
}

const adjustInventoryQuery = `
	MERGE INTO inventory AS target
	USING (SELECT @p1 AS sku) AS source
	ON target.sku = source.sku
	WHEN MATCHED THEN
		UPDATE SET quantity = target.quantity + @p2, updated_at = @p3
	WHEN NOT MATCHED THEN
		INSERT (sku, quantity, updated_at)
		VALUES (@p1, @p2, @p3);
`

func (db *DB) adjustInventory(ctx context.Context, e models.InventoryAdjusted) error {
	defer observe("adjust_inventory")()

	if _, err := db.conn.ExecContext(ctx, adjustInventoryQuery, e.SKU, e.Delta(), time.Now()); err != nil {
		return fmt.Errorf("failed to adjust inventory: %w", err)
	}
	return nil
}

// RecentOrders returns the latest N orders by placed_at desc
func (db *DB) RecentOrders(ctx context.Context, limit int) ([]Order, error) {
	defer observe("recent_orders")()

	if limit <= 0 || limit > 500 {
		limit = 50
	}

	rows, err := db.conn.QueryContext(ctx, `
		SELECT TOP (@p1) order_id, user_id, total_amount, currency, placed_at, updated_at
		FROM orders
		ORDER BY placed_at DESC
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.OrderID, &o.UserID, &o.TotalAmount, &o.Currency, &o.PlacedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate orders: %w", err)
	}
	return orders, nil
}
