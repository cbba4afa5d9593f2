package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sushi-aurum/orderbot/core/logger"
	"github.com/sushi-aurum/orderbot/internal/domain"
)

// PostgresRepository stores orders in PostgreSQL. Each order and its
// lines are written in one transaction.
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a repository over an open connection pool.
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const insertOrderSQL = `
INSERT INTO orders (number, user_id, lang, total, delivery_fee, mode, address, phone, comment, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING id, created_at`

const insertLineSQL = `
INSERT INTO order_lines (order_id, item_id, title, quantity, unit_price)
VALUES ($1, $2, $3, $4, $5)`

// Create inserts the order and its lines atomically.
func (r *PostgresRepository) Create(ctx context.Context, o *domain.Order) (*domain.Order, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: begin: %v", domain.ErrPersistence, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stored := *o
	err = tx.QueryRowxContext(ctx, insertOrderSQL,
		o.Number, o.UserID, o.Lang, o.Total, o.DeliveryFee,
		o.Mode, o.Address, o.Phone, o.Comment, o.Status,
	).Scan(&stored.ID, &stored.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: insert order: %v", domain.ErrPersistence, err)
	}

	for _, line := range o.Lines {
		if _, err := tx.ExecContext(ctx, insertLineSQL,
			stored.ID, line.ItemID, line.Title, line.Quantity, line.UnitPrice,
		); err != nil {
			return nil, fmt.Errorf("%w: insert line %s: %v", domain.ErrPersistence, line.ItemID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: commit: %v", domain.ErrPersistence, err)
	}

	logger.Orders.Info("order.created",
		slog.Int64("order_id", stored.ID),
		slog.String("order_number", stored.Number),
		slog.String("mode", string(stored.Mode)),
		slog.String("total", stored.Total.StringFixed(2)),
	)
	return &stored, nil
}

// SetStatus updates the order status. Any recognized status value is
// accepted regardless of the current one.
func (r *PostgresRepository) SetStatus(ctx context.Context, id int64, status domain.Status) error {
	res, err := r.db.ExecContext(ctx, `UPDATE orders SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("%w: set status: %v", domain.ErrPersistence, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected: %v", domain.ErrPersistence, err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

const listRecentSQL = `
SELECT id, number, user_id, lang, total, delivery_fee, mode, address, phone, comment, status, created_at
FROM orders
ORDER BY id DESC
LIMIT $1`

const listLinesSQL = `
SELECT item_id, title, quantity, unit_price
FROM order_lines
WHERE order_id = $1
ORDER BY item_id`

// ListRecent returns the newest orders with their lines.
func (r *PostgresRepository) ListRecent(ctx context.Context, limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 10
	}

	var orders []domain.Order
	if err := r.db.SelectContext(ctx, &orders, listRecentSQL, limit); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: list orders: %v", domain.ErrPersistence, err)
	}

	for i := range orders {
		var lines []domain.OrderLine
		if err := r.db.SelectContext(ctx, &lines, listLinesSQL, orders[i].ID); err != nil {
			return nil, fmt.Errorf("%w: list lines: %v", domain.ErrPersistence, err)
		}
		orders[i].Lines = lines
	}
	return orders, nil
}

// Ping checks connectivity with a short deadline.
func (r *PostgresRepository) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return r.db.PingContext(ctx)
}
