// Package order persists placed orders and serves operator queries.
package order

import (
	"context"

	"github.com/sushi-aurum/orderbot/internal/domain"
)

// Repository stores orders. Create assigns the id and creation time;
// the caller provides everything else.
type Repository interface {
	// Create inserts the order with all its lines atomically and
	// returns the stored copy with ID and CreatedAt set.
	Create(ctx context.Context, o *domain.Order) (*domain.Order, error)
	// SetStatus updates the status of an existing order. Unknown ids
	// yield domain.ErrNotFound without writing anything.
	SetStatus(ctx context.Context, id int64, status domain.Status) error
	// ListRecent returns up to limit orders, newest first, lines included.
	ListRecent(ctx context.Context, limit int) ([]domain.Order, error)
}
