package order

import (
	"context"
	"sync"
	"time"

	"github.com/sushi-aurum/orderbot/internal/domain"
)

// MemoryRepository is an in-process Repository used in tests and local
// development. Ids are assigned from a monotonic counter.
type MemoryRepository struct {
	mu     sync.Mutex
	nextID int64
	orders []domain.Order
}

// NewMemoryRepository returns an empty MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{nextID: 1}
}

// Create stores a copy of the order with the next id.
func (r *MemoryRepository) Create(_ context.Context, o *domain.Order) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *o
	stored.ID = r.nextID
	r.nextID++
	stored.CreatedAt = time.Now()
	stored.Lines = append([]domain.OrderLine(nil), o.Lines...)
	r.orders = append(r.orders, stored)

	out := stored
	out.Lines = append([]domain.OrderLine(nil), stored.Lines...)
	return &out, nil
}

// SetStatus updates the status of a stored order.
func (r *MemoryRepository) SetStatus(_ context.Context, id int64, status domain.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.orders {
		if r.orders[i].ID == id {
			r.orders[i].Status = status
			return nil
		}
	}
	return domain.ErrNotFound
}

// ListRecent returns up to limit orders, newest first.
func (r *MemoryRepository) ListRecent(_ context.Context, limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 10
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.Order, 0, limit)
	for i := len(r.orders) - 1; i >= 0 && len(out) < limit; i-- {
		o := r.orders[i]
		o.Lines = append([]domain.OrderLine(nil), o.Lines...)
		out = append(out, o)
	}
	return out, nil
}
