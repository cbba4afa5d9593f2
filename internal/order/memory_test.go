package order

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/sushi-aurum/orderbot/internal/domain"
)

func sampleOrder(userID int64) *domain.Order {
	return &domain.Order{
		Number: domain.NewOrderNumber(),
		UserID: userID,
		Lang:   "ru",
		Lines: []domain.OrderLine{
			{ItemID: "roll_phila", Title: "Филадельфия", Quantity: 2, UnitPrice: decimal.RequireFromString("5.00")},
		},
		Total:       decimal.RequireFromString("12.00"),
		DeliveryFee: decimal.RequireFromString("2.00"),
		Mode:        domain.ModeDelivery,
		Address:     "Keizersgracht 1",
		Phone:       "0612345678",
		Status:      domain.StatusNew,
	}
}

func TestCreateAssignsMonotonicIDs(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	first, err := repo.Create(ctx, sampleOrder(1))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	second, err := repo.Create(ctx, sampleOrder(2))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if first.ID != 1 || second.ID != 2 {
		t.Fatalf("expected ids 1,2 got %d,%d", first.ID, second.ID)
	}
	if first.CreatedAt.IsZero() {
		t.Fatalf("expected CreatedAt to be set")
	}
	if len(first.Lines) != 1 {
		t.Fatalf("expected lines to be stored, got %d", len(first.Lines))
	}
}

func TestSetStatusUnknownID(t *testing.T) {
	repo := NewMemoryRepository()
	err := repo.SetStatus(context.Background(), 999, domain.StatusDone)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSetStatusAnyTransition(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	created, err := repo.Create(ctx, sampleOrder(1))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// No transition graph: DONE back to COOKING is allowed.
	for _, status := range []domain.Status{domain.StatusDone, domain.StatusCooking} {
		if err := repo.SetStatus(ctx, created.ID, status); err != nil {
			t.Fatalf("SetStatus(%s): %v", status, err)
		}
	}

	orders, err := repo.ListRecent(ctx, 1)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if orders[0].Status != domain.StatusCooking {
		t.Fatalf("expected COOKING, got %s", orders[0].Status)
	}
}

func TestListRecentNewestFirstBounded(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	for i := int64(1); i <= 5; i++ {
		if _, err := repo.Create(ctx, sampleOrder(i)); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	orders, err := repo.ListRecent(ctx, 3)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(orders) != 3 {
		t.Fatalf("expected 3 orders, got %d", len(orders))
	}
	if orders[0].ID != 5 || orders[2].ID != 3 {
		t.Fatalf("expected newest first (5..3), got %d..%d", orders[0].ID, orders[2].ID)
	}
}

func TestListRecentDefaultLimit(t *testing.T) {
	repo := NewMemoryRepository()
	orders, err := repo.ListRecent(context.Background(), 0)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(orders) != 0 {
		t.Fatalf("expected no orders, got %d", len(orders))
	}
}
