package cart

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/sushi-aurum/orderbot/internal/catalog"
	"github.com/sushi-aurum/orderbot/internal/domain"
	"github.com/sushi-aurum/orderbot/internal/session"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cats := []catalog.Category{
		{ID: "rolls", Titles: map[string]string{"ru": "Роллы", "nl": "Rollen"}},
	}
	items := []catalog.Item{
		{ID: "roll_phila", CategoryID: "rolls", Titles: map[string]string{"ru": "Филадельфия"}, Price: decimal.RequireFromString("5.00")},
		{ID: "roll_cali", CategoryID: "rolls", Titles: map[string]string{"ru": "Калифорния"}, Price: decimal.RequireFromString("8.00")},
	}
	policy := catalog.DeliveryPolicy{
		Fee:      decimal.RequireFromString("2.00"),
		FreeOver: decimal.RequireFromString("20.00"),
	}
	return catalog.New(cats, items, policy)
}

func TestAddItemAccumulatesQuantity(t *testing.T) {
	sessions := session.NewStore("ru")
	engine := NewEngine(testCatalog(t), sessions)

	for i := 0; i < 3; i++ {
		if _, err := engine.AddItem(1, "roll_phila"); err != nil {
			t.Fatalf("AddItem: %v", err)
		}
	}

	sum := engine.Totals(1, "ru")
	if len(sum.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(sum.Lines))
	}
	if sum.Lines[0].Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", sum.Lines[0].Quantity)
	}
	if !sum.Lines[0].Subtotal.Equal(decimal.RequireFromString("15.00")) {
		t.Fatalf("expected subtotal 15.00, got %s", sum.Lines[0].Subtotal)
	}
}

func TestAddItemUnknown(t *testing.T) {
	sessions := session.NewStore("ru")
	engine := NewEngine(testCatalog(t), sessions)

	_, err := engine.AddItem(1, "no_such_item")
	if !errors.Is(err, domain.ErrUnknownItem) {
		t.Fatalf("expected ErrUnknownItem, got %v", err)
	}
	if sum := engine.Totals(1, "ru"); !sum.Empty() {
		t.Fatalf("cart must stay empty after a rejected add")
	}
}

func TestTotalsIsPure(t *testing.T) {
	sessions := session.NewStore("ru")
	engine := NewEngine(testCatalog(t), sessions)
	if _, err := engine.AddItem(1, "roll_cali"); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	first := engine.Totals(1, "ru")
	second := engine.Totals(1, "ru")
	if !first.Payable.Equal(second.Payable) || len(first.Lines) != len(second.Lines) {
		t.Fatalf("repeated Totals changed the result: %s vs %s", first.Payable, second.Payable)
	}
}

func TestDeliveryFeeBoundary(t *testing.T) {
	cases := []struct {
		name     string
		quantity int
		wantFee  string
		wantFree bool
	}{
		{name: "below threshold pays fee", quantity: 2, wantFee: "2.00", wantFree: false},
		{name: "at threshold ships free", quantity: 4, wantFee: "0", wantFree: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sessions := session.NewStore("ru")
			engine := NewEngine(testCatalog(t), sessions)
			for i := 0; i < tc.quantity; i++ {
				if _, err := engine.AddItem(1, "roll_phila"); err != nil {
					t.Fatalf("AddItem: %v", err)
				}
			}

			sum := engine.Totals(1, "ru")
			if !sum.DeliveryFee.Equal(decimal.RequireFromString(tc.wantFee)) {
				t.Fatalf("fee = %s, want %s", sum.DeliveryFee, tc.wantFee)
			}
			if sum.FreeDelivery != tc.wantFree {
				t.Fatalf("free = %v, want %v", sum.FreeDelivery, tc.wantFree)
			}
			want := sum.Merchandise.Add(sum.DeliveryFee)
			if !sum.Payable.Equal(want) {
				t.Fatalf("payable = %s, want %s", sum.Payable, want)
			}
		})
	}
}

func TestDeliveryFeeExactBoundary(t *testing.T) {
	cats := []catalog.Category{{ID: "rolls", Titles: map[string]string{"ru": "Роллы"}}}
	items := []catalog.Item{
		{ID: "just_under", CategoryID: "rolls", Titles: map[string]string{"ru": "A"}, Price: decimal.RequireFromString("19.99")},
		{ID: "exactly", CategoryID: "rolls", Titles: map[string]string{"ru": "B"}, Price: decimal.RequireFromString("0.01")},
	}
	policy := catalog.DeliveryPolicy{
		Fee:      decimal.RequireFromString("2.00"),
		FreeOver: decimal.RequireFromString("20.00"),
	}
	sessions := session.NewStore("ru")
	engine := NewEngine(catalog.New(cats, items, policy), sessions)

	if _, err := engine.AddItem(1, "just_under"); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	sum := engine.Totals(1, "ru")
	if sum.FreeDelivery || !sum.DeliveryFee.Equal(decimal.RequireFromString("2.00")) {
		t.Fatalf("19.99 must pay the fee, got fee %s free %v", sum.DeliveryFee, sum.FreeDelivery)
	}

	if _, err := engine.AddItem(1, "exactly"); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	sum = engine.Totals(1, "ru")
	if !sum.FreeDelivery || !sum.DeliveryFee.IsZero() {
		t.Fatalf("20.00 must ship free, got fee %s free %v", sum.DeliveryFee, sum.FreeDelivery)
	}
}

func TestTotalsSkipsVanishedItems(t *testing.T) {
	sessions := session.NewStore("ru")
	engine := NewEngine(testCatalog(t), sessions)
	sessions.Update(1, func(s *session.Session) {
		s.Cart["roll_phila"] = 1
		s.Cart["discontinued"] = 2
	})

	sum := engine.Totals(1, "ru")
	if len(sum.Lines) != 1 {
		t.Fatalf("expected vanished item to be skipped, got %d lines", len(sum.Lines))
	}
	if !sum.Merchandise.Equal(decimal.RequireFromString("5.00")) {
		t.Fatalf("merchandise = %s, want 5.00", sum.Merchandise)
	}
}

func TestClear(t *testing.T) {
	sessions := session.NewStore("ru")
	engine := NewEngine(testCatalog(t), sessions)
	if _, err := engine.AddItem(1, "roll_phila"); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	engine.Clear(1)
	if sum := engine.Totals(1, "ru"); !sum.Empty() {
		t.Fatalf("expected empty cart after Clear")
	}
}
