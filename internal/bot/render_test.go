package bot

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sushi-aurum/orderbot/internal/cart"
	"github.com/sushi-aurum/orderbot/internal/domain"
)

func TestRenderCartWithFee(t *testing.T) {
	summary := cart.Summary{
		Lines: []cart.Line{
			{ItemID: "roll_phila", Title: "Филадельфия", Quantity: 2,
				UnitPrice: decimal.RequireFromString("5.00"),
				Subtotal:  decimal.RequireFromString("10.00")},
		},
		Merchandise: decimal.RequireFromString("10.00"),
		DeliveryFee: decimal.RequireFromString("2.00"),
		Payable:     decimal.RequireFromString("12.00"),
	}

	text := renderCart(summary, "ru", "€")
	for _, want := range []string{"Филадельфия × 2 = €10.00", "Сумма: €10.00", "Доставка: €2.00", "Итого: €12.00"} {
		if !strings.Contains(text, want) {
			t.Errorf("cart text missing %q:\n%s", want, text)
		}
	}
}

func TestRenderCartFreeDelivery(t *testing.T) {
	summary := cart.Summary{
		Lines: []cart.Line{
			{ItemID: "set_big", Title: "Сет", Quantity: 1,
				UnitPrice: decimal.RequireFromString("25.00"),
				Subtotal:  decimal.RequireFromString("25.00")},
		},
		Merchandise:  decimal.RequireFromString("25.00"),
		DeliveryFee:  decimal.Zero,
		FreeDelivery: true,
		Payable:      decimal.RequireFromString("25.00"),
	}

	text := renderCart(summary, "ru", "€")
	if !strings.Contains(text, "Доставка: бесплатно") {
		t.Errorf("expected free delivery line:\n%s", text)
	}
	if strings.Contains(text, "Доставка: €") {
		t.Errorf("free delivery must not show a fee:\n%s", text)
	}
}

func TestRenderOrderPickup(t *testing.T) {
	o := &domain.Order{
		ID:     7,
		Number: "AB12CD34",
		Lines: []domain.OrderLine{
			{ItemID: "roll_cali", Title: "Калифорния", Quantity: 1, UnitPrice: decimal.RequireFromString("8.00")},
		},
		Total:     decimal.RequireFromString("8.00"),
		Mode:      domain.ModePickup,
		Phone:     "0612345678",
		Comment:   "без имбиря",
		Status:    domain.StatusNew,
		CreatedAt: time.Date(2026, 8, 30, 12, 30, 0, 0, time.UTC),
	}

	text := renderOrder(o, "€")
	for _, want := range []string{"#7 AB12CD34 · NEW", "самовывоз", "📞 0612345678", "💬 без имбиря", "Итого: €8.00"} {
		if !strings.Contains(text, want) {
			t.Errorf("order text missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "🚗") {
		t.Errorf("pickup order must not show a delivery address:\n%s", text)
	}
}

func TestStatusList(t *testing.T) {
	list := statusList()
	for _, s := range domain.Statuses() {
		if !strings.Contains(list, string(s)) {
			t.Errorf("status list missing %s: %s", s, list)
		}
	}
}
