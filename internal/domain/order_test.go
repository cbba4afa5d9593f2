package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseDeliveryMode(t *testing.T) {
	for raw, want := range map[string]DeliveryMode{
		"delivery": ModeDelivery,
		"PICKUP":   ModePickup,
		" pickup ": ModePickup,
	} {
		got, err := ParseDeliveryMode(raw)
		if err != nil || got != want {
			t.Errorf("ParseDeliveryMode(%q) = (%v, %v), want %v", raw, got, err, want)
		}
	}

	if _, err := ParseDeliveryMode("teleport"); !errors.Is(err, ErrInvalidChoice) {
		t.Errorf("expected ErrInvalidChoice, got %v", err)
	}
	if _, err := ParseDeliveryMode(""); !errors.Is(err, ErrInvalidChoice) {
		t.Errorf("expected ErrInvalidChoice for empty, got %v", err)
	}
}

func TestParseStatus(t *testing.T) {
	got, err := ParseStatus("on_the_way")
	if err != nil || got != StatusOnTheWay {
		t.Fatalf("ParseStatus(on_the_way) = (%v, %v)", got, err)
	}
	if _, err := ParseStatus("LOST"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestOrderLineSubtotal(t *testing.T) {
	line := OrderLine{Quantity: 3, UnitPrice: decimal.RequireFromString("2.50")}
	if !line.Subtotal().Equal(decimal.RequireFromString("7.50")) {
		t.Fatalf("subtotal = %s", line.Subtotal())
	}
}

func TestNewOrderNumber(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		n := NewOrderNumber()
		if len(n) != 8 {
			t.Fatalf("number %q must have 8 characters", n)
		}
		seen[n] = true
	}
	if len(seen) < 100 {
		t.Fatalf("expected unique numbers, got %d distinct of 100", len(seen))
	}
}
