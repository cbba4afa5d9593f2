package catalog

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/sushi-aurum/orderbot/internal/domain"
)

const sampleMenu = `{
  "categories": [
    {"id": "rolls", "title_ru": "Роллы", "title_nl": "Rollen"},
    {"id": "drinks", "title_ru": "Напитки"}
  ],
  "items": [
    {"id": "roll_phila", "cat_id": "rolls", "title_ru": "Филадельфия", "title_nl": "Philadelphia", "price": 8.50},
    {"id": "orphan", "cat_id": "desserts", "title_ru": "Чизкейк", "price": 4.00},
    {"id": "negative", "cat_id": "rolls", "title_ru": "Ошибка", "price": -1.00}
  ],
  "delivery": {"fee": 2.00, "free_over": 20.00}
}`

func TestParseDropsInvalidItems(t *testing.T) {
	cat := Parse([]byte(sampleMenu), "menu.json")

	if got := len(cat.Categories()); got != 2 {
		t.Fatalf("expected 2 categories, got %d", got)
	}
	if got := cat.Len(); got != 1 {
		t.Fatalf("expected orphan and negative items dropped, got %d items", got)
	}
	if _, err := cat.Item("orphan"); !errors.Is(err, domain.ErrUnknownItem) {
		t.Fatalf("orphan item must not be indexed")
	}
}

func TestParseMalformedDegradesToEmpty(t *testing.T) {
	cat := Parse([]byte("{not json"), "menu.json")
	if cat.Len() != 0 || len(cat.Categories()) != 0 {
		t.Fatalf("malformed menu must yield an empty catalog")
	}
}

func TestLoadMissingFileDegradesToEmpty(t *testing.T) {
	cat := Load("/nonexistent/menu.json")
	if cat.Len() != 0 {
		t.Fatalf("missing menu must yield an empty catalog")
	}
}

func TestTitleFallback(t *testing.T) {
	cat := Parse([]byte(sampleMenu), "menu.json")

	item, err := cat.Item("roll_phila")
	if err != nil {
		t.Fatalf("Item: %v", err)
	}
	if got := item.Title("nl"); got != "Philadelphia" {
		t.Errorf("nl title = %q", got)
	}

	drinks, err := cat.Category("drinks")
	if err != nil {
		t.Fatalf("Category: %v", err)
	}
	// No Dutch title registered, Russian is the fallback.
	if got := drinks.Title("nl"); got != "Напитки" {
		t.Errorf("fallback title = %q", got)
	}
}

func TestPolicyParsed(t *testing.T) {
	cat := Parse([]byte(sampleMenu), "menu.json")
	policy := cat.Policy()
	if !policy.Fee.Equal(decimal.RequireFromString("2.00")) {
		t.Errorf("fee = %s", policy.Fee)
	}
	if !policy.FreeOver.Equal(decimal.RequireFromString("20.00")) {
		t.Errorf("free_over = %s", policy.FreeOver)
	}
}

func TestUnknownLookups(t *testing.T) {
	cat := Parse([]byte(sampleMenu), "menu.json")
	if _, err := cat.Item("nope"); !errors.Is(err, domain.ErrUnknownItem) {
		t.Errorf("expected ErrUnknownItem, got %v", err)
	}
	if _, err := cat.Category("nope"); !errors.Is(err, domain.ErrUnknownCategory) {
		t.Errorf("expected ErrUnknownCategory, got %v", err)
	}
}
