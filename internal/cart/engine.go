// Package cart computes cart contents and totals against the loaded
// catalog, including the conditional delivery fee.
package cart

import (
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/sushi-aurum/orderbot/core/logger"
	"github.com/sushi-aurum/orderbot/internal/catalog"
	"github.com/sushi-aurum/orderbot/internal/session"
)

// Line is a priced cart position.
type Line struct {
	ItemID    string
	Title     string
	Quantity  int
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}

// Summary is the priced view of a cart. DeliveryFee is the fee that
// applies when the order is delivered; Payable already includes it.
// Pickup orders pay Merchandise only.
type Summary struct {
	Lines        []Line
	Merchandise  decimal.Decimal
	DeliveryFee  decimal.Decimal
	FreeDelivery bool
	Payable      decimal.Decimal
}

// Empty reports whether the summary has no priced lines.
func (s Summary) Empty() bool {
	return len(s.Lines) == 0
}

// Engine validates cart mutations against the catalog and prices the
// cart contents.
type Engine struct {
	catalog  *catalog.Catalog
	sessions *session.Store
}

// NewEngine creates an Engine over the given catalog and session store.
func NewEngine(cat *catalog.Catalog, sessions *session.Store) *Engine {
	return &Engine{catalog: cat, sessions: sessions}
}

// AddItem puts one unit of the item into the user's cart. The item
// must exist in the catalog.
func (e *Engine) AddItem(userID int64, itemID string) (catalog.Item, error) {
	item, err := e.catalog.Item(itemID)
	if err != nil {
		return catalog.Item{}, err
	}
	e.sessions.Update(userID, func(s *session.Session) {
		s.Cart[itemID]++
	})
	return item, nil
}

// Clear empties the user's cart. The checkout draft is untouched.
func (e *Engine) Clear(userID int64) {
	e.sessions.Update(userID, func(s *session.Session) {
		s.Cart = make(map[string]int)
	})
}

// Totals prices the user's cart. Cart entries referring to items no
// longer in the catalog are skipped with a warning, so a menu reload
// never breaks an existing cart. Lines come out sorted by item id.
func (e *Engine) Totals(userID int64, lang string) Summary {
	contents := e.sessions.Cart(userID)
	return e.price(userID, contents, lang)
}

func (e *Engine) price(userID int64, contents map[string]int, lang string) Summary {
	ids := make([]string, 0, len(contents))
	for id := range contents {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var summary Summary
	summary.Merchandise = decimal.Zero

	for _, id := range ids {
		qty := contents[id]
		if qty <= 0 {
			continue
		}
		item, err := e.catalog.Item(id)
		if err != nil {
			logger.Cart.Warn("cart.item_skipped",
				slog.Int64("user_id", userID),
				slog.String("item_id", id),
			)
			continue
		}
		subtotal := item.Price.Mul(decimal.NewFromInt(int64(qty)))
		summary.Lines = append(summary.Lines, Line{
			ItemID:    id,
			Title:     item.Title(lang),
			Quantity:  qty,
			UnitPrice: item.Price,
			Subtotal:  subtotal,
		})
		summary.Merchandise = summary.Merchandise.Add(subtotal)
	}

	policy := e.catalog.Policy()
	summary.DeliveryFee = decimal.Zero
	if len(summary.Lines) > 0 && policy.Fee.IsPositive() {
		if summary.Merchandise.GreaterThanOrEqual(policy.FreeOver) && policy.FreeOver.IsPositive() {
			summary.FreeDelivery = true
		} else {
			summary.DeliveryFee = policy.Fee
		}
	}
	summary.Payable = summary.Merchandise.Add(summary.DeliveryFee)
	return summary
}
