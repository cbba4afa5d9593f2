// Package catalog holds the static category/item reference data loaded
// once at startup. The catalog is read-only for the process lifetime.
package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/sushi-aurum/orderbot/internal/domain"
)

// Category groups items and carries a localized display title.
type Category struct {
	ID     string
	Titles map[string]string
}

// Title returns the category title for lang, falling back to Russian.
func (c Category) Title(lang string) string {
	return pickTitle(c.Titles, lang)
}

// Item is a purchasable catalog position.
type Item struct {
	ID         string
	CategoryID string
	Titles     map[string]string
	Price      decimal.Decimal
}

// Title returns the item title for lang, falling back to Russian.
func (i Item) Title(lang string) string {
	return pickTitle(i.Titles, lang)
}

// DeliveryPolicy configures the conditional delivery fee: orders below
// FreeOver pay Fee, orders at or above it ship free.
type DeliveryPolicy struct {
	Fee      decimal.Decimal
	FreeOver decimal.Decimal
}

// Catalog is the immutable in-memory index over categories and items.
type Catalog struct {
	categories []Category
	items      []Item
	byCategory map[string][]Item
	itemIndex  map[string]Item
	catIndex   map[string]Category
	policy     DeliveryPolicy
}

// New builds a catalog index from already validated slices.
func New(categories []Category, items []Item, policy DeliveryPolicy) *Catalog {
	c := &Catalog{
		categories: categories,
		items:      items,
		byCategory: make(map[string][]Item, len(categories)),
		itemIndex:  make(map[string]Item, len(items)),
		catIndex:   make(map[string]Category, len(categories)),
		policy:     policy,
	}
	for _, cat := range categories {
		c.catIndex[cat.ID] = cat
	}
	for _, it := range items {
		c.itemIndex[it.ID] = it
		c.byCategory[it.CategoryID] = append(c.byCategory[it.CategoryID], it)
	}
	return c
}

// Empty returns a catalog with no categories or items.
func Empty() *Catalog {
	return New(nil, nil, DeliveryPolicy{})
}

// Categories returns all categories in menu order.
func (c *Catalog) Categories() []Category {
	return c.categories
}

// Category resolves a category by id.
func (c *Catalog) Category(id string) (Category, error) {
	cat, ok := c.catIndex[id]
	if !ok {
		return Category{}, domain.ErrUnknownCategory
	}
	return cat, nil
}

// Item resolves an item by id.
func (c *Catalog) Item(id string) (Item, error) {
	it, ok := c.itemIndex[id]
	if !ok {
		return Item{}, domain.ErrUnknownItem
	}
	return it, nil
}

// ItemsByCategory returns the items of one category in menu order.
func (c *Catalog) ItemsByCategory(catID string) []Item {
	return c.byCategory[catID]
}

// Policy returns the delivery fee policy.
func (c *Catalog) Policy() DeliveryPolicy {
	return c.policy
}

// Len reports the number of items in the catalog.
func (c *Catalog) Len() int {
	return len(c.items)
}

func pickTitle(titles map[string]string, lang string) string {
	if t, ok := titles[lang]; ok && t != "" {
		return t
	}
	return titles["ru"]
}
