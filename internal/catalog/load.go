package catalog

import (
	"encoding/json"
	"log/slog"
	"os"

	"github.com/shopspring/decimal"

	"github.com/sushi-aurum/orderbot/core/logger"
)

// menuFile mirrors the menu.json document:
//
//	{
//	  "categories": [{"id":"sets","title_ru":"Сеты","title_nl":"Sets"}],
//	  "items":      [{"id":"r1","cat_id":"sets","title_ru":"Калифорния","title_nl":"California","price":6.5}],
//	  "delivery":   {"fee":2.00,"free_over":20.00}
//	}
type menuFile struct {
	Categories []menuCategory `json:"categories"`
	Items      []menuItem     `json:"items"`
	Delivery   menuDelivery   `json:"delivery"`
}

type menuCategory struct {
	ID      string `json:"id"`
	TitleRU string `json:"title_ru"`
	TitleNL string `json:"title_nl"`
}

type menuItem struct {
	ID      string          `json:"id"`
	CatID   string          `json:"cat_id"`
	TitleRU string          `json:"title_ru"`
	TitleNL string          `json:"title_nl"`
	Price   decimal.Decimal `json:"price"`
}

type menuDelivery struct {
	Fee      decimal.Decimal `json:"fee"`
	FreeOver decimal.Decimal `json:"free_over"`
}

// Load reads the menu document from disk. Malformed or missing data
// degrades to an empty catalog instead of failing startup.
func Load(path string) *Catalog {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Catalog.Warn("menu read failed, starting with empty catalog",
			slog.String("event", "catalog.load"),
			slog.String("path", path),
			slog.String("err", err.Error()),
		)
		return Empty()
	}
	return Parse(data, path)
}

// Parse decodes a menu document. Items pointing at unknown categories or
// carrying a negative price are dropped with a warning.
func Parse(data []byte, path string) *Catalog {
	var doc menuFile
	if err := json.Unmarshal(data, &doc); err != nil {
		logger.Catalog.Warn("menu parse failed, starting with empty catalog",
			slog.String("event", "catalog.load"),
			slog.String("path", path),
			slog.String("err", err.Error()),
		)
		return Empty()
	}

	categories := make([]Category, 0, len(doc.Categories))
	known := make(map[string]struct{}, len(doc.Categories))
	for _, raw := range doc.Categories {
		if raw.ID == "" {
			continue
		}
		categories = append(categories, Category{
			ID:     raw.ID,
			Titles: titles(raw.TitleRU, raw.TitleNL),
		})
		known[raw.ID] = struct{}{}
	}

	items := make([]Item, 0, len(doc.Items))
	for _, raw := range doc.Items {
		if raw.ID == "" {
			continue
		}
		if _, ok := known[raw.CatID]; !ok {
			logger.Catalog.Warn("item skipped",
				slog.String("event", "catalog.load"),
				slog.String("item_id", raw.ID),
				slog.String("category_id", raw.CatID),
				slog.String("reason", "unknown_category"),
			)
			continue
		}
		if raw.Price.IsNegative() {
			logger.Catalog.Warn("item skipped",
				slog.String("event", "catalog.load"),
				slog.String("item_id", raw.ID),
				slog.String("reason", "negative_price"),
			)
			continue
		}
		items = append(items, Item{
			ID:         raw.ID,
			CategoryID: raw.CatID,
			Titles:     titles(raw.TitleRU, raw.TitleNL),
			Price:      raw.Price,
		})
	}

	cat := New(categories, items, DeliveryPolicy{
		Fee:      doc.Delivery.Fee,
		FreeOver: doc.Delivery.FreeOver,
	})
	logger.Catalog.Info("catalog loaded",
		slog.String("event", "catalog.load"),
		slog.String("path", path),
		slog.Int("categories", len(categories)),
		slog.Int("items", len(items)),
	)
	return cat
}

func titles(ru, nl string) map[string]string {
	t := map[string]string{"ru": ru}
	if nl != "" {
		t["nl"] = nl
	}
	return t
}
