// Package bot implements the user-facing conversation: menu browsing,
// the cart, checkout and operator commands.
package bot

import (
	"fmt"

	tele "gopkg.in/telebot.v4"

	"github.com/sushi-aurum/orderbot/core/config"
	"github.com/sushi-aurum/orderbot/core/telegram"
	"github.com/sushi-aurum/orderbot/core/telegram/commands"
	"github.com/sushi-aurum/orderbot/internal/cart"
	"github.com/sushi-aurum/orderbot/internal/catalog"
	"github.com/sushi-aurum/orderbot/internal/checkout"
	"github.com/sushi-aurum/orderbot/internal/i18n"
	"github.com/sushi-aurum/orderbot/internal/order"
	"github.com/sushi-aurum/orderbot/internal/session"
)

// Callback uniques used in inline keyboards.
const (
	cbCategory  = "shop_cat"
	cbItem      = "shop_item"
	cbAdd       = "cart_add"
	cbCart      = "cart_view"
	cbClear     = "cart_clear"
	cbCheckout  = "co_begin"
	cbMode      = "co_mode"
	cbBackToTop = "shop_top"
)

// Handlers carries the dependencies of every conversation handler.
type Handlers struct {
	catalog  *catalog.Catalog
	sessions *session.Store
	carts    *cart.Engine
	machine  *checkout.Machine
	orders   order.Repository

	currency    string
	defaultLang string
}

// New creates the handler set.
func New(cfg *config.Config, cat *catalog.Catalog, sessions *session.Store, carts *cart.Engine, machine *checkout.Machine, orders order.Repository) *Handlers {
	return &Handlers{
		catalog:     cat,
		sessions:    sessions,
		carts:       carts,
		machine:     machine,
		orders:      orders,
		currency:    cfg.Shop.Currency,
		defaultLang: cfg.Shop.DefaultLang,
	}
}

// Register binds all commands and callbacks to the registry.
func (h *Handlers) Register(reg *telegram.Registry) error {
	cmds := []struct {
		name string
		cmd  commands.Command
	}{
		{"/start", commands.Command{
			Handler:     h.handleStart,
			Description: "Показать меню",
			Aliases:     []string{"/menu"},
		}},
		{"/cart", commands.Command{
			Handler:     h.handleCartCommand,
			Description: "Открыть корзину",
		}},
		{"/orders", commands.Command{
			Handler:   h.handleOrders,
			AdminOnly: true,
			Hidden:    true,
		}},
		{"/status", commands.Command{
			Handler:   h.handleStatus,
			AdminOnly: true,
			Hidden:    true,
		}},
	}
	for _, c := range cmds {
		if err := reg.RegisterCommand(c.name, c.cmd); err != nil {
			return fmt.Errorf("bot: register %s: %w", c.name, err)
		}
	}

	cbs := map[string]tele.HandlerFunc{
		cbBackToTop: h.handleTopCallback,
		cbCategory:  h.handleCategory,
		cbItem:      h.handleItem,
		cbAdd:       h.handleAdd,
		cbCart:      h.handleCartCallback,
		cbClear:     h.handleClear,
		cbCheckout:  h.handleCheckout,
		cbMode:      h.handleMode,
	}
	for key, fn := range cbs {
		if err := reg.RegisterCallback(key, fn); err != nil {
			return fmt.Errorf("bot: register callback %s: %w", key, err)
		}
	}

	reg.SetTextFallback(h.handleFreeText)
	return nil
}

// FSM exposes the checkout machine for free-text routing.
func (h *Handlers) FSM() *FSM {
	return &FSM{h: h}
}

// lang resolves and caches the user's language from their Telegram
// profile.
func (h *Handlers) lang(c tele.Context) string {
	sender := c.Sender()
	if sender == nil {
		return h.defaultLang
	}
	lang := i18n.ResolveLang(sender.LanguageCode, h.defaultLang)
	h.sessions.SetLang(sender.ID, lang)
	return lang
}

func userID(c tele.Context) int64 {
	if sender := c.Sender(); sender != nil {
		return sender.ID
	}
	return 0
}
