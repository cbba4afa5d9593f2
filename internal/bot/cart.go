package bot

import (
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/sushi-aurum/orderbot/core/telegram/helpers"
	"github.com/sushi-aurum/orderbot/core/telegram/keyboard"
	"github.com/sushi-aurum/orderbot/internal/cart"
	"github.com/sushi-aurum/orderbot/internal/i18n"
)

func (h *Handlers) handleCartCommand(c tele.Context) error {
	return h.showCart(c, false)
}

func (h *Handlers) handleCartCallback(c tele.Context) error {
	return h.showCart(c, true)
}

func (h *Handlers) showCart(c tele.Context, edit bool) error {
	lang := h.lang(c)
	summary := h.carts.Totals(userID(c), lang)

	if summary.Empty() {
		markup := keyboard.InlineButtonsRows([]keyboard.InlineBtn{
			{Text: i18n.T("menu.title", lang), Unique: cbBackToTop},
		})
		if edit {
			return helpers.EditOrSendMD(c, i18n.T("cart.empty", lang), markup)
		}
		return helpers.SendText(c, i18n.T("cart.empty", lang), markup)
	}

	text := renderCart(summary, lang, h.currency)
	markup := keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{{Text: i18n.T("cart.checkout", lang), Unique: cbCheckout}},
		[]keyboard.InlineBtn{{Text: i18n.T("cart.clear", lang), Unique: cbClear}},
		[]keyboard.InlineBtn{{Text: i18n.T("menu.back", lang), Unique: cbBackToTop}},
	)
	if edit {
		return helpers.EditOrSendMD(c, text, markup)
	}
	return helpers.SendMD(c, text, markup)
}

func (h *Handlers) handleClear(c tele.Context) error {
	lang := h.lang(c)
	h.carts.Clear(userID(c))
	return helpers.EditOrSendMD(c, i18n.T("cart.cleared", lang))
}

// renderCart renders the priced cart with the conditional delivery fee
// line.
func renderCart(summary cart.Summary, lang, currency string) string {
	var b strings.Builder
	b.WriteString(i18n.T("cart.title", lang))
	b.WriteString("\n")
	for _, line := range summary.Lines {
		fmt.Fprintf(&b, i18n.T("cart.line", lang),
			line.Title, line.Quantity, currency+line.Subtotal.StringFixed(2))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, i18n.T("cart.subtotal", lang), currency+summary.Merchandise.StringFixed(2))
	b.WriteString("\n")
	if summary.FreeDelivery {
		b.WriteString(i18n.T("cart.delivery_free", lang))
		b.WriteString("\n")
	} else if summary.DeliveryFee.IsPositive() {
		fmt.Fprintf(&b, i18n.T("cart.delivery_fee", lang), currency+summary.DeliveryFee.StringFixed(2))
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, i18n.T("cart.total", lang), currency+summary.Payable.StringFixed(2))
	return b.String()
}
