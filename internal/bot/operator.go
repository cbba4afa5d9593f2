package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/sushi-aurum/orderbot/core/telegram/helpers"
	"github.com/sushi-aurum/orderbot/internal/domain"
	"github.com/sushi-aurum/orderbot/internal/i18n"
)

const defaultOrdersLimit = 10

// handleOrders lists recent orders for the operator. An optional
// argument overrides the default limit.
func (h *Handlers) handleOrders(c tele.Context) error {
	lang := h.lang(c)

	limit := defaultOrdersLimit
	if args := c.Args(); len(args) > 0 {
		if n, err := strconv.Atoi(args[0]); err == nil && n > 0 {
			limit = n
		}
	}

	orders, err := h.orders.ListRecent(helpers.ContextFrom(c), limit)
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		return helpers.SendText(c, i18n.T("orders.none", lang))
	}

	var b strings.Builder
	for i, o := range orders {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(renderOrder(&o, h.currency))
	}
	return helpers.SendText(c, b.String())
}

// handleStatus updates an order status: /status <id> <status>.
func (h *Handlers) handleStatus(c tele.Context) error {
	lang := h.lang(c)

	args := c.Args()
	if len(args) != 2 {
		return helpers.SendText(c, i18n.T("orders.usage_status", lang))
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return helpers.SendText(c, i18n.T("orders.usage_status", lang))
	}
	status, err := domain.ParseStatus(args[1])
	if err != nil {
		return helpers.SendText(c, fmt.Sprintf(i18n.T("orders.invalid_status", lang), statusList()))
	}

	err = h.orders.SetStatus(helpers.ContextFrom(c), id, status)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return helpers.SendText(c, i18n.T("orders.not_found", lang))
	case err != nil:
		return err
	}
	return helpers.SendText(c, fmt.Sprintf(i18n.T("orders.status_updated", lang), id, status))
}

func statusList() string {
	statuses := domain.Statuses()
	parts := make([]string, len(statuses))
	for i, s := range statuses {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}

// renderOrder renders one order for the operator view.
func renderOrder(o *domain.Order, currency string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "#%d %s · %s · %s", o.ID, o.Number, o.Status, o.CreatedAt.Format("02.01 15:04"))
	for _, line := range o.Lines {
		fmt.Fprintf(&b, "\n  %s × %d = %s%s", line.Title, line.Quantity, currency, line.Subtotal().StringFixed(2))
	}
	if o.Mode == domain.ModeDelivery {
		fmt.Fprintf(&b, "\n🚗 %s", o.Address)
		if o.DeliveryFee.IsPositive() {
			fmt.Fprintf(&b, " (+%s%s)", currency, o.DeliveryFee.StringFixed(2))
		}
	} else {
		b.WriteString("\n🏠 самовывоз")
	}
	fmt.Fprintf(&b, "\n📞 %s", o.Phone)
	if o.Comment != "" {
		fmt.Fprintf(&b, "\n💬 %s", o.Comment)
	}
	fmt.Fprintf(&b, "\nИтого: %s%s", currency, o.Total.StringFixed(2))
	return b.String()
}
