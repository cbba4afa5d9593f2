package notify

import (
	"context"
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/sushi-aurum/orderbot/internal/domain"
)

// TelegramNotifier sends a plain-text order summary to the operator chat.
type TelegramNotifier struct {
	bot      tele.API
	chatID   int64
	currency string
}

// NewTelegramNotifier creates a notifier targeting the admin chat.
func NewTelegramNotifier(bot tele.API, chatID int64, currency string) *TelegramNotifier {
	return &TelegramNotifier{bot: bot, chatID: chatID, currency: currency}
}

// OrderPlaced sends the order summary synchronously so a failure is
// observable by the fan-out.
func (n *TelegramNotifier) OrderPlaced(_ context.Context, o *domain.Order) error {
	if n.chatID == 0 {
		return nil
	}
	_, err := n.bot.Send(tele.ChatID(n.chatID), n.render(o))
	return err
}

func (n *TelegramNotifier) render(o *domain.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🆕 Заказ #%d (%s)\n", o.ID, o.Number)
	for _, line := range o.Lines {
		fmt.Fprintf(&b, "  %s × %d = %s%s\n",
			line.Title, line.Quantity, n.currency, line.Subtotal().StringFixed(2))
	}
	if o.Mode == domain.ModeDelivery {
		fmt.Fprintf(&b, "Доставка: %s\n", o.Address)
		if o.DeliveryFee.IsPositive() {
			fmt.Fprintf(&b, "Сбор за доставку: %s%s\n", n.currency, o.DeliveryFee.StringFixed(2))
		}
	} else {
		b.WriteString("Самовывоз\n")
	}
	fmt.Fprintf(&b, "Телефон: %s\n", o.Phone)
	if o.Comment != "" {
		fmt.Fprintf(&b, "Комментарий: %s\n", o.Comment)
	}
	fmt.Fprintf(&b, "Итого: %s%s", n.currency, o.Total.StringFixed(2))
	return b.String()
}
