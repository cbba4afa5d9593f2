package router

import (
	tele "gopkg.in/telebot.v4"

	"github.com/sushi-aurum/orderbot/core/telegram/commands"
)

// Command wraps a registered command handler with the summary logger,
// so bot.Handle can bind it directly.
func Command(name string, cmd commands.Command) tele.HandlerFunc {
	return handleWithSummary(normalizeHandlerName(name), cmd.Handler)
}
