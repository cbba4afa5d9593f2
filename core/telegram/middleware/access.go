package middleware

import (
	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/sushi-aurum/orderbot/core/logger"
	"github.com/sushi-aurum/orderbot/core/telegram/helpers"
)

// AdminOnly wraps a handler so only the configured admin chat may
// invoke it. Other users get a short denial reply.
func AdminOnly(adminChatID int64, denied string, next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		sender := c.Sender()
		if adminChatID == 0 || sender == nil || sender.ID != adminChatID {
			ctx := helpers.ContextFrom(c)
			logger.TG.Warn("access.denied",
				slog.String("rid", logger.RIDFrom(ctx)),
			)
			if denied != "" {
				return helpers.SendText(c, denied)
			}
			return nil
		}
		return next(c)
	}
}
