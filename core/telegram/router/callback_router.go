package router

import (
	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/sushi-aurum/orderbot/core/logger"
	"github.com/sushi-aurum/orderbot/core/telegram/callbacks"
	"github.com/sushi-aurum/orderbot/core/telegram/helpers"
)

// CallbackLookup resolves a callback handler by its unique key.
type CallbackLookup interface {
	GetCallback(key string) (tele.HandlerFunc, bool)
}

// Callbacks routes tele.OnCallback updates by the unique key embedded
// in the callback data. Every dispatch is acknowledged so the client
// spinner stops even when no handler matched.
func Callbacks(reg CallbackLookup) tele.HandlerFunc {
	return func(c tele.Context) error {
		cb := c.Callback()
		if cb == nil {
			return nil
		}
		key := callbacks.Key(c)
		if key == "" {
			return c.Respond()
		}

		handler, ok := reg.GetCallback(key)
		if !ok {
			ctx := helpers.ContextFrom(c)
			logger.TG.Debug("callback.unknown",
				slog.String("rid", logger.RIDFrom(ctx)),
				slog.String("cb_key", logger.SanitizeLimit(key, 64)),
			)
			return c.Respond()
		}

		if err := c.Respond(); err != nil {
			ctx := helpers.ContextFrom(c)
			logger.TG.Debug("callback.respond_failed",
				slog.String("rid", logger.RIDFrom(ctx)),
				slog.String("err", err.Error()),
			)
		}
		return handleWithSummary("cb:"+key, handler)(c)
	}
}
