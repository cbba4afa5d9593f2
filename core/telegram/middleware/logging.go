package middleware

import (
	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/sushi-aurum/orderbot/core/logger"
	"github.com/sushi-aurum/orderbot/core/metrics"
	"github.com/sushi-aurum/orderbot/core/telegram/helpers"
)

// Logging builds the request context for every update, counts it and
// emits a sampled debug trace.
func Logging() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			ctx := helpers.BuildContext(c)
			helpers.StoreContext(c, ctx)

			kind := updateKind(c)
			metrics.UpdatesTotal.WithLabelValues(kind).Inc()

			if logger.ShouldSampleDebug() {
				logger.TG.Debug("update.received",
					slog.String("rid", logger.RIDFrom(ctx)),
					slog.String("kind", kind),
				)
			}
			return next(c)
		}
	}
}

func updateKind(c tele.Context) string {
	switch {
	case c.Callback() != nil:
		return "callback"
	case c.Message() != nil:
		return "message"
	case c.Query() != nil:
		return "inline_query"
	default:
		return "other"
	}
}
