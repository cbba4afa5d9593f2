// Package middleware holds the update processing chain: panic
// recovery, request logging, rate limiting and access control.
package middleware

import (
	"log/slog"
	"runtime/debug"

	tele "gopkg.in/telebot.v4"

	"github.com/sushi-aurum/orderbot/core/logger"
	"github.com/sushi-aurum/orderbot/core/telegram/helpers"
)

// Recover converts handler panics into logged errors so a single bad
// update cannot take the poller down.
func Recover() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			defer func() {
				if r := recover(); r != nil {
					ctx := helpers.ContextFrom(c)
					logger.TG.Error("update.panic",
						slog.String("rid", logger.RIDFrom(ctx)),
						slog.Any("panic", r),
						slog.String("stack", string(debug.Stack())),
					)
				}
			}()
			return next(c)
		}
	}
}
