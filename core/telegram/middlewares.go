package telegram

import (
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/sushi-aurum/orderbot/core/config"
	"github.com/sushi-aurum/orderbot/core/telegram/middleware"
)

// DefaultMiddlewares returns the standard update chain: panic
// recovery first, then request logging, then rate limiting.
func DefaultMiddlewares(cfg *config.Config) []tele.MiddlewareFunc {
	return []tele.MiddlewareFunc{
		middleware.Recover(),
		middleware.Logging(),
		middleware.RateLimit(middleware.RateLimitOptions{
			Interval:       time.Duration(cfg.RateLimit.IntervalMS) * time.Millisecond,
			ExcludeUpdates: cfg.RateLimit.ExcludeUpdates,
		}),
	}
}
