package middleware

import (
	"log/slog"
	"sync"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/sushi-aurum/orderbot/core/logger"
	"github.com/sushi-aurum/orderbot/core/telegram/helpers"
)

// RateLimitOptions configures the per-user update throttle.
type RateLimitOptions struct {
	Interval time.Duration
	// ExcludeUpdates lists update kinds exempt from throttling,
	// e.g. "callback" or "message".
	ExcludeUpdates []string
}

// RateLimit drops updates arriving faster than Interval per user.
// Excluded update kinds pass through untouched.
func RateLimit(opts RateLimitOptions) tele.MiddlewareFunc {
	if opts.Interval <= 0 {
		return func(next tele.HandlerFunc) tele.HandlerFunc { return next }
	}

	excluded := make(map[string]bool, len(opts.ExcludeUpdates))
	for _, kind := range opts.ExcludeUpdates {
		excluded[kind] = true
	}

	var mu sync.Mutex
	lastSeen := make(map[int64]time.Time)

	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if excluded[updateKind(c)] {
				return next(c)
			}
			sender := c.Sender()
			if sender == nil {
				return next(c)
			}

			now := time.Now()
			mu.Lock()
			prev, seen := lastSeen[sender.ID]
			throttled := seen && now.Sub(prev) < opts.Interval
			if !throttled {
				lastSeen[sender.ID] = now
			}
			mu.Unlock()

			if throttled {
				ctx := helpers.ContextFrom(c)
				logger.TG.Debug("update.throttled",
					slog.String("rid", logger.RIDFrom(ctx)),
					slog.Int64("user_id", sender.ID),
				)
				return nil
			}
			return next(c)
		}
	}
}
