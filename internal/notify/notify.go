// Package notify delivers order notifications to operators. Delivery
// is best effort: a failed notification is logged and never blocks or
// fails the order itself.
package notify

import (
	"context"
	"log/slog"

	"github.com/sushi-aurum/orderbot/core/logger"
	"github.com/sushi-aurum/orderbot/core/metrics"
	"github.com/sushi-aurum/orderbot/internal/domain"
)

// Notifier announces a freshly placed order.
type Notifier interface {
	OrderPlaced(ctx context.Context, o *domain.Order) error
}

// Fanout sends to every notifier, swallowing individual failures.
type Fanout struct {
	targets []named
}

type named struct {
	channel string
	n       Notifier
}

// NewFanout builds an empty fan-out.
func NewFanout() *Fanout {
	return &Fanout{}
}

// Add registers a notifier under a channel name used in logs and metrics.
func (f *Fanout) Add(channel string, n Notifier) {
	f.targets = append(f.targets, named{channel: channel, n: n})
}

// OrderPlaced notifies every channel. It always returns nil: failures
// are logged per channel and counted, never propagated.
func (f *Fanout) OrderPlaced(ctx context.Context, o *domain.Order) error {
	for _, t := range f.targets {
		if err := t.n.OrderPlaced(ctx, o); err != nil {
			metrics.NotifyFailures.WithLabelValues(t.channel).Inc()
			logger.Notify.Error("notify.failed",
				slog.String("rid", logger.RIDFrom(ctx)),
				slog.String("channel", t.channel),
				slog.Int64("order_id", o.ID),
				slog.String("order_number", o.Number),
				slog.String("err", err.Error()),
			)
		}
	}
	return nil
}
