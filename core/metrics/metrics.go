// Package metrics exposes prometheus instrumentation for the bot:
// inbound update counters, handler latency, order and notification
// outcomes. The registry is served on a side HTTP listener.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sushi-aurum/orderbot/core/logger"
)

var (
	// UpdatesTotal counts inbound Telegram updates by kind.
	UpdatesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "orderbot",
		Subsystem: "tg",
		Name:      "updates_total",
		Help:      "Total number of inbound Telegram updates.",
	}, []string{"kind"})

	// HandlerDurationMS observes handler latency in milliseconds.
	HandlerDurationMS = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "orderbot",
		Subsystem: "tg",
		Name:      "handler_duration_ms",
		Help:      "Handler latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500},
	}, []string{"handler"})

	// OrdersCreated counts successfully persisted orders by delivery mode.
	OrdersCreated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "orderbot",
		Subsystem: "shop",
		Name:      "orders_created_total",
		Help:      "Total number of persisted orders.",
	}, []string{"mode"})

	// NotifyFailures counts failed operator notifications by channel.
	NotifyFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "orderbot",
		Subsystem: "shop",
		Name:      "notify_failures_total",
		Help:      "Total number of failed operator notifications.",
	}, []string{"channel"})
)

func init() {
	prometheus.MustRegister(UpdatesTotal, HandlerDurationMS, OrdersCreated, NotifyFailures)
}

// ObserveHandler records one handler invocation.
func ObserveHandler(handler string, took time.Duration) {
	HandlerDurationMS.WithLabelValues(handler).Observe(float64(took.Milliseconds()))
}

// Serve runs the prometheus endpoint on listen until ctx is done.
// An empty listen address disables the endpoint.
func Serve(ctx context.Context, listen string) {
	if listen == "" {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: listen, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	go func() {
		logger.L.Info("metrics listening",
			slog.String("component", "metrics"),
			slog.String("event", "metrics.listen"),
			slog.String("listen", listen),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L.Error("metrics server failed",
				slog.String("component", "metrics"),
				slog.String("event", "metrics.listen"),
				slog.String("err", err.Error()),
			)
		}
	}()
}
