// Package router dispatches incoming updates to registered handlers
// and emits a one-line summary per handled update.
package router

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/sushi-aurum/orderbot/core/logger"
	"github.com/sushi-aurum/orderbot/core/metrics"
	"github.com/sushi-aurum/orderbot/core/telegram/helpers"
	"github.com/sushi-aurum/orderbot/internal/domain"
)

// handleWithSummary runs the handler and logs a single summary line
// with the outcome, duration and error code.
func handleWithSummary(name string, h tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		ctx := helpers.WithHandler(c, name)
		start := time.Now()
		err := h(c)
		took := time.Since(start)

		metrics.ObserveHandler(name, took)
		logHandlerSummary(ctx, name, took, err)
		return err
	}
}

func logHandlerSummary(ctx context.Context, name string, took time.Duration, err error) {
	attrs := []slog.Attr{
		slog.String("rid", logger.RIDFrom(ctx)),
		slog.String("handler", name),
		slog.Duration("duration", logger.RoundMS(took)),
	}
	if err != nil {
		attrs = append(attrs,
			slog.String("status", "fail"),
			slog.String("err", err.Error()),
			slog.String("err_code", deriveErrorCode(err)),
		)
		logger.TG.LogAttrs(ctx, slog.LevelWarn, "handler.done", attrs...)
		return
	}
	attrs = append(attrs, slog.String("status", "ok"))
	logger.TG.LogAttrs(ctx, slog.LevelInfo, "handler.done", attrs...)
}

// deriveErrorCode maps domain errors to stable short codes for logs.
func deriveErrorCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnknownItem):
		return "unknown_item"
	case errors.Is(err, domain.ErrUnknownCategory):
		return "unknown_category"
	case errors.Is(err, domain.ErrEmptyCart):
		return "empty_cart"
	case errors.Is(err, domain.ErrInvalidChoice):
		return "invalid_choice"
	case errors.Is(err, domain.ErrEmptyInput):
		return "empty_input"
	case errors.Is(err, domain.ErrInvalidStage):
		return "invalid_stage"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidStatus):
		return "invalid_status"
	case errors.Is(err, domain.ErrPersistence):
		return "persistence"
	default:
		return "internal"
	}
}

// normalizeHandlerName strips the leading slash and lowercases command
// names so metrics labels stay uniform.
func normalizeHandlerName(name string) string {
	return strings.ToLower(strings.TrimPrefix(name, "/"))
}
