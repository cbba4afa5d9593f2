// Package helpers bridges telebot contexts with the request-scoped
// logging context and provides send convenience wrappers.
package helpers

import (
	"context"

	tele "gopkg.in/telebot.v4"

	"github.com/sushi-aurum/orderbot/core/logger"
)

const ctxStoreKey = "request_ctx"

// StoreContext attaches a context.Context to the telebot context so
// downstream handlers can recover it.
func StoreContext(c tele.Context, ctx context.Context) {
	c.Set(ctxStoreKey, ctx)
}

// ContextFrom returns the context previously stored on the telebot
// context, building a fresh one when nothing was stored.
func ContextFrom(c tele.Context) context.Context {
	if v := c.Get(ctxStoreKey); v != nil {
		if ctx, ok := v.(context.Context); ok {
			return ctx
		}
	}
	return BuildContext(c)
}

// BuildContext derives a context carrying the request correlation id
// and update metadata from a telebot context.
func BuildContext(c tele.Context) context.Context {
	updateID := c.Update().ID
	var chatID, userID int64
	if chat := c.Chat(); chat != nil {
		chatID = chat.ID
	}
	if sender := c.Sender(); sender != nil {
		userID = sender.ID
	}

	ctx := context.Background()
	ctx = logger.WithUpdateMeta(ctx, updateID, userID, chatID)
	ctx = logger.WithRID(ctx, logger.BuildRID(updateID, chatID, userID))
	return ctx
}

// WithHandler stores the handler name both on the stored context and
// the telebot context.
func WithHandler(c tele.Context, name string) context.Context {
	ctx := logger.WithHandler(ContextFrom(c), name)
	StoreContext(c, ctx)
	return ctx
}
