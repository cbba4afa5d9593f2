package helpers

import (
	"errors"
	"log/slog"
	"sync/atomic"

	tele "gopkg.in/telebot.v4"

	"github.com/sushi-aurum/orderbot/core/logger"
	"github.com/sushi-aurum/orderbot/core/telegram/sender"
)

var dispatcher atomic.Pointer[sender.Dispatcher]

// SetDispatcher wires the async outbound dispatcher. Passing nil
// reverts to synchronous sends.
func SetDispatcher(d *sender.Dispatcher) {
	dispatcher.Store(d)
}

// sendAsync enqueues the message on the dispatcher when one is set,
// falling back to a synchronous send when the queue is full or closed.
func sendAsync(c tele.Context, what any, opts ...any) error {
	d := dispatcher.Load()
	if d == nil {
		return c.Send(what, opts...)
	}

	rid := logger.RIDFrom(ContextFrom(c))
	err := d.Enqueue(c.Chat(), what, rid, opts...)
	if err == nil {
		return nil
	}
	if errors.Is(err, sender.ErrQueueFull) || errors.Is(err, sender.ErrQueueClosed) {
		logger.Sender.Warn("send.fallback_sync",
			slog.String("rid", rid),
			slog.String("cause", err.Error()),
		)
		return c.Send(what, opts...)
	}
	return err
}

// SendText sends a plain text reply.
func SendText(c tele.Context, text string, opts ...any) error {
	return sendAsync(c, text, opts...)
}

// SendMD sends a Markdown-formatted reply.
func SendMD(c tele.Context, text string, opts ...any) error {
	opts = append(opts, tele.ModeMarkdown)
	return sendAsync(c, text, opts...)
}

// EditOrSendMD edits the callback message in place when the update is a
// callback, otherwise sends a new Markdown message. Edits stay
// synchronous: they must target the exact message that triggered the
// callback.
func EditOrSendMD(c tele.Context, text string, opts ...any) error {
	opts = append(opts, tele.ModeMarkdown)
	if c.Callback() != nil {
		err := c.Edit(text, opts...)
		if err == nil || !errors.Is(err, tele.ErrSameMessageContent) {
			return err
		}
		return nil
	}
	return sendAsync(c, text, opts...)
}
