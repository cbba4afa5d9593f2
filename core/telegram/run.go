package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/sushi-aurum/orderbot/core/config"
	"github.com/sushi-aurum/orderbot/core/logger"
	"github.com/sushi-aurum/orderbot/core/telegram/helpers"
	"github.com/sushi-aurum/orderbot/core/telegram/middleware"
	"github.com/sushi-aurum/orderbot/core/telegram/router"
	"github.com/sushi-aurum/orderbot/core/telegram/sender"
)

// RunOptions configures RunTelegram.
type RunOptions struct {
	Config   *config.Config
	Registry *Registry
	// FSM routes free text from users with an active flow; may be nil.
	FSM router.FSM
	// AccessDeniedText is the reply to non-admins invoking admin
	// commands; empty keeps the bot silent.
	AccessDeniedText string
	// Setup runs after the bot is constructed but before handlers are
	// bound, letting the caller register handlers that need the bot.
	Setup func(rt *Runtime) error
}

// Runtime is the assembled bot with its outbound dispatcher.
type Runtime struct {
	Bot        *tele.Bot
	Dispatcher *sender.Dispatcher
}

// RunTelegram builds the bot, binds every registered handler and
// blocks until ctx is cancelled.
func RunTelegram(ctx context.Context, opts RunOptions) error {
	cfg := opts.Config
	reg := opts.Registry
	if cfg == nil || reg == nil {
		return fmt.Errorf("telegram: config and registry are required")
	}

	bot, err := tele.NewBot(tele.Settings{
		Token: cfg.Telegram.Token,
		Poller: BuildPoller(PollerOptions{
			RunMode:                cfg.Telegram.RunMode,
			LongPollTimeoutSeconds: cfg.Telegram.LongPollTimeoutSeconds,
			Webhook: WebhookOptions{
				Listen: cfg.Webhook.Listen,
				Port:   cfg.Webhook.Port,
				URL:    cfg.Webhook.URL,
			},
		}),
		Client: BuildHTTPClient(),
		OnError: func(err error, c tele.Context) {
			attrs := []slog.Attr{slog.String("err", err.Error())}
			if c != nil {
				attrs = append(attrs, slog.String("rid", logger.RIDFrom(helpers.ContextFrom(c))))
			}
			logger.TG.LogAttrs(context.Background(), slog.LevelError, "bot.error", attrs...)
		},
	})
	if err != nil {
		return fmt.Errorf("telegram: create bot: %w", err)
	}

	if cfg.Telegram.RunMode == config.RunModeLongpoll {
		deleteWebhook(bot)
	}

	dispatcher := sender.New(bot, sender.Options{
		QueueSize:  256,
		Workers:    2,
		MaxRetries: 3,
		Backoff:    500 * time.Millisecond,
	})
	helpers.SetDispatcher(dispatcher)
	defer func() {
		helpers.SetDispatcher(nil)
		dispatcher.Close()
	}()

	rt := &Runtime{Bot: bot, Dispatcher: dispatcher}
	if opts.Setup != nil {
		if err := opts.Setup(rt); err != nil {
			return fmt.Errorf("telegram: setup: %w", err)
		}
	}

	bot.Use(DefaultMiddlewares(cfg)...)

	for _, nc := range reg.ListCommands() {
		h := router.Command(nc.Name, nc.Command)
		if nc.Command.AdminOnly {
			h = middleware.AdminOnly(cfg.Telegram.AdminChatID, opts.AccessDeniedText, h)
		}
		bot.Handle(nc.Name, h)
		for _, alias := range nc.Command.Aliases {
			bot.Handle(alias, h)
		}
	}
	bot.Handle(tele.OnCallback, router.Callbacks(reg))
	bot.Handle(tele.OnText, router.Messages(opts.FSM, reg.TextFallback()))

	if err := reg.InitBotCommands(bot); err != nil {
		logger.TG.Warn("bot.set_commands_failed", slog.String("err", err.Error()))
	}

	logger.TG.Info("bot.started",
		slog.String("mode", cfg.Telegram.RunMode),
		slog.Int("commands", len(reg.ListCommands())),
	)

	done := make(chan struct{})
	go func() {
		bot.Start()
		close(done)
	}()

	select {
	case <-ctx.Done():
		bot.Stop()
		<-done
	case <-done:
	}

	logger.TG.Info("bot.stopped")
	return nil
}

// deleteWebhook clears a stale webhook so long polling can start.
func deleteWebhook(bot *tele.Bot) {
	if err := bot.RemoveWebhook(true); err != nil {
		logger.TG.Warn("bot.remove_webhook_failed", slog.String("err", err.Error()))
	}
}
