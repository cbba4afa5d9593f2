package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/sushi-aurum/orderbot/core/bootstrap"
	"github.com/sushi-aurum/orderbot/core/buildinfo"
	"github.com/sushi-aurum/orderbot/core/config"
	"github.com/sushi-aurum/orderbot/core/logger"
	"github.com/sushi-aurum/orderbot/core/metrics"
	"github.com/sushi-aurum/orderbot/core/telegram"
	"github.com/sushi-aurum/orderbot/internal/bot"
	"github.com/sushi-aurum/orderbot/internal/cart"
	"github.com/sushi-aurum/orderbot/internal/catalog"
	"github.com/sushi-aurum/orderbot/internal/checkout"
	"github.com/sushi-aurum/orderbot/internal/i18n"
	"github.com/sushi-aurum/orderbot/internal/notify"
	"github.com/sushi-aurum/orderbot/internal/order"
	"github.com/sushi-aurum/orderbot/internal/session"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	boot, err := bootstrap.Run(bootstrap.Options{Config: cfg})
	if err != nil {
		return err
	}
	defer func() {
		_ = boot.DB.Close()
		_ = logger.Shutdown()
	}()

	logger.L.Info("starting",
		slog.String("event", "app.start"),
		slog.String("version", buildinfo.Version),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics.Serve(ctx, cfg.Metrics.Listen)

	cat := catalog.Load(cfg.Shop.MenuFile)
	sessions := session.NewStore(cfg.Shop.DefaultLang)
	carts := cart.NewEngine(cat, sessions)
	orders := order.NewPostgresRepository(boot.DB)

	fanout := notify.NewFanout()
	var amqpPub *notify.AMQPPublisher
	if cfg.AMQP.URL != "" {
		amqpPub = notify.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange)
		fanout.Add("amqp", amqpPub)
		defer amqpPub.Close()
	}

	machine := checkout.NewMachine(sessions, carts, orders, fanout)
	handlers := bot.New(cfg, cat, sessions, carts, machine, orders)

	registry := telegram.NewRegistry()
	if err := handlers.Register(registry); err != nil {
		return err
	}

	return telegram.RunTelegram(ctx, telegram.RunOptions{
		Config:           cfg,
		Registry:         registry,
		FSM:              handlers.FSM(),
		AccessDeniedText: i18n.T("access.denied", cfg.Shop.DefaultLang),
		Setup: func(rt *telegram.Runtime) error {
			if cfg.Telegram.AdminChatID != 0 {
				fanout.Add("telegram", notify.NewTelegramNotifier(rt.Bot, cfg.Telegram.AdminChatID, cfg.Shop.Currency))
			}
			return nil
		},
	})
}
