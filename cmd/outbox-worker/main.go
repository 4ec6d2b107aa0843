package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/avaldez-dev/gatepass-backend/internal/notifications"
	"github.com/avaldez-dev/gatepass-backend/pkg/config"
	"github.com/avaldez-dev/gatepass-backend/pkg/db"
	"github.com/avaldez-dev/gatepass-backend/pkg/logger"
	"github.com/avaldez-dev/gatepass-backend/pkg/mail"
	"github.com/avaldez-dev/gatepass-backend/pkg/migrate"
	"github.com/avaldez-dev/gatepass-backend/pkg/outbox"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "outbox-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "outbox-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	mailer, err := mail.NewMailer(cfg.Mail, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create mailer", err)
		os.Exit(1)
	}

	dispatcher, err := notifications.NewDispatcher(mailer, logg, cfg.Checkout.TicketBaseURL)
	if err != nil {
		logg.Error(context.Background(), "failed to create dispatcher", err)
		os.Exit(1)
	}

	service, err := NewService(ServiceParams{
		Config:     cfg,
		Logger:     logg,
		DB:         dbClient,
		Repository: outbox.NewRepository(dbClient.DB()),
		Dispatcher: dispatcher,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create outbox worker", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": "outbox-worker",
	})
	logg.Info(ctx, "starting outbox worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "outbox worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "outbox worker shutting down gracefully")
}
