package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/avaldez-dev/gatepass-backend/api/routes"
	"github.com/avaldez-dev/gatepass-backend/internal/auth"
	"github.com/avaldez-dev/gatepass-backend/internal/events"
	"github.com/avaldez-dev/gatepass-backend/internal/guests"
	"github.com/avaldez-dev/gatepass-backend/internal/hosts"
	"github.com/avaldez-dev/gatepass-backend/internal/payments"
	"github.com/avaldez-dev/gatepass-backend/internal/receipts"
	"github.com/avaldez-dev/gatepass-backend/internal/registration"
	"github.com/avaldez-dev/gatepass-backend/internal/tickets"
	stripewebhook "github.com/avaldez-dev/gatepass-backend/internal/webhooks/stripe"
	"github.com/avaldez-dev/gatepass-backend/pkg/auth/session"
	"github.com/avaldez-dev/gatepass-backend/pkg/config"
	"github.com/avaldez-dev/gatepass-backend/pkg/db"
	"github.com/avaldez-dev/gatepass-backend/pkg/logger"
	"github.com/avaldez-dev/gatepass-backend/pkg/metrics"
	"github.com/avaldez-dev/gatepass-backend/pkg/migrate"
	"github.com/avaldez-dev/gatepass-backend/pkg/outbox"
	"github.com/avaldez-dev/gatepass-backend/pkg/redis"
	"github.com/avaldez-dev/gatepass-backend/pkg/stripe"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
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

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	stripeClient, err := stripe.NewClient(context.Background(), cfg.Stripe, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to initialize stripe", err)
		os.Exit(1)
	}
	paymentClient := payments.NewPaymentClient(stripeClient)

	hostRepo := hosts.NewRepository(dbClient.DB())
	eventRepo := events.NewRepository(dbClient.DB())
	ticketRepo := tickets.NewRepository(dbClient.DB())
	guestRepo := guests.NewRepository(dbClient.DB())
	receiptRepo := receipts.NewRepository(dbClient.DB())
	outboxService := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	authService, err := auth.NewService(auth.ServiceParams{
		HostRepo:    hostRepo,
		Sessions:    sessionManager,
		JWTConfig:   cfg.JWT,
		PasswordCfg: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	eventService, err := events.NewService(eventRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create event service", err)
		os.Exit(1)
	}

	ticketService, err := tickets.NewService(ticketRepo, eventRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create ticket service", err)
		os.Exit(1)
	}

	guestService, err := guests.NewService(guestRepo, eventRepo, ticketRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create guest service", err)
		os.Exit(1)
	}

	checkoutService, err := payments.NewCheckoutService(paymentClient, cfg.Checkout, cfg.Stripe.StatementDescriptor)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	connectService, err := payments.NewConnectService(paymentClient, hostRepo, cfg.Checkout.OnboardingURL)
	if err != nil {
		logg.Error(context.Background(), "failed to create connect service", err)
		os.Exit(1)
	}

	refundService, err := payments.NewRefundService(paymentClient, receiptRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create refund service", err)
		os.Exit(1)
	}

	registrationService, err := registration.NewService(registration.ServiceParams{
		TxRunner:      dbClient,
		Events:        eventRepo,
		Tickets:       ticketRepo,
		Guests:        guestRepo,
		Hosts:         hostRepo,
		Outbox:        outboxService,
		Checkout:      checkoutService,
		TicketBaseURL: cfg.Checkout.TicketBaseURL,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create registration service", err)
		os.Exit(1)
	}

	receiptService, err := receipts.NewService(receiptRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create receipt service", err)
		os.Exit(1)
	}

	webhookService, err := stripewebhook.NewService(stripewebhook.ServiceParams{
		TransactionRunner: dbClient,
		EventRepo:         eventRepo,
		TicketRepo:        ticketRepo,
		GuestRepo:         guestRepo,
		ReceiptRepo:       receiptRepo,
		Outbox:            outboxService,
		Logger:            logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook service", err)
		os.Exit(1)
	}

	paymentGuard, err := stripewebhook.NewIdempotencyGuard(redisClient, cfg.Outbox.IdempotencyTTL, "stripe-payments")
	if err != nil {
		logg.Error(context.Background(), "failed to create payment idempotency guard", err)
		os.Exit(1)
	}
	refundGuard, err := stripewebhook.NewIdempotencyGuard(redisClient, cfg.Outbox.IdempotencyTTL, "stripe-refunds")
	if err != nil {
		logg.Error(context.Background(), "failed to create refund idempotency guard", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:         cfg,
			Logger:         logg,
			DB:             dbClient,
			Redis:          redisClient,
			Sessions:       sessionManager,
			Auth:           authService,
			Events:         eventService,
			Tickets:        ticketService,
			Guests:         guestService,
			Registration:   registrationService,
			Receipts:       receiptService,
			Refunds:        refundService,
			Connect:        connectService,
			StripeClient:   stripeClient,
			PaymentWebhook: webhookService,
			PaymentGuard:   paymentGuard,
			RefundGuard:    refundGuard,
			WebhookMetrics: metrics.NewWebhookMetrics(prometheus.DefaultRegisterer),
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
