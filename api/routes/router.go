package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/avaldez-dev/gatepass-backend/api/controllers"
	webhookcontrollers "github.com/avaldez-dev/gatepass-backend/api/controllers/webhooks"
	"github.com/avaldez-dev/gatepass-backend/api/middleware"
	"github.com/avaldez-dev/gatepass-backend/internal/auth"
	"github.com/avaldez-dev/gatepass-backend/internal/events"
	"github.com/avaldez-dev/gatepass-backend/internal/guests"
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
	"github.com/avaldez-dev/gatepass-backend/pkg/redis"
	"github.com/avaldez-dev/gatepass-backend/pkg/stripe"
)

// RouterParams bundles everything the HTTP surface needs.
type RouterParams struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             db.Pinger
	Redis          *redis.Client
	Sessions       session.AccessSessionChecker
	Auth           auth.Service
	Events         events.Service
	Tickets        tickets.Service
	Guests         guests.Service
	Registration   registration.Service
	Receipts       receipts.Service
	Refunds        payments.RefundService
	Connect        payments.ConnectService
	StripeClient   *stripe.Client
	PaymentWebhook *stripewebhook.Service
	PaymentGuard   *stripewebhook.IdempotencyGuard
	RefundGuard    *stripewebhook.IdempotencyGuard
	WebhookMetrics *metrics.WebhookMetrics
	MetricsHandler http.Handler
}

func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.DB, p.Redis))
	})

	metricsHandler := p.MetricsHandler
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.Method(http.MethodGet, "/metrics", metricsHandler)

	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Post("/stripe-payments", webhookcontrollers.StripePayments(
			p.PaymentWebhook, p.StripeClient.PaymentSigningSecret(), p.PaymentGuard, p.WebhookMetrics, logg))
		r.Post("/stripe-refunds", webhookcontrollers.StripeRefunds(
			p.PaymentWebhook, p.StripeClient.RefundSigningSecret(), p.RefundGuard, p.WebhookMetrics, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", controllers.AuthRegister(p.Auth, logg))
		r.Post("/login", controllers.AuthLogin(p.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(p.Auth, cfg.JWT, logg))
	})

	// Public surfaces keyed by capability tokens, never row ids.
	r.Route("/api/v1/events/key/{publicKey}", func(r chi.Router) {
		r.Get("/", controllers.PublicEventByKey(p.Events, logg))
		r.Get("/tickets", controllers.PublicEventTickets(p.Tickets, logg))
		r.Post("/tickets/{ticketID}/register", controllers.PublicRegister(p.Registration, logg))
		r.Post("/donate", controllers.PublicDonate(p.Registration, logg))
	})
	r.Get("/api/v1/guests/key/{eventKey}/{guestKey}", controllers.PublicGuestLookup(p.Guests, logg))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.Sessions, logg))

		r.Route("/api/v1/events", func(r chi.Router) {
			r.Post("/", controllers.EventCreate(p.Events, logg))
			r.Get("/", controllers.EventList(p.Events, logg))
			r.Route("/{eventID}", func(r chi.Router) {
				r.Get("/", controllers.EventGet(p.Events, logg))
				r.Put("/", controllers.EventUpdate(p.Events, logg))
				r.Delete("/", controllers.EventDelete(p.Events, logg))
				r.Post("/tickets", controllers.TicketCreate(p.Tickets, logg))
				r.Get("/tickets", controllers.TicketListForEvent(p.Tickets, logg))
			})
		})

		r.Route("/api/v1/tickets/{ticketID}", func(r chi.Router) {
			r.Get("/", controllers.TicketGet(p.Tickets, logg))
			r.Put("/", controllers.TicketUpdate(p.Tickets, logg))
			r.Delete("/", controllers.TicketDelete(p.Tickets, logg))
		})

		r.Route("/api/v1/guests", func(r chi.Router) {
			r.Post("/", controllers.GuestCreate(p.Guests, logg))
			r.Get("/", controllers.GuestList(p.Guests, logg))
			r.Post("/validate", controllers.GuestValidate(p.Guests, logg))
			r.Route("/{guestID}", func(r chi.Router) {
				r.Get("/", controllers.GuestGet(p.Guests, logg))
				r.Put("/", controllers.GuestUpdate(p.Guests, logg))
				r.Delete("/", controllers.GuestDelete(p.Guests, logg))
			})
		})

		r.Route("/api/v1/receipts", func(r chi.Router) {
			r.Get("/", controllers.ReceiptList(p.Receipts, logg))
			r.Get("/all", controllers.ReceiptListAll(p.Receipts, logg))
			r.Get("/{receiptID}", controllers.ReceiptGet(p.Receipts, logg))
			r.Post("/{receiptID}/refund", controllers.ReceiptRefund(p.Refunds, logg))
		})
		r.Get("/api/v1/donations", controllers.DonationList(p.Receipts, logg))

		r.Route("/api/v1/hosts/stripe", func(r chi.Router) {
			r.Post("/account", controllers.StripeAccountCreate(p.Connect, logg))
			r.Post("/onboarding-link", controllers.StripeOnboardingLink(p.Connect, logg))
			r.Post("/update-link", controllers.StripeUpdateLink(p.Connect, logg))
			r.Post("/dashboard-link", controllers.StripeDashboardLink(p.Connect, logg))
			r.Get("/status", controllers.StripeAccountStatus(p.Connect, logg))
		})
	})

	return r
}
