package webhooks

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/webhook"

	"github.com/avaldez-dev/gatepass-backend/api/responses"
	pkgerrors "github.com/avaldez-dev/gatepass-backend/pkg/errors"
	"github.com/avaldez-dev/gatepass-backend/pkg/logger"
	"github.com/avaldez-dev/gatepass-backend/pkg/metrics"
)

type StripeWebhookService interface {
	HandleEvent(ctx context.Context, event *stripe.Event) error
}

type stripeWebhookGuard interface {
	CheckAndMark(ctx context.Context, eventID string) (bool, error)
	Delete(ctx context.Context, eventID string) error
}

// StripePayments handles checkout.session.completed deliveries.
func StripePayments(svc StripeWebhookService, signingSecret string, guard stripeWebhookGuard, m *metrics.WebhookMetrics, logg *logger.Logger) http.HandlerFunc {
	return stripeWebhook("stripe-payments", svc, signingSecret, guard, m, logg)
}

// StripeRefunds handles charge.refunded deliveries.
func StripeRefunds(svc StripeWebhookService, signingSecret string, guard stripeWebhookGuard, m *metrics.WebhookMetrics, logg *logger.Logger) http.HandlerFunc {
	return stripeWebhook("stripe-refunds", svc, signingSecret, guard, m, logg)
}

func stripeWebhook(endpoint string, svc StripeWebhookService, signingSecret string, guard stripeWebhookGuard, m *metrics.WebhookMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "webhook service unavailable"))
			return
		}
		if signingSecret == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "webhook secret not configured"))
			return
		}
		if guard == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "idempotency guard unavailable"))
			return
		}

		payload, err := io.ReadAll(r.Body)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request body"))
			return
		}

		sigHeader := r.Header.Get("Stripe-Signature")
		if sigHeader == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "stripe signature missing"))
			return
		}

		event, err := webhook.ConstructEvent(payload, sigHeader, signingSecret)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "verify signature"))
			return
		}

		if logg != nil {
			ctx = logg.WithStripeEventID(ctx, event.ID)
		}

		alreadyProcessed, err := guard.CheckAndMark(ctx, event.ID)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check idempotency"))
			return
		}
		if alreadyProcessed {
			m.IncDuplicate(endpoint)
			if logg != nil {
				logg.Info(ctx, "duplicate stripe delivery acknowledged")
			}
			responses.WriteSuccess(w, nil)
			return
		}

		start := time.Now()
		if err := svc.HandleEvent(ctx, &event); err != nil {
			// Releasing the mark lets Stripe's retry reprocess the event.
			_ = guard.Delete(ctx, event.ID)
			m.IncFailed(endpoint, string(event.Type))
			responses.WriteError(ctx, logg, w, err)
			return
		}
		m.ObserveDuration(endpoint, string(event.Type), time.Since(start))
		m.IncProcessed(endpoint, string(event.Type))

		if logg != nil {
			logg.Info(ctx, "stripe event processed")
		}
		responses.WriteSuccess(w, nil)
	}
}
