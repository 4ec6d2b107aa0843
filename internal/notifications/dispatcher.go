package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/avaldez-dev/gatepass-backend/pkg/db/models"
	"github.com/avaldez-dev/gatepass-backend/pkg/enums"
	"github.com/avaldez-dev/gatepass-backend/pkg/logger"
	"github.com/avaldez-dev/gatepass-backend/pkg/mail"
	"github.com/avaldez-dev/gatepass-backend/pkg/outbox"
	"github.com/avaldez-dev/gatepass-backend/pkg/outbox/payloads"
)

// Dispatcher turns outbox rows into guest-facing emails. It is driven by the
// outbox worker, which owns retries and published bookkeeping.
type Dispatcher struct {
	mailer        mail.Mailer
	logg          *logger.Logger
	ticketBaseURL string
}

func NewDispatcher(mailer mail.Mailer, logg *logger.Logger, ticketBaseURL string) (*Dispatcher, error) {
	if mailer == nil {
		return nil, fmt.Errorf("mailer is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if ticketBaseURL == "" {
		return nil, fmt.Errorf("ticket base url is required")
	}
	return &Dispatcher{
		mailer:        mailer,
		logg:          logg,
		ticketBaseURL: strings.TrimRight(ticketBaseURL, "/"),
	}, nil
}

// Dispatch renders and sends the email for a single outbox event. Unknown
// event types are acknowledged so a stale row cannot wedge the worker.
func (d *Dispatcher) Dispatch(ctx context.Context, event models.OutboxEvent) error {
	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(event.Payload, &envelope); err != nil {
		return fmt.Errorf("unmarshaling payload envelope: %w", err)
	}

	logCtx := d.logg.WithFields(ctx, map[string]any{
		"outbox_event_id": event.ID.String(),
		"event_type":      string(event.EventType),
	})

	switch event.EventType {
	case enums.EventGuestIssued:
		return d.sendGuestTicket(logCtx, envelope.Data)
	case enums.EventReceiptRecorded:
		return d.sendPaymentReceipt(logCtx, envelope.Data)
	case enums.EventRefundRecorded:
		return d.sendRefundReceipt(logCtx, envelope.Data)
	case enums.EventDonationRecorded:
		return d.sendDonationReceipt(logCtx, envelope.Data)
	default:
		d.logg.Warn(logCtx, "no notification for event type, skipping")
		return nil
	}
}

func (d *Dispatcher) sendGuestTicket(ctx context.Context, data json.RawMessage) error {
	var payload payloads.GuestIssued
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("unmarshaling guest issued payload: %w", err)
	}
	ticketURL := fmt.Sprintf("%s/%s/%s", d.ticketBaseURL, payload.EventKey, payload.GuestKey)
	email := renderGuestTicket(payload, ticketURL)
	if err := d.mailer.Send(ctx, payload.Email, email.subject, email.html, email.text); err != nil {
		return fmt.Errorf("sending guest ticket email: %w", err)
	}
	d.logg.Info(ctx, "guest ticket email sent")
	return nil
}

func (d *Dispatcher) sendPaymentReceipt(ctx context.Context, data json.RawMessage) error {
	var payload payloads.ReceiptRecorded
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("unmarshaling receipt payload: %w", err)
	}
	email := renderPaymentReceipt(payload)
	if err := d.mailer.Send(ctx, payload.Email, email.subject, email.html, email.text); err != nil {
		return fmt.Errorf("sending payment receipt email: %w", err)
	}
	d.logg.Info(ctx, "payment receipt email sent")
	return nil
}

func (d *Dispatcher) sendRefundReceipt(ctx context.Context, data json.RawMessage) error {
	var payload payloads.RefundRecorded
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("unmarshaling refund payload: %w", err)
	}
	email := renderRefundReceipt(payload)
	if err := d.mailer.Send(ctx, payload.Email, email.subject, email.html, email.text); err != nil {
		return fmt.Errorf("sending refund receipt email: %w", err)
	}
	d.logg.Info(ctx, "refund receipt email sent")
	return nil
}

func (d *Dispatcher) sendDonationReceipt(ctx context.Context, data json.RawMessage) error {
	var payload payloads.DonationRecorded
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("unmarshaling donation payload: %w", err)
	}
	email := renderDonationReceipt(payload)
	if err := d.mailer.Send(ctx, payload.Email, email.subject, email.html, email.text); err != nil {
		return fmt.Errorf("sending donation receipt email: %w", err)
	}
	d.logg.Info(ctx, "donation receipt email sent")
	return nil
}
