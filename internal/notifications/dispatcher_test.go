package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/avaldez-dev/gatepass-backend/pkg/db/models"
	"github.com/avaldez-dev/gatepass-backend/pkg/enums"
	"github.com/avaldez-dev/gatepass-backend/pkg/logger"
	"github.com/avaldez-dev/gatepass-backend/pkg/outbox"
)

type sentEmail struct {
	to      string
	subject string
	html    string
	text    string
}

type fakeMailer struct {
	sent    []sentEmail
	sendErr error
}

func (f *fakeMailer) Send(_ context.Context, to, subject, html, text string) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, sentEmail{to: to, subject: subject, html: html, text: text})
	return nil
}

func newTestDispatcher(t *testing.T, mailer *fakeMailer) *Dispatcher {
	t.Helper()
	dispatcher, err := NewDispatcher(mailer, logger.New(logger.Options{ServiceName: "test"}), "https://gatepass.example.com/tickets/")
	if err != nil {
		t.Fatalf("NewDispatcher failed: %v", err)
	}
	return dispatcher
}

func outboxRow(t *testing.T, eventType enums.OutboxEventType, data any) models.OutboxEvent {
	t.Helper()
	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshaling payload data: %v", err)
	}
	envelope := outbox.PayloadEnvelope{
		Version:    1,
		EventID:    uuid.NewString(),
		OccurredAt: time.Now().UTC(),
		Data:       raw,
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		t.Fatalf("marshaling envelope: %v", err)
	}
	return models.OutboxEvent{
		ID:        uuid.New(),
		EventType: eventType,
		Payload:   payload,
	}
}

func TestDispatchGuestIssued(t *testing.T) {
	mailer := &fakeMailer{}
	dispatcher := newTestDispatcher(t, mailer)

	row := outboxRow(t, enums.EventGuestIssued, map[string]any{
		"eventName":  "Warehouse Rave",
		"ticketName": "General Admission",
		"firstName":  "Ada",
		"lastName":   "Lovelace",
		"email":      "ada@example.com",
		"quantity":   2,
		"eventKey":   "evt-pub-key",
		"guestKey":   "guest-priv-key",
	})

	if err := dispatcher.Dispatch(context.Background(), row); err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("expected 1 email, got %d", len(mailer.sent))
	}
	email := mailer.sent[0]
	if email.to != "ada@example.com" {
		t.Fatalf("unexpected recipient %q", email.to)
	}
	if email.subject != "Your tickets for Warehouse Rave" {
		t.Fatalf("unexpected subject %q", email.subject)
	}
	wantURL := "https://gatepass.example.com/tickets/evt-pub-key/guest-priv-key"
	if !strings.Contains(email.text, wantURL) {
		t.Fatalf("text body missing ticket url %q: %s", wantURL, email.text)
	}
	if !strings.Contains(email.html, wantURL) {
		t.Fatalf("html body missing ticket url %q", wantURL)
	}
	if !strings.Contains(email.text, "2 x General Admission") {
		t.Fatalf("text body missing quantity line: %s", email.text)
	}
}

func TestDispatchReceiptRecorded(t *testing.T) {
	mailer := &fakeMailer{}
	dispatcher := newTestDispatcher(t, mailer)

	row := outboxRow(t, enums.EventReceiptRecorded, map[string]any{
		"eventName":  "Warehouse Rave",
		"ticketName": "General Admission",
		"firstName":  "Ada",
		"email":      "ada@example.com",
		"quantity":   2,
		"unitPrice":  decimal.NewFromInt(40),
		"totalPaid":  decimal.RequireFromString("84.00"),
	})

	if err := dispatcher.Dispatch(context.Background(), row); err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("expected 1 email, got %d", len(mailer.sent))
	}
	email := mailer.sent[0]
	if email.subject != "Receipt for Warehouse Rave" {
		t.Fatalf("unexpected subject %q", email.subject)
	}
	if !strings.Contains(email.text, "$84.00") {
		t.Fatalf("text body missing total: %s", email.text)
	}
	if !strings.Contains(email.text, "2 x General Admission at $40.00") {
		t.Fatalf("text body missing line item: %s", email.text)
	}
}

func TestDispatchRefundRecorded(t *testing.T) {
	mailer := &fakeMailer{}
	dispatcher := newTestDispatcher(t, mailer)

	row := outboxRow(t, enums.EventRefundRecorded, map[string]any{
		"eventName": "Warehouse Rave",
		"firstName": "Ada",
		"email":     "ada@example.com",
		"amount":    decimal.RequireFromString("25.00"),
	})

	if err := dispatcher.Dispatch(context.Background(), row); err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("expected 1 email, got %d", len(mailer.sent))
	}
	if !strings.Contains(mailer.sent[0].text, "$25.00") {
		t.Fatalf("refund body missing amount: %s", mailer.sent[0].text)
	}
}

func TestDispatchDonationRecorded(t *testing.T) {
	mailer := &fakeMailer{}
	dispatcher := newTestDispatcher(t, mailer)

	row := outboxRow(t, enums.EventDonationRecorded, map[string]any{
		"eventName": "Warehouse Rave",
		"firstName": "Ada",
		"email":     "ada@example.com",
		"totalPaid": decimal.NewFromInt(100),
	})

	if err := dispatcher.Dispatch(context.Background(), row); err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("expected 1 email, got %d", len(mailer.sent))
	}
	if mailer.sent[0].subject != "Thank you for supporting Warehouse Rave" {
		t.Fatalf("unexpected subject %q", mailer.sent[0].subject)
	}
}

func TestDispatchUnknownEventTypeAcked(t *testing.T) {
	mailer := &fakeMailer{}
	dispatcher := newTestDispatcher(t, mailer)

	row := outboxRow(t, enums.OutboxEventType("legacy_event"), map[string]any{})
	if err := dispatcher.Dispatch(context.Background(), row); err != nil {
		t.Fatalf("unknown event type must ack, got %v", err)
	}
	if len(mailer.sent) != 0 {
		t.Fatalf("expected no emails, got %d", len(mailer.sent))
	}
}

func TestDispatchSendFailurePropagates(t *testing.T) {
	mailer := &fakeMailer{sendErr: errors.New("ses unavailable")}
	dispatcher := newTestDispatcher(t, mailer)

	row := outboxRow(t, enums.EventGuestIssued, map[string]any{
		"eventName": "Warehouse Rave",
		"email":     "ada@example.com",
		"eventKey":  "evt",
		"guestKey":  "guest",
	})
	if err := dispatcher.Dispatch(context.Background(), row); err == nil {
		t.Fatal("expected send failure to propagate")
	}
}

func TestDispatchMalformedEnvelope(t *testing.T) {
	mailer := &fakeMailer{}
	dispatcher := newTestDispatcher(t, mailer)

	row := models.OutboxEvent{
		ID:        uuid.New(),
		EventType: enums.EventGuestIssued,
		Payload:   json.RawMessage(`{`),
	}
	if err := dispatcher.Dispatch(context.Background(), row); err == nil {
		t.Fatal("expected error for malformed envelope")
	}
}
