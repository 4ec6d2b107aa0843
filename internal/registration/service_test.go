package registration

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/avaldez-dev/gatepass-backend/internal/payments"
	"github.com/avaldez-dev/gatepass-backend/pkg/db/models"
	"github.com/avaldez-dev/gatepass-backend/pkg/enums"
	pkgerrors "github.com/avaldez-dev/gatepass-backend/pkg/errors"
	"github.com/avaldez-dev/gatepass-backend/pkg/outbox"
)

type stubTxRunner struct{}

func (s *stubTxRunner) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

type stubEvents struct {
	byKey map[string]*models.Event
}

func (s *stubEvents) FindByPublicKey(_ context.Context, key string) (*models.Event, error) {
	if e, ok := s.byKey[key]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubTickets struct {
	byID        map[uuid.UUID]*models.Ticket
	incremented int
}

func (s *stubTickets) FindByID(_ context.Context, id uuid.UUID) (*models.Ticket, error) {
	if t, ok := s.byID[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubTickets) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*models.Ticket, error) {
	return s.FindByID(context.Background(), id)
}

func (s *stubTickets) IncrementSoldTx(_ *gorm.DB, id uuid.UUID, by int) error {
	s.incremented += by
	if t, ok := s.byID[id]; ok {
		t.SoldCount += by
	}
	return nil
}

type stubGuests struct {
	created *models.Guest
}

func (s *stubGuests) CreateTx(_ *gorm.DB, guest *models.Guest) error {
	guest.ID = uuid.New()
	s.created = guest
	return nil
}

type stubHosts struct {
	host *models.Host
}

func (s *stubHosts) FindByID(_ context.Context, id uuid.UUID) (*models.Host, error) {
	if s.host != nil && s.host.ID == id {
		return s.host, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubOutbox struct {
	events []outbox.DomainEvent
}

func (s *stubOutbox) Emit(_ context.Context, _ *gorm.DB, event outbox.DomainEvent) error {
	s.events = append(s.events, event)
	return nil
}

type stubCheckout struct {
	url      string
	purchase payments.TicketPurchase
	called   bool
}

func (s *stubCheckout) TicketCheckoutURL(_ context.Context, _ *models.Event, _ *models.Ticket, _ *models.Host, purchase payments.TicketPurchase) (string, error) {
	s.called = true
	s.purchase = purchase
	return s.url, nil
}

func (s *stubCheckout) DonationCheckoutURL(_ context.Context, _ *models.Event, _ *models.Host, _ payments.Donation) (string, error) {
	return s.url, nil
}

type fixture struct {
	svc      Service
	events   *stubEvents
	tickets  *stubTickets
	guests   *stubGuests
	outbox   *stubOutbox
	checkout *stubCheckout
	event    *models.Event
	host     *models.Host
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	host := &models.Host{ID: uuid.New(), Email: "host@example.com"}
	event := &models.Event{ID: uuid.New(), HostID: host.ID, Name: "Warehouse Show", PublicKey: "evt-pub"}

	events := &stubEvents{byKey: map[string]*models.Event{event.PublicKey: event}}
	tickets := &stubTickets{byID: map[uuid.UUID]*models.Ticket{}}
	guestRepo := &stubGuests{}
	ob := &stubOutbox{}
	checkout := &stubCheckout{url: "https://checkout.stripe.com/pay/cs_test_123"}

	svc, err := NewService(ServiceParams{
		TxRunner:      &stubTxRunner{},
		Events:        events,
		Tickets:       tickets,
		Guests:        guestRepo,
		Hosts:         &stubHosts{host: host},
		Outbox:        ob,
		Checkout:      checkout,
		TicketBaseURL: "https://gatepass.events/tickets/",
	})
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	return &fixture{svc: svc, events: events, tickets: tickets, guests: guestRepo, outbox: ob, checkout: checkout, event: event, host: host}
}

func (f *fixture) addTicket(price string, maxQty *int, sold int, active bool) *models.Ticket {
	ticket := &models.Ticket{
		ID:                 uuid.New(),
		EventID:            f.event.ID,
		Name:               "GA",
		Price:              decimal.RequireFromString(price),
		MaxQuantity:        maxQty,
		SoldCount:          sold,
		RegistrationActive: active,
	}
	f.tickets.byID[ticket.ID] = ticket
	return ticket
}

func validInput() RegisterInput {
	return RegisterInput{FirstName: "Ada", LastName: "Li", Email: "ada@example.com", PhoneNumber: "5550100", Quantity: 2}
}

func TestFreeRegistrationIssuesGuest(t *testing.T) {
	f := newFixture(t)
	ticket := f.addTicket("0", nil, 0, true)

	res, err := f.svc.Register(context.Background(), "evt-pub", ticket.ID, validInput())
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if res.CheckoutURL != "" {
		t.Fatal("free registration must not redirect to checkout")
	}
	if res.Guest == nil || res.Guest.Status != enums.GuestStatusIssued {
		t.Fatalf("expected issued guest, got %+v", res.Guest)
	}
	if f.tickets.incremented != 2 {
		t.Fatalf("expected sold count bumped by 2, got %d", f.tickets.incremented)
	}
	wantURL := "https://gatepass.events/tickets/evt-pub/" + f.guests.created.PrivateKey
	if res.TicketURL != wantURL {
		t.Fatalf("unexpected ticket url %q", res.TicketURL)
	}

	if len(f.outbox.events) != 1 {
		t.Fatalf("expected 1 outbox event, got %d", len(f.outbox.events))
	}
	emitted := f.outbox.events[0]
	if emitted.EventType != enums.EventGuestIssued || emitted.AggregateID != f.guests.created.ID {
		t.Fatalf("unexpected outbox event %+v", emitted)
	}
}

func TestFreeRegistrationCapacity(t *testing.T) {
	f := newFixture(t)
	capacity := 10

	t.Run("fills to the last seat", func(t *testing.T) {
		ticket := f.addTicket("0", &capacity, 8, true)
		if _, err := f.svc.Register(context.Background(), "evt-pub", ticket.ID, validInput()); err != nil {
			t.Fatalf("register failed: %v", err)
		}
	})

	t.Run("rejects one past capacity", func(t *testing.T) {
		ticket := f.addTicket("0", &capacity, 9, true)
		_, err := f.svc.Register(context.Background(), "evt-pub", ticket.ID, validInput())
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeRegistrationFull {
			t.Fatalf("expected registration full, got %v", err)
		}
	})
}

func TestPaidRegistrationRedirectsToCheckout(t *testing.T) {
	f := newFixture(t)
	ticket := f.addTicket("25.00", nil, 0, true)

	res, err := f.svc.Register(context.Background(), "evt-pub", ticket.ID, validInput())
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if res.CheckoutURL != "https://checkout.stripe.com/pay/cs_test_123" {
		t.Fatalf("unexpected checkout url %q", res.CheckoutURL)
	}
	if res.Guest != nil {
		t.Fatal("paid registration must not create a guest before payment")
	}
	if f.guests.created != nil {
		t.Fatal("no guest row should be written for paid tickets")
	}
	if f.checkout.purchase.Quantity != 2 {
		t.Fatalf("unexpected purchase %+v", f.checkout.purchase)
	}
	if len(f.outbox.events) != 0 {
		t.Fatal("no outbox event before payment confirmation")
	}
}

func TestPaidRegistrationAtCapacityRejected(t *testing.T) {
	f := newFixture(t)
	capacity := 2
	ticket := f.addTicket("25.00", &capacity, 2, true)

	_, err := f.svc.Register(context.Background(), "evt-pub", ticket.ID, validInput())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeRegistrationFull {
		t.Fatalf("expected registration full, got %v", err)
	}
	if f.checkout.called {
		t.Fatal("sold-out ticket must not reach checkout")
	}
}

func TestRegisterGuards(t *testing.T) {
	f := newFixture(t)
	ticket := f.addTicket("0", nil, 0, true)
	closed := f.addTicket("0", nil, 0, false)

	otherEvent := &models.Event{ID: uuid.New(), HostID: f.host.ID, PublicKey: "other-pub"}
	f.events.byKey[otherEvent.PublicKey] = otherEvent

	cases := []struct {
		name     string
		eventKey string
		ticketID uuid.UUID
		input    RegisterInput
		code     pkgerrors.Code
	}{
		{"unknown event", "missing", ticket.ID, validInput(), pkgerrors.CodeNotFound},
		{"unknown ticket", "evt-pub", uuid.New(), validInput(), pkgerrors.CodeNotFound},
		{"ticket from another event", "other-pub", ticket.ID, validInput(), pkgerrors.CodeStateConflict},
		{"closed registration", "evt-pub", closed.ID, validInput(), pkgerrors.CodeStateConflict},
		{"zero quantity", "evt-pub", ticket.ID, RegisterInput{FirstName: "A", LastName: "B", Email: "a@b.c"}, pkgerrors.CodeValidation},
		{"bad email", "evt-pub", ticket.ID, RegisterInput{FirstName: "A", LastName: "B", Email: "nope", Quantity: 1}, pkgerrors.CodeValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Register(context.Background(), tc.eventKey, tc.ticketID, tc.input)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != tc.code {
				t.Fatalf("expected %s, got %v", tc.code, err)
			}
		})
	}
}

func TestDonateReturnsCheckoutURL(t *testing.T) {
	f := newFixture(t)

	url, err := f.svc.Donate(context.Background(), "evt-pub", DonateInput{
		FirstName: "Grace",
		LastName:  "Hopper",
		Email:     "Grace@Example.com",
		Amount:    decimal.NewFromInt(50),
	})
	if err != nil {
		t.Fatalf("Donate failed: %v", err)
	}
	if url != f.checkout.url {
		t.Fatalf("expected checkout url %q, got %q", f.checkout.url, url)
	}
	if f.guests.created != nil {
		t.Fatal("donations must not create guests")
	}
	if len(f.outbox.events) != 0 {
		t.Fatal("donations write nothing until the webhook confirms")
	}
}

func TestDonateGuards(t *testing.T) {
	f := newFixture(t)

	cases := []struct {
		name     string
		eventKey string
		input    DonateInput
		code     pkgerrors.Code
	}{
		{"unknown event", "missing", DonateInput{FirstName: "A", LastName: "B", Email: "a@b.c", Amount: decimal.NewFromInt(5)}, pkgerrors.CodeNotFound},
		{"missing name", "evt-pub", DonateInput{Email: "a@b.c", Amount: decimal.NewFromInt(5)}, pkgerrors.CodeValidation},
		{"bad email", "evt-pub", DonateInput{FirstName: "A", LastName: "B", Email: "nope", Amount: decimal.NewFromInt(5)}, pkgerrors.CodeValidation},
		{"zero amount", "evt-pub", DonateInput{FirstName: "A", LastName: "B", Email: "a@b.c"}, pkgerrors.CodeValidation},
		{"negative amount", "evt-pub", DonateInput{FirstName: "A", LastName: "B", Email: "a@b.c", Amount: decimal.NewFromInt(-5)}, pkgerrors.CodeValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Donate(context.Background(), tc.eventKey, tc.input)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != tc.code {
				t.Fatalf("expected %s, got %v", tc.code, err)
			}
		})
	}
}
