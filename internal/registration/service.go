package registration

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/avaldez-dev/gatepass-backend/internal/guests"
	"github.com/avaldez-dev/gatepass-backend/internal/payments"
	"github.com/avaldez-dev/gatepass-backend/pkg/db/models"
	"github.com/avaldez-dev/gatepass-backend/pkg/enums"
	pkgerrors "github.com/avaldez-dev/gatepass-backend/pkg/errors"
	"github.com/avaldez-dev/gatepass-backend/pkg/keys"
	"github.com/avaldez-dev/gatepass-backend/pkg/outbox"
	"github.com/avaldez-dev/gatepass-backend/pkg/outbox/payloads"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type eventRepository interface {
	FindByPublicKey(ctx context.Context, key string) (*models.Event, error)
}

type ticketRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Ticket, error)
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*models.Ticket, error)
	IncrementSoldTx(tx *gorm.DB, id uuid.UUID, by int) error
}

type guestRepository interface {
	CreateTx(tx *gorm.DB, guest *models.Guest) error
}

type hostRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Host, error)
}

type outboxEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// RegisterInput carries the attendee details from the public form.
type RegisterInput struct {
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	Quantity    int
}

// RegistrationResult is either an issued guest (free tickets) or a Stripe
// Checkout redirect (paid tickets), never both.
type RegistrationResult struct {
	Guest       *guests.GuestDTO `json:"guest,omitempty"`
	TicketURL   string           `json:"ticket_url,omitempty"`
	CheckoutURL string           `json:"checkout_url,omitempty"`
}

// DonateInput carries the donor details from the public donation form.
type DonateInput struct {
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	Amount      decimal.Decimal
}

// Service handles public event registration and donations.
type Service interface {
	Register(ctx context.Context, eventKey string, ticketID uuid.UUID, input RegisterInput) (*RegistrationResult, error)
	Donate(ctx context.Context, eventKey string, input DonateInput) (string, error)
}

// ServiceParams wires the registration service dependencies.
type ServiceParams struct {
	TxRunner      txRunner
	Events        eventRepository
	Tickets       ticketRepository
	Guests        guestRepository
	Hosts         hostRepository
	Outbox        outboxEmitter
	Checkout      payments.CheckoutService
	TicketBaseURL string
}

type service struct {
	tx            txRunner
	events        eventRepository
	tickets       ticketRepository
	guests        guestRepository
	hosts         hostRepository
	outbox        outboxEmitter
	checkout      payments.CheckoutService
	ticketBaseURL string
}

// NewService builds the registration service.
func NewService(params ServiceParams) (Service, error) {
	switch {
	case params.TxRunner == nil:
		return nil, fmt.Errorf("tx runner required")
	case params.Events == nil:
		return nil, fmt.Errorf("event repository required")
	case params.Tickets == nil:
		return nil, fmt.Errorf("ticket repository required")
	case params.Guests == nil:
		return nil, fmt.Errorf("guest repository required")
	case params.Hosts == nil:
		return nil, fmt.Errorf("host repository required")
	case params.Outbox == nil:
		return nil, fmt.Errorf("outbox emitter required")
	case params.Checkout == nil:
		return nil, fmt.Errorf("checkout service required")
	case params.TicketBaseURL == "":
		return nil, fmt.Errorf("ticket base url required")
	}
	return &service{
		tx:            params.TxRunner,
		events:        params.Events,
		tickets:       params.Tickets,
		guests:        params.Guests,
		hosts:         params.Hosts,
		outbox:        params.Outbox,
		checkout:      params.Checkout,
		ticketBaseURL: strings.TrimRight(params.TicketBaseURL, "/"),
	}, nil
}

// Register issues a guest immediately for free tickets, or returns a Stripe
// Checkout URL for paid ones. Paid registrations write nothing locally; the
// guest is created when the payment webhook confirms the session.
func (s *service) Register(ctx context.Context, eventKey string, ticketID uuid.UUID, input RegisterInput) (*RegistrationResult, error) {
	if err := validateInput(&input); err != nil {
		return nil, err
	}

	event, err := s.events.FindByPublicKey(ctx, eventKey)
	if err != nil {
		return nil, notFoundOr(err, "event not found", "load event")
	}
	ticket, err := s.tickets.FindByID(ctx, ticketID)
	if err != nil {
		return nil, notFoundOr(err, "ticket not found", "load ticket")
	}
	if ticket.EventID != event.ID {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "ticket does not belong to this event")
	}
	if !ticket.RegistrationActive {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "registration is closed for this ticket")
	}
	// Paid registrations never pass through the locked free path, so the
	// capacity cap has to hold before the price branch.
	if ticket.MaxQuantity != nil && ticket.SoldCount+input.Quantity > *ticket.MaxQuantity {
		return nil, pkgerrors.New(pkgerrors.CodeRegistrationFull, "not enough tickets remaining")
	}

	if ticket.Price.IsPositive() {
		return s.paidRegistration(ctx, event, ticket, input)
	}
	return s.freeRegistration(ctx, event, ticket, input)
}

func (s *service) paidRegistration(ctx context.Context, event *models.Event, ticket *models.Ticket, input RegisterInput) (*RegistrationResult, error) {
	host, err := s.hosts.FindByID(ctx, event.HostID)
	if err != nil {
		return nil, notFoundOr(err, "host not found", "load host")
	}
	url, err := s.checkout.TicketCheckoutURL(ctx, event, ticket, host, payments.TicketPurchase{
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Email:       input.Email,
		PhoneNumber: input.PhoneNumber,
		Quantity:    input.Quantity,
	})
	if err != nil {
		return nil, err
	}
	return &RegistrationResult{CheckoutURL: url}, nil
}

// freeRegistration locks the ticket row so concurrent registrations cannot
// oversell a capped ticket.
func (s *service) freeRegistration(ctx context.Context, event *models.Event, ticket *models.Ticket, input RegisterInput) (*RegistrationResult, error) {
	publicKey, privateKey, err := keys.NewKeyPair()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate guest keys")
	}

	guest := &models.Guest{
		EventID:     event.ID,
		TicketID:    ticket.ID,
		FirstName:   strings.TrimSpace(input.FirstName),
		LastName:    strings.TrimSpace(input.LastName),
		Email:       strings.ToLower(strings.TrimSpace(input.Email)),
		PhoneNumber: strings.TrimSpace(input.PhoneNumber),
		Quantity:    input.Quantity,
		Status:      enums.GuestStatusIssued,
		PublicKey:   publicKey,
		PrivateKey:  privateKey,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		locked, err := s.tickets.FindByIDForUpdateTx(tx, ticket.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock ticket")
		}
		if !locked.RegistrationActive {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "registration is closed for this ticket")
		}
		if locked.MaxQuantity != nil && locked.SoldCount+input.Quantity > *locked.MaxQuantity {
			return pkgerrors.New(pkgerrors.CodeRegistrationFull, "not enough tickets remaining")
		}

		if err := s.guests.CreateTx(tx, guest); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create guest")
		}
		if err := s.tickets.IncrementSoldTx(tx, ticket.ID, input.Quantity); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "increment sold count")
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventGuestIssued,
			AggregateType: enums.AggregateGuest,
			AggregateID:   guest.ID,
			Data: payloads.GuestIssued{
				GuestID:    guest.ID,
				EventID:    event.ID,
				TicketID:   ticket.ID,
				EventName:  event.Name,
				TicketName: ticket.Name,
				FirstName:  guest.FirstName,
				LastName:   guest.LastName,
				Email:      guest.Email,
				Quantity:   guest.Quantity,
				EventKey:   event.PublicKey,
				GuestKey:   guest.PrivateKey,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	return &RegistrationResult{
		Guest:     guests.ToDTO(guest),
		TicketURL: fmt.Sprintf("%s/%s/%s", s.ticketBaseURL, event.PublicKey, guest.PrivateKey),
	}, nil
}

// Donate builds a Stripe Checkout URL for a one-off donation to the event's
// host. The donation receipt is written by the payment webhook.
func (s *service) Donate(ctx context.Context, eventKey string, input DonateInput) (string, error) {
	if strings.TrimSpace(input.FirstName) == "" || strings.TrimSpace(input.LastName) == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "first and last name are required")
	}
	if !strings.Contains(input.Email, "@") {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "a valid email is required")
	}
	if !input.Amount.IsPositive() {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "donation amount must be positive")
	}

	event, err := s.events.FindByPublicKey(ctx, eventKey)
	if err != nil {
		return "", notFoundOr(err, "event not found", "load event")
	}
	host, err := s.hosts.FindByID(ctx, event.HostID)
	if err != nil {
		return "", notFoundOr(err, "host not found", "load host")
	}

	return s.checkout.DonationCheckoutURL(ctx, event, host, payments.Donation{
		FirstName:   strings.TrimSpace(input.FirstName),
		LastName:    strings.TrimSpace(input.LastName),
		Email:       strings.ToLower(strings.TrimSpace(input.Email)),
		PhoneNumber: strings.TrimSpace(input.PhoneNumber),
		Amount:      input.Amount,
	})
}

func validateInput(input *RegisterInput) error {
	if strings.TrimSpace(input.FirstName) == "" || strings.TrimSpace(input.LastName) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "first and last name are required")
	}
	if !strings.Contains(input.Email, "@") {
		return pkgerrors.New(pkgerrors.CodeValidation, "a valid email is required")
	}
	if input.Quantity <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	return nil
}

func notFoundOr(err error, message, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, message)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op)
}
