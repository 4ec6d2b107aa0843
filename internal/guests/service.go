package guests

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avaldez-dev/gatepass-backend/pkg/db/models"
	"github.com/avaldez-dev/gatepass-backend/pkg/enums"
	pkgerrors "github.com/avaldez-dev/gatepass-backend/pkg/errors"
	"github.com/avaldez-dev/gatepass-backend/pkg/keys"
	"github.com/avaldez-dev/gatepass-backend/pkg/pagination"
)

type guestRepository interface {
	Create(ctx context.Context, guest *models.Guest) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Guest, error)
	FindByPrivateKey(ctx context.Context, key string) (*models.Guest, error)
	FindForEventByPublicKey(ctx context.Context, eventID uuid.UUID, key string) (*models.Guest, error)
	List(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.Guest, error)
	Update(ctx context.Context, guest *models.Guest) error
	RecordScan(ctx context.Context, id uuid.UUID, scannedAt time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type eventRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
	FindByPublicKey(ctx context.Context, key string) (*models.Event, error)
}

type ticketRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Ticket, error)
}

// Service exposes guest operations for both the host console and the
// public ticket surfaces.
type Service interface {
	Lookup(ctx context.Context, eventKey, guestKey string) (*TicketViewDTO, error)
	Validate(ctx context.Context, hostID, eventID uuid.UUID, guestKey string) (*ScanResultDTO, error)
	CreateForHost(ctx context.Context, hostID, eventID, ticketID uuid.UUID, input CreateGuestInput) (*GuestDTO, error)
	GetForHost(ctx context.Context, hostID, guestID uuid.UUID) (*GuestDTO, error)
	ListForHost(ctx context.Context, hostID uuid.UUID, filter ListFilter, params pagination.Params) ([]GuestDTO, string, error)
	Update(ctx context.Context, hostID, guestID uuid.UUID, input UpdateGuestInput) (*GuestDTO, error)
	Delete(ctx context.Context, hostID, guestID uuid.UUID) error
}

type service struct {
	repo    guestRepository
	events  eventRepository
	tickets ticketRepository
	now     func() time.Time
}

// NewService builds a guest service with the provided repositories.
func NewService(repo guestRepository, events eventRepository, tickets ticketRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("guest repository required")
	}
	if events == nil {
		return nil, fmt.Errorf("event repository required")
	}
	if tickets == nil {
		return nil, fmt.Errorf("ticket repository required")
	}
	return &service{repo: repo, events: events, tickets: tickets, now: time.Now}, nil
}

// Lookup renders a guest's ticket page from the pair of keys embedded in
// their link. Any mismatch reads as not found so keys cannot be probed.
func (s *service) Lookup(ctx context.Context, eventKey, guestKey string) (*TicketViewDTO, error) {
	if strings.TrimSpace(eventKey) == "" || strings.TrimSpace(guestKey) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "ticket not found")
	}

	event, err := s.events.FindByPublicKey(ctx, eventKey)
	if err != nil {
		return nil, notFoundOr(err, "ticket not found", "load event")
	}
	guest, err := s.repo.FindByPrivateKey(ctx, guestKey)
	if err != nil {
		return nil, notFoundOr(err, "ticket not found", "load guest")
	}
	if guest.EventID != event.ID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "ticket not found")
	}
	ticket, err := s.tickets.FindByID(ctx, guest.TicketID)
	if err != nil {
		return nil, notFoundOr(err, "ticket not found", "load ticket")
	}

	return &TicketViewDTO{
		GuestKey:     guest.PublicKey,
		EventName:    event.Name,
		TicketName:   ticket.Name,
		FirstName:    guest.FirstName,
		LastName:     guest.LastName,
		Quantity:     guest.Quantity,
		UsedQuantity: guest.UsedQuantity,
		Status:       guest.Status,
		EventStartAt: event.StartAt,
		EventEndAt:   event.EndAt,
		Location:     event.Location,
	}, nil
}

// Validate processes a door scan. A guest whose admissions are exhausted is
// rejected with a state conflict instead of a silent re-admit.
func (s *service) Validate(ctx context.Context, hostID, eventID uuid.UUID, guestKey string) (*ScanResultDTO, error) {
	if _, err := s.loadOwnedEvent(ctx, hostID, eventID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(guestKey) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "guest key is required")
	}

	guest, err := s.repo.FindForEventByPublicKey(ctx, eventID, guestKey)
	if err != nil {
		return nil, notFoundOr(err, "guest not found", "load guest")
	}
	if guest.UsedQuantity >= guest.Quantity {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "all admissions for this guest are already used")
	}

	scannedAt := s.now().UTC()
	if err := s.repo.RecordScan(ctx, guest.ID, scannedAt); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record scan")
	}

	return &ScanResultDTO{
		GuestID:      guest.ID,
		FirstName:    guest.FirstName,
		LastName:     guest.LastName,
		Quantity:     guest.Quantity,
		UsedQuantity: guest.UsedQuantity + 1,
		ScannedAt:    scannedAt,
	}, nil
}

// CreateForHost issues a comp guest directly from the host console. It
// bypasses capacity and payment; the ticket only needs to belong to one of
// the host's events.
func (s *service) CreateForHost(ctx context.Context, hostID, eventID, ticketID uuid.UUID, input CreateGuestInput) (*GuestDTO, error) {
	event, err := s.loadOwnedEvent(ctx, hostID, eventID)
	if err != nil {
		return nil, err
	}
	ticket, err := s.tickets.FindByID(ctx, ticketID)
	if err != nil {
		return nil, notFoundOr(err, "ticket not found", "load ticket")
	}
	if ticket.EventID != event.ID {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "ticket does not belong to this event")
	}

	if strings.TrimSpace(input.FirstName) == "" || strings.TrimSpace(input.LastName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "first and last name are required")
	}
	if !strings.Contains(input.Email, "@") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a valid email is required")
	}
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

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
	if err := s.repo.Create(ctx, guest); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create guest")
	}
	return ToDTO(guest), nil
}

func (s *service) GetForHost(ctx context.Context, hostID, guestID uuid.UUID) (*GuestDTO, error) {
	guest, err := s.loadOwnedGuest(ctx, hostID, guestID)
	if err != nil {
		return nil, err
	}
	return ToDTO(guest), nil
}

// ListForHost pages through guests across the host's events. The filter is
// forced onto one of the host's events before it touches the repo.
func (s *service) ListForHost(ctx context.Context, hostID uuid.UUID, filter ListFilter, params pagination.Params) ([]GuestDTO, string, error) {
	if filter.EventID == nil {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "event id is required")
	}
	if _, err := s.loadOwnedEvent(ctx, hostID, *filter.EventID); err != nil {
		return nil, "", err
	}

	rows, err := s.repo.List(ctx, filter, params)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list guests")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	next := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	dtos := make([]GuestDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *ToDTO(&rows[i]))
	}
	return dtos, next, nil
}

func (s *service) Update(ctx context.Context, hostID, guestID uuid.UUID, input UpdateGuestInput) (*GuestDTO, error) {
	guest, err := s.loadOwnedGuest(ctx, hostID, guestID)
	if err != nil {
		return nil, err
	}

	if input.FirstName != nil {
		if strings.TrimSpace(*input.FirstName) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "first name is required")
		}
		guest.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		if strings.TrimSpace(*input.LastName) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "last name is required")
		}
		guest.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if !strings.Contains(email, "@") {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "a valid email is required")
		}
		guest.Email = email
	}
	if input.PhoneNumber != nil {
		guest.PhoneNumber = strings.TrimSpace(*input.PhoneNumber)
	}

	if err := s.repo.Update(ctx, guest); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update guest")
	}
	return ToDTO(guest), nil
}

func (s *service) Delete(ctx context.Context, hostID, guestID uuid.UUID) error {
	if _, err := s.loadOwnedGuest(ctx, hostID, guestID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, guestID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete guest")
	}
	return nil
}

func (s *service) loadOwnedGuest(ctx context.Context, hostID, guestID uuid.UUID) (*models.Guest, error) {
	guest, err := s.repo.FindByID(ctx, guestID)
	if err != nil {
		return nil, notFoundOr(err, "guest not found", "load guest")
	}
	if _, err := s.loadOwnedEvent(ctx, hostID, guest.EventID); err != nil {
		return nil, err
	}
	return guest, nil
}

func (s *service) loadOwnedEvent(ctx context.Context, hostID, eventID uuid.UUID) (*models.Event, error) {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return nil, notFoundOr(err, "event not found", "load event")
	}
	if event.HostID != hostID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "event belongs to another host")
	}
	return event, nil
}

func notFoundOr(err error, message, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, message)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op)
}
