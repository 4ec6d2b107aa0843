package tickets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avaldez-dev/gatepass-backend/pkg/db/models"
	"github.com/avaldez-dev/gatepass-backend/pkg/enums"
	pkgerrors "github.com/avaldez-dev/gatepass-backend/pkg/errors"
	"github.com/avaldez-dev/gatepass-backend/pkg/keys"
)

type ticketRepository interface {
	Create(ctx context.Context, ticket *models.Ticket) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Ticket, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.Ticket, error)
	ListPublicByEvent(ctx context.Context, eventID uuid.UUID) ([]models.Ticket, error)
	Update(ctx context.Context, ticket *models.Ticket) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type eventRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
	FindByPublicKey(ctx context.Context, key string) (*models.Event, error)
}

// Service exposes ticket operations.
type Service interface {
	Create(ctx context.Context, hostID, eventID uuid.UUID, input CreateTicketInput) (*TicketDTO, error)
	GetForHost(ctx context.Context, hostID, ticketID uuid.UUID) (*TicketDTO, error)
	ListForEvent(ctx context.Context, hostID, eventID uuid.UUID) ([]TicketDTO, error)
	ListPublicByEventKey(ctx context.Context, eventKey string) ([]PublicTicketDTO, error)
	Update(ctx context.Context, hostID, ticketID uuid.UUID, input UpdateTicketInput) (*TicketDTO, error)
	Delete(ctx context.Context, hostID, ticketID uuid.UUID) error
}

type service struct {
	repo   ticketRepository
	events eventRepository
}

// NewService builds a ticket service with the provided repositories.
func NewService(repo ticketRepository, events eventRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ticket repository required")
	}
	if events == nil {
		return nil, fmt.Errorf("event repository required")
	}
	return &service{repo: repo, events: events}, nil
}

func (s *service) Create(ctx context.Context, hostID, eventID uuid.UUID, input CreateTicketInput) (*TicketDTO, error) {
	if _, err := s.loadOwnedEvent(ctx, hostID, eventID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ticket name is required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ticket price must not be negative")
	}
	if input.MaxQuantity != nil && *input.MaxQuantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "max quantity must be positive")
	}

	visibility := input.Visibility
	if visibility == "" {
		visibility = enums.TicketVisibilityPublic
	}
	if !visibility.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid ticket visibility")
	}

	registrationActive := true
	if input.RegistrationActive != nil {
		registrationActive = *input.RegistrationActive
	}

	publicKey, privateKey, err := keys.NewKeyPair()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate ticket keys")
	}

	ticket := &models.Ticket{
		EventID:            eventID,
		Name:               strings.TrimSpace(input.Name),
		Description:        input.Description,
		Price:              input.Price,
		MaxQuantity:        input.MaxQuantity,
		Visibility:         visibility,
		RegistrationActive: registrationActive,
		PublicKey:          publicKey,
		PrivateKey:         privateKey,
	}
	if err := s.repo.Create(ctx, ticket); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create ticket")
	}
	return ToDTO(ticket), nil
}

func (s *service) GetForHost(ctx context.Context, hostID, ticketID uuid.UUID) (*TicketDTO, error) {
	ticket, err := s.loadOwnedTicket(ctx, hostID, ticketID)
	if err != nil {
		return nil, err
	}
	return ToDTO(ticket), nil
}

func (s *service) ListForEvent(ctx context.Context, hostID, eventID uuid.UUID) ([]TicketDTO, error) {
	if _, err := s.loadOwnedEvent(ctx, hostID, eventID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list tickets")
	}
	dtos := make([]TicketDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *ToDTO(&rows[i]))
	}
	return dtos, nil
}

func (s *service) ListPublicByEventKey(ctx context.Context, eventKey string) ([]PublicTicketDTO, error) {
	event, err := s.events.FindByPublicKey(ctx, eventKey)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "event not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load event")
	}
	rows, err := s.repo.ListPublicByEvent(ctx, event.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list public tickets")
	}
	dtos := make([]PublicTicketDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *ToPublicDTO(&rows[i]))
	}
	return dtos, nil
}

func (s *service) Update(ctx context.Context, hostID, ticketID uuid.UUID, input UpdateTicketInput) (*TicketDTO, error) {
	ticket, err := s.loadOwnedTicket(ctx, hostID, ticketID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "ticket name is required")
		}
		ticket.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		ticket.Description = *input.Description
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "ticket price must not be negative")
		}
		ticket.Price = *input.Price
	}
	if input.MaxQuantity != nil {
		if *input.MaxQuantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "max quantity must be positive")
		}
		ticket.MaxQuantity = input.MaxQuantity
	}
	if input.Visibility != nil {
		if !input.Visibility.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid ticket visibility")
		}
		ticket.Visibility = *input.Visibility
	}
	if input.RegistrationActive != nil {
		ticket.RegistrationActive = *input.RegistrationActive
	}

	if err := s.repo.Update(ctx, ticket); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update ticket")
	}
	return ToDTO(ticket), nil
}

func (s *service) Delete(ctx context.Context, hostID, ticketID uuid.UUID) error {
	if _, err := s.loadOwnedTicket(ctx, hostID, ticketID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, ticketID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete ticket")
	}
	return nil
}

func (s *service) loadOwnedEvent(ctx context.Context, hostID, eventID uuid.UUID) (*models.Event, error) {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "event not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load event")
	}
	if event.HostID != hostID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "event belongs to another host")
	}
	return event, nil
}

func (s *service) loadOwnedTicket(ctx context.Context, hostID, ticketID uuid.UUID) (*models.Ticket, error) {
	ticket, err := s.repo.FindByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "ticket not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load ticket")
	}
	if _, err := s.loadOwnedEvent(ctx, hostID, ticket.EventID); err != nil {
		return nil, err
	}
	return ticket, nil
}
