package events

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avaldez-dev/gatepass-backend/pkg/db/models"
	pkgerrors "github.com/avaldez-dev/gatepass-backend/pkg/errors"
	"github.com/avaldez-dev/gatepass-backend/pkg/keys"
)

type eventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
	FindByPublicKey(ctx context.Context, key string) (*models.Event, error)
	ListByHost(ctx context.Context, hostID uuid.UUID) ([]models.Event, error)
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service exposes event operations.
type Service interface {
	Create(ctx context.Context, hostID uuid.UUID, input CreateEventInput) (*EventDTO, error)
	GetForHost(ctx context.Context, hostID, eventID uuid.UUID) (*EventDTO, error)
	GetByPublicKey(ctx context.Context, key string) (*PublicEventDTO, error)
	ListForHost(ctx context.Context, hostID uuid.UUID) ([]EventDTO, error)
	Update(ctx context.Context, hostID, eventID uuid.UUID, input UpdateEventInput) (*EventDTO, error)
	Delete(ctx context.Context, hostID, eventID uuid.UUID) error
}

type service struct {
	repo eventRepository
}

// NewService builds an event service with the provided repository.
func NewService(repo eventRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("event repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, hostID uuid.UUID, input CreateEventInput) (*EventDTO, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "event name is required")
	}
	if input.StartAt.IsZero() || input.EndAt.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "event start and end are required")
	}
	if input.EndAt.Before(input.StartAt) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "event end must not precede start")
	}

	publicKey, privateKey, err := keys.NewKeyPair()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate event keys")
	}

	event := &models.Event{
		HostID:      hostID,
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Location:    input.Location,
		StartAt:     input.StartAt,
		EndAt:       input.EndAt,
		ImageURL:    input.ImageURL,
		PublicKey:   publicKey,
		PrivateKey:  privateKey,
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create event")
	}
	return ToDTO(event), nil
}

func (s *service) GetForHost(ctx context.Context, hostID, eventID uuid.UUID) (*EventDTO, error) {
	event, err := s.loadOwned(ctx, hostID, eventID)
	if err != nil {
		return nil, err
	}
	return ToDTO(event), nil
}

func (s *service) GetByPublicKey(ctx context.Context, key string) (*PublicEventDTO, error) {
	if strings.TrimSpace(key) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "event key is required")
	}
	event, err := s.repo.FindByPublicKey(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "event not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load event")
	}
	return ToPublicDTO(event), nil
}

func (s *service) ListForHost(ctx context.Context, hostID uuid.UUID) ([]EventDTO, error) {
	rows, err := s.repo.ListByHost(ctx, hostID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list events")
	}
	dtos := make([]EventDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *ToDTO(&rows[i]))
	}
	return dtos, nil
}

func (s *service) Update(ctx context.Context, hostID, eventID uuid.UUID, input UpdateEventInput) (*EventDTO, error) {
	event, err := s.loadOwned(ctx, hostID, eventID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "event name is required")
		}
		event.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		event.Description = *input.Description
	}
	if input.Location != nil {
		event.Location = *input.Location
	}
	if input.StartAt != nil {
		event.StartAt = *input.StartAt
	}
	if input.EndAt != nil {
		event.EndAt = *input.EndAt
	}
	if event.EndAt.Before(event.StartAt) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "event end must not precede start")
	}
	if input.ImageURL != nil {
		event.ImageURL = input.ImageURL
	}

	if err := s.repo.Update(ctx, event); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update event")
	}
	return ToDTO(event), nil
}

func (s *service) Delete(ctx context.Context, hostID, eventID uuid.UUID) error {
	if _, err := s.loadOwned(ctx, hostID, eventID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, eventID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete event")
	}
	return nil
}

func (s *service) loadOwned(ctx context.Context, hostID, eventID uuid.UUID) (*models.Event, error) {
	event, err := s.repo.FindByID(ctx, eventID)
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
