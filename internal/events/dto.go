package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/avaldez-dev/gatepass-backend/pkg/db/models"
)

// CreateEventInput captures the fields a host provides for a new event.
type CreateEventInput struct {
	Name        string
	Description string
	Location    string
	StartAt     time.Time
	EndAt       time.Time
	ImageURL    *string
}

// UpdateEventInput carries optional mutations; nil fields are untouched.
type UpdateEventInput struct {
	Name        *string
	Description *string
	Location    *string
	StartAt     *time.Time
	EndAt       *time.Time
	ImageURL    *string
}

// EventDTO is the host-facing projection, private key included so the host
// can build management links.
type EventDTO struct {
	ID          uuid.UUID `json:"id"`
	HostID      uuid.UUID `json:"host_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartAt     time.Time `json:"start_at"`
	EndAt       time.Time `json:"end_at"`
	ImageURL    *string   `json:"image_url,omitempty"`
	PublicKey   string    `json:"public_key"`
	PrivateKey  string    `json:"private_key"`
	CreatedAt   time.Time `json:"created_at"`
}

// PublicEventDTO is the unauthenticated projection served by public key.
// It never exposes the private key or host id.
type PublicEventDTO struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartAt     time.Time `json:"start_at"`
	EndAt       time.Time `json:"end_at"`
	ImageURL    *string   `json:"image_url,omitempty"`
	PublicKey   string    `json:"public_key"`
}

// ToDTO maps an Event row onto the host projection.
func ToDTO(event *models.Event) *EventDTO {
	if event == nil {
		return nil
	}
	return &EventDTO{
		ID:          event.ID,
		HostID:      event.HostID,
		Name:        event.Name,
		Description: event.Description,
		Location:    event.Location,
		StartAt:     event.StartAt,
		EndAt:       event.EndAt,
		ImageURL:    event.ImageURL,
		PublicKey:   event.PublicKey,
		PrivateKey:  event.PrivateKey,
		CreatedAt:   event.CreatedAt,
	}
}

// ToPublicDTO maps an Event row onto the unauthenticated projection.
func ToPublicDTO(event *models.Event) *PublicEventDTO {
	if event == nil {
		return nil
	}
	return &PublicEventDTO{
		Name:        event.Name,
		Description: event.Description,
		Location:    event.Location,
		StartAt:     event.StartAt,
		EndAt:       event.EndAt,
		ImageURL:    event.ImageURL,
		PublicKey:   event.PublicKey,
	}
}
