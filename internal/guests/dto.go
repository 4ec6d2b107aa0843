package guests

import (
	"time"

	"github.com/google/uuid"

	"github.com/avaldez-dev/gatepass-backend/pkg/db/models"
	"github.com/avaldez-dev/gatepass-backend/pkg/enums"
)

// CreateGuestInput captures attendee details. Registration and webhook
// fulfillment both funnel through it.
type CreateGuestInput struct {
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	Quantity    int
}

// UpdateGuestInput carries host-side mutations; nil fields are untouched.
type UpdateGuestInput struct {
	FirstName   *string
	LastName    *string
	Email       *string
	PhoneNumber *string
}

// ListFilter narrows host guest lists.
type ListFilter struct {
	EventID  *uuid.UUID
	TicketID *uuid.UUID
	Name     string
	Email    string
	Phone    string
	Attended *bool
}

// GuestDTO is the host-facing projection.
type GuestDTO struct {
	ID            uuid.UUID         `json:"id"`
	EventID       uuid.UUID         `json:"event_id"`
	TicketID      uuid.UUID         `json:"ticket_id"`
	FirstName     string            `json:"first_name"`
	LastName      string            `json:"last_name"`
	Email         string            `json:"email"`
	PhoneNumber   string            `json:"phone_number"`
	Quantity      int               `json:"quantity"`
	UsedQuantity  int               `json:"used_quantity"`
	Status        enums.GuestStatus `json:"status"`
	ScanTimestamp *time.Time        `json:"scan_timestamp,omitempty"`
	PublicKey     string            `json:"public_key"`
	PrivateKey    string            `json:"private_key"`
	CreatedAt     time.Time         `json:"created_at"`
}

// TicketViewDTO is what the guest sees on their own ticket page. It carries
// the guest key rather than row ids so the link alone is enough to render it.
type TicketViewDTO struct {
	GuestKey     string            `json:"guest_key"`
	EventName    string            `json:"event_name"`
	TicketName   string            `json:"ticket_name"`
	FirstName    string            `json:"first_name"`
	LastName     string            `json:"last_name"`
	Quantity     int               `json:"quantity"`
	UsedQuantity int               `json:"used_quantity"`
	Status       enums.GuestStatus `json:"status"`
	EventStartAt time.Time         `json:"event_start_at"`
	EventEndAt   time.Time         `json:"event_end_at"`
	Location     string            `json:"location"`
}

// ScanResultDTO reports the outcome of a door scan.
type ScanResultDTO struct {
	GuestID      uuid.UUID `json:"guest_id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Quantity     int       `json:"quantity"`
	UsedQuantity int       `json:"used_quantity"`
	ScannedAt    time.Time `json:"scanned_at"`
}

// ToDTO maps a Guest row onto the host projection.
func ToDTO(guest *models.Guest) *GuestDTO {
	if guest == nil {
		return nil
	}
	return &GuestDTO{
		ID:            guest.ID,
		EventID:       guest.EventID,
		TicketID:      guest.TicketID,
		FirstName:     guest.FirstName,
		LastName:      guest.LastName,
		Email:         guest.Email,
		PhoneNumber:   guest.PhoneNumber,
		Quantity:      guest.Quantity,
		UsedQuantity:  guest.UsedQuantity,
		Status:        guest.Status,
		ScanTimestamp: guest.ScanTimestamp,
		PublicKey:     guest.PublicKey,
		PrivateKey:    guest.PrivateKey,
		CreatedAt:     guest.CreatedAt,
	}
}
