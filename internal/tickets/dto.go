package tickets

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/avaldez-dev/gatepass-backend/pkg/db/models"
	"github.com/avaldez-dev/gatepass-backend/pkg/enums"
)

// CreateTicketInput captures the fields a host provides for a new ticket.
type CreateTicketInput struct {
	Name               string
	Description        string
	Price              decimal.Decimal
	MaxQuantity        *int
	Visibility         enums.TicketVisibility
	RegistrationActive *bool
}

// UpdateTicketInput carries optional mutations; nil fields are untouched.
type UpdateTicketInput struct {
	Name               *string
	Description        *string
	Price              *decimal.Decimal
	MaxQuantity        *int
	Visibility         *enums.TicketVisibility
	RegistrationActive *bool
}

// TicketDTO is the host-facing projection.
type TicketDTO struct {
	ID                 uuid.UUID              `json:"id"`
	EventID            uuid.UUID              `json:"event_id"`
	Name               string                 `json:"name"`
	Description        string                 `json:"description"`
	Price              decimal.Decimal        `json:"price"`
	MaxQuantity        *int                   `json:"max_quantity,omitempty"`
	SoldCount          int                    `json:"sold_count"`
	Visibility         enums.TicketVisibility `json:"visibility"`
	RegistrationActive bool                   `json:"registration_active"`
	PublicKey          string                 `json:"public_key"`
	PrivateKey         string                 `json:"private_key"`
	CreatedAt          time.Time              `json:"created_at"`
}

// PublicTicketDTO is the id+name pair shown on the public registration form.
type PublicTicketDTO struct {
	ID    uuid.UUID       `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// ToDTO maps a Ticket row onto the host projection.
func ToDTO(ticket *models.Ticket) *TicketDTO {
	if ticket == nil {
		return nil
	}
	return &TicketDTO{
		ID:                 ticket.ID,
		EventID:            ticket.EventID,
		Name:               ticket.Name,
		Description:        ticket.Description,
		Price:              ticket.Price,
		MaxQuantity:        ticket.MaxQuantity,
		SoldCount:          ticket.SoldCount,
		Visibility:         ticket.Visibility,
		RegistrationActive: ticket.RegistrationActive,
		PublicKey:          ticket.PublicKey,
		PrivateKey:         ticket.PrivateKey,
		CreatedAt:          ticket.CreatedAt,
	}
}

// ToPublicDTO maps a Ticket row onto the public registration projection.
func ToPublicDTO(ticket *models.Ticket) *PublicTicketDTO {
	if ticket == nil {
		return nil
	}
	return &PublicTicketDTO{
		ID:    ticket.ID,
		Name:  ticket.Name,
		Price: ticket.Price,
	}
}
