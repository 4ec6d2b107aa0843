package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/avaldez-dev/gatepass-backend/api/responses"
	"github.com/avaldez-dev/gatepass-backend/api/validators"
	"github.com/avaldez-dev/gatepass-backend/internal/tickets"
	"github.com/avaldez-dev/gatepass-backend/pkg/enums"
	pkgerrors "github.com/avaldez-dev/gatepass-backend/pkg/errors"
	"github.com/avaldez-dev/gatepass-backend/pkg/logger"
)

type createTicketRequest struct {
	Name               string          `json:"name" validate:"required,max=200"`
	Description        string          `json:"description" validate:"max=2000"`
	Price              decimal.Decimal `json:"price"`
	MaxQuantity        *int            `json:"max_quantity,omitempty" validate:"omitempty,gt=0"`
	Visibility         string          `json:"visibility,omitempty"`
	RegistrationActive *bool           `json:"registration_active,omitempty"`
}

type updateTicketRequest struct {
	Name               *string          `json:"name,omitempty" validate:"omitempty,max=200"`
	Description        *string          `json:"description,omitempty" validate:"omitempty,max=2000"`
	Price              *decimal.Decimal `json:"price,omitempty"`
	MaxQuantity        *int             `json:"max_quantity,omitempty" validate:"omitempty,gt=0"`
	Visibility         *string          `json:"visibility,omitempty"`
	RegistrationActive *bool            `json:"registration_active,omitempty"`
}

func TicketCreate(svc tickets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hostID, err := hostIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		eventID, err := pathUUID(r, "eventID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createTicketRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := tickets.CreateTicketInput{
			Name:               body.Name,
			Description:        body.Description,
			Price:              body.Price,
			MaxQuantity:        body.MaxQuantity,
			RegistrationActive: body.RegistrationActive,
		}
		if body.Visibility != "" {
			visibility, err := enums.ParseTicketVisibility(body.Visibility)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid visibility"))
				return
			}
			input.Visibility = visibility
		}

		dto, err := svc.Create(r.Context(), hostID, eventID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

func TicketListForEvent(svc tickets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hostID, err := hostIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		eventID, err := pathUUID(r, "eventID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dtos, err := svc.ListForEvent(r.Context(), hostID, eventID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dtos)
	}
}

func TicketGet(svc tickets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hostID, err := hostIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ticketID, err := pathUUID(r, "ticketID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.GetForHost(r.Context(), hostID, ticketID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func TicketUpdate(svc tickets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hostID, err := hostIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ticketID, err := pathUUID(r, "ticketID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateTicketRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := tickets.UpdateTicketInput{
			Name:               body.Name,
			Description:        body.Description,
			Price:              body.Price,
			MaxQuantity:        body.MaxQuantity,
			RegistrationActive: body.RegistrationActive,
		}
		if body.Visibility != nil {
			visibility, err := enums.ParseTicketVisibility(*body.Visibility)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid visibility"))
				return
			}
			input.Visibility = &visibility
		}

		dto, err := svc.Update(r.Context(), hostID, ticketID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func TicketDelete(svc tickets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hostID, err := hostIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ticketID, err := pathUUID(r, "ticketID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), hostID, ticketID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// PublicEventTickets lists the visible tickets for the public registration
// form, keyed by the event's public key.
func PublicEventTickets(svc tickets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "publicKey")
		if key == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "event key is required"))
			return
		}

		dtos, err := svc.ListPublicByEventKey(r.Context(), key)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dtos)
	}
}
