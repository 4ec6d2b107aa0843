package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/avaldez-dev/gatepass-backend/api/responses"
	"github.com/avaldez-dev/gatepass-backend/api/validators"
	"github.com/avaldez-dev/gatepass-backend/internal/guests"
	pkgerrors "github.com/avaldez-dev/gatepass-backend/pkg/errors"
	"github.com/avaldez-dev/gatepass-backend/pkg/logger"
	"github.com/avaldez-dev/gatepass-backend/pkg/pagination"
)

type createGuestRequest struct {
	EventID     uuid.UUID `json:"event_id" validate:"required"`
	TicketID    uuid.UUID `json:"ticket_id" validate:"required"`
	FirstName   string    `json:"first_name" validate:"required,max=100"`
	LastName    string    `json:"last_name" validate:"required,max=100"`
	Email       string    `json:"email" validate:"required,email"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	Quantity    int       `json:"quantity" validate:"required,gt=0"`
}

type updateGuestRequest struct {
	FirstName   *string `json:"first_name,omitempty" validate:"omitempty,max=100"`
	LastName    *string `json:"last_name,omitempty" validate:"omitempty,max=100"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
	PhoneNumber *string `json:"phone_number,omitempty"`
}

type validateGuestRequest struct {
	EventID  uuid.UUID `json:"event_id" validate:"required"`
	GuestKey string    `json:"guest_key" validate:"required"`
}

// GuestCreate issues a comp guest from the host console.
func GuestCreate(svc guests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hostID, err := hostIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createGuestRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.CreateForHost(r.Context(), hostID, body.EventID, body.TicketID, guests.CreateGuestInput{
			FirstName:   body.FirstName,
			LastName:    body.LastName,
			Email:       body.Email,
			PhoneNumber: body.PhoneNumber,
			Quantity:    body.Quantity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// GuestList pages through a host's guests with the console filters.
func GuestList(svc guests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hostID, err := hostIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		eventID, err := validators.ParseQueryUUID(r, "event_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ticketID, err := validators.ParseQueryUUID(r, "ticket_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		attended, err := validators.ParseQueryBool(r, "attended")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filter := guests.ListFilter{
			EventID:  eventID,
			TicketID: ticketID,
			Name:     validators.SanitizeString(r.URL.Query().Get("name"), 200),
			Email:    validators.SanitizeString(r.URL.Query().Get("email"), 200),
			Phone:    validators.SanitizeString(r.URL.Query().Get("phone"), 50),
			Attended: attended,
		}
		params := pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}

		dtos, next, err := svc.ListForHost(r.Context(), hostID, filter, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"guests": dtos, "next_cursor": next})
	}
}

func GuestGet(svc guests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hostID, err := hostIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		guestID, err := pathUUID(r, "guestID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.GetForHost(r.Context(), hostID, guestID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func GuestUpdate(svc guests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hostID, err := hostIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		guestID, err := pathUUID(r, "guestID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateGuestRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Update(r.Context(), hostID, guestID, guests.UpdateGuestInput{
			FirstName:   body.FirstName,
			LastName:    body.LastName,
			Email:       body.Email,
			PhoneNumber: body.PhoneNumber,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func GuestDelete(svc guests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hostID, err := hostIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		guestID, err := pathUUID(r, "guestID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), hostID, guestID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// GuestValidate processes a door scan against the guest's public key.
func GuestValidate(svc guests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hostID, err := hostIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body validateGuestRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Validate(r.Context(), hostID, body.EventID, body.GuestKey)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// PublicGuestLookup renders the guest's own ticket page from the link keys.
func PublicGuestLookup(svc guests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventKey := chi.URLParam(r, "eventKey")
		guestKey := chi.URLParam(r, "guestKey")
		if eventKey == "" || guestKey == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "ticket not found"))
			return
		}

		view, err := svc.Lookup(r.Context(), eventKey, guestKey)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}
