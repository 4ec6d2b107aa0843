package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/avaldez-dev/gatepass-backend/api/responses"
	"github.com/avaldez-dev/gatepass-backend/api/validators"
	"github.com/avaldez-dev/gatepass-backend/internal/events"
	pkgerrors "github.com/avaldez-dev/gatepass-backend/pkg/errors"
	"github.com/avaldez-dev/gatepass-backend/pkg/logger"
)

type createEventRequest struct {
	Name        string    `json:"name" validate:"required,max=200"`
	Description string    `json:"description" validate:"max=2000"`
	Location    string    `json:"location" validate:"required,max=300"`
	StartAt     time.Time `json:"start_at" validate:"required"`
	EndAt       time.Time `json:"end_at" validate:"required"`
	ImageURL    *string   `json:"image_url,omitempty"`
}

type updateEventRequest struct {
	Name        *string    `json:"name,omitempty" validate:"omitempty,max=200"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=2000"`
	Location    *string    `json:"location,omitempty" validate:"omitempty,max=300"`
	StartAt     *time.Time `json:"start_at,omitempty"`
	EndAt       *time.Time `json:"end_at,omitempty"`
	ImageURL    *string    `json:"image_url,omitempty"`
}

func EventCreate(svc events.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hostID, err := hostIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createEventRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Create(r.Context(), hostID, events.CreateEventInput{
			Name:        body.Name,
			Description: body.Description,
			Location:    body.Location,
			StartAt:     body.StartAt,
			EndAt:       body.EndAt,
			ImageURL:    body.ImageURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

func EventList(svc events.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hostID, err := hostIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dtos, err := svc.ListForHost(r.Context(), hostID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dtos)
	}
}

func EventGet(svc events.Service, logg *logger.Logger) http.HandlerFunc {
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

		dto, err := svc.GetForHost(r.Context(), hostID, eventID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func EventUpdate(svc events.Service, logg *logger.Logger) http.HandlerFunc {
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

		var body updateEventRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Update(r.Context(), hostID, eventID, events.UpdateEventInput{
			Name:        body.Name,
			Description: body.Description,
			Location:    body.Location,
			StartAt:     body.StartAt,
			EndAt:       body.EndAt,
			ImageURL:    body.ImageURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func EventDelete(svc events.Service, logg *logger.Logger) http.HandlerFunc {
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

		if err := svc.Delete(r.Context(), hostID, eventID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// PublicEventByKey serves the unauthenticated event page projection.
func PublicEventByKey(svc events.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "publicKey")
		if key == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "event key is required"))
			return
		}

		dto, err := svc.GetByPublicKey(r.Context(), key)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}
