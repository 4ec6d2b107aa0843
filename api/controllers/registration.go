package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/avaldez-dev/gatepass-backend/api/responses"
	"github.com/avaldez-dev/gatepass-backend/api/validators"
	"github.com/avaldez-dev/gatepass-backend/internal/registration"
	pkgerrors "github.com/avaldez-dev/gatepass-backend/pkg/errors"
	"github.com/avaldez-dev/gatepass-backend/pkg/logger"
)

type registerGuestRequest struct {
	FirstName   string `json:"first_name" validate:"required,max=100"`
	LastName    string `json:"last_name" validate:"required,max=100"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Quantity    int    `json:"quantity" validate:"required,gt=0"`
}

type donateRequest struct {
	FirstName   string          `json:"first_name" validate:"required,max=100"`
	LastName    string          `json:"last_name" validate:"required,max=100"`
	Email       string          `json:"email" validate:"required,email"`
	PhoneNumber string          `json:"phone_number,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
}

// PublicRegister is the registration bridge: free tickets come back as an
// issued guest (201), paid ones as a Stripe Checkout URL (200).
func PublicRegister(svc registration.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventKey := chi.URLParam(r, "publicKey")
		if eventKey == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "event key is required"))
			return
		}
		ticketID, err := pathUUID(r, "ticketID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body registerGuestRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Register(r.Context(), eventKey, ticketID, registration.RegisterInput{
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

		if result.Guest != nil {
			responses.WriteSuccessStatus(w, http.StatusCreated, result)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// PublicDonate returns a Stripe Checkout URL for a one-off donation.
func PublicDonate(svc registration.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "publicKey")
		if key == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "event key is required"))
			return
		}

		var body donateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		url, err := svc.Donate(r.Context(), key, registration.DonateInput{
			FirstName:   body.FirstName,
			LastName:    body.LastName,
			Email:       body.Email,
			PhoneNumber: body.PhoneNumber,
			Amount:      body.Amount,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"checkout_url": url})
	}
}
