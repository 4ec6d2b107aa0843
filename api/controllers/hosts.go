package controllers

import (
	"net/http"

	"github.com/avaldez-dev/gatepass-backend/api/responses"
	"github.com/avaldez-dev/gatepass-backend/internal/payments"
	"github.com/avaldez-dev/gatepass-backend/pkg/logger"
)

// StripeAccountCreate ensures the host has a connected express account.
func StripeAccountCreate(svc payments.ConnectService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hostID, err := hostIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		accountID, err := svc.EnsureAccount(r.Context(), hostID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]string{"account_id": accountID})
	}
}

func StripeOnboardingLink(svc payments.ConnectService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hostID, err := hostIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		url, err := svc.OnboardingLink(r.Context(), hostID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"url": url})
	}
}

func StripeUpdateLink(svc payments.ConnectService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hostID, err := hostIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		url, err := svc.UpdateLink(r.Context(), hostID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"url": url})
	}
}

// StripeDashboardLink returns an express dashboard login link, falling back
// to onboarding when the account is not yet enabled.
func StripeDashboardLink(svc payments.ConnectService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hostID, err := hostIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		url, err := svc.DashboardLink(r.Context(), hostID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"url": url})
	}
}

func StripeAccountStatus(svc payments.ConnectService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hostID, err := hostIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := svc.AccountStatus(r.Context(), hostID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, status)
	}
}
