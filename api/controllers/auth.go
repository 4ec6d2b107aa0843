package controllers

import (
	"net/http"
	"strings"

	"github.com/avaldez-dev/gatepass-backend/api/responses"
	"github.com/avaldez-dev/gatepass-backend/api/validators"
	"github.com/avaldez-dev/gatepass-backend/internal/auth"
	pkgauth "github.com/avaldez-dev/gatepass-backend/pkg/auth"
	"github.com/avaldez-dev/gatepass-backend/pkg/config"
	pkgerrors "github.com/avaldez-dev/gatepass-backend/pkg/errors"
	"github.com/avaldez-dev/gatepass-backend/pkg/logger"
)

type registerRequest struct {
	Email     string  `json:"email" validate:"required,email"`
	FirstName string  `json:"first_name" validate:"required,max=100"`
	LastName  string  `json:"last_name" validate:"required,max=100"`
	Phone     *string `json:"phone,omitempty"`
	Password  string  `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthRegister creates a host account and immediately logs it in.
func AuthRegister(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body registerRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		host, err := svc.Register(r.Context(), auth.RegisterInput{
			Email:     body.Email,
			FirstName: body.FirstName,
			LastName:  body.LastName,
			Phone:     body.Phone,
			Password:  body.Password,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), body.Email, body.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result.Host = host

		w.Header().Set("X-GP-Token", result.AccessToken)
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// AuthLogin mints an access token backed by a Redis session.
func AuthLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body loginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), body.Email, body.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set("X-GP-Token", result.AccessToken)
		responses.WriteSuccess(w, result)
	}
}

// AuthLogout revokes the Redis session behind the presented token. The token
// itself stays valid until expiry, so revocation is the only logout.
func AuthLogout(svc auth.Service, cfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		raw := strings.TrimSpace(r.Header.Get("Authorization"))
		if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
			raw = strings.TrimSpace(raw[7:])
		}
		if raw == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		claims, err := pkgauth.ParseAccessToken(cfg, raw)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
			return
		}

		if err := svc.Logout(r.Context(), claims.ID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}
