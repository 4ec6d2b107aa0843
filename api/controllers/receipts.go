package controllers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/avaldez-dev/gatepass-backend/api/middleware"
	"github.com/avaldez-dev/gatepass-backend/api/responses"
	"github.com/avaldez-dev/gatepass-backend/api/validators"
	"github.com/avaldez-dev/gatepass-backend/internal/payments"
	"github.com/avaldez-dev/gatepass-backend/internal/receipts"
	pkgerrors "github.com/avaldez-dev/gatepass-backend/pkg/errors"
	"github.com/avaldez-dev/gatepass-backend/pkg/logger"
	"github.com/avaldez-dev/gatepass-backend/pkg/pagination"
)

type refundRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func paginationFromQuery(r *http.Request) (pagination.Params, error) {
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{
		Limit:  limit,
		Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
	}, nil
}

func ReceiptList(svc receipts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hostID, err := hostIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params, err := paginationFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dtos, next, err := svc.ListForHost(r.Context(), hostID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"receipts": dtos, "next_cursor": next})
	}
}

func ReceiptGet(svc receipts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hostID, err := hostIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		receiptID, err := pathUUID(r, "receiptID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.GetForHost(r.Context(), hostID, receiptID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// ReceiptListAll spans every host and is gated on the superuser claim.
func ReceiptListAll(svc receipts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !middleware.IsSuperuserFromContext(r.Context()) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "superuser required"))
			return
		}
		params, err := paginationFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dtos, next, err := svc.ListAll(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"receipts": dtos, "next_cursor": next})
	}
}

// ReceiptRefund asks Stripe to refund part or all of a receipt. The local
// refund record lands when the refund webhook confirms it.
func ReceiptRefund(svc payments.RefundService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hostID, err := hostIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		receiptID, err := pathUUID(r, "receiptID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body refundRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		refundedCents, err := svc.Refund(r.Context(), hostID, receiptID, body.Amount)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"status":         "refund_initiated",
			"refunded_cents": refundedCents,
		})
	}
}

func DonationList(svc receipts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hostID, err := hostIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params, err := paginationFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dtos, next, err := svc.ListDonationsForHost(r.Context(), hostID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"donations": dtos, "next_cursor": next})
	}
}
