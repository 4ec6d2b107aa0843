package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/avaldez-dev/gatepass-backend/pkg/errors"
	"github.com/avaldez-dev/gatepass-backend/pkg/types"
)

func TestWriteSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccess(rec, map[string]string{"status": "ok"})

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var envelope types.SuccessEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	data, ok := envelope.Data.(map[string]any)
	if !ok || data["status"] != "ok" {
		t.Fatalf("unexpected envelope data %v", envelope.Data)
	}
}

func TestWriteErrorMapsTypedCodes(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{
			name:       "validation surfaces message",
			err:        pkgerrors.New(pkgerrors.CodeValidation, "first name is required"),
			wantStatus: 400,
			wantCode:   "VALIDATION",
			wantMsg:    "first name is required",
		},
		{
			name:       "not found surfaces message",
			err:        pkgerrors.New(pkgerrors.CodeNotFound, "ticket not found"),
			wantStatus: 404,
			wantCode:   "NOT_FOUND",
			wantMsg:    "ticket not found",
		},
		{
			name:       "registration full",
			err:        pkgerrors.New(pkgerrors.CodeRegistrationFull, "not enough tickets remaining"),
			wantStatus: 409,
			wantCode:   "REGISTRATION_FULL",
			wantMsg:    "not enough tickets remaining",
		},
		{
			name:       "internal hides message",
			err:        pkgerrors.New(pkgerrors.CodeInternal, "pg connection refused"),
			wantStatus: 500,
			wantCode:   "INTERNAL",
			wantMsg:    pkgerrors.MetadataFor(pkgerrors.CodeInternal).PublicMessage,
		},
		{
			name:       "untyped error treated as internal",
			err:        errors.New("boom"),
			wantStatus: 500,
			wantCode:   "INTERNAL",
			wantMsg:    pkgerrors.MetadataFor(pkgerrors.CodeInternal).PublicMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(context.Background(), nil, rec, tt.err)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			var envelope types.ErrorEnvelope
			if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if envelope.Error.Code != tt.wantCode {
				t.Fatalf("expected code %s, got %s", tt.wantCode, envelope.Error.Code)
			}
			if envelope.Error.Message != tt.wantMsg {
				t.Fatalf("expected message %q, got %q", tt.wantMsg, envelope.Error.Message)
			}
		})
	}
}

func TestWriteErrorDetailsOnlyWhenAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
		WithDetails(map[string]string{"email": "must be a valid email"})
	WriteError(context.Background(), nil, rec, err)

	var envelope types.ErrorEnvelope
	if decErr := json.Unmarshal(rec.Body.Bytes(), &envelope); decErr != nil {
		t.Fatalf("decode body: %v", decErr)
	}
	if envelope.Error.Details == nil {
		t.Fatal("expected validation details to pass through")
	}

	rec = httptest.NewRecorder()
	err = pkgerrors.New(pkgerrors.CodeForbidden, "nope").WithDetails(map[string]string{"leak": "secret"})
	WriteError(context.Background(), nil, rec, err)
	if decErr := json.Unmarshal(rec.Body.Bytes(), &envelope); decErr != nil {
		t.Fatalf("decode body: %v", decErr)
	}
	if envelope.Error.Details != nil {
		t.Fatal("forbidden errors must not leak details")
	}
}
