package payments

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/avaldez-dev/gatepass-backend/pkg/db/models"
	pkgerrors "github.com/avaldez-dev/gatepass-backend/pkg/errors"
)

type stubReceiptFinder struct {
	receipt *models.TicketReceipt
	refunds []models.RefundReceipt
}

func (s *stubReceiptFinder) FindByID(_ context.Context, id uuid.UUID) (*models.TicketReceipt, error) {
	if s.receipt != nil && s.receipt.ID == id {
		return s.receipt, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubReceiptFinder) ListRefundsByReceipt(_ context.Context, _ uuid.UUID) ([]models.RefundReceipt, error) {
	return s.refunds, nil
}

func refundFixture(t *testing.T) (RefundService, *stubPaymentClient, *models.TicketReceipt) {
	t.Helper()

	hostID := uuid.New()
	receipt := &models.TicketReceipt{
		ID:                  uuid.New(),
		HostID:              hostID,
		TotalPaid:           decimal.RequireFromString("85.00"),
		StripeTransactionID: "pi_123",
	}
	client := &stubPaymentClient{}
	svc, err := NewRefundService(client, &stubReceiptFinder{receipt: receipt})
	if err != nil {
		t.Fatalf("NewRefundService failed: %v", err)
	}
	return svc, client, receipt
}

func TestRefundReversesTransfer(t *testing.T) {
	svc, client, receipt := refundFixture(t)

	cents, err := svc.Refund(context.Background(), receipt.HostID, receipt.ID, decimal.RequireFromString("25.00"))
	if err != nil {
		t.Fatalf("refund failed: %v", err)
	}
	if cents != 2500 {
		t.Fatalf("expected 2500 cents, got %d", cents)
	}

	params := client.refundParams
	if *params.PaymentIntent != "pi_123" {
		t.Fatalf("unexpected payment intent %q", *params.PaymentIntent)
	}
	if !*params.ReverseTransfer {
		t.Fatal("expected reverse_transfer")
	}
	if params.Metadata[MetaReceiptID] != receipt.ID.String() {
		t.Fatalf("expected receipt id metadata, got %v", params.Metadata)
	}
}

func TestRefundValidation(t *testing.T) {
	svc, _, receipt := refundFixture(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		hostID uuid.UUID
		id     uuid.UUID
		amount string
		code   pkgerrors.Code
	}{
		{"foreign host", uuid.New(), receipt.ID, "10.00", pkgerrors.CodeForbidden},
		{"unknown receipt", receipt.HostID, uuid.New(), "10.00", pkgerrors.CodeNotFound},
		{"zero amount", receipt.HostID, receipt.ID, "0", pkgerrors.CodeValidation},
		{"negative amount", receipt.HostID, receipt.ID, "-5.00", pkgerrors.CodeValidation},
		{"over total paid", receipt.HostID, receipt.ID, "85.01", pkgerrors.CodeValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Refund(ctx, tc.hostID, tc.id, decimal.RequireFromString(tc.amount))
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != tc.code {
				t.Fatalf("expected %s, got %v", tc.code, err)
			}
		})
	}

	if _, err := svc.Refund(ctx, receipt.HostID, receipt.ID, decimal.RequireFromString("85.00")); err != nil {
		t.Fatalf("full refund should be allowed: %v", err)
	}
}

func TestRefundBoundIsCumulative(t *testing.T) {
	hostID := uuid.New()
	receipt := &models.TicketReceipt{
		ID:                  uuid.New(),
		HostID:              hostID,
		TotalPaid:           decimal.RequireFromString("85.00"),
		StripeTransactionID: "pi_123",
	}
	finder := &stubReceiptFinder{
		receipt: receipt,
		refunds: []models.RefundReceipt{
			{ReceiptID: receipt.ID, Amount: decimal.RequireFromString("60.00")},
		},
	}
	svc, err := NewRefundService(&stubPaymentClient{}, finder)
	if err != nil {
		t.Fatalf("NewRefundService failed: %v", err)
	}
	ctx := context.Background()

	_, err = svc.Refund(ctx, hostID, receipt.ID, decimal.RequireFromString("30.00"))
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error past the refundable balance, got %v", err)
	}

	if _, err := svc.Refund(ctx, hostID, receipt.ID, decimal.RequireFromString("25.00")); err != nil {
		t.Fatalf("refund up to the remaining balance should be allowed: %v", err)
	}
}
