package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v84"
	"gorm.io/gorm"

	"github.com/avaldez-dev/gatepass-backend/pkg/db/models"
	pkgerrors "github.com/avaldez-dev/gatepass-backend/pkg/errors"
)

type refundReceiptRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.TicketReceipt, error)
	ListRefundsByReceipt(ctx context.Context, receiptID uuid.UUID) ([]models.RefundReceipt, error)
}

// RefundService initiates Stripe refunds against ticket receipts. The local
// refund record is written later, when the refund webhook confirms it.
type RefundService interface {
	Refund(ctx context.Context, hostID, receiptID uuid.UUID, amount decimal.Decimal) (int64, error)
}

type refundService struct {
	client   PaymentClient
	receipts refundReceiptRepository
}

// NewRefundService builds the refund initiator.
func NewRefundService(client PaymentClient, receipts refundReceiptRepository) (RefundService, error) {
	if client == nil {
		return nil, fmt.Errorf("payment client required")
	}
	if receipts == nil {
		return nil, fmt.Errorf("receipt repository required")
	}
	return &refundService{client: client, receipts: receipts}, nil
}

// Refund returns the refunded amount in cents. The transfer to the host is
// reversed so the platform is not left covering the refund.
func (s *refundService) Refund(ctx context.Context, hostID, receiptID uuid.UUID, amount decimal.Decimal) (int64, error) {
	receipt, err := s.receipts.FindByID(ctx, receiptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, pkgerrors.New(pkgerrors.CodeNotFound, "receipt not found")
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load receipt")
	}
	if receipt.HostID != hostID {
		return 0, pkgerrors.New(pkgerrors.CodeForbidden, "receipt belongs to another host")
	}
	if !amount.IsPositive() {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "refund amount must be greater than zero")
	}
	if amount.GreaterThan(receipt.TotalPaid) {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "refund amount exceeds the total paid")
	}

	// The bound is cumulative across prior refunds, not per request.
	prior, err := s.receipts.ListRefundsByReceipt(ctx, receipt.ID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list refunds")
	}
	refunded := decimal.Zero
	for i := range prior {
		refunded = refunded.Add(prior[i].Amount)
	}
	if refunded.Add(amount).GreaterThan(receipt.TotalPaid) {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "refund amount exceeds the remaining refundable balance")
	}

	refundCents := Cents(amount)
	params := &stripe.RefundParams{
		PaymentIntent:   stripe.String(receipt.StripeTransactionID),
		Amount:          stripe.Int64(refundCents),
		ReverseTransfer: stripe.Bool(true),
	}
	params.AddMetadata(MetaReceiptID, receipt.ID.String())

	if _, err := s.client.CreateRefund(ctx, params); err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create refund")
	}
	return refundCents, nil
}
