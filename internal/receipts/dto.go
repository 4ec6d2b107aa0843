package receipts

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/avaldez-dev/gatepass-backend/pkg/db/models"
	"github.com/avaldez-dev/gatepass-backend/pkg/enums"
)

// TicketReceiptDTO is the host-facing projection of a paid registration.
type TicketReceiptDTO struct {
	ID                  uuid.UUID          `json:"id"`
	GuestID             uuid.UUID          `json:"guest_id"`
	EventID             uuid.UUID          `json:"event_id"`
	TicketID            uuid.UUID          `json:"ticket_id"`
	Quantity            int                `json:"quantity"`
	UnitPrice           decimal.Decimal    `json:"unit_price"`
	TotalPrice          decimal.Decimal    `json:"total_price"`
	TotalFee            decimal.Decimal    `json:"total_fee"`
	TotalPaid           decimal.Decimal    `json:"total_paid"`
	Currency            enums.Currency     `json:"currency"`
	StripeTransactionID string             `json:"stripe_transaction_id"`
	Refunds             []RefundReceiptDTO `json:"refunds,omitempty"`
	CreatedAt           time.Time          `json:"created_at"`
}

// RefundReceiptDTO records one confirmed refund against a receipt.
type RefundReceiptDTO struct {
	ID             uuid.UUID       `json:"id"`
	ReceiptID      uuid.UUID       `json:"receipt_id"`
	Amount         decimal.Decimal `json:"amount"`
	StripeRefundID string          `json:"stripe_refund_id"`
	CreatedAt      time.Time       `json:"created_at"`
}

// DonationReceiptDTO is the host-facing projection of a fulfilled donation.
type DonationReceiptDTO struct {
	ID         uuid.UUID       `json:"id"`
	EventID    uuid.UUID       `json:"event_id"`
	FirstName  string          `json:"first_name"`
	LastName   string          `json:"last_name"`
	Email      string          `json:"email"`
	TotalPrice decimal.Decimal `json:"total_price"`
	TotalFee   decimal.Decimal `json:"total_fee"`
	TotalPaid  decimal.Decimal `json:"total_paid"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ToDTO maps a TicketReceipt row onto the host projection.
func ToDTO(receipt *models.TicketReceipt) *TicketReceiptDTO {
	if receipt == nil {
		return nil
	}
	return &TicketReceiptDTO{
		ID:                  receipt.ID,
		GuestID:             receipt.GuestID,
		EventID:             receipt.EventID,
		TicketID:            receipt.TicketID,
		Quantity:            receipt.Quantity,
		UnitPrice:           receipt.UnitPrice,
		TotalPrice:          receipt.TotalPrice,
		TotalFee:            receipt.TotalFee,
		TotalPaid:           receipt.TotalPaid,
		Currency:            receipt.Currency,
		StripeTransactionID: receipt.StripeTransactionID,
		CreatedAt:           receipt.CreatedAt,
	}
}

// ToRefundDTO maps a RefundReceipt row onto its projection.
func ToRefundDTO(refund *models.RefundReceipt) *RefundReceiptDTO {
	if refund == nil {
		return nil
	}
	return &RefundReceiptDTO{
		ID:             refund.ID,
		ReceiptID:      refund.ReceiptID,
		Amount:         refund.Amount,
		StripeRefundID: refund.StripeRefundID,
		CreatedAt:      refund.CreatedAt,
	}
}

// ToDonationDTO maps a DonationReceipt row onto its projection.
func ToDonationDTO(donation *models.DonationReceipt) *DonationReceiptDTO {
	if donation == nil {
		return nil
	}
	return &DonationReceiptDTO{
		ID:         donation.ID,
		EventID:    donation.EventID,
		FirstName:  donation.FirstName,
		LastName:   donation.LastName,
		Email:      donation.Email,
		TotalPrice: donation.TotalPrice,
		TotalFee:   donation.TotalFee,
		TotalPaid:  donation.TotalPaid,
		CreatedAt:  donation.CreatedAt,
	}
}
