package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RefundReceipt records a confirmed Stripe refund against a ticket receipt.
type RefundReceipt struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ReceiptID      uuid.UUID       `gorm:"column:receipt_id;type:uuid;not null;index"`
	Amount         decimal.Decimal `gorm:"column:amount;type:numeric(12,2);not null"`
	StripeRefundID string          `gorm:"column:stripe_refund_id;not null;uniqueIndex"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
}
