package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DonationReceipt records a fulfilled donation checkout.
type DonationReceipt struct {
	ID                  uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	EventID             uuid.UUID       `gorm:"column:event_id;type:uuid;not null;index"`
	HostID              uuid.UUID       `gorm:"column:host_id;type:uuid;not null;index"`
	FirstName           string          `gorm:"column:first_name;not null"`
	LastName            string          `gorm:"column:last_name;not null"`
	Email               string          `gorm:"column:email;not null"`
	PhoneNumber         string          `gorm:"column:phone_number;not null;default:''"`
	TotalPrice          decimal.Decimal `gorm:"column:total_price;type:numeric(12,2);not null"`
	TotalFee            decimal.Decimal `gorm:"column:total_fee;type:numeric(12,2);not null"`
	TotalPaid           decimal.Decimal `gorm:"column:total_paid;type:numeric(12,2);not null"`
	StripeAccountID     string          `gorm:"column:stripe_account_id;not null"`
	StripeTransactionID string          `gorm:"column:stripe_transaction_id;not null;uniqueIndex"`
	CreatedAt           time.Time       `gorm:"column:created_at;autoCreateTime"`
}
