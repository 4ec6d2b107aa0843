package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/avaldez-dev/gatepass-backend/pkg/enums"
)

// TicketReceipt is the immutable record of a fulfilled paid registration.
// StripeTransactionID is unique so a redelivered webhook cannot record the
// same payment twice.
type TicketReceipt struct {
	ID                  uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	GuestID             uuid.UUID       `gorm:"column:guest_id;type:uuid;not null;index"`
	EventID             uuid.UUID       `gorm:"column:event_id;type:uuid;not null;index"`
	TicketID            uuid.UUID       `gorm:"column:ticket_id;type:uuid;not null;index"`
	HostID              uuid.UUID       `gorm:"column:host_id;type:uuid;not null;index"`
	Quantity            int             `gorm:"column:quantity;not null"`
	UnitPrice           decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	TotalPrice          decimal.Decimal `gorm:"column:total_price;type:numeric(12,2);not null"`
	TotalFee            decimal.Decimal `gorm:"column:total_fee;type:numeric(12,2);not null"`
	TotalPaid           decimal.Decimal `gorm:"column:total_paid;type:numeric(12,2);not null"`
	Currency            enums.Currency  `gorm:"column:currency;type:text;not null;default:'usd'"`
	StripeAccountID     string          `gorm:"column:stripe_account_id;not null"`
	StripeTransactionID string          `gorm:"column:stripe_transaction_id;not null;uniqueIndex"`
	CreatedAt           time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
