package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/avaldez-dev/gatepass-backend/pkg/enums"
)

// Ticket represents a purchasable or free admission tier for an event.
// MaxQuantity nil means unlimited capacity.
type Ticket struct {
	ID                 uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	EventID            uuid.UUID              `gorm:"column:event_id;type:uuid;not null;index"`
	Name               string                 `gorm:"column:name;not null"`
	Description        string                 `gorm:"column:description;not null;default:''"`
	Price              decimal.Decimal        `gorm:"column:price;type:numeric(12,2);not null;default:0"`
	MaxQuantity        *int                   `gorm:"column:max_quantity"`
	SoldCount          int                    `gorm:"column:sold_count;not null;default:0"`
	Visibility         enums.TicketVisibility `gorm:"column:visibility;type:ticket_visibility_enum;not null;default:'public'"`
	RegistrationActive bool                   `gorm:"column:registration_active;not null;default:true"`
	PublicKey          string                 `gorm:"column:public_key;not null;uniqueIndex"`
	PrivateKey         string                 `gorm:"column:private_key;not null;uniqueIndex"`
	CreatedAt          time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
