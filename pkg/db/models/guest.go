package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/avaldez-dev/gatepass-backend/pkg/enums"
)

// Guest represents an issued admission. UsedQuantity never exceeds Quantity;
// door scans enforce the bound before incrementing.
type Guest struct {
	ID            uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	EventID       uuid.UUID         `gorm:"column:event_id;type:uuid;not null;index"`
	TicketID      uuid.UUID         `gorm:"column:ticket_id;type:uuid;not null;index"`
	FirstName     string            `gorm:"column:first_name;not null"`
	LastName      string            `gorm:"column:last_name;not null"`
	Email         string            `gorm:"column:email;not null;index"`
	PhoneNumber   string            `gorm:"column:phone_number;not null;default:''"`
	Quantity      int               `gorm:"column:quantity;not null;default:1"`
	UsedQuantity  int               `gorm:"column:used_quantity;not null;default:0"`
	Status        enums.GuestStatus `gorm:"column:status;type:guest_status_enum;not null;default:'issued'"`
	ScanTimestamp *time.Time        `gorm:"column:scan_timestamp"`
	PublicKey     string            `gorm:"column:public_key;not null;uniqueIndex"`
	PrivateKey    string            `gorm:"column:private_key;not null;uniqueIndex"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime"`
}
