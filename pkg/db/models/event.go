package models

import (
	"time"

	"github.com/google/uuid"
)

// Event represents a host-owned event. Deleting an event cascades to its
// tickets and guests at the database level.
type Event struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	HostID      uuid.UUID `gorm:"column:host_id;type:uuid;not null;index"`
	Name        string    `gorm:"column:name;not null"`
	Description string    `gorm:"column:description;not null;default:''"`
	Location    string    `gorm:"column:location;not null;default:''"`
	StartAt     time.Time `gorm:"column:start_at;not null"`
	EndAt       time.Time `gorm:"column:end_at;not null"`
	ImageURL    *string   `gorm:"column:image_url"`
	PublicKey   string    `gorm:"column:public_key;not null;uniqueIndex"`
	PrivateKey  string    `gorm:"column:private_key;not null;uniqueIndex"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
