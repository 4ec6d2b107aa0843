package models

import (
	"time"

	"github.com/google/uuid"
)

// Host represents an event organizer account.
type Host struct {
	ID              uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email           string     `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash    string     `gorm:"column:password_hash;not null"`
	FirstName       string     `gorm:"column:first_name;not null"`
	LastName        string     `gorm:"column:last_name;not null"`
	Phone           *string    `gorm:"column:phone"`
	StripeAccountID *string    `gorm:"column:stripe_account_id"`
	IsActive        bool       `gorm:"column:is_active;not null;default:true"`
	IsSuperuser     bool       `gorm:"column:is_superuser;not null;default:false"`
	LastLoginAt     *time.Time `gorm:"column:last_login_at"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
