package hosts

import (
	"time"

	"github.com/google/uuid"

	"github.com/avaldez-dev/gatepass-backend/pkg/db/models"
)

// CreateHostDTO captures the fields required to persist a new host.
type CreateHostDTO struct {
	Email        string
	FirstName    string
	LastName     string
	Phone        *string
	PasswordHash string
}

// ToModel maps the DTO onto a Host row.
func (d CreateHostDTO) ToModel() *models.Host {
	return &models.Host{
		Email:        d.Email,
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		Phone:        d.Phone,
		PasswordHash: d.PasswordHash,
		IsActive:     true,
	}
}

// HostDTO is the host projection returned to clients. It never carries the
// password hash.
type HostDTO struct {
	ID              uuid.UUID `json:"id"`
	Email           string    `json:"email"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	Phone           *string   `json:"phone,omitempty"`
	StripeAccountID *string   `json:"stripe_account_id,omitempty"`
	IsActive        bool      `json:"is_active"`
	IsSuperuser     bool      `json:"is_superuser"`
	CreatedAt       time.Time `json:"created_at"`
}

// ToDTO maps a Host row onto the client projection.
func ToDTO(host *models.Host) *HostDTO {
	if host == nil {
		return nil
	}
	return &HostDTO{
		ID:              host.ID,
		Email:           host.Email,
		FirstName:       host.FirstName,
		LastName:        host.LastName,
		Phone:           host.Phone,
		StripeAccountID: host.StripeAccountID,
		IsActive:        host.IsActive,
		IsSuperuser:     host.IsSuperuser,
		CreatedAt:       host.CreatedAt,
	}
}
