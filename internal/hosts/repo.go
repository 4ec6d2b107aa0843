package hosts

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avaldez-dev/gatepass-backend/pkg/db/models"
)

// Repository handles host persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to host operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new host row.
func (r *Repository) Create(ctx context.Context, dto CreateHostDTO) (*models.Host, error) {
	host := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(host).Error; err != nil {
		return nil, err
	}
	return host, nil
}

// FindByID loads a host by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Host, error) {
	var host models.Host
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&host).Error; err != nil {
		return nil, err
	}
	return &host, nil
}

// FindByEmail loads a host by email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.Host, error) {
	var host models.Host
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&host).Error; err != nil {
		return nil, err
	}
	return &host, nil
}

// UpdateStripeAccountID stores the connected account id minted for the host.
func (r *Repository) UpdateStripeAccountID(ctx context.Context, id uuid.UUID, accountID string) error {
	return r.db.WithContext(ctx).Model(&models.Host{}).
		Where("id = ?", id).
		Update("stripe_account_id", accountID).Error
}

// TouchLastLogin stamps the host's last successful login.
func (r *Repository) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.Host{}).
		Where("id = ?", id).
		Update("last_login_at", at).Error
}
