package guests

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avaldez-dev/gatepass-backend/pkg/db/models"
	"github.com/avaldez-dev/gatepass-backend/pkg/enums"
	"github.com/avaldez-dev/gatepass-backend/pkg/pagination"
)

// Repository handles guest persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to guest operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new guest row.
func (r *Repository) Create(ctx context.Context, guest *models.Guest) error {
	if guest == nil {
		return fmt.Errorf("guest is required")
	}
	return r.db.WithContext(ctx).Create(guest).Error
}

// CreateTx persists a guest inside the provided transaction. Registration
// uses this so the capacity check and the insert commit together.
func (r *Repository) CreateTx(tx *gorm.DB, guest *models.Guest) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	if guest == nil {
		return fmt.Errorf("guest is required")
	}
	return tx.Create(guest).Error
}

// FindByID loads a guest by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Guest, error) {
	var guest models.Guest
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&guest).Error; err != nil {
		return nil, err
	}
	return &guest, nil
}

// FindByPrivateKey loads a guest through its private link key.
func (r *Repository) FindByPrivateKey(ctx context.Context, key string) (*models.Guest, error) {
	var guest models.Guest
	if err := r.db.WithContext(ctx).Where("private_key = ?", key).First(&guest).Error; err != nil {
		return nil, err
	}
	return &guest, nil
}

// FindForEventByPublicKey loads a guest by its scannable key, scoped to the
// event so a key from one event cannot clear the door at another.
func (r *Repository) FindForEventByPublicKey(ctx context.Context, eventID uuid.UUID, key string) (*models.Guest, error) {
	var guest models.Guest
	if err := r.db.WithContext(ctx).
		Where("event_id = ? AND public_key = ?", eventID, key).
		First(&guest).Error; err != nil {
		return nil, err
	}
	return &guest, nil
}

// List returns a host's guests filtered and cursor paginated, newest first.
// Callers scope the filter to their own events before reaching the repo.
func (r *Repository) List(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.Guest, error) {
	query := r.db.WithContext(ctx).Model(&models.Guest{})

	if filter.EventID != nil {
		query = query.Where("event_id = ?", *filter.EventID)
	}
	if filter.TicketID != nil {
		query = query.Where("ticket_id = ?", *filter.TicketID)
	}
	if filter.Name != "" {
		like := "%" + strings.ToLower(filter.Name) + "%"
		query = query.Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?", like, like)
	}
	if filter.Email != "" {
		query = query.Where("LOWER(email) LIKE ?", "%"+strings.ToLower(filter.Email)+"%")
	}
	if filter.Phone != "" {
		query = query.Where("phone_number LIKE ?", "%"+filter.Phone+"%")
	}
	if filter.Attended != nil {
		if *filter.Attended {
			query = query.Where("used_quantity > 0")
		} else {
			query = query.Where("used_quantity = 0")
		}
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.Guest
	if err := query.
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Update saves the provided guest.
func (r *Repository) Update(ctx context.Context, guest *models.Guest) error {
	if guest == nil {
		return fmt.Errorf("guest is required")
	}
	return r.db.WithContext(ctx).Save(guest).Error
}

// UpdateStatusTx flips the guest status inside the provided transaction.
// Refund fulfillment pairs this with the refund receipt insert.
func (r *Repository) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status enums.GuestStatus) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	return tx.Model(&models.Guest{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// RecordScan bumps used_quantity and stamps the scan time.
func (r *Repository) RecordScan(ctx context.Context, id uuid.UUID, scannedAt time.Time) error {
	return r.db.WithContext(ctx).Model(&models.Guest{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"used_quantity":  gorm.Expr("used_quantity + 1"),
			"scan_timestamp": scannedAt,
		}).Error
}

// Delete removes the guest row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Guest{}, "id = ?", id).Error
}
