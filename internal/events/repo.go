package events

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avaldez-dev/gatepass-backend/pkg/db/models"
)

// Repository handles event persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to event operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new event row.
func (r *Repository) Create(ctx context.Context, event *models.Event) error {
	if event == nil {
		return fmt.Errorf("event is required")
	}
	return r.db.WithContext(ctx).Create(event).Error
}

// FindByID loads an event by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	var event models.Event
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// FindByPublicKey loads an event by its public capability key.
func (r *Repository) FindByPublicKey(ctx context.Context, key string) (*models.Event, error) {
	var event models.Event
	if err := r.db.WithContext(ctx).Where("public_key = ?", key).First(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// ListByHost returns all events owned by the provided host, newest first.
func (r *Repository) ListByHost(ctx context.Context, hostID uuid.UUID) ([]models.Event, error) {
	var rows []models.Event
	if err := r.db.WithContext(ctx).
		Where("host_id = ?", hostID).
		Order("start_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Update saves the provided event.
func (r *Repository) Update(ctx context.Context, event *models.Event) error {
	if event == nil {
		return fmt.Errorf("event is required")
	}
	return r.db.WithContext(ctx).Save(event).Error
}

// Delete removes the event; tickets and guests cascade at the DB level.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Event{}, "id = ?", id).Error
}
