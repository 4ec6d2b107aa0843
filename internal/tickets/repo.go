package tickets

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/avaldez-dev/gatepass-backend/pkg/db/models"
	"github.com/avaldez-dev/gatepass-backend/pkg/enums"
)

// Repository handles ticket persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to ticket operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new ticket row.
func (r *Repository) Create(ctx context.Context, ticket *models.Ticket) error {
	if ticket == nil {
		return fmt.Errorf("ticket is required")
	}
	return r.db.WithContext(ctx).Create(ticket).Error
}

// FindByID loads a ticket by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Ticket, error) {
	var ticket models.Ticket
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&ticket).Error; err != nil {
		return nil, err
	}
	return &ticket, nil
}

// FindByIDForUpdateTx loads and row-locks the ticket inside the provided
// transaction, serializing concurrent capacity checks.
func (r *Repository) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*models.Ticket, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	var ticket models.Ticket
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&ticket).Error; err != nil {
		return nil, err
	}
	return &ticket, nil
}

// ListByEvent returns all tickets for an event.
func (r *Repository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.Ticket, error) {
	var rows []models.Ticket
	if err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListPublicByEvent returns publicly visible, registration-open tickets.
func (r *Repository) ListPublicByEvent(ctx context.Context, eventID uuid.UUID) ([]models.Ticket, error) {
	var rows []models.Ticket
	if err := r.db.WithContext(ctx).
		Where("event_id = ? AND visibility = ? AND registration_active = ?", eventID, enums.TicketVisibilityPublic, true).
		Order("price ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Update saves the provided ticket.
func (r *Repository) Update(ctx context.Context, ticket *models.Ticket) error {
	if ticket == nil {
		return fmt.Errorf("ticket is required")
	}
	return r.db.WithContext(ctx).Save(ticket).Error
}

// IncrementSoldTx bumps sold_count inside the provided transaction.
func (r *Repository) IncrementSoldTx(tx *gorm.DB, id uuid.UUID, by int) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	return tx.Model(&models.Ticket{}).
		Where("id = ?", id).
		Update("sold_count", gorm.Expr("sold_count + ?", by)).Error
}

// Delete removes the ticket; guests cascade at the DB level.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Ticket{}, "id = ?", id).Error
}
