package receipts

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/avaldez-dev/gatepass-backend/pkg/db/models"
	"github.com/avaldez-dev/gatepass-backend/pkg/pagination"
)

// Repository handles ticket, refund and donation receipt persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to receipt operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateTicketReceiptTx persists a ticket receipt inside the provided
// transaction, alongside the guest it fulfills.
func (r *Repository) CreateTicketReceiptTx(tx *gorm.DB, receipt *models.TicketReceipt) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	if receipt == nil {
		return fmt.Errorf("receipt is required")
	}
	return tx.Create(receipt).Error
}

// FindByID loads a ticket receipt by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.TicketReceipt, error) {
	var receipt models.TicketReceipt
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&receipt).Error; err != nil {
		return nil, err
	}
	return &receipt, nil
}

// FindByStripeTransactionID loads a ticket receipt by its payment intent id.
func (r *Repository) FindByStripeTransactionID(ctx context.Context, transactionID string) (*models.TicketReceipt, error) {
	var receipt models.TicketReceipt
	if err := r.db.WithContext(ctx).
		Where("stripe_transaction_id = ?", transactionID).
		First(&receipt).Error; err != nil {
		return nil, err
	}
	return &receipt, nil
}

// ListByHost returns a host's ticket receipts, newest first, cursor paginated.
func (r *Repository) ListByHost(ctx context.Context, hostID uuid.UUID, params pagination.Params) ([]models.TicketReceipt, error) {
	query := r.db.WithContext(ctx).Model(&models.TicketReceipt{}).Where("host_id = ?", hostID)

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

	var rows []models.TicketReceipt
	if err := query.
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListAll returns ticket receipts across all hosts, newest first. Reserved
// for the superuser surface.
func (r *Repository) ListAll(ctx context.Context, params pagination.Params) ([]models.TicketReceipt, error) {
	query := r.db.WithContext(ctx).Model(&models.TicketReceipt{})

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

	var rows []models.TicketReceipt
	if err := query.
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CreateRefundReceiptTx persists a refund receipt inside the provided
// transaction, alongside the guest status flip.
func (r *Repository) CreateRefundReceiptTx(tx *gorm.DB, refund *models.RefundReceipt) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	if refund == nil {
		return fmt.Errorf("refund receipt is required")
	}
	return tx.Create(refund).Error
}

// ListRefundsByReceipt returns all refunds recorded against a receipt.
func (r *Repository) ListRefundsByReceipt(ctx context.Context, receiptID uuid.UUID) ([]models.RefundReceipt, error) {
	var rows []models.RefundReceipt
	if err := r.db.WithContext(ctx).
		Where("receipt_id = ?", receiptID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// RefundedTotalTx sums the refunds recorded against a receipt inside the
// provided transaction.
func (r *Repository) RefundedTotalTx(tx *gorm.DB, receiptID uuid.UUID) (decimal.Decimal, error) {
	if tx == nil {
		return decimal.Zero, gorm.ErrInvalidTransaction
	}
	var total decimal.Decimal
	err := tx.Model(&models.RefundReceipt{}).
		Where("receipt_id = ?", receiptID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// CreateDonationTx persists a donation receipt inside the provided transaction.
func (r *Repository) CreateDonationTx(tx *gorm.DB, donation *models.DonationReceipt) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	if donation == nil {
		return fmt.Errorf("donation receipt is required")
	}
	return tx.Create(donation).Error
}

// ListDonationsByHost returns a host's donation receipts, newest first.
func (r *Repository) ListDonationsByHost(ctx context.Context, hostID uuid.UUID, params pagination.Params) ([]models.DonationReceipt, error) {
	query := r.db.WithContext(ctx).Model(&models.DonationReceipt{}).Where("host_id = ?", hostID)

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

	var rows []models.DonationReceipt
	if err := query.
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
