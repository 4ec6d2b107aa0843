package receipts

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avaldez-dev/gatepass-backend/pkg/db/models"
	pkgerrors "github.com/avaldez-dev/gatepass-backend/pkg/errors"
	"github.com/avaldez-dev/gatepass-backend/pkg/pagination"
)

type receiptRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.TicketReceipt, error)
	ListByHost(ctx context.Context, hostID uuid.UUID, params pagination.Params) ([]models.TicketReceipt, error)
	ListRefundsByReceipt(ctx context.Context, receiptID uuid.UUID) ([]models.RefundReceipt, error)
	ListDonationsByHost(ctx context.Context, hostID uuid.UUID, params pagination.Params) ([]models.DonationReceipt, error)
	ListAll(ctx context.Context, params pagination.Params) ([]models.TicketReceipt, error)
}

// Service exposes host-scoped receipt reads. ListAll spans every host and is
// only reachable through the superuser surface.
type Service interface {
	GetForHost(ctx context.Context, hostID, receiptID uuid.UUID) (*TicketReceiptDTO, error)
	ListForHost(ctx context.Context, hostID uuid.UUID, params pagination.Params) ([]TicketReceiptDTO, string, error)
	ListDonationsForHost(ctx context.Context, hostID uuid.UUID, params pagination.Params) ([]DonationReceiptDTO, string, error)
	ListAll(ctx context.Context, params pagination.Params) ([]TicketReceiptDTO, string, error)
}

type service struct {
	repo receiptRepository
}

// NewService builds the receipt read service.
func NewService(repo receiptRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("receipt repository required")
	}
	return &service{repo: repo}, nil
}

// GetForHost returns a receipt with its refund history attached.
func (s *service) GetForHost(ctx context.Context, hostID, receiptID uuid.UUID) (*TicketReceiptDTO, error) {
	receipt, err := s.repo.FindByID(ctx, receiptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "receipt not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load receipt")
	}
	if receipt.HostID != hostID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "receipt belongs to another host")
	}

	refunds, err := s.repo.ListRefundsByReceipt(ctx, receipt.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list refunds")
	}

	dto := ToDTO(receipt)
	dto.Refunds = make([]RefundReceiptDTO, 0, len(refunds))
	for i := range refunds {
		dto.Refunds = append(dto.Refunds, *ToRefundDTO(&refunds[i]))
	}
	return dto, nil
}

func (s *service) ListForHost(ctx context.Context, hostID uuid.UUID, params pagination.Params) ([]TicketReceiptDTO, string, error) {
	rows, err := s.repo.ListByHost(ctx, hostID, params)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list receipts")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	next := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	dtos := make([]TicketReceiptDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *ToDTO(&rows[i]))
	}
	return dtos, next, nil
}

func (s *service) ListAll(ctx context.Context, params pagination.Params) ([]TicketReceiptDTO, string, error) {
	rows, err := s.repo.ListAll(ctx, params)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list all receipts")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	next := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	dtos := make([]TicketReceiptDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *ToDTO(&rows[i]))
	}
	return dtos, next, nil
}

func (s *service) ListDonationsForHost(ctx context.Context, hostID uuid.UUID, params pagination.Params) ([]DonationReceiptDTO, string, error) {
	rows, err := s.repo.ListDonationsByHost(ctx, hostID, params)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list donations")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	next := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	dtos := make([]DonationReceiptDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *ToDonationDTO(&rows[i]))
	}
	return dtos, next, nil
}
