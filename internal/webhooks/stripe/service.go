package stripewebhook

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v84"
	"gorm.io/gorm"

	"github.com/avaldez-dev/gatepass-backend/internal/payments"
	dbpkg "github.com/avaldez-dev/gatepass-backend/pkg/db"
	"github.com/avaldez-dev/gatepass-backend/pkg/db/models"
	"github.com/avaldez-dev/gatepass-backend/pkg/enums"
	pkgerrors "github.com/avaldez-dev/gatepass-backend/pkg/errors"
	"github.com/avaldez-dev/gatepass-backend/pkg/keys"
	"github.com/avaldez-dev/gatepass-backend/pkg/logger"
	"github.com/avaldez-dev/gatepass-backend/pkg/outbox"
	"github.com/avaldez-dev/gatepass-backend/pkg/outbox/payloads"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type eventRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
}

type ticketRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Ticket, error)
	IncrementSoldTx(tx *gorm.DB, id uuid.UUID, by int) error
}

type guestRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Guest, error)
	CreateTx(tx *gorm.DB, guest *models.Guest) error
	UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status enums.GuestStatus) error
}

type receiptRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.TicketReceipt, error)
	CreateTicketReceiptTx(tx *gorm.DB, receipt *models.TicketReceipt) error
	CreateRefundReceiptTx(tx *gorm.DB, refund *models.RefundReceipt) error
	RefundedTotalTx(tx *gorm.DB, receiptID uuid.UUID) (decimal.Decimal, error)
	CreateDonationTx(tx *gorm.DB, donation *models.DonationReceipt) error
}

type outboxEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// ServiceParams wires the webhook fulfillment dependencies.
type ServiceParams struct {
	TransactionRunner txRunner
	EventRepo         eventRepository
	TicketRepo        ticketRepository
	GuestRepo         guestRepository
	ReceiptRepo       receiptRepository
	Outbox            outboxEmitter
	Logger            *logger.Logger
}

// Service turns confirmed Stripe events into local records. All writes for
// one event commit in a single transaction, and the unique Stripe ids make
// redelivered events no-ops.
type Service struct {
	txRunner txRunner
	events   eventRepository
	tickets  ticketRepository
	guests   guestRepository
	receipts receiptRepository
	outbox   outboxEmitter
	logg     *logger.Logger
}

func NewService(params ServiceParams) (*Service, error) {
	if params.TransactionRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	if params.EventRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "event repo required")
	}
	if params.TicketRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "ticket repo required")
	}
	if params.GuestRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "guest repo required")
	}
	if params.ReceiptRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "receipt repo required")
	}
	if params.Outbox == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "outbox emitter required")
	}
	return &Service{
		txRunner: params.TransactionRunner,
		events:   params.EventRepo,
		tickets:  params.TicketRepo,
		guests:   params.GuestRepo,
		receipts: params.ReceiptRepo,
		outbox:   params.Outbox,
		logg:     params.Logger,
	}, nil
}

// HandleEvent dispatches a verified Stripe event. Unrecognized event types
// are acknowledged without action.
func (s *Service) HandleEvent(ctx context.Context, event *stripe.Event) error {
	if event == nil || event.Data == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "stripe event data required")
	}

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode checkout session")
		}
		if session.Metadata[payments.MetaType] == enums.PaymentKindDonation.String() {
			return s.fulfillDonation(ctx, &session)
		}
		return s.fulfillTicketPurchase(ctx, &session)
	case stripe.EventTypeChargeRefunded:
		var charge stripe.Charge
		if err := json.Unmarshal(event.Data.Raw, &charge); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode charge")
		}
		return s.recordRefund(ctx, &charge)
	default:
		return nil
	}
}

// fulfillTicketPurchase creates the guest and receipt a completed paid
// checkout promised. The receipt insert goes first so the unique payment
// intent id aborts redeliveries before a second guest appears.
func (s *Service) fulfillTicketPurchase(ctx context.Context, session *stripe.CheckoutSession) error {
	meta := session.Metadata
	eventID, err := metadataUUID(meta, payments.MetaEventID)
	if err != nil {
		return err
	}
	ticketID, err := metadataUUID(meta, payments.MetaTicketID)
	if err != nil {
		return err
	}
	hostID, err := metadataUUID(meta, payments.MetaHostID)
	if err != nil {
		return err
	}
	quantity, err := metadataInt(meta, payments.MetaQuantity)
	if err != nil {
		return err
	}
	unitPrice, err := metadataDecimal(meta, payments.MetaUnitPrice)
	if err != nil {
		return err
	}
	transactionID := paymentIntentID(session)
	if transactionID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "checkout session has no payment intent")
	}

	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load event")
	}
	ticket, err := s.tickets.FindByID(ctx, ticketID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load ticket")
	}

	publicKey, privateKey, err := keys.NewKeyPair()
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate guest keys")
	}

	totalPaid := payments.Dollars(session.AmountTotal)
	totalPrice := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	totalFee := totalPaid.Sub(totalPrice)

	receipt := &models.TicketReceipt{
		EventID:             eventID,
		TicketID:            ticketID,
		HostID:              hostID,
		Quantity:            quantity,
		UnitPrice:           unitPrice,
		TotalPrice:          totalPrice,
		TotalFee:            totalFee,
		TotalPaid:           totalPaid,
		Currency:            enums.CurrencyUSD,
		StripeAccountID:     meta[payments.MetaHostStripeID],
		StripeTransactionID: transactionID,
	}
	guest := &models.Guest{
		EventID:     eventID,
		TicketID:    ticketID,
		FirstName:   meta[payments.MetaGuestFirstName],
		LastName:    meta[payments.MetaGuestLastName],
		Email:       meta[payments.MetaGuestEmail],
		PhoneNumber: meta[payments.MetaGuestPhoneNumber],
		Quantity:    quantity,
		Status:      enums.GuestStatusIssued,
		PublicKey:   publicKey,
		PrivateKey:  privateKey,
	}

	err = s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.guests.CreateTx(tx, guest); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create guest")
		}
		receipt.GuestID = guest.ID
		if err := s.receipts.CreateTicketReceiptTx(tx, receipt); err != nil {
			return err
		}
		if err := s.tickets.IncrementSoldTx(tx, ticketID, quantity); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "increment sold count")
		}
		if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventGuestIssued,
			AggregateType: enums.AggregateGuest,
			AggregateID:   guest.ID,
			Data: payloads.GuestIssued{
				GuestID:    guest.ID,
				EventID:    event.ID,
				TicketID:   ticket.ID,
				EventName:  event.Name,
				TicketName: ticket.Name,
				FirstName:  guest.FirstName,
				LastName:   guest.LastName,
				Email:      guest.Email,
				Quantity:   guest.Quantity,
				EventKey:   event.PublicKey,
				GuestKey:   guest.PrivateKey,
			},
		}); err != nil {
			return err
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventReceiptRecorded,
			AggregateType: enums.AggregateTicketReceipt,
			AggregateID:   receipt.ID,
			Data: payloads.ReceiptRecorded{
				ReceiptID:  receipt.ID,
				GuestID:    guest.ID,
				EventName:  event.Name,
				TicketName: ticket.Name,
				FirstName:  guest.FirstName,
				LastName:   guest.LastName,
				Email:      guest.Email,
				Quantity:   quantity,
				UnitPrice:  unitPrice,
				TotalPaid:  totalPaid,
			},
		})
	})
	if dbpkg.IsUniqueViolation(err, "ux_ticket_receipts_stripe_transaction_id") {
		if s.logg != nil {
			s.logg.Info(s.logg.WithStripeEventID(ctx, transactionID), "duplicate payment delivery ignored")
		}
		return nil
	}
	return err
}

func (s *Service) fulfillDonation(ctx context.Context, session *stripe.CheckoutSession) error {
	meta := session.Metadata
	eventID, err := metadataUUID(meta, payments.MetaEventID)
	if err != nil {
		return err
	}
	hostID, err := metadataUUID(meta, payments.MetaHostID)
	if err != nil {
		return err
	}
	feeCents, err := metadataInt(meta, payments.MetaFee)
	if err != nil {
		return err
	}
	transactionID := paymentIntentID(session)
	if transactionID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "checkout session has no payment intent")
	}

	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load event")
	}

	totalPaid := payments.Dollars(session.AmountTotal)
	totalFee := payments.Dollars(int64(feeCents))
	donation := &models.DonationReceipt{
		EventID:             eventID,
		HostID:              hostID,
		FirstName:           meta[payments.MetaGuestFirstName],
		LastName:            meta[payments.MetaGuestLastName],
		Email:               meta[payments.MetaGuestEmail],
		PhoneNumber:         meta[payments.MetaGuestPhoneNumber],
		TotalPrice:          totalPaid.Sub(totalFee),
		TotalFee:            totalFee,
		TotalPaid:           totalPaid,
		StripeAccountID:     meta[payments.MetaHostStripeID],
		StripeTransactionID: transactionID,
	}

	err = s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.receipts.CreateDonationTx(tx, donation); err != nil {
			return err
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventDonationRecorded,
			AggregateType: enums.AggregateDonationReceipt,
			AggregateID:   donation.ID,
			Data: payloads.DonationRecorded{
				DonationID: donation.ID,
				EventName:  event.Name,
				FirstName:  donation.FirstName,
				LastName:   donation.LastName,
				Email:      donation.Email,
				TotalPaid:  totalPaid,
			},
		})
	})
	if dbpkg.IsUniqueViolation(err, "ux_donation_receipts_stripe_transaction_id") {
		if s.logg != nil {
			s.logg.Info(s.logg.WithStripeEventID(ctx, transactionID), "duplicate donation delivery ignored")
		}
		return nil
	}
	return err
}

// recordRefund writes the refund receipt and flips the guest status. A full
// refund (cumulative) marks the guest refunded, anything less marks them
// partially refunded.
func (s *Service) recordRefund(ctx context.Context, charge *stripe.Charge) error {
	if charge.Refunds == nil || len(charge.Refunds.Data) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "charge carries no refunds")
	}
	refund := charge.Refunds.Data[0]
	receiptID, err := metadataUUID(refund.Metadata, payments.MetaReceiptID)
	if err != nil {
		return err
	}

	receipt, err := s.receipts.FindByID(ctx, receiptID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load receipt")
	}
	guest, err := s.guests.FindByID(ctx, receipt.GuestID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load guest")
	}
	event, err := s.events.FindByID(ctx, receipt.EventID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load event")
	}

	amount := payments.Dollars(refund.Amount)
	row := &models.RefundReceipt{
		ReceiptID:      receipt.ID,
		Amount:         amount,
		StripeRefundID: refund.ID,
	}

	err = s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.receipts.CreateRefundReceiptTx(tx, row); err != nil {
			return err
		}
		refunded, err := s.receipts.RefundedTotalTx(tx, receipt.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum refunds")
		}
		status := enums.GuestStatusPartiallyRefunded
		if refunded.GreaterThanOrEqual(receipt.TotalPaid) {
			status = enums.GuestStatusRefunded
		}
		if err := s.guests.UpdateStatusTx(tx, guest.ID, status); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update guest status")
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventRefundRecorded,
			AggregateType: enums.AggregateRefundReceipt,
			AggregateID:   row.ID,
			Data: payloads.RefundRecorded{
				RefundID:  row.ID,
				ReceiptID: receipt.ID,
				EventName: event.Name,
				FirstName: guest.FirstName,
				LastName:  guest.LastName,
				Email:     guest.Email,
				Amount:    amount,
			},
		})
	})
	if dbpkg.IsUniqueViolation(err, "ux_refund_receipts_stripe_refund_id") {
		if s.logg != nil {
			s.logg.Info(s.logg.WithStripeEventID(ctx, refund.ID), "duplicate refund delivery ignored")
		}
		return nil
	}
	return err
}

func paymentIntentID(session *stripe.CheckoutSession) string {
	if session.PaymentIntent == nil {
		return ""
	}
	return session.PaymentIntent.ID
}

func metadataUUID(meta map[string]string, key string) (uuid.UUID, error) {
	id, err := uuid.Parse(meta[key])
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "metadata "+key+" is not a valid id")
	}
	return id, nil
}

func metadataInt(meta map[string]string, key string) (int, error) {
	value, err := strconv.Atoi(meta[key])
	if err != nil || value <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "metadata "+key+" is not a positive integer")
	}
	return value, nil
}

func metadataDecimal(meta map[string]string, key string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(meta[key])
	if err != nil {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "metadata "+key+" is not a valid amount")
	}
	return value, nil
}
