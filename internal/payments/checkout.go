package payments

import (
	"context"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v84"

	"github.com/avaldez-dev/gatepass-backend/pkg/config"
	"github.com/avaldez-dev/gatepass-backend/pkg/db/models"
	"github.com/avaldez-dev/gatepass-backend/pkg/enums"
	pkgerrors "github.com/avaldez-dev/gatepass-backend/pkg/errors"
)

const feeLineItemName = "Taxes & Fees"

// TicketPurchase carries the buyer details for a paid ticket checkout.
type TicketPurchase struct {
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	Quantity    int
}

// Donation carries the donor details and amount for a donation checkout.
type Donation struct {
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	Amount      decimal.Decimal
}

// CheckoutService builds hosted Stripe Checkout sessions. Nothing is written
// locally at checkout time; fulfillment happens when the payment webhook
// confirms the session completed.
type CheckoutService interface {
	TicketCheckoutURL(ctx context.Context, event *models.Event, ticket *models.Ticket, host *models.Host, purchase TicketPurchase) (string, error)
	DonationCheckoutURL(ctx context.Context, event *models.Event, host *models.Host, donation Donation) (string, error)
}

type checkoutService struct {
	client              PaymentClient
	cfg                 config.CheckoutConfig
	statementDescriptor string
}

// NewCheckoutService builds the checkout session builder.
func NewCheckoutService(client PaymentClient, cfg config.CheckoutConfig, statementDescriptor string) (CheckoutService, error) {
	if client == nil {
		return nil, fmt.Errorf("payment client required")
	}
	if cfg.SuccessURL == "" || cfg.CancelURL == "" {
		return nil, fmt.Errorf("checkout success and cancel urls required")
	}
	return &checkoutService{client: client, cfg: cfg, statementDescriptor: statementDescriptor}, nil
}

func (s *checkoutService) TicketCheckoutURL(ctx context.Context, event *models.Event, ticket *models.Ticket, host *models.Host, purchase TicketPurchase) (string, error) {
	accountID, err := connectedAccount(host)
	if err != nil {
		return "", err
	}
	if purchase.Quantity <= 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	unitCents := Cents(ticket.Price)
	feeCents := TicketFeeCents(ticket.Price, purchase.Quantity)

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(fmt.Sprintf("%s?event=%s", s.cfg.SuccessURL, event.PublicKey)),
		CancelURL:  stripe.String(fmt.Sprintf("%s?event=%s", s.cfg.CancelURL, event.PublicKey)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			lineItem(event.Name, ticket.Name, unitCents, int64(purchase.Quantity)),
			lineItem(feeLineItemName, "", feeCents, 1),
		},
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			StatementDescriptor: stripe.String(s.statementDescriptor),
			TransferData: &stripe.CheckoutSessionPaymentIntentDataTransferDataParams{
				Destination: stripe.String(accountID),
				Amount:      stripe.Int64(unitCents * int64(purchase.Quantity)),
			},
		},
	}
	metadata := map[string]string{
		MetaGuestFirstName:   purchase.FirstName,
		MetaGuestLastName:    purchase.LastName,
		MetaGuestEmail:       purchase.Email,
		MetaGuestPhoneNumber: purchase.PhoneNumber,
		MetaEventID:          event.ID.String(),
		MetaTicketID:         ticket.ID.String(),
		MetaQuantity:         strconv.Itoa(purchase.Quantity),
		MetaHostID:           host.ID.String(),
		MetaHostStripeID:     accountID,
		MetaUnitPrice:        ticket.Price.String(),
		MetaType:             enums.PaymentKindTicket.String(),
	}
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	return s.create(ctx, params)
}

func (s *checkoutService) DonationCheckoutURL(ctx context.Context, event *models.Event, host *models.Host, donation Donation) (string, error) {
	accountID, err := connectedAccount(host)
	if err != nil {
		return "", err
	}
	if !donation.Amount.IsPositive() {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "donation amount must be positive")
	}

	amountCents := Cents(donation.Amount)
	feeCents := DonationFeeCents(donation.Amount)

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(fmt.Sprintf("%s?donation=true", s.cfg.SuccessURL)),
		CancelURL:  stripe.String(fmt.Sprintf("%s?donation=true", s.cfg.CancelURL)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			lineItem(event.Name, "Donation", amountCents, 1),
			lineItem(feeLineItemName, "", feeCents, 1),
		},
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			StatementDescriptor: stripe.String(s.statementDescriptor),
			TransferData: &stripe.CheckoutSessionPaymentIntentDataTransferDataParams{
				Destination: stripe.String(accountID),
				Amount:      stripe.Int64(amountCents),
			},
		},
	}
	metadata := map[string]string{
		MetaGuestFirstName:   donation.FirstName,
		MetaGuestLastName:    donation.LastName,
		MetaGuestEmail:       donation.Email,
		MetaGuestPhoneNumber: donation.PhoneNumber,
		MetaEventID:          event.ID.String(),
		MetaHostID:           host.ID.String(),
		MetaHostStripeID:     accountID,
		MetaType:             enums.PaymentKindDonation.String(),
		MetaFee:              strconv.FormatInt(feeCents, 10),
	}
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	return s.create(ctx, params)
}

func (s *checkoutService) create(ctx context.Context, params *stripe.CheckoutSessionParams) (string, error) {
	sess, err := s.client.CreateCheckoutSession(ctx, params)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create checkout session")
	}
	return sess.URL, nil
}

func lineItem(name, description string, unitAmount, quantity int64) *stripe.CheckoutSessionLineItemParams {
	product := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
		Name: stripe.String(name),
	}
	if description != "" {
		product.Description = stripe.String(description)
	}
	return &stripe.CheckoutSessionLineItemParams{
		PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
			Currency:    stripe.String(string(stripe.CurrencyUSD)),
			ProductData: product,
			UnitAmount:  stripe.Int64(unitAmount),
		},
		Quantity: stripe.Int64(quantity),
	}
}

func connectedAccount(host *models.Host) (string, error) {
	if host == nil || host.StripeAccountID == nil || *host.StripeAccountID == "" {
		return "", pkgerrors.New(pkgerrors.CodeStateConflict, "host has no connected payment account")
	}
	return *host.StripeAccountID, nil
}
