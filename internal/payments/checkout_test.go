package payments

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v84"

	"github.com/avaldez-dev/gatepass-backend/pkg/config"
	"github.com/avaldez-dev/gatepass-backend/pkg/db/models"
	pkgerrors "github.com/avaldez-dev/gatepass-backend/pkg/errors"
)

type stubPaymentClient struct {
	sessionParams *stripe.CheckoutSessionParams
	refundParams  *stripe.RefundParams
	accountParams *stripe.AccountParams
	linkParams    *stripe.AccountLinkParams

	sessionURL string
	accountID  string
	linkURL    string
	account    *stripe.Account
	err        error
}

func (s *stubPaymentClient) CreateCheckoutSession(_ context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	s.sessionParams = params
	if s.err != nil {
		return nil, s.err
	}
	return &stripe.CheckoutSession{URL: s.sessionURL}, nil
}

func (s *stubPaymentClient) CreateRefund(_ context.Context, params *stripe.RefundParams) (*stripe.Refund, error) {
	s.refundParams = params
	if s.err != nil {
		return nil, s.err
	}
	return &stripe.Refund{ID: "re_123"}, nil
}

func (s *stubPaymentClient) CreateAccount(_ context.Context, params *stripe.AccountParams) (*stripe.Account, error) {
	s.accountParams = params
	if s.err != nil {
		return nil, s.err
	}
	return &stripe.Account{ID: s.accountID}, nil
}

func (s *stubPaymentClient) GetAccount(_ context.Context, _ string) (*stripe.Account, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.account, nil
}

func (s *stubPaymentClient) CreateAccountLink(_ context.Context, params *stripe.AccountLinkParams) (*stripe.AccountLink, error) {
	s.linkParams = params
	if s.err != nil {
		return nil, s.err
	}
	return &stripe.AccountLink{URL: s.linkURL}, nil
}

func (s *stubPaymentClient) CreateLoginLink(_ context.Context, _ *stripe.LoginLinkParams) (*stripe.LoginLink, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &stripe.LoginLink{URL: s.linkURL}, nil
}

func checkoutFixture(t *testing.T) (CheckoutService, *stubPaymentClient) {
	t.Helper()

	client := &stubPaymentClient{sessionURL: "https://checkout.stripe.com/pay/cs_test_123"}
	svc, err := NewCheckoutService(client, config.CheckoutConfig{
		SuccessURL:    "https://gatepass.events/payments/success",
		CancelURL:     "https://gatepass.events/payments/failure",
		TicketBaseURL: "https://gatepass.events/tickets",
		OnboardingURL: "https://host.gatepass.events",
	}, "GatePass Event Ticket")
	if err != nil {
		t.Fatalf("NewCheckoutService failed: %v", err)
	}
	return svc, client
}

func connectedHost(email string) *models.Host {
	acct := "acct_123"
	return &models.Host{ID: uuid.New(), Email: email, StripeAccountID: &acct}
}

func TestTicketCheckoutURLBuildsSession(t *testing.T) {
	svc, client := checkoutFixture(t)

	event := &models.Event{ID: uuid.New(), Name: "Warehouse Show", PublicKey: "evt-pub"}
	ticket := &models.Ticket{ID: uuid.New(), EventID: event.ID, Name: "GA", Price: decimal.RequireFromString("40.00")}
	host := connectedHost("host@example.com")

	url, err := svc.TicketCheckoutURL(context.Background(), event, ticket, host, TicketPurchase{
		FirstName: "Ada", LastName: "Li", Email: "ada@example.com", PhoneNumber: "5550100", Quantity: 2,
	})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if url != "https://checkout.stripe.com/pay/cs_test_123" {
		t.Fatalf("unexpected url %q", url)
	}

	params := client.sessionParams
	if len(params.LineItems) != 2 {
		t.Fatalf("expected 2 line items, got %d", len(params.LineItems))
	}
	if got := *params.LineItems[0].PriceData.UnitAmount; got != 4000 {
		t.Fatalf("expected unit amount 4000, got %d", got)
	}
	if got := *params.LineItems[1].PriceData.ProductData.Name; got != "Taxes & Fees" {
		t.Fatalf("unexpected fee line name %q", got)
	}
	if got := *params.LineItems[1].PriceData.UnitAmount; got != 400 {
		t.Fatalf("expected fee 400 cents, got %d", got)
	}
	if got := *params.PaymentIntentData.TransferData.Amount; got != 8000 {
		t.Fatalf("transfer must exclude the fee, got %d", got)
	}
	if got := *params.PaymentIntentData.TransferData.Destination; got != "acct_123" {
		t.Fatalf("unexpected destination %q", got)
	}
	if *params.SuccessURL != "https://gatepass.events/payments/success?event=evt-pub" {
		t.Fatalf("unexpected success url %q", *params.SuccessURL)
	}

	meta := params.Metadata
	if meta[MetaType] != "ticket" || meta[MetaQuantity] != "2" || meta[MetaUnitPrice] != "40" {
		t.Fatalf("unexpected metadata %v", meta)
	}
	if meta[MetaEventID] != event.ID.String() || meta[MetaTicketID] != ticket.ID.String() {
		t.Fatalf("metadata ids missing: %v", meta)
	}
}

func TestTicketCheckoutRequiresConnectedAccount(t *testing.T) {
	svc, _ := checkoutFixture(t)

	event := &models.Event{ID: uuid.New(), Name: "Show", PublicKey: "evt-pub"}
	ticket := &models.Ticket{ID: uuid.New(), Price: decimal.RequireFromString("10.00")}
	host := &models.Host{ID: uuid.New(), Email: "host@example.com"}

	_, err := svc.TicketCheckoutURL(context.Background(), event, ticket, host, TicketPurchase{Quantity: 1})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestDonationCheckoutURLBuildsSession(t *testing.T) {
	svc, client := checkoutFixture(t)

	event := &models.Event{ID: uuid.New(), Name: "Fundraiser", PublicKey: "evt-pub"}
	host := connectedHost("host@example.com")

	_, err := svc.DonationCheckoutURL(context.Background(), event, host, Donation{
		FirstName: "Ada", LastName: "Li", Email: "ada@example.com", Amount: decimal.RequireFromString("100.00"),
	})
	if err != nil {
		t.Fatalf("donation checkout failed: %v", err)
	}

	params := client.sessionParams
	if got := *params.LineItems[0].PriceData.UnitAmount; got != 10000 {
		t.Fatalf("expected 10000 cents, got %d", got)
	}
	if got := *params.LineItems[1].PriceData.UnitAmount; got != 350 {
		t.Fatalf("expected 350 cent fee, got %d", got)
	}
	if got := *params.PaymentIntentData.TransferData.Amount; got != 10000 {
		t.Fatalf("transfer must exclude the fee, got %d", got)
	}
	meta := params.Metadata
	if meta[MetaType] != "donation" || meta[MetaFee] != "350" {
		t.Fatalf("unexpected metadata %v", meta)
	}
	if _, ok := meta[MetaTicketID]; ok {
		t.Fatal("donation metadata must not carry a ticket id")
	}

	_, err = svc.DonationCheckoutURL(context.Background(), event, host, Donation{Amount: decimal.Zero})
	if err == nil {
		t.Fatal("expected validation error for zero donation")
	}
}
