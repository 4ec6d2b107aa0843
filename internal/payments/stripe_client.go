package payments

import (
	"context"

	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/account"
	"github.com/stripe/stripe-go/v84/accountlink"
	"github.com/stripe/stripe-go/v84/checkout/session"
	"github.com/stripe/stripe-go/v84/loginlink"
	"github.com/stripe/stripe-go/v84/refund"

	pkgstripe "github.com/avaldez-dev/gatepass-backend/pkg/stripe"
)

// PaymentClient exposes the subset of Stripe operations the payment services
// need, so they can be tested without the network.
type PaymentClient interface {
	CreateCheckoutSession(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	CreateRefund(ctx context.Context, params *stripe.RefundParams) (*stripe.Refund, error)
	CreateAccount(ctx context.Context, params *stripe.AccountParams) (*stripe.Account, error)
	GetAccount(ctx context.Context, id string) (*stripe.Account, error)
	CreateAccountLink(ctx context.Context, params *stripe.AccountLinkParams) (*stripe.AccountLink, error)
	CreateLoginLink(ctx context.Context, params *stripe.LoginLinkParams) (*stripe.LoginLink, error)
}

type stripeClientWrapper struct{}

// NewPaymentClient wraps the initialized Stripe client behind PaymentClient.
func NewPaymentClient(api *pkgstripe.Client) PaymentClient {
	if api == nil {
		return nil
	}
	return &stripeClientWrapper{}
}

func (w *stripeClientWrapper) CreateCheckoutSession(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	if params != nil {
		params.Context = ctx
	}
	return session.New(params)
}

func (w *stripeClientWrapper) CreateRefund(ctx context.Context, params *stripe.RefundParams) (*stripe.Refund, error) {
	if params != nil {
		params.Context = ctx
	}
	return refund.New(params)
}

func (w *stripeClientWrapper) CreateAccount(ctx context.Context, params *stripe.AccountParams) (*stripe.Account, error) {
	if params != nil {
		params.Context = ctx
	}
	return account.New(params)
}

func (w *stripeClientWrapper) GetAccount(ctx context.Context, id string) (*stripe.Account, error) {
	params := &stripe.AccountParams{}
	params.Context = ctx
	return account.GetByID(id, params)
}

func (w *stripeClientWrapper) CreateAccountLink(ctx context.Context, params *stripe.AccountLinkParams) (*stripe.AccountLink, error) {
	if params != nil {
		params.Context = ctx
	}
	return accountlink.New(params)
}

func (w *stripeClientWrapper) CreateLoginLink(ctx context.Context, params *stripe.LoginLinkParams) (*stripe.LoginLink, error) {
	if params != nil {
		params.Context = ctx
	}
	return loginlink.New(params)
}
