package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"
	"gorm.io/gorm"

	"github.com/avaldez-dev/gatepass-backend/pkg/db/models"
	pkgerrors "github.com/avaldez-dev/gatepass-backend/pkg/errors"
)

type connectHostRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Host, error)
	UpdateStripeAccountID(ctx context.Context, id uuid.UUID, accountID string) error
}

// AccountStatusDTO summarizes whether a host can receive payouts.
type AccountStatusDTO struct {
	AccountID      string `json:"account_id"`
	ChargesEnabled bool   `json:"charges_enabled"`
	PayoutsEnabled bool   `json:"payouts_enabled"`
	Enabled        bool   `json:"enabled"`
}

// ConnectService manages the host's Stripe Express account lifecycle.
type ConnectService interface {
	EnsureAccount(ctx context.Context, hostID uuid.UUID) (string, error)
	OnboardingLink(ctx context.Context, hostID uuid.UUID) (string, error)
	UpdateLink(ctx context.Context, hostID uuid.UUID) (string, error)
	DashboardLink(ctx context.Context, hostID uuid.UUID) (string, error)
	AccountStatus(ctx context.Context, hostID uuid.UUID) (*AccountStatusDTO, error)
}

type connectService struct {
	client        PaymentClient
	hosts         connectHostRepository
	onboardingURL string
}

// NewConnectService builds the Stripe Connect service. onboardingURL is used
// for both the refresh and return redirects on account links.
func NewConnectService(client PaymentClient, hosts connectHostRepository, onboardingURL string) (ConnectService, error) {
	if client == nil {
		return nil, fmt.Errorf("payment client required")
	}
	if hosts == nil {
		return nil, fmt.Errorf("host repository required")
	}
	if onboardingURL == "" {
		return nil, fmt.Errorf("onboarding url required")
	}
	return &connectService{client: client, hosts: hosts, onboardingURL: onboardingURL}, nil
}

// EnsureAccount returns the host's Express account id, creating the account
// on first use.
func (s *connectService) EnsureAccount(ctx context.Context, hostID uuid.UUID) (string, error) {
	host, err := s.loadHost(ctx, hostID)
	if err != nil {
		return "", err
	}
	if host.StripeAccountID != nil && *host.StripeAccountID != "" {
		return *host.StripeAccountID, nil
	}

	params := &stripe.AccountParams{
		Country: stripe.String("US"),
		Type:    stripe.String(string(stripe.AccountTypeExpress)),
		Email:   stripe.String(host.Email),
		Capabilities: &stripe.AccountCapabilitiesParams{
			CardPayments: &stripe.AccountCapabilitiesCardPaymentsParams{Requested: stripe.Bool(true)},
			Transfers:    &stripe.AccountCapabilitiesTransfersParams{Requested: stripe.Bool(true)},
		},
		Settings: &stripe.AccountSettingsParams{
			Payouts: &stripe.AccountSettingsPayoutsParams{
				DebitNegativeBalances: stripe.Bool(true),
			},
		},
	}
	params.AddMetadata(MetaHostID, host.ID.String())

	account, err := s.client.CreateAccount(ctx, params)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create stripe account")
	}
	if err := s.hosts.UpdateStripeAccountID(ctx, host.ID, account.ID); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist stripe account id")
	}
	return account.ID, nil
}

func (s *connectService) OnboardingLink(ctx context.Context, hostID uuid.UUID) (string, error) {
	accountID, err := s.EnsureAccount(ctx, hostID)
	if err != nil {
		return "", err
	}
	return s.accountLink(ctx, accountID, stripe.AccountLinkTypeAccountOnboarding)
}

// UpdateLink returns an account-update link, falling back to onboarding when
// Stripe rejects the request because the account never finished onboarding.
func (s *connectService) UpdateLink(ctx context.Context, hostID uuid.UUID) (string, error) {
	accountID, err := s.requireAccount(ctx, hostID)
	if err != nil {
		return "", err
	}
	link, err := s.accountLink(ctx, accountID, stripe.AccountLinkTypeAccountUpdate)
	if err != nil {
		return s.accountLink(ctx, accountID, stripe.AccountLinkTypeAccountOnboarding)
	}
	return link, nil
}

// DashboardLink returns an Express dashboard login link for a fully enabled
// account, or an onboarding link when setup is incomplete.
func (s *connectService) DashboardLink(ctx context.Context, hostID uuid.UUID) (string, error) {
	status, err := s.AccountStatus(ctx, hostID)
	if err != nil {
		return "", err
	}
	if !status.Enabled {
		return s.accountLink(ctx, status.AccountID, stripe.AccountLinkTypeAccountOnboarding)
	}

	link, err := s.client.CreateLoginLink(ctx, &stripe.LoginLinkParams{
		Account: stripe.String(status.AccountID),
	})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create login link")
	}
	return link.URL, nil
}

func (s *connectService) AccountStatus(ctx context.Context, hostID uuid.UUID) (*AccountStatusDTO, error) {
	accountID, err := s.requireAccount(ctx, hostID)
	if err != nil {
		return nil, err
	}

	account, err := s.client.GetAccount(ctx, accountID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "retrieve stripe account")
	}

	transfersActive := account.Capabilities != nil &&
		account.Capabilities.Transfers == stripe.AccountCapabilityStatusActive
	return &AccountStatusDTO{
		AccountID:      accountID,
		ChargesEnabled: account.ChargesEnabled,
		PayoutsEnabled: account.PayoutsEnabled,
		Enabled:        transfersActive && account.PayoutsEnabled,
	}, nil
}

func (s *connectService) accountLink(ctx context.Context, accountID string, linkType stripe.AccountLinkType) (string, error) {
	link, err := s.client.CreateAccountLink(ctx, &stripe.AccountLinkParams{
		Account:    stripe.String(accountID),
		RefreshURL: stripe.String(s.onboardingURL),
		ReturnURL:  stripe.String(s.onboardingURL),
		Type:       stripe.String(string(linkType)),
	})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create account link")
	}
	return link.URL, nil
}

func (s *connectService) requireAccount(ctx context.Context, hostID uuid.UUID) (string, error) {
	host, err := s.loadHost(ctx, hostID)
	if err != nil {
		return "", err
	}
	accountID, err := connectedAccount(host)
	if err != nil {
		return "", err
	}
	return accountID, nil
}

func (s *connectService) loadHost(ctx context.Context, hostID uuid.UUID) (*models.Host, error) {
	host, err := s.hosts.FindByID(ctx, hostID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "host not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load host")
	}
	return host, nil
}
