package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avaldez-dev/gatepass-backend/internal/hosts"
	pkgauth "github.com/avaldez-dev/gatepass-backend/pkg/auth"
	"github.com/avaldez-dev/gatepass-backend/pkg/auth/session"
	"github.com/avaldez-dev/gatepass-backend/pkg/config"
	"github.com/avaldez-dev/gatepass-backend/pkg/db"
	"github.com/avaldez-dev/gatepass-backend/pkg/db/models"
	pkgerrors "github.com/avaldez-dev/gatepass-backend/pkg/errors"
	"github.com/avaldez-dev/gatepass-backend/pkg/security"
)

type hostRepository interface {
	Create(ctx context.Context, dto hosts.CreateHostDTO) (*models.Host, error)
	FindByEmail(ctx context.Context, email string) (*models.Host, error)
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type sessionManager interface {
	Create(ctx context.Context, accessID string, hostID uuid.UUID) error
	Revoke(ctx context.Context, accessID string) error
}

// RegisterInput captures a new host signup.
type RegisterInput struct {
	Email     string
	FirstName string
	LastName  string
	Phone     *string
	Password  string
}

// LoginResult carries the minted token alongside the host projection.
type LoginResult struct {
	AccessToken string         `json:"access_token"`
	Host        *hosts.HostDTO `json:"host"`
}

// Service exposes host account operations.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*hosts.HostDTO, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(ctx context.Context, accessID string) error
}

type service struct {
	repo        hostRepository
	sessions    sessionManager
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
}

// ServiceParams bundles the auth service dependencies.
type ServiceParams struct {
	HostRepo    hostRepository
	Sessions    sessionManager
	JWTConfig   config.JWTConfig
	PasswordCfg config.PasswordConfig
}

// NewService builds the auth service.
func NewService(params ServiceParams) (Service, error) {
	if params.HostRepo == nil {
		return nil, fmt.Errorf("host repository required")
	}
	if params.Sessions == nil {
		return nil, fmt.Errorf("session manager required")
	}
	return &service{
		repo:        params.HostRepo,
		sessions:    params.Sessions,
		jwtCfg:      params.JWTConfig,
		passwordCfg: params.PasswordCfg,
	}, nil
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*hosts.HostDTO, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if !strings.Contains(email, "@") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid email")
	}
	if len(input.Password) < 8 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	host, err := s.repo.Create(ctx, hosts.CreateHostDTO{
		Email:        email,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Phone:        input.Phone,
		PasswordHash: hash,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "ux_hosts_email") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create host")
	}

	return hosts.ToDTO(host), nil
}

func (s *service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	host, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load host")
	}

	ok, err := security.VerifyPassword(password, host.PasswordHash)
	if err != nil || !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}
	if !host.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "account disabled")
	}

	accessID := session.NewAccessID()
	now := time.Now()
	token, err := pkgauth.MintAccessToken(s.jwtCfg, now, pkgauth.AccessTokenPayload{
		HostID:      host.ID,
		Email:       host.Email,
		IsSuperuser: host.IsSuperuser,
		JTI:         accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	if err := s.sessions.Create(ctx, accessID, host.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create session")
	}

	// last_login_at is best effort; the login already succeeded
	_ = s.repo.TouchLastLogin(ctx, host.ID, now)

	return &LoginResult{
		AccessToken: token,
		Host:        hosts.ToDTO(host),
	}, nil
}

func (s *service) Logout(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session")
	}
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}
