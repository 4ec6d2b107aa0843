package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	HostID      uuid.UUID
	Email       string
	IsSuperuser bool
	JTI         string
}

// AccessTokenClaims represents the typed JWT issued to host clients.
type AccessTokenClaims struct {
	HostID      uuid.UUID `json:"host_id"`
	Email       string    `json:"email"`
	IsSuperuser bool      `json:"is_superuser,omitempty"`
	jwt.RegisteredClaims
}
