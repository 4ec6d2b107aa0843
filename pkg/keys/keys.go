package keys

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

const keyBytes = 16

// NewKey returns a url-safe random capability token. Events, tickets, and
// guests carry a public/private pair so unauthenticated lookups never expose
// row IDs.
func NewKey() (string, error) {
	buf := make([]byte, keyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating key: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// NewKeyPair returns a fresh public/private key pair.
func NewKeyPair() (publicKey, privateKey string, err error) {
	publicKey, err = NewKey()
	if err != nil {
		return "", "", err
	}
	privateKey, err = NewKey()
	if err != nil {
		return "", "", err
	}
	return publicKey, privateKey, nil
}
