package client

import (
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenLifetime = 20 * time.Minute

// TokenProvider supplies a bearer credential for App Store Connect
// requests. The rest of the client treats the credential as opaque.
type TokenProvider interface {
	Token(now time.Time) (string, error)
}

// ES256TokenProvider signs short-lived App Store Connect API tokens
// with the .p8 key issued in the developer portal.
type ES256TokenProvider struct {
	keyID    string
	issuerID string
	key      *ecdsa.PrivateKey
}

// NewES256TokenProvider loads the private key at keyPath. The key file
// is read once; a missing or malformed key is a configuration error and
// fails construction.
func NewES256TokenProvider(keyID, issuerID, keyPath string) (*ES256TokenProvider, error) {
	raw, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("read private key: %w", err)
	}

	block, _ := pem.Decode(raw)
	if block == nil {
		return nil, fmt.Errorf("private key %s is not PEM encoded", keyPath)
	}

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}

	key, ok := parsed.(*ecdsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("private key %s is not an EC key", keyPath)
	}

	return &ES256TokenProvider{keyID: keyID, issuerID: issuerID, key: key}, nil
}

func (p *ES256TokenProvider) Token(now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"iss": p.issuerID,
		"iat": now.Unix(),
		"exp": now.Add(tokenLifetime).Unix(),
		"aud": "appstoreconnect-v1",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodES256, claims)
	token.Header["kid"] = p.keyID

	signed, err := token.SignedString(p.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// StaticTokenProvider returns a fixed credential; used in tests and
// wherever a token is minted out of process.
type StaticTokenProvider string

func (s StaticTokenProvider) Token(time.Time) (string, error) {
	return string(s), nil
}
