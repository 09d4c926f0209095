package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// AccessTTL is the lifetime of an access token.
	AccessTTL = time.Hour
	// RefreshTTL is the lifetime of a refresh token.
	RefreshTTL = 30 * 24 * time.Hour

	kindAccess  = "access"
	kindRefresh = "refresh"
)

// ErrInvalidToken is returned for expired, tampered, or wrong-kind tokens.
var ErrInvalidToken = errors.New("invalid token")

type claims struct {
	Kind string `json:"kind"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies the HS256 access/refresh token pair
// bound to an account identity.
type TokenIssuer struct {
	secret []byte
	now    func() time.Time
}

// NewTokenIssuer creates an issuer signing with the given secret.
func NewTokenIssuer(secret string) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), now: time.Now}
}

// AccessToken issues a short-lived access token for the account.
func (i *TokenIssuer) AccessToken(accountID string) (string, error) {
	return i.sign(accountID, kindAccess, AccessTTL)
}

// RefreshToken issues a long-lived refresh token for the account.
func (i *TokenIssuer) RefreshToken(accountID string) (string, error) {
	return i.sign(accountID, kindRefresh, RefreshTTL)
}

func (i *TokenIssuer) sign(accountID, kind string, ttl time.Duration) (string, error) {
	now := i.now()
	c := claims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// VerifyAccess decodes an access token back to the account ID.
func (i *TokenIssuer) VerifyAccess(token string) (string, error) {
	return i.verify(token, kindAccess)
}

// VerifyRefresh decodes a refresh token back to the account ID.
func (i *TokenIssuer) VerifyRefresh(token string) (string, error) {
	return i.verify(token, kindRefresh)
}

func (i *TokenIssuer) verify(token, kind string) (string, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now))
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}
	if c.Kind != kind || c.Subject == "" {
		return "", ErrInvalidToken
	}
	return c.Subject, nil
}
