// Package auth signs and verifies the HS256 operator tokens that guard the
// store-mutating endpoints.
package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims identifies an operator.
type Claims struct {
	Sub string
	Exp int64
	Iat int64
}

var (
	ErrMissingSecret = errors.New("operator secret not configured")
	ErrInvalidToken  = errors.New("invalid token")
)

// DefaultTTL bounds tokens minted without an explicit expiry.
const DefaultTTL = 24 * time.Hour

// Signer mints and checks tokens with one shared secret.
type Signer struct {
	secret []byte
	now    func() time.Time
}

// NewSigner returns a signer, or ErrMissingSecret when secret is blank.
func NewSigner(secret string) (*Signer, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return &Signer{secret: []byte(secret), now: time.Now}, nil
}

// Sign encodes claims, filling Iat and Exp when unset.
func (s *Signer) Sign(claims Claims) (string, error) {
	if claims.Sub == "" {
		return "", errors.New("sub is required")
	}

	now := s.now().UTC()
	if claims.Iat == 0 {
		claims.Iat = now.Unix()
	}
	if claims.Exp == 0 {
		claims.Exp = now.Add(DefaultTTL).Unix()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   claims.Sub,
		IssuedAt:  jwt.NewNumericDate(time.Unix(claims.Iat, 0)),
		ExpiresAt: jwt.NewNumericDate(time.Unix(claims.Exp, 0)),
	})
	return token.SignedString(s.secret)
}

// Verify checks the signature and expiry and returns the claims.
func (s *Signer) Verify(token string) (Claims, error) {
	var registered jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(token, &registered, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid || registered.Subject == "" {
		return Claims{}, ErrInvalidToken
	}

	claims := Claims{Sub: registered.Subject, Exp: registered.ExpiresAt.Unix()}
	if registered.IssuedAt != nil {
		claims.Iat = registered.IssuedAt.Unix()
	}
	return claims, nil
}
