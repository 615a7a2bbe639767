package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNewSignerRequiresSecret(t *testing.T) {
	if _, err := NewSigner("  "); !errors.Is(err, ErrMissingSecret) {
		t.Fatalf("expected ErrMissingSecret, got %v", err)
	}
}

func TestSignVerifyRoundTrip(t *testing.T) {
	s, err := NewSigner("s3cret")
	if err != nil {
		t.Fatalf("new signer: %v", err)
	}
	token, err := s.Sign(Claims{Sub: "ops"})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	claims, err := s.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Sub != "ops" || claims.Exp-claims.Iat != int64(DefaultTTL/time.Second) {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestVerifyRejectsTampering(t *testing.T) {
	s, _ := NewSigner("s3cret")
	other, _ := NewSigner("other")
	token, _ := s.Sign(Claims{Sub: "ops"})

	if _, err := other.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token for wrong secret, got %v", err)
	}
	parts := strings.Split(token, ".")
	if _, err := s.Verify(parts[0] + "." + parts[1]); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token for missing signature, got %v", err)
	}
	if _, err := s.Verify(parts[0] + ".e30." + parts[2]); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token for swapped payload, got %v", err)
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	s, _ := NewSigner("s3cret")
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	token, _ := s.Sign(Claims{Sub: "ops", Exp: now.Add(time.Minute).Unix()})

	s.now = func() time.Time { return now.Add(2 * time.Minute) }
	if _, err := s.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expired token rejected, got %v", err)
	}
}
