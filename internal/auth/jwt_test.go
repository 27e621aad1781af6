package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestTokensRoundTrip(t *testing.T) {
	tokens := NewTokens("test-secret", "basket")

	signed, err := tokens.Sign("user-1", "alice@example.com", "session-1", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	ac, err := tokens.Parse(signed)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if ac.UserID != "user-1" || ac.SessionID != "session-1" || ac.Email != "alice@example.com" {
		t.Errorf("got %+v", ac)
	}
}

func TestTokensExpired(t *testing.T) {
	tokens := NewTokens("test-secret", "basket")

	signed, err := tokens.Sign("user-1", "alice@example.com", "session-1", time.Now().Add(-time.Minute))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := tokens.Parse(signed); err != ErrInvalidToken {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestTokensWrongSecret(t *testing.T) {
	signed, err := NewTokens("one", "basket").Sign("user-1", "a@example.com", "s", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := NewTokens("two", "basket").Parse(signed); err != ErrInvalidToken {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestTokensWrongIssuer(t *testing.T) {
	signed, err := NewTokens("secret", "other").Sign("user-1", "a@example.com", "s", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := NewTokens("secret", "basket").Parse(signed); err != ErrInvalidToken {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestTokensRejectsNoneAlgorithm(t *testing.T) {
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "user-1",
		ID:        "session-1",
		Issuer:    "basket",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := NewTokens("secret", "basket").Parse(unsigned); err != ErrInvalidToken {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestTokensGarbage(t *testing.T) {
	if _, err := NewTokens("secret", "basket").Parse("not-a-token"); err != ErrInvalidToken {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}
