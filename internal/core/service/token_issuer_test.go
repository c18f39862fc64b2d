package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cargotrack/identity-service/internal/core/domain"
)

const testSigningKey = "0123456789abcdef0123456789abcdef" // 32 bytes

func newTestIssuer(t *testing.T) *TokenIssuer {
	t.Helper()
	issuer, err := NewTokenIssuer(testSigningKey, "cargotrack-identity", "cargotrack", 7)
	if err != nil {
		t.Fatalf("NewTokenIssuer: %v", err)
	}
	return issuer
}

func tokenTestUser() *domain.User {
	return &domain.User{
		Audit:       domain.Audit{ID: "user-1"},
		Email:       "frank@example.com",
		Username:    "frank",
		FirstName:   "Frank",
		LastName:    "Moore",
		CompanyName: "Initech",
		Active:      true,
	}
}

func TestNewTokenIssuer_RejectsShortKey(t *testing.T) {
	_, err := NewTokenIssuer(strings.Repeat("k", MinSigningKeyBytes-1), "iss", "aud", 7)
	if !errors.Is(err, ErrWeakSigningKey) {
		t.Fatalf("expected ErrWeakSigningKey, got %v", err)
	}

	if _, err := NewTokenIssuer(strings.Repeat("k", MinSigningKeyBytes), "iss", "aud", 7); err != nil {
		t.Fatalf("expected %d-byte key to be accepted, got %v", MinSigningKeyBytes, err)
	}
}

func TestTokenIssuer_IssueParseRoundTrip(t *testing.T) {
	issuer := newTestIssuer(t)
	user := tokenTestUser()

	token, err := issuer.Issue(user)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if token == "" {
		t.Fatalf("expected non-empty token")
	}

	claims, err := issuer.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Fatalf("unexpected subject %q", claims.Subject)
	}
	if claims.Email != "frank@example.com" || claims.Username != "frank" {
		t.Fatalf("unexpected identity claims: %+v", claims)
	}
	if claims.GivenName != "Frank" || claims.FamilyName != "Moore" || claims.Company != "Initech" {
		t.Fatalf("unexpected profile claims: %+v", claims)
	}

	if claims.ExpiresAt == nil {
		t.Fatalf("expected expiry to be set")
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl < 6*24*time.Hour || ttl > 7*24*time.Hour {
		t.Fatalf("expiry %v outside the configured window", ttl)
	}
}

func TestTokenIssuer_NoPermissionsInToken(t *testing.T) {
	issuer := newTestIssuer(t)

	token, err := issuer.Issue(tokenTestUser())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims := jwt.MapClaims{}
	if _, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSigningKey), nil
	}); err != nil {
		t.Fatalf("ParseWithClaims: %v", err)
	}
	for _, key := range []string{"permissions", "roles", "scope"} {
		if _, found := claims[key]; found {
			t.Fatalf("token must not embed %q", key)
		}
	}
}

func TestTokenIssuer_RejectsWrongKey(t *testing.T) {
	issuer := newTestIssuer(t)

	other, err := NewTokenIssuer(strings.Repeat("x", MinSigningKeyBytes), "cargotrack-identity", "cargotrack", 7)
	if err != nil {
		t.Fatalf("NewTokenIssuer: %v", err)
	}

	token, err := other.Issue(tokenTestUser())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := issuer.Parse(token); err == nil {
		t.Fatalf("expected signature verification to fail")
	}
}

func TestTokenIssuer_RejectsWrongIssuerAndAudience(t *testing.T) {
	issuer := newTestIssuer(t)

	foreign, err := NewTokenIssuer(testSigningKey, "someone-else", "cargotrack", 7)
	if err != nil {
		t.Fatalf("NewTokenIssuer: %v", err)
	}
	token, err := foreign.Issue(tokenTestUser())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := issuer.Parse(token); err == nil {
		t.Fatalf("expected issuer mismatch to be rejected")
	}

	wrongAud, err := NewTokenIssuer(testSigningKey, "cargotrack-identity", "other-audience", 7)
	if err != nil {
		t.Fatalf("NewTokenIssuer: %v", err)
	}
	token, err = wrongAud.Issue(tokenTestUser())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := issuer.Parse(token); err == nil {
		t.Fatalf("expected audience mismatch to be rejected")
	}
}

func TestTokenIssuer_RejectsExpiredToken(t *testing.T) {
	issuer := newTestIssuer(t)

	// Build an already-expired token signed with the same key.
	now := time.Now().Add(-48 * time.Hour)
	claims := &Claims{
		Email:    "frank@example.com",
		Username: "frank",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			Issuer:    "cargotrack-identity",
			Audience:  jwt.ClaimStrings{"cargotrack"},
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSigningKey))
	if err != nil {
		t.Fatalf("SignedString: %v", err)
	}

	if _, err := issuer.Parse(token); !errors.Is(err, jwt.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}
