package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cargotrack/identity-service/internal/core/domain"
)

// MinSigningKeyBytes is the minimum HMAC key length accepted at startup.
const MinSigningKeyBytes = 32

// ErrWeakSigningKey aborts startup when the configured key is too short to
// sign tokens safely.
var ErrWeakSigningKey = fmt.Errorf("jwt signing key must be at least %d bytes", MinSigningKeyBytes)

// Claims are the identity claims embedded in issued tokens. Permissions are
// deliberately absent; authorization resolves them per request from the
// subject id.
type Claims struct {
	Email      string `json:"email"`
	Username   string `json:"username"`
	GivenName  string `json:"given_name,omitempty"`
	FamilyName string `json:"family_name,omitempty"`
	Company    string `json:"company,omitempty"`
	jwt.RegisteredClaims
}

// TokenIssuer produces and validates self-contained HS256 bearer tokens
// with a fixed expiry. There is no refresh mechanism; an expired token
// requires a new login.
type TokenIssuer struct {
	key      []byte
	issuer   string
	audience string
	ttl      time.Duration
}

// NewTokenIssuer validates the signing key length and builds an issuer.
// Tokens expire expireDays after issuance (minimum one day).
func NewTokenIssuer(secret, issuer, audience string, expireDays int) (*TokenIssuer, error) {
	if len(secret) < MinSigningKeyBytes {
		return nil, ErrWeakSigningKey
	}
	if expireDays < 1 {
		expireDays = 1
	}
	return &TokenIssuer{
		key:      []byte(secret),
		issuer:   issuer,
		audience: audience,
		ttl:      time.Duration(expireDays) * 24 * time.Hour,
	}, nil
}

// Issue signs a token for the authenticated user.
func (t *TokenIssuer) Issue(user *domain.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		Email:      user.Email,
		Username:   user.Username,
		GivenName:  user.FirstName,
		FamilyName: user.LastName,
		Company:    user.CompanyName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    t.issuer,
			Audience:  jwt.ClaimStrings{t.audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.key)
}

// Parse validates the signature, expiry, issuer and audience and returns
// the claims.
func (t *TokenIssuer) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return t.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.issuer),
		jwt.WithAudience(t.audience))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
