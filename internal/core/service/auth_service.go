package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/cargotrack/identity-service/internal/api/metrics"
	"github.com/cargotrack/identity-service/internal/core/domain"
	"github.com/cargotrack/identity-service/internal/core/ports"
)

// AuthService implements login and password changes.
type AuthService struct {
	users    ports.UserRepository
	hasher   ports.PasswordHasher
	issuer   *TokenIssuer
	notifier ports.Notifier
	logger   zerolog.Logger
}

func NewAuthService(users ports.UserRepository, hasher ports.PasswordHasher, issuer *TokenIssuer, notifier ports.Notifier, logger zerolog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		hasher:   hasher,
		issuer:   issuer,
		notifier: notifier,
		logger:   logger,
	}
}

// Login runs the authentication flow: lookup, active check, lockout check,
// credential verification, counter bookkeeping, permission resolution and
// token issuance. Unknown email and wrong password fail identically.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	if email == "" || password == "" {
		metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.Active {
		metrics.LoginAttemptsTotal.WithLabelValues("inactive").Inc()
		return nil, domain.ErrAccountInactive
	}

	if user.IsLockedOut() {
		metrics.LoginAttemptsTotal.WithLabelValues("locked_out").Inc()
		return nil, &domain.LockedOutError{Until: *user.LockoutEnd}
	}

	ok, err := s.hasher.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		user.RecordLoginFailure()
		if err := s.users.Update(ctx, user); err != nil {
			return nil, err
		}
		metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		if user.IsLockedOut() {
			metrics.LockoutsTotal.Inc()
			s.logger.Warn().Str("user_id", user.ID).Msg("account locked out")
			s.notifier.SendLockoutNotice(ctx, user.Email, int(domain.LockoutDuration.Minutes()))
		}
		return nil, domain.ErrInvalidCredentials
	}

	// Hashes created with older parameters (or legacy bcrypt imports) are
	// upgraded transparently while the plaintext is available.
	if rehash, err := s.hasher.NeedsRehash(user.PasswordHash); err == nil && rehash {
		if newHash, err := s.hasher.HashPassword(password); err == nil {
			user.ChangePassword(newHash)
			s.logger.Info().Str("user_id", user.ID).Msg("password hash upgraded")
		}
	}

	user.RecordLoginSuccess()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	permissions, err := s.users.EffectivePermissions(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	token, err := s.issuer.Issue(user)
	if err != nil {
		return nil, err
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	s.logger.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("login succeeded")

	return &ports.LoginResult{Token: token, User: user, Permissions: permissions}, nil
}

// ChangePassword verifies the current credential and replaces it with a
// hash of the new one after policy validation.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	ok, err := s.hasher.VerifyPassword(currentPassword, user.PasswordHash)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrInvalidCredentials
	}

	if err := domain.ValidatePassword(newPassword); err != nil {
		return err
	}

	newHash, err := s.hasher.HashPassword(newPassword)
	if err != nil {
		return err
	}

	user.ChangePassword(newHash)
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("password changed")
	return nil
}
