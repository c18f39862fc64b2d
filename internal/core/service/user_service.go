package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/cargotrack/identity-service/internal/api/metrics"
	"github.com/cargotrack/identity-service/internal/core/domain"
	"github.com/cargotrack/identity-service/internal/core/ports"
)

// UserService implements account administration.
type UserService struct {
	users    ports.UserRepository
	roles    ports.RoleRepository
	hasher   ports.PasswordHasher
	notifier ports.Notifier
	resolver ports.PermissionResolver
	logger   zerolog.Logger
}

func NewUserService(users ports.UserRepository, roles ports.RoleRepository, hasher ports.PasswordHasher, notifier ports.Notifier, resolver ports.PermissionResolver, logger zerolog.Logger) *UserService {
	return &UserService{
		users:    users,
		roles:    roles,
		hasher:   hasher,
		notifier: notifier,
		resolver: resolver,
		logger:   logger,
	}
}

// Register validates credentials, enforces case-insensitive uniqueness,
// persists the account, assigns the requested roles and queues a welcome
// email. The uniqueness checks run before the write; the unique indexes
// backstop the remaining race.
func (s *UserService) Register(ctx context.Context, input ports.RegisterUserInput) (*domain.User, error) {
	email, err := domain.NewEmail(input.Email)
	if err != nil {
		return nil, err
	}
	username, err := domain.NewUsername(input.Username)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	if taken, err := s.users.ExistsByEmail(ctx, email.String()); err != nil {
		return nil, err
	} else if taken {
		return nil, domain.ErrEmailTaken
	}
	if taken, err := s.users.ExistsByUsername(ctx, username.String()); err != nil {
		return nil, err
	} else if taken {
		return nil, domain.ErrUsernameTaken
	}

	for _, roleID := range input.RoleIDs {
		if _, err := s.roles.FindByID(ctx, roleID); err != nil {
			return nil, err
		}
	}

	hash, err := s.hasher.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := domain.NewUser(email, username, hash, input.FirstName, input.LastName, input.CompanyName, input.PhoneNumber)
	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	if len(input.RoleIDs) > 0 {
		if err := s.users.ReplaceRoles(ctx, created.ID, input.RoleIDs); err != nil {
			return nil, err
		}
		created.RoleIDs = input.RoleIDs
	}

	metrics.UsersCreatedTotal.Inc()
	s.logger.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user registered")
	s.notifier.SendWelcome(ctx, created.Email, created.FirstName)

	return created, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

// UpdateProfile replaces the mutable profile fields.
func (s *UserService) UpdateProfile(ctx context.Context, id string, input ports.UpdateProfileInput) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.UpdateProfile(input.FirstName, input.LastName, input.CompanyName, input.PhoneNumber)
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetActive toggles whether the account may authenticate.
func (s *UserService) SetActive(ctx context.Context, id string, active bool) error {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}

	user.SetActive(active)
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	s.logger.Info().Str("user_id", id).Bool("active", active).Msg("user status changed")
	return nil
}

// ReplaceRoles atomically swaps the user's role set and drops any cached
// permissions so the change is visible to authorization immediately.
func (s *UserService) ReplaceRoles(ctx context.Context, id string, roleIDs []string) error {
	if _, err := s.users.FindByID(ctx, id); err != nil {
		return err
	}
	for _, roleID := range roleIDs {
		if _, err := s.roles.FindByID(ctx, roleID); err != nil {
			return err
		}
	}

	if err := s.users.ReplaceRoles(ctx, id, roleIDs); err != nil {
		return err
	}

	s.resolver.Invalidate(ctx, id)
	s.logger.Info().Str("user_id", id).Int("roles", len(roleIDs)).Msg("user roles replaced")
	return nil
}

// Delete soft-deletes the account.
func (s *UserService) Delete(ctx context.Context, id string) error {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}

	user.MarkDeleted()
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	s.resolver.Invalidate(ctx, id)
	s.logger.Info().Str("user_id", id).Msg("user deleted")
	return nil
}
