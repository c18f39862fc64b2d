package ports

import (
	"context"

	"github.com/cargotrack/identity-service/internal/core/domain"
)

// UserRepository defines persistence for the user aggregate and its role
// memberships.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// ReplaceRoles atomically swaps the user's role association records.
	ReplaceRoles(ctx context.Context, userID string, roleIDs []string) error

	// EffectivePermissions returns the deduplicated union of permission
	// system names reachable through the user's non-deleted roles.
	EffectivePermissions(ctx context.Context, userID string) ([]string, error)
}
