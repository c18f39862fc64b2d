package ports

import (
	"context"

	"github.com/cargotrack/identity-service/internal/core/domain"
)

// RoleRepository defines persistence for roles and their permission
// association records.
type RoleRepository interface {
	FindByName(ctx context.Context, name string) (*domain.Role, error)
	FindByID(ctx context.Context, id string) (*domain.Role, error)
	Create(ctx context.Context, role *domain.Role) (*domain.Role, error)
	Update(ctx context.Context, role *domain.Role) error
	ExistsByName(ctx context.Context, name string) (bool, error)

	// PermissionsOf returns the permissions currently attached to a role.
	PermissionsOf(ctx context.Context, roleID string) ([]domain.Permission, error)

	// AddPermission attaches a permission; attaching an existing
	// association is a no-op.
	AddPermission(ctx context.Context, roleID, permissionID string) error

	// RemovePermission detaches a permission; removing an absent
	// association is a no-op.
	RemovePermission(ctx context.Context, roleID, permissionID string) error

	// ReplacePermissions atomically swaps the role's permission set so a
	// partial update is never visible.
	ReplacePermissions(ctx context.Context, roleID string, permissionIDs []string) error
}
