package ports

import (
	"context"

	"github.com/cargotrack/identity-service/internal/core/domain"
)

// RoleWithPermissions is a role plus its attached permissions.
type RoleWithPermissions struct {
	Role        *domain.Role
	Permissions []domain.Permission
}

// RoleService implements role administration.
type RoleService interface {
	Create(ctx context.Context, name, description string) (*domain.Role, error)
	Get(ctx context.Context, id string) (*RoleWithPermissions, error)
	Update(ctx context.Context, id, name, description string) (*domain.Role, error)
	Delete(ctx context.Context, id string) error
	AddPermission(ctx context.Context, roleID, permissionID string) error
	RemovePermission(ctx context.Context, roleID, permissionID string) error
	ReplacePermissions(ctx context.Context, roleID string, permissionIDs []string) error
}
