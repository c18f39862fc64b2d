package ports

import (
	"context"

	"github.com/cargotrack/identity-service/internal/core/domain"
)

// PermissionRepository defines persistence for permissions.
type PermissionRepository interface {
	FindBySystemName(ctx context.Context, systemName string) (*domain.Permission, error)
	FindByID(ctx context.Context, id string) (*domain.Permission, error)
	Create(ctx context.Context, permission *domain.Permission) (*domain.Permission, error)
	Update(ctx context.Context, permission *domain.Permission) error
	ExistsBySystemName(ctx context.Context, systemName string) (bool, error)
	FindByCategory(ctx context.Context, category string) ([]domain.Permission, error)
	Categories(ctx context.Context) ([]string, error)
}
