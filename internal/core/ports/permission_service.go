package ports

import (
	"context"

	"github.com/cargotrack/identity-service/internal/core/domain"
)

// PermissionInput carries the fields of a permission definition.
type PermissionInput struct {
	Name        string
	SystemName  string
	Description string
	Category    string
}

// PermissionService implements permission administration.
type PermissionService interface {
	Create(ctx context.Context, input PermissionInput) (*domain.Permission, error)
	Get(ctx context.Context, id string) (*domain.Permission, error)
	Update(ctx context.Context, id string, input PermissionInput) (*domain.Permission, error)
	Delete(ctx context.Context, id string) error
	ListByCategory(ctx context.Context, category string) ([]domain.Permission, error)
	Categories(ctx context.Context) ([]string, error)
}
