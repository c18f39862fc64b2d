package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/cargotrack/identity-service/internal/core/domain"
	"github.com/cargotrack/identity-service/internal/core/ports"
)

// PermissionService implements permission administration.
type PermissionService struct {
	permissions ports.PermissionRepository
	resolver    ports.PermissionResolver
	logger      zerolog.Logger
}

func NewPermissionService(permissions ports.PermissionRepository, resolver ports.PermissionResolver, logger zerolog.Logger) *PermissionService {
	return &PermissionService{permissions: permissions, resolver: resolver, logger: logger}
}

// Create validates the definition, enforces system-name uniqueness and
// persists the permission.
func (s *PermissionService) Create(ctx context.Context, input ports.PermissionInput) (*domain.Permission, error) {
	permission, err := domain.NewPermission(input.Name, input.SystemName, input.Description, input.Category)
	if err != nil {
		return nil, err
	}

	if taken, err := s.permissions.ExistsBySystemName(ctx, input.SystemName); err != nil {
		return nil, err
	} else if taken {
		return nil, domain.ErrSystemNameTaken
	}

	created, err := s.permissions.Create(ctx, permission)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("permission_id", created.ID).Str("system_name", created.SystemName).Msg("permission created")
	return created, nil
}

func (s *PermissionService) Get(ctx context.Context, id string) (*domain.Permission, error) {
	return s.permissions.FindByID(ctx, id)
}

// Update replaces the permission definition, keeping the system name
// unique. A renamed system name invalidates cached permission sets since
// checks reference the stable key.
func (s *PermissionService) Update(ctx context.Context, id string, input ports.PermissionInput) (*domain.Permission, error) {
	permission, err := s.permissions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	renamed := input.SystemName != permission.SystemName
	if renamed {
		if taken, err := s.permissions.ExistsBySystemName(ctx, input.SystemName); err != nil {
			return nil, err
		} else if taken {
			return nil, domain.ErrSystemNameTaken
		}
	}

	if err := permission.Update(input.Name, input.SystemName, input.Description, input.Category); err != nil {
		return nil, err
	}
	if err := s.permissions.Update(ctx, permission); err != nil {
		return nil, err
	}

	if renamed {
		s.resolver.InvalidateAll(ctx)
	}
	return permission, nil
}

// Delete soft-deletes the permission.
func (s *PermissionService) Delete(ctx context.Context, id string) error {
	permission, err := s.permissions.FindByID(ctx, id)
	if err != nil {
		return err
	}

	permission.MarkDeleted()
	if err := s.permissions.Update(ctx, permission); err != nil {
		return err
	}

	s.resolver.InvalidateAll(ctx)
	s.logger.Info().Str("permission_id", id).Msg("permission deleted")
	return nil
}

func (s *PermissionService) ListByCategory(ctx context.Context, category string) ([]domain.Permission, error) {
	return s.permissions.FindByCategory(ctx, category)
}

func (s *PermissionService) Categories(ctx context.Context) ([]string, error) {
	return s.permissions.Categories(ctx)
}
