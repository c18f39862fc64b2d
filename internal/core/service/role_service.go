package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/cargotrack/identity-service/internal/core/domain"
	"github.com/cargotrack/identity-service/internal/core/ports"
)

// RoleService implements role administration.
type RoleService struct {
	roles       ports.RoleRepository
	permissions ports.PermissionRepository
	resolver    ports.PermissionResolver
	logger      zerolog.Logger
}

func NewRoleService(roles ports.RoleRepository, permissions ports.PermissionRepository, resolver ports.PermissionResolver, logger zerolog.Logger) *RoleService {
	return &RoleService{
		roles:       roles,
		permissions: permissions,
		resolver:    resolver,
		logger:      logger,
	}
}

// Create validates the name, enforces uniqueness and persists the role.
func (s *RoleService) Create(ctx context.Context, name, description string) (*domain.Role, error) {
	role, err := domain.NewRole(name, description)
	if err != nil {
		return nil, err
	}

	if taken, err := s.roles.ExistsByName(ctx, name); err != nil {
		return nil, err
	} else if taken {
		return nil, domain.ErrRoleNameTaken
	}

	created, err := s.roles.Create(ctx, role)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("role_id", created.ID).Str("name", created.Name).Msg("role created")
	return created, nil
}

// Get returns the role and its attached permissions.
func (s *RoleService) Get(ctx context.Context, id string) (*ports.RoleWithPermissions, error) {
	role, err := s.roles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	perms, err := s.roles.PermissionsOf(ctx, id)
	if err != nil {
		return nil, err
	}

	return &ports.RoleWithPermissions{Role: role, Permissions: perms}, nil
}

// Update renames and re-describes the role, keeping the name unique.
func (s *RoleService) Update(ctx context.Context, id, name, description string) (*domain.Role, error) {
	role, err := s.roles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name != role.Name {
		if taken, err := s.roles.ExistsByName(ctx, name); err != nil {
			return nil, err
		} else if taken {
			return nil, domain.ErrRoleNameTaken
		}
	}

	if err := role.Update(name, description); err != nil {
		return nil, err
	}
	if err := s.roles.Update(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

// Delete soft-deletes the role; resolution excludes deleted roles, so the
// cache flush makes revocation effective immediately.
func (s *RoleService) Delete(ctx context.Context, id string) error {
	role, err := s.roles.FindByID(ctx, id)
	if err != nil {
		return err
	}

	role.MarkDeleted()
	if err := s.roles.Update(ctx, role); err != nil {
		return err
	}

	s.resolver.InvalidateAll(ctx)
	s.logger.Info().Str("role_id", id).Msg("role deleted")
	return nil
}

// AddPermission attaches a permission to the role.
func (s *RoleService) AddPermission(ctx context.Context, roleID, permissionID string) error {
	if _, err := s.roles.FindByID(ctx, roleID); err != nil {
		return err
	}
	if _, err := s.permissions.FindByID(ctx, permissionID); err != nil {
		return err
	}

	if err := s.roles.AddPermission(ctx, roleID, permissionID); err != nil {
		return err
	}
	s.resolver.InvalidateAll(ctx)
	return nil
}

// RemovePermission detaches a permission. Removing an absent association
// is a no-op.
func (s *RoleService) RemovePermission(ctx context.Context, roleID, permissionID string) error {
	if _, err := s.roles.FindByID(ctx, roleID); err != nil {
		return err
	}

	if err := s.roles.RemovePermission(ctx, roleID, permissionID); err != nil {
		return err
	}
	s.resolver.InvalidateAll(ctx)
	return nil
}

// ReplacePermissions atomically swaps the role's permission set after
// validating every referenced permission exists.
func (s *RoleService) ReplacePermissions(ctx context.Context, roleID string, permissionIDs []string) error {
	if _, err := s.roles.FindByID(ctx, roleID); err != nil {
		return err
	}
	for _, pid := range permissionIDs {
		if _, err := s.permissions.FindByID(ctx, pid); err != nil {
			return err
		}
	}

	if err := s.roles.ReplacePermissions(ctx, roleID, permissionIDs); err != nil {
		return err
	}

	s.resolver.InvalidateAll(ctx)
	s.logger.Info().Str("role_id", roleID).Int("permissions", len(permissionIDs)).Msg("role permissions replaced")
	return nil
}
