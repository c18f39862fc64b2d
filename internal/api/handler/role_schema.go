package handler

import "github.com/cargotrack/identity-service/internal/core/domain"

type roleRequest struct {
	Name        string `json:"name" validate:"required,min=3,max=50"`
	Description string `json:"description"`
}

type updateRolePermissionsRequest struct {
	PermissionIDs []string `json:"permission_ids" validate:"required"`
}

type rolePermissionRequest struct {
	PermissionID string `json:"permission_id" validate:"required"`
}

type roleResponse struct {
	Role        *domain.Role        `json:"role"`
	Permissions []domain.Permission `json:"permissions"`
}
