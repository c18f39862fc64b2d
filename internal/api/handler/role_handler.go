package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cargotrack/identity-service/internal/core/ports"
)

type RoleHandler struct {
	roleService ports.RoleService
}

func NewRoleHandler(roleService ports.RoleService) *RoleHandler {
	return &RoleHandler{roleService: roleService}
}

// Create defines a new role.
//
// @Summary      Create a role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Param        body  body      roleRequest  true  "Role definition"
// @Success      201   {object}  domain.Role
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /roles [post]
func (h *RoleHandler) Create(c echo.Context) error {
	var req roleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	role, err := h.roleService.Create(c.Request().Context(), req.Name, req.Description)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, role)
}

// Get returns a role together with its attached permissions.
func (h *RoleHandler) Get(c echo.Context) error {
	result, err := h.roleService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, roleResponse{Role: result.Role, Permissions: result.Permissions})
}

// Update renames and re-describes a role.
func (h *RoleHandler) Update(c echo.Context) error {
	var req roleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	role, err := h.roleService.Update(c.Request().Context(), c.Param("id"), req.Name, req.Description)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, role)
}

// Delete soft-deletes a role; its permissions stop contributing to any
// user's effective set.
func (h *RoleHandler) Delete(c echo.Context) error {
	if err := h.roleService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// UpdatePermissions atomically replaces the role's permission set.
func (h *RoleHandler) UpdatePermissions(c echo.Context) error {
	var req updateRolePermissionsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.roleService.ReplacePermissions(c.Request().Context(), c.Param("id"), req.PermissionIDs); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// AddPermission attaches a single permission to the role.
func (h *RoleHandler) AddPermission(c echo.Context) error {
	var req rolePermissionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.roleService.AddPermission(c.Request().Context(), c.Param("id"), req.PermissionID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// RemovePermission detaches a permission; removing an absent association
// succeeds.
func (h *RoleHandler) RemovePermission(c echo.Context) error {
	if err := h.roleService.RemovePermission(c.Request().Context(), c.Param("id"), c.Param("permissionId")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
