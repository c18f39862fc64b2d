package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cargotrack/identity-service/internal/core/ports"
)

type PermissionHandler struct {
	permissionService ports.PermissionService
}

func NewPermissionHandler(permissionService ports.PermissionService) *PermissionHandler {
	return &PermissionHandler{permissionService: permissionService}
}

// Create defines a new permission.
//
// @Summary      Create a permission
// @Tags         permissions
// @Accept       json
// @Produce      json
// @Param        body  body      permissionRequest  true  "Permission definition"
// @Success      201   {object}  domain.Permission
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /permissions [post]
func (h *PermissionHandler) Create(c echo.Context) error {
	var req permissionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	permission, err := h.permissionService.Create(c.Request().Context(), ports.PermissionInput{
		Name:        req.Name,
		SystemName:  req.SystemName,
		Description: req.Description,
		Category:    req.Category,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, permission)
}

func (h *PermissionHandler) Get(c echo.Context) error {
	permission, err := h.permissionService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, permission)
}

func (h *PermissionHandler) Update(c echo.Context) error {
	var req permissionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	permission, err := h.permissionService.Update(c.Request().Context(), c.Param("id"), ports.PermissionInput{
		Name:        req.Name,
		SystemName:  req.SystemName,
		Description: req.Description,
		Category:    req.Category,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, permission)
}

func (h *PermissionHandler) Delete(c echo.Context) error {
	if err := h.permissionService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// List returns permissions, optionally filtered by the category query
// parameter.
func (h *PermissionHandler) List(c echo.Context) error {
	permissions, err := h.permissionService.ListByCategory(c.Request().Context(), c.QueryParam("category"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, permissions)
}

// Categories returns the distinct category labels in use.
func (h *PermissionHandler) Categories(c echo.Context) error {
	categories, err := h.permissionService.Categories(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, categoriesResponse{Categories: categories})
}
