package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/exam-service/internal/api/dto"
	"github.com/spec-kit/exam-service/internal/domain"
	"github.com/spec-kit/exam-service/internal/repository"
)

// RolesHandler exposes role and permission administration endpoints. These
// are plain record mapping over the repositories.
type RolesHandler struct {
	roles       repository.RoleRepository
	permissions repository.PermissionRepository
}

// NewRolesHandler constructs handler.
func NewRolesHandler(roles repository.RoleRepository, permissions repository.PermissionRepository) *RolesHandler {
	return &RolesHandler{roles: roles, permissions: permissions}
}

// ListRoles handles GET /api/roles.
func (h *RolesHandler) ListRoles(c *fiber.Ctx) error {
	limit, offset := listParams(c)
	roles, err := h.roles.List(c.UserContext(), limit, offset)
	if err != nil {
		return err
	}

	items := make([]fiber.Map, 0, len(roles))
	for _, role := range roles {
		items = append(items, fiber.Map{"id": role.ID, "name": role.Name})
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetRole handles GET /api/roles/:id.
func (h *RolesHandler) GetRole(c *fiber.Ctx) error {
	role, err := h.roles.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": roleView(role)})
}

// CreateRole handles POST /api/roles.
func (h *RolesHandler) CreateRole(c *fiber.Ctx) error {
	var req dto.RoleRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Name == "" {
		return fiber.NewError(http.StatusBadRequest, "name required")
	}

	role := &domain.Role{Name: req.Name}
	if err := h.roles.Create(c.UserContext(), role); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": roleView(role)})
}

// UpdateRole handles PUT /api/roles/:id.
func (h *RolesHandler) UpdateRole(c *fiber.Ctx) error {
	var req dto.RoleRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Name == "" {
		return fiber.NewError(http.StatusBadRequest, "name required")
	}

	role := &domain.Role{ID: c.Params("id"), Name: req.Name}
	if err := h.roles.Update(c.UserContext(), role); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": roleView(role)})
}

// DeleteRole handles DELETE /api/roles/:id.
func (h *RolesHandler) DeleteRole(c *fiber.Ctx) error {
	if err := h.roles.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// AssignPermission handles POST /api/roles/:id/permissions.
func (h *RolesHandler) AssignPermission(c *fiber.Ctx) error {
	var req dto.RolePermissionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.PermissionID == "" {
		return fiber.NewError(http.StatusBadRequest, "permission_id required")
	}

	if err := h.roles.AssignPermission(c.UserContext(), c.Params("id"), req.PermissionID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "permission assigned"}})
}

// RevokePermission handles DELETE /api/roles/:id/permissions/:permissionId.
func (h *RolesHandler) RevokePermission(c *fiber.Ctx) error {
	if err := h.roles.RevokePermission(c.UserContext(), c.Params("id"), c.Params("permissionId")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ListPermissions handles GET /api/permissions.
func (h *RolesHandler) ListPermissions(c *fiber.Ctx) error {
	limit, offset := listParams(c)
	permissions, err := h.permissions.List(c.UserContext(), limit, offset)
	if err != nil {
		return err
	}

	items := make([]fiber.Map, 0, len(permissions))
	for _, permission := range permissions {
		items = append(items, fiber.Map{"id": permission.ID, "name": permission.Name})
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreatePermission handles POST /api/permissions.
func (h *RolesHandler) CreatePermission(c *fiber.Ctx) error {
	var req dto.PermissionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Name == "" {
		return fiber.NewError(http.StatusBadRequest, "name required")
	}

	permission := &domain.Permission{Name: req.Name}
	if err := h.permissions.Create(c.UserContext(), permission); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{"id": permission.ID, "name": permission.Name},
	})
}

// DeletePermission handles DELETE /api/permissions/:id.
func (h *RolesHandler) DeletePermission(c *fiber.Ctx) error {
	if err := h.permissions.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func roleView(role *domain.Role) fiber.Map {
	return fiber.Map{
		"id":          role.ID,
		"name":        role.Name,
		"permissions": role.PermissionNames(),
	}
}

func listParams(c *fiber.Ctx) (limit, offset int) {
	limit, _ = strconv.Atoi(c.Query("limit", "20"))
	offset, _ = strconv.Atoi(c.Query("offset", "0"))
	return limit, offset
}
