package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/capacita-api/internal/application/access"
	"github.com/jhoicas/capacita-api/internal/application/dto"
	"github.com/jhoicas/capacita-api/internal/domain/permission"
)

// PermissionHandler consultas de permisos del usuario autenticado.
type PermissionHandler struct {
	resolver *access.Resolver
}

// NewPermissionHandler construye el handler.
func NewPermissionHandler(resolver *access.Resolver) *PermissionHandler {
	return &PermissionHandler{resolver: resolver}
}

// Check godoc
// @Summary      ¿El usuario tiene el permiso?
// @Tags         permissions
// @Security     Bearer
// @Produce      json
// @Param        permission  query  string  true  "etiqueta acción:recurso"
// @Success      200  {object}  dto.PermissionCheckResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/permissions/check [get]
func (h *PermissionHandler) Check(c *fiber.Ctx) error {
	tag := c.Query("permission")
	if tag == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "permission é obrigatório"})
	}
	ok, err := h.resolver.HasPermission(c.UserContext(), subject(c), permission.Permission(tag))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.PermissionCheckResponse{Permission: tag, Allowed: ok})
}

// Mine godoc
// @Summary      Permisos efectivos del usuario
// @Tags         permissions
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  string
// @Router       /api/permissions/me [get]
func (h *PermissionHandler) Mine(c *fiber.Ctx) error {
	perms, err := h.resolver.Permissions(c.UserContext(), subject(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(perms)
}

// Catalog godoc
// @Summary      Catálogo de permisos
// @Tags         permissions
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  string
// @Router       /api/permissions [get]
func (h *PermissionHandler) Catalog(c *fiber.Ctx) error {
	out := make([]string, 0, len(permission.Catalog))
	for _, p := range permission.Catalog {
		out = append(out, string(p))
	}
	return c.JSON(out)
}
