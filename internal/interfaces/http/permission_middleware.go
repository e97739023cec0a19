package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/capacita-api/internal/application/access"
	"github.com/jhoicas/capacita-api/internal/application/dto"
	"github.com/jhoicas/capacita-api/internal/domain/permission"
)

// permissionChecker contrato mínimo del middleware; lo implementa *access.Resolver.
type permissionChecker interface {
	HasPermission(ctx context.Context, s access.Subject, p permission.Permission) (bool, error)
}

// RequirePermission exige que el usuario del token tenga el permiso.
// Debe usarse DESPUÉS de AuthMiddleware.
//
//   - 403 Forbidden: el rol o perfil no incluye el permiso (no se registra como error).
//   - 503 Service Unavailable: no se pudo cargar el perfil.
func RequirePermission(perm permission.Permission, checker permissionChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ok, err := checker.HasPermission(c.UserContext(), subject(c), perm)
		if err != nil {
			requestLogger(c).Error().Err(err).Str("permission", string(perm)).Msg("fallo al resolver permisos")
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "PERMISSION_CHECK_FAILED",
				Message: "não foi possível verificar a permissão, tente novamente mais tarde",
			})
		}
		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "FORBIDDEN",
				Message: "permissão necessária: " + string(perm),
			})
		}
		return c.Next()
	}
}
