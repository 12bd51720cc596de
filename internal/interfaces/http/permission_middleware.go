package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-api/internal/domain/authz"
)

// RequirePermission verifica que el rol del token tenga el permiso p.
// Debe usarse DESPUÉS de AuthMiddleware y ANTES de leer el cuerpo: un usuario sin permiso
// recibe 403 aunque la petición sea inválida.
func RequirePermission(authorizer authz.Authorizer, p authz.Permission) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetUserID(c) == "" {
			return respondError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "No autorizado")
		}
		if !authorizer.Can(GetRole(c), p) {
			return respondError(c, fiber.StatusForbidden, "FORBIDDEN", "No tienes permiso para esta operación")
		}
		return c.Next()
	}
}
