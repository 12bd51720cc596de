package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-api/internal/application/dto"
)

// respond escribe {success: true, data} con el status dado.
func respond(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(dto.APIResponse{Success: true, Data: data})
}

// respondMessage respuesta exitosa con mensaje y data opcional.
func respondMessage(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(dto.APIResponse{Success: true, Message: message, Data: data})
}

// respondPage respuesta de listado con metadatos de paginación.
func respondPage[T any](c *fiber.Ctx, page *dto.Page[T]) error {
	p := page.Pagination
	return c.Status(fiber.StatusOK).JSON(dto.APIResponse{Success: true, Data: page.Items, Pagination: &p})
}

// respondError escribe {success: false, code, message, errors?}.
func respondError(c *fiber.Ctx, status int, code, message string, fields ...dto.FieldError) error {
	return c.Status(status).JSON(dto.APIResponse{Success: false, Code: code, Message: message, Errors: fields})
}
