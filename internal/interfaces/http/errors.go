package http

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-api/internal/application/dto"
	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/pkg/logger"
)

// ValidationError errores de validación por campo; se responde 400 con la lista.
type ValidationError struct {
	Fields []dto.FieldError
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validación: %d campos inválidos", len(e.Fields))
}

// ErrorHandler único punto de traducción de errores a respuestas HTTP.
// Los handlers retornan el error del caso de uso tal cual.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, code, message := mapError(err)
		var vErr *ValidationError
		if errors.As(err, &vErr) {
			return respondError(c, status, code, message, vErr.Fields...)
		}
		if status >= fiber.StatusInternalServerError {
			log.Error().Err(err).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Msg("error no controlado")
		}
		return respondError(c, status, code, message)
	}
}

func mapError(err error) (status int, code, message string) {
	var (
		vErr     *ValidationError
		stockErr *domain.StockError
		nfErr    *domain.NotFoundError
		fErr     *fiber.Error
	)
	switch {
	case errors.As(err, &vErr):
		return fiber.StatusBadRequest, "VALIDATION", "Errores de validación"
	case errors.As(err, &stockErr):
		return fiber.StatusBadRequest, "INSUFFICIENT_STOCK",
			fmt.Sprintf("Stock insuficiente para %s. Disponible: %d", stockErr.Title, stockErr.Available)
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusBadRequest, "INSUFFICIENT_STOCK", "Stock insuficiente"
	case errors.As(err, &nfErr):
		return fiber.StatusNotFound, "NOT_FOUND", notFoundMessage(nfErr)
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "NOT_FOUND", "Recurso no encontrado"
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return fiber.StatusBadRequest, "EMAIL_EXISTS", "El email ya está registrado"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return fiber.StatusUnauthorized, "INVALID_CREDENTIALS", "Credenciales inválidas"
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, "UNAUTHORIZED", "No autorizado"
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, "FORBIDDEN", "No tienes permiso para esta operación"
	case errors.Is(err, domain.ErrEmptyCart):
		return fiber.StatusBadRequest, "EMPTY_CART", "El carrito está vacío"
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusBadRequest, "CONFLICT", "La operación entra en conflicto con el estado actual"
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, "VALIDATION", "Datos inválidos"
	case errors.As(err, &fErr):
		return fErr.Code, fiberCode(fErr.Code), fErr.Message
	default:
		return fiber.StatusInternalServerError, "INTERNAL", "Error interno del servidor"
	}
}

func notFoundMessage(e *domain.NotFoundError) string {
	switch {
	case errors.Is(e.Kind, domain.ErrProductNotFound):
		return fmt.Sprintf("Producto %s no encontrado", e.ID)
	case errors.Is(e.Kind, domain.ErrOrderNotFound):
		return "Pedido no encontrado"
	case errors.Is(e.Kind, domain.ErrUserNotFound):
		return "Usuario no encontrado"
	}
	return "Recurso no encontrado"
}

func fiberCode(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusRequestEntityTooLarge:
		return "BODY_TOO_LARGE"
	case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
		return "INVALID_BODY"
	}
	if status >= fiber.StatusInternalServerError {
		return "INTERNAL"
	}
	return "ERROR"
}
