package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-api/pkg/logger"
)

// RequestLogger registra una línea por petición con método, ruta, status y latencia.
func RequestLogger(log *logger.Logger) fiber.Handler {
	httpLog := log.Component("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			// El ErrorHandler aún no escribió la respuesta.
			status, _, _ = mapError(err)
		}

		event := httpLog.Info()
		if status >= fiber.StatusInternalServerError {
			event = httpLog.Error()
		} else if status >= fiber.StatusBadRequest {
			event = httpLog.Warn()
		}
		event.
			Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("ip", c.IP()).
			Msg("request")
		return err
	}
}
