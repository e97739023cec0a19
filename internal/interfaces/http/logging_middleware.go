package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/capacita-api/pkg/logger"
)

const localLogger = "logger"

// RequestLogger registra cada petición con su request id, status y latencia.
// Debe ir después de requestid.New() para que el id esté disponible.
func RequestLogger(log *logger.Logger) fiber.Handler {
	if log == nil {
		log = logger.Nop()
	}
	log = log.Component("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		reqLog := log.With("request_id", c.GetRespHeader(fiber.HeaderXRequestID))
		c.Locals(localLogger, reqLog)

		err := c.Next()
		if err != nil {
			// Deja que el ErrorHandler fije el status antes de registrar.
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		ev := reqLog.Info()
		if status >= fiber.StatusInternalServerError {
			ev = reqLog.Error()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("ip", c.IP()).
			Msg("request")
		return nil
	}
}

// requestLogger devuelve el logger de la petición o uno que descarta todo.
func requestLogger(c *fiber.Ctx) *logger.Logger {
	if l, ok := c.Locals(localLogger).(*logger.Logger); ok {
		return l
	}
	return logger.Nop()
}
