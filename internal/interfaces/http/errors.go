package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/capacita-api/internal/application/dto"
	"github.com/jhoicas/capacita-api/internal/domain"
)

// domainErrors sentinel -> respuesta HTTP, en orden de evaluación.
var domainErrors = []struct {
	err    error
	status int
	code   string
}{
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrEmailExists, fiber.StatusConflict, "EMAIL_EXISTS"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrUserNotFound, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
}

// writeError traduce errores de dominio a respuestas HTTP.
// Los errores no mapeados se registran y responden 500 sin exponer el detalle.
func writeError(c *fiber.Ctx, err error) error {
	for _, m := range domainErrors {
		if errors.Is(err, m.err) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: publicMessage(err, m.err)})
		}
	}
	requestLogger(c).Error().Err(err).Str("path", c.Path()).Msg("error no controlado")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "erro interno"})
}

// publicMessage devuelve el detalle que sigue al sentinel ("entrada inválida: x" -> "x")
// o el texto del sentinel si no hay detalle. Los prefijos de contexto internos se descartan.
func publicMessage(err, sentinel error) string {
	msg, s := err.Error(), sentinel.Error()
	if i := strings.Index(msg, s+": "); i >= 0 {
		if rest := msg[i+len(s)+2:]; rest != "" {
			return rest
		}
	}
	return s
}
