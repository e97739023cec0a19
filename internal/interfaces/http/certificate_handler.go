package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/capacita-api/internal/application/certificate"
	"github.com/jhoicas/capacita-api/internal/application/dto"
)

// HeaderCertificateCode código de verificación del certificado emitido.
const HeaderCertificateCode = "X-Certificate-Code"

// CertificateHandler emite certificados de conclusión en PDF.
type CertificateHandler struct {
	uc *certificate.UseCase
}

// NewCertificateHandler construye el handler.
func NewCertificateHandler(uc *certificate.UseCase) *CertificateHandler {
	return &CertificateHandler{uc: uc}
}

// Generate godoc
// @Summary      Emitir certificado
// @Tags         certificates
// @Security     Bearer
// @Accept       json
// @Produce      application/pdf
// @Param        body  body  dto.CertificateRequest  true  "alumno, curso y carga horaria"
// @Success      200   {file}  binary
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/certificates [post]
func (h *CertificateHandler) Generate(c *fiber.Ctx) error {
	var in dto.CertificateRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	pdfBytes, filename, code, err := h.uc.Generate(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Set(HeaderCertificateCode, code)
	return c.Send(pdfBytes)
}
