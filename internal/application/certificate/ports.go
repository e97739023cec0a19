package certificate

import (
	"context"

	"github.com/jhoicas/capacita-api/internal/domain/entity"
)

// PDFGenerator puerto de salida que dibuja el certificado.
// verifyURL es la dirección codificada en el QR.
type PDFGenerator interface {
	GenerateCertificatePDF(ctx context.Context, cert *entity.Certificate, issuerName, verifyURL string) ([]byte, error)
}
