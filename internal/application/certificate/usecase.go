// Package certificate emite certificados de conclusión de curso en PDF.
package certificate

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/capacita-api/internal/application/dto"
	"github.com/jhoicas/capacita-api/internal/domain"
	"github.com/jhoicas/capacita-api/internal/domain/entity"
	"github.com/jhoicas/capacita-api/pkg/logger"
)

var unsafeFilename = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// UseCase genera el PDF con un código de verificación nuevo por emisión.
type UseCase struct {
	generator     PDFGenerator
	verifyBaseURL string
	issuerName    string
	log           *logger.Logger
	now           func() time.Time
}

// NewUseCase construye el caso de uso. verifyBaseURL sin barra final.
func NewUseCase(generator PDFGenerator, verifyBaseURL, issuerName string, log *logger.Logger) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{
		generator:     generator,
		verifyBaseURL: strings.TrimRight(verifyBaseURL, "/"),
		issuerName:    issuerName,
		log:           log.Component("certificates"),
		now:           time.Now,
	}
}

// Generate valida la solicitud y devuelve (pdf, nombre de archivo, código de verificación).
func (uc *UseCase) Generate(ctx context.Context, in dto.CertificateRequest) (pdfBytes []byte, filename, code string, err error) {
	student := strings.TrimSpace(in.StudentName)
	course := strings.TrimSpace(in.CourseTitle)
	if student == "" || course == "" {
		return nil, "", "", fmt.Errorf("%w: student_name e course_title são obrigatórios", domain.ErrInvalidInput)
	}
	if in.WorkloadHours < 0 {
		return nil, "", "", fmt.Errorf("%w: workload_hours não pode ser negativo", domain.ErrInvalidInput)
	}
	now := uc.now()
	completed := now
	if s := strings.TrimSpace(in.CompletedAt); s != "" {
		if completed, err = time.Parse("2006-01-02", s); err != nil {
			return nil, "", "", fmt.Errorf("%w: completed_at deve ter o formato AAAA-MM-DD", domain.ErrInvalidInput)
		}
	}

	cert := &entity.Certificate{
		Code:           uuid.New().String(),
		StudentName:    student,
		CourseTitle:    course,
		WorkloadHours:  in.WorkloadHours,
		CompletedAt:    completed,
		CompanyName:    strings.TrimSpace(in.CompanyName),
		InstructorName: strings.TrimSpace(in.InstructorName),
		IssuedAt:       now,
	}
	pdfBytes, err = uc.generator.GenerateCertificatePDF(ctx, cert, uc.issuerName, uc.VerifyURL(cert.Code))
	if err != nil {
		uc.log.Error().Err(err).Str("code", cert.Code).Msg("generar certificado")
		return nil, "", "", fmt.Errorf("certificado: generación fallida: %w", err)
	}
	uc.log.Info().Str("code", cert.Code).Str("course", course).Msg("certificado emitido")

	return pdfBytes, fmt.Sprintf("certificado_%s_%s.pdf", slugify(student), cert.Code[:8]), cert.Code, nil
}

// slugify "João Conceição" -> "joao-conceicao". Quita acentos antes de reemplazar lo no alfanumérico.
func slugify(s string) string {
	stripped, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err != nil {
		stripped = s
	}
	slug := strings.Trim(unsafeFilename.ReplaceAllString(strings.ToLower(stripped), "-"), "-")
	if slug == "" {
		return "aluno"
	}
	return slug
}

// VerifyURL dirección pública de verificación del código.
func (uc *UseCase) VerifyURL(code string) string {
	return uc.verifyBaseURL + "/" + code
}
