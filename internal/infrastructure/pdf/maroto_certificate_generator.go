// Package pdf dibuja el certificado de conclusión de curso.
//
// Layout de la página A4 horizontal:
//
//	┌───────────────────────────────────────────────────────────────────┐
//	│  EMISOR                                           Nº verificación │
//	│  ───────────────────────────────────────────────────────────────  │
//	│                       CERTIFICADO DE CONCLUSÃO                    │
//	│                         Nome do aluno                             │
//	│          concluiu o curso X com carga horária de N horas          │
//	│  ───────────────────────────────────────────────────────────────  │
//	│  QR de verificação │ Empresa / Instrutor / Data de emissão        │
//	└───────────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/capacita-api/internal/application/certificate"
	"github.com/jhoicas/capacita-api/internal/domain/entity"
)

var _ certificate.PDFGenerator = (*MarotoCertificateGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

const dateLayout = "02/01/2006"

// MarotoCertificateGenerator implementa certificate.PDFGenerator usando Maroto v2.
type MarotoCertificateGenerator struct{}

// NewMarotoCertificateGenerator construye el generador.
func NewMarotoCertificateGenerator() *MarotoCertificateGenerator {
	return &MarotoCertificateGenerator{}
}

// GenerateCertificatePDF genera el PDF y devuelve sus bytes.
func (g *MarotoCertificateGenerator) GenerateCertificatePDF(
	_ context.Context,
	cert *entity.Certificate,
	issuerName, verifyURL string,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(15).WithRightMargin(15).
		WithTopMargin(12).WithBottomMargin(12).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 10}).
		WithTitle("Certificado de conclusão", true).
		WithAuthor(nonEmpty(issuerName, "Capacita"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(cert, issuerName))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.6}))
	m.AddRows(row.New(12))
	m.AddRows(bodyRows(cert)...)
	m.AddRows(row.New(12))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(cert, verifyURL))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar certificado: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: emisor (izq) y código de verificación (der).
func headerRow(cert *entity.Certificate, issuerName string) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(nonEmpty(issuerName, "Capacita"), props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 2,
			}),
		),
		col.New(4).Add(
			text.New("Código de verificação", props.Text{
				Size: 7, Align: align.Right, Color: colorGray, Top: 2,
			}),
			text.New(cert.Code, props.Text{
				Size: 7, Align: align.Right, Top: 7,
			}),
		),
	)
}

func bodyRows(cert *entity.Certificate) []core.Row {
	center := func(s string, size float64, style fontstyle.Type, color *props.Color) core.Row {
		return row.New(size + 6).Add(col.New(12).Add(text.New(s, props.Text{
			Style: style, Size: size, Align: align.Center, Color: color, Top: 2,
		})))
	}
	rows := []core.Row{
		center("CERTIFICADO DE CONCLUSÃO", 22, fontstyle.Bold, colorPrimary),
		center("Certificamos que", 11, fontstyle.Normal, colorGray),
		center(cert.StudentName, 20, fontstyle.Bold, nil),
		center(courseSentence(cert), 11, fontstyle.Normal, nil),
	}
	if cert.CompanyName != "" {
		rows = append(rows, center("pela empresa "+cert.CompanyName, 10, fontstyle.Italic, colorGray))
	}
	return rows
}

// footerRow: QR de verificación + datos de emisión.
func footerRow(cert *entity.Certificate, verifyURL string) core.Row {
	details := []core.Component{
		text.New("Verifique a autenticidade em:", props.Text{
			Size: 8, Top: 4, Left: 3, Color: colorGray,
		}),
		text.New(verifyURL, props.Text{
			Size: 8, Top: 9, Left: 3, Color: colorPrimary,
		}),
		text.New("Emitido em "+cert.IssuedAt.Format(dateLayout), props.Text{
			Size: 8, Top: 16, Left: 3,
		}),
	}
	if cert.InstructorName != "" {
		details = append(details, text.New("Instrutor: "+cert.InstructorName, props.Text{
			Size: 8, Top: 21, Left: 3,
		}))
	}
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(verifyURL, props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(details...),
	)
}

func courseSentence(cert *entity.Certificate) string {
	s := fmt.Sprintf("concluiu o curso %s em %s", cert.CourseTitle, cert.CompletedAt.Format(dateLayout))
	if cert.WorkloadHours > 0 {
		s += fmt.Sprintf(", com carga horária de %d horas", cert.WorkloadHours)
	}
	return s + "."
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
