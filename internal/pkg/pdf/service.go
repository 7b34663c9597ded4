// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/pharmacy-dashboard/internal/config"
	"github.com/your-org/pharmacy-dashboard/internal/domain/slip"
	"github.com/your-org/pharmacy-dashboard/internal/domain/transfer"
)

// Service handles PDF generation for printable documents
type Service struct {
	config *config.Config
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
	}
}

// GenerateSlipDocument generates a printable document for a stock slip
func (s *Service) GenerateSlipDocument(doc *slip.Slip) (*bytes.Buffer, error) {
	data := slipData{
		Slip:        doc,
		Title:       slipTitle(doc.Type),
		PrintedDate: time.Now().Format("January 2, 2006"),
		CompanyName: s.config.App.CompanyName,
	}

	htmlContent, err := renderTemplate("slip", slipTemplate, data)
	if err != nil {
		return nil, err
	}
	return s.renderPDF(htmlContent)
}

// GenerateTransferManifest generates a printable manifest for a transfer,
// including its current allocation preview.
func (s *Service) GenerateTransferManifest(req *transfer.Request, preview *transfer.Preview) (*bytes.Buffer, error) {
	data := manifestData{
		Request:     req,
		Preview:     preview,
		PrintedDate: time.Now().Format("January 2, 2006"),
		CompanyName: s.config.App.CompanyName,
	}

	htmlContent, err := renderTemplate("manifest", manifestTemplate, data)
	if err != nil {
		return nil, err
	}
	return s.renderPDF(htmlContent)
}

func (s *Service) renderPDF(htmlContent string) (*bytes.Buffer, error) {
	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.Grayscale.Set(false)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)
	page.Zoom.Set(0.95)

	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

func renderTemplate(name, text string, data interface{}) (string, error) {
	tmpl := template.Must(template.New(name).Parse(text))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

func slipTitle(t slip.Type) string {
	if t == slip.TypeImport {
		return "Goods Receipt Slip"
	}
	return "Stock Export Slip"
}

type slipData struct {
	Slip        *slip.Slip
	Title       string
	PrintedDate string
	CompanyName string
}

type manifestData struct {
	Request     *transfer.Request
	Preview     *transfer.Preview
	PrintedDate string
	CompanyName string
}
