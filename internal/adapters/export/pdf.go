package export

import (
	"fmt"
	"io"
	"route-optimizer-service/internal/domain"

	"github.com/go-pdf/fpdf"
)

// Page geometry in points on a US Letter page (612×792), measured from the top.
const (
	pdfLeft       = 100.0
	pdfTitleY     = 42.0
	pdfFirstLineY = 72.0
	pdfLineHeight = 20.0
	pdfBottom     = 742.0
	pdfFontSize   = 12.0
)

type pdfLine struct {
	y    float64
	text string
}

// PDFExporter renders an itinerary as a paginated text document.
type PDFExporter struct{}

func NewPDFExporter() *PDFExporter { return &PDFExporter{} }

func (PDFExporter) ContentType() string { return "application/pdf" }

func (PDFExporter) Filename() string { return "route_plan.pdf" }

func (PDFExporter) Export(w io.Writer, report domain.ItineraryReport) error {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetTitle("Delivery Route Plan", true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetFont("Helvetica", "", pdfFontSize)

	// Core fonts are cp1252; translate so accented addresses render.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, page := range layoutPDF(report) {
		pdf.AddPage()
		for _, l := range page {
			pdf.Text(pdfLeft, l.y, tr(l.text))
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("export pdf: %w", err)
	}
	return nil
}

// layoutPDF places the title, one line per stop and the two totals lines,
// starting a new page whenever the next line would pass the bottom margin.
func layoutPDF(report domain.ItineraryReport) [][]pdfLine {
	pages := [][]pdfLine{{{y: pdfTitleY, text: "Delivery Route Plan"}}}
	y := pdfFirstLineY

	add := func(text string) {
		if y > pdfBottom {
			pages = append(pages, nil)
			y = pdfTitleY
		}
		last := len(pages) - 1
		pages[last] = append(pages[last], pdfLine{y: y, text: text})
		y += pdfLineHeight
	}

	for i, stop := range report.Stops {
		add(fmt.Sprintf("Stop %d: %s", i+1, stop))
	}

	y += pdfLineHeight / 2
	add(fmt.Sprintf("Total Distance: %s km", formatNumber(report.TotalDistanceKm)))
	add(fmt.Sprintf("Estimated Time: %s minutes", formatNumber(report.TotalTimeMin)))

	return pages
}
