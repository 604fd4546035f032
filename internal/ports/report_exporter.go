package ports

import (
	"io"
	"route-optimizer-service/internal/domain"
)

// Contract for rendering an itinerary into a downloadable document.
type ReportExporter interface {
	Export(w io.Writer, report domain.ItineraryReport) error
	ContentType() string
	Filename() string
}
