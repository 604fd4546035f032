package export

import (
	"bytes"
	"fmt"
	"route-optimizer-service/internal/domain"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleReport() domain.ItineraryReport {
	return domain.ItineraryReport{
		Stops:           []string{"Depot, Main St", "B Street", "C Avenue"},
		TotalDistanceKm: 0.03,
		TotalTimeMin:    2.5,
	}
}

func TestExcelExporterLayout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewExcelExporter().Export(&buf, sampleReport()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	require.Equal(t, []string{"Route Plan"}, f.GetSheetList())

	rows, err := f.GetRows("Route Plan")
	require.NoError(t, err)
	require.Len(t, rows, 7)
	require.Equal(t, []string{"Stop Number", "Address"}, rows[0])
	require.Equal(t, []string{"1", "Depot, Main St"}, rows[1])
	require.Equal(t, []string{"2", "B Street"}, rows[2])
	require.Equal(t, []string{"3", "C Avenue"}, rows[3])
	require.Empty(t, rows[4])
	require.Equal(t, []string{"Total Distance (km)", "0.03"}, rows[5])
	require.Equal(t, []string{"Estimated Time (min)", "2.5"}, rows[6])
}

func TestExcelExporterEmptyItinerary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewExcelExporter().Export(&buf, domain.ItineraryReport{}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue("Route Plan", "A3")
	require.NoError(t, err)
	require.Equal(t, "Total Distance (km)", v)
}

func TestPDFExporterWritesDocument(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPDFExporter().Export(&buf, sampleReport()))

	require.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	require.Contains(t, buf.String(), "%EOF")
}

func TestLayoutPDFSinglePage(t *testing.T) {
	pages := layoutPDF(sampleReport())
	require.Len(t, pages, 1)

	var texts []string
	for _, l := range pages[0] {
		texts = append(texts, l.text)
	}
	require.Equal(t, []string{
		"Delivery Route Plan",
		"Stop 1: Depot, Main St",
		"Stop 2: B Street",
		"Stop 3: C Avenue",
		"Total Distance: 0.03 km",
		"Estimated Time: 2.5 minutes",
	}, texts)

	// Totals sit half a line below the last stop.
	require.Equal(t, 72.0+3*20+10, pages[0][4].y)
}

func TestLayoutPDFPaginatesLongRoutes(t *testing.T) {
	stops := make([]string, 80)
	for i := range stops {
		stops[i] = fmt.Sprintf("Stop address %d", i)
	}

	pages := layoutPDF(domain.ItineraryReport{Stops: stops})
	require.Greater(t, len(pages), 1)

	total := 0
	for _, page := range pages {
		for _, l := range page {
			require.LessOrEqual(t, l.y, pdfBottom)
		}
		total += len(page)
	}
	require.Equal(t, 1+len(stops)+2, total)

	var buf bytes.Buffer
	require.NoError(t, NewPDFExporter().Export(&buf, domain.ItineraryReport{Stops: stops}))
}

func TestExporterMetadata(t *testing.T) {
	require.Equal(t, "route_plan.pdf", NewPDFExporter().Filename())
	require.Equal(t, "application/pdf", NewPDFExporter().ContentType())
	require.Equal(t, "route_plan.xlsx", NewExcelExporter().Filename())
}
