package export

import (
	"fmt"
	"io"
	"route-optimizer-service/internal/domain"

	"github.com/xuri/excelize/v2"
)

const excelSheet = "Route Plan"

// ExcelExporter renders an itinerary as a spreadsheet: one row per stop,
// a blank row, then the totals.
type ExcelExporter struct{}

func NewExcelExporter() *ExcelExporter { return &ExcelExporter{} }

func (ExcelExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (ExcelExporter) Filename() string { return "route_plan.xlsx" }

func (ExcelExporter) Export(w io.Writer, report domain.ItineraryReport) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("export excel: close: %w", cerr)
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), excelSheet); err != nil {
		return fmt.Errorf("export excel: rename sheet: %w", err)
	}

	rows := make([][]any, 0, len(report.Stops)+4)
	rows = append(rows, []any{"Stop Number", "Address"})
	for i, stop := range report.Stops {
		rows = append(rows, []any{i + 1, stop})
	}
	rows = append(rows,
		nil,
		[]any{"Total Distance (km)", report.TotalDistanceKm},
		[]any{"Estimated Time (min)", report.TotalTimeMin},
	)

	for i, row := range rows {
		if row == nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("export excel: cell name: %w", err)
		}
		if err := f.SetSheetRow(excelSheet, cell, &row); err != nil {
			return fmt.Errorf("export excel: write row %d: %w", i+1, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("export excel: header style: %w", err)
	}
	if err := f.SetCellStyle(excelSheet, "A1", "B1", headerStyle); err != nil {
		return fmt.Errorf("export excel: apply header style: %w", err)
	}

	if err := f.SetColWidth(excelSheet, "A", "A", 22); err != nil {
		return fmt.Errorf("export excel: column width: %w", err)
	}
	if err := f.SetColWidth(excelSheet, "B", "B", 60); err != nil {
		return fmt.Errorf("export excel: column width: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("export excel: write workbook: %w", err)
	}
	return nil
}
