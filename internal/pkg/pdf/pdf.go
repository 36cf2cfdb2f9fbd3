package pdf

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/cmlabs-hris/timesheet-points-go/internal/domain/points"
)

// wideColumn gets a double-width share; missed-date lists are long.
const wideColumn = "Missed Dates"

// Render converts a report table into PDF bytes, landscape A4 with a
// bordered grid.
func Render(tbl points.Table) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, tbl.Title, "", 1, "C", false, 0, "")
	pdf.Ln(2)

	widths := columnWidths(pdf, tbl.Columns)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, col := range tbl.Columns {
		pdf.CellFormat(widths[i], 8, col, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, row := range tbl.Rows {
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			pdf.CellFormat(widths[i], 7, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func columnWidths(pdf *gofpdf.Fpdf, columns []string) []float64 {
	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	usable := pageWidth - left - right

	shares := 0.0
	for _, col := range columns {
		if col == wideColumn {
			shares += 2
		} else {
			shares++
		}
	}
	if shares == 0 {
		return nil
	}

	widths := make([]float64, len(columns))
	unit := usable / shares
	for i, col := range columns {
		if col == wideColumn {
			widths[i] = unit * 2
		} else {
			widths[i] = unit
		}
	}
	return widths
}
