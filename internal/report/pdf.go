package report

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// RenderPDF lays out the summary as a single document: a totals block
// followed by one table row per claim.
func RenderPDF(summary *Summary) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Claims Summary Report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Claims Summary Report")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 8, fmt.Sprintf("Generated at %s", summary.GeneratedAt.Format("2006-01-02 15:04 MST")))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 7, "Totals")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Total claims: %d", summary.TotalClaims))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Total hours: %s", summary.TotalHours.StringFixed(2)))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Total amount: %s", summary.TotalAmount.StringFixed(2)))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Active lecturers: %d", summary.ActiveLecturers))
	pdf.Ln(12)

	headers := []string{"ID", "Lecturer", "Title", "Hours", "Amount", "Status", "Submitted"}
	widths := []float64{12, 35, 45, 16, 22, 35, 25}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, row := range summary.Rows {
		cells := []string{
			fmt.Sprintf("%d", row.ClaimID),
			truncate(row.LecturerName, 24),
			truncate(row.Title, 32),
			row.HoursWorked.StringFixed(2),
			row.Amount.StringFixed(2),
			row.Status,
			row.SubmissionDate.Format("2006-01-02"),
		}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 6, c, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
