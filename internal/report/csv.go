package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
)

// RenderCSV writes one record per claim plus a header row. Totals are left
// out; a spreadsheet derives them trivially.
func RenderCSV(summary *Summary) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"claim_id", "lecturer", "title", "hours_worked", "amount", "status", "submission_date"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	for _, row := range summary.Rows {
		record := []string{
			strconv.FormatInt(row.ClaimID, 10),
			row.LecturerName,
			row.Title,
			row.HoursWorked.StringFixed(2),
			row.Amount.StringFixed(2),
			row.Status,
			row.SubmissionDate.Format("2006-01-02T15:04:05Z07:00"),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write csv record: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
