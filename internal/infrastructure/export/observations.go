package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/rahul-raghavan/pep-ops-log/internal/shared/biztime"
)

// ObservationRow is one denormalized line of the observations workbook.
type ObservationRow struct {
	ObservationSID string
	SubjectName    string
	SubjectRole    string
	CenterName     string
	LoggedBy       string
	Type           string
	Transcript     string
	ObservedAt     time.Time
	LoggedAt       time.Time
}

var headers = []string{
	"Observation ID", "Subject", "Role", "Center", "Logged By",
	"Type", "Transcript", "Observed At", "Logged At",
}

// BuildObservationsWorkbook renders the rows as a single-sheet XLSX file.
// Timestamps are shown in the business timezone.
func BuildObservationsWorkbook(rows []ObservationRow) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Observations"
	f.SetSheetName("Sheet1", sheet)

	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to build header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, row := range rows {
		values := []interface{}{
			row.ObservationSID,
			row.SubjectName,
			row.SubjectRole,
			row.CenterName,
			row.LoggedBy,
			row.Type,
			row.Transcript,
			biztime.FormatInBizTimezone(row.ObservedAt, "2006-01-02 15:04"),
			biztime.FormatInBizTimezone(row.LoggedAt, "2006-01-02 15:04"),
		}
		for j, v := range values {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return nil, fmt.Errorf("failed to build cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write row: %w", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	return buf, nil
}
