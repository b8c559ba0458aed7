package appointment

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

var doctorReportHeader = []string{
	"Doctor ID",
	"Doctor Name",
	"Bookings",
}

const doctorReportSheet = "Doctor Bookings"

// buildDoctorReport renders the per-doctor booking counts as an xlsx
// workbook for download from the admin dashboard.
func buildDoctorReport(rows []DoctorBookings) ([]byte, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(doctorReportSheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range doctorReportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetCellValue(doctorReportSheet, cell, header); err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetCellStyle(doctorReportSheet, cell, cell, headerStyle); err != nil {
			f.Close()
			return nil, err
		}
	}

	for i, row := range rows {
		values := []any{row.DoctorProfileID, row.DoctorName, row.BookingCount}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				f.Close()
				return nil, err
			}
			if err := f.SetCellValue(doctorReportSheet, cell, value); err != nil {
				f.Close()
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
