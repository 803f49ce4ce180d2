package services

import (
	"context"
	"fmt"
	"io"

	"permit-portal/db"

	"github.com/xuri/excelize/v2"
)

// ExportPermitRegister writes the issued-permit register as an xlsx
// workbook, newest first. Used by the admin export endpoint.
func ExportPermitRegister(ctx context.Context, w io.Writer) error {
	rows, err := db.DB.QueryContext(ctx,
		`SELECT code, student_id, name, course, level, semester, academic_year, status, issued_at, expires_at
		 FROM permits ORDER BY issued_at DESC`)
	if err != nil {
		return fmt.Errorf("error reading permits: %w", err)
	}
	defer rows.Close()

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Permits"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Permit Code", "Student ID", "Name", "Course", "Level", "Semester", "Academic Year", "Status", "Issued", "Expires"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	rowIdx := 2
	for rows.Next() {
		var code, studentID, name, course, level, semester, year, status string
		var issuedAt, expiresAt interface{}
		if err := rows.Scan(&code, &studentID, &name, &course, &level, &semester, &year, &status, &issuedAt, &expiresAt); err != nil {
			return fmt.Errorf("error scanning permit row: %w", err)
		}

		values := []interface{}{code, studentID, name, course, level, semester, year, status, issuedAt, expiresAt}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, rowIdx)
			f.SetCellValue(sheet, cell, v)
		}
		rowIdx++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating permits: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("error writing workbook: %w", err)
	}
	return nil
}
