package services

import (
	"bytes"
	"fmt"

	"permit-portal/errors"
	"permit-portal/models"

	"github.com/jung-kurt/gofpdf"
)

// validityNotice is printed on every permit document.
const validityNotice = "This permit is valid only for the examinations of the stated " +
	"semester and academic year. Present it with a student ID card. " +
	"Scan the code or visit the printed link to confirm validity."

// PermitDocumentFilename derives the download name from the permit code
// and issuance year alone, so re-renders always produce the same name.
func PermitDocumentFilename(permit *models.Permit) string {
	return fmt.Sprintf("permit_%s_%d.pdf", permit.Code, permit.IssuedAt.Year())
}

// RenderPermitDocument produces the downloadable permit PDF: all permit
// fields, the verification artifact image, and the validity notice. It
// performs no network calls; a failure here does not invalidate the
// permit and the caller may simply retry.
func RenderPermitDocument(permit *models.Permit, artifactPNG []byte) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 12, "Student Council Examination Permit", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(0, 9, fmt.Sprintf("Permit Code: %s", permit.Code), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Arial", "", 12)
	field := func(label, value string) {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(50, 8, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 12)
		pdf.CellFormat(0, 8, value, "", 1, "L", false, 0, "")
	}

	s := permit.Student
	field("Student ID:", s.StudentID)
	field("Name:", s.Name)
	field("Email:", s.Email)
	field("Course:", s.Course)
	field("Level:", s.Level)
	field("Semester:", s.Semester)
	field("Academic Year:", s.AcademicYear)
	field("Phone:", s.Phone)
	field("Status:", permit.Status)
	field("Issued:", permit.IssuedAt.Format("2 January 2006"))
	field("Expires:", permit.ExpiresAt.Format("2 January 2006"))
	pdf.Ln(6)

	if len(artifactPNG) > 0 {
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("verification-artifact", opts, bytes.NewReader(artifactPNG))
		pdf.ImageOptions("verification-artifact", 80, pdf.GetY(), 50, 50, false, opts, 0, "")
		pdf.SetY(pdf.GetY() + 54)

		pdf.SetFont("Arial", "I", 9)
		pdf.CellFormat(0, 6, VerificationURL(permit.Code), "", 1, "C", false, 0, "")
		pdf.Ln(4)
	}

	pdf.SetFont("Arial", "I", 10)
	pdf.MultiCell(0, 5, validityNotice, "", "C", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", errors.E(errors.RenderFailed, "error generating permit document", err)
	}

	return buf.Bytes(), PermitDocumentFilename(permit), nil
}
