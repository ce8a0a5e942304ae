// Package render produces the printable certificate document.
package render

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/skilltrack/certification-service/internal/models"
)

// CertificatePDF renders a landscape A4 certificate for a course completion.
func CertificatePDF(cert *models.Certificate, courseTitle string) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	pageWidth, pageHeight := pdf.GetPageSize()

	// Border
	pdf.SetLineWidth(1.2)
	pdf.SetDrawColor(30, 60, 120)
	pdf.Rect(10, 10, pageWidth-20, pageHeight-20, "D")
	pdf.SetLineWidth(0.4)
	pdf.Rect(13, 13, pageWidth-26, pageHeight-26, "D")

	pdf.SetY(35)
	pdf.SetFont("Times", "B", 30)
	pdf.SetTextColor(30, 60, 120)
	pdf.CellFormat(0, 14, "Certificate of Completion", "", 1, "C", false, 0, "")

	pdf.Ln(8)
	pdf.SetFont("Arial", "", 13)
	pdf.SetTextColor(60, 60, 60)
	pdf.CellFormat(0, 8, "This certifies that", "", 1, "C", false, 0, "")

	pdf.Ln(2)
	pdf.SetFont("Times", "B", 22)
	pdf.SetTextColor(20, 20, 20)
	pdf.CellFormat(0, 12, fmt.Sprintf("Learner #%d", cert.LearnerID), "", 1, "C", false, 0, "")

	pdf.Ln(2)
	pdf.SetFont("Arial", "", 13)
	pdf.SetTextColor(60, 60, 60)
	pdf.CellFormat(0, 8, "has successfully completed the course", "", 1, "C", false, 0, "")

	pdf.Ln(2)
	pdf.SetFont("Times", "B", 18)
	pdf.SetTextColor(20, 20, 20)
	pdf.CellFormat(0, 10, courseTitle, "", 1, "C", false, 0, "")

	pdf.Ln(4)
	pdf.SetFont("Arial", "", 12)
	pdf.SetTextColor(60, 60, 60)
	pdf.CellFormat(0, 7,
		fmt.Sprintf("Final Grade: %.2f%%  (%s)", cert.FinalGrade, cert.LetterGrade),
		"", 1, "C", false, 0, "")
	pdf.CellFormat(0, 7,
		fmt.Sprintf("Completed on %s", cert.CompletedAt.Format("January 2, 2006")),
		"", 1, "C", false, 0, "")

	pdf.SetY(pageHeight - 38)
	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(0, 5, fmt.Sprintf("Certificate No. %s", cert.CertificateNumber), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("Issued %s", cert.IssuedAt.Format("2006-01-02")), "", 1, "C", false, 0, "")

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("failed to render certificate pdf: %w", err)
	}
	return buf.Bytes(), nil
}
