package services

import (
	"fmt"
	"os"
	"path/filepath"

	"payments-module/models"

	"github.com/jung-kurt/gofpdf"
)

// GenerateReceiptPDF creates a payment receipt PDF and returns the path
// of the written file. The caller is responsible for cleanup.
func GenerateReceiptPDF(payment *models.Payment, enrollment models.Enrollment, userName string) (string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Payment Receipt")
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(40, 10, fmt.Sprintf("Dear %s,", userName))
	pdf.Ln(12)
	pdf.Cell(40, 10, "Thank you for your payment. Your enrollment is confirmed.")
	pdf.Ln(12)
	pdf.Cell(40, 10, fmt.Sprintf("Order ID: %s", payment.RazorpayOrderID))
	pdf.Ln(8)
	pdf.Cell(40, 10, fmt.Sprintf("Course: %s", enrollment.CourseSlug))
	pdf.Ln(8)
	pdf.Cell(40, 10, fmt.Sprintf("Amount: %.2f %s", payment.AmountINR, payment.Currency))
	pdf.Ln(8)
	pdf.Cell(40, 10, fmt.Sprintf("Receipt: %s", payment.Receipt))
	pdf.Ln(12)
	pdf.Cell(40, 10, "Best regards,")
	pdf.Ln(8)
	pdf.Cell(40, 10, "Student Services Team")

	fileName := filepath.Join(os.TempDir(), fmt.Sprintf("receipt_%s.pdf", payment.RazorpayOrderID))
	if err := pdf.OutputFileAndClose(fileName); err != nil {
		return "", fmt.Errorf("error generating receipt PDF: %w", err)
	}

	return fileName, nil
}
