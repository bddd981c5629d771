package services

import (
	"fmt"
	"time"

	"payments-module/models"

	"github.com/xuri/excelize/v2"
)

var exportHeaders = []string{
	"ID", "User ID", "Purpose", "Course Slug", "Amount (INR)", "Currency",
	"Status", "Order ID", "Payment ID", "Refund Status", "Refunded (INR)",
	"Created At", "Paid At",
}

// BuildPaymentsWorkbook renders payments into an Excel workbook for the
// admin export endpoint.
func BuildPaymentsWorkbook(payments []models.Payment) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Payments"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("error renaming sheet: %w", err)
	}

	for col, header := range exportHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	formatTime := func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format(time.RFC3339)
	}

	for i, p := range payments {
		row := []interface{}{
			p.ID, p.UserID, p.Purpose, p.CourseSlug, p.AmountINR, p.Currency,
			p.Status, p.RazorpayOrderID, p.RazorpayPaymentID, p.RefundStatus,
			float64(p.AmountRefundedPaise) / 100,
			p.CreatedAt.Format(time.RFC3339), formatTime(p.PaidAt),
		}
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	return f, nil
}
