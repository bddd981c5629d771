package services

import (
	"testing"
	"time"

	"payments-module/models"
)

func TestBuildPaymentsWorkbook(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	payments := []models.Payment{
		{
			ID: 1, UserID: 7, Purpose: "course_enrollment", CourseSlug: "go-basics",
			AmountINR: 500, Currency: "INR", Status: models.StatusPaid,
			RazorpayOrderID: "order_abc", RazorpayPaymentID: "pay_xyz",
			RefundStatus: models.RefundNone, CreatedAt: now, PaidAt: &now,
		},
		{
			ID: 2, UserID: 8, Purpose: "accommodation", AmountINR: 1200, Currency: "INR",
			Status: models.StatusCreated, RazorpayOrderID: "order_def",
			RefundStatus: models.RefundNone, CreatedAt: now,
		},
	}

	f, err := BuildPaymentsWorkbook(payments)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := f.GetCellValue("Payments", "A1")
	if err != nil {
		t.Fatalf("error reading header cell: %v", err)
	}
	if got != "ID" {
		t.Errorf("expected header ID, got %q", got)
	}

	got, err = f.GetCellValue("Payments", "H2")
	if err != nil {
		t.Fatalf("error reading order cell: %v", err)
	}
	if got != "order_abc" {
		t.Errorf("expected order_abc in H2, got %q", got)
	}

	got, err = f.GetCellValue("Payments", "G3")
	if err != nil {
		t.Fatalf("error reading status cell: %v", err)
	}
	if got != models.StatusCreated {
		t.Errorf("expected %q in G3, got %q", models.StatusCreated, got)
	}

	// paid_at empty for the unpaid row
	got, err = f.GetCellValue("Payments", "M3")
	if err != nil {
		t.Fatalf("error reading paid_at cell: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty paid_at for created payment, got %q", got)
	}
}
