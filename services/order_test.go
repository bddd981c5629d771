package services

import (
	"strings"
	"testing"
	"time"

	"payments-module/models"
)

func TestBuildReceipt(t *testing.T) {
	now := time.Unix(1700000000, 0)

	t.Run("sanitizes and prefixes purpose", func(t *testing.T) {
		receipt := BuildReceipt("Course_Enrollment", now)
		if !strings.HasPrefix(receipt, "courseenro_rcpt_") {
			t.Errorf("unexpected receipt prefix: %s", receipt)
		}
		if !strings.HasSuffix(receipt, "1700000000") {
			t.Errorf("expected timestamp suffix, got: %s", receipt)
		}
	})

	t.Run("never exceeds gateway limit", func(t *testing.T) {
		receipt := BuildReceipt(strings.Repeat("accommodation-booking", 5), now)
		if len(receipt) > 40 {
			t.Errorf("receipt length %d exceeds 40: %s", len(receipt), receipt)
		}
	})

	t.Run("purpose prefix capped at ten chars", func(t *testing.T) {
		receipt := BuildReceipt("abcdefghijklmnop", now)
		if !strings.HasPrefix(receipt, "abcdefghij_rcpt_") {
			t.Errorf("expected 10-char prefix, got: %s", receipt)
		}
	})
}

func TestToPaise(t *testing.T) {
	cases := []struct {
		amount float64
		want   int64
	}{
		{1000, 100000},
		{499.99, 49999},
		{0.01, 1},
		{10.005, 1001}, // rounds, not truncates
	}
	for _, tc := range cases {
		if got := ToPaise(tc.amount); got != tc.want {
			t.Errorf("ToPaise(%v) = %d, want %d", tc.amount, got, tc.want)
		}
	}
}

func TestApplyReferralPrice(t *testing.T) {
	referral := 500.0

	t.Run("institute referral with positive referral price", func(t *testing.T) {
		final, applied := ApplyReferralPrice(1000, &referral, models.RoleInstitute)
		if !applied || final != 500 {
			t.Errorf("expected (500, true), got (%v, %v)", final, applied)
		}
	})

	t.Run("non-institute referrer pays base price", func(t *testing.T) {
		final, applied := ApplyReferralPrice(1000, &referral, models.RoleStudent)
		if applied || final != 1000 {
			t.Errorf("expected (1000, false), got (%v, %v)", final, applied)
		}
	})

	t.Run("course without referral price", func(t *testing.T) {
		final, applied := ApplyReferralPrice(1000, nil, models.RoleInstitute)
		if applied || final != 1000 {
			t.Errorf("expected (1000, false), got (%v, %v)", final, applied)
		}
	})

	t.Run("non-positive referral price ignored", func(t *testing.T) {
		zero := 0.0
		final, applied := ApplyReferralPrice(1000, &zero, models.RoleInstitute)
		if applied || final != 1000 {
			t.Errorf("expected (1000, false), got (%v, %v)", final, applied)
		}
	})
}

func TestValidateOrderRequest(t *testing.T) {
	base := CreateOrderRequest{
		UserID:     1,
		Amount:     1000,
		Currency:   "INR",
		Purpose:    "course_enrollment",
		CourseSlug: "go-basics",
	}

	if err := ValidateOrderRequest(base); err != nil {
		t.Fatalf("expected valid request, got: %v", err)
	}

	t.Run("rejects non-positive amount", func(t *testing.T) {
		req := base
		req.Amount = 0
		if err := ValidateOrderRequest(req); err == nil {
			t.Error("expected error for zero amount")
		}
	})

	t.Run("rejects bad currency", func(t *testing.T) {
		for _, currency := range []string{"inr", "INRR", "IN", "123"} {
			req := base
			req.Currency = currency
			if err := ValidateOrderRequest(req); err == nil {
				t.Errorf("expected error for currency %q", currency)
			}
		}
	})

	t.Run("rejects empty purpose", func(t *testing.T) {
		req := base
		req.Purpose = "   "
		if err := ValidateOrderRequest(req); err == nil {
			t.Error("expected error for blank purpose")
		}
	})

	t.Run("rejects unknown purpose model", func(t *testing.T) {
		req := base
		req.PurposeModel = models.PurposeModel("lead")
		if err := ValidateOrderRequest(req); err == nil {
			t.Error("expected error for unknown purpose model")
		}
	})

	t.Run("course enrollment requires slug", func(t *testing.T) {
		req := base
		req.CourseSlug = ""
		if err := ValidateOrderRequest(req); err == nil {
			t.Error("expected error for enrollment without course slug")
		}
	})
}
