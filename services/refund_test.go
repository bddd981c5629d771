package services

import "testing"

func TestValidateRefundAmount(t *testing.T) {
	const captured = 100000 // 1000 INR in paise

	t.Run("full refund allowed", func(t *testing.T) {
		if err := ValidateRefundAmount(captured, captured, 0); err != nil {
			t.Errorf("expected full refund to validate, got: %v", err)
		}
	})

	t.Run("partial refund allowed", func(t *testing.T) {
		if err := ValidateRefundAmount(40000, captured, 0); err != nil {
			t.Errorf("expected partial refund to validate, got: %v", err)
		}
	})

	t.Run("rejects amount above capture", func(t *testing.T) {
		if err := ValidateRefundAmount(captured+1, captured, 0); err == nil {
			t.Error("expected error for refund above captured amount")
		}
	})

	t.Run("cumulative balance is enforced", func(t *testing.T) {
		// 600 already refunded; only 400 remains
		if err := ValidateRefundAmount(40000, captured, 60000); err != nil {
			t.Errorf("expected refund up to remaining balance to validate, got: %v", err)
		}
		if err := ValidateRefundAmount(40001, captured, 60000); err == nil {
			t.Error("expected error for refund exceeding remaining balance")
		}
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		if err := ValidateRefundAmount(0, captured, 0); err == nil {
			t.Error("expected error for zero refund amount")
		}
		if err := ValidateRefundAmount(-1, captured, 0); err == nil {
			t.Error("expected error for negative refund amount")
		}
	})
}
