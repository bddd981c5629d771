package utils

import (
	"math"
	"strings"
	"testing"
)

func TestValidateAmount(t *testing.T) {
	for _, amount := range []float64{1, 0.01, 1870, 99999.99} {
		if err := ValidateAmount(amount); err != nil {
			t.Errorf("ValidateAmount(%v) = %v, want nil", amount, err)
		}
	}
	for _, amount := range []float64{0, -1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		if err := ValidateAmount(amount); err == nil {
			t.Errorf("ValidateAmount(%v) = nil, want error", amount)
		}
	}
}

func TestValidateCurrency(t *testing.T) {
	for _, currency := range []string{"INR", "USD", "EUR"} {
		if err := ValidateCurrency(currency); err != nil {
			t.Errorf("ValidateCurrency(%q) = %v, want nil", currency, err)
		}
	}
	for _, currency := range []string{"", "inr", "IN", "INRR", "IN1", "IN R"} {
		if err := ValidateCurrency(currency); err == nil {
			t.Errorf("ValidateCurrency(%q) = nil, want error", currency)
		}
	}
}

func TestValidatePurpose(t *testing.T) {
	if err := ValidatePurpose("course_enrollment"); err != nil {
		t.Errorf("expected valid purpose, got: %v", err)
	}
	if err := ValidatePurpose(""); err == nil {
		t.Error("expected error for empty purpose")
	}
	if err := ValidatePurpose("  "); err == nil {
		t.Error("expected error for whitespace purpose")
	}
	if err := ValidatePurpose(strings.Repeat("x", MaxPurposeLength+1)); err == nil {
		t.Error("expected error for oversized purpose")
	}
}

func TestSanitizePurposePrefix(t *testing.T) {
	cases := []struct {
		in   string
		max  int
		want string
	}{
		{"Course_Enrollment", 10, "courseenro"},
		{"accommodation", 10, "accommodat"},
		{"a-b c!d", 10, "abcd"},
		{"ABC", 10, "abc"},
		{"", 10, ""},
	}
	for _, tc := range cases {
		if got := SanitizePurposePrefix(tc.in, tc.max); got != tc.want {
			t.Errorf("SanitizePurposePrefix(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
		}
	}
}
