package utils

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

// Validation regex patterns
var (
	CurrencyRegex = regexp.MustCompile(`^[A-Z]{3}$`)
	purposeStrip  = regexp.MustCompile(`[^a-z0-9]`)
)

// MaxPurposeLength bounds the free-text purpose category.
const MaxPurposeLength = 64

// ValidateAmount checks that a payment amount is a finite positive number.
func ValidateAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return fmt.Errorf("invalid amount: must be a finite number")
	}
	if amount <= 0 {
		return fmt.Errorf("invalid amount: must be greater than 0")
	}
	return nil
}

// ValidateCurrency checks for a three-letter ISO currency code.
func ValidateCurrency(currency string) error {
	if !CurrencyRegex.MatchString(currency) {
		return fmt.Errorf("invalid currency: must be a 3-letter ISO code (e.g., INR)")
	}
	return nil
}

// ValidatePurpose checks the purpose category string.
func ValidatePurpose(purpose string) error {
	if strings.TrimSpace(purpose) == "" {
		return fmt.Errorf("purpose is required")
	}
	if len(purpose) > MaxPurposeLength {
		return fmt.Errorf("purpose must be less than %d characters", MaxPurposeLength)
	}
	return nil
}

// SanitizePurposePrefix lowercases purpose and strips everything but
// [a-z0-9], truncated to max characters. Used for gateway receipts.
func SanitizePurposePrefix(purpose string, max int) string {
	s := purposeStrip.ReplaceAllString(strings.ToLower(purpose), "")
	if len(s) > max {
		s = s[:max]
	}
	return s
}
