package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"payments-module/config"
)

func signHex(secret string, message []byte) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(message)
	return hex.EncodeToString(h.Sum(nil))
}

func TestVerifyCheckoutSignature(t *testing.T) {
	config.AppConfig.RazorpayKeySecret = "test_key_secret"

	orderID := "order_abc123"
	paymentID := "pay_xyz789"
	valid := signHex("test_key_secret", []byte(orderID+"|"+paymentID))

	if !VerifyCheckoutSignature(orderID, paymentID, valid) {
		t.Fatal("expected valid signature to verify")
	}

	t.Run("mutated order id", func(t *testing.T) {
		if VerifyCheckoutSignature("order_abc124", paymentID, valid) {
			t.Error("expected verification to fail for mutated order id")
		}
	})

	t.Run("mutated payment id", func(t *testing.T) {
		if VerifyCheckoutSignature(orderID, "pay_xyz780", valid) {
			t.Error("expected verification to fail for mutated payment id")
		}
	})

	t.Run("mutated signature", func(t *testing.T) {
		mutated := []byte(valid)
		if mutated[0] == 'a' {
			mutated[0] = 'b'
		} else {
			mutated[0] = 'a'
		}
		if VerifyCheckoutSignature(orderID, paymentID, string(mutated)) {
			t.Error("expected verification to fail for mutated signature")
		}
	})

	t.Run("unconfigured secret fails closed", func(t *testing.T) {
		config.AppConfig.RazorpayKeySecret = ""
		defer func() { config.AppConfig.RazorpayKeySecret = "test_key_secret" }()
		if VerifyCheckoutSignature(orderID, paymentID, valid) {
			t.Error("expected verification to fail without a configured secret")
		}
	})
}

func TestVerifyWebhookSignature(t *testing.T) {
	config.AppConfig.RazorpayWebhookSecret = "test_webhook_secret"

	body := []byte(`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_1"}}}}`)
	valid := signHex("test_webhook_secret", body)

	if !VerifyWebhookSignature(body, valid) {
		t.Fatal("expected valid webhook signature to verify")
	}

	t.Run("depends on exact raw bytes", func(t *testing.T) {
		// Same logical JSON, different key order: must fail.
		reordered := []byte(`{"payload":{"payment":{"entity":{"id":"pay_1"}}},"event":"payment.captured"}`)
		if VerifyWebhookSignature(reordered, valid) {
			t.Error("expected reordered JSON to fail verification")
		}
	})

	t.Run("whitespace changes invalidate", func(t *testing.T) {
		spaced := []byte(`{"event": "payment.captured","payload":{"payment":{"entity":{"id":"pay_1"}}}}`)
		if VerifyWebhookSignature(spaced, valid) {
			t.Error("expected whitespace change to fail verification")
		}
	})

	t.Run("single byte mutation invalidates", func(t *testing.T) {
		mutated := append([]byte(nil), body...)
		mutated[len(mutated)-2] ^= 1
		if VerifyWebhookSignature(mutated, valid) {
			t.Error("expected mutated body to fail verification")
		}
	})

	t.Run("unconfigured secret fails closed", func(t *testing.T) {
		config.AppConfig.RazorpayWebhookSecret = ""
		defer func() { config.AppConfig.RazorpayWebhookSecret = "test_webhook_secret" }()
		if VerifyWebhookSignature(body, valid) {
			t.Error("expected verification to fail without a configured secret")
		}
	})
}
