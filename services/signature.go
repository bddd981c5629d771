package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"payments-module/config"
)

// VerifyCheckoutSignature verifies the signature Razorpay checkout hands
// to the client after a successful payment. The signed message is
// "{orderID}|{paymentID}" and the key is the API key secret.
func VerifyCheckoutSignature(orderID, paymentID, signature string) bool {
	secret := config.AppConfig.RazorpayKeySecret
	if secret == "" {
		return false
	}

	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(h.Sum(nil))

	// Constant-time comparison
	return hmac.Equal([]byte(expected), []byte(signature))
}

// VerifyWebhookSignature verifies the X-Razorpay-Signature header of an
// incoming webhook. The digest must be computed over the raw request
// body bytes exactly as received; re-serializing the JSON changes
// whitespace and key order and invalidates the signature. Returns false
// when the webhook secret is unconfigured, failing closed.
func VerifyWebhookSignature(payload []byte, signature string) bool {
	webhookSecret := config.AppConfig.RazorpayWebhookSecret
	if webhookSecret == "" {
		return false
	}

	h := hmac.New(sha256.New, []byte(webhookSecret))
	h.Write(payload)
	expected := hex.EncodeToString(h.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
