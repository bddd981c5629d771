package models

import "time"

// Webhook processing statuses for the audit log.
const (
	WebhookReceived  = "received"
	WebhookProcessed = "processed"
	WebhookFailed    = "failed"
	WebhookIgnored   = "ignored"
)

// WebhookEvent is one row of the webhook audit log. Every verified
// delivery is recorded, including ones the processor later fails on,
// so lost events can be found and replayed.
type WebhookEvent struct {
	ID             int       `json:"id"`
	EventID        string    `json:"event_id"`
	Event          string    `json:"event"`
	Payload        string    `json:"payload"`
	SignatureValid bool      `json:"signature_valid"`
	Status         string    `json:"status"`
	Error          string    `json:"error,omitempty"`
	ReceivedAt     time.Time `json:"received_at"`
}
