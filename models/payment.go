package models

import "time"

// Payment statuses. Transitions only move forward along the lifecycle;
// a paid record is never reverted to created/attempted.
const (
	StatusCreated           = "created"
	StatusAttempted         = "attempted"
	StatusPaid              = "paid"
	StatusFailed            = "failed"
	StatusRefunded          = "refunded"
	StatusPartiallyRefunded = "partially_refunded"
)

// Refund statuses. Pending until the gateway settles the refund and
// confirms via refund.processed / refund.failed webhooks.
const (
	RefundNone      = "none"
	RefundPending   = "pending"
	RefundProcessed = "processed"
	RefundFailed    = "failed"
)

// PurposeModel tags what kind of record a payment funds. Constrained to
// a fixed set rather than a free-text model name.
type PurposeModel string

const (
	PurposeModelNone          PurposeModel = ""
	PurposeModelCourse        PurposeModel = "course"
	PurposeModelAccommodation PurposeModel = "accommodation"
	PurposeModelService       PurposeModel = "service"
)

// Valid reports whether pm is one of the known reference kinds.
func (pm PurposeModel) Valid() bool {
	switch pm {
	case PurposeModelNone, PurposeModelCourse, PurposeModelAccommodation, PurposeModelService:
		return true
	}
	return false
}

// PurposeCourseEnrollment is the purpose string that triggers referral
// pricing and enrollment activation.
const PurposeCourseEnrollment = "course_enrollment"

// Payment represents one attempted or completed monetary transaction.
// Rows are never deleted; they are the financial audit trail.
type Payment struct {
	ID     int `json:"id"`
	UserID int `json:"user_id"`

	Purpose      string       `json:"purpose"`
	PurposeID    *int         `json:"purpose_id,omitempty"`
	PurposeModel PurposeModel `json:"purpose_model,omitempty"`
	CourseSlug   string       `json:"course_slug,omitempty"`

	AmountPaise int64   `json:"amount_paise"`
	AmountINR   float64 `json:"amount_inr"`
	Currency    string  `json:"currency"`

	Status string `json:"status"`

	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id,omitempty"`
	RazorpaySignature string `json:"razorpay_signature,omitempty"`
	Receipt           string `json:"receipt"`

	ReferralCode    string `json:"referral_code,omitempty"`
	ReferralApplied bool   `json:"referral_applied"`

	RefundID            string     `json:"refund_id,omitempty"`
	RefundAmountPaise   int64      `json:"refund_amount_paise,omitempty"`
	AmountRefundedPaise int64      `json:"amount_refunded_paise"`
	RefundStatus        string     `json:"refund_status"`
	RefundReason        string     `json:"refund_reason,omitempty"`
	RefundedAt          *time.Time `json:"refunded_at,omitempty"`

	WebhookVerified bool   `json:"webhook_verified"`
	WebhookEvent    string `json:"webhook_event,omitempty"`

	FailureReason string     `json:"failure_reason,omitempty"`
	FailedAt      *time.Time `json:"failed_at,omitempty"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RazorpayOrder is the client-facing result of order creation.
type RazorpayOrder struct {
	OrderID             string  `json:"order_id"`
	Amount              int64   `json:"amount"`
	Currency            string  `json:"currency"`
	KeyID               string  `json:"key_id"`
	Receipt             string  `json:"receipt"`
	PaymentDBID         int     `json:"payment_db_id"`
	ReferralApplied     bool    `json:"referral_applied"`
	FinalAmountInRupees float64 `json:"final_amount_in_rupees"`
}
