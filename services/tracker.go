package services

import (
	"payments-module/db"
	appErrors "payments-module/errors"
	"payments-module/logger"
	"payments-module/metrics"
	"payments-module/models"

	"github.com/lib/pq"
)

// transitionSources lists, per target status, the statuses a payment is
// allowed to move from. Anything else is a no-op: transitions only move
// forward, and a duplicate webhook finds zero eligible rows.
var transitionSources = map[string][]string{
	models.StatusAttempted:         {models.StatusCreated},
	models.StatusPaid:              {models.StatusCreated, models.StatusAttempted},
	models.StatusFailed:            {models.StatusCreated, models.StatusAttempted},
	models.StatusRefunded:          {models.StatusPaid, models.StatusPartiallyRefunded},
	models.StatusPartiallyRefunded: {models.StatusPaid, models.StatusPartiallyRefunded},
}

// CanTransition reports whether a payment in status from may move to to.
func CanTransition(from, to string) bool {
	for _, s := range transitionSources[to] {
		if s == from {
			return true
		}
	}
	return false
}

// MarkAttempted records a payment.authorized webhook. Authorization
// precedes capture; a capture that arrives first simply skips this state.
func MarkAttempted(orderID, paymentID, event string) (bool, error) {
	res, err := db.DB.Exec(
		`UPDATE payments
		 SET status = $1, razorpay_payment_id = COALESCE(NULLIF($2, ''), razorpay_payment_id),
		     webhook_verified = TRUE, webhook_event = $3, updated_at = CURRENT_TIMESTAMP
		 WHERE razorpay_order_id = $4 AND status = ANY($5)`,
		models.StatusAttempted, paymentID, event, orderID,
		pq.Array(transitionSources[models.StatusAttempted]))
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// MarkPaid moves a payment to paid with a single conditional update.
// Returns false without error when no eligible row was found, which is
// the idempotent no-op for duplicate delivery. An order.paid delivery
// carries no payment entity, so an empty paymentID must not clobber the
// id a payment.authorized webhook already recorded.
func MarkPaid(orderID, paymentID, signature string, viaWebhook bool, event string) (bool, error) {
	res, err := db.DB.Exec(
		`UPDATE payments
		 SET status = $1, razorpay_payment_id = COALESCE(NULLIF($2, ''), razorpay_payment_id),
		     razorpay_signature = $3,
		     paid_at = CURRENT_TIMESTAMP,
		     webhook_verified = $4, webhook_event = $5, updated_at = CURRENT_TIMESTAMP
		 WHERE razorpay_order_id = $6 AND status = ANY($7)`,
		models.StatusPaid, paymentID, signature, viaWebhook, event, orderID,
		pq.Array(transitionSources[models.StatusPaid]))
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// MarkFailed records a failed payment with its reason.
func MarkFailed(orderID, paymentID, reason string, viaWebhook bool, event string) (bool, error) {
	res, err := db.DB.Exec(
		`UPDATE payments
		 SET status = $1, razorpay_payment_id = COALESCE(NULLIF($2, ''), razorpay_payment_id),
		     failure_reason = $3, failed_at = CURRENT_TIMESTAMP,
		     webhook_verified = $4, webhook_event = $5, updated_at = CURRENT_TIMESTAMP
		 WHERE razorpay_order_id = $6 AND status = ANY($7)`,
		models.StatusFailed, paymentID, reason, viaWebhook, event, orderID,
		pq.Array(transitionSources[models.StatusFailed]))
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// MarkRefundSettled applies a refund.processed or refund.failed webhook
// to the refund sub-state. The payment status itself stays where the
// refund initiator put it; a failed settlement is surfaced through
// refund_status for admin reconciliation rather than rewinding the
// forward-only status machine.
func MarkRefundSettled(refundID, refundStatus, event string) (bool, error) {
	res, err := db.DB.Exec(
		`UPDATE payments
		 SET refund_status = $1, webhook_verified = TRUE, webhook_event = $2,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE refund_id = $3 AND refund_status = $4`,
		refundStatus, event, refundID, models.RefundPending)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// VerifyCheckoutResult is the outcome of a client checkout verification.
type VerifyCheckoutResult struct {
	Payment    *models.Payment    `json:"payment"`
	Enrollment *models.Enrollment `json:"enrollment,omitempty"`
}

// VerifyCheckout validates a client-submitted checkout signature and
// applies the corresponding transition. A signature mismatch marks the
// payment failed; money was never captured in that branch, the mismatch
// itself is the integrity signal. On success the enrollment activator
// runs synchronously, but its failure never rolls back the paid status.
func VerifyCheckout(userID int, orderID, paymentID, signature string) (*VerifyCheckoutResult, error) {
	payment, err := GetPaymentByOrderID(orderID)
	if err != nil {
		return nil, err
	}
	if payment.UserID != userID {
		return nil, appErrors.NewForbiddenError("payment belongs to another user")
	}

	if !VerifyCheckoutSignature(orderID, paymentID, signature) {
		metrics.Verifications.WithLabelValues("failed").Inc()
		if _, err := MarkFailed(orderID, paymentID, "Signature verification failed", false, ""); err != nil {
			logger.Error("Error marking payment failed for order %s: %v", orderID, err)
		}
		PublishPaymentEvent("payment.failed", map[string]interface{}{
			"user_id":  payment.UserID,
			"order_id": orderID,
			"reason":   "signature verification failed",
		})
		return nil, appErrors.NewInvalidParamsError("signature verification failed")
	}

	moved, err := MarkPaid(orderID, paymentID, signature, false, "")
	if err != nil {
		return nil, appErrors.NewInternalServerError("error updating payment status")
	}

	// Re-read after the conditional update; when moved is false the row
	// was already past created/attempted (duplicate verify or webhook won
	// the race) and the current state is returned as-is.
	payment, err = GetPaymentByOrderID(orderID)
	if err != nil {
		return nil, err
	}
	if !moved && payment.Status != models.StatusPaid &&
		payment.Status != models.StatusRefunded && payment.Status != models.StatusPartiallyRefunded {
		return nil, appErrors.NewInvalidParamsError("payment is not in a verifiable state")
	}

	if moved {
		metrics.Verifications.WithLabelValues("ok").Inc()
		PublishPaymentEvent("payment.paid", map[string]interface{}{
			"user_id":    payment.UserID,
			"order_id":   orderID,
			"payment_id": paymentID,
			"amount":     payment.AmountINR,
		})
	}

	result := &VerifyCheckoutResult{Payment: payment}

	if payment.Status == models.StatusPaid && payment.Purpose == models.PurposeCourseEnrollment && payment.CourseSlug != "" {
		enrollment, err := ActivateEnrollment(ActivateEnrollmentRequest{
			UserID:     payment.UserID,
			CourseSlug: payment.CourseSlug,
			CourseID:   payment.PurposeID,
			PaymentID:  payment.ID,
			OrderID:    orderID,
			AmountPaid: payment.AmountINR,
		})
		if err != nil {
			// The capture is the financial fact; enrollment is bookkeeping
			// that can be reconciled by replay.
			logger.Error("Enrollment activation failed for order %s: %v", orderID, err)
		} else {
			result.Enrollment = enrollment
		}
	}

	return result, nil
}
