package services

import (
	"fmt"

	"payments-module/db"
	appErrors "payments-module/errors"
	"payments-module/logger"
	"payments-module/metrics"
	"payments-module/models"

	"github.com/lib/pq"
)

// RefundRequest is an admin-triggered refund against a captured payment.
type RefundRequest struct {
	PaymentDBID int
	AmountINR   float64 // 0 means refund the full remaining balance
	Reason      string
}

// RefundResult mirrors what the admin UI shows after initiating a refund.
type RefundResult struct {
	RefundID        string          `json:"refund_id"`
	RefundAmountINR float64         `json:"refund_amount_inr"`
	Status          string          `json:"status"`
	Payment         *models.Payment `json:"payment"`
}

// ValidateRefundAmount checks a requested refund (in paise) against the
// captured amount and what has already been refunded. Runs before any
// gateway call is made.
func ValidateRefundAmount(requestedPaise, capturedPaise, refundedPaise int64) error {
	if requestedPaise <= 0 {
		return appErrors.NewInvalidParamsError("refund amount must be greater than 0")
	}
	remaining := capturedPaise - refundedPaise
	if requestedPaise > remaining {
		return appErrors.NewInvalidParamsError(
			fmt.Sprintf("refund amount %d paise exceeds remaining refundable balance %d paise", requestedPaise, remaining))
	}
	return nil
}

// InitiateRefund calls the gateway refund API and records the pending
// refund. Settlement confirmation arrives later via refund.processed /
// refund.failed webhooks; this does not wait for it.
func InitiateRefund(req RefundRequest) (*RefundResult, error) {
	payment, err := GetPaymentByID(req.PaymentDBID)
	if err != nil {
		return nil, err
	}

	if !CanTransition(payment.Status, models.StatusRefunded) {
		return nil, appErrors.NewInvalidParamsError(
			fmt.Sprintf("payment in status %q cannot be refunded", payment.Status))
	}
	if payment.RazorpayPaymentID == "" {
		// Never captured, nothing to refund
		return nil, appErrors.NewInvalidParamsError("payment was never captured")
	}

	requestedPaise := ToPaise(req.AmountINR)
	if req.AmountINR <= 0 {
		requestedPaise = payment.AmountPaise - payment.AmountRefundedPaise
	}
	if err := ValidateRefundAmount(requestedPaise, payment.AmountPaise, payment.AmountRefundedPaise); err != nil {
		return nil, err
	}

	client, err := newRazorpayClient()
	if err != nil {
		return nil, err
	}

	data := map[string]interface{}{
		"notes": map[string]interface{}{
			"reason":     req.Reason,
			"payment_db": fmt.Sprintf("%d", payment.ID),
		},
	}
	resp, err := client.Payment.Refund(payment.RazorpayPaymentID, int(requestedPaise), data, nil)
	if err != nil {
		logger.Error("Error creating refund for payment %s: %v", payment.RazorpayPaymentID, err)
		return nil, appErrors.NewUpstreamError("error creating refund", err)
	}

	refundID, ok := resp["id"].(string)
	if !ok || refundID == "" {
		return nil, appErrors.NewUpstreamError("razorpay refund response missing id", nil)
	}

	// Single conditional update: the cumulative balance guard and the
	// refunded/partially_refunded split are decided in SQL so concurrent
	// refunds cannot overdraw.
	res, err := db.DB.Exec(
		`UPDATE payments
		 SET refund_id = $1,
		     refund_amount_paise = $2,
		     amount_refunded_paise = amount_refunded_paise + $2,
		     refund_status = $3,
		     refund_reason = $4,
		     refunded_at = CURRENT_TIMESTAMP,
		     status = CASE WHEN amount_refunded_paise + $2 >= amount_paise
		              THEN $5 ELSE $6 END,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = $7 AND status = ANY($8)
		   AND amount_refunded_paise + $2 <= amount_paise`,
		refundID, requestedPaise, models.RefundPending, req.Reason,
		models.StatusRefunded, models.StatusPartiallyRefunded,
		payment.ID, pq.Array([]string{models.StatusPaid, models.StatusPartiallyRefunded}))
	if err != nil {
		logger.Error("Error recording refund %s: %v", refundID, err)
		return nil, appErrors.NewInternalServerError("refund created at gateway but not recorded; reconcile manually")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		logger.Warn("Refund %s created at gateway but payment %d no longer eligible", refundID, payment.ID)
		return nil, appErrors.NewInvalidParamsError("payment state changed; refund recorded at gateway only")
	}

	metrics.Refunds.Inc()

	PublishPaymentEvent("refund.initiated", map[string]interface{}{
		"payment_db": payment.ID,
		"order_id":   payment.RazorpayOrderID,
		"refund_id":  refundID,
		"amount":     float64(requestedPaise) / 100,
		"reason":     req.Reason,
	})

	updated, err := GetPaymentByID(payment.ID)
	if err != nil {
		return nil, err
	}

	return &RefundResult{
		RefundID:        refundID,
		RefundAmountINR: float64(requestedPaise) / 100,
		Status:          updated.Status,
		Payment:         updated,
	}, nil
}
