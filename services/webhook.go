package services

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"payments-module/db"
	"payments-module/logger"
	"payments-module/metrics"
	"payments-module/models"

	"github.com/google/uuid"
)

// RazorpayWebhookPayload represents the structure of Razorpay webhook payload
type RazorpayWebhookPayload struct {
	ID        string                 `json:"id"`
	Event     string                 `json:"event"`
	CreatedAt int64                  `json:"created_at"`
	Contains  []string               `json:"contains"`
	Payload   map[string]interface{} `json:"payload"`
}

// entity digs payload.<kind>.entity out of the loosely-typed payload map.
func (p *RazorpayWebhookPayload) entity(kind string) (map[string]interface{}, bool) {
	wrapper, ok := p.Payload[kind].(map[string]interface{})
	if !ok {
		return nil, false
	}
	entity, ok := wrapper["entity"].(map[string]interface{})
	return entity, ok
}

func stringField(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return s
}

// RazorpayWebhookHandler handles incoming Razorpay webhooks.
//
// The signature is computed over the raw body bytes, so the body must be
// read before any JSON parsing. Once the signature checks out the
// gateway always gets a 200 - a non-2xx here only triggers its retry
// storm; processing failures are recorded in the audit log instead.
func RazorpayWebhookHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		json.NewEncoder(w).Encode(map[string]string{"error": "Method not allowed"})
		return
	}

	bodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Failed to read request body"})
		return
	}
	defer r.Body.Close()

	signature := r.Header.Get("X-Razorpay-Signature")
	if !VerifyWebhookSignature(bodyBytes, signature) {
		logger.Warn("[WEBHOOK] Signature verification failed")
		metrics.WebhookEvents.WithLabelValues("invalid_signature").Inc()
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid webhook signature"})
		return
	}

	var payload RazorpayWebhookPayload
	if err := json.Unmarshal(bodyBytes, &payload); err != nil {
		// Signature was valid, so this came from the gateway; acknowledge
		// it rather than forcing retries of an unparseable body.
		logger.Error("[WEBHOOK] Invalid payload format: %v", err)
		respondWebhookOK(w, false)
		return
	}

	eventID := payload.ID
	if eventID == "" {
		eventID = uuid.NewString()
	}

	logger.Info("[WEBHOOK] Received: %s (%s)", payload.Event, eventID)
	metrics.WebhookEvents.WithLabelValues(payload.Event).Inc()

	if err := logWebhookToDB(eventID, payload.Event, bodyBytes); err != nil {
		logger.Error("[WEBHOOK] Audit log error: %v", err)
	}

	var processErr error
	switch payload.Event {
	case "payment.authorized":
		processErr = handlePaymentAuthorized(&payload)
	case "payment.captured", "order.paid":
		processErr = handlePaymentCaptured(&payload, signature)
	case "payment.failed":
		processErr = handlePaymentFailed(&payload)
	case "refund.processed":
		processErr = handleRefundSettled(&payload, models.RefundProcessed)
	case "refund.failed":
		processErr = handleRefundSettled(&payload, models.RefundFailed)
	default:
		// Forward-compatible: acknowledge events we don't handle
		logger.Info("[WEBHOOK] Unhandled event type: %s - acknowledging anyway", payload.Event)
		updateWebhookStatus(eventID, models.WebhookIgnored, "")
		respondWebhookOK(w, true)
		return
	}

	if processErr != nil {
		logger.Error("[WEBHOOK] Error processing %s: %v", payload.Event, processErr)
		updateWebhookStatus(eventID, models.WebhookFailed, processErr.Error())
		respondWebhookOK(w, false)
		return
	}

	updateWebhookStatus(eventID, models.WebhookProcessed, "")
	respondWebhookOK(w, true)
}

func respondWebhookOK(w http.ResponseWriter, success bool) {
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{"success": success, "received": true})
}

// logWebhookToDB records a verified webhook delivery in the audit log.
func logWebhookToDB(eventID, event string, body []byte) error {
	_, err := db.DB.Exec(
		`INSERT INTO webhook_events (event_id, event, payload, signature_valid, status)
		 VALUES ($1, $2, $3, TRUE, $4)`,
		eventID, event, string(body), models.WebhookReceived)
	return err
}

func updateWebhookStatus(eventID, status, errMsg string) {
	if _, err := db.DB.Exec(
		`UPDATE webhook_events SET status = $1, error = $2 WHERE event_id = $3`,
		status, errMsg, eventID); err != nil {
		logger.Error("[WEBHOOK] Status update error: %v", err)
	}
}

func handlePaymentAuthorized(payload *RazorpayWebhookPayload) error {
	entity, ok := payload.entity("payment")
	if !ok {
		return fmt.Errorf("payment entity missing in %s payload", payload.Event)
	}
	paymentID := stringField(entity, "id")
	orderID := stringField(entity, "order_id")
	if orderID == "" {
		return fmt.Errorf("order_id missing in payment.authorized payload")
	}

	moved, err := MarkAttempted(orderID, paymentID, payload.Event)
	if err != nil {
		return fmt.Errorf("error marking payment attempted: %w", err)
	}
	if !moved {
		// Capture or a terminal state got there first; nothing to do
		logger.Info("[WEBHOOK] payment.authorized is a no-op for order %s", orderID)
	}
	return nil
}

func handlePaymentCaptured(payload *RazorpayWebhookPayload, signature string) error {
	var paymentID, orderID string
	if entity, ok := payload.entity("payment"); ok {
		paymentID = stringField(entity, "id")
		orderID = stringField(entity, "order_id")
	} else if entity, ok := payload.entity("order"); ok {
		// order.paid carries the order entity
		orderID = stringField(entity, "id")
	}
	if orderID == "" {
		return fmt.Errorf("order_id missing in %s payload", payload.Event)
	}

	moved, err := MarkPaid(orderID, paymentID, signature, true, payload.Event)
	if err != nil {
		return fmt.Errorf("error marking payment paid: %w", err)
	}

	payment, err := GetPaymentByOrderID(orderID)
	if err != nil {
		return err
	}

	if moved {
		logger.Info("[WEBHOOK] Payment captured - Order: %s, Payment: %s", orderID, paymentID)
		PublishPaymentEvent("payment.paid", map[string]interface{}{
			"user_id":    payment.UserID,
			"order_id":   orderID,
			"payment_id": paymentID,
			"amount":     payment.AmountINR,
			"source":     "webhook",
		})
	} else {
		// Duplicate delivery or the client verify won the race. Enrollment
		// activation below still runs: it may have failed the first time.
		logger.Info("[WEBHOOK] Duplicate %s for order %s - already %s", payload.Event, orderID, payment.Status)
	}

	if payment.Status == models.StatusPaid && payment.Purpose == models.PurposeCourseEnrollment && payment.CourseSlug != "" {
		if _, err := ActivateEnrollment(ActivateEnrollmentRequest{
			UserID:     payment.UserID,
			CourseSlug: payment.CourseSlug,
			CourseID:   payment.PurposeID,
			PaymentID:  payment.ID,
			OrderID:    orderID,
			AmountPaid: payment.AmountINR,
		}); err != nil {
			// Paid status stands; enrollment is reconciled by the next retry
			logger.Error("[WEBHOOK] Enrollment activation failed for order %s: %v", orderID, err)
		}
	}

	return nil
}

func handlePaymentFailed(payload *RazorpayWebhookPayload) error {
	entity, ok := payload.entity("payment")
	if !ok {
		return fmt.Errorf("payment entity missing in payment.failed payload")
	}
	paymentID := stringField(entity, "id")
	orderID := stringField(entity, "order_id")
	if orderID == "" {
		return fmt.Errorf("order_id missing in payment.failed payload")
	}

	errorMsg := "payment failed"
	if errMap, ok := entity["error"].(map[string]interface{}); ok {
		code := stringField(errMap, "code")
		desc := stringField(errMap, "description")
		if code != "" || desc != "" {
			errorMsg = fmt.Sprintf("%s: %s", code, desc)
		}
	}

	moved, err := MarkFailed(orderID, paymentID, errorMsg, true, payload.Event)
	if err != nil {
		return fmt.Errorf("error marking payment failed: %w", err)
	}
	if moved {
		logger.Info("[WEBHOOK] Payment failed - Order: %s (%s)", orderID, errorMsg)
		PublishPaymentEvent("payment.failed", map[string]interface{}{
			"order_id": orderID,
			"reason":   errorMsg,
			"source":   "webhook",
		})
	} else {
		logger.Info("[WEBHOOK] payment.failed is a no-op for order %s", orderID)
	}
	return nil
}

func handleRefundSettled(payload *RazorpayWebhookPayload, refundStatus string) error {
	entity, ok := payload.entity("refund")
	if !ok {
		return fmt.Errorf("refund entity missing in %s payload", payload.Event)
	}
	refundID := stringField(entity, "id")
	if refundID == "" {
		return fmt.Errorf("refund id missing in %s payload", payload.Event)
	}

	moved, err := MarkRefundSettled(refundID, refundStatus, payload.Event)
	if err != nil {
		return fmt.Errorf("error settling refund %s: %w", refundID, err)
	}
	if moved {
		logger.Info("[WEBHOOK] Refund %s settled: %s", refundID, refundStatus)
	} else {
		logger.Info("[WEBHOOK] %s is a no-op for refund %s", payload.Event, refundID)
	}
	return nil
}
