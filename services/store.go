package services

import (
	"database/sql"
	"fmt"
	"strings"

	"payments-module/db"
	appErrors "payments-module/errors"
	"payments-module/models"
	"payments-module/utils"
)

const paymentColumns = `id, user_id, purpose, purpose_id, purpose_model, course_slug,
	amount_paise, amount_inr, currency, status,
	razorpay_order_id, razorpay_payment_id, razorpay_signature, receipt,
	referral_code, referral_applied,
	refund_id, refund_amount_paise, amount_refunded_paise, refund_status, refund_reason, refunded_at,
	webhook_verified, webhook_event, failure_reason, failed_at, paid_at,
	created_at, updated_at`

func scanPayment(row interface{ Scan(...interface{}) error }) (*models.Payment, error) {
	var p models.Payment
	var purposeModel string
	err := row.Scan(&p.ID, &p.UserID, &p.Purpose, &p.PurposeID, &purposeModel, &p.CourseSlug,
		&p.AmountPaise, &p.AmountINR, &p.Currency, &p.Status,
		&p.RazorpayOrderID, &p.RazorpayPaymentID, &p.RazorpaySignature, &p.Receipt,
		&p.ReferralCode, &p.ReferralApplied,
		&p.RefundID, &p.RefundAmountPaise, &p.AmountRefundedPaise, &p.RefundStatus, &p.RefundReason, &p.RefundedAt,
		&p.WebhookVerified, &p.WebhookEvent, &p.FailureReason, &p.FailedAt, &p.PaidAt,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.PurposeModel = models.PurposeModel(purposeModel)
	return &p, nil
}

// GetPaymentByOrderID loads one payment by its gateway order identifier.
func GetPaymentByOrderID(orderID string) (*models.Payment, error) {
	row := db.DB.QueryRow("SELECT "+paymentColumns+" FROM payments WHERE razorpay_order_id = $1", orderID)
	p, err := scanPayment(row)
	if err == sql.ErrNoRows {
		return nil, appErrors.NewNotFoundError(fmt.Sprintf("payment not found for order_id: %s", orderID))
	}
	if err != nil {
		return nil, appErrors.NewInternalServerError("error loading payment")
	}
	return p, nil
}

// GetPaymentByID loads one payment by its local database identifier.
func GetPaymentByID(id int) (*models.Payment, error) {
	row := db.DB.QueryRow("SELECT "+paymentColumns+" FROM payments WHERE id = $1", id)
	p, err := scanPayment(row)
	if err == sql.ErrNoRows {
		return nil, appErrors.NewNotFoundError(fmt.Sprintf("payment not found: %d", id))
	}
	if err != nil {
		return nil, appErrors.NewInternalServerError("error loading payment")
	}
	return p, nil
}

// ListPayments returns payments matching the admin filters, newest first.
func ListPayments(filters *utils.PaymentFilterParams) ([]models.Payment, error) {
	query := "SELECT " + paymentColumns + " FROM payments"
	var conditions []string
	var args []interface{}

	addCondition := func(clause string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(clause, len(args)))
	}

	if filters.Status != "" {
		addCondition("status = $%d", filters.Status)
	}
	if filters.Purpose != "" {
		addCondition("purpose = $%d", filters.Purpose)
	}
	if filters.UserID != nil {
		addCondition("user_id = $%d", *filters.UserID)
	}
	if filters.CreatedAfter != nil {
		addCondition("created_at >= $%d", *filters.CreatedAfter)
	}
	if filters.CreatedBefore != nil {
		addCondition("created_at <= $%d", *filters.CreatedBefore)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	args = append(args, filters.Limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))

	rows, err := db.DB.Query(query, args...)
	if err != nil {
		return nil, appErrors.NewInternalServerError("error listing payments")
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, appErrors.NewInternalServerError("error scanning payment")
		}
		payments = append(payments, *p)
	}
	return payments, rows.Err()
}
