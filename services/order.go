package services

import (
	"database/sql"
	"fmt"
	"math"
	"time"

	"payments-module/config"
	"payments-module/db"
	appErrors "payments-module/errors"
	"payments-module/logger"
	"payments-module/metrics"
	"payments-module/models"
	"payments-module/utils"

	"github.com/razorpay/razorpay-go"
)

// Gateway receipts are limited to 40 characters.
const maxReceiptLength = 40

// CreateOrderRequest represents an order creation request
type CreateOrderRequest struct {
	UserID       int
	Amount       float64 // major units (rupees)
	Currency     string
	Purpose      string
	PurposeID    *int
	PurposeModel models.PurposeModel
	CourseSlug   string
	ReferralCode string
	Notes        map[string]string
}

func newRazorpayClient() (*razorpay.Client, error) {
	keyID := config.AppConfig.RazorpayKeyID
	keySecret := config.AppConfig.RazorpayKeySecret
	if keyID == "" || keySecret == "" {
		return nil, appErrors.NewInternalServerError("razorpay credentials not configured")
	}
	return razorpay.NewClient(keyID, keySecret), nil
}

// ValidateOrderRequest applies the order-creation validation rules.
func ValidateOrderRequest(req CreateOrderRequest) error {
	if err := utils.ValidateAmount(req.Amount); err != nil {
		return appErrors.NewInvalidParamsError(err.Error())
	}
	if err := utils.ValidatePurpose(req.Purpose); err != nil {
		return appErrors.NewInvalidParamsError(err.Error())
	}
	if err := utils.ValidateCurrency(req.Currency); err != nil {
		return appErrors.NewInvalidParamsError(err.Error())
	}
	if !req.PurposeModel.Valid() {
		return appErrors.NewInvalidParamsError("invalid purpose_model")
	}
	if req.Purpose == models.PurposeCourseEnrollment && req.CourseSlug == "" {
		return appErrors.NewInvalidParamsError("course_slug required for course enrollment")
	}
	return nil
}

// ToPaise converts a major-unit amount to the smallest currency unit.
func ToPaise(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// BuildReceipt generates a gateway receipt string: sanitized purpose
// prefix, a literal rcpt marker and the current unix timestamp,
// truncated to the gateway's 40-character limit.
func BuildReceipt(purpose string, now time.Time) string {
	prefix := utils.SanitizePurposePrefix(purpose, 10)
	receipt := fmt.Sprintf("%s_rcpt_%d", prefix, now.Unix())
	if len(receipt) > maxReceiptLength {
		receipt = receipt[:maxReceiptLength]
	}
	return receipt
}

// ApplyReferralPrice returns the discounted price and true when the
// referrer is an institute and the course defines a positive referral
// price; otherwise the base price and false.
func ApplyReferralPrice(basePrice float64, referralPrice *float64, referrerRole string) (float64, bool) {
	if referrerRole != models.RoleInstitute {
		return basePrice, false
	}
	if referralPrice == nil || *referralPrice <= 0 {
		return basePrice, false
	}
	return *referralPrice, true
}

// resolveReferralPricing looks up the referral code and course and
// substitutes the discounted price when both check out. An unknown or
// non-institute code is not an error; the caller just pays full price.
func resolveReferralPricing(req CreateOrderRequest) (float64, bool, error) {
	if req.ReferralCode == "" || req.Purpose != models.PurposeCourseEnrollment {
		return req.Amount, false, nil
	}

	var referrerRole string
	err := db.DB.QueryRow("SELECT role FROM users WHERE referral_code = $1", req.ReferralCode).Scan(&referrerRole)
	if err == sql.ErrNoRows {
		return req.Amount, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("error resolving referral code: %w", err)
	}

	var basePrice float64
	var referralPrice sql.NullFloat64
	err = db.DB.QueryRow("SELECT price, referral_price FROM courses WHERE slug = $1", req.CourseSlug).
		Scan(&basePrice, &referralPrice)
	if err == sql.ErrNoRows {
		return req.Amount, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("error resolving course: %w", err)
	}

	var refPrice *float64
	if referralPrice.Valid {
		refPrice = &referralPrice.Float64
	}
	final, applied := ApplyReferralPrice(basePrice, refPrice, referrerRole)
	if !applied {
		return req.Amount, false, nil
	}
	return final, true, nil
}

// CreateOrder resolves the final price, creates the remote gateway
// order and persists the local payment row in created status. The
// gateway call precedes persistence: if it fails no local row exists.
func CreateOrder(req CreateOrderRequest) (*models.RazorpayOrder, error) {
	if err := ValidateOrderRequest(req); err != nil {
		return nil, err
	}

	finalAmount, referralApplied, err := resolveReferralPricing(req)
	if err != nil {
		return nil, appErrors.NewInternalServerError(err.Error())
	}

	amountPaise := ToPaise(finalAmount)
	receipt := BuildReceipt(req.Purpose, time.Now())

	client, err := newRazorpayClient()
	if err != nil {
		return nil, err
	}

	notes := map[string]interface{}{
		"user_id":     fmt.Sprintf("%d", req.UserID),
		"purpose":     req.Purpose,
		"course_slug": req.CourseSlug,
	}
	if req.ReferralCode != "" {
		notes["referral_code"] = req.ReferralCode
	}
	for k, v := range req.Notes {
		notes[k] = v
	}

	data := map[string]interface{}{
		"amount":   amountPaise,
		"currency": req.Currency,
		"receipt":  receipt,
		"notes":    notes,
	}

	resp, err := client.Order.Create(data, nil)
	if err != nil {
		logger.Error("Error creating razorpay order: %v", err)
		return nil, appErrors.NewUpstreamError("error creating razorpay order", err)
	}

	orderID, ok := resp["id"].(string)
	if !ok || orderID == "" {
		return nil, appErrors.NewUpstreamError("razorpay order response missing id", nil)
	}

	var paymentDBID int
	err = db.DB.QueryRow(
		`INSERT INTO payments
			(user_id, purpose, purpose_id, purpose_model, course_slug,
			 amount_paise, amount_inr, currency, status,
			 razorpay_order_id, receipt, referral_code, referral_applied)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 RETURNING id`,
		req.UserID, req.Purpose, req.PurposeID, string(req.PurposeModel), req.CourseSlug,
		amountPaise, finalAmount, req.Currency, models.StatusCreated,
		orderID, receipt, req.ReferralCode, referralApplied,
	).Scan(&paymentDBID)
	if err != nil {
		logger.Error("Error saving payment for order %s: %v", orderID, err)
		return nil, appErrors.NewInternalServerError("error saving payment")
	}

	metrics.OrdersCreated.Inc()

	// Publish payment created event (best-effort)
	PublishPaymentEvent("payment.created", map[string]interface{}{
		"user_id":  req.UserID,
		"order_id": orderID,
		"amount":   finalAmount,
		"currency": req.Currency,
		"purpose":  req.Purpose,
		"status":   models.StatusCreated,
	})

	return &models.RazorpayOrder{
		OrderID:             orderID,
		Amount:              amountPaise,
		Currency:            req.Currency,
		KeyID:               config.AppConfig.RazorpayKeyID,
		Receipt:             receipt,
		PaymentDBID:         paymentDBID,
		ReferralApplied:     referralApplied,
		FinalAmountInRupees: finalAmount,
	}, nil
}
