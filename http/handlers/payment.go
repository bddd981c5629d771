package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"payments-module/http/middleware"
	"payments-module/http/response"
	"payments-module/models"
	"payments-module/services"
	"payments-module/utils"
)

// CreateOrder handles POST /api/payments/create-order
func CreateOrder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		response.ErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req struct {
		Amount       float64           `json:"amount"`
		Currency     string            `json:"currency"`
		Purpose      string            `json:"purpose"`
		PurposeID    *int              `json:"purpose_id"`
		PurposeModel string            `json:"purpose_model"`
		CourseSlug   string            `json:"course_slug"`
		ReferralCode string            `json:"referral_code"`
		Notes        map[string]string `json:"notes"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.ErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Currency == "" {
		req.Currency = "INR"
	}

	order, err := services.CreateOrder(services.CreateOrderRequest{
		UserID:       middleware.UserIDFromContext(r.Context()),
		Amount:       req.Amount,
		Currency:     req.Currency,
		Purpose:      req.Purpose,
		PurposeID:    req.PurposeID,
		PurposeModel: models.PurposeModel(req.PurposeModel),
		CourseSlug:   req.CourseSlug,
		ReferralCode: req.ReferralCode,
		Notes:        req.Notes,
	})
	if err != nil {
		response.AppErrorResponse(w, err)
		return
	}

	response.SuccessResponse(w, http.StatusCreated, "Order created", order)
}

// VerifyPayment handles POST /api/payments/verify
func VerifyPayment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		response.ErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req struct {
		RazorpayOrderID   string `json:"razorpay_order_id"`
		RazorpayPaymentID string `json:"razorpay_payment_id"`
		RazorpaySignature string `json:"razorpay_signature"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.ErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.RazorpayOrderID == "" || req.RazorpayPaymentID == "" || req.RazorpaySignature == "" {
		response.ErrorResponse(w, http.StatusBadRequest, "razorpay_order_id, razorpay_payment_id and razorpay_signature are required")
		return
	}

	result, err := services.VerifyCheckout(
		middleware.UserIDFromContext(r.Context()),
		req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature)
	if err != nil {
		response.AppErrorResponse(w, err)
		return
	}

	response.SuccessResponse(w, http.StatusOK, "Payment verified", result)
}

// paymentIDFromPath parses the trailing path segment as the local
// payment id, e.g. /api/payments/refund/42.
func paymentIDFromPath(r *http.Request, prefix string) (int, error) {
	idStr := strings.TrimPrefix(r.URL.Path, prefix)
	idStr = strings.Trim(idStr, "/")
	if idStr == "" {
		return 0, fmt.Errorf("payment id missing in path")
	}
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid payment id: %s", idStr)
	}
	return id, nil
}

// RefundPayment handles POST /api/payments/refund/{id}
func RefundPayment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		response.ErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	id, err := paymentIDFromPath(r, "/api/payments/refund")
	if err != nil {
		response.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	var req struct {
		Amount float64 `json:"amount"`
		Reason string  `json:"reason"`
	}
	// Body is optional; an empty body means a full refund
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		response.ErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := services.InitiateRefund(services.RefundRequest{
		PaymentDBID: id,
		AmountINR:   req.Amount,
		Reason:      req.Reason,
	})
	if err != nil {
		response.AppErrorResponse(w, err)
		return
	}

	response.SuccessResponse(w, http.StatusOK, "Refund initiated", result)
}

// RazorpayDetails handles GET /api/payments/razorpay-details/{id}
func RazorpayDetails(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		response.ErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	id, err := paymentIDFromPath(r, "/api/payments/razorpay-details")
	if err != nil {
		response.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	payment, err := services.GetPaymentByID(id)
	if err != nil {
		response.AppErrorResponse(w, err)
		return
	}

	details, err := services.FetchRazorpayDetails(payment)
	if err != nil {
		response.AppErrorResponse(w, err)
		return
	}
	details["local"] = payment

	response.SuccessResponse(w, http.StatusOK, "", details)
}

// ListPayments handles GET /api/payments (admin filtering)
func ListPayments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		response.ErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	filters, err := utils.ParsePaymentFilters(r)
	if err != nil {
		response.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	payments, err := services.ListPayments(filters)
	if err != nil {
		response.AppErrorResponse(w, err)
		return
	}

	response.SuccessResponse(w, http.StatusOK, "", map[string]interface{}{
		"payments": payments,
		"count":    len(payments),
	})
}

// ExportPayments handles GET /api/payments/export - streams an Excel
// workbook of payments matching the same filters as ListPayments.
func ExportPayments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		response.ErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	filters, err := utils.ParsePaymentFilters(r)
	if err != nil {
		response.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	payments, err := services.ListPayments(filters)
	if err != nil {
		response.AppErrorResponse(w, err)
		return
	}

	workbook, err := services.BuildPaymentsWorkbook(payments)
	if err != nil {
		response.ErrorResponse(w, http.StatusInternalServerError, "Error building export")
		return
	}

	fileName := fmt.Sprintf("payments_%s.xlsx", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, fileName))
	// Headers are already sent; a write failure here cannot be reported
	workbook.Write(w)
}
