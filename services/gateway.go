package services

import (
	appErrors "payments-module/errors"
	"payments-module/logger"
	"payments-module/models"
)

// FetchRazorpayDetails fetches the live gateway view of a payment for
// admin reconciliation: the order, the captured payment if one exists,
// and the refund if one was initiated.
func FetchRazorpayDetails(payment *models.Payment) (map[string]interface{}, error) {
	client, err := newRazorpayClient()
	if err != nil {
		return nil, err
	}

	order, err := client.Order.Fetch(payment.RazorpayOrderID, nil, nil)
	if err != nil {
		logger.Error("Error fetching razorpay order %s: %v", payment.RazorpayOrderID, err)
		return nil, appErrors.NewUpstreamError("error fetching razorpay order", err)
	}

	details := map[string]interface{}{
		"order": order,
	}

	if payment.RazorpayPaymentID != "" {
		gatewayPayment, err := client.Payment.Fetch(payment.RazorpayPaymentID, nil, nil)
		if err != nil {
			logger.Error("Error fetching razorpay payment %s: %v", payment.RazorpayPaymentID, err)
			return nil, appErrors.NewUpstreamError("error fetching razorpay payment", err)
		}
		details["payment"] = gatewayPayment
	}

	if payment.RefundID != "" {
		refund, err := client.Refund.Fetch(payment.RefundID, nil, nil)
		if err != nil {
			logger.Error("Error fetching razorpay refund %s: %v", payment.RefundID, err)
			return nil, appErrors.NewUpstreamError("error fetching razorpay refund", err)
		}
		details["refund"] = refund
	}

	return details, nil
}
