package http

import (
	"net/http"

	"payments-module/http/handlers"
	"payments-module/http/middleware"
	"payments-module/services"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes configures all HTTP routes and middleware
func SetupRoutes() {
	// Payment APIs
	http.HandleFunc("/api/payments/create-order", middleware.EnableCORS(middleware.RequireAuth(handlers.CreateOrder)))
	http.HandleFunc("/api/payments/verify", middleware.EnableCORS(middleware.RequireAuth(handlers.VerifyPayment)))

	// Webhook endpoint is public; authentication is the HMAC signature
	// over the raw body, so no body-consuming middleware sits in front.
	http.HandleFunc("/api/payments/webhook", services.RazorpayWebhookHandler)

	// Admin APIs
	http.HandleFunc("/api/payments/refund/", middleware.EnableCORS(middleware.RequireAdmin(handlers.RefundPayment)))
	http.HandleFunc("/api/payments/razorpay-details/", middleware.EnableCORS(middleware.RequireAdmin(handlers.RazorpayDetails)))
	http.HandleFunc("/api/payments/export", middleware.EnableCORS(middleware.RequireAdmin(handlers.ExportPayments)))
	http.HandleFunc("/api/payments", middleware.EnableCORS(middleware.RequireAdmin(handlers.ListPayments)))

	// Enrollment APIs
	http.HandleFunc("/api/enrollments", middleware.EnableCORS(middleware.RequireAuth(handlers.ListEnrollments)))

	// Metrics
	http.Handle("/metrics", promhttp.Handler())
}
