package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCreateOrder_RejectsBadRequests(t *testing.T) {
	t.Run("wrong method", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/payments/create-order", nil)
		rec := httptest.NewRecorder()
		CreateOrder(rec, req)
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
	})

	t.Run("invalid JSON body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/payments/create-order", strings.NewReader("{not json"))
		rec := httptest.NewRecorder()
		CreateOrder(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("invalid amount", func(t *testing.T) {
		body := `{"amount":-5,"purpose":"course_enrollment","course_slug":"go-basics"}`
		req := httptest.NewRequest(http.MethodPost, "/api/payments/create-order", strings.NewReader(body))
		rec := httptest.NewRecorder()
		CreateOrder(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("invalid currency", func(t *testing.T) {
		body := `{"amount":1000,"currency":"rupees","purpose":"course_enrollment","course_slug":"go-basics"}`
		req := httptest.NewRequest(http.MethodPost, "/api/payments/create-order", strings.NewReader(body))
		rec := httptest.NewRecorder()
		CreateOrder(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})
}

func TestVerifyPayment_RejectsBadRequests(t *testing.T) {
	t.Run("missing fields", func(t *testing.T) {
		body := `{"razorpay_order_id":"order_abc"}`
		req := httptest.NewRequest(http.MethodPost, "/api/payments/verify", strings.NewReader(body))
		rec := httptest.NewRecorder()
		VerifyPayment(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("wrong method", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/payments/verify", nil)
		rec := httptest.NewRecorder()
		VerifyPayment(rec, req)
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
	})
}

func TestRefundPayment_RejectsBadPath(t *testing.T) {
	for _, path := range []string{
		"/api/payments/refund/",
		"/api/payments/refund/abc",
		"/api/payments/refund/0",
		"/api/payments/refund/-3",
	} {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader("{}"))
		rec := httptest.NewRecorder()
		RefundPayment(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("path %q: expected 400, got %d", path, rec.Code)
		}
	}
}

func TestRazorpayDetails_RejectsBadPath(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/payments/razorpay-details/oops", nil)
	rec := httptest.NewRecorder()
	RazorpayDetails(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}
