package services

import (
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
)

func enrollmentRow(freshInsert bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "course_slug", "course_id", "payment_id", "razorpay_order_id",
		"amount_paid", "is_active", "enrolled_at", "expires_at", "inserted",
	}).AddRow(7, 42, "go-basics", nil, 3, "order_x", 499.0, true, time.Now(), nil, freshInsert)
}

func TestUpsertEnrollment(t *testing.T) {
	conflictKey := regexp.QuoteMeta(`ON CONFLICT (user_id, course_slug) DO UPDATE`)
	freshness := regexp.QuoteMeta(`(xmax = 0)`)
	pattern := conflictKey + ".*" + freshness

	req := ActivateEnrollmentRequest{
		UserID:     42,
		CourseSlug: "go-basics",
		PaymentID:  3,
		OrderID:    "order_x",
		AmountPaid: 499,
	}

	t.Run("first activation inserts a new row", func(t *testing.T) {
		mock := newMockDB(t)
		mock.ExpectQuery(pattern).
			WithArgs(42, "go-basics", nil, 3, "order_x", 499.0).
			WillReturnRows(enrollmentRow(true))

		enrollment, inserted, err := upsertEnrollment(req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !inserted {
			t.Error("expected the first activation to report a fresh insert")
		}
		if enrollment.ID != 7 || !enrollment.IsActive {
			t.Errorf("unexpected enrollment row: %+v", enrollment)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Error(err)
		}
	})

	t.Run("duplicate delivery refreshes the same row", func(t *testing.T) {
		mock := newMockDB(t)
		mock.ExpectQuery(pattern).
			WithArgs(42, "go-basics", nil, 3, "order_x", 499.0).
			WillReturnRows(enrollmentRow(true))
		mock.ExpectQuery(pattern).
			WithArgs(42, "go-basics", nil, 3, "order_x", 499.0).
			WillReturnRows(enrollmentRow(false))

		first, inserted, err := upsertEnrollment(req)
		if err != nil || !inserted {
			t.Fatalf("first activation: inserted=%v err=%v", inserted, err)
		}
		second, inserted, err := upsertEnrollment(req)
		if err != nil {
			t.Fatalf("unexpected error on replay: %v", err)
		}
		if inserted {
			t.Error("expected the replay to refresh the existing row, not insert")
		}
		if second.ID != first.ID {
			t.Errorf("replay produced a different row: %d != %d", second.ID, first.ID)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Error(err)
		}
	})

	t.Run("rejects missing user or course", func(t *testing.T) {
		if _, _, err := upsertEnrollment(ActivateEnrollmentRequest{CourseSlug: "go-basics"}); err == nil {
			t.Error("expected an error for a missing user")
		}
		if _, _, err := upsertEnrollment(ActivateEnrollmentRequest{UserID: 42}); err == nil {
			t.Error("expected an error for a missing course slug")
		}
	})
}
