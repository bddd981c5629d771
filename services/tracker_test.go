package services

import (
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"payments-module/db"
	"payments-module/models"
)

// newMockDB swaps the shared connection for a stub for the duration of
// the test.
func newMockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening stub database: %v", err)
	}
	prev := db.DB
	db.DB = mockDB
	t.Cleanup(func() {
		db.DB = prev
		mockDB.Close()
	})
	return mock
}

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to string }{
		{models.StatusCreated, models.StatusAttempted},
		{models.StatusCreated, models.StatusPaid},
		{models.StatusAttempted, models.StatusPaid},
		{models.StatusCreated, models.StatusFailed},
		{models.StatusAttempted, models.StatusFailed},
		{models.StatusPaid, models.StatusRefunded},
		{models.StatusPaid, models.StatusPartiallyRefunded},
		// partial refunds may continue until the balance is exhausted
		{models.StatusPartiallyRefunded, models.StatusPartiallyRefunded},
		{models.StatusPartiallyRefunded, models.StatusRefunded},
	}
	for _, tc := range allowed {
		if !CanTransition(tc.from, tc.to) {
			t.Errorf("expected %s -> %s to be allowed", tc.from, tc.to)
		}
	}

	forbidden := []struct{ from, to string }{
		// paid never reverts
		{models.StatusPaid, models.StatusCreated},
		{models.StatusPaid, models.StatusAttempted},
		{models.StatusPaid, models.StatusFailed},
		// terminal states stay terminal
		{models.StatusFailed, models.StatusPaid},
		{models.StatusFailed, models.StatusAttempted},
		{models.StatusRefunded, models.StatusPaid},
		{models.StatusRefunded, models.StatusPartiallyRefunded},
		// cannot refund an uncaptured payment
		{models.StatusCreated, models.StatusRefunded},
		{models.StatusAttempted, models.StatusPartiallyRefunded},
		// duplicate paid transition is a no-op, not a transition
		{models.StatusPaid, models.StatusPaid},
	}
	for _, tc := range forbidden {
		if CanTransition(tc.from, tc.to) {
			t.Errorf("expected %s -> %s to be forbidden", tc.from, tc.to)
		}
	}
}

func TestMarkPaid(t *testing.T) {
	idGuard := regexp.QuoteMeta(`razorpay_payment_id = COALESCE(NULLIF($2, ''), razorpay_payment_id)`)
	condition := regexp.QuoteMeta(`WHERE razorpay_order_id = $6 AND status = ANY($7)`)
	pattern := idGuard + ".*" + condition

	t.Run("first capture moves the row", func(t *testing.T) {
		mock := newMockDB(t)
		mock.ExpectExec(pattern).
			WithArgs(models.StatusPaid, "pay_1", "sig", true, "payment.captured", "order_1", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		moved, err := MarkPaid("order_1", "pay_1", "sig", true, "payment.captured")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !moved {
			t.Error("expected the first capture to move the row")
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Error(err)
		}
	})

	t.Run("duplicate capture is a no-op", func(t *testing.T) {
		mock := newMockDB(t)
		mock.ExpectExec(pattern).
			WithArgs(models.StatusPaid, "pay_1", "sig", true, "payment.captured", "order_1", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 0))

		moved, err := MarkPaid("order_1", "pay_1", "sig", true, "payment.captured")
		if err != nil {
			t.Fatalf("a zero-row update must not be an error: %v", err)
		}
		if moved {
			t.Error("expected a duplicate capture to report no transition")
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Error(err)
		}
	})

	t.Run("order-level capture keeps a recorded payment id", func(t *testing.T) {
		// order.paid carries no payment entity; the empty id reaches SQL
		// where COALESCE(NULLIF(...)) leaves the stored value in place
		mock := newMockDB(t)
		mock.ExpectExec(pattern).
			WithArgs(models.StatusPaid, "", "sig", true, "order.paid", "order_1", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		moved, err := MarkPaid("order_1", "", "sig", true, "order.paid")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !moved {
			t.Error("expected the capture to move the row")
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Error(err)
		}
	})
}

func TestMarkFailed(t *testing.T) {
	mock := newMockDB(t)
	idGuard := regexp.QuoteMeta(`razorpay_payment_id = COALESCE(NULLIF($2, ''), razorpay_payment_id)`)
	mock.ExpectExec(idGuard).
		WithArgs(models.StatusFailed, "", "card declined", true, "payment.failed", "order_1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	moved, err := MarkFailed("order_1", "", "card declined", true, "payment.failed")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !moved {
		t.Error("expected the failure to move the row")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
