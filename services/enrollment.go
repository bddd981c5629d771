package services

import (
	"fmt"

	"payments-module/db"
	"payments-module/logger"
	"payments-module/models"
)

// ActivateEnrollmentRequest carries everything needed to grant access.
type ActivateEnrollmentRequest struct {
	UserID     int
	CourseSlug string
	CourseID   *int
	PaymentID  int
	OrderID    string
	AmountPaid float64
}

// ActivateEnrollment grants a user access to a course. The insert is
// keyed on the (user_id, course_slug) unique constraint; a conflicting
// row is refreshed instead of duplicated, so duplicate webhook delivery
// and concurrent verify calls collapse to one enrollment.
func ActivateEnrollment(req ActivateEnrollmentRequest) (*models.Enrollment, error) {
	enrollment, inserted, err := upsertEnrollment(req)
	if err != nil {
		return nil, err
	}

	logger.Info("Enrollment active - User: %d, Course: %s, Payment: %d",
		enrollment.UserID, enrollment.CourseSlug, enrollment.PaymentID)

	// Send the receipt asynchronously; email is best-effort and only
	// goes out once per enrollment
	if inserted {
		go sendEnrollmentReceipt(req.UserID, *enrollment, req.OrderID)
	}

	return enrollment, nil
}

// upsertEnrollment performs the conflict-keyed insert and reports whether
// a new row was created. xmax = 0 distinguishes a fresh insert from a
// conflict update, so a replayed webhook refreshes the row without
// counting as a new activation.
func upsertEnrollment(req ActivateEnrollmentRequest) (*models.Enrollment, bool, error) {
	if req.UserID <= 0 || req.CourseSlug == "" {
		return nil, false, fmt.Errorf("user and course slug are required for enrollment")
	}

	var enrollment models.Enrollment
	var inserted bool
	err := db.DB.QueryRow(
		`INSERT INTO enrollments
			(user_id, course_slug, course_id, payment_id, razorpay_order_id, amount_paid, is_active, enrolled_at)
		 VALUES ($1, $2, $3, $4, $5, $6, TRUE, CURRENT_TIMESTAMP)
		 ON CONFLICT (user_id, course_slug) DO UPDATE
		 SET payment_id = EXCLUDED.payment_id,
		     razorpay_order_id = EXCLUDED.razorpay_order_id,
		     amount_paid = EXCLUDED.amount_paid,
		     is_active = TRUE
		 RETURNING id, user_id, course_slug, course_id, payment_id, razorpay_order_id,
		           amount_paid, is_active, enrolled_at, expires_at, (xmax = 0)`,
		req.UserID, req.CourseSlug, req.CourseID, req.PaymentID, req.OrderID, req.AmountPaid,
	).Scan(&enrollment.ID, &enrollment.UserID, &enrollment.CourseSlug, &enrollment.CourseID,
		&enrollment.PaymentID, &enrollment.OrderID, &enrollment.AmountPaid,
		&enrollment.IsActive, &enrollment.EnrolledAt, &enrollment.ExpiresAt, &inserted)
	if err != nil {
		return nil, false, fmt.Errorf("error upserting enrollment: %w", err)
	}

	return &enrollment, inserted, nil
}

// ListEnrollments returns a user's enrollments, newest first.
func ListEnrollments(userID int) ([]models.Enrollment, error) {
	rows, err := db.DB.Query(
		`SELECT id, user_id, course_slug, course_id, payment_id, razorpay_order_id,
		        amount_paid, is_active, enrolled_at, expires_at
		 FROM enrollments WHERE user_id = $1 ORDER BY enrolled_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing enrollments: %w", err)
	}
	defer rows.Close()

	var enrollments []models.Enrollment
	for rows.Next() {
		var e models.Enrollment
		if err := rows.Scan(&e.ID, &e.UserID, &e.CourseSlug, &e.CourseID, &e.PaymentID,
			&e.OrderID, &e.AmountPaid, &e.IsActive, &e.EnrolledAt, &e.ExpiresAt); err != nil {
			return nil, fmt.Errorf("error scanning enrollment: %w", err)
		}
		enrollments = append(enrollments, e)
	}
	return enrollments, rows.Err()
}
