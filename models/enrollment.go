package models

import "time"

// Enrollment represents a user's access grant to a course. At most one
// row exists per (user_id, course_slug); activation is an upsert.
type Enrollment struct {
	ID         int        `json:"id"`
	UserID     int        `json:"user_id"`
	CourseSlug string     `json:"course_slug"`
	CourseID   *int       `json:"course_id,omitempty"`
	PaymentID  int        `json:"payment_id"`
	OrderID    string     `json:"order_id"`
	AmountPaid float64    `json:"amount_paid"`
	IsActive   bool       `json:"is_active"`
	EnrolledAt time.Time  `json:"enrolled_at"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}
