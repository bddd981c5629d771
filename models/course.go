package models

import "time"

// Course carries the two prices referral resolution chooses between.
// ReferralPrice is nil (or non-positive) when the course offers no
// institute discount.
type Course struct {
	ID            int      `json:"id"`
	Slug          string   `json:"slug"`
	Title         string   `json:"title"`
	Price         float64  `json:"price"`
	ReferralPrice *float64 `json:"referral_price,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
