package models

import "time"

// User roles
const (
	RoleStudent   = "student"
	RoleInstitute = "institute"
	RoleAdmin     = "admin"
)

type User struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	ReferralCode string    `json:"referral_code,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
