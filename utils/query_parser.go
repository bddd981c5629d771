package utils

import (
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// PaymentFilterParams holds parsed admin list-filter query parameters
type PaymentFilterParams struct {
	Status        string
	Purpose       string
	UserID        *int
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	Limit         int
}

// ParsePaymentFilters extracts and validates filter query parameters from HTTP request
func ParsePaymentFilters(r *http.Request) (*PaymentFilterParams, error) {
	params := &PaymentFilterParams{Limit: 100}

	params.Status = r.URL.Query().Get("status")
	params.Purpose = r.URL.Query().Get("purpose")

	if str := r.URL.Query().Get("user_id"); str != "" {
		id, err := strconv.Atoi(str)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid user_id")
		}
		params.UserID = &id
	}

	if str := r.URL.Query().Get("created_after"); str != "" {
		parsed, err := time.Parse(time.RFC3339, str)
		if err != nil {
			return nil, fmt.Errorf("invalid created_after format. Use RFC3339 (e.g., 2025-11-13T10:00:00Z)")
		}
		params.CreatedAfter = &parsed
	}

	if str := r.URL.Query().Get("created_before"); str != "" {
		parsed, err := time.Parse(time.RFC3339, str)
		if err != nil {
			return nil, fmt.Errorf("invalid created_before format. Use RFC3339 (e.g., 2025-11-13T10:00:00Z)")
		}
		params.CreatedBefore = &parsed
	}

	if str := r.URL.Query().Get("limit"); str != "" {
		limit, err := strconv.Atoi(str)
		if err != nil || limit <= 0 || limit > 1000 {
			return nil, fmt.Errorf("invalid limit (1-1000)")
		}
		params.Limit = limit
	}

	return params, nil
}
