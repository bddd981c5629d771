package handlers

import (
	"net/http"

	"payments-module/http/middleware"
	"payments-module/http/response"
	"payments-module/services"
)

// ListEnrollments handles GET /api/enrollments - the caller's own
// enrollments.
func ListEnrollments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		response.ErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	if userID <= 0 {
		response.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	enrollments, err := services.ListEnrollments(userID)
	if err != nil {
		response.ErrorResponse(w, http.StatusInternalServerError, "Error listing enrollments")
		return
	}

	response.SuccessResponse(w, http.StatusOK, "", map[string]interface{}{
		"enrollments": enrollments,
		"count":       len(enrollments),
	})
}
