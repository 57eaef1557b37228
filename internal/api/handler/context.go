// Package handler provides HTTP handlers for the TripWise API.
package handler

import (
	"net/http"

	"github.com/tripwise/tripwise/internal/api/middleware"
	"github.com/tripwise/tripwise/internal/api/response"
)

// requireUser returns the authenticated user ID, writing a 401 when the
// request carries none.
func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "authentication required")
		return "", false
	}
	return userID, true
}
