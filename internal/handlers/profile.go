package handlers

import (
	"net/http"

	"github.com/mindwell-app/mindwell-backend/internal/services"
)

type ProfileResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message,omitempty"`
	Profile map[string]interface{} `json:"profile,omitempty"`
}

// GetProfile returns the signed-in user's wellness profile, including the
// derived age.
func GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	profile, err := services.GetProfile(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Profile not found")
		return
	}

	writeJSON(w, http.StatusOK, ProfileResponse{
		Success: true,
		Profile: map[string]interface{}{
			"user_id":       profile.UserID,
			"full_name":     profile.FullName,
			"date_of_birth": profile.DateOfBirth.Format("2006-01-02"),
			"age":           profile.Age(),
			"gender":        profile.Gender,
			"created_at":    profile.CreatedAt,
		},
	})
}
