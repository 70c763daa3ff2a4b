package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/mindwell-app/mindwell-backend/internal/models"
	"github.com/mindwell-app/mindwell-backend/internal/services"
	"github.com/mindwell-app/mindwell-backend/pkg/utils"
)

type SignupRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FullName    string `json:"full_name"`
	DateOfBirth string `json:"date_of_birth"` // YYYY-MM-DD
	Gender      string `json:"gender"`
}

type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	User    map[string]interface{} `json:"user,omitempty"`
	Token   string                 `json:"token,omitempty"`
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Signup registers a user with their wellness profile and starts a session.
func Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	req.FullName = strings.TrimSpace(req.FullName)

	if req.Email == "" || req.Password == "" || req.FullName == "" || req.DateOfBirth == "" || req.Gender == "" {
		writeError(w, http.StatusBadRequest, "Email, password, full name, date of birth and gender are required")
		return
	}
	if len(req.Password) < 8 {
		writeError(w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}

	dob, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Date of birth must be in YYYY-MM-DD format")
		return
	}
	if dob.After(time.Now()) {
		writeError(w, http.StatusBadRequest, "Date of birth cannot be in the future")
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	profile := &models.Profile{
		FullName:    req.FullName,
		DateOfBirth: dob,
		Gender:      req.Gender,
	}

	user, err := services.CreateUserWithProfile(r.Context(), req.Email, hashedPassword, profile)
	if err == services.ErrEmailTaken {
		writeError(w, http.StatusConflict, "User with this email already exists")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	token, err := services.CreateSession(r.Context(), user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Account created but failed to start session")
		return
	}

	writeJSON(w, http.StatusCreated, AuthResponse{
		Success: true,
		Message: "User created successfully",
		Token:   token,
		User: map[string]interface{}{
			"id":         user.ID,
			"email":      user.Email,
			"full_name":  profile.FullName,
			"created_at": user.CreatedAt,
		},
	})
}

// Signin authenticates a user and issues a session token.
func Signin(w http.ResponseWriter, r *http.Request) {
	var req SigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := services.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	valid, err := utils.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil || !valid {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if !user.IsActive {
		writeError(w, http.StatusForbidden, "Account is deactivated")
		return
	}

	token, err := services.CreateSession(r.Context(), user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		Success: true,
		Message: "Login successful",
		Token:   token,
		User: map[string]interface{}{
			"id":         user.ID,
			"email":      user.Email,
			"created_at": user.CreatedAt,
		},
	})
}

// Signout invalidates the current session.
func Signout(w http.ResponseWriter, r *http.Request) {
	token := extractBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	if err := services.InvalidateSession(r.Context(), token); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to sign out")
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{Success: true, Message: "Signed out"})
}

// Me returns the authenticated user and refreshes the session TTL.
func Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	user, err := services.GetUserByID(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	token := extractBearerToken(r.Header.Get("Authorization"))
	_ = services.RefreshSession(r.Context(), token)

	writeJSON(w, http.StatusOK, AuthResponse{
		Success: true,
		Message: "Authenticated",
		User: map[string]interface{}{
			"id":         user.ID,
			"email":      user.Email,
			"created_at": user.CreatedAt,
		},
	})
}

// UpdatePassword changes the user's password and invalidates other sessions.
func UpdatePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req UpdatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		writeError(w, http.StatusBadRequest, "Current and new passwords are required")
		return
	}
	if req.NewPassword != req.ConfirmPassword {
		writeError(w, http.StatusBadRequest, "Password confirmation does not match")
		return
	}
	if len(req.NewPassword) < 8 {
		writeError(w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}

	user, err := services.GetUserByID(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	valid, err := utils.VerifyPassword(req.CurrentPassword, user.PasswordHash)
	if err != nil || !valid {
		writeError(w, http.StatusUnauthorized, "Current password is incorrect")
		return
	}

	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}
	if err := services.UpdatePassword(r.Context(), userID, hashed); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update password")
		return
	}

	// Force re-login everywhere
	_ = services.InvalidateUserSessions(r.Context(), userID)

	writeJSON(w, http.StatusOK, AuthResponse{Success: true, Message: "Password updated, please sign in again"})
}
