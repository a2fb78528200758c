// internal/handlers/auth.go
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/pharmadesk/pharmadesk-be/internal/core/domain"
	"github.com/pharmadesk/pharmadesk-be/internal/core/services"
)

// AuthHandler handles login and staff registration
type AuthHandler struct {
	service *services.AuthService
	logger  *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(service *services.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "auth")),
	}
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest represents the staff registration request body
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	token, staff, err := h.service.Login(ctx, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRequest):
			h.respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrInvalidCredentials):
			h.respondError(w, http.StatusUnauthorized, "Invalid username or password")
		default:
			h.logger.ErrorContext(ctx, "login failed",
				slog.String("error", err.Error()))
			h.respondError(w, http.StatusInternalServerError, "Login failed")
		}
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"staff": staff,
	})
}

// Register handles POST /api/v1/auth/register. Gated to admin accounts
// by the router.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	staff := &domain.Staff{
		Username: req.Username,
		FullName: req.FullName,
		Role:     domain.StaffRole(req.Role),
	}

	if err := h.service.Register(ctx, staff, req.Password); err != nil {
		if errors.Is(err, services.ErrInvalidRequest) {
			h.respondError(w, http.StatusBadRequest, err.Error())
			return
		}

		h.logger.ErrorContext(ctx, "registration failed",
			slog.String("username", req.Username),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	h.logger.InfoContext(ctx, "staff account created",
		slog.Int64("employee_id", staff.ID),
		slog.String("role", string(staff.Role)))

	h.respondJSON(w, http.StatusCreated, staff)
}

func (h *AuthHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func (h *AuthHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
