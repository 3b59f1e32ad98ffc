package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/novadental/booking-platform/pkg/logging"
)

// Handler serves POST /staff/login.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a login handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Login handles a staff sign-in attempt.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	token, expiry, err := h.service.Login(req.Username, req.Password, req.Remember)
	if err != nil {
		if errors.Is(err, ErrBadCredentials) {
			h.logger.Info("staff login rejected", "username", req.Username)
			http.Error(w, "invalid username or password", http.StatusUnauthorized)
			return
		}
		h.logger.Error("staff login failed", "error", err)
		http.Error(w, "login unavailable", http.StatusInternalServerError)
		return
	}

	h.logger.Info("staff login succeeded", "username", req.Username, "remember", req.Remember)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(loginResponse{Token: token, ExpiresAt: expiry})
}
