package booking

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/novadental/booking-platform/internal/availability"
	"github.com/novadental/booking-platform/internal/clinicdate"
	"github.com/novadental/booking-platform/pkg/logging"
)

// Handler serves POST /api/bookings.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a booking handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Create handles a booking submission.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode booking request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	appt, err := h.service.Book(r.Context(), &req)
	if err != nil {
		var verr *ValidationError
		switch {
		case errors.As(err, &verr):
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error":  "invalid submission",
				"fields": verr.Fields,
			})
		case errors.Is(err, ErrSlotUnavailable):
			writeJSON(w, http.StatusConflict, map[string]any{
				"error": "that time slot is no longer available",
			})
		case errors.Is(err, availability.ErrDateOutOfRange):
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error": "date is outside the booking horizon",
			})
		case errors.Is(err, clinicdate.ErrBadDate), errors.Is(err, clinicdate.ErrBadSlot):
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error": "date must be DD/MM/YYYY and time H:MM",
			})
		default:
			h.logger.Error("booking failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]any{
				"error": "failed to save appointment, please try again",
			})
		}
		return
	}

	writeJSON(w, http.StatusCreated, appt)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
