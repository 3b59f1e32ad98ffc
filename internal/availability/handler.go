package availability

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/novadental/booking-platform/internal/clinicdate"
	"github.com/novadental/booking-platform/internal/observability/metrics"
	"github.com/novadental/booking-platform/pkg/logging"
)

// Handler serves the public availability endpoints.
type Handler struct {
	engine  *Engine
	cache   *Cache
	logger  *logging.Logger
	metrics *metrics.BookingMetrics
}

// NewHandler creates an availability handler.
func NewHandler(engine *Engine, cache *Cache, logger *logging.Logger, m *metrics.BookingMetrics) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{engine: engine, cache: cache, logger: logger, metrics: m}
}

// DayResponse is the slot listing for one date.
type DayResponse struct {
	Date        string    `json:"date"`
	Slots       []Slot    `json:"slots"`
	RefreshedAt time.Time `json:"refreshedAt"`
}

// Day handles GET /api/availability?date=DD/MM/YYYY.
func (h *Handler) Day(w http.ResponseWriter, r *http.Request) {
	dateKey := r.URL.Query().Get("date")
	if dateKey == "" {
		h.metrics.ObserveAvailabilityRequest("bad_request")
		http.Error(w, "date query parameter is required (DD/MM/YYYY)", http.StatusBadRequest)
		return
	}

	slots, err := h.engine.Day(dateKey)
	switch {
	case errors.Is(err, clinicdate.ErrBadDate):
		h.metrics.ObserveAvailabilityRequest("bad_request")
		http.Error(w, "date must be DD/MM/YYYY", http.StatusBadRequest)
		return
	case errors.Is(err, ErrDateOutOfRange):
		h.metrics.ObserveAvailabilityRequest("out_of_range")
		http.Error(w, "date is outside the booking horizon", http.StatusBadRequest)
		return
	case err != nil:
		h.logger.Error("availability listing failed", "error", err, "date", dateKey)
		h.metrics.ObserveAvailabilityRequest("error")
		http.Error(w, "failed to compute availability", http.StatusInternalServerError)
		return
	}

	h.metrics.ObserveAvailabilityRequest("ok")
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(DayResponse{
		Date:        dateKey,
		Slots:       slots,
		RefreshedAt: h.cache.Snapshot().BuiltAt(),
	})
}

// Refresh handles POST /api/availability/refresh, the explicit user-driven
// refresh. A failed store read still answers 200: the cache has already
// degraded to fail-open and the error is on the operator log.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.cache.Refresh(r.Context()); err != nil {
		h.logger.Warn("manual availability refresh degraded", "error", err)
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"refreshedAt": h.cache.Snapshot().BuiltAt(),
	})
}
