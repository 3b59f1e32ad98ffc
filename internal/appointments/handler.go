package appointments

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/novadental/booking-platform/pkg/logging"
)

// Handler serves the staff-facing appointment endpoints.
type Handler struct {
	repo   Repository
	logger *logging.Logger
	loc    *time.Location
	now    func() time.Time
}

// NewHandler creates an appointments handler. loc is the clinic zone used
// for the "today" view.
func NewHandler(repo Repository, loc *time.Location, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Handler{repo: repo, logger: logger, loc: loc, now: time.Now}
}

// ListResponse is the staff listing payload.
type ListResponse struct {
	Appointments []Appointment `json:"appointments"`
	Count        int           `json:"count"`
	View         string        `json:"view"`
}

// List handles GET /staff/appointments?view=all|pending|done|no-show|pending-today.
// Fetch failures degrade to an empty listing rather than blocking the
// dashboard; the error goes to the log.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	view := r.URL.Query().Get("view")
	if view == "" {
		view = "all"
	}

	appts, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list appointments, serving empty view", "error", err, "view", view)
		appts = []Appointment{}
	}

	switch view {
	case "all":
	case "pending":
		appts = PendingSoonestFirst(appts)
	case "done":
		appts = DoneNewestFirst(appts)
	case "no-show":
		appts = FilterStatus(appts, StatusNoShow)
	case "pending-today":
		appts = TodaysPending(appts, h.now().In(h.loc))
	default:
		http.Error(w, "unknown view", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ListResponse{Appointments: appts, Count: len(appts), View: view})
}

type updateStatusRequest struct {
	Status Status `json:"status"`
}

// UpdateStatus handles PATCH /staff/appointments/{id}/status. Any of the
// three statuses may be set regardless of the current one.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if !req.Status.Valid() {
		http.Error(w, "status must be Pending, Done or Didn't show up", http.StatusBadRequest)
		return
	}

	err := h.repo.UpdateStatus(r.Context(), id, req.Status)
	switch {
	case errors.Is(err, ErrNotFound):
		http.Error(w, "appointment not found", http.StatusNotFound)
	case err != nil:
		h.logger.Error("failed to update appointment status", "error", err, "id", id)
		http.Error(w, "failed to update appointment status", http.StatusInternalServerError)
	default:
		h.logger.Info("appointment status updated", "id", id, "status", req.Status)
		w.WriteHeader(http.StatusNoContent)
	}
}

// Delete handles DELETE /staff/appointments/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := h.repo.Delete(r.Context(), id)
	switch {
	case errors.Is(err, ErrNotFound):
		http.Error(w, "appointment not found", http.StatusNotFound)
	case err != nil:
		h.logger.Error("failed to delete appointment", "error", err, "id", id)
		http.Error(w, "failed to delete appointment", http.StatusInternalServerError)
	default:
		h.logger.Info("appointment deleted", "id", id)
		w.WriteHeader(http.StatusNoContent)
	}
}

// DeleteAll handles DELETE /staff/appointments.
func (h *Handler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.DeleteAll(r.Context()); err != nil {
		h.logger.Error("failed to clear appointments", "error", err)
		http.Error(w, "failed to clear appointments", http.StatusInternalServerError)
		return
	}
	h.logger.Info("all appointments cleared")
	w.WriteHeader(http.StatusNoContent)
}

// DeleteDone handles DELETE /staff/appointments/done.
func (h *Handler) DeleteDone(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.DeleteByStatus(r.Context(), StatusDone); err != nil {
		h.logger.Error("failed to delete done appointments", "error", err)
		http.Error(w, "failed to delete completed appointments", http.StatusInternalServerError)
		return
	}
	h.logger.Info("done appointments deleted")
	w.WriteHeader(http.StatusNoContent)
}
