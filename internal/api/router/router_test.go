package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/novadental/booking-platform/internal/appointments"
	"github.com/novadental/booking-platform/internal/auth"
	"github.com/novadental/booking-platform/internal/availability"
	"github.com/novadental/booking-platform/internal/booking"
	"github.com/novadental/booking-platform/internal/notify"
	"github.com/novadental/booking-platform/pkg/logging"
)

// Monday 2024-06-10, 08:00 clinic time.
var testNow = time.Date(2024, time.June, 10, 8, 0, 0, 0, time.UTC)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := logging.Default()
	repo := appointments.NewInMemoryRepository()
	cache := availability.NewCache(repo, time.Second, logger, nil)
	if err := cache.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	engine := availability.NewEngine(cache, time.UTC, 30, func() time.Time { return testNow })
	bookingSvc := booking.NewService(repo, engine, cache, notify.NewLogNotifier(logger), logger, nil)
	authSvc := auth.NewService("frontdesk", "s3cret", "router-test-secret", 12*time.Hour, 30*24*time.Hour)

	return New(&Config{
		Logger:              logger,
		AvailabilityHandler: availability.NewHandler(engine, cache, logger, nil),
		BookingHandler:      booking.NewHandler(bookingSvc, logger),
		AppointmentsHandler: appointments.NewHandler(repo, time.UTC, logger),
		AuthHandler:         auth.NewHandler(authSvc, logger),
		StaffJWTSecret:      "router-test-secret",
		ClinicName:          "Nova Dental",
	})
}

func do(t *testing.T, h http.Handler, method, target, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(payload))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func loginToken(t *testing.T, h http.Handler) string {
	t.Helper()
	w := do(t, h, http.MethodPost, "/staff/login", "", map[string]any{
		"username": "frontdesk",
		"password": "s3cret",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	return resp.Token
}

func TestHealthEndpoint(t *testing.T) {
	h := newTestRouter(t)
	w := do(t, h, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["status"] != "ok" || resp["clinic"] != "Nova Dental" {
		t.Fatalf("unexpected health payload: %v", resp)
	}
}

func TestAvailabilityEndpoint(t *testing.T) {
	h := newTestRouter(t)

	w := do(t, h, http.MethodGet, "/api/availability?date="+url.QueryEscape("10/06/2024"), "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp availability.DayResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Slots) != 20 {
		t.Fatalf("expected 20 weekday slots, got %d", len(resp.Slots))
	}

	if w := do(t, h, http.MethodGet, "/api/availability", "", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("missing date: expected 400, got %d", w.Code)
	}
}

func TestBookingFlowThroughRouter(t *testing.T) {
	h := newTestRouter(t)

	req := map[string]any{
		"date": "10/06/2024",
		"time": "9:00",
		"patientInfo": map[string]any{
			"fullName":      "Maria Santos",
			"phone":         "0917 123 4567",
			"dateOfBirth":   "34",
			"dentalConcern": "Tooth Extraction",
		},
	}
	if w := do(t, h, http.MethodPost, "/api/bookings", "", req); w.Code != http.StatusCreated {
		t.Fatalf("booking: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if w := do(t, h, http.MethodPost, "/api/bookings", "", req); w.Code != http.StatusConflict {
		t.Fatalf("double booking: expected 409, got %d", w.Code)
	}

	// The booked slot shows up as unavailable on the public calendar.
	w := do(t, h, http.MethodGet, "/api/availability?date="+url.QueryEscape("10/06/2024"), "", nil)
	var resp availability.DayResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, slot := range resp.Slots {
		if slot.Label == "9:00" && slot.Available {
			t.Fatal("booked slot still shown available")
		}
	}
}

func TestStaffRoutesRequireToken(t *testing.T) {
	h := newTestRouter(t)

	if w := do(t, h, http.MethodGet, "/staff/appointments", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	token := loginToken(t, h)
	w := do(t, h, http.MethodGet, "/staff/appointments", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d: %s", w.Code, w.Body.String())
	}
}

func TestStaffLifecycleThroughRouter(t *testing.T) {
	h := newTestRouter(t)
	token := loginToken(t, h)

	req := map[string]any{
		"date": "11/06/2024",
		"time": "10:30",
		"patientInfo": map[string]any{
			"fullName":      "Ben Cruz",
			"phone":         "0917 765 4321",
			"dateOfBirth":   "41",
			"dentalConcern": "Cleaning",
		},
	}
	w := do(t, h, http.MethodPost, "/api/bookings", "", req)
	if w.Code != http.StatusCreated {
		t.Fatalf("booking: expected 201, got %d", w.Code)
	}
	var created appointments.Appointment
	if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	w = do(t, h, http.MethodPatch, "/staff/appointments/"+created.ID+"/status", token,
		map[string]string{"status": "Done"})
	if w.Code != http.StatusNoContent {
		t.Fatalf("status update: expected 204, got %d: %s", w.Code, w.Body.String())
	}

	w = do(t, h, http.MethodGet, "/staff/appointments?view=done", token, nil)
	var listed appointments.ListResponse
	if err := json.NewDecoder(w.Body).Decode(&listed); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if listed.Count != 1 || listed.Appointments[0].ID != created.ID {
		t.Fatalf("done view mismatch: %+v", listed)
	}

	if w := do(t, h, http.MethodDelete, "/staff/appointments/done", token, nil); w.Code != http.StatusNoContent {
		t.Fatalf("delete done: expected 204, got %d", w.Code)
	}
	w = do(t, h, http.MethodGet, "/staff/appointments", token, nil)
	if err := json.NewDecoder(w.Body).Decode(&listed); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if listed.Count != 0 {
		t.Fatalf("expected empty store, got %d", listed.Count)
	}
}
