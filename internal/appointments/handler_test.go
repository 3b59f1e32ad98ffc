package appointments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

func newStaffRouter(repo Repository) *chi.Mux {
	h := NewHandler(repo, time.UTC, nil)
	r := chi.NewRouter()
	r.Get("/staff/appointments", h.List)
	r.Patch("/staff/appointments/{id}/status", h.UpdateStatus)
	r.Delete("/staff/appointments/done", h.DeleteDone)
	r.Delete("/staff/appointments/{id}", h.Delete)
	r.Delete("/staff/appointments", h.DeleteAll)
	return r
}

func doRequest(t *testing.T, r http.Handler, method, target string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListViews(t *testing.T) {
	repo := NewInMemoryRepository()
	created := seed(t, repo,
		Appointment{PatientName: "Ana", Date: "10/06/2024", Time: "9:00"},
		Appointment{PatientName: "Ben", Date: "11/06/2024", Time: "10:30"},
	)
	if err := repo.UpdateStatus(context.Background(), created[1].ID, StatusDone); err != nil {
		t.Fatalf("update: %v", err)
	}
	router := newStaffRouter(repo)

	cases := []struct {
		view string
		want int
	}{
		{"all", 2},
		{"pending", 1},
		{"done", 1},
		{"no-show", 0},
	}
	for _, tc := range cases {
		w := doRequest(t, router, http.MethodGet, "/staff/appointments?view="+tc.view, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("view %s: expected 200, got %d", tc.view, w.Code)
		}
		var resp ListResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("view %s: decode: %v", tc.view, err)
		}
		if resp.Count != tc.want || len(resp.Appointments) != tc.want {
			t.Errorf("view %s: expected %d records, got %d", tc.view, tc.want, resp.Count)
		}
		if resp.View != tc.view {
			t.Errorf("view %s: response echoed %q", tc.view, resp.View)
		}
	}
}

func TestListDefaultsToAll(t *testing.T) {
	repo := NewInMemoryRepository()
	seed(t, repo, Appointment{PatientName: "Ana"})
	router := newStaffRouter(repo)

	w := doRequest(t, router, http.MethodGet, "/staff/appointments", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp ListResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.View != "all" || resp.Count != 1 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestListUnknownView(t *testing.T) {
	router := newStaffRouter(NewInMemoryRepository())
	w := doRequest(t, router, http.MethodGet, "/staff/appointments?view=archived", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

type brokenRepo struct {
	Repository
}

func (brokenRepo) List(ctx context.Context) ([]Appointment, error) {
	return nil, errors.New("connection refused")
}

func TestListFailsOpenToEmpty(t *testing.T) {
	h := NewHandler(brokenRepo{}, time.UTC, nil)
	r := chi.NewRouter()
	r.Get("/staff/appointments", h.List)

	w := doRequest(t, r, http.MethodGet, "/staff/appointments", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 despite store failure, got %d", w.Code)
	}
	var resp ListResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 0 || resp.Appointments == nil {
		t.Fatalf("expected empty listing, got %+v", resp)
	}
}

func TestUpdateStatusEndpoint(t *testing.T) {
	repo := NewInMemoryRepository()
	created := seed(t, repo, Appointment{PatientName: "Ana"})[0]
	router := newStaffRouter(repo)

	body, _ := json.Marshal(map[string]string{"status": "Done"})
	w := doRequest(t, router, http.MethodPatch, "/staff/appointments/"+created.ID+"/status", body)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", w.Code, w.Body.String())
	}

	listed, _ := repo.List(context.Background())
	if listed[0].Status != StatusDone {
		t.Fatalf("status not persisted: %s", listed[0].Status)
	}

	w = doRequest(t, router, http.MethodPatch, "/staff/appointments/missing/status", body)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}

	body, _ = json.Marshal(map[string]string{"status": "Archived"})
	w = doRequest(t, router, http.MethodPatch, "/staff/appointments/"+created.ID+"/status", body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status, got %d", w.Code)
	}
}

func TestDeleteEndpoints(t *testing.T) {
	repo := NewInMemoryRepository()
	created := seed(t, repo,
		Appointment{PatientName: "Ana"},
		Appointment{PatientName: "Ben"},
		Appointment{PatientName: "Cora"},
	)
	if err := repo.UpdateStatus(context.Background(), created[1].ID, StatusDone); err != nil {
		t.Fatalf("update: %v", err)
	}
	router := newStaffRouter(repo)

	if w := doRequest(t, router, http.MethodDelete, "/staff/appointments/done", nil); w.Code != http.StatusNoContent {
		t.Fatalf("delete done: expected 204, got %d", w.Code)
	}
	if listed, _ := repo.List(context.Background()); len(listed) != 2 {
		t.Fatalf("expected 2 left after clearing done, got %d", len(listed))
	}

	if w := doRequest(t, router, http.MethodDelete, "/staff/appointments/"+created[0].ID, nil); w.Code != http.StatusNoContent {
		t.Fatalf("delete one: expected 204, got %d", w.Code)
	}
	if w := doRequest(t, router, http.MethodDelete, "/staff/appointments/"+created[0].ID, nil); w.Code != http.StatusNotFound {
		t.Fatalf("delete twice: expected 404, got %d", w.Code)
	}

	if w := doRequest(t, router, http.MethodDelete, "/staff/appointments", nil); w.Code != http.StatusNoContent {
		t.Fatalf("delete all: expected 204, got %d", w.Code)
	}
	if listed, _ := repo.List(context.Background()); len(listed) != 0 {
		t.Fatalf("expected empty store, got %d", len(listed))
	}
}
