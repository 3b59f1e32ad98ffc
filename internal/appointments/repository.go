package appointments

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines durable storage for appointments.
//
// Create forces status to Pending and stamps creation time server-side no
// matter what the caller passes. List returns every record ordered by
// creation time descending. UpdateStatus is intentionally permissive: any
// status may be set to any other (the UI only exposes four edges, the store
// does not enforce them).
type Repository interface {
	Create(ctx context.Context, appt *Appointment) (*Appointment, error)
	List(ctx context.Context) ([]Appointment, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
	DeleteByStatus(ctx context.Context, status Status) error
}

// InMemoryRepository is a Repository backed by a map, used in tests and as a
// fallback when no database is configured.
type InMemoryRepository struct {
	mu    sync.RWMutex
	appts map[string]Appointment
	now   func() time.Time
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		appts: make(map[string]Appointment),
		now:   time.Now,
	}
}

// NewInMemoryRepositoryWithClock injects a clock for deterministic tests.
func NewInMemoryRepositoryWithClock(now func() time.Time) *InMemoryRepository {
	r := NewInMemoryRepository()
	r.now = now
	return r
}

func (r *InMemoryRepository) Create(ctx context.Context, appt *Appointment) (*Appointment, error) {
	stored := *appt
	stored.ID = uuid.New().String()
	stored.Status = StatusPending
	stamp := r.now().UTC()
	stored.CreatedAt = stamp
	stored.UpdatedAt = stamp
	stored.BookedAt = stamp

	r.mu.Lock()
	r.appts[stored.ID] = stored
	r.mu.Unlock()
	return &stored, nil
}

func (r *InMemoryRepository) List(ctx context.Context) ([]Appointment, error) {
	r.mu.RLock()
	out := make([]Appointment, 0, len(r.appts))
	for _, a := range r.appts {
		out = append(out, a)
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *InMemoryRepository) UpdateStatus(ctx context.Context, id string, status Status) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appts[id]
	if !ok {
		return ErrNotFound
	}
	a.Status = status
	a.UpdatedAt = r.now().UTC()
	r.appts[id] = a
	return nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.appts[id]; !ok {
		return ErrNotFound
	}
	delete(r.appts, id)
	return nil
}

func (r *InMemoryRepository) DeleteAll(ctx context.Context) error {
	r.mu.Lock()
	r.appts = make(map[string]Appointment)
	r.mu.Unlock()
	return nil
}

func (r *InMemoryRepository) DeleteByStatus(ctx context.Context, status Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, a := range r.appts {
		if a.Status == status {
			delete(r.appts, id)
		}
	}
	return nil
}
