package availability

import (
	"context"
	"sync"
	"time"

	"github.com/novadental/booking-platform/internal/appointments"
	"github.com/novadental/booking-platform/internal/observability/metrics"
	"github.com/novadental/booking-platform/pkg/logging"
)

// Lister is the read side of the appointment store the cache polls.
type Lister interface {
	List(ctx context.Context) ([]appointments.Appointment, error)
}

// Cache holds the current booked-slot snapshot. It is purely poll-driven:
// refreshed on a timer and on explicit request, with no invalidation push
// from the store. When a refresh fails the cache degrades to an empty
// snapshot so every future slot stays offerable; serving the booking flow
// wins over consistency, and the failure is logged and counted instead.
type Cache struct {
	repo     Lister
	logger   *logging.Logger
	metrics  *metrics.BookingMetrics
	interval time.Duration
	now      func() time.Time

	mu   sync.RWMutex
	snap Snapshot
}

// NewCache creates a cache polling repo every interval.
func NewCache(repo Lister, interval time.Duration, logger *logging.Logger, m *metrics.BookingMetrics) *Cache {
	if repo == nil {
		panic("availability: lister required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Cache{
		repo:     repo,
		logger:   logger,
		metrics:  m,
		interval: interval,
		now:      time.Now,
	}
}

// Snapshot returns the current snapshot. Callers get an immutable value;
// concurrent refreshes swap the whole snapshot, never patch it.
func (c *Cache) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

// Refresh rebuilds the snapshot from a full store read. On failure the
// snapshot is replaced with an empty one and the error is returned for the
// caller's logs; the cache itself keeps serving.
func (c *Cache) Refresh(ctx context.Context) error {
	start := c.now()
	appts, err := c.repo.List(ctx)
	if err != nil {
		c.logger.Error("availability refresh failed, degrading to empty snapshot", "error", err)
		c.metrics.ObserveRefreshFailure()
		c.swap(Snapshot{builtAt: c.now()})
		return err
	}
	c.swap(BuildSnapshot(appts, c.now()))
	c.metrics.ObserveRefreshDuration(c.now().Sub(start).Seconds())
	return nil
}

// Run refreshes immediately, then on every tick until ctx is cancelled.
func (c *Cache) Run(ctx context.Context) {
	_ = c.Refresh(ctx)
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			c.logger.Info("availability cache stopped")
			return
		case <-ticker.C:
			_ = c.Refresh(ctx)
		}
	}
}

func (c *Cache) swap(snap Snapshot) {
	c.mu.Lock()
	c.snap = snap
	c.mu.Unlock()
}
