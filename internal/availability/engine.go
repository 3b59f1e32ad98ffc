// Package availability computes which half-hour slots are offerable for a
// calendar date: day-of-week clinic hours, the booking horizon, past-time
// exclusion, and conflicts with Pending appointments.
package availability

import (
	"errors"
	"time"

	"github.com/novadental/booking-platform/internal/appointments"
	"github.com/novadental/booking-platform/internal/clinicdate"
)

var (
	// ErrDateOutOfRange is returned for dates before today or beyond the
	// booking horizon. Out-of-range requests are rejected explicitly, never
	// answered with a silently empty list.
	ErrDateOutOfRange = errors.New("availability: date outside booking horizon")
)

// Slots returns the ordered offerable slot labels for the date's weekday:
// 13:00-18:30 on Sundays, 9:00-18:30 Monday through Saturday, both on a
// 30-minute step.
func Slots(date time.Time) []string {
	startHour := 9
	if date.Weekday() == time.Sunday {
		startHour = 13
	}
	slots := make([]string, 0, (19-startHour)*2)
	for hour := startHour; hour < 19; hour++ {
		slots = append(slots, clinicdate.SlotLabel(hour, 0), clinicdate.SlotLabel(hour, 30))
	}
	return slots
}

// Snapshot is an immutable index of booked (date, time) pairs derived from
// one full read of the store. Only Pending appointments occupy slots. A
// snapshot is rebuilt wholesale on every refresh and never mutated in place.
type Snapshot struct {
	builtAt time.Time
	booked  map[string]map[string]struct{}
}

// BuildSnapshot groups the Pending appointments by date key, then time label.
func BuildSnapshot(appts []appointments.Appointment, builtAt time.Time) Snapshot {
	booked := make(map[string]map[string]struct{})
	for _, a := range appts {
		if a.Status != appointments.StatusPending {
			continue
		}
		times, ok := booked[a.Date]
		if !ok {
			times = make(map[string]struct{})
			booked[a.Date] = times
		}
		times[a.Time] = struct{}{}
	}
	return Snapshot{builtAt: builtAt, booked: booked}
}

// Booked reports whether a Pending appointment holds (dateKey, slot).
func (s Snapshot) Booked(dateKey, slot string) bool {
	times, ok := s.booked[dateKey]
	if !ok {
		return false
	}
	_, ok = times[slot]
	return ok
}

// BuiltAt returns when the snapshot was derived; zero for an empty snapshot.
func (s Snapshot) BuiltAt() time.Time {
	return s.builtAt
}

// SnapshotSource supplies the current booked-slot snapshot.
type SnapshotSource interface {
	Snapshot() Snapshot
}

// Slot is one offerable or blocked half-hour for a date.
type Slot struct {
	Label     string `json:"time"`
	Booked    bool   `json:"booked"`
	Available bool   `json:"available"`
}

// Engine answers availability questions against a snapshot source, a clock
// and the clinic's zone.
type Engine struct {
	source      SnapshotSource
	loc         *time.Location
	horizonDays int
	now         func() time.Time
}

// NewEngine creates an engine. now defaults to time.Now and loc to the
// system zone.
func NewEngine(source SnapshotSource, loc *time.Location, horizonDays int, now func() time.Time) *Engine {
	if source == nil {
		panic("availability: snapshot source required")
	}
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	if horizonDays <= 0 {
		horizonDays = 30
	}
	return &Engine{source: source, loc: loc, horizonDays: horizonDays, now: now}
}

// Day returns every slot for the date key with booked/available flags. The
// date must fall between today and today plus the horizon, inclusive.
func (e *Engine) Day(dateKey string) ([]Slot, error) {
	day, err := e.checkHorizon(dateKey)
	if err != nil {
		return nil, err
	}

	snap := e.source.Snapshot()
	now := e.now()
	labels := Slots(day)
	out := make([]Slot, 0, len(labels))
	for _, label := range labels {
		at, err := clinicdate.At(dateKey, label, e.loc)
		if err != nil {
			return nil, err
		}
		booked := snap.Booked(dateKey, label)
		out = append(out, Slot{
			Label:     label,
			Booked:    booked,
			Available: at.After(now) && !booked,
		})
	}
	return out, nil
}

// IsAvailable reports whether (dateKey, slot) can be offered right now: the
// date is in range, the instant is strictly in the future, and no Pending
// appointment occupies the pair.
func (e *Engine) IsAvailable(dateKey, slot string) (bool, error) {
	if _, err := e.checkHorizon(dateKey); err != nil {
		return false, err
	}
	at, err := clinicdate.At(dateKey, slot, e.loc)
	if err != nil {
		return false, err
	}
	if !at.After(e.now()) {
		return false, nil
	}
	return !e.source.Snapshot().Booked(dateKey, slot), nil
}

func (e *Engine) checkHorizon(dateKey string) (time.Time, error) {
	day, err := clinicdate.At(dateKey, "0:00", e.loc)
	if err != nil {
		return time.Time{}, err
	}
	now := e.now().In(e.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, e.loc)
	if day.Before(today) || day.After(today.AddDate(0, 0, e.horizonDays)) {
		return time.Time{}, ErrDateOutOfRange
	}
	return day, nil
}
