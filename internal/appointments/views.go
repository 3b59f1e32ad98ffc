package appointments

import (
	"sort"
	"time"

	"github.com/novadental/booking-platform/internal/clinicdate"
)

// Derived views over a List() result. These are pure functions; nothing here
// is persisted or cached.

// PendingSoonestFirst returns the Pending appointments ordered by calendar
// date then slot time, soonest first. Records with unparseable dates sort
// last so a bad row never hides the rest of the schedule.
func PendingSoonestFirst(appts []Appointment) []Appointment {
	out := filterStatus(appts, StatusPending)
	sort.SliceStable(out, func(i, j int) bool {
		return scheduleKey(out[i]).less(scheduleKey(out[j]))
	})
	return out
}

// DoneNewestFirst returns the Done appointments, most recently created first.
func DoneNewestFirst(appts []Appointment) []Appointment {
	out := filterStatus(appts, StatusDone)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// TodaysPending returns Pending appointments whose date key equals today's,
// ordered by slot time ascending. now must be in the clinic's zone.
func TodaysPending(appts []Appointment, now time.Time) []Appointment {
	today := clinicdate.Today(now)
	var out []Appointment
	for _, a := range appts {
		if a.Status == StatusPending && a.Date == today {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		mi, _ := clinicdate.SlotMinutes(out[i].Time)
		mj, _ := clinicdate.SlotMinutes(out[j].Time)
		return mi < mj
	})
	if out == nil {
		out = []Appointment{}
	}
	return out
}

// FilterStatus returns the appointments in the given status, preserving the
// input order.
func FilterStatus(appts []Appointment, status Status) []Appointment {
	return filterStatus(appts, status)
}

func filterStatus(appts []Appointment, status Status) []Appointment {
	out := []Appointment{}
	for _, a := range appts {
		if a.Status == status {
			out = append(out, a)
		}
	}
	return out
}

type schedKey struct {
	day     time.Time
	minutes int
	valid   bool
}

func scheduleKey(a Appointment) schedKey {
	day, err := clinicdate.ParseDate(a.Date)
	if err != nil {
		return schedKey{}
	}
	minutes, err := clinicdate.SlotMinutes(a.Time)
	if err != nil {
		minutes = 0
	}
	return schedKey{day: day, minutes: minutes, valid: true}
}

func (k schedKey) less(other schedKey) bool {
	if k.valid != other.valid {
		return k.valid
	}
	if !k.day.Equal(other.day) {
		return k.day.Before(other.day)
	}
	return k.minutes < other.minutes
}
