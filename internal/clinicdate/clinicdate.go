// Package clinicdate normalizes the textual date and time keys appointments
// are stored under. Dates are literal DD/MM/YYYY strings and slot times are
// unpadded 24-hour H:MM labels ("9:00", "13:30"); every comparison in the
// system goes through these helpers so the two formats never drift.
package clinicdate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the canonical calendar-day form, e.g. "05/06/2024".
const DateLayout = "02/01/2006"

var (
	ErrBadDate = errors.New("clinicdate: date must be DD/MM/YYYY")
	ErrBadSlot = errors.New("clinicdate: time must be H:MM")
)

// FormatDate renders t as a DD/MM/YYYY key.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a DD/MM/YYYY key into a calendar day. The returned value
// carries no zone and is meant for ordering; use At for wall-clock instants.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrBadDate, s)
	}
	return t, nil
}

// SlotMinutes converts an H:MM label to minutes since midnight.
func SlotMinutes(label string) (int, error) {
	h, m, err := splitSlot(label)
	if err != nil {
		return 0, err
	}
	return h*60 + m, nil
}

// SlotLabel renders hour and minute back into the canonical unpadded form.
func SlotLabel(hour, minute int) string {
	return fmt.Sprintf("%d:%02d", hour, minute)
}

// At resolves a (date key, slot label) pair to a wall-clock instant in loc.
func At(dateKey, slot string, loc *time.Location) (time.Time, error) {
	day, err := ParseDate(dateKey)
	if err != nil {
		return time.Time{}, err
	}
	h, m, err := splitSlot(slot)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, loc), nil
}

// Today returns the date key for the instant now.
func Today(now time.Time) string {
	return FormatDate(now)
}

func splitSlot(label string) (hour, minute int, err error) {
	parts := strings.SplitN(strings.TrimSpace(label), ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadSlot, label)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadSlot, label)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadSlot, label)
	}
	return hour, minute, nil
}
