package clinicdate

import (
	"errors"
	"testing"
	"time"
)

func TestFormatDateZeroPads(t *testing.T) {
	d := time.Date(2024, time.June, 5, 0, 0, 0, 0, time.UTC)
	if got := FormatDate(d); got != "05/06/2024" {
		t.Fatalf("expected 05/06/2024, got %s", got)
	}
}

func TestParseDateRoundTrip(t *testing.T) {
	day, err := ParseDate("10/06/2024")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if day.Day() != 10 || day.Month() != time.June || day.Year() != 2024 {
		t.Fatalf("unexpected day %v", day)
	}
	if FormatDate(day) != "10/06/2024" {
		t.Fatalf("round trip mismatch: %s", FormatDate(day))
	}
}

func TestParseDateRejectsOtherForms(t *testing.T) {
	for _, s := range []string{"2024-06-10", "6/10/2024x", "", "junk"} {
		if _, err := ParseDate(s); !errors.Is(err, ErrBadDate) {
			t.Errorf("expected ErrBadDate for %q, got %v", s, err)
		}
	}
}

func TestSlotMinutes(t *testing.T) {
	cases := map[string]int{
		"9:00":  540,
		"9:30":  570,
		"13:00": 780,
		"18:30": 1110,
	}
	for label, want := range cases {
		got, err := SlotMinutes(label)
		if err != nil {
			t.Fatalf("%s: %v", label, err)
		}
		if got != want {
			t.Errorf("%s: expected %d, got %d", label, want, got)
		}
	}
}

func TestSlotMinutesRejectsGarbage(t *testing.T) {
	for _, label := range []string{"", "25:00", "9:60", "9", "nine:00"} {
		if _, err := SlotMinutes(label); !errors.Is(err, ErrBadSlot) {
			t.Errorf("expected ErrBadSlot for %q, got %v", label, err)
		}
	}
}

func TestSlotLabelUnpaddedHour(t *testing.T) {
	if got := SlotLabel(9, 0); got != "9:00" {
		t.Fatalf("expected 9:00, got %s", got)
	}
	if got := SlotLabel(13, 30); got != "13:30" {
		t.Fatalf("expected 13:30, got %s", got)
	}
}

func TestAtResolvesWallClock(t *testing.T) {
	loc := time.FixedZone("clinic", 8*3600)
	at, err := At("10/06/2024", "9:30", loc)
	if err != nil {
		t.Fatalf("at: %v", err)
	}
	want := time.Date(2024, time.June, 10, 9, 30, 0, 0, loc)
	if !at.Equal(want) {
		t.Fatalf("expected %v, got %v", want, at)
	}
}
