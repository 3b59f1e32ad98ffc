// Package booking implements the patient-facing booking flow: form
// validation, a best-effort availability re-check, and the Pending insert.
package booking

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/novadental/booking-platform/internal/appointments"
	"github.com/novadental/booking-platform/internal/availability"
	"github.com/novadental/booking-platform/internal/notify"
	"github.com/novadental/booking-platform/internal/observability/metrics"
	"github.com/novadental/booking-platform/pkg/logging"
)

// ErrSlotUnavailable is returned when the requested slot is in the past or
// already held by a Pending appointment at check time. This check is best
// effort only: two clients racing for the same freed slot can both pass it,
// and the resulting duplicate Pending records are reconciled by staff.
var ErrSlotUnavailable = errors.New("booking: slot is not available")

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// PatientInfo is the second step of the booking form.
type PatientInfo struct {
	FullName      string `json:"fullName"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	DateOfBirth   string `json:"dateOfBirth"`
	DentalConcern string `json:"dentalConcern"`
	PatientType   string `json:"patientType"`
	SpecialNotes  string `json:"specialNotes"`
	Insurance     string `json:"insurance"`
}

// Request is a completed booking submission: the slot from step one plus the
// patient form from step two.
type Request struct {
	Date        string      `json:"date"`
	Time        string      `json:"time"`
	PatientInfo PatientInfo `json:"patientInfo"`
}

// Validate applies the patient-form rules and returns field-keyed messages.
func (r *Request) Validate() map[string]string {
	errs := map[string]string{}

	if strings.TrimSpace(r.Date) == "" {
		errs["date"] = "Date is required"
	}
	if strings.TrimSpace(r.Time) == "" {
		errs["time"] = "Time is required"
	}

	info := r.PatientInfo
	if strings.TrimSpace(info.FullName) == "" {
		errs["fullName"] = "Full name is required"
	}
	if email := strings.TrimSpace(info.Email); email != "" && !emailPattern.MatchString(email) {
		errs["email"] = "Please enter a valid email address"
	}
	if strings.TrimSpace(info.Phone) == "" {
		errs["phone"] = "Phone number is required"
	} else if len(digitsOnly(info.Phone)) < 10 {
		errs["phone"] = "Please enter a valid phone number"
	}
	if strings.TrimSpace(info.DateOfBirth) == "" {
		errs["dateOfBirth"] = "Age is required"
	} else if age, err := strconv.Atoi(strings.TrimSpace(info.DateOfBirth)); err != nil || age < 1 || age > 120 {
		errs["dateOfBirth"] = "Please enter a valid age (1-120)"
	}
	if strings.TrimSpace(info.DentalConcern) == "" {
		errs["dentalConcern"] = "Please select your dental concern"
	}
	switch info.PatientType {
	case "", "new", "returning":
	default:
		errs["patientType"] = "Patient type must be new or returning"
	}

	return errs
}

// ValidationError carries the per-field messages for a rejected form.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "booking: invalid submission"
}

// Service runs the booking flow.
type Service struct {
	repo     appointments.Repository
	engine   *availability.Engine
	cache    *availability.Cache
	notifier notify.Notifier
	logger   *logging.Logger
	metrics  *metrics.BookingMetrics
}

// NewService creates a booking service.
func NewService(repo appointments.Repository, engine *availability.Engine, cache *availability.Cache,
	notifier notify.Notifier, logger *logging.Logger, m *metrics.BookingMetrics) *Service {
	if repo == nil {
		panic("booking: repository required")
	}
	if engine == nil {
		panic("booking: availability engine required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{repo: repo, engine: engine, cache: cache, notifier: notifier, logger: logger, metrics: m}
}

// Book validates the submission, re-checks the slot and inserts the Pending
// record. A failed insert is surfaced once and never retried here; the
// client owns the single-retry path.
func (s *Service) Book(ctx context.Context, req *Request) (*appointments.Appointment, error) {
	if fields := req.Validate(); len(fields) > 0 {
		s.metrics.ObserveBookingFailure("validation")
		return nil, &ValidationError{Fields: fields}
	}

	// Pull a fresh snapshot before the slot check. A degraded refresh falls
	// open to "no bookings known", matching the listing behavior.
	if s.cache != nil {
		_ = s.cache.Refresh(ctx)
	}

	ok, err := s.engine.IsAvailable(req.Date, req.Time)
	if err != nil {
		s.metrics.ObserveBookingFailure("bad_date")
		return nil, err
	}
	if !ok {
		s.metrics.ObserveBookingFailure("slot_taken")
		return nil, ErrSlotUnavailable
	}

	service := strings.TrimSpace(req.PatientInfo.DentalConcern)
	if service == "" {
		service = "General Consultation"
	}

	appt := &appointments.Appointment{
		PatientName:   strings.TrimSpace(req.PatientInfo.FullName),
		Email:         strings.TrimSpace(req.PatientInfo.Email),
		Phone:         strings.TrimSpace(req.PatientInfo.Phone),
		Service:       service,
		Date:          strings.TrimSpace(req.Date),
		Time:          strings.TrimSpace(req.Time),
		DateOfBirth:   strings.TrimSpace(req.PatientInfo.DateOfBirth),
		DentalConcern: strings.TrimSpace(req.PatientInfo.DentalConcern),
		PatientType:   patientTypeOrDefault(req.PatientInfo.PatientType),
		SpecialNotes:  req.PatientInfo.SpecialNotes,
		Insurance:     req.PatientInfo.Insurance,
	}

	created, err := s.repo.Create(ctx, appt)
	if err != nil {
		s.metrics.ObserveBookingFailure("storage")
		return nil, fmt.Errorf("booking: save: %w", err)
	}
	s.metrics.ObserveBookingCreated()
	s.logger.Info("booking created", "id", created.ID, "date", created.Date, "time", created.Time)

	// Fold the new Pending record into the snapshot right away so the next
	// listing from this process blocks the slot without waiting a tick.
	if s.cache != nil {
		_ = s.cache.Refresh(ctx)
	}

	if s.notifier != nil {
		if err := s.notifier.AppointmentBooked(ctx, created); err != nil {
			s.logger.Warn("booking notification failed", "error", err, "id", created.ID)
		}
	}
	return created, nil
}

func patientTypeOrDefault(t string) string {
	if t == "returning" {
		return "returning"
	}
	return "new"
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
