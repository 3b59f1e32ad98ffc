// Package notify defines the patient-notification seam. Actual delivery
// (SMS, email) is out of scope for this service; the only implementation is
// a logging stub, and callers treat notification as fire-and-forget.
package notify

import (
	"context"

	"github.com/novadental/booking-platform/internal/appointments"
	"github.com/novadental/booking-platform/pkg/logging"
)

// Notifier receives appointment lifecycle events a patient would care about.
type Notifier interface {
	AppointmentBooked(ctx context.Context, appt *appointments.Appointment) error
}

// LogNotifier records the event on the application log and does nothing else.
type LogNotifier struct {
	logger *logging.Logger
}

// NewLogNotifier creates the stub notifier.
func NewLogNotifier(logger *logging.Logger) *LogNotifier {
	if logger == nil {
		logger = logging.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) AppointmentBooked(ctx context.Context, appt *appointments.Appointment) error {
	n.logger.Info("appointment booked",
		"id", appt.ID,
		"date", appt.Date,
		"time", appt.Time,
		"patient", appt.PatientName,
	)
	return nil
}
