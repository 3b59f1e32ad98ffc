package appointments

import "time"

// Status is the lifecycle state of an appointment. Only Pending occupies a
// calendar slot; Done and no-show records free it.
type Status string

const (
	StatusPending Status = "Pending"
	StatusDone    Status = "Done"
	StatusNoShow  Status = "Didn't show up"
)

// Valid reports whether s is one of the three known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusDone, StatusNoShow:
		return true
	}
	return false
}

// Appointment is a booked visit. Date is a literal DD/MM/YYYY key and Time an
// unpadded H:MM slot label; both are compared as text throughout the system
// (see internal/clinicdate).
type Appointment struct {
	ID            string    `json:"id"`
	PatientName   string    `json:"patientName"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Service       string    `json:"service"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`
	Status        Status    `json:"status"`
	DateOfBirth   string    `json:"dateOfBirth"`
	DentalConcern string    `json:"dentalConcern"`
	PatientType   string    `json:"patientType"`
	SpecialNotes  string    `json:"specialNotes"`
	Insurance     string    `json:"insurance"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
	BookedAt      time.Time `json:"bookedAt"`
}
