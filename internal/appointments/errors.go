package appointments

import "errors"

var (
	// ErrNotFound is returned when no appointment exists with the given id.
	ErrNotFound = errors.New("appointment not found")

	// ErrInvalidStatus is returned when a status value is not one of the
	// three known states.
	ErrInvalidStatus = errors.New("invalid appointment status")
)
