package fees

import "errors"

// Sentinel errors returned by the service. Callers classify failures with
// errors.Is; the wrapped message carries the detail.
var (
	// ErrValidation is returned for malformed or missing input. No state change.
	ErrValidation = errors.New("invalid input")
	// ErrConflict is returned on a uniqueness violation (seat number, or a
	// duplicate obligation for the same student and month).
	ErrConflict = errors.New("conflict")
	// ErrNotFound is returned when the referenced entity does not exist.
	ErrNotFound = errors.New("not found")
)
