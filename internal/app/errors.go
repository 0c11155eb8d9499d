package app

import "errors"

var (
	// ErrAdmissionDenied rejects a join whose password attempt does not
	// match the room's stored password.
	ErrAdmissionDenied = errors.New("admission denied")
)
