package booking

import "errors"

// Domain error taxonomy. Handlers surface these inside the response
// envelope; none are retried server-side.
var (
	ErrInvalidDoctor = errors.New("invalid doctor")
	ErrSlotTaken     = errors.New("this slot is already booked")
	ErrNotFound      = errors.New("appointment not found")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrInvalidStatus = errors.New("invalid status")
	ErrValidation    = errors.New("doctor, date and slot are required")

	// errDuplicateBookingKey signals that a client replayed an
	// idempotency key; the service resolves it to the original row.
	errDuplicateBookingKey = errors.New("duplicate booking key")
)
