package store

import "errors"

var (
	// ErrNotFound is returned when the referenced id does not exist.
	ErrNotFound = errors.New("not found")

	// ErrBookingConflict is returned when a booking would overlap a
	// non-cancelled booking of the same room.
	ErrBookingConflict = errors.New("Booking Conflict")

	// ErrRoomInUse is returned when a room still has upcoming bookings or
	// open maintenance work and cannot be deleted.
	ErrRoomInUse = errors.New("room has active bookings or maintenance")

	// ErrInvalidTransition is returned for a status change the lifecycle
	// does not allow, such as un-cancelling a booking.
	ErrInvalidTransition = errors.New("invalid status transition")
)
