package appointment

import "errors"

var (
	errAppointmentNotFound = errors.New("appointment not found")
	errSlotTaken           = errors.New("time slot already booked for this doctor")
	errNotOwner            = errors.New("appointment belongs to someone else")
	errAlreadyCancelled    = errors.New("appointment is already cancelled")
)
