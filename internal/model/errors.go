package model

import "errors"

// ErrUnknownVariant is returned when a payload carries a type or status value
// outside the closed set the portal knows about.
var ErrUnknownVariant = errors.New("unknown enum value")

// ErrInvalidTransition is returned when a booking is observed moving out of a
// terminal status, or between two different terminal statuses.
var ErrInvalidTransition = errors.New("invalid booking status transition")
