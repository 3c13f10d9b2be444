// Package repository persists what the portal has observed about bookings.
// The sentinel values let the ledger consumer tell a missing row from a
// rejected status change.
package repository

import "errors"

// ErrOutcomeNotFound is returned when no outcome was recorded for a booking.
var ErrOutcomeNotFound = errors.New("outcome not found")

// ErrConflict is returned when an observation contradicts what is already
// recorded, such as a booking moving from PAID to EXPIRED.  It wraps
// model.ErrInvalidTransition.
var ErrConflict = errors.New("conflict")
