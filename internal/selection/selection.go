// Package selection is the set of seats a user has picked but not yet booked.
// A Set is a value: every change returns a new Set and leaves the receiver
// untouched.
package selection

import (
	"errors"
	"strings"

	"github.com/t1112000/seatly-fe/internal/model"
)

// ErrSeatUnavailable is returned when a LOCKED or BOOKED seat is toggled.
var ErrSeatUnavailable = errors.New("seat is not available")

// Set holds selected seats in the order they were picked.  The zero value is
// an empty selection.
type Set struct {
	seats []model.Seat
}

// Toggle adds seat when absent and removes it when present.  Seats that are
// not selectable are rejected with ErrSeatUnavailable and s is returned as
// is, selected or not.
func (s Set) Toggle(seat model.Seat) (Set, error) {
	if !seat.Status.Selectable() {
		return s, ErrSeatUnavailable
	}
	for i, picked := range s.seats {
		if picked.ID == seat.ID {
			next := make([]model.Seat, 0, len(s.seats)-1)
			next = append(next, s.seats[:i]...)
			next = append(next, s.seats[i+1:]...)
			return Set{seats: next}, nil
		}
	}
	next := make([]model.Seat, 0, len(s.seats)+1)
	next = append(next, s.seats...)
	next = append(next, seat)
	return Set{seats: next}, nil
}

// Clear returns an empty selection.
func (s Set) Clear() Set { return Set{} }

func (s Set) Len() int { return len(s.seats) }

func (s Set) IsEmpty() bool { return len(s.seats) == 0 }

// Contains reports whether the seat with id is selected.
func (s Set) Contains(id string) bool {
	for _, picked := range s.seats {
		if picked.ID == id {
			return true
		}
	}
	return false
}

// Seats returns a copy of the selected seats.
func (s Set) Seats() []model.Seat {
	out := make([]model.Seat, len(s.seats))
	copy(out, s.seats)
	return out
}

// IDs returns the selected seat ids in pick order.
func (s Set) IDs() []string {
	ids := make([]string, len(s.seats))
	for i, picked := range s.seats {
		ids[i] = picked.ID
	}
	return ids
}

// SeatNumbers joins the selected seat labels, e.g. "A1, A2".
func (s Set) SeatNumbers() string {
	labels := make([]string, len(s.seats))
	for i, picked := range s.seats {
		labels[i] = picked.SeatNumber
	}
	return strings.Join(labels, ", ")
}

// TotalPrice sums the prices of the selected seats.
func (s Set) TotalPrice() model.Amount {
	var total model.Amount
	for _, picked := range s.seats {
		total += picked.Price
	}
	return total
}
