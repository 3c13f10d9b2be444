package model

import (
	"encoding/json"
	"fmt"
)

// SeatType is the class of a seat.  Rows are homogeneous: every seat in a
// row shares the same type, so the first seat of a row decides how the whole
// row is laid out.
type SeatType string

const (
	SeatTypeStandard SeatType = "STANDARD"
	SeatTypeVIP      SeatType = "VIP"
	SeatTypeCouple   SeatType = "COUPLE"
)

// Valid reports whether t is one of the known seat types.
func (t SeatType) Valid() bool {
	switch t {
	case SeatTypeStandard, SeatTypeVIP, SeatTypeCouple:
		return true
	default:
		return false
	}
}

// UnmarshalJSON rejects seat types the portal does not know how to lay out.
func (t *SeatType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v := SeatType(s)
	if !v.Valid() {
		return fmt.Errorf("%w: seat type %q", ErrUnknownVariant, s)
	}
	*t = v
	return nil
}

// SeatStatus is the server-side availability of a seat at fetch time.  The
// value can be stale by the time a booking is submitted; the backend stays
// authoritative.
type SeatStatus string

const (
	SeatStatusAvailable SeatStatus = "AVAILABLE"
	SeatStatusLocked    SeatStatus = "LOCKED"
	SeatStatusBooked    SeatStatus = "BOOKED"
)

// Valid reports whether s is one of the known seat statuses.
func (s SeatStatus) Valid() bool {
	switch s {
	case SeatStatusAvailable, SeatStatusLocked, SeatStatusBooked:
		return true
	default:
		return false
	}
}

// Selectable reports whether a seat in this status may enter a selection.
func (s SeatStatus) Selectable() bool {
	switch s {
	case SeatStatusAvailable:
		return true
	case SeatStatusLocked, SeatStatusBooked:
		return false
	default:
		return false
	}
}

// UnmarshalJSON rejects unknown statuses so a new backend status shows up as a
// payload error instead of being treated as selectable.
func (s *SeatStatus) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	v := SeatStatus(raw)
	if !v.Valid() {
		return fmt.Errorf("%w: seat status %q", ErrUnknownVariant, raw)
	}
	*s = v
	return nil
}

// Seat is a read-only snapshot of a seat as returned by GET /v1/seats.
//
// Fields:
//
//	ID         – unique seat identifier.
//	SeatNumber – display label, e.g. "A7".
//	Type       – STANDARD, VIP or COUPLE.
//	RowLabel   – row the seat belongs to.
//	ColNumber  – 1-based column inside the row.
//	Price      – non-negative seat price.
//	Status     – AVAILABLE, LOCKED or BOOKED.
//	Version    – optimistic concurrency token, round-tripped untouched.
type Seat struct {
	ID         string     `json:"id"`
	SeatNumber string     `json:"seat_number"`
	Type       SeatType   `json:"type"`
	RowLabel   string     `json:"row_label"`
	ColNumber  int        `json:"col_number"`
	Price      Amount     `json:"price"`
	Status     SeatStatus `json:"status"`
	Version    int        `json:"version"`
}
