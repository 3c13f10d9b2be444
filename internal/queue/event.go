// Package queue defines the outcome ledger messages and the consumer that
// records them.
package queue

import "time"

// BookingResolvedQueue is the default queue carrying BookingResolvedEvent.
const BookingResolvedQueue = "booking.resolved"

// BookingResolvedEvent is published each time the portal classifies a
// payment return.  Status is empty when the booking lookup failed; such
// events are informational and never change the ledger.
type BookingResolvedEvent struct {
	BookingID   string    `json:"booking_id"`
	SessionID   string    `json:"session_id"`
	View        string    `json:"view"`
	Status      string    `json:"status,omitempty"`
	Amount      float64   `json:"amount"`
	SeatNumbers string    `json:"seat_numbers,omitempty"`
	Provider    string    `json:"payment_provider,omitempty"`
	FetchError  string    `json:"fetch_error,omitempty"`
	ObservedAt  time.Time `json:"observed_at"`
}
