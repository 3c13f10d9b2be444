package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// BookingStatus tracks a booking through payment.  A booking starts in
// PENDING_PAYMENT and moves exactly once into one of the terminal statuses.
type BookingStatus string

const (
	BookingStatusPendingPayment BookingStatus = "PENDING_PAYMENT"
	BookingStatusPaid           BookingStatus = "PAID"
	BookingStatusFailed         BookingStatus = "FAILED"
	BookingStatusExpired        BookingStatus = "EXPIRED"
)

// Valid reports whether s is one of the known booking statuses.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPendingPayment, BookingStatusPaid, BookingStatusFailed, BookingStatusExpired:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transition is expected from s.
func (s BookingStatus) IsTerminal() bool {
	switch s {
	case BookingStatusPaid, BookingStatusFailed, BookingStatusExpired:
		return true
	case BookingStatusPendingPayment:
		return false
	default:
		return false
	}
}

// CanTransitionTo reports whether observing next after s is consistent with
// the one-way lifecycle.  Re-observing the same status is always allowed.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	if !next.Valid() {
		return false
	}
	if s == next {
		return true
	}
	switch s {
	case BookingStatusPendingPayment:
		return next.IsTerminal()
	case BookingStatusPaid, BookingStatusFailed, BookingStatusExpired:
		return false
	default:
		return false
	}
}

// Label is the short badge text used in booking lists.
func (s BookingStatus) Label() string {
	switch s {
	case BookingStatusPaid:
		return "Paid"
	case BookingStatusPendingPayment:
		return "Pending"
	case BookingStatusFailed:
		return "Failed"
	case BookingStatusExpired:
		return "Expired"
	default:
		return string(s)
	}
}

// DisplayText renders the raw status for prose, e.g. "pending payment".
func (s BookingStatus) DisplayText() string {
	return strings.ToLower(strings.ReplaceAll(string(s), "_", " "))
}

// UnmarshalJSON rejects statuses outside the known lifecycle.
func (s *BookingStatus) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	v := BookingStatus(raw)
	if !v.Valid() {
		return fmt.Errorf("%w: booking status %q", ErrUnknownVariant, raw)
	}
	*s = v
	return nil
}

// Booking is the server's view of a reservation and its payment.  The portal
// never changes a Booking locally; it only re-fetches it.
//
// Any of seats, amount and the provider fields may be absent in a detail
// response.  Absent seats decode as nil, absent amount as zero and absent
// provider fields as nil pointers.
type Booking struct {
	ID                    string        `json:"id"`
	UserID                string        `json:"user_id"`
	User                  *User         `json:"user,omitempty"`
	Seats                 []Seat        `json:"seats"`
	Amount                Amount        `json:"amount"`
	Status                BookingStatus `json:"status"`
	PaymentProvider       *string       `json:"payment_provider,omitempty"`
	ProviderSessionID     *string       `json:"provider_session_id,omitempty"`
	ProviderTransactionID *string       `json:"provider_transaction_id,omitempty"`
	ExpiresAt             *time.Time    `json:"expires_at,omitempty"`
}

// SeatNumbers joins the seat labels of b for display, e.g. "A1, A2".
func (b Booking) SeatNumbers() string {
	labels := make([]string, 0, len(b.Seats))
	for _, s := range b.Seats {
		labels = append(labels, s.SeatNumber)
	}
	return strings.Join(labels, ", ")
}
