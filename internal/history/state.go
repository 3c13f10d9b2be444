package history

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/t1112000/seatly-fe/internal/model"
	"github.com/t1112000/seatly-fe/internal/pkg/logger"
)

// DefaultPageSize is used when no positive page size is configured.
const DefaultPageSize = 10

// State is what the history view renders.  Transitions return a new State.
type State struct {
	Offset int             `json:"offset"`
	Limit  int             `json:"limit"`
	Items  []model.Booking `json:"items"`
	Total  int             `json:"total"`
	Err    string          `json:"error,omitempty"`
}

// ChangePage moves to page p.  Pages below 1 clamp to 1.
func (s State) ChangePage(p int) State {
	if p < 1 {
		p = 1
	}
	s.Offset = (p - 1) * s.Limit
	return s
}

func (s State) CurrentPage() int { return CurrentPage(s.Offset, s.Limit) }

func (s State) TotalPages() int { return TotalPages(s.Total, s.Limit) }

// HasPrev reports whether a previous page exists.
func (s State) HasPrev() bool { return s.CurrentPage() > 1 }

// HasNext reports whether a following page exists.
func (s State) HasNext() bool { return s.CurrentPage() < s.TotalPages() }

// Window is the pagination bar for s, or nil when a single page fits all.
func (s State) Window() []Token {
	n := s.TotalPages()
	if n <= 1 {
		return nil
	}
	return Window(s.CurrentPage(), n)
}

// Range renders "Showing a-b of n", or "" when there is nothing to show.
func (s State) Range() string {
	if s.Total <= 0 {
		return ""
	}
	last := s.Offset + s.Limit
	if last > s.Total {
		last = s.Total
	}
	return fmt.Sprintf("Showing %d-%d of %d", s.Offset+1, last, s.Total)
}

// Stats counts the bookings on the current page by outcome.
type Stats struct {
	Total   int `json:"total"`
	Paid    int `json:"paid"`
	Pending int `json:"pending"`
}

func (s State) Stats() Stats {
	st := Stats{Total: s.Total}
	for _, b := range s.Items {
		switch b.Status {
		case model.BookingStatusPaid:
			st.Paid++
		case model.BookingStatusPendingPayment:
			st.Pending++
		case model.BookingStatusFailed, model.BookingStatusExpired:
			// not counted
		default:
			logger.Warn("history: unexpected booking status", zap.String("booking_id", b.ID), zap.String("status", string(b.Status)))
		}
	}
	return st
}
