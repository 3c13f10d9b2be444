package booking

import (
	"fmt"

	"github.com/t1112000/seatly-fe/internal/model"
	"github.com/t1112000/seatly-fe/internal/selection"
)

// SummaryLine is one seat on the checkout summary, e.g. "A1 (VIP)".
type SummaryLine struct {
	SeatID string       `json:"seat_id"`
	Label  string       `json:"label"`
	Price  model.Amount `json:"price"`
}

// Summary is what the user confirms before paying.
type Summary struct {
	Lines       []SummaryLine `json:"lines"`
	SeatNumbers string        `json:"seat_numbers"`
	Total       model.Amount  `json:"total"`
}

// Summarize builds the checkout summary for sel.
func Summarize(sel selection.Set) Summary {
	seats := sel.Seats()
	lines := make([]SummaryLine, len(seats))
	for i, s := range seats {
		lines[i] = SummaryLine{
			SeatID: s.ID,
			Label:  fmt.Sprintf("%s (%s)", s.SeatNumber, s.Type),
			Price:  s.Price,
		}
	}
	return Summary{
		Lines:       lines,
		SeatNumbers: sel.SeatNumbers(),
		Total:       sel.TotalPrice(),
	}
}
