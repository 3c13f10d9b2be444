package seating

import (
	"sort"

	"github.com/t1112000/seatly-fe/internal/model"
)

// CoupleGridWidth is the fixed number of grid columns used for COUPLE rows,
// whatever their actual column numbers.
const CoupleGridWidth = 10

// Row is one display row of the seat map.
type Row struct {
	Label     string         `json:"label"`
	Type      model.SeatType `json:"type"`
	GridWidth int            `json:"grid_width"`
	Seats     []model.Seat   `json:"seats"`
}

// BuildRows groups seats by row label, orders each row by column and the rows
// by label.  The row type comes from the first seat after sorting; rows are
// expected to be homogeneous and mixed rows are not reconciled.
func BuildRows(seats []model.Seat) []Row {
	grouped := make(map[string][]model.Seat)
	for _, s := range seats {
		grouped[s.RowLabel] = append(grouped[s.RowLabel], s)
	}

	labels := make([]string, 0, len(grouped))
	for label := range grouped {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	rows := make([]Row, 0, len(labels))
	for _, label := range labels {
		rowSeats := grouped[label]
		sort.SliceStable(rowSeats, func(i, j int) bool {
			return rowSeats[i].ColNumber < rowSeats[j].ColNumber
		})
		rows = append(rows, Row{
			Label:     label,
			Type:      rowSeats[0].Type,
			GridWidth: gridWidth(rowSeats),
			Seats:     rowSeats,
		})
	}
	return rows
}

func gridWidth(rowSeats []model.Seat) int {
	if rowSeats[0].Type == model.SeatTypeCouple {
		return CoupleGridWidth
	}
	width := 0
	for _, s := range rowSeats {
		if s.ColNumber > width {
			width = s.ColNumber
		}
	}
	return width
}
