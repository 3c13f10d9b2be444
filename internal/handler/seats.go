package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/t1112000/seatly-fe/internal/booking"
	"github.com/t1112000/seatly-fe/internal/model"
	"github.com/t1112000/seatly-fe/internal/reqseq"
	"github.com/t1112000/seatly-fe/internal/seating"
	"github.com/t1112000/seatly-fe/internal/selection"
)

type seatView struct {
	model.Seat
	Selected   bool `json:"selected"`
	Selectable bool `json:"selectable"`
}

type rowView struct {
	Label     string         `json:"label"`
	Type      model.SeatType `json:"type"`
	GridWidth int            `json:"grid_width"`
	Seats     []seatView     `json:"seats"`
}

type selectionView struct {
	SeatIDs     []string              `json:"seat_ids"`
	SeatNumbers string                `json:"seat_numbers"`
	Count       int                   `json:"count"`
	Total       model.Amount          `json:"total"`
	Lines       []booking.SummaryLine `json:"lines"`
}

func newSelectionView(sel selection.Set) selectionView {
	sum := booking.Summarize(sel)
	return selectionView{
		SeatIDs:     sel.IDs(),
		SeatNumbers: sum.SeatNumbers,
		Count:       sel.Len(),
		Total:       sum.Total,
		Lines:       sum.Lines,
	}
}

func newRowViews(rows []seating.Row, sel selection.Set) []rowView {
	out := make([]rowView, len(rows))
	for i, r := range rows {
		seats := make([]seatView, len(r.Seats))
		for j, s := range r.Seats {
			seats[j] = seatView{Seat: s, Selected: sel.Contains(s.ID), Selectable: s.Status.Selectable()}
		}
		out[i] = rowView{Label: r.Label, Type: r.Type, GridWidth: r.GridWidth, Seats: seats}
	}
	return out
}

// SeatMap handles GET /v1/seat-map.  Seats are re-fetched on every call.  A
// malformed seat list comes back as 502 with an empty map; a failed fetch
// reports the error and keeps the previous snapshot for the next render.
func (h *PortalHandler) SeatMap(c echo.Context) error {
	w := currentWorkspace(c)
	if _, err := w.Inventory.Load(c.Request().Context()); err != nil {
		if errors.Is(err, reqseq.ErrStale) {
			h.Metrics.StaleDiscardedTotal.WithLabelValues("seats").Inc()
		}
		return respondError(c, err, "Failed to load seats")
	}
	sel := w.Selection()
	return c.JSON(http.StatusOK, echo.Map{
		"rows":      newRowViews(w.Inventory.Rows(), sel),
		"selection": newSelectionView(sel),
	})
}

// GetSelection handles GET /v1/selection.
func (h *PortalHandler) GetSelection(c echo.Context) error {
	return c.JSON(http.StatusOK, newSelectionView(currentWorkspace(c).Selection()))
}

type toggleRequest struct {
	SeatID string `json:"seat_id" validate:"required"`
}

// ToggleSeat handles POST /v1/selection/toggle.  Booked or locked seats are
// refused with 409 and the selection stays as it was.
func (h *PortalHandler) ToggleSeat(c echo.Context) error {
	var req toggleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad_request", "message": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	sel, err := currentWorkspace(c).ToggleSeat(req.SeatID)
	if err != nil {
		return respondError(c, err, "Unable to update selection")
	}
	return c.JSON(http.StatusOK, newSelectionView(sel))
}

// Back handles POST /v1/selection/back: leaving checkout drops the
// selection.
func (h *PortalHandler) Back(c echo.Context) error {
	return c.JSON(http.StatusOK, newSelectionView(currentWorkspace(c).ClearSelection()))
}
