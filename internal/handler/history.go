package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/t1112000/seatly-fe/internal/history"
	"github.com/t1112000/seatly-fe/internal/model"
	"github.com/t1112000/seatly-fe/internal/reqseq"
)

// maxHistoryPage bounds ?page= so the page offset cannot overflow.
const maxHistoryPage = 100000

type historyItem struct {
	model.Booking
	SeatNumbers string `json:"seat_numbers"`
	StatusLabel string `json:"status_label"`
}

type historyView struct {
	Items      []historyItem   `json:"items"`
	Page       int             `json:"page"`
	TotalPages int             `json:"total_pages"`
	Total      int             `json:"total"`
	Range      string          `json:"range,omitempty"`
	Stats      history.Stats   `json:"stats"`
	Window     []history.Token `json:"window,omitempty"`
	HasPrev    bool            `json:"has_prev"`
	HasNext    bool            `json:"has_next"`
	Error      string          `json:"error,omitempty"`
}

func newHistoryView(st history.State) historyView {
	items := make([]historyItem, len(st.Items))
	for i, b := range st.Items {
		items[i] = historyItem{Booking: b, SeatNumbers: b.SeatNumbers(), StatusLabel: b.Status.Label()}
	}
	return historyView{
		Items:      items,
		Page:       st.CurrentPage(),
		TotalPages: st.TotalPages(),
		Total:      st.Total,
		Range:      st.Range(),
		Stats:      st.Stats(),
		Window:     st.Window(),
		HasPrev:    st.HasPrev(),
		HasNext:    st.HasNext(),
		Error:      st.Err,
	}
}

// History handles GET /v1/history?page=.  Every call fetches the page again.
// A page overtaken by a later request for the same session answers 409.
func (h *PortalHandler) History(c echo.Context) error {
	page := 1
	if p := c.QueryParam("page"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad_request", "message": "page must be a number"})
		}
		if n > maxHistoryPage {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad_request", "message": "page is out of range"})
		}
		page = n
	}

	st, err := currentWorkspace(c).History.ChangePage(c.Request().Context(), page)
	if err != nil {
		if errors.Is(err, reqseq.ErrStale) {
			h.Metrics.StaleDiscardedTotal.WithLabelValues("history").Inc()
		}
		return respondError(c, err, "Failed to load bookings")
	}
	return c.JSON(http.StatusOK, newHistoryView(st))
}
