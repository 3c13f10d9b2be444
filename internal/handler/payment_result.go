package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/t1112000/seatly-fe/internal/middleware"
	"github.com/t1112000/seatly-fe/internal/payment"
	"github.com/t1112000/seatly-fe/internal/pkg/logger"
	"github.com/t1112000/seatly-fe/internal/queue"
	"github.com/t1112000/seatly-fe/internal/reqseq"
)

const publishTimeout = 3 * time.Second

// PaymentResult handles GET /payment-result?booking_id=, the page the
// payment provider sends the browser back to.
//
// A missing id answers 400 with the invalid view and no backend call.  A
// failed lookup is not an HTTP error: it renders the failure view with
// fetch_error set, next to whatever status is known.
func (h *PortalHandler) PaymentResult(c echo.Context) error {
	w := currentWorkspace(c)
	bookingID := c.QueryParam("booking_id")

	out, err := w.Resolver.Resolve(c.Request().Context(), bookingID)
	switch {
	case errors.Is(err, payment.ErrMissingIdentifier):
		h.Metrics.ResolutionsTotal.WithLabelValues(string(out.View)).Inc()
		return c.JSON(http.StatusBadRequest, out)
	case errors.Is(err, reqseq.ErrStale):
		h.Metrics.StaleDiscardedTotal.WithLabelValues("payment").Inc()
		return respondError(c, err, "")
	case err != nil:
		return respondError(c, err, "Unable to fetch booking details")
	}
	h.Metrics.ResolutionsTotal.WithLabelValues(string(out.View)).Inc()

	h.publish(c.Request().Context(), middleware.SessionID(c), out)
	return c.JSON(http.StatusOK, out)
}

// publish announces out to the ledger.  Failures are logged only.
func (h *PortalHandler) publish(ctx context.Context, sessionID string, out payment.Outcome) {
	ev := queue.BookingResolvedEvent{
		BookingID:  out.BookingID,
		SessionID:  sessionID,
		View:       string(out.View),
		Status:     string(out.Status),
		FetchError: out.FetchError,
		ObservedAt: time.Now().UTC(),
	}
	if out.Details != nil {
		ev.Amount = float64(out.Details.Amount)
		ev.SeatNumbers = out.Details.SeatNumbers
		ev.Provider = out.Details.Provider
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := h.Publisher.PublishBookingResolved(ctx, ev); err != nil {
		logger.Warn("publish booking outcome", zap.String("booking_id", out.BookingID), zap.Error(err))
	}
}
