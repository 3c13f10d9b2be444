package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/t1112000/seatly-fe/internal/apiclient"
	"github.com/t1112000/seatly-fe/internal/auth"
	"github.com/t1112000/seatly-fe/internal/booking"
	"github.com/t1112000/seatly-fe/internal/model"
	"github.com/t1112000/seatly-fe/internal/payment"
	"github.com/t1112000/seatly-fe/internal/reqseq"
	"github.com/t1112000/seatly-fe/internal/seating"
	"github.com/t1112000/seatly-fe/internal/selection"
	"github.com/t1112000/seatly-fe/internal/workspace"
)

// classify maps a component error to a status, an error code and the text
// shown to the user.  Server-provided text wins over fallback for backend
// failures.
func classify(err error, fallback string) (int, string, string) {
	switch {
	case errors.Is(err, booking.ErrEmptySelection),
		errors.Is(err, booking.ErrPaymentOptionRequired),
		errors.Is(err, booking.ErrUnsupportedPaymentOption),
		errors.Is(err, model.ErrUnknownVariant):
		return http.StatusBadRequest, "validation_error", err.Error()
	case errors.Is(err, selection.ErrSeatUnavailable):
		return http.StatusConflict, "seat_unavailable", err.Error()
	case errors.Is(err, workspace.ErrUnknownSeat):
		return http.StatusNotFound, "unknown_seat", err.Error()
	case errors.Is(err, booking.ErrSubmissionInFlight):
		return http.StatusConflict, "in_flight", err.Error()
	case errors.Is(err, reqseq.ErrStale):
		return http.StatusConflict, "stale", err.Error()
	case errors.Is(err, payment.ErrMissingIdentifier):
		return http.StatusBadRequest, "missing_identifier", err.Error()
	case errors.Is(err, auth.ErrUnauthenticated):
		return http.StatusUnauthorized, "unauthorized", apiclient.Message(err, "Please sign in")
	case errors.Is(err, seating.ErrInvalidPayload),
		errors.Is(err, apiclient.ErrMalformedResponse),
		errors.Is(err, booking.ErrMissingPaymentURL):
		return http.StatusBadGateway, "invalid_payload", fallback
	default:
		var apiErr *apiclient.Error
		if errors.As(err, &apiErr) {
			return http.StatusBadGateway, "backend_error", apiclient.Message(err, fallback)
		}
		return http.StatusBadGateway, "network_error", fallback
	}
}

// respondError writes err as {"error": code, "message": text}.
func respondError(c echo.Context, err error, fallback string) error {
	status, code, msg := classify(err, fallback)
	return c.JSON(status, echo.Map{"error": code, "message": msg})
}
