package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/t1112000/seatly-fe/internal/booking"
	"github.com/t1112000/seatly-fe/internal/model"
)

type checkoutRequest struct {
	PaymentMethod string `json:"payment_method"`
}

// Checkout handles POST /v1/checkout.  It books the current selection and
// answers with the provider URL, or a 303 to it when ?redirect=1 is set.
// Validation failures never reach the backend and the selection survives
// every failure.
func (h *PortalHandler) Checkout(c echo.Context) error {
	var req checkoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad_request", "message": "invalid request body"})
	}
	opt, err := model.ParsePaymentOption(req.PaymentMethod)
	if err != nil {
		h.Metrics.SubmissionsTotal.WithLabelValues("validation").Inc()
		return respondError(c, err, "Payment failed")
	}

	url, err := currentWorkspace(c).Checkout(c.Request().Context(), opt)
	if err != nil {
		h.Metrics.SubmissionsTotal.WithLabelValues(submissionResult(err)).Inc()
		return respondError(c, err, "Payment failed")
	}
	h.Metrics.SubmissionsTotal.WithLabelValues("success").Inc()

	if c.QueryParam("redirect") == "1" {
		return c.Redirect(http.StatusSeeOther, url)
	}
	return c.JSON(http.StatusOK, echo.Map{"redirect_url": url})
}

func submissionResult(err error) string {
	switch {
	case errors.Is(err, booking.ErrEmptySelection),
		errors.Is(err, booking.ErrPaymentOptionRequired),
		errors.Is(err, booking.ErrUnsupportedPaymentOption):
		return "validation"
	case errors.Is(err, booking.ErrSubmissionInFlight):
		return "in_flight"
	default:
		return "error"
	}
}
