// Package booking turns a seat selection into a backend booking and hands
// back the payment provider URL the browser must be sent to.
package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/t1112000/seatly-fe/internal/apiclient"
	"github.com/t1112000/seatly-fe/internal/model"
	"github.com/t1112000/seatly-fe/internal/pkg/logger"
	"github.com/t1112000/seatly-fe/internal/selection"
)

var (
	ErrEmptySelection           = errors.New("select at least one seat")
	ErrPaymentOptionRequired    = errors.New("choose a payment method")
	ErrUnsupportedPaymentOption = errors.New("unsupported payment method")
	ErrSubmissionInFlight       = errors.New("a booking is already being submitted")
	ErrMissingPaymentURL        = errors.New("booking response has no payment url")
)

const bookingsPath = "/v1/bookings"

type createRequest struct {
	SeatIDs       []string            `json:"seat_ids"`
	PaymentMethod model.PaymentOption `json:"payment_method"`
}

type createResponse struct {
	Data struct {
		PaymentURL string `json:"payment_url"`
	} `json:"data"`
}

// Submitter creates bookings, one at a time.  Once a submission succeeds the
// payment happens at the provider; Submitter never waits for its outcome.
type Submitter struct {
	transport apiclient.Transport
	inFlight  atomic.Bool
}

// NewSubmitter returns a Submitter posting through t.
func NewSubmitter(t apiclient.Transport) *Submitter {
	return &Submitter{transport: t}
}

// Processing reports whether a submission is currently in flight.
func (s *Submitter) Processing() bool {
	return s.inFlight.Load()
}

// Submit books every seat in sel and returns the provider redirect URL.
//
// An empty selection or a missing payment option fails locally without a
// request.  A second Submit while one is pending fails with
// ErrSubmissionInFlight.  sel is never modified; on failure the caller keeps
// its selection as it was.
func (s *Submitter) Submit(ctx context.Context, sel selection.Set, opt model.PaymentOption) (string, error) {
	if sel.IsEmpty() {
		return "", ErrEmptySelection
	}
	if opt == "" {
		return "", ErrPaymentOptionRequired
	}
	if !opt.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedPaymentOption, opt)
	}
	if !s.inFlight.CompareAndSwap(false, true) {
		return "", ErrSubmissionInFlight
	}
	defer s.inFlight.Store(false)

	req := createRequest{SeatIDs: sel.IDs(), PaymentMethod: opt}
	raw, err := s.transport.Do(ctx, http.MethodPost, bookingsPath, req)
	if err != nil {
		logger.Warn("booking submission failed",
			zap.Strings("seat_ids", req.SeatIDs),
			zap.String("payment_method", string(opt)),
			zap.Error(err),
		)
		return "", fmt.Errorf("create booking: %w", err)
	}

	var resp createResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("create booking: %w: %v", apiclient.ErrMalformedResponse, err)
	}
	if resp.Data.PaymentURL == "" {
		return "", ErrMissingPaymentURL
	}
	logger.Info("booking created",
		zap.Int("seats", len(req.SeatIDs)),
		zap.String("payment_method", string(opt)),
	)
	return resp.Data.PaymentURL, nil
}
