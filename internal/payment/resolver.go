// Package payment resolves what happened to a booking after the user comes
// back from the payment provider.
package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/t1112000/seatly-fe/internal/apiclient"
	"github.com/t1112000/seatly-fe/internal/model"
	"github.com/t1112000/seatly-fe/internal/pkg/logger"
	"github.com/t1112000/seatly-fe/internal/reqseq"
)

// ErrMissingIdentifier is returned when the result view was opened without a
// booking id.  It is terminal; no lookup is attempted.
var ErrMissingIdentifier = errors.New("booking id is missing")

// Resolver looks up bookings and keeps the outcome for the most recently
// requested id.  Lookups for the same id share one request.
type Resolver struct {
	transport apiclient.Transport
	group     singleflight.Group
	seq       reqseq.Counter

	issueMu   sync.Mutex
	lastID    string
	lastToken reqseq.Token

	mu      sync.RWMutex
	current *Outcome
}

// NewResolver returns a Resolver fetching through t.
func NewResolver(t apiclient.Transport) *Resolver {
	return &Resolver{transport: t}
}

// Resolve fetches bookingID and classifies it.
//
// The returned Outcome is always usable for display, even alongside an
// error.  An empty id yields ErrMissingIdentifier.  A lookup overtaken by a
// Resolve for another id yields reqseq.ErrStale and leaves Current alone;
// repeated lookups of the latest id all apply.
// Fetch failures are not returned as errors; they land in
// Outcome.FetchError.
func (r *Resolver) Resolve(ctx context.Context, bookingID string) (Outcome, error) {
	token := r.issue(bookingID)

	if bookingID == "" {
		out := Classify("", nil, nil)
		r.seq.ApplyIfLatest(token, func() { r.setCurrent(out) })
		return out, ErrMissingIdentifier
	}

	v, err, shared := r.group.Do(bookingID, func() (any, error) {
		return r.fetch(context.WithoutCancel(ctx), bookingID)
	})
	b, _ := v.(*model.Booking)
	if err != nil {
		logger.Warn("booking lookup failed",
			zap.String("booking_id", bookingID),
			zap.Bool("shared", shared),
			zap.Error(err),
		)
	}

	out := Classify(bookingID, b, err)
	if !r.seq.ApplyIfLatest(token, func() { r.setCurrent(out) }) {
		return out, reqseq.ErrStale
	}
	return out, nil
}

// issue returns the token for bookingID.  A request for the id that was
// requested last shares its token, so only a change of id supersedes.
func (r *Resolver) issue(bookingID string) reqseq.Token {
	r.issueMu.Lock()
	defer r.issueMu.Unlock()
	if r.lastToken != 0 && r.lastID == bookingID && r.seq.IsLatest(r.lastToken) {
		return r.lastToken
	}
	r.lastID = bookingID
	r.lastToken = r.seq.Next()
	return r.lastToken
}

// Current returns the outcome of the latest applied Resolve.
func (r *Resolver) Current() (Outcome, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.current == nil {
		return Outcome{}, false
	}
	return *r.current, true
}

func (r *Resolver) setCurrent(out Outcome) {
	r.mu.Lock()
	r.current = &out
	r.mu.Unlock()
}

func (r *Resolver) fetch(ctx context.Context, bookingID string) (*model.Booking, error) {
	raw, err := r.transport.Do(ctx, http.MethodGet, "/v1/bookings/"+url.PathEscape(bookingID), nil)
	if err != nil {
		return nil, err
	}
	b, err := decodeBooking(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apiclient.ErrMalformedResponse, err)
	}
	return b, nil
}

// decodeBooking accepts both {"data": {...}} and a bare booking object.
func decodeBooking(raw json.RawMessage) (*model.Booking, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, err
	}
	body := []byte(raw)
	if data, ok := envelope["data"]; ok && len(data) > 0 && data[0] == '{' {
		body = data
	}
	var b model.Booking
	if err := json.Unmarshal(body, &b); err != nil {
		return nil, err
	}
	return &b, nil
}
