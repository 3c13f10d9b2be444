// Package seating holds the seat map snapshot fetched from the backend.
package seating

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/t1112000/seatly-fe/internal/apiclient"
	"github.com/t1112000/seatly-fe/internal/model"
	"github.com/t1112000/seatly-fe/internal/pkg/logger"
	"github.com/t1112000/seatly-fe/internal/reqseq"
)

// ErrInvalidPayload is returned when the seat list response is not a list of
// seats.  The inventory is emptied rather than partially updated.
var ErrInvalidPayload = errors.New("invalid seat list payload")

const seatsPath = "/v1/seats"

// Inventory is the last successfully loaded seat snapshot.  Seat statuses
// are informational; the backend rejects stale selections at booking time.
type Inventory struct {
	transport apiclient.Transport
	seq       reqseq.Counter

	mu    sync.RWMutex
	seats []model.Seat
	rows  []Row
	byID  map[string]model.Seat
}

// NewInventory returns an empty Inventory reading from t.
func NewInventory(t apiclient.Transport) *Inventory {
	return &Inventory{transport: t, byID: map[string]model.Seat{}}
}

// Load fetches the seat list and replaces the snapshot.
//
// A malformed payload empties the inventory and returns ErrInvalidPayload.
// A transport or server failure leaves the previous snapshot in place.  When
// a newer Load was issued meanwhile the result is dropped with
// reqseq.ErrStale.
func (inv *Inventory) Load(ctx context.Context) ([]model.Seat, error) {
	token := inv.seq.Next()

	raw, err := inv.transport.Do(ctx, http.MethodGet, seatsPath, nil)
	if err != nil {
		return nil, fmt.Errorf("load seats: %w", err)
	}

	seats, decodeErr := decodeSeats(raw)
	if decodeErr != nil {
		logger.Warn("seat list rejected", zap.Error(decodeErr))
		seats = nil
	}

	applied := inv.seq.ApplyIfLatest(token, func() {
		inv.replace(seats)
	})
	if !applied {
		return nil, reqseq.ErrStale
	}
	if decodeErr != nil {
		return nil, decodeErr
	}
	return inv.Seats(), nil
}

func decodeSeats(raw json.RawMessage) ([]model.Seat, error) {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	data := bytes.TrimSpace(envelope.Data)
	if len(data) == 0 || data[0] != '[' {
		return nil, fmt.Errorf("%w: data is not a list", ErrInvalidPayload)
	}
	var seats []model.Seat
	if err := json.Unmarshal(data, &seats); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return seats, nil
}

func (inv *Inventory) replace(seats []model.Seat) {
	byID := make(map[string]model.Seat, len(seats))
	for _, s := range seats {
		byID[s.ID] = s
	}
	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.seats = seats
	inv.rows = BuildRows(seats)
	inv.byID = byID
}

// Seats returns a copy of the current snapshot in fetch order.
func (inv *Inventory) Seats() []model.Seat {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	out := make([]model.Seat, len(inv.seats))
	copy(out, inv.seats)
	return out
}

// Rows returns the current snapshot laid out for display.
func (inv *Inventory) Rows() []Row {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	out := make([]Row, len(inv.rows))
	for i, r := range inv.rows {
		r.Seats = append([]model.Seat(nil), r.Seats...)
		out[i] = r
	}
	return out
}

// Seat looks up a seat in the current snapshot.
func (inv *Inventory) Seat(id string) (model.Seat, bool) {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	s, ok := inv.byID[id]
	return s, ok
}
