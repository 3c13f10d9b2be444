// Package history pages through the signed-in user's past bookings.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/t1112000/seatly-fe/internal/apiclient"
	"github.com/t1112000/seatly-fe/internal/model"
	"github.com/t1112000/seatly-fe/internal/pkg/logger"
	"github.com/t1112000/seatly-fe/internal/reqseq"
)

const (
	historyPath     = "/v1/bookings/my-history"
	msgLoadFallback = "Failed to load bookings"
)

// Page is one slice of the booking history.
type Page struct {
	Items []model.Booking
	Total int
}

// Pager fetches history pages and keeps the state of the latest requested
// offset.
type Pager struct {
	transport apiclient.Transport
	seq       reqseq.Counter

	mu    sync.RWMutex
	state State
}

// NewPager returns a Pager fetching limit bookings per page.
func NewPager(t apiclient.Transport, limit int) *Pager {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	return &Pager{transport: t, state: State{Limit: limit}}
}

// Fetch requests one page.  A response without total counts the items it
// returned.
func (p *Pager) Fetch(ctx context.Context, offset, limit int) (Page, error) {
	q := url.Values{}
	q.Set("offset", strconv.Itoa(offset))
	q.Set("limit", strconv.Itoa(limit))

	raw, err := p.transport.Do(ctx, http.MethodGet, historyPath+"?"+q.Encode(), nil)
	if err != nil {
		return Page{}, fmt.Errorf("load history: %w", err)
	}

	var resp struct {
		Data  []model.Booking `json:"data"`
		Total *int            `json:"total"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return Page{}, fmt.Errorf("load history: %w: %v", apiclient.ErrMalformedResponse, err)
	}
	page := Page{Items: resp.Data, Total: len(resp.Data)}
	if resp.Total != nil {
		page.Total = *resp.Total
	}
	if page.Items == nil {
		page.Items = []model.Booking{}
	}
	return page, nil
}

// Load moves to offset and fetches it.  The offset is recorded when the
// request is issued; the response is applied only if no later Load started
// meanwhile, otherwise reqseq.ErrStale is returned.  A failed fetch keeps the
// previous items and records the error message on the state.
func (p *Pager) Load(ctx context.Context, offset int) (State, error) {
	if offset < 0 {
		offset = 0
	}
	token := p.seq.Next()

	p.mu.Lock()
	p.state.Offset = offset
	limit := p.state.Limit
	p.mu.Unlock()

	page, err := p.Fetch(ctx, offset, limit)

	applied := p.seq.ApplyIfLatest(token, func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if err != nil {
			p.state.Err = apiclient.Message(err, msgLoadFallback)
			return
		}
		p.state.Items = page.Items
		p.state.Total = page.Total
		p.state.Err = ""
	})
	if !applied {
		logger.Debug("stale history page dropped", zap.Int("offset", offset))
		return p.State(), reqseq.ErrStale
	}
	return p.State(), err
}

// ChangePage loads page n, re-fetching even when n is already shown.
func (p *Pager) ChangePage(ctx context.Context, n int) (State, error) {
	next := p.State().ChangePage(n)
	return p.Load(ctx, next.Offset)
}

// State returns a copy of the current state.
func (p *Pager) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s := p.state
	s.Items = append([]model.Booking(nil), s.Items...)
	return s
}
