// Package workspace keeps the per-browser state of the booking portal: the
// backend session, the seat snapshot, the current selection and the
// in-flight guards of each component.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/t1112000/seatly-fe/internal/apiclient"
	"github.com/t1112000/seatly-fe/internal/auth"
	"github.com/t1112000/seatly-fe/internal/booking"
	"github.com/t1112000/seatly-fe/internal/history"
	"github.com/t1112000/seatly-fe/internal/model"
	"github.com/t1112000/seatly-fe/internal/payment"
	"github.com/t1112000/seatly-fe/internal/seating"
	"github.com/t1112000/seatly-fe/internal/selection"
)

// ErrUnknownSeat is returned when a seat id is neither in the loaded seat map
// nor in the selection.
var ErrUnknownSeat = errors.New("unknown seat")

// Workspace is the state behind one portal session.  Components share the
// workspace's transport and therefore its backend cookies.
type Workspace struct {
	ID        string
	Auth      *auth.Client
	Inventory *seating.Inventory
	Submitter *booking.Submitter
	Resolver  *payment.Resolver
	History   *history.Pager

	mu        sync.Mutex
	selection selection.Set
	user      *model.User
	lastSeen  time.Time
}

// New assembles a workspace whose components all talk through t.
func New(id string, t apiclient.Transport, historyPageSize int) *Workspace {
	return &Workspace{
		ID:        id,
		Auth:      auth.NewClient(t),
		Inventory: seating.NewInventory(t),
		Submitter: booking.NewSubmitter(t),
		Resolver:  payment.NewResolver(t),
		History:   history.NewPager(t, historyPageSize),
		lastSeen:  time.Now(),
	}
}

// Selection returns the current selection.
func (w *Workspace) Selection() selection.Set {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.selection
}

// ToggleSeat flips seatID in the selection.  Seats are looked up in the
// current seat map; a selected seat that disappeared from the map can still
// be removed.
func (w *Workspace) ToggleSeat(seatID string) (selection.Set, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	seat, ok := w.Inventory.Seat(seatID)
	if !ok {
		for _, picked := range w.selection.Seats() {
			if picked.ID == seatID {
				seat, ok = picked, true
				break
			}
		}
	}
	if !ok {
		return w.selection, fmt.Errorf("%w: %s", ErrUnknownSeat, seatID)
	}

	next, err := w.selection.Toggle(seat)
	if err != nil {
		return w.selection, err
	}
	w.selection = next
	return next, nil
}

// ClearSelection empties the selection.
func (w *Workspace) ClearSelection() selection.Set {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.selection = w.selection.Clear()
	return w.selection
}

// Checkout submits the current selection.  On success the selection is
// cleared since its seats now belong to a pending booking; on failure it is
// kept untouched.
func (w *Workspace) Checkout(ctx context.Context, opt model.PaymentOption) (string, error) {
	sel := w.Selection()
	url, err := w.Submitter.Submit(ctx, sel, opt)
	if err != nil {
		return "", err
	}

	w.mu.Lock()
	if sameSeats(w.selection, sel) {
		w.selection = w.selection.Clear()
	}
	w.mu.Unlock()
	return url, nil
}

func sameSeats(a, b selection.Set) bool {
	ai, bi := a.IDs(), b.IDs()
	if len(ai) != len(bi) {
		return false
	}
	for i := range ai {
		if ai[i] != bi[i] {
			return false
		}
	}
	return true
}

// User returns the signed-in user, checking the backend session on first
// use.  A failed check is not cached.
func (w *Workspace) User(ctx context.Context) (model.User, error) {
	w.mu.Lock()
	if w.user != nil {
		u := *w.user
		w.mu.Unlock()
		return u, nil
	}
	w.mu.Unlock()

	u, err := w.Auth.Me(ctx)
	if err != nil {
		return model.User{}, err
	}
	w.mu.Lock()
	w.user = &u
	w.mu.Unlock()
	return u, nil
}

// Login signs in with a Google access token and forgets any cached user so
// the next User call asks the backend.
func (w *Workspace) Login(ctx context.Context, accessToken string) error {
	if err := w.Auth.LoginWithGoogle(ctx, accessToken); err != nil {
		return err
	}
	w.mu.Lock()
	w.user = nil
	w.mu.Unlock()
	return nil
}

// Logout ends the backend session.  The selection and cached user are
// dropped even when the backend call fails.
func (w *Workspace) Logout(ctx context.Context) error {
	err := w.Auth.Logout(ctx)
	w.mu.Lock()
	w.selection = w.selection.Clear()
	w.user = nil
	w.mu.Unlock()
	return err
}

func (w *Workspace) touch(now time.Time) {
	w.mu.Lock()
	w.lastSeen = now
	w.mu.Unlock()
}

// LastSeen is when the workspace was last fetched from its Store.
func (w *Workspace) LastSeen() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastSeen
}
