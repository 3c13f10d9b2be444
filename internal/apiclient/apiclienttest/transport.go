// Package apiclienttest provides an in-memory apiclient.Transport for tests.
package apiclienttest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/t1112000/seatly-fe/internal/apiclient"
)

// Responder produces the outcome of one request.
type Responder func(ctx context.Context, body any) (json.RawMessage, error)

// Call records one request seen by the Transport.
type Call struct {
	Method string
	Path   string
	Body   any
}

// Transport routes requests by method and path to registered responders.
// Unrouted requests fail with a 404 *apiclient.Error.
type Transport struct {
	mu     sync.Mutex
	routes map[string]Responder
	calls  []Call
}

// New returns an empty Transport.
func New() *Transport {
	return &Transport{routes: make(map[string]Responder)}
}

func key(method, path string) string { return method + " " + path }

// Handle registers r for method and path, replacing any previous responder.
func (t *Transport) Handle(method, path string, r Responder) *Transport {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.routes[key(method, path)] = r
	return t
}

// JSON answers method and path with a fixed body.
func (t *Transport) JSON(method, path, body string) *Transport {
	return t.Handle(method, path, func(context.Context, any) (json.RawMessage, error) {
		return json.RawMessage(body), nil
	})
}

// Fail answers method and path with err.
func (t *Transport) Fail(method, path string, err error) *Transport {
	return t.Handle(method, path, func(context.Context, any) (json.RawMessage, error) {
		return nil, err
	})
}

// Do implements apiclient.Transport.
func (t *Transport) Do(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	t.mu.Lock()
	t.calls = append(t.calls, Call{Method: method, Path: path, Body: body})
	r, ok := t.routes[key(method, path)]
	t.mu.Unlock()

	if !ok {
		return nil, &apiclient.Error{StatusCode: http.StatusNotFound, Message: fmt.Sprintf("no route for %s %s", method, path)}
	}
	return r(ctx, body)
}

// Calls returns a copy of every request seen so far.
func (t *Transport) Calls() []Call {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Call, len(t.calls))
	copy(out, t.calls)
	return out
}

// CallsTo counts requests for method and path.
func (t *Transport) CallsTo(method, path string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, c := range t.calls {
		if c.Method == method && c.Path == path {
			n++
		}
	}
	return n
}

var _ apiclient.Transport = (*Transport)(nil)
