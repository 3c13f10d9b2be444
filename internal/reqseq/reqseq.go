// Package reqseq orders asynchronous fetches issued by a single component.
// Every fetch takes a token when it is issued; its result may only be applied
// while that token is still the latest one.  Results for superseded input are
// dropped instead of cancelled.
package reqseq

import (
	"errors"
	"sync"
)

// ErrStale is returned by components when a completed fetch was superseded by
// a newer request and its result was discarded.
var ErrStale = errors.New("response superseded by a newer request")

// Token identifies one issued request.  Tokens increase monotonically per
// Counter; the zero Token is never issued.
type Token uint64

// Counter hands out tokens and gates result application.  The zero value is
// ready to use.
type Counter struct {
	mu     sync.Mutex
	latest Token
}

// Next issues a new token, superseding every token issued before it.
func (c *Counter) Next() Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.latest++
	return c.latest
}

// Latest returns the most recently issued token.
func (c *Counter) Latest() Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.latest
}

// IsLatest reports whether t is still the most recent token.
func (c *Counter) IsLatest(t Token) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return t == c.latest
}

// ApplyIfLatest runs apply only when t is still the latest token.  apply runs
// under the counter's lock, so no Next call can slip in between the check
// and the state update.  It reports whether apply ran.
func (c *Counter) ApplyIfLatest(t Token, apply func()) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t != c.latest {
		return false
	}
	apply()
	return true
}
