package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedResponse is returned when a successful response body is not JSON.
var ErrMalformedResponse = errors.New("malformed response body")

// unknownErrorMessage is what the backend contract promises when no message
// can be extracted from an error body.
const unknownErrorMessage = "Unknown error"

// Error is a non-2xx response from the booking backend.  Message carries the
// server-provided text, unwrapped from whichever envelope the backend used.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("backend responded %d: %s", e.StatusCode, e.Message)
}

// Message returns the server-provided text carried by err, or fallback when
// err did not come from a backend response (dial failures, timeouts, decode
// errors).
func Message(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// messagePaths lists, in order of preference, where the backend puts the
// human-readable error text.
var messagePaths = [][]string{
	{"error", "message"},
	{"data", "error", "message"},
	{"message"},
	{"data", "message"},
}

// extractMessage digs the error text out of a response body.  Arrays yield
// their first element.
func extractMessage(body []byte) string {
	var doc map[string]any
	if err := json.Unmarshal(body, &doc); err != nil {
		return unknownErrorMessage
	}
	for _, path := range messagePaths {
		v := lookup(doc, path)
		if !truthy(v) {
			continue
		}
		switch t := v.(type) {
		case string:
			return t
		case []any:
			return fmt.Sprint(t[0])
		default:
			return fmt.Sprint(t)
		}
	}
	return unknownErrorMessage
}

func lookup(doc map[string]any, path []string) any {
	var cur any = doc
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = m[key]
	}
	return cur
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case []any:
		return len(t) > 0
	case bool:
		return t
	case float64:
		return t != 0
	default:
		return true
	}
}
