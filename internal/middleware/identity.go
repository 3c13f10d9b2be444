package middleware

// identity.go holds the context keys shared across middleware and handlers.
// The session id is the only identity the portal itself knows about; the
// backend user stays behind the backend's own cookie.

import "github.com/labstack/echo/v4"

const (
	// SessionCookieName is the cookie carrying the signed session token.
	SessionCookieName = "seatly_session"

	sessionIDKey = "session_id"
	requestIDKey = "request_id"
)

// SessionID returns the session id set by Session, or "" outside it.
func SessionID(c echo.Context) string {
	if v, ok := c.Get(sessionIDKey).(string); ok {
		return v
	}
	return ""
}

// RequestID returns the request id set by RequestID middleware.
func RequestID(c echo.Context) string {
	if v, ok := c.Get(requestIDKey).(string); ok {
		return v
	}
	return ""
}
