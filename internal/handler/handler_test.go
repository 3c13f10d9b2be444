package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/t1112000/seatly-fe/internal/apiclient"
	"github.com/t1112000/seatly-fe/internal/apiclient/apiclienttest"
	"github.com/t1112000/seatly-fe/internal/pkg/metrics"
	"github.com/t1112000/seatly-fe/internal/queue"
	"github.com/t1112000/seatly-fe/internal/workspace"
)

const (
	testSession = "sess-1"

	seatsBody = `{"data":[
		{"id":"a2","seat_number":"A2","type":"VIP","row_label":"A","col_number":2,"price":90000,"status":"AVAILABLE","version":1},
		{"id":"a1","seat_number":"A1","type":"VIP","row_label":"A","col_number":1,"price":90000,"status":"BOOKED","version":1},
		{"id":"c1","seat_number":"C1","type":"COUPLE","row_label":"C","col_number":1,"price":150000,"status":"AVAILABLE","version":1}
	]}`
	meBody = `{"data":{"id":"u1","email":"a@seatly.test"}}`
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.BookingResolvedEvent
	err    error
}

func (p *recordingPublisher) PublishBookingResolved(_ context.Context, ev queue.BookingResolvedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) published() []queue.BookingResolvedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]queue.BookingResolvedEvent(nil), p.events...)
}

type portalFixture struct {
	e   *echo.Echo
	tr  *apiclienttest.Transport
	h   *PortalHandler
	pub *recordingPublisher
}

// newPortal routes the portal handlers for one fixed session, the way the
// router does minus the cookie round-trip.
func newPortal(t *testing.T) *portalFixture {
	t.Helper()
	tr := apiclienttest.New().
		JSON(http.MethodGet, "/v1/auth/me", meBody).
		JSON(http.MethodGet, "/v1/seats", seatsBody)
	store := workspace.NewStore(func() (apiclient.Transport, error) { return tr, nil }, 10)
	pub := &recordingPublisher{}
	h := NewPortalHandler(store, pub, metrics.NewWithRegistry(prometheus.NewRegistry()), false)

	e := echo.New()
	e.Validator = NewValidator()
	e.HTTPErrorHandler = HTTPErrorHandler
	withSession := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("session_id", testSession)
			return next(c)
		}
	}

	a := e.Group("/v1/auth", withSession, h.Workspace)
	a.POST("/google", h.Login)
	a.POST("/logout", h.Logout)
	a.GET("/me", h.Me)

	g := e.Group("/v1", withSession, h.Workspace, h.RequireLogin)
	g.GET("/seat-map", h.SeatMap)
	g.GET("/selection", h.GetSelection)
	g.POST("/selection/toggle", h.ToggleSeat)
	g.POST("/selection/back", h.Back)
	g.POST("/checkout", h.Checkout)
	g.GET("/history", h.History)
	e.GET("/payment-result", h.PaymentResult, withSession, h.Workspace, h.RequireLogin)

	return &portalFixture{e: e, tr: tr, h: h, pub: pub}
}

func (f *portalFixture) do(t *testing.T, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 && strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func TestSeatMap(t *testing.T) {
	f := newPortal(t)

	rec, body := f.do(t, http.MethodGet, "/v1/seat-map", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rows := body["rows"].([]any)
	require.Len(t, rows, 2)
	rowA := rows[0].(map[string]any)
	assert.Equal(t, "A", rowA["label"])
	assert.Equal(t, "VIP", rowA["type"])

	seats := rowA["seats"].([]any)
	first := seats[0].(map[string]any)
	assert.Equal(t, "a1", first["id"])
	assert.Equal(t, false, first["selectable"])
	assert.Equal(t, true, seats[1].(map[string]any)["selectable"])

	rowC := rows[1].(map[string]any)
	assert.Equal(t, float64(10), rowC["grid_width"])
}

func TestSeatMap_InvalidPayload(t *testing.T) {
	f := newPortal(t)
	f.tr.JSON(http.MethodGet, "/v1/seats", `{"data":{"oops":true}}`)

	rec, body := f.do(t, http.MethodGet, "/v1/seat-map", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "invalid_payload", body["error"])
	assert.Equal(t, "Failed to load seats", body["message"])
}

func TestSeatMap_BackendMessageWins(t *testing.T) {
	f := newPortal(t)
	f.tr.Fail(http.MethodGet, "/v1/seats", &apiclient.Error{StatusCode: http.StatusServiceUnavailable, Message: "Maintenance"})

	rec, body := f.do(t, http.MethodGet, "/v1/seat-map", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "Maintenance", body["message"])
}

func TestToggleSeat(t *testing.T) {
	f := newPortal(t)
	rec, _ := f.do(t, http.MethodGet, "/v1/seat-map", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body := f.do(t, http.MethodPost, "/v1/selection/toggle", `{"seat_id":"a1"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "seat_unavailable", body["error"])

	rec, body = f.do(t, http.MethodPost, "/v1/selection/toggle", `{"seat_id":"a2"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), body["count"])
	assert.Equal(t, float64(90000), body["total"])
	assert.Equal(t, "A2", body["seat_numbers"])

	rec, body = f.do(t, http.MethodPost, "/v1/selection/toggle", `{"seat_id":"zz"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "unknown_seat", body["error"])

	rec, body = f.do(t, http.MethodPost, "/v1/selection/toggle", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "bad_request", body["error"])

	rec, body = f.do(t, http.MethodPost, "/v1/selection/back", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(0), body["count"])
}

func TestCheckout(t *testing.T) {
	f := newPortal(t)
	f.do(t, http.MethodGet, "/v1/seat-map", "")

	t.Run("empty selection never reaches the backend", func(t *testing.T) {
		rec, body := f.do(t, http.MethodPost, "/v1/checkout", `{"payment_method":"STRIPE"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "validation_error", body["error"])
		assert.Zero(t, f.tr.CallsTo(http.MethodPost, "/v1/bookings"))
	})

	_, _ = f.do(t, http.MethodPost, "/v1/selection/toggle", `{"seat_id":"a2"}`)

	t.Run("unknown payment method", func(t *testing.T) {
		rec, body := f.do(t, http.MethodPost, "/v1/checkout", `{"payment_method":"PAYPAL"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "validation_error", body["error"])
		assert.Zero(t, f.tr.CallsTo(http.MethodPost, "/v1/bookings"))
	})

	t.Run("backend rejection keeps the selection", func(t *testing.T) {
		f.tr.Fail(http.MethodPost, "/v1/bookings", &apiclient.Error{StatusCode: http.StatusConflict, Message: "Seat A2 is no longer available"})
		rec, body := f.do(t, http.MethodPost, "/v1/checkout", `{"payment_method":"STRIPE"}`)
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Equal(t, "Seat A2 is no longer available", body["message"])

		_, sel := f.do(t, http.MethodGet, "/v1/selection", "")
		assert.Equal(t, float64(1), sel["count"])
	})

	t.Run("network failure uses the fallback message", func(t *testing.T) {
		f.tr.Fail(http.MethodPost, "/v1/bookings", errors.New("dial tcp: connection refused"))
		rec, body := f.do(t, http.MethodPost, "/v1/checkout", `{"payment_method":"STRIPE"}`)
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Equal(t, "network_error", body["error"])
		assert.Equal(t, "Payment failed", body["message"])
	})

	t.Run("success redirects", func(t *testing.T) {
		f.tr.JSON(http.MethodPost, "/v1/bookings", `{"data":{"payment_url":"https://pay.test/s/1"}}`)
		rec, _ := f.do(t, http.MethodPost, "/v1/checkout?redirect=1", `{"payment_method":"STRIPE"}`)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "https://pay.test/s/1", rec.Header().Get(echo.HeaderLocation))

		_, sel := f.do(t, http.MethodGet, "/v1/selection", "")
		assert.Equal(t, float64(0), sel["count"])
	})
}

func TestPaymentResult(t *testing.T) {
	t.Run("missing booking id", func(t *testing.T) {
		f := newPortal(t)
		rec, body := f.do(t, http.MethodGet, "/payment-result", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "invalid", body["view"])
		assert.Equal(t, "Invalid Request", body["title"])
		assert.Equal(t, "Booking ID is missing from URL", body["message"])
		assert.Len(t, f.tr.Calls(), 1) // only the session check
		assert.Empty(t, f.pub.published())
	})

	t.Run("paid booking", func(t *testing.T) {
		f := newPortal(t)
		f.tr.JSON(http.MethodGet, "/v1/bookings/bk-1", `{"data":{
			"id":"bk-1","status":"PAID","amount":"180000.00","payment_provider":"STRIPE",
			"provider_transaction_id":"pi_3NkXYZabcdef123456",
			"seats":[{"id":"a2","seat_number":"A2","type":"VIP","row_label":"A","col_number":2,"price":90000,"status":"BOOKED","version":2},
			         {"id":"a3","seat_number":"A3","type":"VIP","row_label":"A","col_number":3,"price":90000,"status":"BOOKED","version":2}]}}`)

		rec, body := f.do(t, http.MethodGet, "/payment-result?booking_id=bk-1", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "success", body["view"])
		assert.Equal(t, "Payment Successful!", body["title"])
		details := body["details"].(map[string]any)
		assert.Equal(t, "A2, A3", details["seat_numbers"])
		assert.Equal(t, "pi_3NkXYZabc...", details["transaction_ref"])

		events := f.pub.published()
		require.Len(t, events, 1)
		assert.Equal(t, "bk-1", events[0].BookingID)
		assert.Equal(t, testSession, events[0].SessionID)
		assert.Equal(t, "PAID", events[0].Status)
		assert.Equal(t, 180000.0, events[0].Amount)
	})

	t.Run("lookup failure renders the failure view", func(t *testing.T) {
		f := newPortal(t)
		f.pub.err = errors.New("broker down")
		f.tr.Fail(http.MethodGet, "/v1/bookings/bk-2", &apiclient.Error{StatusCode: http.StatusNotFound, Message: "Booking not found"})

		rec, body := f.do(t, http.MethodGet, "/payment-result?booking_id=bk-2", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "failure", body["view"])
		assert.Equal(t, "Booking not found", body["fetch_error"])
		assert.Equal(t, "Booking not found", body["message"])
		assert.Nil(t, body["details"])
		assert.Len(t, f.pub.published(), 1)
	})
}

func TestHistory(t *testing.T) {
	f := newPortal(t)
	f.tr.JSON(http.MethodGet, "/v1/bookings/my-history?limit=10&offset=10", `{"data":[
		{"id":"bk-11","status":"PAID","amount":90000,"seats":[{"id":"a2","seat_number":"A2","type":"VIP","row_label":"A","col_number":2,"price":90000,"status":"BOOKED","version":1}]},
		{"id":"bk-12","status":"PENDING_PAYMENT","amount":50000}
	],"total":45}`)

	rec, body := f.do(t, http.MethodGet, "/v1/history?page=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), body["page"])
	assert.Equal(t, float64(5), body["total_pages"])
	assert.Equal(t, "Showing 11-20 of 45", body["range"])
	assert.Equal(t, true, body["has_prev"])
	assert.Equal(t, true, body["has_next"])

	items := body["items"].([]any)
	require.Len(t, items, 2)
	assert.Equal(t, "A2", items[0].(map[string]any)["seat_numbers"])
	assert.Equal(t, "Pending", items[1].(map[string]any)["status_label"])

	stats := body["stats"].(map[string]any)
	assert.Equal(t, float64(1), stats["paid"])
	assert.Equal(t, float64(1), stats["pending"])

	rec, _ = f.do(t, http.MethodGet, "/v1/history?page=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHistory_PageOutOfRange(t *testing.T) {
	f := newPortal(t)

	rec, body := f.do(t, http.MethodGet, "/v1/history?page=9223372036854775807", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "page is out of range", body["message"])
	assert.Zero(t, f.tr.CallsTo(http.MethodGet, "/v1/bookings/my-history?limit=10&offset=0"))
	assert.Len(t, f.tr.Calls(), 1) // only the session check
}

func TestHistory_FailureFallback(t *testing.T) {
	f := newPortal(t)
	f.tr.Fail(http.MethodGet, "/v1/bookings/my-history?limit=10&offset=0", errors.New("timeout"))

	rec, body := f.do(t, http.MethodGet, "/v1/history", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "Failed to load bookings", body["message"])
}

func TestRequireLogin(t *testing.T) {
	f := newPortal(t)
	f.tr.Fail(http.MethodGet, "/v1/auth/me", &apiclient.Error{StatusCode: http.StatusUnauthorized, Message: "Unauthorized"})

	rec, body := f.do(t, http.MethodGet, "/v1/seat-map", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", body["error"])
	assert.Zero(t, f.tr.CallsTo(http.MethodGet, "/v1/seats"))
}

func TestLoginAndLogout(t *testing.T) {
	f := newPortal(t)
	f.tr.JSON(http.MethodPost, "/v1/auth/google", `{"data":{"id":"u1"}}`)

	rec, _ := f.do(t, http.MethodPost, "/v1/auth/google", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, f.tr.CallsTo(http.MethodPost, "/v1/auth/google"))

	rec, body := f.do(t, http.MethodPost, "/v1/auth/google", `{"access_token":"ya29.token"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["authenticated"])

	rec, body = f.do(t, http.MethodGet, "/v1/auth/me", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", body["data"].(map[string]any)["id"])

	f.tr.Fail(http.MethodPost, "/v1/auth/logout", errors.New("connection reset"))
	rec, _ = f.do(t, http.MethodPost, "/v1/auth/logout", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Zero(t, f.h.Store.Len())
	assert.Contains(t, rec.Header().Get("Set-Cookie"), "seatly_session=;")
}
