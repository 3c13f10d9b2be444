package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/t1112000/seatly-fe/internal/apiclient"
	"github.com/t1112000/seatly-fe/internal/apiclient/apiclienttest"
	"github.com/t1112000/seatly-fe/internal/handler"
	"github.com/t1112000/seatly-fe/internal/middleware"
	"github.com/t1112000/seatly-fe/internal/pkg/metrics"
	"github.com/t1112000/seatly-fe/internal/workspace"
)

func newServer(t *testing.T, tr *apiclienttest.Transport) (*echo.Echo, *workspace.Store) {
	t.Helper()
	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(reg)
	store := workspace.NewStore(func() (apiclient.Transport, error) { return tr, nil }, 10)

	e := echo.New()
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = handler.HTTPErrorHandler
	e.Use(middleware.Prometheus(m))

	RegisterRoutes(e)
	RegisterMetrics(e, reg, "ops", "pw")
	RegisterPortal(e, handler.NewPortalHandler(store, nil, m, false), PortalOptions{
		SessionSecret: "test-secret",
		SessionTTL:    time.Hour,
	})
	return e, store
}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	e, _ := newServer(t, apiclienttest.New())
	rec := serve(e, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsRequiresBasicAuth(t *testing.T) {
	e, _ := newServer(t, apiclienttest.New())

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	serve(e, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.SetBasicAuth("ops", "pw")
	rec = serve(e, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "portal_http_requests_total")
}

func TestPortalSessionKeepsWorkspace(t *testing.T) {
	tr := apiclienttest.New().
		JSON(http.MethodGet, "/v1/auth/me", `{"data":{"id":"u1"}}`).
		JSON(http.MethodGet, "/v1/seats", `{"data":[
			{"id":"a1","seat_number":"A1","type":"STANDARD","row_label":"A","col_number":1,"price":50000,"status":"AVAILABLE","version":1}
		]}`)
	e, store := newServer(t, tr)

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/v1/seat-map", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, middleware.SessionCookieName, cookies[0].Name)

	req := httptest.NewRequest(http.MethodPost, "/v1/selection/toggle", strings.NewReader(`{"seat_id":"a1"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.AddCookie(cookies[0])
	rec = serve(e, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":1`)
	assert.Equal(t, 1, store.Len())
	assert.Equal(t, 1, tr.CallsTo(http.MethodGet, "/v1/auth/me"))

	// a request without the cookie lands in a fresh workspace
	rec = serve(e, httptest.NewRequest(http.MethodGet, "/v1/selection", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":0`)
	assert.Equal(t, 2, store.Len())
}

func TestPaymentResultRoute(t *testing.T) {
	tr := apiclienttest.New().
		JSON(http.MethodGet, "/v1/auth/me", `{"data":{"id":"u1"}}`).
		JSON(http.MethodGet, "/v1/bookings/bk-9", `{"data":{"id":"bk-9","status":"EXPIRED"}}`)
	e, _ := newServer(t, tr)

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/payment-result?booking_id=bk-9", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"view":"failure"`)
	assert.Contains(t, rec.Body.String(), `"message":"Payment expired"`)
}
