// Package router wires the portal's HTTP routes.
package router

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/t1112000/seatly-fe/internal/handler"
	"github.com/t1112000/seatly-fe/internal/middleware"
)

// RegisterRoutes registers the routes that need neither a session nor a
// workspace.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterMetrics exposes g on /metrics, behind basic auth when user and
// pass are set.  A nil g serves the default registry.
func RegisterMetrics(e *echo.Echo, g prometheus.Gatherer, user, pass string) {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	h := promhttp.HandlerFor(g, promhttp.HandlerOpts{})
	e.GET("/metrics", echo.WrapHandler(h), middleware.MetricsBasicAuth(user, pass))
}

// PortalOptions configures RegisterPortal.
type PortalOptions struct {
	SessionSecret string
	SessionTTL    time.Duration
	SecureCookies bool

	// Optional per-route limiters; nil means unlimited.
	LoginLimiter    echo.MiddlewareFunc
	CheckoutLimiter echo.MiddlewareFunc
}

// RegisterPortal registers the booking portal.  Every portal route runs with
// a session and its workspace; everything except the auth endpoints also
// requires a signed-in backend session.
func RegisterPortal(e *echo.Echo, h *handler.PortalHandler, opts PortalOptions) {
	session := middleware.Session(opts.SessionSecret, opts.SessionTTL, opts.SecureCookies)

	a := e.Group("/v1/auth", session, h.Workspace)
	a.POST("/google", h.Login, limit(opts.LoginLimiter)...)
	a.POST("/logout", h.Logout)
	a.GET("/me", h.Me)

	g := e.Group("/v1", session, h.Workspace, h.RequireLogin)
	g.GET("/seat-map", h.SeatMap)
	g.GET("/selection", h.GetSelection)
	g.POST("/selection/toggle", h.ToggleSeat)
	g.POST("/selection/back", h.Back)
	g.POST("/checkout", h.Checkout, limit(opts.CheckoutLimiter)...)
	g.GET("/history", h.History)

	// the payment provider redirects the browser here
	e.GET("/payment-result", h.PaymentResult, session, h.Workspace, h.RequireLogin)
}

func limit(m echo.MiddlewareFunc) []echo.MiddlewareFunc {
	if m == nil {
		return nil
	}
	return []echo.MiddlewareFunc{m}
}
