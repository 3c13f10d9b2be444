package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/t1112000/seatly-fe/internal/auth"
	"github.com/t1112000/seatly-fe/internal/middleware"
	"github.com/t1112000/seatly-fe/internal/pkg/logger"
	"github.com/t1112000/seatly-fe/internal/pkg/metrics"
	"github.com/t1112000/seatly-fe/internal/service"
	"github.com/t1112000/seatly-fe/internal/workspace"
)

const workspaceKey = "workspace"

// PortalHandler serves the booking portal.  Every request is bound to the
// workspace of its session; all backend traffic goes through that
// workspace's components.
type PortalHandler struct {
	Store         *workspace.Store
	Publisher     service.OutcomePublisher
	Metrics       *metrics.Metrics
	SecureCookies bool
}

// NewPortalHandler wires the handler.  A nil publisher disables outcome
// events.
func NewPortalHandler(store *workspace.Store, pub service.OutcomePublisher, m *metrics.Metrics, secureCookies bool) *PortalHandler {
	if store == nil || m == nil {
		panic("nil dependency passed to NewPortalHandler")
	}
	if pub == nil {
		pub = service.NoopPublisher{}
	}
	return &PortalHandler{Store: store, Publisher: pub, Metrics: m, SecureCookies: secureCookies}
}

// Workspace resolves the session's workspace and stores it in the context
// for the handlers behind it.
func (h *PortalHandler) Workspace(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sid := middleware.SessionID(c)
		if sid == "" {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized", "message": "missing session"})
		}
		w, err := h.Store.Get(sid)
		if err != nil {
			logger.Error("workspace", zap.String("session_id", sid), zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error", "message": "could not open workspace"})
		}
		h.Metrics.Workspaces.Set(float64(h.Store.Len()))
		c.Set(workspaceKey, w)
		return next(c)
	}
}

// RequireLogin rejects requests whose backend session is not signed in.
// The check hits the backend once per workspace and is then cached.
func (h *PortalHandler) RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		w := currentWorkspace(c)
		if _, err := w.User(c.Request().Context()); err != nil {
			if errors.Is(err, auth.ErrUnauthenticated) {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized", "message": "Please sign in"})
			}
			return respondError(c, err, "Unable to verify session")
		}
		return next(c)
	}
}

func currentWorkspace(c echo.Context) *workspace.Workspace {
	w, _ := c.Get(workspaceKey).(*workspace.Workspace)
	return w
}
