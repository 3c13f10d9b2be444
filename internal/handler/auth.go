package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/t1112000/seatly-fe/internal/middleware"
	"github.com/t1112000/seatly-fe/internal/pkg/logger"
)

type loginRequest struct {
	AccessToken string `json:"access_token" validate:"required"`
}

// Login handles POST /v1/auth/google.  The Google access token is handed to
// the backend, which sets its session cookie on the workspace transport.
func (h *PortalHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad_request", "message": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	w := currentWorkspace(c)
	if err := w.Login(c.Request().Context(), req.AccessToken); err != nil {
		return respondError(c, err, "Login failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"authenticated": true})
}

// Logout handles POST /v1/auth/logout.  The selection is cleared, the
// workspace dropped and the session cookie expired even when the backend
// call fails.
func (h *PortalHandler) Logout(c echo.Context) error {
	w := currentWorkspace(c)
	if err := w.Logout(c.Request().Context()); err != nil {
		logger.Warn("backend logout failed", zap.String("session_id", w.ID), zap.Error(err))
	}
	h.Store.Drop(w.ID)
	h.Metrics.Workspaces.Set(float64(h.Store.Len()))
	middleware.ClearSession(c, h.SecureCookies)
	return c.NoContent(http.StatusNoContent)
}

// Me handles GET /v1/auth/me.
func (h *PortalHandler) Me(c echo.Context) error {
	u, err := currentWorkspace(c).User(c.Request().Context())
	if err != nil {
		return respondError(c, err, "Unable to verify session")
	}
	return c.JSON(http.StatusOK, echo.Map{"data": u})
}
