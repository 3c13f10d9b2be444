package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/t1112000/seatly-fe/internal/pkg/logger"
	"github.com/t1112000/seatly-fe/internal/utils"
)

// Session makes sure every request carries a signed session cookie and puts
// its id into the context under "session_id".  A missing, expired or forged
// cookie is replaced by a fresh session.  Handlers read the id with
// SessionID(c).
func Session(secret string, ttl time.Duration, secure bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if ck, err := c.Cookie(SessionCookieName); err == nil && ck.Value != "" {
				if id, err := utils.ParseSession(secret, ck.Value); err == nil {
					c.Set(sessionIDKey, id)
					return next(c)
				}
			}

			tok, err := utils.NewSessionToken(secret, ttl)
			if err != nil {
				logger.Error("issue session", zap.Error(err))
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not start session"})
			}
			c.SetCookie(&http.Cookie{
				Name:     SessionCookieName,
				Value:    tok.Token,
				Path:     "/",
				Expires:  tok.Exp,
				HttpOnly: true,
				Secure:   secure,
				SameSite: http.SameSiteLaxMode,
			})
			c.Set(sessionIDKey, tok.SessionID)
			return next(c)
		}
	}
}

// ClearSession expires the session cookie.
func ClearSession(c echo.Context, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
