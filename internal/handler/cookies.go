package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"floradmin/internal/guard"
)

func setSessionCookie(c echo.Context, sid string, expires time.Time, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     guard.CookieName,
		Value:    sid,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(c echo.Context, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     guard.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func sessionID(c echo.Context) string {
	cookie, err := c.Cookie(guard.CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
