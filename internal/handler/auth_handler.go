package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	apperrors "floradmin/internal/errors"
	"floradmin/internal/guard"
)

// AuthHandler handles the login page and logout.
type AuthHandler struct {
	base
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(d Deps) *AuthHandler {
	return &AuthHandler{base: newBase(d)}
}

type loginForm struct {
	Username string
}

// ShowLogin renders the login form. Users with a session go to their home.
func (h *AuthHandler) ShowLogin(c echo.Context) error {
	if sess := guard.Lookup(c, h.Sessions); sess != nil {
		return c.Redirect(http.StatusSeeOther, guard.HomeFor(sess.Identity.Role))
	}
	return h.render(c, http.StatusOK, "login.html", page(c, "Iniciar sesión", loginForm{}))
}

// Login authenticates and always lands on the home of the user's role.
func (h *AuthHandler) Login(c echo.Context) error {
	form := loginForm{Username: c.FormValue("username")}
	sess, err := h.Auth.Login(c.Request().Context(), sessionID(c), form.Username, c.FormValue("password"))
	if err != nil {
		herr := apperrors.MapErrorToHTTP(err)
		if herr.StatusCode >= http.StatusInternalServerError {
			h.Log.Warnw("login failed", "error", err)
		}
		p := page(c, "Iniciar sesión", form)
		p.Error = herr.Message
		return h.render(c, herr.StatusCode, "login.html", p)
	}

	expires := sess.ExpiresAt
	if expires.IsZero() && h.SessionTTL > 0 {
		expires = time.Now().Add(h.SessionTTL)
	}
	setSessionCookie(c, sess.ID, expires, h.CookieSecure)
	return c.Redirect(http.StatusSeeOther, guard.HomeFor(sess.Identity.Role))
}

// Logout ends the session and returns to the login page.
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.Auth.Logout(c.Request().Context(), sessionID(c)); err != nil {
		h.Log.Warnw("logout failed", "error", err)
	}
	clearSessionCookie(c, h.CookieSecure)
	return c.Redirect(http.StatusSeeOther, guard.LoginPath)
}
