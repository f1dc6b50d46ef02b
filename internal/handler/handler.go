// Package handler serves the console pages.
package handler

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"floradmin/internal/apiclient"
	apperrors "floradmin/internal/errors"
	"floradmin/internal/guard"
	"floradmin/internal/model"
	"floradmin/internal/resource"
	"floradmin/internal/service"
	"floradmin/internal/session"
	"floradmin/internal/view"
)

// Query parameters carrying one-shot banners across redirects.
const (
	flashParam = "aviso"
	errorParam = "error"
)

// Deps is shared by every handler.
type Deps struct {
	Clients      *apiclient.Factory
	Auth         service.AuthService
	Sessions     guard.SessionReader
	Resources    *resource.Set
	Log          *zap.SugaredLogger
	CookieSecure bool
	SessionTTL   time.Duration
}

type base struct {
	Deps
}

func newBase(d Deps) base {
	if d.Log == nil {
		d.Log = zap.NewNop().Sugar()
	}
	return base{Deps: d}
}

// api returns a backend client carrying the session token and scope.
func (b base) api(c echo.Context) *apiclient.Client {
	sess, _ := guard.SessionFrom(c)
	return b.Clients.ClientFor(sess.Token, sess.Identity)
}

func identity(c echo.Context) *model.Identity {
	sess, ok := guard.SessionFrom(c)
	if !ok {
		return nil
	}
	id := sess.Identity
	return &id
}

// page fills the fields common to every page.
func page(c echo.Context, title string, data any) view.Page {
	return view.Page{
		Title: title,
		User:  identity(c),
		Flash: c.QueryParam(flashParam),
		Error: c.QueryParam(errorParam),
		Data:  data,
	}
}

func (b base) render(c echo.Context, status int, name string, p view.Page) error {
	return c.Render(status, name, p)
}

// expire ends a session the backend no longer accepts.
func (b base) expire(c echo.Context) error {
	if sess, ok := guard.SessionFrom(c); ok {
		if err := b.Auth.Logout(c.Request().Context(), sess.ID); err != nil {
			b.Log.Warnw("logout after backend rejection", "error", err)
		}
	}
	clearSessionCookie(c, b.CookieSecure)
	return c.Redirect(http.StatusSeeOther, guard.LoginPath)
}

// failure maps err for display. It returns handled=true with the response
// already written when the session had to be closed.
func (b base) failure(c echo.Context, err error) (*apperrors.HTTPError, bool, error) {
	herr := apperrors.MapErrorToHTTP(err)
	if herr.SessionExpired() {
		return herr, true, b.expire(c)
	}
	if herr.StatusCode >= http.StatusInternalServerError {
		b.Log.Warnw("backend call failed", "path", c.Path(), "error", err)
	}
	return herr, false, nil
}

// errorPage renders err on its own page. back is the link offered to leave.
func (b base) errorPage(c echo.Context, err error, back string) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	herr, handled, rerr := b.failure(c, err)
	if handled {
		return rerr
	}
	p := page(c, herr.Message, back)
	p.Error = herr.Message
	return b.render(c, herr.StatusCode, "error.html", p)
}

// form re-renders a form page after a failed submission.
func (b base) form(c echo.Context, err error, name, title string, data any) error {
	herr, handled, rerr := b.failure(c, err)
	if handled {
		return rerr
	}
	p := page(c, title, data)
	p.Error = herr.Message
	p.Fields = herr.Fields
	return b.render(c, herr.StatusCode, name, p)
}

// redirect sends the browser to path with a success banner.
func redirect(c echo.Context, path, flash string) error {
	return c.Redirect(http.StatusSeeOther, withParam(path, flashParam, flash))
}

// redirectError sends the browser to path with an error banner.
func redirectError(c echo.Context, path, msg string) error {
	return c.Redirect(http.StatusSeeOther, withParam(path, errorParam, msg))
}

func withParam(path, key, value string) string {
	if value == "" {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + key + "=" + url.QueryEscape(value)
}

// localPath reports whether p is a path on this site.
func localPath(p string) bool {
	return strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "//") && !strings.HasPrefix(p, "/\\")
}

func confirmed(c echo.Context) bool {
	switch c.FormValue("confirmar") {
	case "1", "on", "true":
		return true
	}
	return false
}

func sessionOf(c echo.Context) session.Session {
	sess, _ := guard.SessionFrom(c)
	return sess
}
