package guard

import (
	"context"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"floradmin/internal/model"
	"floradmin/internal/session"
)

// CookieName carries the session id.
const CookieName = "floradmin_session"

const (
	LoginPath     = "/login"
	AdminHome     = "/admin"
	StoreUserHome = "/usuario"
)

const sessionContextKey = "session"

// Outcome of a navigation attempt.
type Outcome int

const (
	Unauthenticated Outcome = iota
	WrongRole
	Authorized
)

func (o Outcome) String() string {
	switch o {
	case Unauthenticated:
		return "unauthenticated"
	case WrongRole:
		return "authenticated-wrong-role"
	case Authorized:
		return "authenticated-authorized"
	}
	return "unknown"
}

// Decision is the guard's verdict; Redirect is empty when authorized.
type Decision struct {
	Outcome  Outcome
	Redirect string
}

// HomeFor returns the landing page of role.
func HomeFor(role model.Role) string {
	if role == model.RoleStoreUser {
		return StoreUserHome
	}
	return AdminHome
}

// LoginURL returns the login page remembering the requested location.
func LoginURL(requested string) string {
	if requested == "" || requested == LoginPath {
		return LoginPath
	}
	return LoginPath + "?from=" + url.QueryEscape(requested)
}

// Decide evaluates a navigation to requested by sess against the allowed
// roles. A nil session means nobody is logged in.
func Decide(allowed []model.Role, sess *session.Session, requested string) Decision {
	if sess == nil {
		return Decision{Outcome: Unauthenticated, Redirect: LoginURL(requested)}
	}
	for _, r := range allowed {
		if sess.Identity.Role == r {
			return Decision{Outcome: Authorized}
		}
	}
	return Decision{Outcome: WrongRole, Redirect: HomeFor(sess.Identity.Role)}
}

// SessionReader is the part of the session store the guard reads.
type SessionReader interface {
	Current(ctx context.Context, sid string) (session.Session, bool)
}

// Lookup resolves the session of the request, if any.
func Lookup(c echo.Context, store SessionReader) *session.Session {
	cookie, err := c.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	sess, ok := store.Current(c.Request().Context(), cookie.Value)
	if !ok {
		return nil
	}
	return &sess
}

// Require admits only sessions whose role is one of roles. The check runs on
// every request.
func Require(store SessionReader, roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess := Lookup(c, store)
			d := Decide(roles, sess, c.Request().URL.RequestURI())
			if d.Outcome != Authorized {
				return c.Redirect(http.StatusSeeOther, d.Redirect)
			}
			c.Set(sessionContextKey, *sess)
			return next(c)
		}
	}
}

// SessionFrom returns the session stored by Require.
func SessionFrom(c echo.Context) (session.Session, bool) {
	sess, ok := c.Get(sessionContextKey).(session.Session)
	return sess, ok
}
