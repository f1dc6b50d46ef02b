package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"floradmin/internal/apiclient"
	"floradmin/internal/metrics"
	"floradmin/internal/model"
	"floradmin/internal/session"
)

var (
	// ErrInvalidCredentials is returned when username or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrAccountNotUsable is returned when the backend accepts the
	// credentials but the account has no console role or no store.
	ErrAccountNotUsable = errors.New("account cannot use the console")
)

// Authenticator exchanges credentials with the backend.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*apiclient.LoginResult, error)
}

// SessionManager is the part of the session store used by AuthService.
type SessionManager interface {
	Login(ctx context.Context, sid, token string, identity model.Identity) (session.Session, error)
	Logout(ctx context.Context, sid string) error
}

// AuthService handles console login and logout.
type AuthService interface {
	// Login authenticates against the backend and opens a new session. The
	// session under previousSID, if any, is closed only when login succeeds.
	Login(ctx context.Context, previousSID, username, password string) (session.Session, error)
	Logout(ctx context.Context, sid string) error
}

type authService struct {
	authenticator Authenticator
	sessions      SessionManager
	metrics       *metrics.Collector
	log           *zap.SugaredLogger
	newID         func() string
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator Authenticator, sessions SessionManager, m *metrics.Collector, log *zap.SugaredLogger) AuthService {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &authService{
		authenticator: authenticator,
		sessions:      sessions,
		metrics:       m,
		log:           log,
		newID:         session.NewID,
	}
}

func (s *authService) Login(ctx context.Context, previousSID, username, password string) (session.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		s.metrics.ObserveLogin("invalid")
		return session.Session{}, ErrInvalidCredentials
	}

	res, err := s.authenticator.Login(ctx, username, password)
	if err != nil {
		var apiErr *apiclient.APIError
		if errors.As(err, &apiErr) && (apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusBadRequest) {
			s.metrics.ObserveLogin("invalid")
			return session.Session{}, ErrInvalidCredentials
		}
		s.metrics.ObserveLogin("error")
		return session.Session{}, fmt.Errorf("login: %w", err)
	}

	sess, err := s.sessions.Login(ctx, s.newID(), res.Token, res.User)
	if err != nil {
		s.metrics.ObserveLogin("rejected")
		if errors.Is(err, session.ErrIncompleteIdentity) || errors.Is(err, session.ErrTokenExpired) {
			s.log.Warnw("login rejected", "username", username, "error", err)
			return session.Session{}, fmt.Errorf("%w: %v", ErrAccountNotUsable, err)
		}
		return session.Session{}, fmt.Errorf("open session: %w", err)
	}

	if previousSID != "" {
		if err := s.sessions.Logout(ctx, previousSID); err != nil {
			s.log.Warnw("close previous session", "error", err)
		}
	}

	s.metrics.ObserveLogin("success")
	s.log.Infow("user logged in", "username", username, "role", sess.Identity.Role)
	return sess, nil
}

func (s *authService) Logout(ctx context.Context, sid string) error {
	if sid == "" {
		return nil
	}
	if err := s.sessions.Logout(ctx, sid); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}
