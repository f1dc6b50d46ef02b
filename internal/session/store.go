package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"floradmin/internal/auth"
	"floradmin/internal/model"
)

var (
	// ErrEmptyToken is returned when logging in without a credential.
	ErrEmptyToken = errors.New("session: empty token")
	// ErrIncompleteIdentity is returned for an unknown role or a store user
	// without a store.
	ErrIncompleteIdentity = errors.New("session: incomplete identity")
	// ErrTokenExpired is returned when the credential is already expired.
	ErrTokenExpired = errors.New("session: token expired")
)

// Session pairs a credential token with the identity it belongs to.
type Session struct {
	ID        string
	Token     string
	Identity  model.Identity
	ExpiresAt time.Time
}

// Expired reports whether the session is past its expiry. Sessions without
// an expiry never expire on their own.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// NewID returns a fresh random session id.
func NewID() string {
	return uuid.NewString()
}

// Store is the single owner of every session. Reads are served from memory;
// durable storage is only consulted when memory has no entry for an id, which
// is the case after a restart.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]Session
	backend  Backend
	ttl      time.Duration
	now      func() time.Time
	log      *zap.SugaredLogger
}

// NewStore creates a session store. ttl bounds every session; tokens that
// expire earlier shorten it.
func NewStore(backend Backend, ttl time.Duration, log *zap.SugaredLogger) *Store {
	return &Store{
		sessions: make(map[string]Session),
		backend:  backend,
		ttl:      ttl,
		now:      time.Now,
		log:      log,
	}
}

// Login stores token and identity under sid, replacing any previous session
// with that id.
func (s *Store) Login(ctx context.Context, sid, token string, identity model.Identity) (Session, error) {
	if token == "" {
		return Session{}, ErrEmptyToken
	}
	if !identity.Complete() {
		return Session{}, ErrIncompleteIdentity
	}

	now := s.now()
	expires := now.Add(s.ttl)
	if exp, err := auth.TokenExpiry(token); err == nil {
		if !exp.After(now) {
			return Session{}, ErrTokenExpired
		}
		if exp.Before(expires) {
			expires = exp
		}
	}

	user, err := json.Marshal(identity)
	if err != nil {
		return Session{}, fmt.Errorf("marshal identity: %w", err)
	}

	sess := Session{ID: sid, Token: token, Identity: identity, ExpiresAt: expires}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Save(ctx, sid, map[string][]byte{
		KeyToken: []byte(token),
		KeyUser:  user,
	}, expires.Sub(now)); err != nil {
		return Session{}, fmt.Errorf("persist session: %w", err)
	}
	s.sessions[sid] = sess
	return sess, nil
}

// Logout forgets sid. Logging out an unknown session is not an error.
func (s *Store) Logout(ctx context.Context, sid string) error {
	if sid == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sid)
	if err := s.backend.Delete(ctx, sid); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Current returns the session for sid, if one exists and has not expired.
func (s *Store) Current(ctx context.Context, sid string) (Session, bool) {
	if sid == "" {
		return Session{}, false
	}

	s.mu.RLock()
	sess, ok := s.sessions[sid]
	s.mu.RUnlock()
	if ok && !sess.Expired(s.now()) {
		return sess, true
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[sid]; ok {
		if !sess.Expired(s.now()) {
			return sess, true
		}
		delete(s.sessions, sid)
		_ = s.backend.Delete(ctx, sid)
		return Session{}, false
	}

	sess, ok = s.hydrate(ctx, sid)
	if !ok {
		return Session{}, false
	}
	s.sessions[sid] = sess
	return sess, true
}

// hydrate rebuilds a session from durable storage. Anything short of a
// complete, parseable, unexpired record counts as no session and the residue
// is removed. Callers hold s.mu.
func (s *Store) hydrate(ctx context.Context, sid string) (Session, bool) {
	values, err := s.backend.Load(ctx, sid)
	if err != nil {
		s.log.Warnw("load session", "error", err)
		return Session{}, false
	}
	token, user := values[KeyToken], values[KeyUser]
	if len(token) == 0 && len(user) == 0 {
		return Session{}, false
	}

	discard := func(reason string) (Session, bool) {
		s.log.Warnw("discarding stored session", "reason", reason)
		_ = s.backend.Delete(ctx, sid)
		return Session{}, false
	}

	if len(token) == 0 || len(user) == 0 {
		return discard("partial")
	}

	var identity model.Identity
	if err := json.Unmarshal(user, &identity); err != nil {
		return discard("unparseable identity")
	}
	if !identity.Complete() {
		return discard("incomplete identity")
	}

	now := s.now()
	sess := Session{ID: sid, Token: string(token), Identity: identity}
	if s.ttl > 0 {
		sess.ExpiresAt = now.Add(s.ttl)
	}
	if exp, err := auth.TokenExpiry(sess.Token); err == nil && (sess.ExpiresAt.IsZero() || exp.Before(sess.ExpiresAt)) {
		sess.ExpiresAt = exp
	}
	if sess.Expired(now) {
		return discard("expired")
	}
	return sess, true
}

// Sweep drops expired sessions from memory and durable storage and returns
// how many were removed.
func (s *Store) Sweep(ctx context.Context) int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for sid, sess := range s.sessions {
		if !sess.Expired(now) {
			continue
		}
		delete(s.sessions, sid)
		if err := s.backend.Delete(ctx, sid); err != nil {
			s.log.Warnw("delete expired session", "error", err)
		}
		removed++
	}
	return removed
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *Store) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(ctx); n > 0 {
				s.log.Debugw("swept expired sessions", "count", n)
			}
		}
	}
}

// Len returns the number of sessions held in memory.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
