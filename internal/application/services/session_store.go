package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/avatarctic/clinic-console/internal/core/domain/auth"
	"github.com/avatarctic/clinic-console/internal/core/ports"
	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

// SessionStore holds the authentication state of one workspace. Mutators are serialised;
// readers load an immutable snapshot.
type SessionStore struct {
	store      ports.Store
	key        string
	purgeKeys  []string
	defaultTTL time.Duration
	hostname   string
	logger     *logrus.Logger

	mu    sync.Mutex
	once  sync.Once
	state atomic.Pointer[auth.Snapshot]
}

// NewSessionStore persists under key. Logout also deletes linkedKeys, the other durable
// records that belong to the signed-in session.
func NewSessionStore(store ports.Store, key string, defaultTTL time.Duration, logger *logrus.Logger, linkedKeys ...string) *SessionStore {
	s := &SessionStore{
		store:      store,
		key:        key,
		purgeKeys:  append([]string{key}, linkedKeys...),
		defaultTTL: defaultTTL,
		logger:     logger,
	}
	s.state.Store(&auth.Snapshot{})
	return s
}

// persistedSession is the stored record. Hostname ties it to the host that signed in.
type persistedSession struct {
	auth.Session
	Hostname string `json:"hostname,omitempty"`
}

// BindHostname makes the store persist hostname with the session and refuse to restore a
// session recorded under any other host.
func (s *SessionStore) BindHostname(hostname string) *SessionStore {
	s.hostname = hostname
	return s
}

// Snapshot returns a consistent copy of the current state.
func (s *SessionStore) Snapshot() auth.Snapshot {
	return *s.state.Load()
}

// SetAuth is the only way to become authenticated. The result is validated and persisted
// before the in-memory state changes, so a failed write leaves the session untouched.
func (s *SessionStore) SetAuth(ctx context.Context, res *auth.LoginResult) error {
	if err := res.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.state.Load()
	next := &auth.Snapshot{
		Session: auth.Session{
			User: &auth.AuthUser{
				Username: res.Username,
				Role:     res.Role,
				ClinicID: res.ClinicID,
			},
			Token:           res.Access,
			RefreshToken:    res.Refresh,
			IsAuthenticated: true,
		},
		HasHydrated: cur.HasHydrated,
	}

	data, err := json.Marshal(persistedSession{Session: next.Session, Hostname: s.hostname})
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.store.Set(ctx, s.key, data, s.ttlFor(res.Refresh)); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	s.state.Store(next)

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"username": res.Username, "role": res.Role, "clinic_id": *res.ClinicID}).Debug("session stored")
	}
	return nil
}

// ttlFor keeps the persisted session no longer than its refresh token is valid.
func (s *SessionStore) ttlFor(refresh string) time.Duration {
	if refresh == "" {
		return s.defaultTTL
	}
	tok, _, err := jwt.NewParser().ParseUnverified(refresh, jwt.MapClaims{})
	if err != nil {
		return s.defaultTTL
	}
	exp, err := tok.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return s.defaultTTL
	}
	ttl := time.Until(exp.Time)
	if ttl <= 0 {
		return s.defaultTTL
	}
	return ttl
}

// Logout clears identity and credentials and removes every durable record of the session.
// The in-memory state is cleared even when deleting fails. Calling it twice is the same as once.
func (s *SessionStore) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Store(&auth.Snapshot{HasHydrated: s.state.Load().HasHydrated})

	var errs []error
	for _, k := range s.purgeKeys {
		if err := s.store.Delete(ctx, k); err != nil {
			errs = append(errs, fmt.Errorf("delete %s: %w", k, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		if s.logger != nil {
			s.logger.WithError(err).Warn("failed to purge session storage")
		}
		return err
	}
	return nil
}

// Hydrate restores the persisted session once. HasHydrated becomes true whatever happens;
// an unreadable or corrupt record leaves the session unauthenticated.
func (s *SessionStore) Hydrate(ctx context.Context) {
	s.once.Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		restored := s.restore(ctx)
		restored.HasHydrated = true
		s.state.Store(restored)
	})
}

func (s *SessionStore) restore(ctx context.Context) *auth.Snapshot {
	data, ok, err := s.store.Get(ctx, s.key)
	if err != nil {
		if s.logger != nil {
			s.logger.WithError(err).Warn("failed to read persisted session")
		}
		return &auth.Snapshot{}
	}
	if !ok {
		return &auth.Snapshot{}
	}
	var rec persistedSession
	if err := json.Unmarshal(data, &rec); err != nil {
		if s.logger != nil {
			s.logger.WithError(err).Warn("discarding corrupt persisted session")
		}
		return &auth.Snapshot{}
	}
	if s.hostname != "" && rec.Hostname != s.hostname {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"hostname": s.hostname, "recorded_for": rec.Hostname}).Warn("ignoring session persisted for another host")
		}
		return &auth.Snapshot{}
	}
	sess := rec.Session
	if !sess.IsAuthenticated || sess.Token == "" || sess.User == nil || !sess.User.Role.IsValid() {
		return &auth.Snapshot{}
	}
	return &auth.Snapshot{Session: sess}
}
