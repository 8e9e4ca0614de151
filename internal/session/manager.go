package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"devlink/internal/metrics"
)

// DefaultRefreshAfter is how long a cached user is trusted before the
// backend is asked again.
const DefaultRefreshAfter = 30 * time.Minute

// Manager reads and writes the session cookie.
type Manager struct {
	codec        *Codec
	users        UserSource
	refreshAfter time.Duration
	secure       bool
	log          logrus.FieldLogger
	metrics      *metrics.Metrics
	now          func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithRefreshAfter sets the staleness threshold.
func WithRefreshAfter(d time.Duration) Option {
	return func(m *Manager) { m.refreshAfter = d }
}

// WithSecureCookie marks the cookie Secure.
func WithSecureCookie(secure bool) Option {
	return func(m *Manager) { m.secure = secure }
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(m *Manager) { m.log = log }
}

func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Manager) { m.metrics = mt }
}

// WithClock replaces time.Now for the manager and its codec.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
		m.codec.now = now
	}
}

func NewManager(codec *Codec, users UserSource, opts ...Option) *Manager {
	m := &Manager{
		codec:        codec,
		users:        users,
		refreshAfter: DefaultRefreshAfter,
		log:          logrus.StandardLogger(),
		metrics:      metrics.Discard(),
		now:          time.Now,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Create signs a new session for p and writes the cookie.
func (m *Manager) Create(w http.ResponseWriter, p Payload) (*Session, error) {
	s := &Session{User: p.User, AccessToken: p.AccessToken, LastUpdated: m.now()}
	if err := m.write(w, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Get returns the session carried by r, or nil. A cookie that fails
// verification is deleted. A stale session is refreshed from the backend
// before it is returned.
func (m *Manager) Get(w http.ResponseWriter, r *http.Request) *Session {
	s, err := m.read(r)
	if err != nil {
		if !errors.Is(err, ErrNoSession) {
			m.log.WithError(err).Debug("Discarding unverifiable session cookie")
			m.Destroy(w)
		}
		return nil
	}
	if m.now().Sub(s.LastUpdated) > m.refreshAfter {
		return m.Refresh(w, r, s)
	}
	return s
}

// Refresh re-fetches the user with the stored access token and re-signs the
// session. If s is nil the cookie on r is used. Any failure, including an
// unreachable backend, destroys the session.
func (m *Manager) Refresh(w http.ResponseWriter, r *http.Request, s *Session) *Session {
	if s == nil {
		var err error
		if s, err = m.read(r); err != nil {
			m.Destroy(w)
			return nil
		}
	}

	user, err := m.users.Me(r.Context(), s.AccessToken)
	if err != nil {
		m.log.WithError(err).WithField("user_id", s.User.ID).Info("Session refresh failed, signing out")
		m.metrics.SessionRefresh.WithLabelValues("failed").Inc()
		m.Destroy(w)
		return nil
	}

	fresh := &Session{User: *user, AccessToken: s.AccessToken, LastUpdated: m.now()}
	if err := m.write(w, fresh); err != nil {
		m.log.WithError(err).Error("Failed to re-sign refreshed session")
		m.metrics.SessionRefresh.WithLabelValues("failed").Inc()
		m.Destroy(w)
		return nil
	}
	m.metrics.SessionRefresh.WithLabelValues("refreshed").Inc()
	return fresh
}

// Update applies patch to a copy of the cached user and re-signs the session.
func (m *Manager) Update(w http.ResponseWriter, s *Session, patch func(*UserInfo)) (*Session, error) {
	next := *s
	patch(&next.User)
	next.LastUpdated = m.now()
	if err := m.write(w, &next); err != nil {
		return nil, err
	}
	return &next, nil
}

// Destroy expires the cookie.
func (m *Manager) Destroy(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *Manager) read(r *http.Request) (*Session, error) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return nil, ErrNoSession
	}
	return m.codec.Decode(c.Value)
}

func (m *Manager) write(w http.ResponseWriter, s *Session) error {
	token, exp, err := m.codec.Encode(*s)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
