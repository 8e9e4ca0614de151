// Package guard decides for every request whether it may proceed, must be
// redirected, or is rejected, based on the route table and the session.
package guard

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"devlink/internal/logging"
	"devlink/internal/metrics"
	"devlink/internal/session"
)

const (
	SignInPath = "/signin"
	HomePath   = "/"
)

// Action is what the guard does with a request.
type Action int

const (
	Allow Action = iota
	Redirect
	Unauthorized
)

func (a Action) String() string {
	switch a {
	case Redirect:
		return "redirect"
	case Unauthorized:
		return "unauthorized"
	}
	return "allow"
}

type Decision struct {
	Action   Action `json:"-"`
	Location string `json:"location,omitempty"`
}

// Evaluate decides what to do with a request for path.
func (rt Routes) Evaluate(path string, s *session.Session) Decision {
	path = normalize(path)
	class := rt.Classify(path)

	if path == "/api" || strings.HasPrefix(path, "/api/") {
		if class == UserOnly && s == nil {
			return Decision{Action: Unauthorized}
		}
		return Decision{Action: Allow}
	}
	if class == UserOnly && s == nil {
		return Decision{Action: Redirect, Location: SignInPath}
	}
	if s != nil && s.User.EmailVerified && rt.IsVerifyEmail(path) {
		return Decision{Action: Redirect, Location: HomePath}
	}
	if class == AuthOnly && s != nil {
		return Decision{Action: Redirect, Location: HomePath}
	}
	return Decision{Action: Allow}
}

// SessionReader reads and refreshes the request's session.
type SessionReader interface {
	Get(w http.ResponseWriter, r *http.Request) *session.Session
}

// Guard is the route-guard middleware.
type Guard struct {
	routes   Routes
	sessions SessionReader
	log      logrus.FieldLogger
	metrics  *metrics.Metrics
	evaluate func(string, *session.Session) Decision
}

func New(routes Routes, sessions SessionReader, log logrus.FieldLogger, m *metrics.Metrics) *Guard {
	if log == nil {
		log = logging.Logger()
	}
	if m == nil {
		m = metrics.Discard()
	}
	return &Guard{routes: routes, sessions: sessions, log: log, metrics: m, evaluate: routes.Evaluate}
}

var staticPrefixes = []string{"/_next/", "/static/", "/favicon.ico"}

func isStatic(path string) bool {
	for _, p := range staticPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// decide never panics: an unexpected failure lets the request through.
func (g *Guard) decide(w http.ResponseWriter, r *http.Request) (d Decision, s *session.Session) {
	defer func() {
		if rec := recover(); rec != nil {
			logging.FromRequest(g.log, r).WithField("panic", fmt.Sprint(rec)).
				Error("Route guard failed, allowing request")
			g.metrics.GuardDecisions.WithLabelValues("recovered").Inc()
			d, s = Decision{Action: Allow}, nil
		}
	}()
	s = g.sessions.Get(w, r)
	d = g.evaluate(r.URL.Path, s)
	return d, s
}

// Middleware applies the guard and stores the session in the request
// context for later handlers.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isStatic(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		d, s := g.decide(w, r)
		g.metrics.GuardDecisions.WithLabelValues(d.Action.String()).Inc()

		switch d.Action {
		case Unauthorized:
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]any{"message": "Unauthorized", "success": false})
			return
		case Redirect:
			http.Redirect(w, r, d.Location, http.StatusTemporaryRedirect)
			return
		}
		if s != nil {
			r = r.WithContext(session.WithSession(r.Context(), s))
		}
		next.ServeHTTP(w, r)
	})
}
