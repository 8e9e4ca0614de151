// Package actions implements the server actions behind every form and
// button: validate the input, call the backend with the session's token,
// and map the outcome to a Result the client can render.
package actions

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"devlink/client/backend"
	"devlink/internal/follows"
	"devlink/internal/logging"
	"devlink/internal/metrics"
	"devlink/internal/session"
	"devlink/internal/validate"
)

// User-facing messages shared by several actions.
const (
	MsgInvalidInput    = "Please fix the errors below"
	MsgSignInRequired  = "You must be signed in to do that"
	MsgTooManyAttempts = "Too many attempts, try again later"
	MsgSomethingWrong  = "Something went wrong. Please try again."
)

var errMissingToken = errors.New("backend returned no access token")

// Result is what every action returns. Field errors come back inline and
// are never raised as errors.
type Result struct {
	Success bool                 `json:"success"`
	Message string               `json:"message,omitempty"`
	Errors  validate.FieldErrors `json:"errors,omitempty"`
	Data    any                  `json:"data,omitempty"`

	// RateLimited is set when the action was refused by the limiter.
	RateLimited bool `json:"-"`
	// Unauthenticated is set when the action needs a session and has none.
	Unauthenticated bool `json:"-"`
}

// Service runs actions against the backend.
type Service struct {
	api      *backend.Client
	sessions *session.Manager
	follows  follows.Store
	limiter  *Limiter
	log      logrus.FieldLogger
	metrics  *metrics.Metrics
}

type Option func(*Service)

func WithFollowStore(st follows.Store) Option {
	return func(s *Service) { s.follows = st }
}

// WithLimiter rate limits the authentication actions per client IP.
func WithLimiter(l *Limiter) Option {
	return func(s *Service) { s.limiter = l }
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Service) { s.log = log }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func New(api *backend.Client, sessions *session.Manager, opts ...Option) *Service {
	s := &Service{
		api:      api,
		sessions: sessions,
		follows:  follows.NewMemory(),
		log:      logging.Logger(),
		metrics:  metrics.Discard(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// FollowStore returns the follow-status store the service keeps current.
func (s *Service) FollowStore() follows.Store {
	return s.follows
}

func (s *Service) logFor(ctx context.Context, action string) logrus.FieldLogger {
	log := s.log.WithField("action", action)
	if id := logging.GetRequestID(ctx); id != "" {
		log = log.WithField("request_id", id)
	}
	return log
}

func (s *Service) ok(action, msg string, data any) Result {
	s.metrics.SuccessfulActions.WithLabelValues(action).Inc()
	return Result{Success: true, Message: msg, Data: data}
}

func (s *Service) invalid(action string, fe validate.FieldErrors) Result {
	s.metrics.FailedActions.WithLabelValues(action).Inc()
	return Result{Message: MsgInvalidInput, Errors: fe}
}

// fail logs err and converts it to a Result. Client errors from the backend
// carry a message meant for the user; anything else gets fallback.
func (s *Service) fail(ctx context.Context, action string, err error, fallback string) Result {
	logging.Failure(s.logFor(ctx, action), err, "Action failed")
	s.metrics.FailedActions.WithLabelValues(action).Inc()
	if fallback == "" {
		fallback = MsgSomethingWrong
	}
	res := Result{Message: fallback}
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.Status < 500 && apiErr.Message != "" {
		res.Message = apiErr.Message
	}
	return res
}

// failSession is fail for calls made with the session's token: a backend
// 401 there means the session is no longer valid.
func (s *Service) failSession(ctx context.Context, action string, err error, fallback string) Result {
	res := s.fail(ctx, action, err, fallback)
	if errors.Is(err, backend.ErrUnauthorized) {
		res.Unauthenticated = true
	}
	return res
}

func (s *Service) unauthenticated(action string) Result {
	s.metrics.FailedActions.WithLabelValues(action).Inc()
	return Result{Message: MsgSignInRequired, Unauthenticated: true}
}

// token returns the access token of the session in ctx, or "".
func token(ctx context.Context) string {
	if sess, ok := session.FromContext(ctx); ok {
		return sess.AccessToken
	}
	return ""
}

// read runs a backend read with the caller's token, if any.
func read[T any](ctx context.Context, s *Service, action, failMsg string, fn func(token string) (T, error)) Result {
	tok := token(ctx)
	v, err := fn(tok)
	if err != nil {
		if tok != "" {
			return s.failSession(ctx, action, err, failMsg)
		}
		return s.fail(ctx, action, err, failMsg)
	}
	return s.ok(action, "", v)
}

// mutate runs fn only when ctx carries a session.
func mutate[T any](ctx context.Context, s *Service, action, okMsg, failMsg string, fn func(token string) (T, error)) Result {
	sess, ok := session.FromContext(ctx)
	if !ok {
		return s.unauthenticated(action)
	}
	v, err := fn(sess.AccessToken)
	if err != nil {
		return s.failSession(ctx, action, err, failMsg)
	}
	return s.ok(action, okMsg, v)
}
