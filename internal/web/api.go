// Package web exposes the session, the actions and the notification stream
// over HTTP, and sends page requests through the route guard to the
// frontend.
package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"devlink/client/backend"
	"devlink/internal/actions"
	"devlink/internal/logging"
	"devlink/internal/metrics"
	"devlink/internal/notify"
	"devlink/internal/session"
)

const maxBodyBytes = 1 << 20

// API holds the handler dependencies.
type API struct {
	Actions   *actions.Service
	Sessions  *session.Manager
	Hub       *notify.Hub
	Toasts    *Toasts
	Pages     http.Handler
	PushToken string

	log     logrus.FieldLogger
	metrics *metrics.Metrics
}

func NewAPI(svc *actions.Service, sessions *session.Manager, hub *notify.Hub, toasts *Toasts, log logrus.FieldLogger, m *metrics.Metrics) *API {
	if log == nil {
		log = logging.Logger()
	}
	if m == nil {
		m = metrics.Discard()
	}
	return &API{
		Actions:  svc,
		Sessions: sessions,
		Hub:      hub,
		Toasts:   toasts,
		Pages:    EchoPages(),
		log:      log,
		metrics:  m,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Logger().WithError(err).Debug("Failed to write response")
	}
}

// respond writes an action result. A failure other than a field error also
// leaves a toast for the next page.
func (api *API) respond(w http.ResponseWriter, r *http.Request, res actions.Result) {
	status := http.StatusOK
	switch {
	case res.RateLimited:
		status = http.StatusTooManyRequests
	case res.Unauthenticated:
		status = http.StatusUnauthorized
	}
	if !res.Success && len(res.Errors) == 0 && res.Message != "" && api.Toasts != nil {
		if err := api.Toasts.Add(w, r, ToastError, res.Message); err != nil {
			logging.FromRequest(api.log, r).WithError(err).Warn("Failed to store toast")
		}
	}
	writeJSON(w, status, res)
}

// decode reads a JSON body into v. It answers 400 itself on failure.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
	if err == nil {
		return true
	}
	msg := "Invalid request body"
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		msg = "Request body too large"
	}
	writeJSON(w, http.StatusBadRequest, actions.Result{Message: msg})
	return false
}

// queryInt returns the integer query parameter name, or def when it is
// missing or not a positive number.
func queryInt(r *http.Request, name string, def int) int {
	if v := r.URL.Query().Get(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func pageQuery(r *http.Request) backend.PageQuery {
	return backend.PageQuery{Page: queryInt(r, "page", 1), Limit: queryInt(r, "limit", 10)}
}

func (api *API) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
