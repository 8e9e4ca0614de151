package web

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/sirupsen/logrus"

	"devlink/internal/logging"
	"devlink/internal/session"
)

// PageProxy forwards page requests that passed the guard to the frontend.
// The signed-in user id is passed along in X-User-ID.
func PageProxy(frontend string, log logrus.FieldLogger) (http.Handler, error) {
	upstream, err := url.Parse(frontend)
	if err != nil || upstream.Scheme == "" || upstream.Host == "" {
		return nil, fmt.Errorf("invalid frontend url %q", frontend)
	}
	proxy := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(upstream)
			pr.SetXForwarded()
			pr.Out.Header.Del("X-User-ID")
			if sess, ok := session.FromContext(pr.In.Context()); ok {
				pr.Out.Header.Set("X-User-ID", sess.User.ID)
			}
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logging.FromRequest(log, r).WithError(err).Error("Frontend unavailable")
			writeJSON(w, http.StatusBadGateway, map[string]any{"success": false, "message": "Frontend unavailable"})
		},
	}
	return proxy, nil
}

// EchoPages answers page requests with the guard outcome. It is used when no
// frontend is configured.
func EchoPages() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		out := map[string]any{"path": r.URL.Path, "allowed": true, "user": nil}
		if sess, ok := session.FromContext(r.Context()); ok {
			out["user"] = sess.User
		}
		writeJSON(w, http.StatusOK, out)
	})
}
