package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devlink/client/backend"
	"devlink/internal/actions"
	"devlink/internal/guard"
	"devlink/internal/metrics"
	"devlink/internal/notify"
	"devlink/internal/session"
)

type env struct {
	router   http.Handler
	api      *API
	sessions *session.Manager
	logs     *test.Hook
}

func fakeBackend() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/signin", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
	})
	mux.HandleFunc("GET /auth/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"id": "u-1", "username": "alice", "email": "alice@example.com"})
	})
	mux.HandleFunc("POST /posts/{id}/like", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Token expired"})
	})
	mux.HandleFunc("GET /posts", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"data":  []map[string]any{{"id": "p1", "title": "Hello"}},
			"total": 1, "page": 1, "limit": 10,
		})
	})
	return mux
}

func newEnv(t *testing.T, opts ...actions.Option) *env {
	t.Helper()
	srv := httptest.NewServer(fakeBackend())
	t.Cleanup(srv.Close)

	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	api := backend.New(srv.URL, backend.WithLogger(log), backend.WithLatency(m.BackendLatency))
	codec := session.NewCodec([]byte("web-test-signing-key-0123456789ab"), 7*24*time.Hour)
	sessions := session.NewManager(codec, api, session.WithLogger(log), session.WithMetrics(m))
	svc := actions.New(api, sessions, append([]actions.Option{actions.WithLogger(log), actions.WithMetrics(m)}, opts...)...)

	toasts := NewToasts([]byte("toast-auth-key-0123456789abcdefg"), []byte("toast-enc-key-0123456789abcdefgh"), false)
	hub := notify.NewHub(nil, log, m)
	webAPI := NewAPI(svc, sessions, hub, toasts, log, m)
	webAPI.PushToken = "push-secret"

	routes, err := guard.LoadRoutes("")
	require.NoError(t, err)
	g := guard.New(routes, sessions, log, m)

	return &env{router: NewRouter(webAPI, g, reg), api: webAPI, sessions: sessions, logs: hook}
}

// cookieFor signs in alice and returns her session cookie.
func (e *env) cookieFor(t *testing.T, verified bool) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	_, err := e.sessions.Create(rec, session.Payload{
		User:        session.UserInfo{ID: "u-1", Username: "alice", Email: "alice@example.com", EmailVerified: verified},
		AccessToken: "tok-1",
	})
	require.NoError(t, err)
	return rec.Result().Cookies()[0]
}

func (e *env) do(req *http.Request, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	e := newEnv(t)
	rec := e.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestMetricsEndpoint(t *testing.T) {
	e := newEnv(t)
	e.do(httptest.NewRequest(http.MethodGet, "/projects/add-project", nil))
	rec := e.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `devlink_guard_decisions_total{decision="redirect"} 1`)
}

func TestUnauthenticatedPageRedirects(t *testing.T) {
	e := newEnv(t)
	rec := e.do(httptest.NewRequest(http.MethodGet, "/projects/add-project", nil))
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/signin", rec.Header().Get("Location"))
}

func TestVerifiedUserLeavesSignin(t *testing.T) {
	e := newEnv(t)
	rec := e.do(httptest.NewRequest(http.MethodGet, "/signin", nil), e.cookieFor(t, true))
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestUserAPIWithoutSession(t *testing.T) {
	e := newEnv(t)
	rec := e.do(httptest.NewRequest(http.MethodPost, "/api/user/posts", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"Unauthorized","success":false}`, rec.Body.String())
}

func TestPublicAPI(t *testing.T) {
	e := newEnv(t)
	rec := e.do(httptest.NewRequest(http.MethodGet, "/api/posts?page=1&limit=10", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var res struct {
		Success bool `json:"success"`
		Data    struct {
			Items []backend.Post `json:"data"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.Success)
	require.Len(t, res.Data.Items, 1)
	assert.Equal(t, "Hello", res.Data.Items[0].Title)
}

func TestSessionEndpoint(t *testing.T) {
	e := newEnv(t)

	rec := e.do(httptest.NewRequest(http.MethodGet, "/api/session", nil))
	assert.JSONEq(t, `{"authenticated":false,"user":null}`, rec.Body.String())

	rec = e.do(httptest.NewRequest(http.MethodGet, "/api/session", nil), e.cookieFor(t, false))
	assert.Contains(t, rec.Body.String(), `"authenticated":true`)
	assert.Contains(t, rec.Body.String(), `"username":"alice"`)
	assert.NotContains(t, rec.Body.String(), "tok-1")
}

func TestFailedActionLeavesToast(t *testing.T) {
	e := newEnv(t)
	body := `{"email":"alice@example.com","password":"wrong"}`
	rec := e.do(httptest.NewRequest(http.MethodPost, "/api/auth/signin", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)

	var flash *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == FlashCookie {
			flash = c
		}
	}
	require.NotNil(t, flash)

	rec = e.do(httptest.NewRequest(http.MethodGet, "/api/toasts", nil), flash)
	assert.JSONEq(t, `{"toasts":[{"kind":"error","message":"Invalid credentials"}]}`, rec.Body.String())
}

func TestWrongPasswordIsNotUnauthorized(t *testing.T) {
	e := newEnv(t)
	body := `{"email":"alice@example.com","password":"wrong"}`
	rec := e.do(httptest.NewRequest(http.MethodPost, "/api/auth/signin", strings.NewReader(body)))
	assert.Equal(t, http.StatusOK, rec.Code)

	var res map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, false, res["success"])
	assert.Equal(t, "Invalid credentials", res["message"])
}

func TestRejectedSessionTokenIsUnauthorized(t *testing.T) {
	e := newEnv(t)
	rec := e.do(httptest.NewRequest(http.MethodPost, "/api/user/posts/p1/like", nil), e.cookieFor(t, true))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
}

func TestFieldErrorsDoNotToast(t *testing.T) {
	e := newEnv(t)
	rec := e.do(httptest.NewRequest(http.MethodPost, "/api/auth/signin", strings.NewReader(`{"email":"nope"}`)))
	assert.Contains(t, rec.Body.String(), `"errors"`)
	for _, c := range rec.Result().Cookies() {
		assert.NotEqual(t, FlashCookie, c.Name)
	}
}

func TestBadBody(t *testing.T) {
	e := newEnv(t)
	rec := e.do(httptest.NewRequest(http.MethodPost, "/api/auth/signin", strings.NewReader(`{`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthRateLimitStatus(t *testing.T) {
	e := newEnv(t, actions.WithLimiter(actions.NewLimiter(0.001, 1)))
	body := `{"email":"alice@example.com","password":"wrong"}`
	e.do(httptest.NewRequest(http.MethodPost, "/api/auth/signin", strings.NewReader(body)))
	rec := e.do(httptest.NewRequest(http.MethodPost, "/api/auth/signin", strings.NewReader(body)))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), actions.MsgTooManyAttempts)
}

func TestOAuthCallback(t *testing.T) {
	e := newEnv(t)
	q := url.Values{
		"accessToken": {"oauth-tok"},
		"userId":      {"u-9"},
		"email":       {"gh@example.com"},
		"username":    {"octo"},
		"displayName": {"Octo Cat"},
		"oauthId":     {"gh-123"},
	}
	rec := e.do(httptest.NewRequest(http.MethodGet, "/auth/callback?"+q.Encode(), nil))
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	sess := e.sessions.Get(httptest.NewRecorder(), req)
	require.NotNil(t, sess)
	assert.Equal(t, "oauth-tok", sess.AccessToken)
	assert.Equal(t, "u-9", sess.User.ID)
	assert.Equal(t, "Octo Cat", sess.User.Name)
	assert.Equal(t, "gh-123", sess.User.OAuthID)
	assert.True(t, sess.User.EmailVerified)
}

func TestOAuthCallbackMissingParams(t *testing.T) {
	e := newEnv(t)
	rec := e.do(httptest.NewRequest(http.MethodGet, "/auth/callback?userId=u-9", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, rec.Result().Cookies())

	var found bool
	for _, entry := range e.logs.AllEntries() {
		if entry.Level == logrus.ErrorLevel && entry.Message == "OAuth callback is missing required parameters" {
			found = true
			assert.Equal(t, "accessToken,email", entry.Data["missing"])
		}
	}
	assert.True(t, found)
}

func TestPushThroughRouter(t *testing.T) {
	e := newEnv(t)
	req := httptest.NewRequest(http.MethodPost, "/internal/notifications",
		strings.NewReader(`{"id":"n1","type":"FOLLOW","recipientId":"u-1"}`))
	req.Header.Set(notify.PushTokenHeader, "push-secret")
	rec := e.do(req)
	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestEchoPages(t *testing.T) {
	e := newEnv(t)
	rec := e.do(httptest.NewRequest(http.MethodGet, "/posts/42", nil), e.cookieFor(t, false))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"path":"/posts/42"`)
	assert.Contains(t, rec.Body.String(), `"username":"alice"`)
}

func TestPageProxy(t *testing.T) {
	frontend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Seen-User", r.Header.Get("X-User-ID"))
		_, _ = w.Write([]byte("page " + r.URL.Path))
	}))
	defer frontend.Close()

	e := newEnv(t)
	pages, err := PageProxy(frontend.URL, e.api.log)
	require.NoError(t, err)
	e.api.Pages = pages
	routes, _ := guard.LoadRoutes("")
	e.router = NewRouter(e.api, guard.New(routes, e.sessions, e.api.log, nil), nil)

	req := httptest.NewRequest(http.MethodGet, "/projects/add-project", nil)
	req.Header.Set("X-User-ID", "spoofed")
	rec := e.do(req, e.cookieFor(t, false))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "page /projects/add-project", rec.Body.String())
	assert.Equal(t, "u-1", rec.Header().Get("X-Seen-User"))

	_, err = PageProxy("not a url", e.api.log)
	assert.Error(t, err)
}
