package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestMeSendsBearerToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/me", r.URL.Path)
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]any{
			"id": "u-1", "username": "alice", "email": "a@example.com", "emailVerified": true,
		})
	})

	u, err := c.Me(context.Background(), "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.True(t, u.EmailVerified)
}

func TestAnonymousRequestHasNoAuthorization(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, []Tag{{ID: "t1", Name: "go", Count: 3}})
	})

	tags, err := c.ListTags(context.Background())
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "go", tags[0].Name)
}

func TestErrorStatusMapsToAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
	})

	_, err := c.SignIn(context.Background(), SignInRequest{Email: "a@example.com", Password: "x"})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Invalid credentials", apiErr.Message)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestErrorWithoutBodyUsesStatusText(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := c.GetPost(context.Background(), "", "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "Not Found")
}

func TestListPostsQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/posts", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		assert.Equal(t, "golang", r.URL.Query().Get("tag"))
		assert.Empty(t, r.URL.Query().Get("search"))
		writeJSON(w, http.StatusOK, map[string]any{
			"data":  []map[string]any{{"id": "p1", "title": "Hello", "likeCount": 4, "isLiked": true}},
			"total": 11, "page": 2, "limit": 10,
		})
	})

	page, err := c.ListPosts(context.Background(), "", PostQuery{PageQuery: PageQuery{Page: 2, Limit: 10}, Tag: "golang"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, 4, page.Items[0].LikeCount)
	assert.True(t, page.Items[0].IsLiked)
	assert.Equal(t, 11, page.Total)
}

func TestLikeResult(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/comments/c%2F1/like", r.URL.EscapedPath())
		writeJSON(w, http.StatusOK, map[string]any{"action": "unliked"})
	})

	res, err := c.LikeComment(context.Background(), "tok", "c/1")
	require.NoError(t, err)
	assert.Equal(t, ActionUnliked, res.Action)
	assert.Nil(t, res.LikeCount)
}

func TestDeleteNoContent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	})

	assert.NoError(t, c.DeletePost(context.Background(), "tok", "p1"))
}

func TestIsAlreadyFollowState(t *testing.T) {
	assert.True(t, IsAlreadyFollowState("You are already following this user", true))
	assert.True(t, IsAlreadyFollowState("Not following this user", false))
	assert.False(t, IsAlreadyFollowState("User not found", true))
	assert.False(t, IsAlreadyFollowState("User not found", false))
	assert.False(t, IsAlreadyFollowState("Not following this user", true))
	assert.False(t, IsAlreadyFollowState("You are already following this user", false))
}

func TestLatencyObserved(t *testing.T) {
	h := prometheus.NewHistogramVec(prometheus.HistogramOpts{Name: "test_backend_seconds"}, []string{"method", "status"})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Post not found"})
	}))
	t.Cleanup(srv.Close)
	c := New(srv.URL, WithLatency(h))

	_, err := c.GetPost(context.Background(), "", "p1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1, testutil.CollectAndCount(h))
}
