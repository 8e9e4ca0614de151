package interaction

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devlink/client/backend"
	"devlink/client/optimistic"
	"devlink/internal/follows"
)

type toasts struct {
	got []string
}

func (t *toasts) toast(kind, msg string) {
	t.got = append(t.got, kind+": "+msg)
}

func intp(n int) *int { return &n }

func likeReturning(res *backend.LikeResult, err error) LikeFunc {
	return func(context.Context) (*backend.LikeResult, error) { return res, err }
}

func TestLikeConfirmsServerAction(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name    string
		initial LikeState
		res     *backend.LikeResult
		want    LikeState
	}{
		{"like", LikeState{Count: 4}, &backend.LikeResult{Action: backend.ActionLiked}, LikeState{Liked: true, Count: 5}},
		{"unlike", LikeState{Liked: true, Count: 4}, &backend.LikeResult{Action: backend.ActionUnliked}, LikeState{Count: 3}},
		// double click raced: we thought it was unliked but the server says liked
		{"server already liked", LikeState{Liked: true, Count: 4}, &backend.LikeResult{Action: backend.ActionLiked}, LikeState{Liked: true, Count: 4}},
		{"server count wins", LikeState{Count: 4}, &backend.LikeResult{Action: backend.ActionLiked, LikeCount: intp(9)}, LikeState{Liked: true, Count: 9}},
		{"never below zero", LikeState{Liked: true, Count: 0}, &backend.LikeResult{Action: backend.ActionUnliked}, LikeState{Count: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts toasts
			l := NewLike(tt.initial, likeReturning(tt.res, nil), ts.toast)
			got, err := l.Toggle(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, l.State())
			assert.Empty(t, ts.got)
		})
	}
}

func TestLikeShowsGuessWhilePending(t *testing.T) {
	var seen []LikeState
	l := NewLike(LikeState{Count: 1}, likeReturning(&backend.LikeResult{Action: backend.ActionLiked}, nil), nil)
	l.Machine().OnChange(func(s LikeState, p optimistic.Phase) {
		if p == optimistic.Pending {
			seen = append(seen, s)
		}
	})
	_, err := l.Toggle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []LikeState{{Liked: true, Count: 2}}, seen)
}

func TestLikeRollsBack(t *testing.T) {
	ctx := context.Background()
	for name, send := range map[string]LikeFunc{
		"network error":  likeReturning(nil, errors.New("connection refused")),
		"unknown action": likeReturning(&backend.LikeResult{Action: "maybe"}, nil),
		"empty response": likeReturning(nil, nil),
	} {
		t.Run(name, func(t *testing.T) {
			var ts toasts
			l := NewLike(LikeState{Liked: true, Count: 7}, send, ts.toast)
			got, err := l.Toggle(ctx)
			assert.Error(t, err)
			assert.Equal(t, LikeState{Liked: true, Count: 7}, got)
			assert.Equal(t, []string{"error: Failed to update like"}, ts.got)
		})
	}
}

func TestAbortIsNotToasted(t *testing.T) {
	var ts toasts
	l := NewLike(LikeState{}, likeReturning(nil, context.Canceled), ts.toast)
	_, err := l.Toggle(context.Background())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, ts.got)
}

func followReturning(res *backend.FollowResult, err error) FollowFunc {
	return func(context.Context) (*backend.FollowResult, error) { return res, err }
}

func unexpected(t *testing.T) FollowFunc {
	return func(context.Context) (*backend.FollowResult, error) {
		t.Fatal("unexpected call")
		return nil, nil
	}
}

func TestFollowSuccess(t *testing.T) {
	ctx := context.Background()
	store := follows.NewMemory()
	f := NewFollow("me", "bob", FollowState{Followers: 10},
		followReturning(&backend.FollowResult{Success: true}, nil), unexpected(t), store, nil)

	got, err := f.Toggle(ctx)
	require.NoError(t, err)
	assert.Equal(t, FollowState{Following: true, Followers: 11}, got)

	following, known, err := store.Get(ctx, "me", "bob")
	require.NoError(t, err)
	assert.True(t, known)
	assert.True(t, following)
}

func TestFollowAlreadyFollowingIsIdempotent(t *testing.T) {
	ctx := context.Background()
	for name, send := range map[string]FollowFunc{
		"error body":  followReturning(nil, &backend.APIError{Status: http.StatusBadRequest, Message: "Already following this user"}),
		"result body": followReturning(&backend.FollowResult{Success: false, Message: "You are already following this user"}, nil),
	} {
		t.Run(name, func(t *testing.T) {
			var ts toasts
			store := follows.NewMemory()
			f := NewFollow("me", "bob", FollowState{Followers: 10}, send, unexpected(t), store, ts.toast)

			got, err := f.Toggle(ctx)
			require.NoError(t, err)
			assert.Equal(t, FollowState{Following: true, Followers: 10}, got, "count is not incremented twice")
			assert.Empty(t, ts.got)

			following, _, _ := store.Get(ctx, "me", "bob")
			assert.True(t, following)
		})
	}
}

func TestUnfollowNotFollowing(t *testing.T) {
	f := NewFollow("me", "bob", FollowState{Following: true, Followers: 3}, nil,
		followReturning(nil, &backend.APIError{Status: http.StatusBadRequest, Message: "Not following this user"}),
		follows.NewMemory(), nil)
	got, err := f.Toggle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, FollowState{Following: false, Followers: 3}, got)
}

func TestFollowFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	var ts toasts
	store := follows.NewMemory()
	f := NewFollow("me", "bob", FollowState{Following: true, Followers: 3}, nil,
		followReturning(&backend.FollowResult{Success: false, Message: "User not found"}, nil), store, ts.toast)

	got, err := f.Toggle(ctx)
	assert.ErrorIs(t, err, optimistic.ErrRejected)
	assert.Equal(t, FollowState{Following: true, Followers: 3}, got)
	assert.Equal(t, []string{"error: Failed to unfollow user"}, ts.got)

	_, known, _ := store.Get(ctx, "me", "bob")
	assert.False(t, known, "failed toggles do not touch the store")
}

func TestFollowSync(t *testing.T) {
	ctx := context.Background()
	store := follows.NewMemory()
	require.NoError(t, store.Set(ctx, "me", "bob", true))
	f := NewFollow("me", "bob", FollowState{Followers: 2}, nil, nil, store, nil)

	require.NoError(t, f.Sync(ctx))
	assert.Equal(t, FollowState{Following: true, Followers: 3}, f.State())
	require.NoError(t, f.Sync(ctx))
	assert.Equal(t, FollowState{Following: true, Followers: 3}, f.State())
}

type comment struct {
	ID      string
	Content string
}

func newThread(ts *toasts, items ...comment) *Thread[comment] {
	return NewThread("comment", items,
		func(c comment) string { return c.ID },
		func(c comment, id string) comment { c.ID = id; return c },
		ts.toast)
}

func TestThreadAdd(t *testing.T) {
	ctx := context.Background()
	var ts toasts
	th := newThread(&ts, comment{ID: "1", Content: "first"})

	var pending []comment
	th.m.OnChange(func(s []comment, p optimistic.Phase) {
		if p == optimistic.Pending {
			pending = s
		}
	})

	got, err := th.Add(ctx, comment{Content: "hello"}, func(context.Context) (*comment, error) {
		return &comment{ID: "2", Content: "hello"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []comment{{ID: "2", Content: "hello"}, {ID: "1", Content: "first"}}, got)
	require.Len(t, pending, 2)
	assert.True(t, strings.HasPrefix(pending[0].ID, TempPrefix))
}

func TestThreadFailuresRollBack(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	var ts toasts
	start := []comment{{ID: "1", Content: "a"}, {ID: "2", Content: "b"}}
	th := newThread(&ts, start...)

	_, err := th.Add(ctx, comment{Content: "x"}, func(context.Context) (*comment, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, start, th.Items())

	_, err = th.Edit(ctx, "1", func(c comment) comment { c.Content = "edited"; return c },
		func(context.Context) (*comment, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, start, th.Items())

	_, err = th.Delete(ctx, "2", func(context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, start, th.Items())

	assert.Equal(t, []string{
		"error: Failed to add comment",
		"error: Failed to update comment",
		"error: Failed to delete comment",
	}, ts.got)
}

func TestThreadEditAndDelete(t *testing.T) {
	ctx := context.Background()
	th := newThread(&toasts{}, comment{ID: "1", Content: "a"}, comment{ID: "2", Content: "b"})

	got, err := th.Edit(ctx, "1", func(c comment) comment { c.Content = "guess"; return c },
		func(context.Context) (*comment, error) { return &comment{ID: "1", Content: "server"}, nil })
	require.NoError(t, err)
	assert.Equal(t, "server", got[0].Content)

	got, err = th.Delete(ctx, "1", func(context.Context) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, []comment{{ID: "2", Content: "b"}}, got)
}

func TestThreadOverlappingAdds(t *testing.T) {
	ctx := context.Background()
	var ts toasts
	th := newThread(&ts, comment{ID: "1", Content: "old"})

	release := make(chan struct{})
	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		_, err := th.Add(ctx, comment{Content: "first"}, func(context.Context) (*comment, error) {
			close(started)
			<-release
			return &comment{ID: "c1", Content: "first"}, nil
		})
		done <- err
	}()
	<-started

	got, err := th.Add(ctx, comment{Content: "second"}, func(context.Context) (*comment, error) {
		return &comment{ID: "c2", Content: "second"}, nil
	})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, comment{ID: "c2", Content: "second"}, got[0])
	assert.True(t, strings.HasPrefix(got[1].ID, TempPrefix), "first add is still pending")

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, []comment{
		{ID: "c2", Content: "second"},
		{ID: "c1", Content: "first"},
		{ID: "1", Content: "old"},
	}, th.Items())
	assert.Empty(t, ts.got)
	_, phase := th.Machine().State()
	assert.Equal(t, optimistic.Confirmed, phase)
}

func TestThreadFailedAddLeavesPendingOne(t *testing.T) {
	ctx := context.Background()
	var ts toasts
	th := newThread(&ts)

	release := make(chan struct{})
	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		_, err := th.Add(ctx, comment{Content: "kept"}, func(context.Context) (*comment, error) {
			close(started)
			<-release
			return &comment{ID: "c1", Content: "kept"}, nil
		})
		done <- err
	}()
	<-started

	got, err := th.Add(ctx, comment{Content: "lost"}, func(context.Context) (*comment, error) {
		return nil, errors.New("boom")
	})
	require.Error(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "kept", got[0].Content)
	assert.Equal(t, []string{"error: Failed to add comment"}, ts.got)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, []comment{{ID: "c1", Content: "kept"}}, th.Items())
}
