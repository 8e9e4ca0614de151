package interaction

import (
	"context"
	"errors"

	"devlink/client/backend"
	"devlink/client/optimistic"
)

// FollowStore remembers confirmed follow relationships so other views of
// the same target agree.
type FollowStore interface {
	Get(ctx context.Context, viewer, target string) (following, known bool, err error)
	Set(ctx context.Context, viewer, target string, following bool) error
}

type FollowState struct {
	Following bool `json:"isFollowing"`
	Followers int  `json:"followerCount"`
}

// FollowFunc performs a follow or unfollow on the server.
type FollowFunc func(ctx context.Context) (*backend.FollowResult, error)

type followOutcome struct {
	res     *backend.FollowResult
	already bool
}

// Follow is the follow button for one target user as seen by viewer.
type Follow struct {
	Viewer, Target string

	m        *optimistic.Machine[FollowState]
	follow   FollowFunc
	unfollow FollowFunc
	store    FollowStore
	toast    Toaster
}

func NewFollow(viewer, target string, initial FollowState, follow, unfollow FollowFunc, store FollowStore, toast Toaster) *Follow {
	if toast == nil {
		toast = NoToast
	}
	return &Follow{
		Viewer:   viewer,
		Target:   target,
		m:        optimistic.New(initial),
		follow:   follow,
		unfollow: unfollow,
		store:    store,
		toast:    toast,
	}
}

func (f *Follow) State() FollowState {
	s, _ := f.m.State()
	return s
}

func (f *Follow) Machine() *optimistic.Machine[FollowState] {
	return f.m
}

// Sync takes the follow status from the store when it knows it.
func (f *Follow) Sync(ctx context.Context) error {
	if f.store == nil {
		return nil
	}
	following, known, err := f.store.Get(ctx, f.Viewer, f.Target)
	if err != nil || !known {
		return err
	}
	s := f.State()
	if s.Following == following {
		return nil
	}
	if following {
		s.Followers++
	} else {
		s.Followers = max(s.Followers-1, 0)
	}
	return f.m.Set(FollowState{Following: following, Followers: s.Followers})
}

// Toggle follows or unfollows depending on the current state. A server
// answer saying the relationship is already in the wanted state counts as
// success and leaves the follower count as it was.
func (f *Follow) Toggle(ctx context.Context) (FollowState, error) {
	cur, phase := f.m.State()
	if phase == optimistic.Pending {
		return cur, optimistic.ErrInFlight
	}
	want := !cur.Following
	call, msg := f.follow, "Failed to follow user"
	if !want {
		call, msg = f.unfollow, "Failed to unfollow user"
	}

	s, err := optimistic.Run(ctx, f.m, optimistic.Op[FollowState, followOutcome]{
		Apply: func(s FollowState) FollowState {
			if want {
				return FollowState{Following: true, Followers: s.Followers + 1}
			}
			return FollowState{Following: false, Followers: max(s.Followers-1, 0)}
		},
		Send: func(ctx context.Context) (followOutcome, error) {
			res, err := call(ctx)
			var apiErr *backend.APIError
			if errors.As(err, &apiErr) && backend.IsAlreadyFollowState(apiErr.Message, want) {
				return followOutcome{already: true}, nil
			}
			if err != nil {
				return followOutcome{}, err
			}
			if res != nil && !res.Success && backend.IsAlreadyFollowState(res.Message, want) {
				return followOutcome{res: res, already: true}, nil
			}
			return followOutcome{res: res}, nil
		},
		Confirm: func(snap FollowState, out followOutcome) (FollowState, bool) {
			if out.already {
				return FollowState{Following: want, Followers: snap.Followers}, true
			}
			if out.res == nil || !out.res.Success {
				return snap, false
			}
			next := FollowState{Following: want, Followers: snap.Followers}
			if want {
				next.Followers++
			} else {
				next.Followers = max(next.Followers-1, 0)
			}
			if out.res.FollowerCount != nil {
				next.Followers = max(*out.res.FollowerCount, 0)
			}
			return next, true
		},
	})
	if err != nil {
		fail(f.toast, err, msg)
		return s, err
	}
	if f.store != nil {
		if err := f.store.Set(ctx, f.Viewer, f.Target, s.Following); err != nil {
			return s, err
		}
	}
	return s, nil
}
