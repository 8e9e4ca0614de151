package interaction

import (
	"context"

	"devlink/client/backend"
	"devlink/client/optimistic"
)

type LikeState struct {
	Liked bool `json:"isLiked"`
	Count int  `json:"likeCount"`
}

// LikeFunc toggles the like on the server.
type LikeFunc func(ctx context.Context) (*backend.LikeResult, error)

// Like is the like button of a post, comment or reply.
type Like struct {
	m     *optimistic.Machine[LikeState]
	send  LikeFunc
	toast Toaster
}

func NewLike(initial LikeState, send LikeFunc, toast Toaster) *Like {
	if toast == nil {
		toast = NoToast
	}
	return &Like{m: optimistic.New(initial), send: send, toast: toast}
}

func (l *Like) State() LikeState {
	s, _ := l.m.State()
	return s
}

// Machine exposes the underlying state machine, e.g. to observe changes.
func (l *Like) Machine() *optimistic.Machine[LikeState] {
	return l.m
}

// Toggle flips the like. The returned state is the settled one.
func (l *Like) Toggle(ctx context.Context) (LikeState, error) {
	s, err := optimistic.Run(ctx, l.m, optimistic.Op[LikeState, *backend.LikeResult]{
		Apply:   flipLike,
		Send:    l.send,
		Confirm: confirmLike,
	})
	fail(l.toast, err, "Failed to update like")
	return s, err
}

func flipLike(s LikeState) LikeState {
	if s.Liked {
		return LikeState{Liked: false, Count: max(s.Count-1, 0)}
	}
	return LikeState{Liked: true, Count: s.Count + 1}
}

// confirmLike derives the state from what the server says it did, not from
// the optimistic guess.
func confirmLike(snap LikeState, res *backend.LikeResult) (LikeState, bool) {
	if res == nil {
		return snap, false
	}
	var next LikeState
	switch res.Action {
	case backend.ActionLiked:
		next.Liked = true
		next.Count = snap.Count
		if !snap.Liked {
			next.Count++
		}
	case backend.ActionUnliked:
		next.Count = snap.Count
		if snap.Liked {
			next.Count = max(snap.Count-1, 0)
		}
	default:
		return snap, false
	}
	if res.LikeCount != nil {
		next.Count = max(*res.LikeCount, 0)
	}
	return next, true
}
