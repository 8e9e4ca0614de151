package actions

import (
	"context"
	"errors"
	"net/http"

	"devlink/client/backend"
	"devlink/internal/notify"
	"devlink/internal/session"
	"devlink/internal/validate"
)

// FollowData is the data of the follow actions.
type FollowData struct {
	IsFollowing   bool `json:"isFollowing"`
	FollowerCount *int `json:"followerCount,omitempty"`
	// Already is true when the backend reported the relationship was
	// already in the requested state.
	Already bool `json:"already,omitempty"`
}

func (s *Service) Follow(ctx context.Context, userID string) Result {
	return s.setFollow(ctx, "follow", userID, true)
}

func (s *Service) Unfollow(ctx context.Context, userID string) Result {
	return s.setFollow(ctx, "unfollow", userID, false)
}

// setFollow is idempotent: a backend answer saying the relationship is
// already in the wanted state is a success that re-asserts it.
func (s *Service) setFollow(ctx context.Context, action, userID string, want bool) Result {
	sess, ok := session.FromContext(ctx)
	if !ok {
		return s.unauthenticated(action)
	}
	if userID == "" || userID == sess.User.ID {
		s.metrics.FailedActions.WithLabelValues(action).Inc()
		return Result{Message: "You cannot follow yourself"}
	}

	call := s.api.Follow
	if !want {
		call = s.api.Unfollow
	}
	res, err := call(ctx, sess.AccessToken, userID)

	var apiErr *backend.APIError
	switch {
	case errors.As(err, &apiErr) && backend.IsAlreadyFollowState(apiErr.Message, want):
		return s.followed(ctx, action, sess.User.ID, userID, want, apiErr.Message, FollowData{IsFollowing: want, Already: true})
	case err != nil:
		return s.failSession(ctx, action, err, "Failed to "+action+" user")
	case !res.Success && backend.IsAlreadyFollowState(res.Message, want):
		return s.followed(ctx, action, sess.User.ID, userID, want, res.Message, FollowData{IsFollowing: want, Already: true})
	case !res.Success:
		s.metrics.FailedActions.WithLabelValues(action).Inc()
		return Result{Message: orDefault(res.Message, "Failed to "+action+" user")}
	}
	s.metrics.FollowRequests.WithLabelValues(action).Inc()
	return s.followed(ctx, action, sess.User.ID, userID, want, res.Message,
		FollowData{IsFollowing: want, FollowerCount: res.FollowerCount})
}

func (s *Service) followed(ctx context.Context, action, viewer, target string, want bool, msg string, data FollowData) Result {
	if err := s.follows.Set(ctx, viewer, target, want); err != nil {
		s.logFor(ctx, action).WithError(err).Warn("Failed to update follow store")
	}
	if msg == "" {
		msg = "Followed"
		if !want {
			msg = "Unfollowed"
		}
	}
	return s.ok(action, msg, data)
}

// FollowStatus asks the backend and falls back to the follow store when the
// backend is unavailable.
func (s *Service) FollowStatus(ctx context.Context, userID string) Result {
	const action = "follow-status"
	sess, ok := session.FromContext(ctx)
	if !ok {
		return s.unauthenticated(action)
	}
	following, err := s.api.FollowStatus(ctx, sess.AccessToken, userID)
	if err != nil {
		cached, known, cerr := s.follows.Get(ctx, sess.User.ID, userID)
		if cerr != nil || !known {
			return s.failSession(ctx, action, err, "Failed to load follow status")
		}
		s.logFor(ctx, action).WithError(err).Info("Serving cached follow status")
		return s.ok(action, "", FollowData{IsFollowing: cached})
	}
	if err := s.follows.Set(ctx, sess.User.ID, userID, following); err != nil {
		s.logFor(ctx, action).WithError(err).Warn("Failed to update follow store")
	}
	return s.ok(action, "", FollowData{IsFollowing: following})
}

func (s *Service) ListFollowers(ctx context.Context, userID string, p backend.PageQuery) Result {
	return read(ctx, s, "list-followers", "Failed to load followers", func(tok string) (*backend.Page[backend.Author], error) {
		return s.api.ListFollowers(ctx, tok, userID, p)
	})
}

func (s *Service) ListFollowing(ctx context.Context, userID string, p backend.PageQuery) Result {
	return read(ctx, s, "list-following", "Failed to load following", func(tok string) (*backend.Page[backend.Author], error) {
		return s.api.ListFollowing(ctx, tok, userID, p)
	})
}

// GetProfile loads a profile. For a signed-in viewer the follow status is
// recorded in the follow store.
func (s *Service) GetProfile(ctx context.Context, username string) Result {
	const action = "get-profile"
	p, err := s.api.GetProfile(ctx, token(ctx), username)
	if err != nil {
		if token(ctx) != "" {
			return s.failSession(ctx, action, err, "Profile not found")
		}
		return s.fail(ctx, action, err, "Profile not found")
	}
	if sess, ok := session.FromContext(ctx); ok && sess.User.ID != p.ID {
		if err := s.follows.Set(ctx, sess.User.ID, p.ID, p.IsFollowing); err != nil {
			s.logFor(ctx, action).WithError(err).Warn("Failed to update follow store")
		}
	}
	return s.ok(action, "", p)
}

// UpdateProfile saves the profile and patches the cached session user so
// the new name and avatar show up immediately.
func (s *Service) UpdateProfile(w http.ResponseWriter, r *http.Request, in backend.ProfileInput) Result {
	const action = "update-profile"
	ctx := r.Context()
	if fe := validate.Profile.Check(in); fe != nil {
		return s.invalid(action, fe)
	}
	sess, ok := session.FromContext(ctx)
	if !ok {
		return s.unauthenticated(action)
	}
	p, err := s.api.UpdateProfile(ctx, sess.AccessToken, in)
	if err != nil {
		return s.failSession(ctx, action, err, "Failed to update profile")
	}
	if _, err := s.sessions.Update(w, sess, func(u *session.UserInfo) {
		u.Name = p.Name
		u.Image = p.Image
	}); err != nil {
		s.logFor(ctx, action).WithError(err).Error("Failed to update session after profile change")
	}
	return s.ok(action, "Profile updated", p)
}

// ListNotifications returns a page of notifications with their link and
// display text.
func (s *Service) ListNotifications(ctx context.Context, p backend.PageQuery) Result {
	return mutate(ctx, s, "list-notifications", "", "Failed to load notifications", func(tok string) (*backend.Page[notify.Message], error) {
		page, err := s.api.ListNotifications(ctx, tok, p)
		if err != nil {
			return nil, err
		}
		out := &backend.Page[notify.Message]{
			Items: make([]notify.Message, len(page.Items)),
			Total: page.Total,
			Page:  page.Page,
			Limit: page.Limit,
		}
		for i, n := range page.Items {
			out.Items[i] = notify.NewMessage(n)
		}
		return out, nil
	})
}

func (s *Service) MarkNotificationRead(ctx context.Context, id string) Result {
	return mutate(ctx, s, "mark-notification-read", "", "Failed to update notification", func(tok string) (any, error) {
		return nil, s.api.MarkNotificationRead(ctx, tok, id)
	})
}

func (s *Service) MarkAllNotificationsRead(ctx context.Context) Result {
	return mutate(ctx, s, "mark-all-notifications-read", "All notifications marked as read", "Failed to update notifications", func(tok string) (any, error) {
		return nil, s.api.MarkAllNotificationsRead(ctx, tok)
	})
}
