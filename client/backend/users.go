package backend

import (
	"context"
	"net/http"
	"strings"
)

// Follow asks the backend to make the token's owner follow userID.
// An "already following" answer arrives as an *APIError or as a
// FollowResult with Success false; see IsAlreadyFollowState.
func (c *Client) Follow(ctx context.Context, token, userID string) (*FollowResult, error) {
	var out FollowResult
	if err := c.do(ctx, http.MethodPost, "/follows/"+seg(userID), token, struct{}{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Unfollow(ctx context.Context, token, userID string) (*FollowResult, error) {
	var out FollowResult
	if err := c.do(ctx, http.MethodDelete, "/follows/"+seg(userID), token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) FollowStatus(ctx context.Context, token, userID string) (bool, error) {
	var out struct {
		IsFollowing bool `json:"isFollowing"`
	}
	if err := c.do(ctx, http.MethodGet, "/follows/"+seg(userID)+"/status", token, nil, &out); err != nil {
		return false, err
	}
	return out.IsFollowing, nil
}

func (c *Client) ListFollowers(ctx context.Context, token, userID string, p PageQuery) (*Page[Author], error) {
	return c.authors(ctx, token, "/users/"+seg(userID)+"/followers", p)
}

func (c *Client) ListFollowing(ctx context.Context, token, userID string, p PageQuery) (*Page[Author], error) {
	return c.authors(ctx, token, "/users/"+seg(userID)+"/following", p)
}

func (c *Client) authors(ctx context.Context, token, path string, p PageQuery) (*Page[Author], error) {
	var out Page[Author]
	if err := c.do(ctx, http.MethodGet, withQuery(path, pageValues(p)), token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetProfile(ctx context.Context, token, username string) (*Profile, error) {
	var out Profile
	if err := c.do(ctx, http.MethodGet, "/users/"+seg(username), token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProfile(ctx context.Context, token string, in ProfileInput) (*Profile, error) {
	var out Profile
	if err := c.do(ctx, http.MethodPut, "/users/me", token, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// IsAlreadyFollowState reports whether msg is the backend telling us the
// follow relationship is already in the wanted state.
func IsAlreadyFollowState(msg string, want bool) bool {
	m := strings.ToLower(msg)
	if want {
		return strings.Contains(m, "already following")
	}
	return strings.Contains(m, "already unfollowed") ||
		strings.Contains(m, "not following")
}
