package backend

import (
	"context"
	"net/http"
)

func (c *Client) ListNotifications(ctx context.Context, token string, p PageQuery) (*Page[Notification], error) {
	var out Page[Notification]
	if err := c.do(ctx, http.MethodGet, withQuery("/notifications", pageValues(p)), token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) MarkNotificationRead(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodPatch, "/notifications/"+seg(id)+"/read", token, struct{}{}, nil)
}

func (c *Client) MarkAllNotificationsRead(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPatch, "/notifications/read-all", token, struct{}{}, nil)
}
