package backend

import (
	"context"
	"net/http"
)

func (c *Client) ListPosts(ctx context.Context, token string, q PostQuery) (*Page[Post], error) {
	v := pageValues(q.PageQuery)
	if q.Tag != "" {
		v.Set("tag", q.Tag)
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	var out Page[Post]
	if err := c.do(ctx, http.MethodGet, withQuery("/posts", v), token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetPost(ctx context.Context, token, id string) (*Post, error) {
	var out Post
	if err := c.do(ctx, http.MethodGet, "/posts/"+seg(id), token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreatePost(ctx context.Context, token string, in PostInput) (*Post, error) {
	var out Post
	if err := c.do(ctx, http.MethodPost, "/posts", token, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdatePost(ctx context.Context, token, id string, in PostInput) (*Post, error) {
	var out Post
	if err := c.do(ctx, http.MethodPut, "/posts/"+seg(id), token, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeletePost(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodDelete, "/posts/"+seg(id), token, nil, nil)
}

func (c *Client) LikePost(ctx context.Context, token, id string) (*LikeResult, error) {
	return c.like(ctx, token, "/posts/"+seg(id)+"/like")
}

func (c *Client) ListComments(ctx context.Context, token, postID string, p PageQuery) (*Page[Comment], error) {
	var out Page[Comment]
	path := withQuery("/posts/"+seg(postID)+"/comments", pageValues(p))
	if err := c.do(ctx, http.MethodGet, path, token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateComment(ctx context.Context, token, postID, content string) (*Comment, error) {
	var out Comment
	body := map[string]string{"content": content}
	if err := c.do(ctx, http.MethodPost, "/posts/"+seg(postID)+"/comments", token, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateComment(ctx context.Context, token, id, content string) (*Comment, error) {
	var out Comment
	body := map[string]string{"content": content}
	if err := c.do(ctx, http.MethodPut, "/comments/"+seg(id), token, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteComment(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodDelete, "/comments/"+seg(id), token, nil, nil)
}

func (c *Client) LikeComment(ctx context.Context, token, id string) (*LikeResult, error) {
	return c.like(ctx, token, "/comments/"+seg(id)+"/like")
}

func (c *Client) ListReplies(ctx context.Context, token, commentID string, p PageQuery) (*Page[Reply], error) {
	var out Page[Reply]
	path := withQuery("/comments/"+seg(commentID)+"/replies", pageValues(p))
	if err := c.do(ctx, http.MethodGet, path, token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateReply(ctx context.Context, token, commentID, content string) (*Reply, error) {
	var out Reply
	body := map[string]string{"content": content}
	if err := c.do(ctx, http.MethodPost, "/comments/"+seg(commentID)+"/replies", token, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateReply(ctx context.Context, token, id, content string) (*Reply, error) {
	var out Reply
	body := map[string]string{"content": content}
	if err := c.do(ctx, http.MethodPut, "/replies/"+seg(id), token, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteReply(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodDelete, "/replies/"+seg(id), token, nil, nil)
}

func (c *Client) LikeReply(ctx context.Context, token, id string) (*LikeResult, error) {
	return c.like(ctx, token, "/replies/"+seg(id)+"/like")
}

func (c *Client) like(ctx context.Context, token, path string) (*LikeResult, error) {
	var out LikeResult
	if err := c.do(ctx, http.MethodPost, path, token, struct{}{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
