package actions

import (
	"context"

	"devlink/client/backend"
	"devlink/internal/validate"
)

type CommentInput struct {
	Content string `json:"content"`
}

func (s *Service) ListPosts(ctx context.Context, q backend.PostQuery) Result {
	return read(ctx, s, "list-posts", "Failed to load posts", func(tok string) (*backend.Page[backend.Post], error) {
		return s.api.ListPosts(ctx, tok, q)
	})
}

func (s *Service) GetPost(ctx context.Context, id string) Result {
	return read(ctx, s, "get-post", "Post not found", func(tok string) (*backend.Post, error) {
		return s.api.GetPost(ctx, tok, id)
	})
}

func (s *Service) CreatePost(ctx context.Context, in backend.PostInput) Result {
	if fe := validate.Post.Check(in); fe != nil {
		return s.invalid("create-post", fe)
	}
	return mutate(ctx, s, "create-post", "Post created", "Failed to create post", func(tok string) (*backend.Post, error) {
		return s.api.CreatePost(ctx, tok, in)
	})
}

func (s *Service) UpdatePost(ctx context.Context, id string, in backend.PostInput) Result {
	if fe := validate.Post.Check(in); fe != nil {
		return s.invalid("update-post", fe)
	}
	return mutate(ctx, s, "update-post", "Post updated", "Failed to update post", func(tok string) (*backend.Post, error) {
		return s.api.UpdatePost(ctx, tok, id, in)
	})
}

func (s *Service) DeletePost(ctx context.Context, id string) Result {
	return mutate(ctx, s, "delete-post", "Post deleted", "Failed to delete post", func(tok string) (any, error) {
		return nil, s.api.DeletePost(ctx, tok, id)
	})
}

// LikePost toggles the like. The data is the backend's authoritative
// action, which clients reconcile their optimistic state against.
func (s *Service) LikePost(ctx context.Context, id string) Result {
	return mutate(ctx, s, "like-post", "", "Failed to update like", func(tok string) (*backend.LikeResult, error) {
		return s.api.LikePost(ctx, tok, id)
	})
}

func (s *Service) ListComments(ctx context.Context, postID string, p backend.PageQuery) Result {
	return read(ctx, s, "list-comments", "Failed to load comments", func(tok string) (*backend.Page[backend.Comment], error) {
		return s.api.ListComments(ctx, tok, postID, p)
	})
}

func (s *Service) CreateComment(ctx context.Context, postID string, in CommentInput) Result {
	if fe := validate.Comment.Check(in); fe != nil {
		return s.invalid("create-comment", fe)
	}
	return mutate(ctx, s, "create-comment", "Comment added", "Failed to add comment", func(tok string) (*backend.Comment, error) {
		return s.api.CreateComment(ctx, tok, postID, in.Content)
	})
}

func (s *Service) UpdateComment(ctx context.Context, id string, in CommentInput) Result {
	if fe := validate.Comment.Check(in); fe != nil {
		return s.invalid("update-comment", fe)
	}
	return mutate(ctx, s, "update-comment", "Comment updated", "Failed to update comment", func(tok string) (*backend.Comment, error) {
		return s.api.UpdateComment(ctx, tok, id, in.Content)
	})
}

func (s *Service) DeleteComment(ctx context.Context, id string) Result {
	return mutate(ctx, s, "delete-comment", "Comment deleted", "Failed to delete comment", func(tok string) (any, error) {
		return nil, s.api.DeleteComment(ctx, tok, id)
	})
}

func (s *Service) LikeComment(ctx context.Context, id string) Result {
	return mutate(ctx, s, "like-comment", "", "Failed to update like", func(tok string) (*backend.LikeResult, error) {
		return s.api.LikeComment(ctx, tok, id)
	})
}

func (s *Service) ListReplies(ctx context.Context, commentID string, p backend.PageQuery) Result {
	return read(ctx, s, "list-replies", "Failed to load replies", func(tok string) (*backend.Page[backend.Reply], error) {
		return s.api.ListReplies(ctx, tok, commentID, p)
	})
}

func (s *Service) CreateReply(ctx context.Context, commentID string, in CommentInput) Result {
	if fe := validate.Comment.Check(in); fe != nil {
		return s.invalid("create-reply", fe)
	}
	return mutate(ctx, s, "create-reply", "Reply added", "Failed to add reply", func(tok string) (*backend.Reply, error) {
		return s.api.CreateReply(ctx, tok, commentID, in.Content)
	})
}

func (s *Service) UpdateReply(ctx context.Context, id string, in CommentInput) Result {
	if fe := validate.Comment.Check(in); fe != nil {
		return s.invalid("update-reply", fe)
	}
	return mutate(ctx, s, "update-reply", "Reply updated", "Failed to update reply", func(tok string) (*backend.Reply, error) {
		return s.api.UpdateReply(ctx, tok, id, in.Content)
	})
}

func (s *Service) DeleteReply(ctx context.Context, id string) Result {
	return mutate(ctx, s, "delete-reply", "Reply deleted", "Failed to delete reply", func(tok string) (any, error) {
		return nil, s.api.DeleteReply(ctx, tok, id)
	})
}

func (s *Service) LikeReply(ctx context.Context, id string) Result {
	return mutate(ctx, s, "like-reply", "", "Failed to update like", func(tok string) (*backend.LikeResult, error) {
		return s.api.LikeReply(ctx, tok, id)
	})
}
