package domain

import (
	"context"
	"time"
)

const (
	defaultCommentLimit = 10
	maxCommentLimit     = 100
)

// CommentService wraps the comment repository with the parent-post
// existence check and ownership rules.
type CommentService struct {
	comments CommentRepository
	posts    PostRepository
	now      func() time.Time
}

// NewCommentService builds a CommentService. A nil clock falls back to
// time.Now.
func NewCommentService(comments CommentRepository, posts PostRepository, now func() time.Time) *CommentService {
	if now == nil {
		now = time.Now
	}
	return &CommentService{comments: comments, posts: posts, now: now}
}

// CreateComment verifies the parent post exists, then validates through
// the entity factory and persists. Nothing is persisted when the post is
// absent.
func (s *CommentService) CreateComment(ctx context.Context, content, userID, postID string) (*Comment, error) {
	exists, err := s.posts.ExistsByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, NewPostNotFoundError(postID)
	}
	comment, err := NewComment(content, userID, postID, s.now)
	if err != nil {
		return nil, err
	}
	return s.comments.Save(ctx, comment)
}

// GetCommentsByPost returns a post's comments oldest-first. The limit is
// clamped to [1,100] with a default of 10.
func (s *CommentService) GetCommentsByPost(ctx context.Context, postID string, limit int) ([]*Comment, error) {
	exists, err := s.posts.ExistsByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, NewPostNotFoundError(postID)
	}
	if limit < 1 || limit > maxCommentLimit {
		limit = defaultCommentLimit
	}
	return s.comments.FindByPostID(ctx, postID, limit)
}

// GetCommentsByAuthor returns a user's comments newest-first.
func (s *CommentService) GetCommentsByAuthor(ctx context.Context, author string) ([]*Comment, error) {
	return s.comments.FindByAuthor(ctx, author)
}

// UpdateComment replaces the body after the ownership check.
func (s *CommentService) UpdateComment(ctx context.Context, commentID, userID, content string) (*Comment, error) {
	comment, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, NewCommentNotFoundError(commentID)
	}
	if !comment.CanBeUpdatedBy(userID) {
		return nil, NewUnauthorizedError("user not authorized to update this comment")
	}
	if err := comment.UpdateContent(content); err != nil {
		return nil, err
	}
	return s.comments.Save(ctx, comment)
}

// DeleteComment removes the comment after the ownership check.
func (s *CommentService) DeleteComment(ctx context.Context, commentID, userID string) error {
	comment, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return NewCommentNotFoundError(commentID)
	}
	if !comment.CanBeDeletedBy(userID) {
		return NewUnauthorizedError("user not authorized to delete this comment")
	}
	return s.comments.Delete(ctx, commentID)
}
