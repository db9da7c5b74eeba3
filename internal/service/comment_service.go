package service

import (
	"context"

	"quill/internal/domain"
	"quill/internal/observability"
	"quill/internal/realtime"
)

// broadcastListLimit caps the refreshed thread that is fanned out after
// a comment is created.
const broadcastListLimit = 100

// CommentService is the application service for comments. Creation
// triggers the realtime fan-out after persistence has succeeded; the
// caller's response never depends on delivery.
type CommentService struct {
	comments    *domain.CommentService
	broadcaster *realtime.Broadcaster
}

// CreateCommentInput is the payload for creating a comment.
type CreateCommentInput struct {
	Content string
	UserID  string
	PostID  string
}

// NewCommentService builds the application service. A nil broadcaster
// disables the fan-out, which tests use.
func NewCommentService(comments *domain.CommentService, broadcaster *realtime.Broadcaster) *CommentService {
	return &CommentService{comments: comments, broadcaster: broadcaster}
}

// Create persists a comment and then fans it out to realtime
// subscribers. Broadcast runs detached from the request: its failures
// are logged and swallowed, never surfaced to the caller.
func (s *CommentService) Create(ctx context.Context, in CreateCommentInput) (*domain.Comment, error) {
	comment, err := s.comments.CreateComment(ctx, in.Content, in.UserID, in.PostID)
	if err != nil {
		return nil, translateError(err, "failed to create comment")
	}

	if s.broadcaster != nil {
		go s.broadcastAfterCreate(comment)
	}
	return comment, nil
}

func (s *CommentService) broadcastAfterCreate(comment *domain.Comment) {
	// Detached from the request context: the HTTP response has already
	// been decided by the time this runs.
	ctx := context.Background()
	s.broadcaster.BroadcastComment(ctx, comment.PostID, comment)

	thread, err := s.comments.GetCommentsByPost(ctx, comment.PostID, broadcastListLimit)
	if err != nil {
		observability.GlobalLogger.Error("failed to load thread for broadcast",
			"post_id", comment.PostID, "error", err.Error())
		return
	}
	s.broadcaster.BroadcastCommentsList(ctx, comment.PostID, thread)
}

// ListByPost returns a post's comments oldest-first.
func (s *CommentService) ListByPost(ctx context.Context, postID string, limit int) ([]*domain.Comment, error) {
	comments, err := s.comments.GetCommentsByPost(ctx, postID, limit)
	if err != nil {
		return nil, translateError(err, "failed to list comments")
	}
	return comments, nil
}

// Update replaces a comment body on behalf of the acting user.
func (s *CommentService) Update(ctx context.Context, commentID, userID, content string) (*domain.Comment, error) {
	comment, err := s.comments.UpdateComment(ctx, commentID, userID, content)
	if err != nil {
		return nil, translateError(err, "failed to update comment")
	}
	return comment, nil
}

// Delete removes a comment on behalf of the acting user.
func (s *CommentService) Delete(ctx context.Context, commentID, userID string) error {
	if err := s.comments.DeleteComment(ctx, commentID, userID); err != nil {
		return translateError(err, "failed to delete comment")
	}
	return nil
}
