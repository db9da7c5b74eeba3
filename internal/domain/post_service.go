package domain

import (
	"context"
	"time"
)

const (
	defaultPostPageLimit = 10
	maxPostPageLimit     = 50
)

// PostService wraps the post repository with the business rules that do
// not belong on the entity itself.
type PostService struct {
	repo PostRepository
	now  func() time.Time
}

// NewPostService builds a PostService. A nil clock falls back to
// time.Now.
func NewPostService(repo PostRepository, now func() time.Time) *PostService {
	if now == nil {
		now = time.Now
	}
	return &PostService{repo: repo, now: now}
}

// CreatePost validates through the entity factory and persists. When
// publish is set the post goes out published immediately.
func (s *PostService) CreatePost(ctx context.Context, title, content, excerpt, author string, publish bool) (*BlogPost, error) {
	post, err := NewBlogPost(title, content, excerpt, author, s.now)
	if err != nil {
		return nil, err
	}
	if publish {
		if err := post.Publish(s.now); err != nil {
			return nil, err
		}
	}
	return s.repo.Save(ctx, post)
}

// GetPostByID fails with a NotFoundError when the post is absent.
func (s *PostService) GetPostByID(ctx context.Context, postID string) (*BlogPost, error) {
	post, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, NewPostNotFoundError(postID)
	}
	return post, nil
}

// UpdatePost applies a partial content update on behalf of userID.
func (s *PostService) UpdatePost(ctx context.Context, postID, userID string, title, content, excerpt *string) (*BlogPost, error) {
	post, err := s.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !post.CanBeUpdatedBy(userID) {
		return nil, NewUnauthorizedError("user not authorized to update this post")
	}
	if err := post.UpdateContent(title, content, excerpt, s.now); err != nil {
		return nil, err
	}
	return s.repo.Save(ctx, post)
}

// PublishPost flips a draft to published.
func (s *PostService) PublishPost(ctx context.Context, postID, userID string) (*BlogPost, error) {
	post, err := s.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !post.CanBeUpdatedBy(userID) {
		return nil, NewUnauthorizedError("user not authorized to publish this post")
	}
	if err := post.Publish(s.now); err != nil {
		return nil, err
	}
	return s.repo.Save(ctx, post)
}

// UnpublishPost returns a published post to draft.
func (s *PostService) UnpublishPost(ctx context.Context, postID, userID string) (*BlogPost, error) {
	post, err := s.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !post.CanBeUpdatedBy(userID) {
		return nil, NewUnauthorizedError("user not authorized to unpublish this post")
	}
	if err := post.Unpublish(s.now); err != nil {
		return nil, err
	}
	return s.repo.Save(ctx, post)
}

// DeletePost removes the post after the ownership check. Comments on the
// post are left behind.
func (s *PostService) DeletePost(ctx context.Context, postID, userID string) error {
	post, err := s.GetPostByID(ctx, postID)
	if err != nil {
		return err
	}
	if !post.CanBeDeletedBy(userID) {
		return NewUnauthorizedError("user not authorized to delete this post")
	}
	return s.repo.Delete(ctx, postID)
}

// GetPublishedPosts returns one page of the public listing plus the
// total published count. Out-of-range page and limit values are clamped
// silently; a public listing should not 400 on a sloppy query string.
func (s *PostService) GetPublishedPosts(ctx context.Context, page, limit int, author string) ([]*BlogPost, int, error) {
	page, limit = ClampPostPaging(page, limit)
	posts, err := s.repo.FindPublished(ctx, page, limit, author)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountPublished(ctx, author)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// GetPostsByAuthor returns all of an author's posts, optionally filtered
// by status, newest-first.
func (s *PostService) GetPostsByAuthor(ctx context.Context, author string, status *PostStatus) ([]*BlogPost, error) {
	return s.repo.FindByAuthor(ctx, author, status)
}

// GetPostsByAuthorPaged is the windowed variant, with the total count
// for pagination metadata.
func (s *PostService) GetPostsByAuthorPaged(ctx context.Context, author string, page, limit int, status *PostStatus) ([]*BlogPost, int, error) {
	page, limit = ClampPostPaging(page, limit)
	posts, err := s.repo.FindByAuthorPaged(ctx, author, page, limit, status)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountByAuthor(ctx, author, status)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// ClampPostPaging normalizes page to >=1 and limit to [1,50], defaulting
// to 10 on out-of-range input. Exported so the application layer can
// report the effective values in pagination metadata.
func ClampPostPaging(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxPostPageLimit {
		limit = defaultPostPageLimit
	}
	return page, limit
}
