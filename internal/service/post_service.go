package service

import (
	"context"

	"quill/internal/domain"
)

// PostService is the application service for blog posts.
type PostService struct {
	posts *domain.PostService
}

// CreatePostInput is the payload for creating a post.
type CreatePostInput struct {
	Title   string
	Content string
	Excerpt string
	Author  string
	Status  string
}

// UpdatePostInput is the payload for a partial post update. Nil fields
// are left untouched.
type UpdatePostInput struct {
	PostID  string
	UserID  string
	Title   *string
	Content *string
	Excerpt *string
}

// ListPostsInput selects one page of a post listing.
type ListPostsInput struct {
	Page   int
	Limit  int
	Author string
}

// NewPostService builds the application service over the domain service.
func NewPostService(posts *domain.PostService) *PostService {
	return &PostService{posts: posts}
}

// Create makes a new post, published immediately when Status says so.
func (s *PostService) Create(ctx context.Context, in CreatePostInput) (*domain.BlogPost, error) {
	publish := in.Status == string(domain.StatusPublished)
	post, err := s.posts.CreatePost(ctx, in.Title, in.Content, in.Excerpt, in.Author, publish)
	if err != nil {
		return nil, translateError(err, "failed to create post")
	}
	return post, nil
}

// Get returns a post by id.
func (s *PostService) Get(ctx context.Context, postID string) (*domain.BlogPost, error) {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, translateError(err, "failed to get post")
	}
	return post, nil
}

// Update applies a partial content update on behalf of the acting user.
func (s *PostService) Update(ctx context.Context, in UpdatePostInput) (*domain.BlogPost, error) {
	post, err := s.posts.UpdatePost(ctx, in.PostID, in.UserID, in.Title, in.Content, in.Excerpt)
	if err != nil {
		return nil, translateError(err, "failed to update post")
	}
	return post, nil
}

// Publish flips a draft post to published.
func (s *PostService) Publish(ctx context.Context, postID, userID string) (*domain.BlogPost, error) {
	post, err := s.posts.PublishPost(ctx, postID, userID)
	if err != nil {
		return nil, translateError(err, "failed to publish post")
	}
	return post, nil
}

// Unpublish returns a published post to draft.
func (s *PostService) Unpublish(ctx context.Context, postID, userID string) (*domain.BlogPost, error) {
	post, err := s.posts.UnpublishPost(ctx, postID, userID)
	if err != nil {
		return nil, translateError(err, "failed to unpublish post")
	}
	return post, nil
}

// Delete removes a post on behalf of the acting user.
func (s *PostService) Delete(ctx context.Context, postID, userID string) error {
	if err := s.posts.DeletePost(ctx, postID, userID); err != nil {
		return translateError(err, "failed to delete post")
	}
	return nil
}

// ListPublished returns one page of the public listing.
func (s *PostService) ListPublished(ctx context.Context, in ListPostsInput) (*PostPage, error) {
	page, limit := domain.ClampPostPaging(in.Page, in.Limit)
	posts, total, err := s.posts.GetPublishedPosts(ctx, page, limit, in.Author)
	if err != nil {
		return nil, translateError(err, "failed to list posts")
	}
	return &PostPage{
		Data:       posts,
		Pagination: NewPagination(page, limit, total),
	}, nil
}

// ListByUser returns one page of the owner's posts, drafts included,
// optionally narrowed to a single status.
func (s *PostService) ListByUser(ctx context.Context, author string, in ListPostsInput, status *domain.PostStatus) (*PostPage, error) {
	page, limit := domain.ClampPostPaging(in.Page, in.Limit)
	posts, total, err := s.posts.GetPostsByAuthorPaged(ctx, author, page, limit, status)
	if err != nil {
		return nil, translateError(err, "failed to list posts by user")
	}
	return &PostPage{
		Data:       posts,
		Pagination: NewPagination(page, limit, total),
	}, nil
}
