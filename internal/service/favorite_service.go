package service

import (
	"context"

	"quill/internal/domain"
)

// FavoriteService coordinates the favorite relation with the post store.
type FavoriteService struct {
	favorites domain.FavoriteRepository
	posts     domain.PostRepository
}

// NewFavoriteService builds the favorites application service.
func NewFavoriteService(favorites domain.FavoriteRepository, posts domain.PostRepository) *FavoriteService {
	return &FavoriteService{favorites: favorites, posts: posts}
}

// Add favorites a post for the user. Favoriting twice is a no-op; a
// missing post is a not-found error.
func (s *FavoriteService) Add(ctx context.Context, userID, postID string) error {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return NewApplicationError("failed to add favorite", err)
	}
	if post == nil {
		return NewNotFoundError("blog post not found")
	}
	if err := s.favorites.Add(ctx, userID, postID); err != nil {
		return NewApplicationError("failed to add favorite", err)
	}
	return nil
}

// Remove unfavorites a post. Removing a pair that was never favorited is
// not an error.
func (s *FavoriteService) Remove(ctx context.Context, userID, postID string) error {
	if err := s.favorites.Remove(ctx, userID, postID); err != nil {
		return NewApplicationError("failed to remove favorite", err)
	}
	return nil
}

// List returns one page of the user's favorited posts. Recency is
// approximated by reversing insertion order; the store does not track a
// favorited-at timestamp. Ids whose post has since been deleted are
// dropped from the page, but still count toward the total.
func (s *FavoriteService) List(ctx context.Context, userID string, page, limit int) (*PostPage, error) {
	page, limit = domain.ClampPostPaging(page, limit)

	ids, err := s.favorites.List(ctx, userID)
	if err != nil {
		return nil, NewApplicationError("failed to get favorites", err)
	}

	reversed := make([]string, len(ids))
	for i, id := range ids {
		reversed[len(ids)-1-i] = id
	}

	start := (page - 1) * limit
	var pageIDs []string
	if start < len(reversed) {
		end := start + limit
		if end > len(reversed) {
			end = len(reversed)
		}
		pageIDs = reversed[start:end]
	}

	posts := make([]*domain.BlogPost, 0, len(pageIDs))
	for _, id := range pageIDs {
		post, err := s.posts.FindByID(ctx, id)
		if err != nil {
			return nil, NewApplicationError("failed to get favorites", err)
		}
		if post != nil {
			posts = append(posts, post)
		}
	}

	return &PostPage{
		Data:       posts,
		Pagination: NewPagination(page, limit, len(ids)),
	}, nil
}

// IsFavorited reports whether the user has favorited the post. Storage
// errors degrade to false.
func (s *FavoriteService) IsFavorited(ctx context.Context, userID, postID string) bool {
	favorited, err := s.favorites.IsFavorited(ctx, userID, postID)
	if err != nil {
		return false
	}
	return favorited
}
