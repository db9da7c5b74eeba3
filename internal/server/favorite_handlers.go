// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"github.com/gofiber/fiber/v2"
)

// AddFavorite handles POST /api/posts/:id/favorite. Favoriting the same
// post twice is a no-op.
func (s *Server) AddFavorite(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID, err := s.requireUserID(c)
	if err != nil {
		return nil
	}
	postID, err := s.requireParam(c, "id", "post ID")
	if err != nil {
		return nil
	}

	if err := s.favoriteService.Add(ctx, userID, postID); err != nil {
		return RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Post added to favorites"})
}

// RemoveFavorite handles DELETE /api/posts/:id/favorite. Removing a
// post that was never favorited succeeds too.
func (s *Server) RemoveFavorite(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID, err := s.requireUserID(c)
	if err != nil {
		return nil
	}
	postID, err := s.requireParam(c, "id", "post ID")
	if err != nil {
		return nil
	}

	if err := s.favoriteService.Remove(ctx, userID, postID); err != nil {
		return RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Post removed from favorites"})
}

// GetMyFavorites handles GET /api/users/me/favorites — most recently
// favorited first.
func (s *Server) GetMyFavorites(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID, err := s.requireUserID(c)
	if err != nil {
		return nil
	}

	q := parsePageQuery(c)
	page, err := s.favoriteService.List(ctx, userID, q.Page, q.Limit)
	if err != nil {
		return RespondWithError(c, err)
	}

	return c.JSON(page)
}

// GetFavoriteStatus handles GET /api/posts/:id/favorite
func (s *Server) GetFavoriteStatus(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID, err := s.requireUserID(c)
	if err != nil {
		return nil
	}
	postID, err := s.requireParam(c, "id", "post ID")
	if err != nil {
		return nil
	}

	return c.JSON(fiber.Map{
		"post_id":      postID,
		"is_favorited": s.favoriteService.IsFavorited(ctx, userID, postID),
	})
}
