// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"quill/internal/domain"
	"quill/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID, err := s.requireUserID(c)
	if err != nil {
		return nil
	}

	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
		Excerpt string `json:"excerpt,omitempty"`
		Status  string `json:"status,omitempty"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return RespondWithError(c, service.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.Create(ctx, service.CreatePostInput{
		Title:   req.Title,
		Content: req.Content,
		Excerpt: req.Excerpt,
		Author:  userID,
		Status:  req.Status,
	})
	if err != nil {
		return RespondWithError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPosts handles GET /api/posts — published posts only, newest first.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	ctx := c.UserContext()
	q := parsePageQuery(c)

	page, err := s.postService.ListPublished(ctx, service.ListPostsInput{
		Page:   q.Page,
		Limit:  q.Limit,
		Author: c.Query("author"),
	})
	if err != nil {
		return RespondWithError(c, err)
	}

	return c.JSON(page)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	postID, err := s.requireParam(c, "id", "post ID")
	if err != nil {
		return nil
	}

	post, err := s.postService.Get(ctx, postID)
	if err != nil {
		return RespondWithError(c, err)
	}

	return c.JSON(post)
}

// GetMyPosts handles GET /api/users/me/posts — the owner's posts, drafts
// included, optionally narrowed with ?status=draft|published.
func (s *Server) GetMyPosts(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID, err := s.requireUserID(c)
	if err != nil {
		return nil
	}

	q := parsePageQuery(c)

	var status *domain.PostStatus
	switch c.Query("status") {
	case string(domain.StatusDraft):
		st := domain.StatusDraft
		status = &st
	case string(domain.StatusPublished):
		st := domain.StatusPublished
		status = &st
	}

	page, err := s.postService.ListByUser(ctx, userID, service.ListPostsInput{
		Page:  q.Page,
		Limit: q.Limit,
	}, status)
	if err != nil {
		return RespondWithError(c, err)
	}

	return c.JSON(page)
}

// UpdatePost handles PUT /api/posts/:id. Absent fields are left as-is.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID, err := s.requireUserID(c)
	if err != nil {
		return nil
	}
	postID, err := s.requireParam(c, "id", "post ID")
	if err != nil {
		return nil
	}

	var req struct {
		Title   *string `json:"title"`
		Content *string `json:"content"`
		Excerpt *string `json:"excerpt"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return RespondWithError(c, service.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.Update(ctx, service.UpdatePostInput{
		PostID:  postID,
		UserID:  userID,
		Title:   req.Title,
		Content: req.Content,
		Excerpt: req.Excerpt,
	})
	if err != nil {
		return RespondWithError(c, err)
	}

	return c.JSON(post)
}

// PublishPost handles POST /api/posts/:id/publish
func (s *Server) PublishPost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID, err := s.requireUserID(c)
	if err != nil {
		return nil
	}
	postID, err := s.requireParam(c, "id", "post ID")
	if err != nil {
		return nil
	}

	post, err := s.postService.Publish(ctx, postID, userID)
	if err != nil {
		return RespondWithError(c, err)
	}

	return c.JSON(post)
}

// UnpublishPost handles POST /api/posts/:id/unpublish
func (s *Server) UnpublishPost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID, err := s.requireUserID(c)
	if err != nil {
		return nil
	}
	postID, err := s.requireParam(c, "id", "post ID")
	if err != nil {
		return nil
	}

	post, err := s.postService.Unpublish(ctx, postID, userID)
	if err != nil {
		return RespondWithError(c, err)
	}

	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID, err := s.requireUserID(c)
	if err != nil {
		return nil
	}
	postID, err := s.requireParam(c, "id", "post ID")
	if err != nil {
		return nil
	}

	if err := s.postService.Delete(ctx, postID, userID); err != nil {
		return RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Post deleted successfully"})
}
