// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"quill/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateComment handles POST /api/posts/:id/comments. The realtime
// fan-out happens behind the response inside the comment service.
func (s *Server) CreateComment(c *fiber.Ctx) error {
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
		Content string `json:"content"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return RespondWithError(c, service.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.Create(ctx, service.CreateCommentInput{
		Content: req.Content,
		UserID:  userID,
		PostID:  postID,
	})
	if err != nil {
		return RespondWithError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetComments handles GET /api/posts/:id/comments — oldest first.
func (s *Server) GetComments(c *fiber.Ctx) error {
	ctx := c.UserContext()
	postID, err := s.requireParam(c, "id", "post ID")
	if err != nil {
		return nil
	}

	comments, err := s.commentService.ListByPost(ctx, postID, c.QueryInt("limit", 0))
	if err != nil {
		return RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{
		"data":  comments,
		"count": len(comments),
	})
}

// UpdateComment handles PUT /api/comments/:id
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID, err := s.requireUserID(c)
	if err != nil {
		return nil
	}
	commentID, err := s.requireParam(c, "id", "comment ID")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return RespondWithError(c, service.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.Update(ctx, commentID, userID, req.Content)
	if err != nil {
		return RespondWithError(c, err)
	}

	return c.JSON(comment)
}

// DeleteComment handles DELETE /api/comments/:id
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID, err := s.requireUserID(c)
	if err != nil {
		return nil
	}
	commentID, err := s.requireParam(c, "id", "comment ID")
	if err != nil {
		return nil
	}

	if err := s.commentService.Delete(ctx, commentID, userID); err != nil {
		return RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Comment deleted successfully"})
}
