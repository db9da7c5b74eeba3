// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"quill/internal/middleware"
	"quill/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/users/me. The profile is created on
// first sight of a verified identity.
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	ctx := c.UserContext()
	identity, ok := middleware.IdentityFromLocals(c)
	if !ok {
		return RespondWithError(c, service.NewAuthenticationError("Authorization required"))
	}

	user, err := s.userService.GetOrCreate(ctx, service.GetOrCreateUserInput{
		UID:         identity.UID,
		Email:       identity.Email,
		IsAnonymous: identity.IsAnonymous,
	})
	if err != nil {
		return RespondWithError(c, err)
	}

	return c.JSON(user)
}

// UpdateMyProfile handles PUT /api/users/me. Absent fields are left
// untouched; empty bio or avatar clears them.
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID, err := s.requireUserID(c)
	if err != nil {
		return nil
	}

	var req struct {
		DisplayName *string `json:"display_name"`
		Bio         *string `json:"bio"`
		AvatarURL   *string `json:"avatar_url"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return RespondWithError(c, service.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(ctx, userID, service.UpdateProfileInput{
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
		AvatarURL:   req.AvatarURL,
	})
	if err != nil {
		return RespondWithError(c, err)
	}

	return c.JSON(user)
}

// PromoteMe handles POST /api/users/me/promote — anonymous to
// authenticated, keeping the same UID so prior content stays owned.
func (s *Server) PromoteMe(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID, err := s.requireUserID(c)
	if err != nil {
		return nil
	}

	var req struct {
		Email       string `json:"email"`
		DisplayName string `json:"display_name"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return RespondWithError(c, service.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.Promote(ctx, userID, req.Email, req.DisplayName)
	if err != nil {
		return RespondWithError(c, err)
	}

	return c.JSON(user)
}
