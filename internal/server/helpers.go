// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"errors"

	"quill/internal/middleware"
	"quill/internal/service"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// PageQuery holds parsed page/limit query parameters. Values are passed
// through raw; the application services clamp them.
type PageQuery struct {
	Page  int
	Limit int
}

// parsePageQuery extracts page and limit query parameters. Absent or
// malformed values come back as zero so the services apply defaults.
func parsePageQuery(c *fiber.Ctx) PageQuery {
	return PageQuery{
		Page:  c.QueryInt("page", 0),
		Limit: c.QueryInt("limit", 0),
	}
}

// statusForKind maps application error kinds onto HTTP status codes.
func statusForKind(kind service.ErrorKind) int {
	switch kind {
	case service.KindValidation:
		return fiber.StatusBadRequest
	case service.KindAuthentication:
		return fiber.StatusUnauthorized
	case service.KindForbidden:
		return fiber.StatusForbidden
	case service.KindNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// RespondWithError writes the JSON error envelope for an application
// error. Unknown error types are masked as a generic 500 so internals
// never leak to clients.
func RespondWithError(c *fiber.Ctx, err error) error {
	var appErr *service.AppError
	if errors.As(err, &appErr) {
		return c.Status(statusForKind(appErr.Kind)).JSON(fiber.Map{
			"error": appErr.Message,
			"code":  string(appErr.Kind),
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "internal server error",
		"code":  string(service.KindApplication),
	})
}

// requireUserID pulls the verified UID out of locals. On a missing or
// malformed value it writes a 401 and returns errResponseWritten;
// callers should check: if err != nil { return nil }.
func (s *Server) requireUserID(c *fiber.Ctx) (string, error) {
	uid, ok := c.Locals(middleware.LocalsUserID).(string)
	if !ok || uid == "" {
		_ = RespondWithError(c, service.NewAuthenticationError("Authorization required"))
		return "", errResponseWritten
	}
	return uid, nil
}

// requireParam extracts a non-empty route parameter. On failure it
// writes a 400 and returns errResponseWritten.
func (s *Server) requireParam(c *fiber.Ctx, name, label string) (string, error) {
	value := c.Params(name)
	if value == "" {
		_ = RespondWithError(c, service.NewValidationError("Invalid "+label))
		return "", errResponseWritten
	}
	return value, nil
}
