package domain

import "fmt"

// Sentinel-style domain errors. The application layer translates these
// into its own taxonomy; they never cross the HTTP boundary directly.

// ValidationError marks malformed or empty input rejected by an entity.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NewValidationError builds a ValidationError with the given message.
func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

// NotFoundError marks an entity that was looked up by id and is absent.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Entity, e.ID)
}

// NewPostNotFoundError reports an absent post.
func NewPostNotFoundError(id string) *NotFoundError {
	return &NotFoundError{Entity: "post", ID: id}
}

// NewCommentNotFoundError reports an absent comment.
func NewCommentNotFoundError(id string) *NotFoundError {
	return &NotFoundError{Entity: "comment", ID: id}
}

// NewUserNotFoundError reports an absent user.
func NewUserNotFoundError(id string) *NotFoundError {
	return &NotFoundError{Entity: "user", ID: id}
}

// UnauthorizedError marks an authenticated user acting on an entity they
// do not own.
type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string { return e.Message }

// NewUnauthorizedError builds an UnauthorizedError with the given message.
func NewUnauthorizedError(msg string) *UnauthorizedError {
	return &UnauthorizedError{Message: msg}
}
