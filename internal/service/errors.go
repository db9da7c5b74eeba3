// Package service contains the application services: they orchestrate
// the domain layer, translate domain errors into the application error
// taxonomy, and shape pagination responses.
package service

import (
	"errors"
	"fmt"

	"quill/internal/domain"
)

// ErrorKind classifies an application error for the transport adapters.
type ErrorKind string

const (
	KindValidation     ErrorKind = "VALIDATION_ERROR"
	KindAuthentication ErrorKind = "AUTHENTICATION_ERROR"
	KindForbidden      ErrorKind = "FORBIDDEN"
	KindNotFound       ErrorKind = "NOT_FOUND"
	KindApplication    ErrorKind = "APPLICATION_ERROR"
)

// AppError is the only error type that crosses the application
// boundary. Domain error types never leak past this layer.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewValidationError reports malformed input the caller can fix.
func NewValidationError(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message}
}

// NewNotFoundError reports an absent entity.
func NewNotFoundError(message string) *AppError {
	return &AppError{Kind: KindNotFound, Message: message}
}

// NewForbiddenError reports an authenticated but unauthorized action.
func NewForbiddenError(message string) *AppError {
	return &AppError{Kind: KindForbidden, Message: message}
}

// NewAuthenticationError reports a failure to establish identity.
func NewAuthenticationError(message string) *AppError {
	return &AppError{Kind: KindAuthentication, Message: message}
}

// NewApplicationError wraps an unexpected infrastructure failure.
func NewApplicationError(message string, err error) *AppError {
	return &AppError{Kind: KindApplication, Message: message, Err: err}
}

// translateError maps domain errors onto the taxonomy. Anything
// unrecognized is wrapped as a generic application error with the given
// message.
func translateError(err error, fallback string) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return NewValidationError(validationErr.Message)
	}
	var notFoundErr *domain.NotFoundError
	if errors.As(err, &notFoundErr) {
		return NewNotFoundError(notFoundErr.Error())
	}
	var unauthorizedErr *domain.UnauthorizedError
	if errors.As(err, &unauthorizedErr) {
		return NewForbiddenError(unauthorizedErr.Message)
	}
	return NewApplicationError(fallback, err)
}
