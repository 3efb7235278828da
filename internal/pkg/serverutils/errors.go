package serverutils

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// ErrorKind classifies failures so the transport layer can map them to
// status codes without string matching.
type ErrorKind string

const (
	KindInvalidQuery     ErrorKind = "invalid_query"
	KindSessionNotFound  ErrorKind = "session_not_found"
	KindResourceNotFound ErrorKind = "resource_not_found"
	KindGenerationError  ErrorKind = "generation_error"
	KindPersistenceError ErrorKind = "persistence_error"
)

type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) StatusCode() int {
	switch e.Kind {
	case KindInvalidQuery:
		return fiber.StatusBadRequest
	case KindSessionNotFound, KindResourceNotFound:
		return fiber.StatusNotFound
	case KindGenerationError:
		return fiber.StatusBadGateway
	case KindPersistenceError:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

func NewInvalidQuery(message string) *AppError {
	return &AppError{Kind: KindInvalidQuery, Message: message}
}

func NewSessionNotFound(sessionId string) *AppError {
	return &AppError{Kind: KindSessionNotFound, Message: fmt.Sprintf("session %s not found", sessionId)}
}

func NewResourceNotFound(resourceId string) *AppError {
	return &AppError{Kind: KindResourceNotFound, Message: fmt.Sprintf("audio resource %s not found", resourceId)}
}

func NewGenerationError(err error) *AppError {
	return &AppError{Kind: KindGenerationError, Message: "response generation failed", Err: err}
}

func NewPersistenceError(err error) *AppError {
	return &AppError{Kind: KindPersistenceError, Message: "conversation could not be persisted", Err: err}
}

// AsAppError extracts an AppError from a wrapped chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
