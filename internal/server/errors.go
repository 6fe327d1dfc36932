// Package server provides the HTTP REST API for the ATS optimizer.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/ats-optimizer/internal/session"
)

// ErrTokenInvalid indicates a missing, malformed, or expired session token.
type ErrTokenInvalid struct {
	Reason string
}

func (e *ErrTokenInvalid) Error() string {
	return fmt.Sprintf("invalid session token: %s", e.Reason)
}

// ErrTokenMismatch indicates the token is valid but scoped to another session.
type ErrTokenMismatch struct{}

func (e *ErrTokenMismatch) Error() string {
	return "token does not grant access to this session"
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var invalidIndex *session.InvalidIndexError
	var notFound *session.ErrNotFound

	switch {
	case errors.As(err, &invalidIndex):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	default:
	}

	switch err.(type) {
	case *ErrTokenInvalid, *ErrTokenMismatch:
		return http.StatusUnauthorized
	case *ErrValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
