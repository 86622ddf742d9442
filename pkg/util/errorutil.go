package util

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes rendered in API responses.
const (
	CodeValidation         = "VALIDATION_FAILED"
	CodeConflict           = "CONFLICT"
	CodeNotFound           = "NOT_FOUND"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeUpstream           = "UPSTREAM_ERROR"
	CodeInternal           = "INTERNAL_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches another DomainError with the same code, so sentinel values work with errors.Is.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status}
}

// Client-side failures all render as 400 so the API keeps the contract the web client expects.

func NewValidationError(message string) *DomainError {
	return NewDomainError(CodeValidation, message, http.StatusBadRequest)
}

func NewConflict(message string) *DomainError {
	return NewDomainError(CodeConflict, message, http.StatusBadRequest)
}

func NewNotFound(message string) *DomainError {
	return NewDomainError(CodeNotFound, message, http.StatusBadRequest)
}

func NewInvalidCredentials(message string) *DomainError {
	return NewDomainError(CodeInvalidCredentials, message, http.StatusBadRequest)
}

func NewUnauthorized(message string) *DomainError {
	return NewDomainError(CodeUnauthorized, message, http.StatusUnauthorized)
}

func NewForbidden(message string) *DomainError {
	return NewDomainError(CodeForbidden, message, http.StatusForbidden)
}

// NewUpstreamError reports a failed call to an external backend. The cause is kept for logs only.
func NewUpstreamError(err error) *DomainError {
	return &DomainError{
		Code:       CodeUpstream,
		Message:    "Upstream service unavailable",
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

// NewInternalError wraps an infrastructure failure behind a generic message.
func NewInternalError(err error) *DomainError {
	return &DomainError{
		Code:       CodeInternal,
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return NewInternalError(err)
}
