package util

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// FieldError describes a single invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Fields     []FieldError
	RetryAfter time.Duration
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

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status}
}

// NewValidationError reports invalid request fields as a 400.
func NewValidationError(fields ...FieldError) error {
	return &DomainError{
		Code:       "VALIDATION_FAILED",
		Message:    "validation failed",
		HTTPStatus: http.StatusBadRequest,
		Fields:     fields,
	}
}

// NewRateLimited reports an exhausted request budget as a 429.
func NewRateLimited(retryAfter time.Duration) error {
	return &DomainError{
		Code:       "RATE_LIMIT_EXCEEDED",
		Message:    "Too many requests, please try again later.",
		HTTPStatus: http.StatusTooManyRequests,
		RetryAfter: retryAfter,
	}
}

// NewUnauthenticated reports a missing or unverifiable credential as a 401.
func NewUnauthenticated(message string) error {
	return NewDomainError("UNAUTHENTICATED", message, http.StatusUnauthorized)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
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
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}
