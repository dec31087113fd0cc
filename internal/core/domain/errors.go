package domain

import (
	"errors"
	"fmt"
)

// Local validation failures.
var (
	ErrValidation     = errors.New("validation failed")
	ErrInvalidProfile = errors.New("user profile incomplete")
	ErrMissingToken   = errors.New("missing session token")
	ErrUnknownRole    = errors.New("unknown role")
	ErrInvalidImage   = errors.New("invalid image")
)

// Failures surfaced by the request pipeline.
var (
	ErrUnauthenticated      = errors.New("session expired, please log in again")
	ErrPayloadTooLarge      = errors.New("file is too large")
	ErrUnsupportedMediaType = errors.New("unsupported file type")
	ErrNotFound             = errors.New("resource not found")
	ErrServer               = errors.New("server error")
	ErrConnection           = errors.New("connection error: check your network and that the server is running")
	ErrCanceled             = errors.New("request canceled")
)

// Server-side outcomes shared with the fake API.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrForbidden          = errors.New("access forbidden")
	ErrIncompleteReport   = errors.New("report data incomplete")
)

// APIError is returned by the request pipeline for every failed call.
// Message is what the caller should show to the user; Kind is one of the
// pipeline sentinels above so callers can branch with errors.Is.
type APIError struct {
	Status  int // 0 when no response was received
	Message string
	Kind    error
	Cause   error // transport error, if any
}

func (e *APIError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
	}
	return e.Message
}

func (e *APIError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// UserMessage returns the text a front end should display for err.
func UserMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
