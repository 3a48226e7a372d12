package errorutil

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

// PermissionDeniedMessage is the only reason ever shown for a failed role or ownership gate.
const PermissionDeniedMessage = "insufficient permission"

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
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
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

// NewFieldError reports a single invalid field.
func NewFieldError(field, message string) error {
	return NewValidationError(message, map[string]any{"field": field})
}

func NewInvalidTransition(from, to string) error {
	return NewDomainError("INVALID_TRANSITION",
		fmt.Sprintf("cannot change status from %s to %s", from, to),
		http.StatusBadRequest,
		map[string]any{"from": from, "to": to})
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewForbidden() error {
	return NewDomainError("FORBIDDEN", PermissionDeniedMessage, http.StatusForbidden, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError("CONFLICT", message, http.StatusConflict, details)
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
	if errors.Is(err, pgx.ErrNoRows) {
		return NewNotFound("resource", nil).(*DomainError)
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fromFiberError(fiberErr)
	}
	return NewInternalError(err).(*DomainError)
}

func fromFiberError(err *fiber.Error) *DomainError {
	switch err.Code {
	case http.StatusNotFound:
		return NewNotFound("route", nil).(*DomainError)
	case http.StatusMethodNotAllowed:
		return NewDomainError("METHOD_NOT_ALLOWED", "method not allowed", http.StatusMethodNotAllowed, nil)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return NewValidationError(err.Message, nil).(*DomainError)
	case http.StatusUnauthorized:
		return NewUnauthorized(err.Message).(*DomainError)
	case http.StatusForbidden:
		return NewForbidden().(*DomainError)
	case http.StatusRequestTimeout:
		return NewDomainError("TIMEOUT", "request timed out", http.StatusRequestTimeout, nil)
	}
	if err.Code >= 500 {
		return NewInternalError(err).(*DomainError)
	}
	return NewDomainError("REQUEST_FAILED", err.Message, err.Code, nil)
}

// MapError converts generic errors to DomainError.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	return ToDomainError(err)
}

// IsCode reports whether err is a DomainError carrying code.
func IsCode(err error, code string) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Code == code
}
