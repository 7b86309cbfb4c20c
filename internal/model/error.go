package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody carries the error type, message and optional details.
type ErrorBody struct {
	Type    string         `json:"type"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeValidation         = "ValidationError"
	ErrCodeInvalidIdentifier  = "InvalidIdentifier"
	ErrCodeProductNotFound    = "ProductNotFound"
	ErrCodeDataFormat         = "InvalidProductData"
	ErrCodeSourceUnavailable  = "RepositoryError"
	ErrCodeUnauthorised       = "Unauthorized"
	ErrCodeNotFound           = "NotFound"
	ErrCodeMethodNotAllowed   = "MethodNotAllowed"
	ErrCodeServiceUnavailable = "ServiceUnavailable"
	ErrCodeInternalError      = "InternalError"
)

// DomainError is the single error type raised by the catalog and the
// comparison service. Kinds are told apart by Code.
type DomainError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
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

// Is matches any DomainError carrying the same code, so callers can use the
// kind sentinels below with errors.Is.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error kinds, for use with errors.Is.
var (
	ErrValidation        = NewDomainError(ErrCodeValidation, "validation failed")
	ErrInvalidIdentifier = NewDomainError(ErrCodeInvalidIdentifier, "invalid product identifier")
	ErrNotFound          = NewDomainError(ErrCodeProductNotFound, "product not found")
	ErrDataFormat        = NewDomainError(ErrCodeDataFormat, "invalid product data")
	ErrSourceUnavailable = NewDomainError(ErrCodeSourceUnavailable, "product source unavailable")
)

// NewValidationError reports a request whose shape breaks the batch policy.
func NewValidationError(message string) *DomainError {
	return NewDomainError(ErrCodeValidation, message)
}

// NewInvalidIdentifierError reports a value that is not a product identifier.
func NewInvalidIdentifierError(value string) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidIdentifier,
		Message: fmt.Sprintf("invalid product identifier %q", value),
		Details: map[string]any{"value": value},
	}
}

// NewNotFoundError reports that none of the requested products exist.
func NewNotFoundError(ids ...uuid.UUID) *DomainError {
	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = id.String()
	}

	message := "product not found"
	if len(ids) == 1 {
		message = fmt.Sprintf("product with ID '%s' not found", strs[0])
	} else if len(ids) > 1 {
		message = fmt.Sprintf("products not found: %s", strings.Join(strs, ", "))
	}

	return &DomainError{
		Code:    ErrCodeProductNotFound,
		Message: message,
		Details: map[string]any{"requested_ids": strs},
	}
}

// NewDataFormatError reports a source whose content cannot form a catalog.
func NewDataFormatError(format string, args ...any) *DomainError {
	return NewDomainError(ErrCodeDataFormat, fmt.Sprintf(format, args...))
}

// NewSourceUnavailableError reports a source that could not be read.
func NewSourceUnavailableError(location string, err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeSourceUnavailable,
		Message: fmt.Sprintf("product source %s unavailable", location),
		Details: map[string]any{"location": location},
		Err:     err,
	}
}

// AsDomainError extracts the DomainError from an error chain, if any.
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
