package util

import (
	"errors"
	"fmt"
)

// Error codes surfaced to the operator.
const (
	CodeValidation            = "VALIDATION_FAILED"
	CodeAlreadyRegistered     = "ALREADY_REGISTERED"
	CodeNotFound              = "NOT_FOUND"
	CodeInvalidState          = "INVALID_STATE"
	CodeTechnicianUnavailable = "TECHNICIAN_UNAVAILABLE"
	CodeInvalidTransition     = "INVALID_TRANSITION"
	CodeStorageUnavailable    = "STORAGE_UNAVAILABLE"
)

// DomainError standardizes application errors.
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

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidation, message, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Details: details,
	}
}

func NewAlreadyRegistered(message string, details map[string]any) error {
	return NewDomainError(CodeAlreadyRegistered, message, details)
}

func NewInvalidState(message string, details map[string]any) error {
	return NewDomainError(CodeInvalidState, message, details)
}

func NewTechnicianUnavailable(details map[string]any) error {
	return NewDomainError(CodeTechnicianUnavailable, "technician is not available", details)
}

func NewInvalidTransition(message string, details map[string]any) error {
	return NewDomainError(CodeInvalidTransition, message, details)
}

func NewStorageError(err error) error {
	return &DomainError{
		Code:    CodeStorageUnavailable,
		Message: "storage operation failed",
		Err:     err,
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
		Code:    CodeStorageUnavailable,
		Message: "storage operation failed",
		Err:     err,
	}
}

// MapError converts any error to a *DomainError, preserving nil.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	return ToDomainError(err)
}

// HasCode reports whether err is a DomainError with the given code.
func HasCode(err error, code string) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}
