// Package errors defines typed application errors for classified failure
// reporting across handlers and services.
package errors

import (
	"fmt"
)

// AppError carries a failure classification alongside the message so handlers
// can map internal failures to stable API error codes.
type AppError struct {
	Type    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Error type constants
const (
	ErrorTypeConfigurationInvalid = "CONFIGURATION_INVALID"
	ErrorTypeProviderInvalid      = "PROVIDER_INVALID"
	ErrorTypeProviderNotFound     = "PROVIDER_NOT_FOUND"
	ErrorTypeCatalogFailure       = "CATALOG_FAILURE"
	ErrorTypeStoreFailure         = "STORE_FAILURE"
	ErrorTypeUnauthorized         = "UNAUTHORIZED"
)

// New creates a new AppError
func New(errorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
	}
}

// NewConfigurationError creates a configuration-related error
func NewConfigurationError(message string, cause error) *AppError {
	return New(ErrorTypeConfigurationInvalid, message, cause)
}

// NewProviderInvalidError flags a malformed provider descriptor.
func NewProviderInvalidError(message string) *AppError {
	return New(ErrorTypeProviderInvalid, message, nil)
}

// NewProviderNotFoundError reports a lookup for an unknown provider key.
func NewProviderNotFoundError(key string) *AppError {
	return New(ErrorTypeProviderNotFound, fmt.Sprintf("provider %q not found", key), nil)
}

// NewCatalogError creates a catalog lookup error
func NewCatalogError(message string, cause error) *AppError {
	return New(ErrorTypeCatalogFailure, message, cause)
}

// NewStoreError creates a persistence error
func NewStoreError(message string, cause error) *AppError {
	return New(ErrorTypeStoreFailure, message, cause)
}
