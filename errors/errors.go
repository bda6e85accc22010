// Package errors provides standardized error handling patterns for the
// CitOmni kernel. It includes error classification, standard error variables,
// and helper functions for consistent error wrapping across the build,
// persistence, and load paths.
package errors

import (
	"errors"
	"fmt"
)

// ErrorClass represents the classification of errors for handling purposes
type ErrorClass int

const (
	// ErrorTransient represents temporary errors (I/O hiccups) that a caller
	// may choose to retry by re-running the whole build
	ErrorTransient ErrorClass = iota
	// ErrorInvalid represents errors due to invalid layer payloads or
	// malformed artifacts
	ErrorInvalid
	// ErrorFatal represents unrecoverable errors that must abort the
	// operation with no artifact written
	ErrorFatal
)

// String returns the string representation of ErrorClass
func (ec ErrorClass) String() string {
	switch ec {
	case ErrorTransient:
		return "transient"
	case ErrorInvalid:
		return "invalid"
	case ErrorFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Standard error variables for the composition pipeline
var (
	// Layer resolution errors
	ErrLayerNotFound    = errors.New("layer source not found")
	ErrMalformedPayload = errors.New("layer payload is not a mapping")
	ErrDuplicateLayer   = errors.New("duplicate layer order position")
	ErrUnknownMode      = errors.New("unknown execution mode")
	ErrUnknownKind      = errors.New("unknown artifact kind")

	// Validation errors
	ErrMissingRouteField   = errors.New("route entry missing required field")
	ErrUnresolvableService = errors.New("unresolvable service definition")
	ErrInvalidOptionValue  = errors.New("service option value is not declarative data")

	// Persistence and load errors
	ErrCacheWrite       = errors.New("cache artifact write failed")
	ErrArtifactNotFound = errors.New("cache artifact not found")
	ErrArtifactCorrupt  = errors.New("cache artifact corrupt")

	// Mirror/distribution errors
	ErrMirrorUnavailable = errors.New("artifact mirror unavailable")
)

// ClassifiedError wraps an error with its classification
type ClassifiedError struct {
	Class     ErrorClass
	Err       error
	Message   string
	Component string
	Operation string
}

// Error implements the error interface
func (ce *ClassifiedError) Error() string {
	if ce.Message != "" {
		return ce.Message
	}
	return ce.Err.Error()
}

// Unwrap returns the underlying error
func (ce *ClassifiedError) Unwrap() error {
	return ce.Err
}

// IsTransient checks if an error is transient
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class == ErrorTransient
	}

	return errors.Is(err, ErrMirrorUnavailable)
}

// IsFatal checks if an error is fatal and must abort the operation
func IsFatal(err error) bool {
	if err == nil {
		return false
	}

	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class == ErrorFatal
	}

	return errors.Is(err, ErrCacheWrite) ||
		errors.Is(err, ErrArtifactNotFound) ||
		errors.Is(err, ErrArtifactCorrupt)
}

// IsInvalid checks if an error is due to invalid layer input
func IsInvalid(err error) bool {
	if err == nil {
		return false
	}

	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class == ErrorInvalid
	}

	return errors.Is(err, ErrLayerNotFound) ||
		errors.Is(err, ErrMalformedPayload) ||
		errors.Is(err, ErrDuplicateLayer) ||
		errors.Is(err, ErrMissingRouteField) ||
		errors.Is(err, ErrUnresolvableService) ||
		errors.Is(err, ErrInvalidOptionValue)
}

// Classify returns the error class for an error
func Classify(err error) ErrorClass {
	if err == nil {
		return ErrorTransient // Default for nil
	}

	if IsInvalid(err) {
		return ErrorInvalid
	}
	if IsTransient(err) {
		return ErrorTransient
	}

	// Unknown errors abort the build; nothing in this pipeline is safe to
	// continue past an unclassified failure.
	return ErrorFatal
}

// newClassified creates a new classified error
// This is an internal helper - use WrapTransient(), WrapFatal(), or WrapInvalid() instead.
func newClassified(class ErrorClass, err error, component, operation, message string) *ClassifiedError {
	return &ClassifiedError{
		Class:     class,
		Err:       err,
		Message:   message,
		Component: component,
		Operation: operation,
	}
}

// Wrap creates a standardized error with context following the pattern:
// "component.method: action failed: %w"
func Wrap(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s.%s: %s failed: %w", component, method, action, err)
}

// WrapTransient wraps an error as transient with context
func WrapTransient(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrappedErr := Wrap(err, component, method, action)
	return newClassified(ErrorTransient, wrappedErr, component, method, wrappedErr.Error())
}

// WrapFatal wraps an error as fatal with context
func WrapFatal(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrappedErr := Wrap(err, component, method, action)
	return newClassified(ErrorFatal, wrappedErr, component, method, wrappedErr.Error())
}

// WrapInvalid wraps an error as invalid with context
func WrapInvalid(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrappedErr := Wrap(err, component, method, action)
	return newClassified(ErrorInvalid, wrappedErr, component, method, wrappedErr.Error())
}
