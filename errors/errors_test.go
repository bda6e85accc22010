package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorClass_String(t *testing.T) {
	tests := []struct {
		class    ErrorClass
		expected string
	}{
		{ErrorTransient, "transient"},
		{ErrorInvalid, "invalid"},
		{ErrorFatal, "fatal"},
		{ErrorClass(999), "unknown"},
	}

	for _, test := range tests {
		t.Run(test.expected, func(t *testing.T) {
			result := test.class.String()
			if result != test.expected {
				t.Errorf("expected %s, got %s", test.expected, result)
			}
		})
	}
}

func TestIsInvalid(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"layer not found", ErrLayerNotFound, true},
		{"malformed payload", ErrMalformedPayload, true},
		{"duplicate layer", ErrDuplicateLayer, true},
		{"missing route field", ErrMissingRouteField, true},
		{"unresolvable service", ErrUnresolvableService, true},
		{"invalid option value", ErrInvalidOptionValue, true},
		{"cache write", ErrCacheWrite, false},
		{"artifact not found", ErrArtifactNotFound, false},
		{"wrapped", fmt.Errorf("collect: %w", ErrLayerNotFound), true},
		{"classified invalid", &ClassifiedError{Class: ErrorInvalid, Err: fmt.Errorf("test")}, true},
		{"classified fatal", &ClassifiedError{Class: ErrorFatal, Err: fmt.Errorf("test")}, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := IsInvalid(test.err)
			if result != test.expected {
				t.Errorf("expected %v, got %v for error: %v", test.expected, result, test.err)
			}
		})
	}
}

func TestIsFatal(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"cache write", ErrCacheWrite, true},
		{"artifact not found", ErrArtifactNotFound, true},
		{"artifact corrupt", ErrArtifactCorrupt, true},
		{"layer not found", ErrLayerNotFound, false},
		{"mirror unavailable", ErrMirrorUnavailable, false},
		{"classified fatal", &ClassifiedError{Class: ErrorFatal, Err: fmt.Errorf("test")}, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := IsFatal(test.err)
			if result != test.expected {
				t.Errorf("expected %v, got %v for error: %v", test.expected, result, test.err)
			}
		})
	}
}

func TestIsTransient(t *testing.T) {
	if !IsTransient(ErrMirrorUnavailable) {
		t.Error("mirror unavailable should be transient")
	}
	if IsTransient(ErrCacheWrite) {
		t.Error("cache write failure should not be transient")
	}
	if IsTransient(nil) {
		t.Error("nil should not be transient")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorClass
	}{
		{"invalid sentinel", ErrMalformedPayload, ErrorInvalid},
		{"transient sentinel", ErrMirrorUnavailable, ErrorTransient},
		{"fatal sentinel", ErrCacheWrite, ErrorFatal},
		{"unknown error", fmt.Errorf("something odd"), ErrorFatal},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := Classify(test.err); got != test.expected {
				t.Errorf("expected %v, got %v", test.expected, got)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	base := errors.New("slot file missing")
	wrapped := Wrap(base, "Collector", "Collect", "read provider slot")

	expected := "Collector.Collect: read provider slot failed: slot file missing"
	if wrapped.Error() != expected {
		t.Errorf("expected %q, got %q", expected, wrapped.Error())
	}
	if !errors.Is(wrapped, base) {
		t.Error("wrapped error should unwrap to base")
	}
	if Wrap(nil, "a", "b", "c") != nil {
		t.Error("wrapping nil should return nil")
	}
}

func TestWrapInvalid_Classification(t *testing.T) {
	wrapped := WrapInvalid(ErrMissingRouteField, "Validator", "Validate", "check route entry")

	var ce *ClassifiedError
	if !errors.As(wrapped, &ce) {
		t.Fatal("expected ClassifiedError")
	}
	if ce.Class != ErrorInvalid {
		t.Errorf("expected invalid class, got %v", ce.Class)
	}
	if ce.Component != "Validator" {
		t.Errorf("expected component Validator, got %s", ce.Component)
	}
	if !errors.Is(wrapped, ErrMissingRouteField) {
		t.Error("classification must preserve the sentinel chain")
	}
}

func TestWrapFatal_PreservesChain(t *testing.T) {
	inner := fmt.Errorf("rename: %w", ErrCacheWrite)
	wrapped := WrapFatal(inner, "Writer", "Persist", "swap artifact")

	if !errors.Is(wrapped, ErrCacheWrite) {
		t.Error("fatal wrap must preserve the sentinel chain")
	}
	if !IsFatal(wrapped) {
		t.Error("fatal wrap must classify as fatal")
	}
}
