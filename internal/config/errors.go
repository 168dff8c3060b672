package config

import (
	"errors"
	"fmt"
)

// Errors returned by configuration operations.
var (
	// ErrValidationFailed indicates a setting holds an unusable value.
	ErrValidationFailed = errors.New("validation failed")

	// ErrTypeMismatch indicates the value type doesn't match the expected type.
	ErrTypeMismatch = errors.New("type mismatch")
)

// ValidationError describes a setting that could not be applied.
type ValidationError struct {
	// Syntax is the syntax the setting was resolved for, empty for global.
	Syntax string
	// Key is the setting name.
	Key string
	// Value is the rejected value.
	Value any
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Syntax != "" {
		return fmt.Sprintf("setting %s (syntax %s) = %v: %v", e.Key, e.Syntax, e.Value, e.Err)
	}
	return fmt.Sprintf("setting %s = %v: %v", e.Key, e.Value, e.Err)
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is reports ErrValidationFailed for every validation error.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

// LoadError reports a layer that failed to load.
type LoadError struct {
	Layer string
	Path  string
	Err   error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("load %s settings from %s: %v", e.Layer, e.Path, e.Err)
	}
	return fmt.Sprintf("load %s settings: %v", e.Layer, e.Err)
}

// Unwrap returns the underlying error.
func (e *LoadError) Unwrap() error {
	return e.Err
}
