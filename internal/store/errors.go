package store

import (
	"errors"
	"fmt"
)

// Domain-level errors I prefer to bubble up from store implementations.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

// Code classifies an underlying store failure for caller-side handling.
type Code string

const (
	CodeUnavailable       Code = "unavailable"
	CodePermissionDenied  Code = "permission_denied"
	CodeResourceExhausted Code = "resource_exhausted"
	CodeInternal          Code = "internal"
)

// StoreError wraps a native persistence failure and carries its code so
// higher layers can classify without importing backend packages.
type StoreError struct {
	Code Code
	Err  error
}

func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("store: %s: %v", e.Code, e.Err)
	}
	return fmt.Sprintf("store: %s", e.Code)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Wrap builds a StoreError around a native error. Nil passes through.
func Wrap(code Code, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Code: code, Err: err}
}

// CodeOf extracts the classification code, or empty when err is not a
// StoreError anywhere in its chain.
func CodeOf(err error) Code {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}
