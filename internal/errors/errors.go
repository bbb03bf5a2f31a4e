// Package errors defines the error kinds used across the documentation pipeline.
//
// Only configuration errors stop a run. Source, path and render errors are
// reported and the pipeline continues with the next file or declaration.
package errors

import (
	"errors"
	"fmt"
)

// Kind defines the category of error.
type Kind int

const (
	KindUnknown Kind = iota
	KindInternal
	KindConfig
	KindSource
	KindPath
	KindRender
)

func (k Kind) String() string {
	switch k {
	case KindInternal:
		return "internal"
	case KindConfig:
		return "config"
	case KindSource:
		return "source"
	case KindPath:
		return "path"
	case KindRender:
		return "render"
	default:
		return "unknown"
	}
}

// Error represents a structured pipeline error.
type Error struct {
	Kind       Kind
	Message    string
	Underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Underlying)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Underlying
}

// New creates a new Error of the specified kind.
func New(kind Kind, msg string) error {
	return &Error{
		Kind:    kind,
		Message: msg,
	}
}

// Errorf creates a new Error of the specified kind with a formatted message.
func Errorf(kind Kind, format string, args ...any) error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an existing error as a new Error of the specified kind.
func Wrap(err error, kind Kind, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{
		Kind:       kind,
		Message:    msg,
		Underlying: err,
	}
}

// Wrapf wraps an existing error as a new Error of the specified kind with a formatted message.
func Wrapf(err error, kind Kind, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &Error{
		Kind:       kind,
		Message:    fmt.Sprintf(format, args...),
		Underlying: err,
	}
}

// GetKind returns the Kind of the error, or KindUnknown if it's not a pipeline error.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsFatal reports whether err must terminate the run.
// Source, path and render errors are recoverable.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	switch GetKind(err) {
	case KindSource, KindPath, KindRender:
		return false
	default:
		return true
	}
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}
