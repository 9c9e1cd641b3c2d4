package core

import "github.com/pkg/errors"

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

type notFound struct {
	message string
}

// NewNotFoundError returns an error indicating that a referenced entity is absent.
// Idempotent callers may treat it as "already deleted".
func NewNotFoundError(msg string) error {
	return &notFound{message: msg}
}

func (e notFound) Error() string {
	return e.message
}

func IsNotFound(err error) bool {
	_, ok := errors.Cause(err).(*notFound)
	return ok
}

type notAuthenticated struct {
	message string
}

// NewAuthenticationError returns an error indicating that no authenticated
// principal was supplied where one is required.
func NewAuthenticationError(msg string) error {
	return &notAuthenticated{message: msg}
}

func (e notAuthenticated) Error() string {
	return e.message
}

func IsNotAuthenticated(err error) bool {
	_, ok := errors.Cause(err).(*notAuthenticated)
	return ok
}

type permissionDenied struct {
	message string
}

// NewPermissionError returns an error indicating that the principal lacks the
// rights for an operation; retrying with the same principal cannot succeed.
func NewPermissionError(msg string) error {
	return &permissionDenied{message: msg}
}

func (e permissionDenied) Error() string {
	return e.message
}

func IsPermissionDenied(err error) bool {
	_, ok := errors.Cause(err).(*permissionDenied)
	return ok
}

type conflict struct {
	message string
}

// NewConflictError returns an error indicating that an operation would leave
// stored state inconsistent (eg. deleting a category still in use).
func NewConflictError(msg string) error {
	return &conflict{message: msg}
}

func (e conflict) Error() string {
	return e.message
}

func IsConflict(err error) bool {
	_, ok := errors.Cause(err).(*conflict)
	return ok
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
