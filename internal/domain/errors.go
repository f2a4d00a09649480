package domain

import "errors"

// Error taxonomy for the API. Handlers map these to HTTP statuses; everything
// unrecognized becomes a 500 with a generic message so store detail never
// reaches callers.
var (
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrInsufficientBalance = errors.New("insufficient points balance")
)

// ValidationError carries a caller-facing message for malformed or missing input.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Validation(msg string) error { return &ValidationError{Msg: msg} }

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// NotFound wraps ErrNotFound with a subject-specific message.
func NotFound(msg string) error { return &taggedError{tag: ErrNotFound, msg: msg} }

// Conflict wraps ErrConflict with a caller-facing message.
func Conflict(msg string) error { return &taggedError{tag: ErrConflict, msg: msg} }

type taggedError struct {
	tag error
	msg string
}

func (e *taggedError) Error() string { return e.msg }
func (e *taggedError) Unwrap() error { return e.tag }
