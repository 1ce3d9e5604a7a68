package service

import "errors"

// Error taxonomy.  Every error returned by this package matches exactly
// one of these with errors.Is; handlers map them onto status codes.
var (
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrStore        = errors.New("store error")
)

// Error pairs a taxonomy kind with a message that is safe to show clients.
// The underlying cause, if any, stays available to errors.Is/As and logs.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// Message returns the client-safe message carried by err, or a generic one.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal server error"
}

func validationError(msg string) error {
	return &Error{Kind: ErrValidation, Message: msg}
}

func storeError(err error) error {
	return &Error{Kind: ErrStore, Message: "database error", Err: err}
}

// Auth failures share one message per entry point so callers cannot tell
// which check failed.
const (
	msgInvalidCredentials = "invalid email or password"
	msgInvalidToken       = "invalid or expired token"
)

var (
	errInvalidCredentials = &Error{Kind: ErrUnauthorized, Message: msgInvalidCredentials}
	errInvalidToken       = &Error{Kind: ErrUnauthorized, Message: msgInvalidToken}
	errTripNotFound       = &Error{Kind: ErrNotFound, Message: "trip not found"}
	errEmailRegistered    = &Error{Kind: ErrConflict, Message: "email already registered"}
)
