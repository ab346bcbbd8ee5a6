package errors

import (
	"errors"
	"fmt"
)

// Common error types for the course client
var (
	// Session errors
	ErrNoAccessToken     = errors.New("no access token")
	ErrNoRefreshToken    = errors.New("no refresh token available")
	ErrRefreshFailed     = errors.New("token refresh failed")
	ErrInvalidIDToken    = errors.New("invalid identity token")
	ErrManagerClosed     = errors.New("session manager closed")
	ErrPasswordsMismatch = errors.New("passwords do not match")

	// Authoring errors
	ErrBusy            = errors.New("operation already in progress")
	ErrEditorClosed    = errors.New("editor closed")
	ErrCourseNotSaved  = errors.New("course has not been saved")
	ErrMissingTitle    = errors.New("title is required")
	ErrMissingDescript = errors.New("course must have a description to be published")

	// General errors
	ErrNotFound = errors.New("not found")
	ErrInternal = errors.New("internal error")
)

// Kind tags an Error with the category callers branch on.
type Kind int

const (
	KindInternal Kind = iota
	KindNetwork
	KindValidation
	KindAuth
	KindRemote
	KindPartial
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindRemote:
		return "remote"
	case KindPartial:
		return "partial"
	default:
		return "internal"
	}
}

// Error is the normalized failure returned by every public operation.
// Detail is the human readable message shown to the user.
type Error struct {
	Kind   Kind
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String() + " error"
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a tagged error.
func New(kind Kind, detail string, err error) *Error {
	return &Error{Kind: kind, Detail: detail, Err: err}
}

func Network(err error) *Error {
	return &Error{Kind: KindNetwork, Detail: "network error: " + errString(err), Err: err}
}

func Validation(detail string, err error) *Error {
	return &Error{Kind: KindValidation, Detail: detail, Err: err}
}

func Auth(detail string, err error) *Error {
	return &Error{Kind: KindAuth, Detail: detail, Err: err}
}

func Remote(detail string) *Error {
	return &Error{Kind: KindRemote, Detail: detail}
}

// KindOf returns the Kind of the first Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

func errString(err error) string {
	if err == nil {
		return "unknown"
	}
	return err.Error()
}
