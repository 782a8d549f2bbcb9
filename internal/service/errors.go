package service

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a service failure so the HTTP boundary can map it
// to a status code without string matching.
type ErrorKind int

const (
	KindUpstream ErrorKind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindUnauthorized
)

// Error is a tagged service error. Every error crossing the service
// boundary is either an *Error or gets classified as KindUpstream.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Kind returns the classification of err, defaulting to KindUpstream for
// anything the service layer did not tag.
func Kind(err error) ErrorKind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindUpstream
}

func validationError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func notFoundError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func conflictError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func upstreamError(msg string, err error) *Error {
	return &Error{Kind: KindUpstream, Message: msg, Err: err}
}

// Sentinels for the failure modes callers branch on.
var (
	ErrTokenExpired        = &Error{Kind: KindUnauthorized, Message: "token has expired"}
	ErrInvalidToken        = &Error{Kind: KindUnauthorized, Message: "invalid token"}
	ErrVerificationFailed  = &Error{Kind: KindUnauthorized, Message: "token verification failed"}
	ErrUserNotFound        = &Error{Kind: KindNotFound, Message: "user not found"}
	ErrNicknameTaken       = &Error{Kind: KindConflict, Message: "nickname already exists"}
	ErrInvalidResetCode    = &Error{Kind: KindValidation, Message: "invalid or expired verification code"}
	ErrPasswordPolicy      = &Error{Kind: KindValidation, Message: "password must be at least 8 characters and contain uppercase, lowercase, number, and special character"}
	ErrUnsupportedTaskType = &Error{Kind: KindValidation, Message: `unsupported queryType, use "cognito_delete"`}
)
