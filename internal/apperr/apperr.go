// Package apperr defines the typed errors business code raises and the HTTP
// boundary translates into the response envelope.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindBusiness
	KindAuth
	KindConflict
)

// Error codes surfaced in the response envelope.
const (
	CodeMissingInput         = "MISSING_INPUT"
	CodeInvalidToken         = "INVALID_TOKEN"
	CodeAccountNotFound      = "ACCOUNT_NOT_FOUND"
	CodeOrganizationNotFound = "ORGANIZATION_NOT_FOUND"
	CodeAlreadyAttached      = "ALREADY_ATTACHED"
	CodeDuplicateAccount     = "DUPLICATE_ACCOUNT"
	CodeIdentityLookupFailed = "IDENTITY_LOOKUP_FAILED"
	CodeInternal             = "INTERNAL_ERROR"
)

type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func Wrap(kind Kind, code, message string, err error) *Error {
	return &Error{Kind: kind, Code: code, Message: message, Err: err}
}

func Validation(code, message string) *Error { return New(KindValidation, code, message) }
func Business(code, message string) *Error   { return New(KindBusiness, code, message) }
func Auth(code, message string) *Error       { return New(KindAuth, code, message) }
func Conflict(code, message string) *Error   { return New(KindConflict, code, message) }

// KindOf reports the kind of err, or KindInternal for untyped errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// CodeOf reports the code of err, or CodeInternal for untyped errors.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// MessageOf reports the caller-facing message of err. Untyped errors fall back
// to Error() so the envelope is never empty.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code string) bool {
	return CodeOf(err) == code
}
