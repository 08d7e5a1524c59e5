package services

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for callers; the API maps it to a status and a
// fixed message.
type Kind string

const (
	Unauthenticated    Kind = "UNAUTHENTICATED"
	InvalidToken       Kind = "INVALID_TOKEN"
	UserNotFound       Kind = "USER_NOT_FOUND"
	TargetNotFound     Kind = "TARGET_NOT_FOUND"
	NotFound           Kind = "NOT_FOUND"
	InvalidCredentials Kind = "INVALID_CREDENTIALS"
	ValidationError    Kind = "VALIDATION_ERROR"
	SelfRequest        Kind = "SELF_REQUEST"
	NotFriends         Kind = "NOT_FRIENDS"
	DuplicateEmail     Kind = "DUPLICATE_EMAIL"
	DuplicateNickname  Kind = "DUPLICATE_NICKNAME"
	AmbiguousNickname  Kind = "AMBIGUOUS_NICKNAME"
	StoreFailure       Kind = "STORE_FAILURE"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same kind, so errors.Is(err, &Error{Kind: k})
// works without comparing messages.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind && t.Message == "" && t.Err == nil
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func storeFailure(op string, err error) *Error {
	return &Error{Kind: StoreFailure, Message: op, Err: err}
}

// KindOf reports the kind of err, StoreFailure for untyped errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return StoreFailure
}

// FieldError is one failed field check.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors carries every failed field of one input.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s %s", v[0].Field, v[0].Message)
}
