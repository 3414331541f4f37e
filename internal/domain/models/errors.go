package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures so the transport layer can map them to responses.
type ErrorKind string

const (
	KindValidation   ErrorKind = "VALIDATION"
	KindInvalidRange ErrorKind = "INVALID_RANGE"
	KindNotFound     ErrorKind = "NOT_FOUND"
	KindDuplicate    ErrorKind = "DUPLICATE"
	KindOverpayment  ErrorKind = "OVERPAYMENT"
	KindPersistence  ErrorKind = "PERSISTENCE"
	KindConflict     ErrorKind = "CONFLICT"
)

// Error is the single error type returned by the services.
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

// Is matches any *Error of the same kind, so sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is checks.
var (
	ErrValidation   = &Error{Kind: KindValidation, Message: "validation failed"}
	ErrInvalidRange = &Error{Kind: KindInvalidRange, Message: "invalid date range"}
	ErrNotFound     = &Error{Kind: KindNotFound, Message: "record not found"}
	ErrDuplicate    = &Error{Kind: KindDuplicate, Message: "duplicate record"}
	ErrOverpayment  = &Error{Kind: KindOverpayment, Message: "amount exceeds pending balance"}
	ErrPersistence  = &Error{Kind: KindPersistence, Message: "store operation failed"}
	ErrConflict     = &Error{Kind: KindConflict, Message: "record was modified concurrently"}
)

// ValidationError reports missing or malformed input.
func ValidationError(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// InvalidRangeError reports an unknown date range token.
func InvalidRangeError(token string) *Error {
	return &Error{Kind: KindInvalidRange, Message: fmt.Sprintf("invalid date range %q", token)}
}

// NotFoundError reports a missing record.
func NotFoundError(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// DuplicateError reports an integrity violation or a repeated submission.
func DuplicateError(format string, args ...any) *Error {
	return &Error{Kind: KindDuplicate, Message: fmt.Sprintf(format, args...)}
}

// OverpaymentError reports a repayment larger than the pending balance.
func OverpaymentError(amount, pending float64) *Error {
	return &Error{Kind: KindOverpayment, Message: fmt.Sprintf("repayment %.2f exceeds pending amount %.2f", amount, pending)}
}

// ConflictError reports a lost optimistic-concurrency race.
func ConflictError(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// PersistenceError wraps a store failure. Errors that already carry a kind are returned untouched.
func PersistenceError(op string, err error) error {
	if err == nil {
		return nil
	}
	var typed *Error
	if errors.As(err, &typed) {
		return err
	}
	return &Error{Kind: KindPersistence, Message: op, Err: err}
}

// KindOf returns the kind of err, or an empty kind for foreign errors.
func KindOf(err error) ErrorKind {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Kind
	}
	return ""
}
