package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so callers can decide whether to retry,
// prompt the subscriber, or abort.
type Kind string

const (
	KindValidation         Kind = "validation"
	KindGatewayUnavailable Kind = "gateway_unavailable"
	KindVerificationFailed Kind = "verification_failed"
	KindAmountMismatch     Kind = "amount_mismatch"
	KindPrecondition       Kind = "precondition_failed"
	KindPersistence        Kind = "persistence"
	KindNotFound           Kind = "not_found"
)

// Sentinels for errors.Is matching by kind.
var (
	ErrValidation         = &Error{Kind: KindValidation}
	ErrGatewayUnavailable = &Error{Kind: KindGatewayUnavailable}
	ErrVerificationFailed = &Error{Kind: KindVerificationFailed}
	ErrAmountMismatch     = &Error{Kind: KindAmountMismatch}
	ErrPrecondition       = &Error{Kind: KindPrecondition}
	ErrPersistence        = &Error{Kind: KindPersistence}
	ErrNotFound           = &Error{Kind: KindNotFound}
)

// Error is a classified domain failure.
type Error struct {
	Kind   Kind
	Op     string
	Reason string
	Err    error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so errors.Is(err, ErrValidation)
// works regardless of op or reason.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// NewError builds a classified error.
func NewError(kind Kind, op, reason string) *Error {
	return &Error{Kind: kind, Op: op, Reason: reason}
}

// Errorf builds a classified error with a formatted reason.
func Errorf(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Reason: fmt.Sprintf(format, args...)}
}

// Wrap classifies err. A nil err yields nil. An err that is already
// classified keeps its kind.
func Wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) {
		return err
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the kind of err, or "" if it is not classified.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// IsKind reports whether err is classified as kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Retryable reports whether the same request may succeed later unchanged.
func Retryable(err error) bool {
	switch KindOf(err) {
	case KindGatewayUnavailable, KindPersistence:
		return true
	default:
		return false
	}
}
