package model

import (
	"errors"
	"fmt"
	"time"
)

// Kind classifies an Error for callers and for the transport layer.
type Kind int

const (
	KindInternal Kind = iota
	KindInvalidArgument
	KindPermissionDenied
	KindNotFound
	KindAborted
	KindRateLimitExceeded
	KindVerificationFailed
	KindUnauthenticated
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid_argument"
	case KindPermissionDenied:
		return "permission_denied"
	case KindNotFound:
		return "not_found"
	case KindAborted:
		return "aborted"
	case KindRateLimitExceeded:
		return "rate_limit_exceeded"
	case KindVerificationFailed:
		return "verification_failed"
	case KindUnauthenticated:
		return "unauthenticated"
	default:
		return "internal"
	}
}

// Error is a classified, terminal error returned by the backup services.
type Error struct {
	Kind    Kind
	Message string
	// RetryAfter is set for KindRateLimitExceeded.
	RetryAfter time.Duration
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so the sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrInternal           = &Error{Kind: KindInternal, Message: "internal error"}
	ErrInvalidArgument    = &Error{Kind: KindInvalidArgument, Message: "invalid argument"}
	ErrPermissionDenied   = &Error{Kind: KindPermissionDenied, Message: "permission denied"}
	ErrNotFound           = &Error{Kind: KindNotFound, Message: "not found"}
	ErrAborted            = &Error{Kind: KindAborted, Message: "aborted"}
	ErrRateLimitExceeded  = &Error{Kind: KindRateLimitExceeded, Message: "rate limit exceeded"}
	ErrVerificationFailed = &Error{Kind: KindVerificationFailed, Message: "verification failed"}
	ErrUnauthenticated    = &Error{Kind: KindUnauthenticated, Message: "unauthenticated"}

	// ErrConflict is returned by stores when an optimistic update keeps losing races.
	ErrConflict = &Error{Kind: KindAborted, Message: "concurrent update conflict"}
)

func NewErrInternal(message string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: cause}
}

func NewErrInvalidArgument(message string) *Error {
	return &Error{Kind: KindInvalidArgument, Message: message}
}

func NewErrPermissionDenied(message string) *Error {
	return &Error{Kind: KindPermissionDenied, Message: message}
}

func NewErrNotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func NewErrAborted(message string) *Error {
	return &Error{Kind: KindAborted, Message: message}
}

func NewErrRateLimitExceeded(retryAfter time.Duration) *Error {
	return &Error{Kind: KindRateLimitExceeded, Message: "rate limit exceeded", RetryAfter: retryAfter}
}

func NewErrVerificationFailed(message string) *Error {
	return &Error{Kind: KindVerificationFailed, Message: message}
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
