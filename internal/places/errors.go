package places

import (
	"errors"
	"fmt"
)

// Kind is a machine-readable error class. Callers branch on the kind, not
// the message: an empty result set renders differently from a broken
// upstream.
type Kind string

const (
	// KindInvalidQuery marks bad caller input, surfaced immediately.
	KindInvalidQuery Kind = "INVALID_QUERY"
	// KindUpstream marks a transport or non-2xx failure from the lookup
	// endpoint. The client performs no retries; that policy belongs to the
	// caller.
	KindUpstream Kind = "UPSTREAM"
	// KindNotFound marks a well-formed empty result at a derived accessor,
	// e.g. asking for the first place of a query that matched nothing.
	KindNotFound Kind = "NOT_FOUND"
)

// Error pairs a Kind with a human-readable message and optional cause.
type Error struct {
	Kind  Kind
	msg   string
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.msg + ": " + e.cause.Error()
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.cause }

// IsKind reports whether err is a places error of the given kind.
func IsKind(err error, kind Kind) bool {
	var pe *Error
	return errors.As(err, &pe) && pe.Kind == kind
}

func errf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, msg: fmt.Sprintf(format, args...)}
}

func wrapf(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, msg: fmt.Sprintf(format, args...), cause: cause}
}
